package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/glowcart/storefront/internal/model"
)

// CustomerRepo encapsulates all queries against the customers table. It is
// the credential store of the auth subsystem: lookup by account name or
// mail, creation with conflict detection, and maintenance of the
// single-session refresh_token column.
type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerColumns = `id, account_name, mail, password_hash, tier, refresh_token,
    first_name, last_name, phone_number, gender, birthday, avatar_url,
    skin_profile, address, created_at, updated_at`

func scanCustomer(row *sql.Row) (model.Customer, error) {
    var c model.Customer
    err := row.Scan(&c.ID, &c.AccountName, &c.Mail, &c.PasswordHash, &c.Tier,
        &c.RefreshToken, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Gender,
        &c.Birthday, &c.AvatarURL, &c.SkinProfile, &c.Address,
        &c.CreatedAt, &c.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return c, ErrCustomerNotFound
    }
    return c, err
}

// Create inserts a new member-tier customer and returns its id. The unique
// indexes on account_name and mail surface duplicates as SQLSTATE 23505,
// which is mapped to ErrCustomerExists.
func (r *CustomerRepo) Create(ctx context.Context, accountName, mail, passwordHash string) (uint64, error) {
    var id uint64
    err := r.DB.QueryRowContext(ctx,
        `INSERT INTO customers (account_name, mail, password_hash, tier, skin_profile)
         VALUES ($1, $2, $3, $4, '{}') RETURNING id`,
        accountName, mail, passwordHash, model.MemberTierLevel).Scan(&id)
    if err != nil {
        if strings.Contains(err.Error(), "23505") {
            return 0, ErrCustomerExists
        }
        return 0, err
    }
    return id, nil
}

// GetByIdentifier fetches a customer whose account name OR mail equals the
// identifier. Returns ErrCustomerNotFound when neither matches.
func (r *CustomerRepo) GetByIdentifier(ctx context.Context, identifier string) (model.Customer, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+customerColumns+` FROM customers WHERE account_name = $1 OR mail = $1 LIMIT 1`,
        identifier)
    return scanCustomer(row)
}

// GetByID fetches a customer by primary key.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+customerColumns+` FROM customers WHERE id = $1 LIMIT 1`, id)
    return scanCustomer(row)
}

// GetByRefreshToken fetches the customer whose refresh_token column equals
// the given token. The column is the session registry for ordinary accounts:
// no match means the token was never issued or has been invalidated.
func (r *CustomerRepo) GetByRefreshToken(ctx context.Context, token string) (model.Customer, error) {
    row := r.DB.QueryRowContext(ctx,
        `SELECT `+customerColumns+` FROM customers WHERE refresh_token = $1 LIMIT 1`, token)
    return scanCustomer(row)
}

// UpdateRefreshToken overwrites the customer's refresh_token column. Passing
// an invalid NullString clears it (logout); passing a value replaces any
// previously issued token, ending the prior session.
func (r *CustomerRepo) UpdateRefreshToken(ctx context.Context, id uint64, token sql.NullString) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE customers SET refresh_token = $1, updated_at = NOW() WHERE id = $2`,
        token, id)
    return err
}

// ClearRefreshToken nulls the refresh_token column for whichever customer
// currently holds the given token. It is a no-op (nil error) when no row
// matches, which keeps logout idempotent.
func (r *CustomerRepo) ClearRefreshToken(ctx context.Context, token string) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE customers SET refresh_token = NULL, updated_at = NOW() WHERE refresh_token = $1`,
        token)
    return err
}

// ProfileUpdate carries the updatable profile fields. Nil pointers leave the
// corresponding column untouched; COALESCE in the statement below implements
// that partial-update behavior.
type ProfileUpdate struct {
    AccountName *string
    FirstName   *string
    LastName    *string
    PhoneNumber *string
    Gender      *string
    Birthday    *string // ISO date string, parsed by Postgres
    SkinProfile []byte  // JSONB payload, nil leaves the column untouched
    Address     []byte  // JSONB payload, nil leaves the column untouched
}

// UpdateProfile applies a partial profile update and returns the fresh row.
func (r *CustomerRepo) UpdateProfile(ctx context.Context, id uint64, u ProfileUpdate) (model.Customer, error) {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE customers SET
            account_name = COALESCE($1, account_name),
            first_name   = COALESCE($2, first_name),
            last_name    = COALESCE($3, last_name),
            phone_number = COALESCE($4, phone_number),
            gender       = COALESCE($5, gender),
            birthday     = COALESCE($6::date, birthday),
            skin_profile = COALESCE($7::jsonb, skin_profile),
            address      = COALESCE($8::jsonb, address),
            updated_at   = NOW()
         WHERE id = $9`,
        u.AccountName, u.FirstName, u.LastName, u.PhoneNumber, u.Gender,
        u.Birthday, u.SkinProfile, u.Address, id)
    if err != nil {
        if strings.Contains(err.Error(), "23505") {
            return model.Customer{}, ErrCustomerExists
        }
        return model.Customer{}, err
    }
    return r.GetByID(ctx, id)
}

// AccountNameTaken reports whether another customer (excluding excludeID)
// already uses the given account name.
func (r *CustomerRepo) AccountNameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(1) FROM customers WHERE account_name = $1 AND id <> $2`,
        name, excludeID).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}
