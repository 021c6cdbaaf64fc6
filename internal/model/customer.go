package model

import (
    "database/sql"
    "encoding/json"
    "time"
)

// Role codes carried in the role claim of access tokens and in login
// responses.  5150 is reserved for the single administrative identity and
// never stored in the database.
const (
    TierMember = 2001
    TierAdmin  = 5150
)

// MemberTierLevel is the customers.tier column value for ordinary accounts.
// The column holds the privilege level (1 = member), not the role code.
const MemberTierLevel = 1

// AdminUserID is the synthetic numeric id embedded in administrative access
// tokens.  It does not correspond to any customers row.
const AdminUserID uint64 = 9999

// Customer mirrors the `customers` table.  RefreshToken holds the single
// currently-valid refresh token for the account (null when logged out); a new
// login overwrites it, which silently ends any prior session.
//
// Fields:
//  ID           – primary key identifier.
//  AccountName  – unique login name.
//  Mail         – unique email address.
//  PasswordHash – bcrypt hashed password, never exposed.
//  Tier         – privilege level (MemberTierLevel for all DB-backed accounts).
//  RefreshToken – customers.refresh_token, nullable single-session column.
//  SkinProfile  – opaque JSONB profile payload.
//  Address      – opaque JSONB shipping address payload.
type Customer struct {
    ID           uint64
    AccountName  string
    Mail         string
    PasswordHash string
    Tier         int
    RefreshToken sql.NullString
    FirstName    sql.NullString
    LastName     sql.NullString
    PhoneNumber  sql.NullString
    Gender       sql.NullString
    Birthday     sql.NullTime
    AvatarURL    sql.NullString
    SkinProfile  json.RawMessage
    Address      json.RawMessage
    CreatedAt    time.Time
    UpdatedAt    time.Time
}
