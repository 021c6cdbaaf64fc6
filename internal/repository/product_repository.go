package repository

import (
    "context"
    "database/sql"
    "fmt"
    "strconv"
    "strings"

    "github.com/glowcart/storefront/internal/model"
)

// ProductRepo encapsulates catalog queries: filtered browsing, attribute
// aggregation for the sidebar, detail/related lookups, creation and the
// soft-delete lifecycle.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// ProductFilter mirrors the storefront's query parameters. Zero values mean
// "no constraint". BrandIDs/CategoryIDs come from comma-separated lists and
// match any of the given values. Min/MaxPrice constrain products to those
// with at least one variant in the range.
type ProductFilter struct {
    Search      string
    BrandIDs    []string
    CategoryIDs []uint64
    SkinType    string
    MinPrice    int64
    MaxPrice    int64
    Sort        string // "name_asc" | "price_asc" | "" (newest first)
}

// List returns active products matching the filter, with brand, category,
// variants and images embedded.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]*model.Product, error) {
    var (
        where = []string{"p.is_active = TRUE"}
        args  []any
    )
    arg := func(v any) string {
        args = append(args, v)
        return "$" + strconv.Itoa(len(args))
    }

    if f.Search != "" {
        ph := arg("%" + f.Search + "%")
        where = append(where, fmt.Sprintf("(p.name ILIKE %s OR p.name_vn ILIKE %s)", ph, ph))
    }
    if len(f.BrandIDs) > 0 {
        phs := make([]string, len(f.BrandIDs))
        for i, id := range f.BrandIDs {
            phs[i] = arg(id)
        }
        where = append(where, "p.brand_id IN ("+strings.Join(phs, ",")+")")
    }
    if len(f.CategoryIDs) > 0 {
        phs := make([]string, len(f.CategoryIDs))
        for i, id := range f.CategoryIDs {
            phs[i] = arg(id)
        }
        where = append(where, "p.category_id IN ("+strings.Join(phs, ",")+")")
    }
    if f.SkinType != "" {
        where = append(where, "p.skin_type = "+arg(f.SkinType))
    }
    if f.MinPrice > 0 || f.MaxPrice > 0 {
        min, max := f.MinPrice, f.MaxPrice
        if max <= 0 {
            max = 999999999
        }
        where = append(where, fmt.Sprintf(
            "EXISTS (SELECT 1 FROM variants v WHERE v.product_id = p.id AND v.unit_price BETWEEN %s AND %s)",
            arg(min), arg(max)))
    }

    orderBy := "p.id DESC" // default: newest first
    switch f.Sort {
    case "name_asc":
        orderBy = "p.name ASC"
    case "price_asc":
        // Cheapest variant decides the product's position.
        orderBy = "(SELECT MIN(v.unit_price) FROM variants v WHERE v.product_id = p.id) ASC"
    }

    q := `SELECT p.id, p.name, p.name_vn, p.brand_id, p.category_id,
                 p.ingredient, p.skin_type, p.description, p.is_active,
                 b.name, c.name, c.name_vn, c.category_level, c.parent_id
          FROM products p
          JOIN brands b ON b.id = p.brand_id
          JOIN categories c ON c.id = p.category_id
          WHERE ` + strings.Join(where, " AND ") + `
          ORDER BY ` + orderBy

    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*model.Product
    for rows.Next() {
        p, err := scanProductRow(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if err := r.attachVariants(ctx, out); err != nil {
        return nil, err
    }
    return out, nil
}

// GetByID fetches one product with its relations regardless of is_active so
// that admins can inspect soft-deleted rows. Returns ErrProductNotFound for
// unknown ids.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT p.id, p.name, p.name_vn, p.brand_id, p.category_id,
                p.ingredient, p.skin_type, p.description, p.is_active,
                b.name, c.name, c.name_vn, c.category_level, c.parent_id
         FROM products p
         JOIN brands b ON b.id = p.brand_id
         JOIN categories c ON c.id = p.category_id
         WHERE p.id = $1`, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    if !rows.Next() {
        if err := rows.Err(); err != nil {
            return nil, err
        }
        return nil, ErrProductNotFound
    }
    p, err := scanProductRow(rows)
    if err != nil {
        return nil, err
    }
    if err := r.attachVariants(ctx, []*model.Product{p}); err != nil {
        return nil, err
    }
    return p, nil
}

// Related returns up to limit active products sharing the category of the
// given product, excluding the product itself.
func (r *ProductRepo) Related(ctx context.Context, id uint64, limit int) ([]*model.Product, error) {
    if limit <= 0 {
        limit = 4
    }
    rows, err := r.DB.QueryContext(ctx,
        `SELECT p.id, p.name, p.name_vn, p.brand_id, p.category_id,
                p.ingredient, p.skin_type, p.description, p.is_active,
                b.name, c.name, c.name_vn, c.category_level, c.parent_id
         FROM products p
         JOIN brands b ON b.id = p.brand_id
         JOIN categories c ON c.id = p.category_id
         WHERE p.is_active = TRUE AND p.id <> $1
           AND p.category_id = (SELECT category_id FROM products WHERE id = $1)
         ORDER BY p.id DESC LIMIT $2`, id, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*model.Product
    for rows.Next() {
        p, err := scanProductRow(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if err := r.attachVariants(ctx, out); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a product together with its variants and images in one
// transaction. Duplicate SKUs surface as ErrSKUExists; nothing is committed
// in that case.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    err = tx.QueryRowContext(ctx,
        `INSERT INTO products (name, name_vn, brand_id, category_id, ingredient, skin_type, description, is_active)
         VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE) RETURNING id`,
        p.Name, p.NameVn, p.BrandID, p.CategoryID, p.Ingredient, p.SkinType, p.Description).Scan(&p.ID)
    if err != nil {
        return err
    }
    p.IsActive = true

    for vi := range p.Variants {
        v := &p.Variants[vi]
        v.ProductID = p.ID
        spec := v.Specification
        if len(spec) == 0 {
            spec = []byte("{}")
        }
        err = tx.QueryRowContext(ctx,
            `INSERT INTO variants (product_id, sku, unit_price, thumbnail_url, specification)
             VALUES ($1, $2, $3, $4, $5::jsonb) RETURNING id`,
            p.ID, v.SKU, v.UnitPrice, v.ThumbnailURL, string(spec)).Scan(&v.ID)
        if err != nil {
            if strings.Contains(err.Error(), "23505") {
                return ErrSKUExists
            }
            return err
        }
        for ii := range v.Images {
            img := &v.Images[ii]
            img.VariantID = v.ID
            err = tx.QueryRowContext(ctx,
                `INSERT INTO variant_images (variant_id, image_url, display_order, alt_text)
                 VALUES ($1, $2, $3, $4) RETURNING id`,
                v.ID, img.ImageURL, img.DisplayOrder, img.AltText).Scan(&img.ID)
            if err != nil {
                return err
            }
        }
    }
    return tx.Commit()
}

// SoftDelete flips is_active to false. Returns ErrProductNotFound when the
// product does not exist or is already inactive.
func (r *ProductRepo) SoftDelete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE products SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`, id)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// Restore undoes a soft delete. Returns ErrProductNotFound when the product
// does not exist or is already active.
func (r *ProductRepo) Restore(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE products SET is_active = TRUE WHERE id = $1 AND is_active = FALSE`, id)
    if err != nil {
        return err
    }
    return requireRow(res)
}

// Attributes returns the sidebar payload: every brand, every category and the
// distinct non-null skin types of active products.
func (r *ProductRepo) Attributes(ctx context.Context) ([]model.Brand, []model.Category, []string, error) {
    brands := []model.Brand{}
    rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM brands ORDER BY name`)
    if err != nil {
        return nil, nil, nil, err
    }
    for rows.Next() {
        var b model.Brand
        if err := rows.Scan(&b.ID, &b.Name); err != nil {
            rows.Close()
            return nil, nil, nil, err
        }
        brands = append(brands, b)
    }
    if err := closeRows(rows); err != nil {
        return nil, nil, nil, err
    }

    categories := []model.Category{}
    rows, err = r.DB.QueryContext(ctx,
        `SELECT id, name, name_vn, category_level, parent_id FROM categories ORDER BY id`)
    if err != nil {
        return nil, nil, nil, err
    }
    for rows.Next() {
        var c model.Category
        if err := rows.Scan(&c.ID, &c.Name, &c.NameVn, &c.Level, &c.ParentID); err != nil {
            rows.Close()
            return nil, nil, nil, err
        }
        categories = append(categories, c)
    }
    if err := closeRows(rows); err != nil {
        return nil, nil, nil, err
    }

    skinTypes := []string{}
    rows, err = r.DB.QueryContext(ctx,
        `SELECT DISTINCT skin_type FROM products
         WHERE skin_type IS NOT NULL AND skin_type <> '' AND is_active = TRUE
         ORDER BY skin_type`)
    if err != nil {
        return nil, nil, nil, err
    }
    for rows.Next() {
        var s string
        if err := rows.Scan(&s); err != nil {
            rows.Close()
            return nil, nil, nil, err
        }
        skinTypes = append(skinTypes, s)
    }
    if err := closeRows(rows); err != nil {
        return nil, nil, nil, err
    }
    return brands, categories, skinTypes, nil
}

// scanProductRow scans one joined product row (product + brand + category).
func scanProductRow(rows *sql.Rows) (*model.Product, error) {
    p := new(model.Product)
    var (
        skinType   sql.NullString
        ingredient sql.NullString
        descr      sql.NullString
        brandName  string
        cat        model.Category
    )
    if err := rows.Scan(&p.ID, &p.Name, &p.NameVn, &p.BrandID, &p.CategoryID,
        &ingredient, &skinType, &descr, &p.IsActive,
        &brandName, &cat.Name, &cat.NameVn, &cat.Level, &cat.ParentID); err != nil {
        return nil, err
    }
    p.Ingredient = ingredient.String
    p.SkinType = skinType.String
    p.Description = descr.String
    p.Brand = &model.Brand{ID: p.BrandID, Name: brandName}
    cat.ID = p.CategoryID
    p.Category = &cat
    p.Variants = []model.Variant{}
    return p, nil
}

// attachVariants loads variants and their images for the given products in
// two queries and distributes them onto the parent structs.
func (r *ProductRepo) attachVariants(ctx context.Context, products []*model.Product) error {
    if len(products) == 0 {
        return nil
    }
    byID := make(map[uint64]*model.Product, len(products))
    phs := make([]string, len(products))
    args := make([]any, len(products))
    for i, p := range products {
        byID[p.ID] = p
        phs[i] = "$" + strconv.Itoa(i+1)
        args[i] = p.ID
    }
    in := strings.Join(phs, ",")

    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, product_id, sku, unit_price, thumbnail_url, specification
         FROM variants WHERE product_id IN (`+in+`) ORDER BY id`, args...)
    if err != nil {
        return err
    }
    variantOwner := map[uint64]*model.Product{}
    variantIndex := map[uint64]int{}
    for rows.Next() {
        var v model.Variant
        var thumb sql.NullString
        if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.UnitPrice, &thumb, &v.Specification); err != nil {
            rows.Close()
            return err
        }
        v.ThumbnailURL = thumb.String
        v.Images = []model.VariantImage{}
        p := byID[v.ProductID]
        if p == nil {
            continue
        }
        p.Variants = append(p.Variants, v)
        variantOwner[v.ID] = p
        variantIndex[v.ID] = len(p.Variants) - 1
    }
    if err := closeRows(rows); err != nil {
        return err
    }
    if len(variantOwner) == 0 {
        return nil
    }

    vphs := make([]string, 0, len(variantOwner))
    vargs := make([]any, 0, len(variantOwner))
    for id := range variantOwner {
        vphs = append(vphs, "$"+strconv.Itoa(len(vargs)+1))
        vargs = append(vargs, id)
    }
    rows, err = r.DB.QueryContext(ctx,
        `SELECT id, variant_id, image_url, display_order, alt_text
         FROM variant_images WHERE variant_id IN (`+strings.Join(vphs, ",")+`)
         ORDER BY variant_id, display_order`, vargs...)
    if err != nil {
        return err
    }
    for rows.Next() {
        var img model.VariantImage
        var alt sql.NullString
        if err := rows.Scan(&img.ID, &img.VariantID, &img.ImageURL, &img.DisplayOrder, &alt); err != nil {
            rows.Close()
            return err
        }
        img.AltText = alt.String
        if p := variantOwner[img.VariantID]; p != nil {
            i := variantIndex[img.VariantID]
            p.Variants[i].Images = append(p.Variants[i].Images, img)
        }
    }
    return closeRows(rows)
}

func closeRows(rows *sql.Rows) error {
    err := rows.Err()
    if cerr := rows.Close(); err == nil {
        err = cerr
    }
    return err
}

// requireRow converts a zero-rows-affected result into ErrProductNotFound.
func requireRow(res sql.Result) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrProductNotFound
    }
    return nil
}
