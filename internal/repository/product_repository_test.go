package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/glowcart/storefront/internal/model"
)

func newTestProduct() *model.Product {
    return &model.Product{
        Name:       "Serum",
        NameVn:     "Serum VN",
        BrandID:    "brand-cocoon",
        CategoryID: 3,
        Variants: []model.Variant{{
            SKU:       "SKU-DUP",
            UnitPrice: 99000,
            Images: []model.VariantImage{{
                ImageURL:     "https://cdn/a.jpg",
                DisplayOrder: 1,
                AltText:      "front",
            }},
        }},
    }
}

func newProductRepo(t *testing.T) (*ProductRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock: %v", err)
    }
    t.Cleanup(func() { db.Close() })
    return NewProductRepo(db), mock
}

var productCols = []string{
    "id", "name", "name_vn", "brand_id", "category_id",
    "ingredient", "skin_type", "description", "is_active",
    "brand_name", "cat_name", "cat_name_vn", "category_level", "parent_id",
}

func productRow(id uint64, name string) *sqlmock.Rows {
    return sqlmock.NewRows(productCols).AddRow(
        id, name, name+" VN", "brand-cocoon", 3,
        "water, glycerin", "dry", "a cleanser", true,
        "Cocoon", "Cleansers", "Lam sach", 2, 1,
    )
}

var variantCols = []string{"id", "product_id", "sku", "unit_price", "thumbnail_url", "specification"}
var imageCols = []string{"id", "variant_id", "image_url", "display_order", "alt_text"}

func TestListNoFilter(t *testing.T) {
    repo, mock := newProductRepo(t)
    mock.ExpectQuery(regexp.QuoteMeta("WHERE p.is_active = TRUE")).
        WillReturnRows(productRow(1, "Gentle Cleanser"))
    mock.ExpectQuery(regexp.QuoteMeta("FROM variants WHERE product_id IN ($1)")).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows(variantCols).
            AddRow(10, 1, "SKU-10", 99000, "https://cdn/x.jpg", []byte(`{"volume":"140ml"}`)))
    mock.ExpectQuery(regexp.QuoteMeta("FROM variant_images WHERE variant_id IN ($1)")).
        WithArgs(uint64(10)).
        WillReturnRows(sqlmock.NewRows(imageCols).
            AddRow(100, 10, "https://cdn/a.jpg", 1, "front"))

    products, err := repo.List(context.Background(), ProductFilter{})
    if err != nil {
        t.Fatalf("list: %v", err)
    }
    if len(products) != 1 {
        t.Fatalf("expected 1 product, got %d", len(products))
    }
    p := products[0]
    if p.Brand == nil || p.Brand.Name != "Cocoon" {
        t.Fatalf("brand not attached: %+v", p.Brand)
    }
    if p.Category == nil || p.Category.ID != 3 || p.Category.Level != 2 {
        t.Fatalf("category not attached: %+v", p.Category)
    }
    if len(p.Variants) != 1 || p.Variants[0].SKU != "SKU-10" {
        t.Fatalf("variants not attached: %+v", p.Variants)
    }
    if len(p.Variants[0].Images) != 1 || p.Variants[0].Images[0].DisplayOrder != 1 {
        t.Fatalf("images not attached: %+v", p.Variants[0].Images)
    }
}

func TestListFilterPlaceholders(t *testing.T) {
    repo, mock := newProductRepo(t)
    // Search, two brands, one category, skin type and a price window fill
    // the placeholders in order.
    mock.ExpectQuery(regexp.QuoteMeta(
        "p.brand_id IN ($2,$3)")).
        WithArgs("%serum%", "brand-a", "brand-b", uint64(5), "oily", int64(50000), int64(200000)).
        WillReturnRows(sqlmock.NewRows(productCols))

    products, err := repo.List(context.Background(), ProductFilter{
        Search:      "serum",
        BrandIDs:    []string{"brand-a", "brand-b"},
        CategoryIDs: []uint64{5},
        SkinType:    "oily",
        MinPrice:    50000,
        MaxPrice:    200000,
    })
    if err != nil {
        t.Fatalf("list: %v", err)
    }
    if len(products) != 0 {
        t.Fatalf("expected no products, got %d", len(products))
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestListSortByName(t *testing.T) {
    repo, mock := newProductRepo(t)
    mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.name ASC")).
        WillReturnRows(sqlmock.NewRows(productCols))

    if _, err := repo.List(context.Background(), ProductFilter{Sort: "name_asc"}); err != nil {
        t.Fatalf("list: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestGetByIDNotFound(t *testing.T) {
    repo, mock := newProductRepo(t)
    mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
        WithArgs(uint64(42)).
        WillReturnRows(sqlmock.NewRows(productCols))

    _, err := repo.GetByID(context.Background(), 42)
    if !errors.Is(err, ErrProductNotFound) {
        t.Fatalf("expected ErrProductNotFound, got %v", err)
    }
}

func TestGetByIDIncludesInactive(t *testing.T) {
    repo, mock := newProductRepo(t)
    rows := sqlmock.NewRows(productCols).AddRow(
        1, "Retired Serum", "Retired VN", "brand-cocoon", 3,
        nil, nil, nil, false,
        "Cocoon", "Serums", "Tinh chat", 2, 1,
    )
    mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
        WithArgs(uint64(1)).
        WillReturnRows(rows)
    mock.ExpectQuery(regexp.QuoteMeta("FROM variants")).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows(variantCols))

    p, err := repo.GetByID(context.Background(), 1)
    if err != nil {
        t.Fatalf("get: %v", err)
    }
    if p.IsActive {
        t.Fatalf("expected inactive product")
    }
    if len(p.Variants) != 0 {
        t.Fatalf("expected no variants, got %d", len(p.Variants))
    }
}

func TestSoftDeleteMissingProduct(t *testing.T) {
    repo, mock := newProductRepo(t)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET is_active = FALSE")).
        WithArgs(uint64(42)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    err := repo.SoftDelete(context.Background(), 42)
    if !errors.Is(err, ErrProductNotFound) {
        t.Fatalf("expected ErrProductNotFound, got %v", err)
    }
}

func TestSoftDeleteAndRestore(t *testing.T) {
    repo, mock := newProductRepo(t)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET is_active = FALSE")).
        WithArgs(uint64(1)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET is_active = TRUE")).
        WithArgs(uint64(1)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    if err := repo.SoftDelete(context.Background(), 1); err != nil {
        t.Fatalf("soft delete: %v", err)
    }
    if err := repo.Restore(context.Background(), 1); err != nil {
        t.Fatalf("restore: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestCreateDuplicateSKURollsBack(t *testing.T) {
    repo, mock := newProductRepo(t)
    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
        WithArgs("Serum", "Serum VN", "brand-cocoon", uint64(3), "", "", "").
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
    mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO variants")).
        WithArgs(uint64(1), "SKU-DUP", int64(99000), "", "{}").
        WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "variants_sku_key" (SQLSTATE 23505)`))
    mock.ExpectRollback()

    p := newTestProduct()
    err := repo.Create(context.Background(), p)
    if !errors.Is(err, ErrSKUExists) {
        t.Fatalf("expected ErrSKUExists, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestCreateCommitsProductTree(t *testing.T) {
    repo, mock := newProductRepo(t)
    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
        WithArgs("Serum", "Serum VN", "brand-cocoon", uint64(3), "", "", "").
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
    mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO variants")).
        WithArgs(uint64(1), "SKU-DUP", int64(99000), "", "{}").
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
    mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO variant_images")).
        WithArgs(uint64(10), "https://cdn/a.jpg", 1, "front").
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
    mock.ExpectCommit()

    p := newTestProduct()
    if err := repo.Create(context.Background(), p); err != nil {
        t.Fatalf("create: %v", err)
    }
    if p.ID != 1 || p.Variants[0].ID != 10 || p.Variants[0].Images[0].ID != 100 {
        t.Fatalf("generated ids not propagated: %+v", p)
    }
    if !p.IsActive {
        t.Fatalf("created product must be active")
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestAttributes(t *testing.T) {
    repo, mock := newProductRepo(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM brands")).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
            AddRow("brand-cocoon", "Cocoon").
            AddRow("brand-simple", "Simple"))
    mock.ExpectQuery(regexp.QuoteMeta("FROM categories")).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "name_vn", "category_level", "parent_id"}).
            AddRow(1, "Skincare", "Cham soc da", 1, nil).
            AddRow(3, "Cleansers", "Lam sach", 2, 1))
    mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT skin_type")).
        WillReturnRows(sqlmock.NewRows([]string{"skin_type"}).
            AddRow("dry").AddRow("oily"))

    brands, categories, skinTypes, err := repo.Attributes(context.Background())
    if err != nil {
        t.Fatalf("attributes: %v", err)
    }
    if len(brands) != 2 || brands[0].ID != "brand-cocoon" {
        t.Fatalf("unexpected brands: %+v", brands)
    }
    if len(categories) != 2 {
        t.Fatalf("unexpected categories: %+v", categories)
    }
    if categories[0].ParentID != nil {
        t.Fatalf("level-1 category must have nil parent")
    }
    if categories[1].ParentID == nil || *categories[1].ParentID != 1 {
        t.Fatalf("level-2 category parent not scanned: %+v", categories[1])
    }
    if len(skinTypes) != 2 || skinTypes[0] != "dry" {
        t.Fatalf("unexpected skin types: %+v", skinTypes)
    }
}
