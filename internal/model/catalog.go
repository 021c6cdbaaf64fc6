package model

import "encoding/json"

// Catalog entities mirror the brands/categories/products/variants tables.
// These structs carry json tags because product handlers serve them directly.

// Brand is a cosmetics manufacturer.  IDs are external string slugs
// (e.g. "brand-cocoon") carried over from the catalog import feed.
type Brand struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}

// Category is a node in the two-level category tree.  Level 1 rows are
// parents; level 2 rows reference their parent through ParentID.
type Category struct {
    ID       uint64  `json:"id"`
    Name     string  `json:"name"`
    NameVn   string  `json:"nameVn"`
    Level    int     `json:"categoryLevel"`
    ParentID *uint64 `json:"parentId,omitempty"`
}

// VariantImage is one gallery image of a variant, ordered by DisplayOrder.
type VariantImage struct {
    ID           uint64 `json:"id"`
    VariantID    uint64 `json:"-"`
    ImageURL     string `json:"imageUrl"`
    DisplayOrder int    `json:"displayOrder"`
    AltText      string `json:"altText"`
}

// Variant is a purchasable unit of a product (a size/packaging combination)
// with its own SKU and price.  Specification is opaque JSONB
// (volume, packaging, ...).
type Variant struct {
    ID            uint64          `json:"id"`
    ProductID     uint64          `json:"-"`
    SKU           string          `json:"sku"`
    UnitPrice     int64           `json:"unitPrice"`
    ThumbnailURL  string          `json:"thumbnailUrl"`
    Specification json.RawMessage `json:"specification,omitempty"`
    Images        []VariantImage  `json:"images"`
}

// Product is the catalog root entity.  IsActive implements soft deletion:
// deactivated products stay in the table but disappear from the storefront
// until restored.
type Product struct {
    ID          uint64    `json:"id"`
    Name        string    `json:"name"`
    NameVn      string    `json:"nameVn"`
    BrandID     string    `json:"brandId"`
    CategoryID  uint64    `json:"categoryId"`
    Ingredient  string    `json:"ingredient,omitempty"`
    SkinType    string    `json:"skinType,omitempty"`
    Description string    `json:"description,omitempty"`
    IsActive    bool      `json:"isActive"`
    Brand       *Brand    `json:"brand,omitempty"`
    Category    *Category `json:"category,omitempty"`
    Variants    []Variant `json:"variants"`
}
