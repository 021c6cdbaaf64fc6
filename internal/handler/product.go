package handler

import (
    "context"
    "encoding/json"
    "errors"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/glowcart/storefront/internal/model"
    "github.com/glowcart/storefront/internal/repository"
)

// ProductHandler serves the catalog: public browsing plus the admin-only
// create/soft-delete/restore lifecycle.
type ProductHandler struct {
    Products *repository.ProductRepo
}

func NewProductHandler(products *repository.ProductRepo) *ProductHandler {
    return &ProductHandler{Products: products}
}

// List handles GET /api/products.  Query parameters: search, brandId,
// categoryId (comma lists), skinType, minPrice, maxPrice, sort.  Only
// active products are returned.
func (h *ProductHandler) List(c echo.Context) error {
    f := repository.ProductFilter{
        Search:   strings.TrimSpace(c.QueryParam("search")),
        SkinType: strings.TrimSpace(c.QueryParam("skinType")),
        Sort:     c.QueryParam("sort"),
    }
    if v := c.QueryParam("brandId"); v != "" {
        for _, id := range strings.Split(v, ",") {
            if id = strings.TrimSpace(id); id != "" {
                f.BrandIDs = append(f.BrandIDs, id)
            }
        }
    }
    if v := c.QueryParam("categoryId"); v != "" {
        for _, s := range strings.Split(v, ",") {
            id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
            if err != nil {
                return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid categoryId"})
            }
            f.CategoryIDs = append(f.CategoryIDs, id)
        }
    }
    if v := c.QueryParam("minPrice"); v != "" {
        n, err := strconv.ParseInt(v, 10, 64)
        if err != nil || n < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid minPrice"})
        }
        f.MinPrice = n
    }
    if v := c.QueryParam("maxPrice"); v != "" {
        n, err := strconv.ParseInt(v, 10, 64)
        if err != nil || n < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid maxPrice"})
        }
        f.MaxPrice = n
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    items, err := h.Products.List(ctx, f)
    if err != nil {
        log.Printf("catalog: list products failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch products"})
    }
    if items == nil {
        items = []*model.Product{}
    }
    return c.JSON(http.StatusOK, items)
}

// Attributes handles GET /api/products/attributes: the sidebar payload of
// brands, categories and distinct skin types.
func (h *ProductHandler) Attributes(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    brands, categories, skinTypes, err := h.Products.Attributes(ctx)
    if err != nil {
        log.Printf("catalog: fetch attributes failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch attributes"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "brands":     brands,
        "categories": categories,
        "skinTypes":  skinTypes,
    })
}

// GetByID handles GET /api/products/:id.
func (h *ProductHandler) GetByID(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    p, err := h.Products.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
        }
        log.Printf("catalog: get product failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch product"})
    }
    return c.JSON(http.StatusOK, p)
}

// Related handles GET /api/products/:id/related.
func (h *ProductHandler) Related(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, err := h.Products.Related(ctx, id, 4)
    if err != nil {
        log.Printf("catalog: related products failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch products"})
    }
    if items == nil {
        items = []*model.Product{}
    }
    return c.JSON(http.StatusOK, items)
}

// createProductReq is the admin payload for POST /api/products.
type createProductReq struct {
    Name        string `json:"name"`
    NameVn      string `json:"nameVn"`
    BrandID     string `json:"brandId"`
    CategoryID  uint64 `json:"categoryId"`
    Ingredient  string `json:"ingredient"`
    SkinType    string `json:"skinType"`
    Description string `json:"description"`
    Variants    []struct {
        SKU           string          `json:"sku"`
        UnitPrice     int64           `json:"unitPrice"`
        ThumbnailURL  string          `json:"thumbnailUrl"`
        Specification json.RawMessage `json:"specification"`
        Images        []struct {
            ImageURL     string `json:"imageUrl"`
            DisplayOrder int    `json:"displayOrder"`
            AltText      string `json:"altText"`
        } `json:"images"`
    } `json:"variants"`
}

// Create handles POST /api/products (admin only).
func (h *ProductHandler) Create(c echo.Context) error {
    var req createProductReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" || req.BrandID == "" || req.CategoryID == 0 || len(req.Variants) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "name, brandId, categoryId and at least one variant are required"})
    }

    p := &model.Product{
        Name:        req.Name,
        NameVn:      req.NameVn,
        BrandID:     req.BrandID,
        CategoryID:  req.CategoryID,
        Ingredient:  req.Ingredient,
        SkinType:    req.SkinType,
        Description: req.Description,
    }
    for _, v := range req.Variants {
        if strings.TrimSpace(v.SKU) == "" || v.UnitPrice <= 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "each variant needs a sku and a positive unitPrice"})
        }
        variant := model.Variant{
            SKU:           strings.TrimSpace(v.SKU),
            UnitPrice:     v.UnitPrice,
            ThumbnailURL:  v.ThumbnailURL,
            Specification: v.Specification,
        }
        for _, img := range v.Images {
            variant.Images = append(variant.Images, model.VariantImage{
                ImageURL:     img.ImageURL,
                DisplayOrder: img.DisplayOrder,
                AltText:      img.AltText,
            })
        }
        p.Variants = append(p.Variants, variant)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Products.Create(ctx, p); err != nil {
        if errors.Is(err, repository.ErrSKUExists) {
            return c.JSON(http.StatusConflict, echo.Map{"message": "SKU already exists"})
        }
        log.Printf("catalog: create product failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create product"})
    }
    return c.JSON(http.StatusCreated, p)
}

// Delete handles DELETE /api/products/:id (admin only): a soft delete that
// hides the product from the storefront but keeps the row restorable.
func (h *ProductHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Products.SoftDelete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
        }
        log.Printf("catalog: soft delete failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete product"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Product deactivated"})
}

// Restore handles PATCH /api/products/:id/restore (admin only).
func (h *ProductHandler) Restore(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Products.Restore(ctx, id); err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
        }
        log.Printf("catalog: restore failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to restore product"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Product restored"})
}

// reqCtx bounds handler database work the same way across the package.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
