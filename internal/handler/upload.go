package handler

import (
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/glowcart/storefront/internal/storage"
)

// UploadHandler accepts product image uploads and stores them through the
// injected blob store.
type UploadHandler struct {
    Store storage.BlobStore
}

func NewUploadHandler(store storage.BlobStore) *UploadHandler {
    return &UploadHandler{Store: store}
}

// Upload handles POST /api/upload (admin only).  Expects a multipart form
// with an "image" file field and responds with the stored object's URL.
func (h *UploadHandler) Upload(c echo.Context) error {
    fh, err := c.FormFile("image")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "No file uploaded."})
    }
    src, err := fh.Open()
    if err != nil {
        log.Printf("upload: open multipart file failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error storing upload"})
    }
    defer src.Close()

    url, err := h.Store.Put(c.Request().Context(), fh.Filename, fh.Header.Get("Content-Type"), src)
    if err != nil {
        log.Printf("upload: store blob failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error storing upload"})
    }
    log.Printf("upload: stored %s", url)
    return c.JSON(http.StatusOK, echo.Map{"message": "Upload successful!", "url": url})
}
