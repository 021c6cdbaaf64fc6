package handler

import (
    "bytes"
    "context"
    "errors"
    "io"
    "mime/multipart"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
)

// fakeBlobStore records what was uploaded and returns a canned URL.
type fakeBlobStore struct {
    filename    string
    contentType string
    data        []byte
    err         error
}

func (f *fakeBlobStore) Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
    if f.err != nil {
        return "", f.err
    }
    f.filename = filename
    f.contentType = contentType
    data, err := io.ReadAll(r)
    if err != nil {
        return "", err
    }
    f.data = data
    return "/static/uploads/abc-" + filename, nil
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
    t.Helper()
    var buf bytes.Buffer
    w := multipart.NewWriter(&buf)
    fw, err := w.CreateFormFile(field, filename)
    if err != nil {
        t.Fatalf("create form file: %v", err)
    }
    if _, err := io.WriteString(fw, content); err != nil {
        t.Fatalf("write form file: %v", err)
    }
    if err := w.Close(); err != nil {
        t.Fatalf("close writer: %v", err)
    }
    return &buf, w.FormDataContentType()
}

func doUpload(t *testing.T, h echo.HandlerFunc, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
    req.Header.Set(echo.HeaderContentType, contentType)
    rec := httptest.NewRecorder()
    if err := h(e.NewContext(req, rec)); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    return rec
}

func TestUploadStoresImage(t *testing.T) {
    store := &fakeBlobStore{}
    h := NewUploadHandler(store)

    body, ct := multipartUpload(t, "image", "lipstick.png", "png-bytes")
    rec := doUpload(t, h.Upload, body, ct)

    if rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
    }
    if !strings.Contains(rec.Body.String(), "/static/uploads/abc-lipstick.png") {
        t.Fatalf("url missing from response: %s", rec.Body.String())
    }
    if store.filename != "lipstick.png" || string(store.data) != "png-bytes" {
        t.Fatalf("unexpected stored blob: name=%q data=%q", store.filename, store.data)
    }
}

func TestUploadMissingFile(t *testing.T) {
    h := NewUploadHandler(&fakeBlobStore{})

    // A multipart body whose file field has the wrong name.
    body, ct := multipartUpload(t, "document", "a.pdf", "x")
    rec := doUpload(t, h.Upload, body, ct)

    if rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d", rec.Code)
    }
    if !strings.Contains(rec.Body.String(), "No file uploaded.") {
        t.Fatalf("unexpected body: %s", rec.Body.String())
    }
}

func TestUploadStoreFailure(t *testing.T) {
    h := NewUploadHandler(&fakeBlobStore{err: errors.New("disk full")})

    body, ct := multipartUpload(t, "image", "a.png", "x")
    rec := doUpload(t, h.Upload, body, ct)

    if rec.Code != http.StatusInternalServerError {
        t.Fatalf("expected 500, got %d", rec.Code)
    }
}
