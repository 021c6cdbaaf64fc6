package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/glowcart/storefront/internal/config"
)

func TestCaptureWriterOversizeBodyIsNotCacheable(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

    body := []byte(`{"products":[{"id":1,"name":"serum"}]}`)
    cw.WriteHeader(http.StatusOK)
    if _, err := cw.Write(body); err != nil {
        t.Fatalf("write: %v", err)
    }

    // The client always receives the full body regardless of the capture cap.
    if got := rec.Body.String(); got != string(body) {
        t.Fatalf("client body = %q, want %q", got, body)
    }
    if cw.size != int64(len(body)) {
        t.Fatalf("size = %d, want %d", cw.size, len(body))
    }
    if cw.buf.Len() != 10 {
        t.Fatalf("buffered = %d bytes, want capped at 10", cw.buf.Len())
    }
    if !cw.overflowed() {
        t.Fatal("expected overflowed() for a body larger than the cap")
    }
}

func TestCaptureWriterWithinLimitRoundTrips(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 1024}

    body := []byte(`{"ok":true}`)
    cw.WriteHeader(http.StatusOK)
    if _, err := cw.Write(body); err != nil {
        t.Fatalf("write: %v", err)
    }
    if cw.overflowed() {
        t.Fatal("overflowed() true for a body under the cap")
    }

    hdr := http.Header{"Content-Type": {"application/json"}}
    payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
    if err != nil {
        t.Fatalf("encode: %v", err)
    }
    status, gotHdr, gotBody, ok := decodePayload(payload)
    if !ok {
        t.Fatal("decode failed")
    }
    if status != http.StatusOK {
        t.Fatalf("status = %d, want 200", status)
    }
    if gotHdr.Get("Content-Type") != "application/json" {
        t.Fatalf("Content-Type = %q", gotHdr.Get("Content-Type"))
    }
    if string(gotBody) != string(body) {
        t.Fatalf("body = %q, want %q", gotBody, body)
    }
}

func TestCaptureWriterNoLimitNeverOverflows(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 0}

    if _, err := cw.Write(make([]byte, 4096)); err != nil {
        t.Fatalf("write: %v", err)
    }
    if cw.overflowed() {
        t.Fatal("overflowed() true with no cap configured")
    }
    if cw.buf.Len() != 4096 {
        t.Fatalf("buffered = %d, want 4096", cw.buf.Len())
    }
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
    for _, bs := range [][]byte{nil, {0x01}, []byte("short"), {0, 0, 0, 200, 0xFF, 0xFF, 0xFF, 0xFF}} {
        if _, _, _, ok := decodePayload(bs); ok {
            t.Fatalf("decodePayload accepted %v", bs)
        }
    }
}

func TestRedisCacheDisabledIsPassThrough(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil)
    handler := mw(func(c echo.Context) error {
        return c.JSON(http.StatusOK, map[string]bool{"ok": true})
    })
    if err := handler(c); err != nil {
        t.Fatalf("handler: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    if rec.Header().Get("X-Cache") != "" {
        t.Fatalf("X-Cache header set without a cache backend: %q", rec.Header().Get("X-Cache"))
    }
}
