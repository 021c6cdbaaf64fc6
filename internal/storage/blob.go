// Package storage abstracts where uploaded product images end up.  The
// storefront treats its blob store as an opaque dependency: handlers hand a
// stream plus a content type to a BlobStore and get back a public URL.  The
// shipped implementation writes to local disk; an S3-compatible store slots
// in behind the same interface without touching any handler.
package storage

import (
    "context"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"

    "github.com/google/uuid"
)

// BlobStore persists an uploaded object under a generated key and returns
// the URL clients can fetch it from.
type BlobStore interface {
    Put(ctx context.Context, filename, contentType string, r io.Reader) (url string, err error)
}

// DiskStore writes blobs under a base directory and serves them from a base
// URL path. Keys are uploads/<uuid>-<sanitized original name> so collisions
// between identically named files cannot occur.
type DiskStore struct {
    BaseDir string // filesystem root, e.g. "uploads"
    BaseURL string // URL prefix returned to clients, e.g. "/static"
}

func NewDiskStore(baseDir, baseURL string) *DiskStore {
    return &DiskStore{BaseDir: baseDir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *DiskStore) Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
    key := fmt.Sprintf("uploads/%s-%s", uuid.NewString(), sanitize(filename))
    full := filepath.Join(s.BaseDir, filepath.FromSlash(key))
    if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
        return "", fmt.Errorf("mkdir upload dir: %w", err)
    }
    f, err := os.Create(full)
    if err != nil {
        return "", fmt.Errorf("create blob: %w", err)
    }
    defer f.Close()
    if _, err := io.Copy(f, r); err != nil {
        _ = os.Remove(full)
        return "", fmt.Errorf("write blob: %w", err)
    }
    return s.BaseURL + "/" + key, nil
}

// sanitize keeps the original filename readable while stripping path
// separators and other shell-hostile characters.
func sanitize(name string) string {
    name = filepath.Base(name)
    var b strings.Builder
    for _, r := range name {
        switch {
        case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
            r == '.', r == '-', r == '_':
            b.WriteRune(r)
        default:
            b.WriteByte('_')
        }
    }
    if b.Len() == 0 {
        return "file"
    }
    return b.String()
}
