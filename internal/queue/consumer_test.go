package queue

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestHandleMessageAppendsLogLine(t *testing.T) {
    t.Chdir(t.TempDir())

    body := []byte(`{"customer_id":12,"account_name":"rosa","mail":"rosa@example.com","tier":2001,"registered_at":"2026-09-01T10:00:00Z"}`)
    if err := handleMessage(body); err != nil {
        t.Fatalf("handle: %v", err)
    }
    if err := handleMessage(body); err != nil {
        t.Fatalf("handle again: %v", err)
    }

    data, err := os.ReadFile(filepath.Join("logs", "registration.log"))
    if err != nil {
        t.Fatalf("read log: %v", err)
    }
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    if len(lines) != 2 {
        t.Fatalf("expected 2 appended lines, got %d: %q", len(lines), data)
    }
    for _, want := range []string{"customer_id=12", `account_name="rosa"`, "tier=2001", "2026-09-01T10:00:00Z"} {
        if !strings.Contains(lines[0], want) {
            t.Fatalf("line %q missing %q", lines[0], want)
        }
    }
}

func TestHandleMessageRejectsBadPayload(t *testing.T) {
    t.Chdir(t.TempDir())
    if err := handleMessage([]byte(`not-json`)); err == nil {
        t.Fatalf("expected error for malformed payload")
    }
    if _, err := os.Stat(filepath.Join("logs", "registration.log")); !os.IsNotExist(err) {
        t.Fatalf("malformed payload must not be logged")
    }
}
