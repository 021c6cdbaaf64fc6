package utils

import (
    "testing"

    "golang.org/x/crypto/bcrypt"
)

func TestHashPasswordSalted(t *testing.T) {
    h1, err := HashPassword("secret1", bcrypt.MinCost)
    if err != nil {
        t.Fatalf("HashPassword: %v", err)
    }
    h2, err := HashPassword("secret1", bcrypt.MinCost)
    if err != nil {
        t.Fatalf("HashPassword: %v", err)
    }
    if h1 == h2 {
        t.Fatalf("expected different digests for the same plaintext, got identical")
    }
    if !VerifyPassword(h1, "secret1") || !VerifyPassword(h2, "secret1") {
        t.Fatalf("verification failed for a correct password")
    }
}

func TestVerifyPasswordRejectsWrong(t *testing.T) {
    h, err := HashPassword("secret1", bcrypt.MinCost)
    if err != nil {
        t.Fatalf("HashPassword: %v", err)
    }
    if VerifyPassword(h, "secret2") {
        t.Fatalf("wrong password verified")
    }
    if VerifyPassword("not-a-hash", "secret1") {
        t.Fatalf("garbage digest verified")
    }
}
