package utils

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals the plain password")
	}

	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong-pass"); err == nil {
		t.Error("expected error for wrong password, got nil")
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	p := GenerateRandomPassword()
	if len(p) != 10 {
		t.Errorf("got length %d, want 10", len(p))
	}
	for _, c := range p {
		if !strings.ContainsRune(charset, c) {
			t.Errorf("unexpected character %q in generated password", c)
		}
	}
}
