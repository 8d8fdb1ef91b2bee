package crypto

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("rahasia-kampus")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "rahasia-kampus" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !VerifyPassword(hash, "rahasia-kampus") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "salah") {
		t.Fatal("expected wrong password to fail")
	}
}
