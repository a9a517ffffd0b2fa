package security

import "testing"

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := BcryptHasher{Cost: 4}

	hash, err := hasher.Hash("rahasia123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "rahasia123" {
		t.Fatalf("expected hashed password")
	}
	if err := hasher.Compare(hash, "rahasia123"); err != nil {
		t.Fatalf("expected matching password, got %v", err)
	}
	if err := hasher.Compare(hash, "salah"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
