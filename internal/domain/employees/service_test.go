package employees

import (
	"strings"
	"testing"

	"sirh/internal/platform/crypto"
)

func TestSealSalaryKeepsPlainColumnZero(t *testing.T) {
	cipher, err := crypto.New(strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := &Service{Cipher: cipher}

	plain, enc, err := s.sealSalary(850000)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if plain != 0 {
		t.Fatalf("expected zero plain column when sealed, got %d", plain)
	}
	if len(enc) == 0 {
		t.Fatal("expected ciphertext")
	}

	got, err := s.openSalary(&plain, enc)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if got != 850000 {
		t.Fatalf("expected 850000 after round trip, got %d", got)
	}
}

func TestSealSalaryWithoutKey(t *testing.T) {
	cipher, err := crypto.New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := &Service{Cipher: cipher}

	plain, enc, err := s.sealSalary(850000)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if plain != 850000 {
		t.Fatalf("expected plain salary without a key, got %d", plain)
	}
	if enc != nil {
		t.Fatal("expected no ciphertext without a key")
	}
}
