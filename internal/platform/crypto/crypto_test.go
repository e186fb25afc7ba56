package crypto

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	c, err := New(strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Configured() {
		t.Fatal("expected configured cipher")
	}

	sealed, err := c.Seal([]byte("850000"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if bytes.Equal(sealed, []byte("850000")) {
		t.Fatal("expected ciphertext to differ from plaintext")
	}

	plain, err := c.Open(sealed)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if string(plain) != "850000" {
		t.Fatalf("expected 850000, got %q", plain)
	}
}

func TestUnconfiguredPassThrough(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sealed, err := c.Seal([]byte("plain"))
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if string(sealed) != "plain" {
		t.Fatalf("expected pass-through, got %q", sealed)
	}
}

func TestKeyDecodingForms(t *testing.T) {
	raw := bytes.Repeat([]byte{0xAB}, 32)

	for _, key := range []string{
		hex.EncodeToString(raw),
		base64.StdEncoding.EncodeToString(raw),
		base64.RawStdEncoding.EncodeToString(raw),
		// 32 raw characters that also form valid base64 must stay raw.
		"0123456789abcdef0123456789abcdef",
		strings.Repeat("k", 32),
	} {
		c, err := New(key)
		if err != nil {
			t.Fatalf("key %q rejected: %v", key, err)
		}
		if !c.Configured() {
			t.Fatalf("key %q left cipher unconfigured", key)
		}
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestOpenRejectsTruncatedCiphertext(t *testing.T) {
	c, err := New(strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Open([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated ciphertext")
	}
}
