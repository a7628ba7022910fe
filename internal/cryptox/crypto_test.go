package cryptox

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/common"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(testKey())
	if err != nil {
		t.Fatalf("NewCipher error: %v", err)
	}
	return c
}

func TestParseKey(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(testKey())
	key, err := ParseKey(encoded)
	if err != nil {
		t.Fatalf("ParseKey error: %v", err)
	}
	if len(key) != KeySize {
		t.Fatalf("expected %d bytes, got %d", KeySize, len(key))
	}

	if _, err := ParseKey("%%%not-base64%%%"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
	if _, err := ParseKey(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Fatalf("expected error for wrong key length")
	}
}

func TestNewCipher_WrongKeyLength(t *testing.T) {
	if _, err := NewCipher([]byte("too-short")); err == nil {
		t.Fatalf("expected error for short key")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	inputs := []string{
		"p@ss",
		"",
		"пароль-на-кириллице",
		"emoji 🔐 and spaces",
		strings.Repeat("long-", 1000),
	}

	for _, in := range inputs {
		ct, err := c.EncryptString(in)
		if err != nil {
			t.Fatalf("EncryptString(%q) error: %v", in, err)
		}
		got, err := c.DecryptString(ct)
		if err != nil {
			t.Fatalf("DecryptString error: %v", err)
		}
		if got != in {
			t.Fatalf("round-trip mismatch: got %q want %q", got, in)
		}
	}
}

func TestDecrypt_RepeatedCallsReturnIntactPlaintext(t *testing.T) {
	c := newTestCipher(t)

	ct, err := c.EncryptString("hunter2")
	if err != nil {
		t.Fatalf("EncryptString error: %v", err)
	}

	// the working buffer is zeroed after each call; the returned value must
	// not alias it
	first, err := c.DecryptString(ct)
	if err != nil {
		t.Fatalf("DecryptString error: %v", err)
	}
	second, err := c.DecryptString(ct)
	if err != nil {
		t.Fatalf("DecryptString error: %v", err)
	}
	if first != "hunter2" || second != "hunter2" {
		t.Fatalf("plaintext corrupted: %q, %q", first, second)
	}
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	c := newTestCipher(t)

	a, err := c.EncryptString("same input")
	if err != nil {
		t.Fatalf("EncryptString error: %v", err)
	}
	b, err := c.EncryptString("same input")
	if err != nil {
		t.Fatalf("EncryptString error: %v", err)
	}
	if a == b {
		t.Fatalf("two encryptions of the same input produced identical ciphertext")
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	c := newTestCipher(t)
	ct, err := c.EncryptString("secret")
	if err != nil {
		t.Fatalf("EncryptString error: %v", err)
	}

	otherKey := testKey()
	otherKey[0] ^= 0xff
	other, err := NewCipher(otherKey)
	if err != nil {
		t.Fatalf("NewCipher error: %v", err)
	}

	_, err = other.DecryptString(ct)
	if !errors.Is(err, common.ErrorCrypto) {
		t.Fatalf("want ErrorCrypto, got %v", err)
	}
}

func TestDecrypt_Malformed(t *testing.T) {
	c := newTestCipher(t)

	cases := []string{
		"%%%not-base64%%%",
		base64.StdEncoding.EncodeToString([]byte("short")),
		base64.StdEncoding.EncodeToString(common.GenerateRandByteArray(40)),
	}
	for _, ct := range cases {
		if _, err := c.DecryptString(ct); !errors.Is(err, common.ErrorCrypto) {
			t.Fatalf("DecryptString(%q): want ErrorCrypto, got %v", ct, err)
		}
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	c := newTestCipher(t)
	ct, err := c.EncryptString("secret")
	if err != nil {
		t.Fatalf("EncryptString error: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(ct)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	if _, err := c.DecryptString(tampered); !errors.Is(err, common.ErrorCrypto) {
		t.Fatalf("want ErrorCrypto for tampered ciphertext, got %v", err)
	}
}
