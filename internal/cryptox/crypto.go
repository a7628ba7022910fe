// Package cryptox implements the symmetric cipher used for password entries:
// AES-256-GCM over a static server-held key. Ciphertexts are self-contained
// strings (base64 of nonce || sealed data) so they can be stored in a single
// text column and decrypted later with nothing but the key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// ParseKey decodes a base64-encoded key and checks its length. The key must
// decode to exactly KeySize bytes; anything else is a configuration error.
func ParseKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("key must be base64-encoded: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must decode to exactly %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

// Cipher encrypts and decrypts short strings with a fixed key. It is safe
// for concurrent use; the key is set once at construction and never changes.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher from a raw key of exactly KeySize bytes.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length %d, want %d", len(key), KeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// EncryptString encrypts plaintext with a fresh random nonce and returns
// base64(nonce || sealed). Arbitrary-length UTF-8 input round-trips exactly.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	nonce := common.GenerateRandByteArray(c.aead.NonceSize())
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString. Every failure mode (bad base64,
// truncated data, wrong key, tampered ciphertext, plaintext that is not
// valid UTF-8) wraps common.ErrorCrypto so callers can treat it uniformly
// as a data-integrity fault.
func (c *Cipher) DecryptString(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: malformed encoding", common.ErrorCrypto)
	}
	if len(data) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", common.ErrorCrypto)
	}
	nonce, sealed := data[:c.aead.NonceSize()], data[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: decryption failed", common.ErrorCrypto)
	}
	if !utf8.Valid(plaintext) {
		common.WipeByteArray(plaintext)
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", common.ErrorCrypto)
	}
	// the string conversion copies; zero the working buffer so the secret
	// lives only in the returned value
	s := string(plaintext)
	common.WipeByteArray(plaintext)
	return s, nil
}
