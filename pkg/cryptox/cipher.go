package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// KeySize is the length in bytes of the AES-256 field encryption key.
const KeySize = 32

// tokenSep separates the nonce (or IV) from the ciphertext in a field token.
const tokenSep = ":"

var (
	// ErrDecryption reports a field token that is malformed, truncated, tampered
	// with or sealed under a different key.
	ErrDecryption = errors.New("cryptox: decryption failed")

	// ErrInvalidKey reports key material that is not exactly 64 hex characters.
	ErrInvalidKey = errors.New("cryptox: encryption key must be 64 hex characters")
)

// ParseHexKey decodes a 64 character hex string into a 32-byte key.
func ParseHexKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) != KeySize*2 {
		return nil, ErrInvalidKey
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// FieldCipher encrypts individual string fields into printable tokens of the
// form "nonce_hex:ciphertext_hex" using AES-256-GCM.
//
// A FieldCipher is safe for concurrent use.
type FieldCipher struct {
	aead      cipher.AEAD
	block     cipher.Block
	legacyCBC bool
	indexKey  []byte
}

// CipherOption configures optional FieldCipher behaviour.
type CipherOption func(*FieldCipher)

// WithLegacyCBC makes Decrypt also accept "iv_hex:ciphertext_hex" tokens
// produced with AES-256-CBC and PKCS#7 padding under the same key. Encrypt is
// unaffected and always seals with GCM.
func WithLegacyCBC() CipherOption {
	return func(c *FieldCipher) {
		c.legacyCBC = true
	}
}

// NewFieldCipher returns a cipher for the given 32-byte key.
func NewFieldCipher(key []byte, opts ...CipherOption) (*FieldCipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	indexKey, err := deriveIndexKey(key)
	if err != nil {
		return nil, err
	}

	c := &FieldCipher{aead: gcm, block: block, indexKey: indexKey}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encrypt seals plaintext under a fresh random nonce. Two calls with the same
// input never return the same token.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + tokenSep + hex.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. Every failure is reported as
// ErrDecryption.
func (c *FieldCipher) Decrypt(token string) (string, error) {
	head, body, ok := strings.Cut(token, tokenSep)
	if !ok || head == "" || body == "" {
		return "", ErrDecryption
	}

	prefix, err := hex.DecodeString(head)
	if err != nil {
		return "", ErrDecryption
	}
	ciphertext, err := hex.DecodeString(body)
	if err != nil {
		return "", ErrDecryption
	}

	switch {
	case len(prefix) == c.aead.NonceSize():
		plaintext, err := c.aead.Open(nil, prefix, ciphertext, nil)
		if err != nil {
			return "", ErrDecryption
		}
		return string(plaintext), nil

	case c.legacyCBC && len(prefix) == aes.BlockSize:
		return decryptCBC(c.block, prefix, ciphertext)

	default:
		return "", ErrDecryption
	}
}

// IsLegacy reports whether token uses the CBC layout rather than GCM. It does
// not check that the token decrypts.
func IsLegacy(token string) bool {
	head, _, ok := strings.Cut(token, tokenSep)
	return ok && len(head) == aes.BlockSize*2
}

// EncryptMap encrypts every value of m independently. A nil or empty map
// yields an empty, non-nil map.
func (c *FieldCipher) EncryptMap(m map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		ct, err := c.Encrypt(v)
		if err != nil {
			return nil, fmt.Errorf("encrypt field %q: %w", k, err)
		}
		out[k] = ct
	}
	return out, nil
}

// DecryptMap decrypts every value of m independently. Entries that fail to
// decrypt are left out of plain and their keys are returned in failed.
func (c *FieldCipher) DecryptMap(m map[string]string) (plain map[string]string, failed []string) {
	plain = make(map[string]string, len(m))
	for k, v := range m {
		pt, err := c.Decrypt(v)
		if err != nil {
			failed = append(failed, k)
			continue
		}
		plain[k] = pt
	}
	sort.Strings(failed)
	return plain, failed
}
