package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const indexKeyInfo = "clima/email-index/v1"

func deriveIndexKey(key []byte) ([]byte, error) {
	out := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, nil, []byte(indexKeyInfo)), out); err != nil {
		return nil, fmt.Errorf("failed to derive index key: %w", err)
	}
	return out, nil
}

// NormalizeEmail is the canonical form used for equality between emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BlindIndex returns a deterministic, non-reversible lookup key for email. The
// HMAC key is derived from the field key, so indexes from different
// deployments never collide.
func (c *FieldCipher) BlindIndex(email string) string {
	mac := hmac.New(sha256.New, c.indexKey)
	mac.Write([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(mac.Sum(nil))
}

// MatchEmail reports whether ciphertext decrypts to email. Any decryption
// failure counts as a mismatch.
func (c *FieldCipher) MatchEmail(ciphertext, email string) bool {
	plain, err := c.Decrypt(ciphertext)
	if err != nil {
		return false
	}
	return NormalizeEmail(plain) == NormalizeEmail(email)
}
