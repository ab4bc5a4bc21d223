package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// PreviewLength is the number of ciphertext characters diagnostic output may
// show.
const PreviewLength = 20

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token,
// base64url encoded (43 chars). Logs carry fingerprints instead of tokens.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// ShortFingerprint is the first 12 characters of FingerprintToken, enough to
// correlate audit lines for one subject.
func ShortFingerprint(s string) string {
	return FingerprintToken(s)[:12]
}

// Preview truncates a ciphertext to PreviewLength characters followed by an
// ellipsis.
func Preview(ciphertext string) string {
	if len(ciphertext) <= PreviewLength {
		return ciphertext
	}
	return ciphertext[:PreviewLength] + "..."
}
