package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Argon2id parameters for new hashes.
const (
	argonMemory      = 19 * 1024 // KiB
	argonIterations  = 2
	argonParallelism = 1
	argonKeyLength   = 32
	argonSaltLength  = 16

	// PepperSize is the number of random bytes generated for a new pepper file.
	PepperSize = 32
)

var errHashFormat = errors.New("invalid hash format")

// PasswordHasher hashes passwords with Argon2id in PHC string format, mixing
// in a server side pepper. It also verifies bcrypt hashes written before the
// switch to Argon2id so those accounts keep working until they are rehashed.
type PasswordHasher struct {
	pepper []byte

	dummyOnce sync.Once
	dummy     string
}

// NewPasswordHasher returns a hasher using pepper. A nil pepper is allowed and
// only suitable for tests.
func NewPasswordHasher(pepper []byte) *PasswordHasher {
	return &PasswordHasher{pepper: pepper}
}

func (h *PasswordHasher) peppered(password string) []byte {
	out := make([]byte, 0, len(password)+len(h.pepper))
	out = append(out, password...)
	return append(out, h.pepper...)
}

// Hash returns "$argon2id$v=19$m=..,t=..,p=..$salt$hash".
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey(h.peppered(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonIterations,
		argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. Malformed or unknown
// hashes never panic or error, they simply do not match.
func (h *PasswordHasher) Verify(password, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		p, err := parseArgon2id(encoded)
		if err != nil {
			return false
		}
		computed := argon2.IDKey(h.peppered(password), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(p.key))) // #nosec G115 - key length comes from a parsed hash
		return subtle.ConstantTimeCompare(computed, p.key) == 1

	case isBcrypt(encoded):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil

	default:
		return false
	}
}

// VerifyDummy burns the same work as a real verification. Callers use it when
// no account exists so response timing does not reveal which factor failed.
func (h *PasswordHasher) VerifyDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = h.Hash("clima-dummy-password")
	})
	_ = h.Verify(password, h.dummy)
}

// NeedsRehash reports whether encoded was produced by an older scheme or with
// parameters other than the current ones.
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	p, err := parseArgon2id(encoded)
	if err != nil {
		return true
	}
	return p.memory != argonMemory || p.iterations != argonIterations || p.parallelism != argonParallelism
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

type argon2Hash struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parseArgon2id(encoded string) (argon2Hash, error) {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return argon2Hash{}, errHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return argon2Hash{}, errHashFormat
	}

	var p argon2Hash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return argon2Hash{}, errHashFormat
	}
	if p.memory == 0 || p.iterations == 0 || p.parallelism == 0 {
		return argon2Hash{}, errHashFormat
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return argon2Hash{}, errHashFormat
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return argon2Hash{}, errHashFormat
	}
	return p, nil
}
