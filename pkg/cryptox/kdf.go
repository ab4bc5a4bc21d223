package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters for passphrase derived keys.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1

	kdfSaltLength = 16
)

// DeriveKey stretches a passphrase into a 32-byte field key with scrypt. The
// salt is random per install and kept in saltFile so the key is stable across
// restarts.
func DeriveKey(passphrase, saltFile string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("cryptox: passphrase is empty")
	}

	salt, err := LoadOrCreateSecret(saltFile, kdfSaltLength)
	if err != nil {
		return nil, fmt.Errorf("load kdf salt: %w", err)
	}

	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}
	return key, nil
}
