package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreateSecret reads a base64url secret from path, generating and
// writing size random bytes when the file does not exist yet. The parent
// directory is created as needed.
func LoadOrCreateSecret(path string, size int) ([]byte, error) {
	if path == "" {
		return nil, errors.New("cryptox: secret file path is empty")
	}
	if size <= 0 {
		return nil, fmt.Errorf("cryptox: secret size must be positive, got %d", size)
	}

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create secret directory: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to decode secret file %s: %w", path, err)
		}
		return raw, nil

	case errors.Is(err, os.ErrNotExist):
		raw := make([]byte, size)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("failed to generate secret: %w", err)
		}
		encoded := base64.RawURLEncoding.EncodeToString(raw)
		if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
			return nil, fmt.Errorf("failed to write secret file: %w", err)
		}
		return raw, nil

	default:
		return nil, fmt.Errorf("failed to read secret file: %w", err)
	}
}
