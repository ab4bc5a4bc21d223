// Package jsonfile persists the user table as a single JSON array, the same
// users.json layout the service has always used. Writes go to a temp file in
// the same directory and are renamed over the target, so a crash leaves
// either the previous or the new file, never a torn one.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/memory"
)

// Snapshotter reads and writes a users.json file.
type Snapshotter struct {
	path string
}

func NewSnapshotter(path string) *Snapshotter {
	return &Snapshotter{path: filepath.Clean(path)}
}

// Open returns a store backed by the file at path, loaded and ready to use.
// A missing file is an empty store; it is created on the first write.
func Open(ctx context.Context, path string, match store.EmailMatcher) (*memory.Store, error) {
	s := memory.New(match, NewSnapshotter(path))
	if err := s.Load(ctx); err != nil {
		return nil, fmt.Errorf("jsonfile: load %s: %w", path, err)
	}
	return s, nil
}

func (f *Snapshotter) Load(ctx context.Context) ([]domain.User, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	return users, nil
}

func (f *Snapshotter) Save(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

// Ping checks that the directory holding the file is still there.
func (f *Snapshotter) Ping(ctx context.Context) error {
	info, err := os.Stat(filepath.Dir(f.path))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("jsonfile: %s is not a directory", filepath.Dir(f.path))
	}
	return nil
}
