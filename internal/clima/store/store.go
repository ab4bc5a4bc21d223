package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// EmailMatcher is how a store finds records by plaintext email without ever
// holding plaintext itself. BlindIndex gives the deterministic lookup key,
// MatchEmail is the decrypt-and-compare fallback for records written before
// indexes existed. MatchEmail must return false, not fail, on records it
// cannot decrypt.
type EmailMatcher interface {
	BlindIndex(email string) string
	MatchEmail(ciphertext, email string) bool
}

// Store is the root data access interface. Concrete drivers (memory, json
// file, badger, sqlite) implement this.
type Store interface {
	Users() Users

	// Load reads durable state into the store. Drivers without a separate
	// in-memory copy treat it as a no-op.
	Load(ctx context.Context) error

	// Persist writes the whole store to durable storage. Mutations already
	// persist before returning; this exists for explicit flushes such as
	// shutdown.
	Persist(ctx context.Context) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Users is the user record repository. Every method that takes an email
// takes it in plaintext; drivers resolve it through the EmailMatcher.
//
// Each call is atomic with respect to the others: the duplicate check in
// Insert and the lookup in Update and Remove happen in the same critical
// section as the write, and the write is durable before the call returns.
type Users interface {
	// Insert stores u, failing with ErrAlreadyExists if a record for email
	// exists. u.EmailCiphertext must already be the encrypted email.
	Insert(ctx context.Context, email string, u domain.User) error

	// FindByEmail returns the record for email or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (domain.User, error)

	// Update runs mutate on a copy of the record for email and stores the
	// result. If mutate returns an error nothing is written and the error is
	// returned unchanged.
	Update(ctx context.Context, email string, mutate func(*domain.User) error) (domain.User, error)

	// Remove deletes the record for email or returns ErrNotFound.
	Remove(ctx context.Context, email string) error

	// List returns every record, oldest first.
	List(ctx context.Context) ([]domain.User, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)
}
