// Package memory is the in-process user store. On its own it keeps records
// only for the life of the process; with a Snapshotter it becomes the engine
// behind the file and badger drivers, which persist the whole table after
// every mutation.
package memory

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/pkg/idx"
)

// Snapshotter persists and restores the full set of records.
type Snapshotter interface {
	Save(ctx context.Context, users []domain.User) error
	Load(ctx context.Context) ([]domain.User, error)
}

type Store struct {
	mu    sync.RWMutex
	match store.EmailMatcher
	snap  Snapshotter

	users   map[string]domain.User // by ID
	byIndex map[string]string      // email index -> ID
}

// New returns an empty store. snap may be nil for a purely in-memory store.
func New(match store.EmailMatcher, snap Snapshotter) *Store {
	return &Store{
		match:   match,
		snap:    snap,
		users:   make(map[string]domain.User),
		byIndex: make(map[string]string),
	}
}

func (s *Store) Users() store.Users { return &usersRepo{s: s} }

// Load replaces the table with the snapshot. Imported records without an ID
// are given one so they can be addressed like any other.
func (s *Store) Load(ctx context.Context) error {
	if s.snap == nil {
		return nil
	}

	users, err := s.snap.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]domain.User, len(users))
	s.byIndex = make(map[string]string, len(users))
	for _, u := range users {
		if u.ID == "" {
			u.ID = idx.New().String()
		}
		if u.EmailIndex != "" {
			if _, dup := s.byIndex[u.EmailIndex]; dup {
				return errors.New("memory: snapshot contains duplicate email index")
			}
			s.byIndex[u.EmailIndex] = u.ID
		}
		s.users[u.ID] = u
	}
	return nil
}

func (s *Store) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	if s.snap == nil {
		return nil
	}
	return s.snap.Save(ctx, s.sortedLocked())
}

func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.snap.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Store) Close() error {
	if c, ok := s.snap.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// lookupLocked finds the ID of the record for email: index first, then a
// decrypt-and-compare scan over records that have no index.
func (s *Store) lookupLocked(email string) (string, bool) {
	if id, ok := s.byIndex[s.match.BlindIndex(email)]; ok {
		return id, true
	}
	for id, u := range s.users {
		if u.EmailIndex != "" {
			continue
		}
		if s.match.MatchEmail(u.EmailCiphertext, email) {
			return id, true
		}
	}
	return "", false
}
