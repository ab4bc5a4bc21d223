package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/pkg/idx"
)

type usersRepo struct {
	s *Store
}

func (r *usersRepo) Insert(ctx context.Context, email string, u domain.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupLocked(email); ok {
		return store.ErrAlreadyExists
	}
	if u.EmailIndex != "" {
		if _, ok := s.byIndex[u.EmailIndex]; ok {
			return store.ErrAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = idx.New().String()
	}
	if _, ok := s.users[u.ID]; ok {
		return fmt.Errorf("memory: %w: id %s", store.ErrAlreadyExists, u.ID)
	}

	u = u.Clone()
	s.putLocked(u)
	if err := s.persistLocked(ctx); err != nil {
		s.deleteLocked(u)
		return fmt.Errorf("persist insert: %w", err)
	}
	return nil
}

func (r *usersRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.lookupLocked(email)
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return s.users[id].Clone(), nil
}

func (r *usersRepo) Update(ctx context.Context, email string, mutate func(*domain.User) error) (domain.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.lookupLocked(email)
	if !ok {
		return domain.User{}, store.ErrNotFound
	}

	before := s.users[id]
	after := before.Clone()
	if err := mutate(&after); err != nil {
		return domain.User{}, err
	}
	after.ID = before.ID

	if after.EmailIndex != before.EmailIndex && after.EmailIndex != "" {
		if other, taken := s.byIndex[after.EmailIndex]; taken && other != id {
			return domain.User{}, store.ErrAlreadyExists
		}
	}

	s.deleteLocked(before)
	s.putLocked(after)
	if err := s.persistLocked(ctx); err != nil {
		s.deleteLocked(after)
		s.putLocked(before)
		return domain.User{}, fmt.Errorf("persist update: %w", err)
	}
	return after.Clone(), nil
}

func (r *usersRepo) Remove(ctx context.Context, email string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.lookupLocked(email)
	if !ok {
		return store.ErrNotFound
	}

	removed := s.users[id]
	s.deleteLocked(removed)
	if err := s.persistLocked(ctx); err != nil {
		s.putLocked(removed)
		return fmt.Errorf("persist remove: %w", err)
	}
	return nil
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.sortedLocked()
	for i := range users {
		users[i] = users[i].Clone()
	}
	return users, nil
}

func (r *usersRepo) Count(ctx context.Context) (int, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Store) putLocked(u domain.User) {
	s.users[u.ID] = u
	if u.EmailIndex != "" {
		s.byIndex[u.EmailIndex] = u.ID
	}
}

func (s *Store) deleteLocked(u domain.User) {
	delete(s.users, u.ID)
	if u.EmailIndex != "" && s.byIndex[u.EmailIndex] == u.ID {
		delete(s.byIndex, u.EmailIndex)
	}
}

// sortedLocked returns the records ordered by ID, which is creation order for
// ULIDs.
func (s *Store) sortedLocked() []domain.User {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
