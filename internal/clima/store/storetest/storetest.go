// Package storetest is the behaviour every store driver must share. Driver
// packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// Factory opens a store whose durable state, if any, lives under dir. Each
// subtest gets its own dir; opening the same dir twice must show the same
// data for durable drivers.
type Factory func(t *testing.T, dir string, c *cryptox.FieldCipher) store.Store

// Options tweak the suite for a driver.
type Options struct {
	// Durable drivers are re-opened after writes to check persistence.
	Durable bool
}

// Cipher returns the field cipher the suite uses.
func Cipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()
	key, err := cryptox.ParseHexKey(testKeyHex)
	require.NoError(t, err)
	c, err := cryptox.NewFieldCipher(key)
	require.NoError(t, err)
	return c
}

// NewUser builds a record for email the way the account service does.
func NewUser(t *testing.T, c *cryptox.FieldCipher, email string) domain.User {
	t.Helper()
	ct, err := c.Encrypt(cryptox.NormalizeEmail(email))
	require.NoError(t, err)
	now := time.Now().UTC().Truncate(time.Second)
	return domain.User{
		EmailCiphertext: ct,
		EmailIndex:      c.BlindIndex(email),
		PasswordHash:    "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		AdditionalData:  map[string]string{},
		Privacy:         domain.DefaultPrivacy("1.0"),
		Roles:           []string{domain.RoleUser},
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}
}

func Run(t *testing.T, factory Factory, opts Options) {
	// open binds the factory to a directory owned by the calling subtest.
	dirs := map[*testing.T]string{}
	var dirsMu sync.Mutex
	open := func(t *testing.T, c *cryptox.FieldCipher) store.Store {
		t.Helper()
		dirsMu.Lock()
		dir, ok := dirs[t]
		if !ok {
			dir = t.TempDir()
			dirs[t] = dir
		}
		dirsMu.Unlock()
		return factory(t, dir, c)
	}

	t.Run("insert and find", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		u := NewUser(t, c, "alice@example.com")
		u.AdditionalData["displayName"] = "ct-name"
		require.NoError(t, s.Users().Insert(ctx, "alice@example.com", u))

		got, err := s.Users().FindByEmail(ctx, "  Alice@Example.COM ")
		require.NoError(t, err)
		require.NotEmpty(t, got.ID)
		require.Equal(t, u.EmailCiphertext, got.EmailCiphertext)
		require.Equal(t, u.EmailIndex, got.EmailIndex)
		require.Equal(t, "ct-name", got.AdditionalData["displayName"])
		require.Equal(t, []string{domain.RoleUser}, got.Roles)
		require.NotNil(t, got.CreatedAt)
		require.True(t, u.CreatedAt.Equal(*got.CreatedAt))
	})

	t.Run("find missing", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)

		_, err := s.Users().FindByEmail(context.Background(), "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		require.NoError(t, s.Users().Insert(ctx, "bob@example.com", NewUser(t, c, "bob@example.com")))
		err := s.Users().Insert(ctx, "BOB@example.com", NewUser(t, c, "BOB@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		n, err := s.Users().Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("unindexed record found by scan", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		legacy := NewUser(t, c, "old@example.com")
		legacy.EmailIndex = ""
		require.NoError(t, s.Users().Insert(ctx, "old@example.com", legacy))

		got, err := s.Users().FindByEmail(ctx, "old@example.com")
		require.NoError(t, err)
		require.Empty(t, got.EmailIndex)

		err = s.Users().Insert(ctx, "old@example.com", NewUser(t, c, "old@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		// Backfilling the index keeps the record reachable.
		_, err = s.Users().Update(ctx, "old@example.com", func(u *domain.User) error {
			u.EmailIndex = c.BlindIndex("old@example.com")
			return nil
		})
		require.NoError(t, err)

		got, err = s.Users().FindByEmail(ctx, "old@example.com")
		require.NoError(t, err)
		require.Equal(t, c.BlindIndex("old@example.com"), got.EmailIndex)
	})

	t.Run("update", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		require.NoError(t, s.Users().Insert(ctx, "carol@example.com", NewUser(t, c, "carol@example.com")))

		updated, err := s.Users().Update(ctx, "carol@example.com", func(u *domain.User) error {
			u.AdditionalData["location"] = "ct-loc"
			u.Privacy.Analytics = true
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, "ct-loc", updated.AdditionalData["location"])

		got, err := s.Users().FindByEmail(ctx, "carol@example.com")
		require.NoError(t, err)
		require.Equal(t, "ct-loc", got.AdditionalData["location"])
		require.True(t, got.Privacy.Analytics)
	})

	t.Run("update aborted by mutate", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		require.NoError(t, s.Users().Insert(ctx, "dan@example.com", NewUser(t, c, "dan@example.com")))

		boom := errors.New("boom")
		_, err := s.Users().Update(ctx, "dan@example.com", func(u *domain.User) error {
			u.AdditionalData["location"] = "never"
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := s.Users().FindByEmail(ctx, "dan@example.com")
		require.NoError(t, err)
		require.NotContains(t, got.AdditionalData, "location")
	})

	t.Run("update missing", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)

		_, err := s.Users().Update(context.Background(), "ghost@example.com", func(*domain.User) error { return nil })
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		require.NoError(t, s.Users().Insert(ctx, "eve@example.com", NewUser(t, c, "eve@example.com")))

		got, err := s.Users().FindByEmail(ctx, "eve@example.com")
		require.NoError(t, err)
		got.AdditionalData["displayName"] = "tampered"

		again, err := s.Users().FindByEmail(ctx, "eve@example.com")
		require.NoError(t, err)
		require.NotContains(t, again.AdditionalData, "displayName")
	})

	t.Run("remove", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		require.NoError(t, s.Users().Insert(ctx, "frank@example.com", NewUser(t, c, "frank@example.com")))
		require.NoError(t, s.Users().Remove(ctx, "frank@example.com"))

		_, err := s.Users().FindByEmail(ctx, "frank@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Users().Remove(ctx, "frank@example.com"), store.ErrNotFound)

		// The address is free again.
		require.NoError(t, s.Users().Insert(ctx, "frank@example.com", NewUser(t, c, "frank@example.com")))
	})

	t.Run("list and count", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		users, err := s.Users().List(ctx)
		require.NoError(t, err)
		require.Empty(t, users)

		emails := []string{"one@example.com", "two@example.com", "three@example.com"}
		for _, e := range emails {
			require.NoError(t, s.Users().Insert(ctx, e, NewUser(t, c, e)))
		}

		users, err = s.Users().List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		for i, u := range users {
			plain, err := c.Decrypt(u.EmailCiphertext)
			require.NoError(t, err)
			require.Equal(t, emails[i], plain, "records are listed in creation order")
		}

		n, err := s.Users().Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 3, n)
	})

	t.Run("concurrent registration of one email", func(t *testing.T) {
		c := Cipher(t)
		s := open(t, c)
		ctx := context.Background()

		const workers = 8
		candidates := make([]domain.User, workers)
		for i := range candidates {
			candidates[i] = NewUser(t, c, "race@example.com")
		}

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for _, u := range candidates {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Users().Insert(ctx, "race@example.com", u)
				if err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, success)
		n, err := s.Users().Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("ping", func(t *testing.T) {
		s := open(t, Cipher(t))
		require.NoError(t, s.Ping(context.Background()))
	})

	if !opts.Durable {
		return
	}

	t.Run("survives reopen", func(t *testing.T) {
		c := Cipher(t)
		ctx := context.Background()

		s := open(t, c)
		require.NoError(t, s.Users().Insert(ctx, "gina@example.com", NewUser(t, c, "gina@example.com")))
		require.NoError(t, s.Users().Insert(ctx, "hank@example.com", NewUser(t, c, "hank@example.com")))
		require.NoError(t, s.Users().Remove(ctx, "hank@example.com"))
		_, err := s.Users().Update(ctx, "gina@example.com", func(u *domain.User) error {
			u.Privacy.Marketing = true
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, s.Close())

		reopened := open(t, c)
		got, err := reopened.Users().FindByEmail(ctx, "gina@example.com")
		require.NoError(t, err)
		require.True(t, got.Privacy.Marketing)

		_, err = reopened.Users().FindByEmail(ctx, "hank@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
