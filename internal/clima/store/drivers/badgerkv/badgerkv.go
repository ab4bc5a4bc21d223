// Package badgerkv persists the user table in an embedded Badger database,
// one key per record under the "user/" prefix. A snapshot is written in a
// single transaction, so readers never observe half of one.
package badgerkv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/memory"
)

var userPrefix = []byte("user/")

type Snapshotter struct {
	db *badger.DB
}

// Options returns the badger options used for dir. An empty dir opens an
// in-memory database.
func Options(dir string) badger.Options {
	if dir == "" {
		return badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	return badger.DefaultOptions(dir).WithLogger(nil)
}

// Open opens (or creates) the database at dir and returns a loaded store.
func Open(ctx context.Context, dir string, match store.EmailMatcher) (*memory.Store, error) {
	db, err := badger.Open(Options(dir))
	if err != nil {
		return nil, fmt.Errorf("badgerkv: open %s: %w", dir, err)
	}

	s := memory.New(match, &Snapshotter{db: db})
	if err := s.Load(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("badgerkv: load: %w", err)
	}
	return s, nil
}

func userKey(id string) []byte {
	return append(append([]byte(nil), userPrefix...), id...)
}

func (b *Snapshotter) Load(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = userPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var u domain.User
				if err := json.Unmarshal(val, &u); err != nil {
					return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
				}
				users = append(users, u)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return users, err
}

// Save makes the "user/" keyspace equal to users: stale keys are deleted and
// every record is rewritten.
func (b *Snapshotter) Save(ctx context.Context, users []domain.User) error {
	return b.db.Update(func(txn *badger.Txn) error {
		keep := make(map[string]struct{}, len(users))
		for _, u := range users {
			keep[string(userKey(u.ID))] = struct{}{}
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = userPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			if _, ok := keep[string(it.Item().Key())]; !ok {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		it.Close()

		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for _, u := range users {
			val, err := json.Marshal(u)
			if err != nil {
				return fmt.Errorf("encode user %s: %w", u.ID, err)
			}
			if err := txn.Set(userKey(u.ID), val); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Snapshotter) Ping(ctx context.Context) error {
	if b.db.IsClosed() {
		return badger.ErrDBClosed
	}
	return nil
}

func (b *Snapshotter) Close() error {
	if b.db.IsClosed() {
		return nil
	}
	return b.db.Close()
}
