// Package sqlite stores user records in a SQLite database. Every mutation is
// its own transaction, and the unique email_index column backs the
// duplicate-email rule for indexed records.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	_ "modernc.org/sqlite"
)

type Store struct {
	db    *sql.DB
	match store.EmailMatcher
}

// NewStore opens dsn. Call ApplyMigrations before use.
func NewStore(dsn string, match store.EmailMatcher) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One writer at a time keeps lookup-then-write atomic across callers and
	// lets ":memory:" databases survive between queries.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, match: match}, nil
}

func (s *Store) Users() store.Users { return &usersRepo{s: s} }

// Load is a no-op; the database is the durable copy.
func (s *Store) Load(ctx context.Context) error { return nil }

// Persist is a no-op; every mutation commits before returning.
func (s *Store) Persist(ctx context.Context) error { return nil }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// withTx runs fn in a transaction, committing when it returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const userColumns = `id, email, email_index, password_hash, additional_data, privacy, roles, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u                    domain.User
		index                sql.NullString
		additional, privacy  string
		roles                string
		createdAt, updatedAt sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.EmailCiphertext, &index, &u.PasswordHash, &additional, &privacy, &roles, &createdAt, &updatedAt); err != nil {
		return domain.User{}, err
	}

	u.EmailIndex = mapNullString(index)
	if err := json.Unmarshal([]byte(additional), &u.AdditionalData); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: decode additional_data for %s: %w", u.ID, err)
	}
	if err := json.Unmarshal([]byte(privacy), &u.Privacy); err != nil {
		return domain.User{}, fmt.Errorf("sqlite: decode privacy for %s: %w", u.ID, err)
	}
	u.Roles = splitRoles(roles)
	u.CreatedAt = mapNullTimePtr(createdAt)
	u.UpdatedAt = mapNullTimePtr(updatedAt)
	return u, nil
}

// userArgs returns the column values for u in userColumns order.
func userArgs(u domain.User) ([]any, error) {
	additional := u.AdditionalData
	if additional == nil {
		additional = map[string]string{}
	}
	ad, err := json.Marshal(additional)
	if err != nil {
		return nil, err
	}
	pv, err := json.Marshal(u.Privacy)
	if err != nil {
		return nil, err
	}
	return []any{
		u.ID,
		u.EmailCiphertext,
		mapStringNull(u.EmailIndex),
		u.PasswordHash,
		string(ad),
		string(pv),
		strings.Join(u.Roles, " "),
		mapOptionalTime(u.CreatedAt),
		mapOptionalTime(u.UpdatedAt),
	}, nil
}

// lookup finds the record for email: by index first, then by decrypting the
// records that predate indexes.
func (s *Store) lookup(ctx context.Context, q querier, email string) (domain.User, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_index = ?`,
		s.match.BlindIndex(email),
	)
	u, err := scanUser(row)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, err
	}

	rows, err := q.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE email_index IS NULL ORDER BY id`)
	if err != nil {
		return domain.User{}, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return domain.User{}, err
		}
		if s.match.MatchEmail(u.EmailCiphertext, email) {
			return u, nil
		}
	}
	if err := rows.Err(); err != nil {
		return domain.User{}, err
	}
	return domain.User{}, store.ErrNotFound
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func splitRoles(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
