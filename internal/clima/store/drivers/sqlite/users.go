package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/pkg/idx"
)

type usersRepo struct {
	s *Store
}

func (r *usersRepo) Insert(ctx context.Context, email string, u domain.User) error {
	return r.s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := r.s.lookup(ctx, tx, email)
		if err == nil {
			return store.ErrAlreadyExists
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if u.ID == "" {
			u.ID = idx.New().String()
		}
		args, err := userArgs(u)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...,
		)
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	})
}

func (r *usersRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.s.lookup(ctx, r.s.db, email)
}

func (r *usersRepo) Update(ctx context.Context, email string, mutate func(*domain.User) error) (domain.User, error) {
	var out domain.User
	err := r.s.withTx(ctx, func(tx *sql.Tx) error {
		before, err := r.s.lookup(ctx, tx, email)
		if err != nil {
			return err
		}

		after := before.Clone()
		if err := mutate(&after); err != nil {
			return err
		}
		after.ID = before.ID

		args, err := userArgs(after)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET email = ?, email_index = ?, password_hash = ?, additional_data = ?,
			privacy = ?, roles = ?, created_at = ?, updated_at = ? WHERE id = ?`,
			append(args[1:], after.ID)...,
		)
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("sqlite: update %s: %w", after.ID, err)
		}
		out = after
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return out, nil
}

func (r *usersRepo) Remove(ctx context.Context, email string) error {
	return r.s.withTx(ctx, func(tx *sql.Tx) error {
		u, err := r.s.lookup(ctx, tx, email)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, u.ID)
		return err
	})
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
