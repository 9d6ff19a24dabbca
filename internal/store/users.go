package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/najdeno/internal/model"
)

const userColumns = `id, username, password, email, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser creates a new user. The uniqueness checks and the insert run in
// one transaction; the unique indexes catch anything that races past them.
func (s *SQL) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range []struct{ column, value string }{
		{"username", u.Username},
		{"email", u.Email},
	} {
		var n int
		err := tx.QueryRowContext(ctx,
			s.q(`SELECT COUNT(*) FROM users WHERE `+c.column+` = ?`), c.value,
		).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", c.column, err)
		}
		if n > 0 {
			return nil, &model.ConflictError{Field: c.column}
		}
	}

	created := &model.User{
		Username:  u.Username,
		Password:  u.Password,
		Email:     u.Email,
		CreatedAt: s.stamp(),
	}
	err = tx.QueryRowContext(ctx,
		s.q(`INSERT INTO users (username, password, email, created_at) VALUES (?, ?, ?, ?) RETURNING id`),
		created.Username, created.Password, created.Email, created.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		if isUniqueViolation(err) {
			field := "username"
			if strings.Contains(err.Error(), "email") {
				field = "email"
			}
			return nil, &model.ConflictError{Field: field}
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing user: %w", err)
	}
	return created, nil
}

// GetUser returns a user by ID.
func (s *SQL) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), id,
	))
	if err == sql.ErrNoRows {
		return nil, &model.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username.
func (s *SQL) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+userColumns+` FROM users WHERE username = ?`), username,
	))
	if err == sql.ErrNoRows {
		return nil, &model.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// ListUsers returns all users in insertion order.
func (s *SQL) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
