package postgres

import (
	"context"
	"database/sql"
	"strings"

	"showclinic-backend/internal/domain/users"
	"showclinic-backend/internal/ports/auth"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1,$2,$3,$4)
	`, u.ID, u.Username, u.PasswordHash, string(u.Role))
	return err
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return users.User{}, users.ErrNotFound
	}

	var u users.User
	var role string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	if err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}

	u.Role = auth.Role(role)
	return u, nil
}
