package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"campus-canteen/internal/model"
	"campus-canteen/internal/utils"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span users and students.
func (r *UserRepo) DB() *sql.DB { return r.db }

// CreateTx inserts an authentication row inside an existing transaction
// and returns its ID.  The password must already be hashed; student
// registration shares one hash between users and students.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, email, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, passwordHash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// UpdatePasswordTx overwrites the stored hash for an email inside an
// existing transaction.  Used by the password change flow to keep users
// and students in step.
func (r *UserRepo) UpdatePasswordTx(ctx context.Context, tx *sql.Tx, email, passwordHash string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE email=?", passwordHash, email)
	return err
}

// EnsureAdmin seeds the admin account if it does not exist yet.  The
// check and insert make the call idempotent across restarts; a lost
// race against a concurrent boot is treated as success.  Returns true
// when a new account was created.
func (r *UserRepo) EnsureAdmin(ctx context.Context, email, password string, cost int) (bool, error) {
	if _, err := r.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return false, err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		strings.ToLower(strings.TrimSpace(email)), hash, model.RoleAdmin)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
