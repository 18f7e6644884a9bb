package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/mbs-backend/internal/model"
)

type UserRepo struct{ q DBTX }

func NewUserRepo(q DBTX) *UserRepo { return &UserRepo{q: q} }

const userColumns = "id, name, email, password, payment"

// Create inserts a user and returns its ID.  A second account with the
// same email yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO users (name, email, password, payment) VALUES (?,?,?,?)",
		u.Name, u.Email, u.Password, u.Payment)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, fmt.Errorf("create user: %w", ErrDuplicate)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return uint64(id), nil
}

// GetByCredentials fetches the user matching both email and credential.
func (r *UserRepo) GetByCredentials(ctx context.Context, email, password string) (model.User, error) {
	var u model.User
	err := r.q.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users WHERE email=? AND password=? LIMIT 1",
		email, password)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrInvalidCredentials
	}
	if err != nil {
		return u, fmt.Errorf("get user by credentials: %w", err)
	}
	return u, nil
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.q.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	if err != nil {
		return u, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// DeleteByCredentials removes the account matching both fields.  Tickets
// and reviews owned by the account are left in place.
func (r *UserRepo) DeleteByCredentials(ctx context.Context, email, password string) error {
	res, err := r.q.ExecContext(ctx,
		"DELETE FROM users WHERE email=? AND password=?", email, password)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInvalidCredentials
	}
	return nil
}

// UpdatePayment replaces the payment details of the matching account.
// It is the only in-place update a user row ever receives.
func (r *UserRepo) UpdatePayment(ctx context.Context, email, password, payment string) error {
	res, err := r.q.ExecContext(ctx,
		"UPDATE users SET payment=? WHERE email=? AND password=?", payment, email, password)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	// MySQL reports zero affected rows when the value is unchanged, so a
	// miss is confirmed with a lookup before reporting bad credentials.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByCredentials(ctx, email, password); err != nil {
			return err
		}
	}
	return nil
}
