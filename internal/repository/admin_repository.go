package repository

import (
	"context"
	"fmt"
)

// AdminRepo manages the `admins` table.  A row marks its user privileged.
type AdminRepo struct{ q DBTX }

func NewAdminRepo(q DBTX) *AdminRepo { return &AdminRepo{q: q} }

// Grant inserts an admin row for userID.  Granting twice yields ErrDuplicate.
func (r *AdminRepo) Grant(ctx context.Context, userID uint64) error {
	if _, err := r.q.ExecContext(ctx, "INSERT INTO admins (user_id) VALUES (?)", userID); err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("grant admin: %w", ErrDuplicate)
		}
		return fmt.Errorf("grant admin: %w", err)
	}
	return nil
}

// EnsureGranted inserts the admin row unless it already exists.
func (r *AdminRepo) EnsureGranted(ctx context.Context, userID uint64) error {
	if _, err := r.q.ExecContext(ctx, "INSERT IGNORE INTO admins (user_id) VALUES (?)", userID); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

// Revoke deletes the admin row for userID.  It returns ErrNotFound when
// the user was not an admin.
func (r *AdminRepo) Revoke(ctx context.Context, userID uint64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM admins WHERE user_id=?", userID)
	if err != nil {
		return fmt.Errorf("revoke admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsAdmin reports whether userID has an admin row.
func (r *AdminRepo) IsAdmin(ctx context.Context, userID uint64) (bool, error) {
	var n int
	if err := r.q.GetContext(ctx, &n, "SELECT COUNT(*) FROM admins WHERE user_id=?", userID); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return n > 0, nil
}
