package action

import (
	"context"
	"errors"

	"github.com/iliyamo/mbs-backend/internal/repository"
)

// AddAdmin grants admin rights to the account named by target_email.
func (h *Handlers) AddAdmin(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyTargetEmail); !ok {
		return r
	}
	if r, ok := h.requireAdmin(ctx, AddAdmin, in, "failed to add admin"); !ok {
		return r
	}

	var targetID uint64
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		u, err := repository.NewUserRepo(q).GetByEmail(ctx, in.Get(KeyTargetEmail))
		if err != nil {
			return err
		}
		targetID = u.ID
		return repository.NewAdminRepo(q).Grant(ctx, u.ID)
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return Fail(MsgInvalidTargetEmail)
	case errors.Is(err, repository.ErrDuplicate):
		return Fail("failed to add admin")
	case err != nil:
		return h.storeFault(AddAdmin, "failed to add admin", err)
	}
	return OK("admin added").With("admin_id", targetID)
}

// RevokeAdmin removes admin rights from the account named by target_email.
func (h *Handlers) RevokeAdmin(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyTargetEmail); !ok {
		return r
	}
	if r, ok := h.requireAdmin(ctx, RevokeAdmin, in, "failed to revoke admin"); !ok {
		return r
	}

	// The user lookup and the revoke report ErrNotFound for different
	// reasons, so they are told apart here.
	var noUser bool
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		u, err := repository.NewUserRepo(q).GetByEmail(ctx, in.Get(KeyTargetEmail))
		if err != nil {
			noUser = errors.Is(err, repository.ErrNotFound)
			return err
		}
		return repository.NewAdminRepo(q).Revoke(ctx, u.ID)
	})
	switch {
	case noUser:
		return Fail(MsgInvalidTargetEmail)
	case errors.Is(err, repository.ErrNotFound):
		return Fail(MsgNotAdmin)
	case err != nil:
		return h.storeFault(RevokeAdmin, "failed to revoke admin", err)
	}
	return OK("admin revoked")
}

// CheckAdmin reports whether the credential pair belongs to an admin.
func (h *Handlers) CheckAdmin(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword); !ok {
		return r
	}
	isAdmin, err := h.checker.IsAdmin(ctx, in.Get(KeyEmail), in.Get(KeyPassword))
	if err != nil {
		return h.storeFault(CheckAdmin, "failed to check admin", err)
	}
	return OK("admin status checked").With("admin", isAdmin)
}
