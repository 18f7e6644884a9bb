package action

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/mbs-backend/internal/model"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

// CreateAccount registers a new user.  Payment details are optional.
func (h *Handlers) CreateAccount(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyName); !ok {
		return r
	}
	u := model.User{
		Name:     in.Get(KeyName),
		Email:    in.Get(KeyEmail),
		Password: in.Get(KeyPassword),
	}
	if p := in.Get(KeyPayment); p != "" {
		u.Payment = sql.NullString{String: p, Valid: true}
	}

	var id uint64
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		id, err = repository.NewUserRepo(q).Create(ctx, u)
		return err
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return Fail("failed to create account")
	}
	if err != nil {
		return h.storeFault(CreateAccount, "failed to create account", err)
	}
	return OK("account created").With("user_id", id)
}

// DeleteAccount removes the caller's own account.
func (h *Handlers) DeleteAccount(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword); !ok {
		return r
	}
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		return repository.NewUserRepo(q).DeleteByCredentials(ctx, in.Get(KeyEmail), in.Get(KeyPassword))
	})
	if errors.Is(err, repository.ErrInvalidCredentials) {
		return Fail(MsgInvalidCredentials)
	}
	if err != nil {
		return h.storeFault(DeleteAccount, "failed to delete account", err)
	}
	return OK("account deleted")
}

// UpdatePayment replaces the caller's payment details.
func (h *Handlers) UpdatePayment(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyPayment); !ok {
		return r
	}
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		return repository.NewUserRepo(q).UpdatePayment(ctx, in.Get(KeyEmail), in.Get(KeyPassword), in.Get(KeyPayment))
	})
	if errors.Is(err, repository.ErrInvalidCredentials) {
		return Fail(MsgInvalidCredentials)
	}
	if err != nil {
		return h.storeFault(UpdatePayment, "failed to update payment", err)
	}
	return OK("payment details updated")
}

// VerifyAccount confirms an email and credential pair.
func (h *Handlers) VerifyAccount(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword); !ok {
		return r
	}
	u, err := h.checker.Authenticate(ctx, in.Get(KeyEmail), in.Get(KeyPassword))
	if errors.Is(err, repository.ErrInvalidCredentials) {
		return Fail(MsgInvalidCredentials)
	}
	if err != nil {
		return h.storeFault(VerifyAccount, "failed to verify account", err)
	}
	return OK("account verified").With("user_id", u.ID)
}

// AccountDetails returns a user record without its credential.  With
// target_email set an admin may read any account; otherwise the caller
// reads their own, subject to the configured policy.
func (h *Handlers) AccountDetails(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword); !ok {
		return r
	}
	email, password := in.Get(KeyEmail), in.Get(KeyPassword)
	target := in.Get(KeyTargetEmail)

	if h.policy == DetailsAdminOnly || (target != "" && target != email) {
		if r, ok := h.requireAdmin(ctx, AccountDetails, in, "failed to get account details"); !ok {
			return r
		}
	}

	var (
		u       model.User
		isAdmin bool
	)
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		if target == "" || target == email {
			u, err = repository.NewUserRepo(q).GetByCredentials(ctx, email, password)
		} else {
			u, err = repository.NewUserRepo(q).GetByEmail(ctx, target)
		}
		if err != nil {
			return err
		}
		isAdmin, err = repository.NewAdminRepo(q).IsAdmin(ctx, u.ID)
		return err
	})
	switch {
	case errors.Is(err, repository.ErrInvalidCredentials):
		return Fail(MsgInvalidCredentials)
	case errors.Is(err, repository.ErrNotFound):
		return Fail(MsgInvalidTargetEmail)
	case err != nil:
		return h.storeFault(AccountDetails, "failed to get account details", err)
	}
	return OK("account details").
		With("user", newUserView(u)).
		With("admin", isAdmin)
}
