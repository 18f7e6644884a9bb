package action

import (
	"context"
	"errors"

	"github.com/iliyamo/mbs-backend/internal/model"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

// AddTheater creates a theater.  Admin only.
func (h *Handlers) AddTheater(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyTheaterName); !ok {
		return r
	}
	if r, ok := h.requireAdmin(ctx, AddTheater, in, "failed to add theater"); !ok {
		return r
	}
	var id uint64
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		id, err = repository.NewTheaterRepo(q).Create(ctx, in.Get(KeyTheaterName))
		return err
	})
	if err != nil {
		return h.storeFault(AddTheater, "failed to add theater", err)
	}
	return OK("theater added").With("theater_id", id)
}

// DeleteTheater removes a theater.  Admin only.
func (h *Handlers) DeleteTheater(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyTheaterID); !ok {
		return r
	}
	id, ok := parseID(in.Get(KeyTheaterID))
	if !ok {
		return Fail(MsgInvalidTheaterID)
	}
	if r, ok := h.requireAdmin(ctx, DeleteTheater, in, "failed to delete theater"); !ok {
		return r
	}
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		return repository.NewTheaterRepo(q).Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return Fail(MsgTheaterNotFound)
	}
	if err != nil {
		return h.storeFault(DeleteTheater, "failed to delete theater", err)
	}
	return OK("theater deleted")
}

// GetTheater looks a theater up by name.
func (h *Handlers) GetTheater(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyTheaterName); !ok {
		return r
	}
	var t model.Theater
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		t, err = repository.NewTheaterRepo(q).GetByName(ctx, in.Get(KeyTheaterName))
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return Fail(MsgTheaterNotFound)
	}
	if err != nil {
		return h.storeFault(GetTheater, "failed to get theater", err)
	}
	return OK("theater retrieved").With("theater_id", t.ID)
}
