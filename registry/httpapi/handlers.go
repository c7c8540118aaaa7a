package httpapi

import (
	"context"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/meta"
	"github.com/rise-and-shine/popreg/pagination"
	"github.com/rise-and-shine/popreg/repogen"
	"github.com/rise-and-shine/popreg/ucdef"
	"github.com/rise-and-shine/popreg/ucdef/wrapper"
)

// CodeUnauthenticated is returned by owner-scoped operations without a principal.
const CodeUnauthenticated = "UNAUTHENTICATED"

// ownerSetter is implemented by create inputs of owner-scoped entities.
type ownerSetter interface {
	SetOwner(accountID string)
}

func isOwned[C any]() bool {
	_, ok := any(new(C)).(ownerSetter)
	return ok
}

// action adapts a function to ucdef.UserAction.
type action[I, O any] struct {
	id string
	fn func(ctx context.Context, in I) (O, error)
}

func (a action[I, O]) OperationID() string { return a.id }

func (a action[I, O]) Execute(ctx context.Context, in I) (O, error) {
	return a.fn(ctx, in)
}

func newAction[I, O any](id string, fn func(ctx context.Context, in I) (O, error)) ucdef.UserAction[I, O] {
	return ucdef.Wrap[I, O](action[I, O]{id: id, fn: fn}, wrapper.NewTracing[I, O]())
}

type handlers[E, C, U any] struct {
	entity string
	svc    Service[E, C, U]
}

func (h handlers[E, C, U]) create() ucdef.UserAction[*C, *E] {
	return newAction(h.entity+".create", func(ctx context.Context, in *C) (*E, error) {
		if setter, ok := any(in).(ownerSetter); ok {
			accountID, err := principal(ctx)
			if err != nil {
				return nil, err
			}
			setter.SetOwner(accountID)
		}

		e, err := h.svc.Create(ctx, *in)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return e, nil
	})
}

func (h handlers[E, C, U]) search() ucdef.UserAction[*searchRequest, pagination.Response[E]] {
	return newAction(h.entity+".search", func(ctx context.Context, in *searchRequest) (pagination.Response[E], error) {
		resp, err := h.svc.Search(ctx, repogen.SearchQuery{
			Q:    in.Q,
			Sort: in.Sort,
			Page: pagination.Request{Page: in.Page, Size: in.Size},
		})
		if err != nil {
			return pagination.Response[E]{}, errx.Wrap(err)
		}
		return resp, nil
	})
}

func (h handlers[E, C, U]) findByID() ucdef.UserAction[*idRequest, *E] {
	return newAction(h.entity+".find_by_id", func(ctx context.Context, in *idRequest) (*E, error) {
		e, err := h.svc.FindByID(ctx, uuid.MustParse(in.ID))
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return e, nil
	})
}

func (h handlers[E, C, U]) findMine() ucdef.UserAction[*meRequest, *E] {
	return newAction(h.entity+".find_mine", func(ctx context.Context, _ *meRequest) (*E, error) {
		accountID, err := principal(ctx)
		if err != nil {
			return nil, err
		}

		e, err := h.svc.FindByOwner(ctx, accountID)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return e, nil
	})
}

func (h handlers[E, C, U]) update() ucdef.UserAction[*updateRequest[U], *E] {
	return newAction(h.entity+".update", func(ctx context.Context, in *updateRequest[U]) (*E, error) {
		e, err := h.svc.Update(ctx, uuid.MustParse(in.ID), in.Patch)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return e, nil
	})
}

func (h handlers[E, C, U]) remove() ucdef.UserAction[*idRequest, removedResponse] {
	return newAction(h.entity+".remove", func(ctx context.Context, in *idRequest) (removedResponse, error) {
		err := h.svc.Remove(ctx, uuid.MustParse(in.ID))
		if err != nil {
			return removedResponse{}, errx.Wrap(err)
		}
		return removedResponse{Deleted: 1}, nil
	})
}

func (h handlers[E, C, U]) removeBulk() ucdef.UserAction[*bulkDeleteRequest, removedResponse] {
	return newAction(h.entity+".remove_bulk", func(ctx context.Context, in *bulkDeleteRequest) (removedResponse, error) {
		ids := make([]uuid.UUID, 0, len(in.IDs))
		for _, s := range in.IDs {
			ids = append(ids, uuid.MustParse(s))
		}

		n, err := h.svc.RemoveBulk(ctx, ids)
		if err != nil {
			return removedResponse{}, errx.Wrap(err)
		}
		return removedResponse{Deleted: n}, nil
	})
}

// principal returns the authenticated account of the request.
func principal(ctx context.Context) (string, error) {
	accountID, ok := meta.RequestUser(ctx)
	if !ok {
		return "", errx.New(
			"authenticated account required",
			errx.WithType(errx.T_Authentication),
			errx.WithCode(CodeUnauthenticated),
		)
	}
	return accountID, nil
}
