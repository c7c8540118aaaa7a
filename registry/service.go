package registry

import (
	"context"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/pagination"
	"github.com/rise-and-shine/popreg/pg"
	"github.com/rise-and-shine/popreg/repogen"
	"github.com/uptrace/bun"
)

// Service exposes the registry operations of one entity type E, created from C and
// partially updated with U. Inputs are expected to be validated by the caller.
type Service[E any, C any, U any] struct {
	db   bun.IDB
	repo *repogen.PgRepo[E]

	// build turns a create input into a new entity, resolving or checking its
	// references through tx.
	build func(ctx context.Context, tx bun.IDB, in C) (*E, error)
	// patch applies an update input to the locked entity, resolving or checking
	// changed references through tx.
	patch func(ctx context.Context, tx bun.IDB, e *E, in U) error
}

// Create inserts a new entity. Dependent lookups and the insert share one transaction.
func (s *Service[E, C, U]) Create(ctx context.Context, in C) (*E, error) {
	var created *E

	err := pg.RunInTx(ctx, s.db, pg.ReadCommitted, func(ctx context.Context, tx bun.Tx) error {
		txRepo := s.repo.WithIDB(tx)

		entity, err := s.build(ctx, tx, in)
		if err != nil {
			return errx.Wrap(err)
		}

		entity, err = txRepo.Create(ctx, entity)
		if err != nil {
			return errx.Wrap(err)
		}

		created, err = txRepo.FindByID(ctx, idOf(entity))
		if err != nil {
			return errx.Wrap(err)
		}
		return nil
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return created, nil
}

// FindByID returns the entity with its display relations.
func (s *Service[E, C, U]) FindByID(ctx context.Context, id uuid.UUID) (*E, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return e, nil
}

// FindByOwner returns the entity owned by accountID. Only owner-scoped entities support it.
func (s *Service[E, C, U]) FindByOwner(ctx context.Context, accountID string) (*E, error) {
	e, err := s.repo.FindByOwner(ctx, accountID)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return e, nil
}

// Search returns one page of entities matching the query, newest first.
func (s *Service[E, C, U]) Search(ctx context.Context, q repogen.SearchQuery) (pagination.Response[E], error) {
	resp, err := s.repo.Search(ctx, q)
	if err != nil {
		return pagination.Response[E]{}, errx.Wrap(err)
	}
	return resp, nil
}

// Update applies the present fields of in to the entity with the given id.
func (s *Service[E, C, U]) Update(ctx context.Context, id uuid.UUID, in U) (*E, error) {
	e, err := s.repo.Update(ctx, id, func(ctx context.Context, tx bun.IDB, e *E) error {
		return s.patch(ctx, tx, e, in)
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return e, nil
}

// Remove deletes the entity with the given id. Dependent rows are removed by cascade.
func (s *Service[E, C, U]) Remove(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Remove(ctx, id)
	if err != nil {
		return errx.Wrap(err)
	}
	return nil
}

// RemoveBulk deletes all entities in ids or none of them and returns the deleted count.
func (s *Service[E, C, U]) RemoveBulk(ctx context.Context, ids []uuid.UUID) (int, error) {
	n, err := s.repo.RemoveBulk(ctx, ids)
	if err != nil {
		return 0, errx.Wrap(err)
	}
	return n, nil
}

func idOf(e any) uuid.UUID {
	if i, ok := e.(pg.Identifiable); ok {
		return i.GetID()
	}
	return uuid.Nil
}
