package repogen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	resolveAttempts   = 2
	resolveRetryDelay = 5 * time.Millisecond
)

var errLostInsertRace = errors.New("row inserted concurrently")

// Resolver finds a dependent entity by its natural key, creating it when absent.
type Resolver[E any] struct {
	repo   *PgRepo[E]
	column string
	newFn  func(key string) *E
}

// NewResolver creates a resolver looking up repo's entities by column and building
// missing ones with newFn.
func NewResolver[E any](repo *PgRepo[E], column string, newFn func(key string) *E) *Resolver[E] {
	return &Resolver[E]{
		repo:   repo,
		column: column,
		newFn:  newFn,
	}
}

// Resolve returns the id of the entity whose column equals key, inserting a new one
// through idb when none exists. idb is normally the caller's transaction so the new
// row commits or rolls back with the caller's write.
//
// If another writer inserts the same key between the lookup and the insert, the lookup
// is repeated once and the concurrently created row is reused.
func (r *Resolver[E]) Resolve(ctx context.Context, idb bun.IDB, key string) (uuid.UUID, error) {
	repo := r.repo.WithIDB(idb)

	var id uuid.UUID
	err := retry.Do(
		func() error {
			existing, err := repo.FirstOrNil(ctx, Eq(r.column, key))
			if err != nil {
				return err
			}
			if existing != nil {
				id = idOf(existing)
				return nil
			}

			entity := r.newFn(key)
			inserted, err := repo.insertIfAbsent(ctx, entity)
			if err != nil {
				return err
			}
			if !inserted {
				return errLostInsertRace
			}

			id = idOf(entity)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(resolveAttempts),
		retry.Delay(resolveRetryDelay),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errLostInsertRace) }),
		retry.LastErrorOnly(true),
	)

	if errors.Is(err, errLostInsertRace) {
		return uuid.Nil, errx.New(
			fmt.Sprintf("%s %q could not be resolved", r.repo.spec.Entity, key),
			errx.WithType(errx.T_Conflict),
			errx.WithCode(CodeConflict),
			errx.WithDetails(errx.D{"column": r.column, "key": key}),
		)
	}
	if err != nil {
		return uuid.Nil, errx.Wrap(err)
	}

	return id, nil
}
