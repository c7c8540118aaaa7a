package repogen

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/pg"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
)

const msgAlreadyExists = "already exists"

// PgRepo provides the write side of the entity repository on top of PgReadOnlyRepo.
type PgRepo[E any] struct {
	*PgReadOnlyRepo[E]

	// conflictCodes maps unique constraint names to error codes,
	// e.g. conflictCodes["occupations_name_key"] = "OCCUPATION_NAME_TAKEN".
	conflictCodes map[string]Unique[E]
}

// NewPgRepo creates a repository for E configured by spec.
func NewPgRepo[E any](idb bun.IDB, spec Spec[E]) *PgRepo[E] {
	ro := NewPgReadOnlyRepo(idb, spec)

	conflictCodes := make(map[string]Unique[E], len(spec.Uniques))
	for _, u := range spec.Uniques {
		conflictCodes[u.Constraint] = u
	}

	return &PgRepo[E]{
		PgReadOnlyRepo: ro,
		conflictCodes:  conflictCodes,
	}
}

// WithIDB returns a copy of the repository running its queries on idb,
// typically a transaction.
func (r *PgRepo[E]) WithIDB(idb bun.IDB) *PgRepo[E] {
	return &PgRepo[E]{
		PgReadOnlyRepo: &PgReadOnlyRepo[E]{idb: idb, spec: r.spec},
		conflictCodes:  r.conflictCodes,
	}
}

// Create inserts entity unless it collides with an existing row on any unique column.
// A collision is reported as a conflict naming the offending column; no row is written.
func (r *PgRepo[E]) Create(ctx context.Context, entity *E) (*E, error) {
	inserted, err := r.insertIfAbsent(ctx, entity)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if !inserted {
		return nil, r.conflictOnCreate(ctx, entity)
	}

	return entity, nil
}

// insertIfAbsent runs INSERT ... ON CONFLICT DO NOTHING and reports whether a row was written.
func (r *PgRepo[E]) insertIfAbsent(ctx context.Context, entity *E) (bool, error) {
	q := r.idb.NewInsert().Model(entity).On("CONFLICT DO NOTHING").Returning("*")
	q = r.applyInsertModelTableExpr(q)

	res, err := q.Exec(ctx)
	if pg.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, r.mapWriteErr(err, q, "creating")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return n > 0, nil
}

// conflictOnCreate finds the unique column that made an insert a no-op.
func (r *PgRepo[E]) conflictOnCreate(ctx context.Context, entity *E) error {
	for _, u := range r.spec.Uniques {
		value := u.Value(entity)
		taken, err := r.Exists(ctx, Eq(u.Column, value))
		if err != nil {
			return errx.Wrap(err)
		}
		if taken {
			return r.conflictErr(u, "creating")
		}
	}

	return errx.New(
		fmt.Sprintf("conflict while creating %s", r.spec.Entity),
		errx.WithType(errx.T_Conflict),
		errx.WithCode(CodeConflict),
	)
}

// Update loads the entity under a row lock, applies patch, rejects changes that would
// duplicate a unique value of another row and writes the result. updated_at is
// refreshed on every successful update. The entity is returned with its relations.
func (r *PgRepo[E]) Update(ctx context.Context, id uuid.UUID, patch Patch[E]) (*E, error) {
	var updated *E

	err := pg.RunInTx(ctx, r.idb, pg.RepeatableRead, func(ctx context.Context, tx bun.Tx) error {
		txRepo := r.WithIDB(tx)

		current, err := txRepo.lock(ctx, id)
		if err != nil {
			return err
		}

		before := txRepo.uniqueValues(current)

		err = patch(ctx, tx, current)
		if err != nil {
			return errx.Wrap(err)
		}

		err = txRepo.checkUniqueChanges(ctx, id, before, current)
		if err != nil {
			return err
		}

		err = txRepo.write(ctx, current)
		if err != nil {
			return err
		}

		updated, err = txRepo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return updated, nil
}

func (r *PgRepo[E]) lock(ctx context.Context, id uuid.UUID) (*E, error) {
	entity := new(E)
	q := r.idb.NewSelect().Model(entity).For("UPDATE")
	q = r.applyModelTableExpr(q)
	q = ByID(id)(q)

	err := q.Scan(ctx)
	if pg.IsNotFound(err) {
		return nil, errx.New(
			fmt.Sprintf("%s not found", r.spec.Entity),
			errx.WithType(errx.T_NotFound),
			errx.WithCode(r.spec.NotFoundCode),
			errx.WithDetails(errx.D{"id": id.String()}),
		)
	}
	if err != nil {
		return nil, wrapStorageErr(err, q)
	}

	return entity, nil
}

func (r *PgRepo[E]) uniqueValues(entity *E) []any {
	return lo.Map(r.spec.Uniques, func(u Unique[E], _ int) any {
		return u.Value(entity)
	})
}

func (r *PgRepo[E]) checkUniqueChanges(ctx context.Context, id uuid.UUID, before []any, entity *E) error {
	for i, u := range r.spec.Uniques {
		value := u.Value(entity)
		if value == before[i] {
			continue
		}

		taken, err := r.Exists(ctx, Eq(u.Column, value), Not(id))
		if err != nil {
			return errx.Wrap(err)
		}
		if taken {
			return r.conflictErr(u, "updating")
		}
	}
	return nil
}

func (r *PgRepo[E]) write(ctx context.Context, entity *E) error {
	q := r.idb.NewUpdate().Model(entity).WherePK().ExcludeColumn("id", "created_at")
	q = r.applyUpdateModelTableExpr(q)

	res, err := q.Exec(ctx)
	if err != nil {
		return r.mapWriteErr(err, q, "updating")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	if n == 0 {
		return errx.New(
			fmt.Sprintf("no %s found to update", r.spec.Entity),
			errx.WithType(errx.T_NotFound),
			errx.WithCode(r.spec.NotFoundCode),
		)
	}

	return nil
}

// Remove deletes the entity with the given id, or reports it as not found.
func (r *PgRepo[E]) Remove(ctx context.Context, id uuid.UUID) error {
	err := r.EnsureExists(ctx, id)
	if err != nil {
		return err
	}

	q := r.idb.NewDelete().Model((*E)(nil)).Where("?TableAlias.id = ?", id)
	q = r.applyDeleteModelTableExpr(q)

	res, err := q.Exec(ctx)
	if err != nil {
		return r.mapWriteErr(err, q, "deleting")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	if n == 0 {
		return r.notFoundErr(id)
	}

	return nil
}

// RemoveBulk deletes every entity in ids or none of them. Repeated ids count once.
// If any id does not exist the transaction rolls back and a not-found error lists
// the missing ids. It returns the number of deleted rows.
func (r *PgRepo[E]) RemoveBulk(ctx context.Context, ids []uuid.UUID) (int, error) {
	unique := lo.Uniq(ids)
	if len(unique) == 0 {
		return 0, nil
	}

	var deleted int

	err := pg.RunInTx(ctx, r.idb, pg.RepeatableRead, func(ctx context.Context, tx bun.Tx) error {
		txRepo := r.WithIDB(tx)

		existing, err := txRepo.existingIDs(ctx, unique)
		if err != nil {
			return err
		}

		if len(existing) < len(unique) {
			missing, _ := lo.Difference(unique, existing)
			return errx.New(
				fmt.Sprintf("some %s ids were not found", r.spec.Entity),
				errx.WithType(errx.T_NotFound),
				errx.WithCode(CodeSomeIDsNotFound),
				errx.WithDetails(errx.D{
					"requested":   len(unique),
					"found":       len(existing),
					"missing_ids": missing,
				}),
			)
		}

		q := tx.NewDelete().Model((*E)(nil)).Where("?TableAlias.id IN (?)", bun.In(unique))
		q = txRepo.applyDeleteModelTableExpr(q)

		res, err := q.Exec(ctx)
		if err != nil {
			return txRepo.mapWriteErr(err, q, "deleting")
		}

		n, err := res.RowsAffected()
		if err != nil {
			return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
		}
		if int(n) != len(unique) {
			return errx.New(
				fmt.Sprintf("some %s ids were not found", r.spec.Entity),
				errx.WithType(errx.T_NotFound),
				errx.WithCode(CodeSomeIDsNotFound),
				errx.WithDetails(errx.D{"requested": len(unique), "deleted": n}),
			)
		}

		deleted = int(n)
		return nil
	})
	if err != nil {
		return 0, errx.Wrap(err)
	}

	return deleted, nil
}

// EnsureExists returns a not-found error unless a row with the given id exists.
func (r *PgRepo[E]) EnsureExists(ctx context.Context, id uuid.UUID) error {
	exists, err := r.Exists(ctx, ByID(id))
	if err != nil {
		return errx.Wrap(err)
	}
	if !exists {
		return r.notFoundErr(id)
	}
	return nil
}

func (r *PgRepo[E]) existingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	existing := make([]uuid.UUID, 0, len(ids))
	q := r.idb.NewSelect().Model((*E)(nil)).Column("id")
	q = r.applyModelTableExpr(q)
	q = ByIDs(ids)(q)

	err := q.Scan(ctx, &existing)
	if err != nil {
		return nil, wrapStorageErr(err, q)
	}

	return existing, nil
}

func (r *PgRepo[E]) notFoundErr(id uuid.UUID) error {
	return errx.New(
		fmt.Sprintf("%s not found", r.spec.Entity),
		errx.WithType(errx.T_NotFound),
		errx.WithCode(r.spec.NotFoundCode),
		errx.WithDetails(errx.D{"id": id.String()}),
	)
}

func (r *PgRepo[E]) conflictErr(u Unique[E], action string) error {
	return errx.New(
		fmt.Sprintf("conflict while %s %s: %s %s", action, r.spec.Entity, u.Column, msgAlreadyExists),
		errx.WithType(errx.T_Conflict),
		errx.WithCode(u.Code),
		errx.WithFields(errx.M{u.Column: msgAlreadyExists}),
	)
}

// mapWriteErr translates constraint violations raised by a write into typed errors.
func (r *PgRepo[E]) mapWriteErr(err error, q fmt.Stringer, action string) error {
	switch {
	case pg.IsConflict(err):
		if u, ok := r.conflictCodes[pg.ConstraintName(err)]; ok {
			return errx.New(
				fmt.Sprintf("conflict while %s %s: %s %s", action, r.spec.Entity, u.Column, msgAlreadyExists),
				errx.WithType(errx.T_Conflict),
				errx.WithCode(u.Code),
				errx.WithFields(errx.M{u.Column: msgAlreadyExists}),
				errx.WithDetails(pg.GetPgErrorDetails(err, q)),
			)
		}
		return errx.New(
			fmt.Sprintf("conflict while %s %s", action, r.spec.Entity),
			errx.WithType(errx.T_Conflict),
			errx.WithCode(CodeConflict),
			errx.WithDetails(pg.GetPgErrorDetails(err, q)),
		)
	case pg.IsForeignKeyViolation(err):
		code, ok := r.spec.References[pg.ConstraintName(err)]
		if !ok {
			code = CodeReferenceNotFound
		}
		return errx.New(
			fmt.Sprintf("referenced row not found while %s %s", action, r.spec.Entity),
			errx.WithType(errx.T_NotFound),
			errx.WithCode(code),
			errx.WithDetails(pg.GetPgErrorDetails(err, q)),
		)
	default:
		return wrapStorageErr(err, q)
	}
}

// wrapStorageErr wraps a storage failure with the query details. Serialization failures
// keep a dedicated code so the enclosing transaction can be retried.
func wrapStorageErr(err error, q fmt.Stringer) error {
	if pg.IsSerializationFailure(err) {
		return errx.Wrap(err,
			errx.WithType(errx.T_Internal),
			errx.WithCode(pg.CodeSerializationFailure),
			errx.WithDetails(pg.GetPgErrorDetails(err, q)),
		)
	}
	return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
}

func (r *PgRepo[E]) applyInsertModelTableExpr(q *bun.InsertQuery) *bun.InsertQuery {
	table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // table name is always available
	return q.ModelTableExpr("?.? AS ?", bun.Ident(r.spec.Schema), bun.Ident(table.Name), bun.Ident(table.Alias))
}

func (r *PgRepo[E]) applyUpdateModelTableExpr(q *bun.UpdateQuery) *bun.UpdateQuery {
	table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // table name is always available
	return q.ModelTableExpr("?.? AS ?", bun.Ident(r.spec.Schema), bun.Ident(table.Name), bun.Ident(table.Alias))
}

func (r *PgRepo[E]) applyDeleteModelTableExpr(q *bun.DeleteQuery) *bun.DeleteQuery {
	table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // table name is always available
	return q.ModelTableExpr("?.? AS ?", bun.Ident(r.spec.Schema), bun.Ident(table.Name), bun.Ident(table.Alias))
}
