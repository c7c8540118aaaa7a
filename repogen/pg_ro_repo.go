package repogen

import (
	"context"
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/pagination"
	"github.com/rise-and-shine/popreg/pg"
	"github.com/rise-and-shine/popreg/sorter"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// PgReadOnlyRepo provides the lookup and search side of a PgRepo.
type PgReadOnlyRepo[E any] struct {
	idb  bun.IDB
	spec Spec[E]
}

// NewPgReadOnlyRepo creates a read-only repository for E.
func NewPgReadOnlyRepo[E any](idb bun.IDB, spec Spec[E]) *PgReadOnlyRepo[E] {
	return &PgReadOnlyRepo[E]{
		idb:  idb,
		spec: spec.withDefaults(),
	}
}

// FindByID returns the entity with its display relations, or a not-found error.
func (r *PgReadOnlyRepo[E]) FindByID(ctx context.Context, id uuid.UUID) (*E, error) {
	return r.get(ctx, ByID(id), errx.D{"id": id.String()})
}

// FindByOwner returns the entity owned by ownerID with its display relations,
// or a not-found error.
func (r *PgReadOnlyRepo[E]) FindByOwner(ctx context.Context, ownerID string) (*E, error) {
	if r.spec.OwnerColumn == "" {
		return nil, errx.New(
			fmt.Sprintf("%s has no owner", r.spec.Entity),
			errx.WithCode(CodeNoOwner),
		)
	}
	return r.get(ctx, Eq(r.spec.OwnerColumn, ownerID), errx.D{"owner_id": ownerID})
}

func (r *PgReadOnlyRepo[E]) get(ctx context.Context, filter Filter, details errx.D) (*E, error) {
	entity := new(E)
	q := r.idb.NewSelect().Model(entity)
	q = r.applyModelTableExpr(q)
	q = r.applyRelations(q)
	q = filter(q)

	err := q.Scan(ctx)
	if pg.IsNotFound(err) {
		return nil, errx.New(
			fmt.Sprintf("%s not found", r.spec.Entity),
			errx.WithType(errx.T_NotFound),
			errx.WithCode(r.spec.NotFoundCode),
			errx.WithDetails(details),
		)
	}
	if err != nil {
		return nil, wrapStorageErr(err, q)
	}

	return entity, nil
}

// FirstOrNil returns the first entity matching filter without relations, or nil.
func (r *PgReadOnlyRepo[E]) FirstOrNil(ctx context.Context, filter Filter) (*E, error) {
	entities := make([]E, 0, 1)
	q := r.idb.NewSelect().Model(&entities).Limit(1)
	q = r.applyModelTableExpr(q)
	q = filter(q)

	err := q.Scan(ctx)
	if err != nil {
		return nil, wrapStorageErr(err, q)
	}

	if len(entities) == 0 {
		return nil, nil //nolint:nilnil // absence is not an error here
	}

	return &entities[0], nil
}

// Exists reports whether any row matches all filters.
func (r *PgReadOnlyRepo[E]) Exists(ctx context.Context, filters ...Filter) (bool, error) {
	q := r.idb.NewSelect().Model((*E)(nil))
	q = r.applyModelTableExpr(q)
	for _, f := range filters {
		q = f(q)
	}

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, wrapStorageErr(err, q)
	}

	return exists, nil
}

// Search returns one page of entities matching sq.Q on the configured search columns,
// newest first, together with the total number of matches.
//
// The page and the count are read concurrently. When the repository is bound to a
// transaction they run one after the other, since a transaction owns a single connection.
// A page starting beyond pagination.MaxOffset is empty and is not queried.
func (r *PgReadOnlyRepo[E]) Search(ctx context.Context, sq SearchQuery) (pagination.Response[E], error) {
	page := sq.Page
	page.Normalize()
	sortOpts := sorter.MakeFromStr(sq.Sort, r.spec.SortFields...)

	var (
		entities = make([]E, 0, min(page.Limit(), maxPreallocatedRows))
		total    int
	)

	g, gctx := errgroup.WithContext(ctx)
	if _, inTx := r.idb.(bun.Tx); inTx {
		g.SetLimit(1)
	}

	if page.Reachable() {
		g.Go(func() error {
			q := r.pageQuery(&entities, sq.Q, sortOpts, page)
			if err := q.Scan(gctx); err != nil {
				return wrapStorageErr(err, q)
			}
			return nil
		})
	}

	g.Go(func() error {
		q := r.countQuery(sq.Q)
		n, err := q.Count(gctx)
		if err != nil {
			return wrapStorageErr(err, q)
		}
		total = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return pagination.Response[E]{}, errx.Wrap(err)
	}

	return pagination.NewResponse(page, entities, int64(total)), nil
}

func (r *PgReadOnlyRepo[E]) pageQuery(
	dst *[]E,
	term string,
	sortOpts sorter.SortOpts,
	page pagination.Request,
) *bun.SelectQuery {
	q := r.idb.NewSelect().Model(dst)
	q = r.applyModelTableExpr(q)
	q = r.applyRelations(q)
	q = r.applySearch(q, term)
	q = r.applyOrder(q, sortOpts)
	return q.Limit(page.Limit()).Offset(page.Offset())
}

func (r *PgReadOnlyRepo[E]) countQuery(term string) *bun.SelectQuery {
	q := r.idb.NewSelect().Model((*E)(nil))
	q = r.applyModelTableExpr(q)
	q = r.applyRelations(q)
	return r.applySearch(q, term)
}

func (r *PgReadOnlyRepo[E]) applyModelTableExpr(q *bun.SelectQuery) *bun.SelectQuery {
	table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // table name is always available
	return q.ModelTableExpr("?.? AS ?", bun.Ident(r.spec.Schema), bun.Ident(table.Name), bun.Ident(table.Alias))
}

func (r *PgReadOnlyRepo[E]) applyRelations(q *bun.SelectQuery) *bun.SelectQuery {
	for _, rel := range r.spec.Relations {
		q = q.Relation(rel)
	}
	return q
}

// applyOrder sorts by the requested options, newest first otherwise. The primary key
// is always the last key so pages are stable between requests.
func (r *PgReadOnlyRepo[E]) applyOrder(q *bun.SelectQuery, opts sorter.SortOpts) *bun.SelectQuery {
	if len(opts) == 0 {
		opts = sorter.Make(sorter.Opt{F: "created_at", D: sorter.Desc})
	}
	q = opts.Apply(q)
	if !opts.Has("id") {
		q = q.OrderExpr("?TableAlias.id DESC")
	}
	return q
}

// nameOf returns the name of the type of the given value.
// If the value is a pointer, it returns the name of the pointed-to type.
func nameOf(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		return t.Elem().Name()
	}
	return t.Name()
}
