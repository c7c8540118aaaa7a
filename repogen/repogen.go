// Package repogen provides a generic PostgreSQL entity repository built on bun.
//
// One PgRepo is parametrized by the entity type and a Spec describing its uniqueness
// fields, owner column, display relations and searchable columns. The same engine
// serves every registry entity: conflict-suppressing create, joined lookups, filtered
// and paginated search with a concurrent count, transactional partial update with
// uniqueness checks, and all-or-nothing bulk delete. Resolver adds resolve-or-create
// of dependent rows by natural key.
package repogen

import (
	"context"

	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/pagination"
	"github.com/rise-and-shine/popreg/pg"
	"github.com/uptrace/bun"
)

const (
	defaultSchema       = "public"
	defaultNotFoundCode = "OBJECT_NOT_FOUND"

	maxPreallocatedRows = 100
)

// Spec configures a PgRepo for one entity type.
type Spec[E any] struct {
	// Entity is the human readable entity name used in error messages, e.g. "occupation".
	Entity string
	// Schema is the PostgreSQL schema holding the entity table. Defaults to "public".
	Schema string
	// NotFoundCode is the error code of lookups that find no row.
	NotFoundCode string

	// Uniques lists the columns whose values must be unique among live rows,
	// including the owner column when the entity has one.
	Uniques []Unique[E]
	// OwnerColumn is the column referencing the owning account. Empty for unowned entities.
	OwnerColumn string
	// References maps foreign key constraint names to the not-found code reported
	// when the referenced row does not exist.
	References map[string]string

	// Relations are the belongs-to relations joined for display and search.
	Relations []string
	// SearchColumns are SQL expressions matched case-insensitively against the search term.
	// Own columns use ?TableAlias, joined columns use the relation alias.
	SearchColumns []string
	// SortFields are the own columns a client may sort by.
	SortFields []string
}

// Unique describes one uniqueness constraint of an entity.
type Unique[E any] struct {
	Column     string
	Constraint string
	Code       string
	Value      func(e *E) any
}

func (s Spec[E]) withDefaults() Spec[E] {
	if s.Schema == "" {
		s.Schema = defaultSchema
	}
	if s.NotFoundCode == "" {
		s.NotFoundCode = defaultNotFoundCode
	}
	if s.Entity == "" {
		s.Entity = nameOf(new(E))
	}
	return s
}

// SearchQuery is the input of a search: a free-text term, a page window and an
// optional sort string such as "name:asc".
type SearchQuery struct {
	Q    string
	Sort string
	Page pagination.Request
}

// Filter narrows a select query.
type Filter func(q *bun.SelectQuery) *bun.SelectQuery

// Eq matches rows whose own column equals value.
func Eq(column string, value any) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
}

// ByID matches the row with the given primary key.
func ByID(id uuid.UUID) Filter {
	return Eq("id", id)
}

// ByIDs matches rows whose primary key is in ids.
func ByIDs(ids []uuid.UUID) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id IN (?)", bun.In(ids))
	}
}

// Not excludes the row with the given primary key.
func Not(id uuid.UUID) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id <> ?", id)
	}
}

// Patch mutates a locked entity in place inside the update transaction.
// tx may be used for dependent lookups that must commit or roll back with the update.
type Patch[E any] func(ctx context.Context, tx bun.IDB, entity *E) error

// idOf returns the primary key of entities embedding pg.Model.
func idOf[E any](e *E) uuid.UUID {
	if i, ok := any(e).(pg.Identifiable); ok {
		return i.GetID()
	}
	return uuid.Nil
}
