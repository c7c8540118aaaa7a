package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Identifiable is implemented by every model embedding Model.
type Identifiable interface {
	GetID() uuid.UUID
}

// Model provides the identifier and timestamp columns shared by all registry tables.
//
// The ID is a UUIDv7 generated on insert, so ordering by id follows insertion order.
type Model struct {
	ID uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	// CreatedAt stores the timestamp when the record was created.
	CreatedAt time.Time `bun:"created_at,nullzero,notnull" json:"created_at"`
	// UpdatedAt stores the timestamp when the record was last mutated.
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull" json:"updated_at"`
}

var (
	_ bun.BeforeAppendModelHook = (*Model)(nil)
	_ Identifiable              = (*Model)(nil)
)

// GetID returns the primary key.
func (m *Model) GetID() uuid.UUID {
	return m.ID
}

// BeforeAppendModel assigns the identifier on insert and keeps the timestamps current.
func (m *Model) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now().UTC()

	switch query.(type) {
	case *bun.InsertQuery:
		if m.ID == uuid.Nil {
			m.ID = uuid.Must(uuid.NewV7())
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.UpdatedAt = now
	case *bun.UpdateQuery:
		m.UpdatedAt = now
	}
	return nil
}
