// Package registry implements the population registry: residents, their occupations
// and nationalities, relocation and registration types, and registration records.
//
// Every entity is served by the same generic repository engine configured per entity.
// Writes run in transactions, searches are paginated, owner-scoped entities allow one
// row per account and bulk deletes are all-or-nothing. The package does not log;
// callers log the typed errors it returns.
package registry

import (
	"github.com/rise-and-shine/popreg/repogen"
	"github.com/uptrace/bun"
)

const defaultSchema = "public"

// Registry is the data-access object of the registry. It holds no state besides the
// database handle and the per-entity configuration, and is safe for concurrent use.
type Registry struct {
	Occupations       *Service[Occupation, CreateOccupation, UpdateOccupation]
	Nationalities     *Service[Nationality, CreateNationality, UpdateNationality]
	RelocationTypes   *Service[RelocationType, CreateRelocationType, UpdateRelocationType]
	RegistrationTypes *Service[RegistrationType, CreateRegistrationType, UpdateRegistrationType]
	Residents         *Service[Resident, CreateResident, UpdateResident]
	Registrations     *Service[Registration, CreateRegistration, UpdateRegistration]
}

type options struct {
	schema string
}

// Option configures a Registry.
type Option func(*options)

// WithSchema places the registry tables in schema instead of "public".
// The schema must be on the connection search_path, since joined tables are not qualified;
// CheckSearchPath verifies it.
func WithSchema(schema string) Option {
	return func(o *options) {
		if schema != "" {
			o.schema = schema
		}
	}
}

// New builds a Registry on db.
func New(db bun.IDB, opts ...Option) *Registry {
	o := options{schema: defaultSchema}
	for _, opt := range opts {
		opt(&o)
	}

	occupations := repogen.NewPgRepo(db, occupationSpec(o.schema))
	nationalities := repogen.NewPgRepo(db, nationalitySpec(o.schema))
	relocationTypes := repogen.NewPgRepo(db, relocationTypeSpec(o.schema))
	registrationTypes := repogen.NewPgRepo(db, registrationTypeSpec(o.schema))
	residents := repogen.NewPgRepo(db, residentSpec(o.schema))
	registrations := repogen.NewPgRepo(db, registrationSpec(o.schema))

	occupationResolver := repogen.NewResolver(occupations, colName, newOccupation)

	return &Registry{
		Occupations:       newOccupationService(db, occupations),
		Nationalities:     newNationalityService(db, nationalities),
		RelocationTypes:   newRelocationTypeService(db, relocationTypes),
		RegistrationTypes: newRegistrationTypeService(db, registrationTypes),
		Residents:         newResidentService(db, residents, nationalities, occupationResolver),
		Registrations:     newRegistrationService(db, registrations, residents, relocationTypes, registrationTypes),
	}
}
