package registry

import (
	"context"
	"strings"

	"github.com/rise-and-shine/popreg/opt"
	"github.com/rise-and-shine/popreg/repogen"
	"github.com/rise-and-shine/popreg/val"
	"github.com/uptrace/bun"
)

type CreateOccupation struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

type UpdateOccupation struct {
	Name opt.Value[string] `json:"name"`
}

func (u *UpdateOccupation) ValidateFields(f *val.Fields) {
	val.Opt(f, "name", u.Name, "notblank,max=100")
}

type CreateNationality struct {
	Label string `json:"label" validate:"notblank,max=100"`
}

type UpdateNationality struct {
	Label opt.Value[string] `json:"label"`
}

func (u *UpdateNationality) ValidateFields(f *val.Fields) {
	val.Opt(f, "label", u.Label, "notblank,max=100")
}

type CreateRelocationType struct {
	Label string `json:"label" validate:"notblank,max=50"`
}

type UpdateRelocationType struct {
	Label opt.Value[string] `json:"label"`
}

func (u *UpdateRelocationType) ValidateFields(f *val.Fields) {
	val.Opt(f, "label", u.Label, "notblank,max=50")
}

type CreateRegistrationType struct {
	Label string `json:"label" validate:"notblank,max=100"`
}

type UpdateRegistrationType struct {
	Label opt.Value[string] `json:"label"`
}

func (u *UpdateRegistrationType) ValidateFields(f *val.Fields) {
	val.Opt(f, "label", u.Label, "notblank,max=100")
}

// newLabelService builds the service of an entity described by a single unique text
// column. newFn creates an entity from the trimmed text and field returns a pointer
// to the text of an existing one.
func newLabelService[E any, C any, U any](
	db bun.IDB,
	repo *repogen.PgRepo[E],
	text func(in C) string,
	change func(in U) opt.Value[string],
	newFn func(text string) *E,
	field func(e *E) *string,
) *Service[E, C, U] {
	return &Service[E, C, U]{
		db:   db,
		repo: repo,
		build: func(_ context.Context, _ bun.IDB, in C) (*E, error) {
			return newFn(strings.TrimSpace(text(in))), nil
		},
		patch: func(_ context.Context, _ bun.IDB, e *E, in U) error {
			applyText(change(in), field(e))
			return nil
		},
	}
}

func newOccupationService(db bun.IDB, repo *repogen.PgRepo[Occupation]) *Service[Occupation, CreateOccupation, UpdateOccupation] {
	return newLabelService(db, repo,
		func(in CreateOccupation) string { return in.Name },
		func(in UpdateOccupation) opt.Value[string] { return in.Name },
		newOccupation,
		func(e *Occupation) *string { return &e.Name },
	)
}

func newNationalityService(db bun.IDB, repo *repogen.PgRepo[Nationality]) *Service[Nationality, CreateNationality, UpdateNationality] {
	return newLabelService(db, repo,
		func(in CreateNationality) string { return in.Label },
		func(in UpdateNationality) opt.Value[string] { return in.Label },
		func(label string) *Nationality { return &Nationality{Label: label} },
		func(e *Nationality) *string { return &e.Label },
	)
}

func newRelocationTypeService(
	db bun.IDB,
	repo *repogen.PgRepo[RelocationType],
) *Service[RelocationType, CreateRelocationType, UpdateRelocationType] {
	return newLabelService(db, repo,
		func(in CreateRelocationType) string { return in.Label },
		func(in UpdateRelocationType) opt.Value[string] { return in.Label },
		func(label string) *RelocationType { return &RelocationType{Label: label} },
		func(e *RelocationType) *string { return &e.Label },
	)
}

func newRegistrationTypeService(
	db bun.IDB,
	repo *repogen.PgRepo[RegistrationType],
) *Service[RegistrationType, CreateRegistrationType, UpdateRegistrationType] {
	return newLabelService(db, repo,
		func(in CreateRegistrationType) string { return in.Label },
		func(in UpdateRegistrationType) opt.Value[string] { return in.Label },
		func(label string) *RegistrationType { return &RegistrationType{Label: label} },
		func(e *RegistrationType) *string { return &e.Label },
	)
}

func newOccupation(name string) *Occupation {
	return &Occupation{Name: name}
}
