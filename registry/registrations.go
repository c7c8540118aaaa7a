package registry

import (
	"context"
	"strings"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/opt"
	"github.com/rise-and-shine/popreg/repogen"
	"github.com/rise-and-shine/popreg/val"
	"github.com/uptrace/bun"
)

type CreateRegistration struct {
	AccountID          string `json:"-"`
	ResidentID         string `json:"resident_id"          validate:"required,uuid"`
	RelocationTypeID   string `json:"relocation_type_id"   validate:"required,uuid"`
	RegistrationTypeID string `json:"registration_type_id" validate:"required,uuid"`
	Purpose            string `json:"purpose"              validate:"notblank,max=1000"`
}

// SetOwner assigns the owning account.
func (c *CreateRegistration) SetOwner(accountID string) {
	c.AccountID = accountID
}

type UpdateRegistration struct {
	ResidentID         opt.Value[string] `json:"resident_id"`
	RelocationTypeID   opt.Value[string] `json:"relocation_type_id"`
	RegistrationTypeID opt.Value[string] `json:"registration_type_id"`
	Purpose            opt.Value[string] `json:"purpose"`
}

func (u *UpdateRegistration) ValidateFields(f *val.Fields) {
	val.Opt(f, "resident_id", u.ResidentID, "uuid")
	val.Opt(f, "relocation_type_id", u.RelocationTypeID, "uuid")
	val.Opt(f, "registration_type_id", u.RegistrationTypeID, "uuid")
	val.Opt(f, "purpose", u.Purpose, "notblank,max=1000")
}

type registrationService struct {
	residents         *repogen.PgRepo[Resident]
	relocationTypes   *repogen.PgRepo[RelocationType]
	registrationTypes *repogen.PgRepo[RegistrationType]
}

func newRegistrationService(
	db bun.IDB,
	repo *repogen.PgRepo[Registration],
	residents *repogen.PgRepo[Resident],
	relocationTypes *repogen.PgRepo[RelocationType],
	registrationTypes *repogen.PgRepo[RegistrationType],
) *Service[Registration, CreateRegistration, UpdateRegistration] {
	rs := registrationService{
		residents:         residents,
		relocationTypes:   relocationTypes,
		registrationTypes: registrationTypes,
	}

	return &Service[Registration, CreateRegistration, UpdateRegistration]{
		db:    db,
		repo:  repo,
		build: rs.build,
		patch: rs.patch,
	}
}

// reference pairs a request field with the repository holding the referenced row.
type reference struct {
	field  string
	value  string
	ensure func(ctx context.Context, tx bun.IDB, id uuid.UUID) error
	dst    *uuid.UUID
}

func ensureIn[E any](repo *repogen.PgRepo[E]) func(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	return func(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
		return repo.WithIDB(tx).EnsureExists(ctx, id)
	}
}

// resolve parses every reference and checks that the referenced row exists.
func resolveReferences(ctx context.Context, tx bun.IDB, refs ...reference) error {
	for _, ref := range refs {
		id, err := parseID(ref.field, ref.value)
		if err != nil {
			return err
		}
		err = ref.ensure(ctx, tx, id)
		if err != nil {
			return errx.Wrap(err)
		}
		*ref.dst = id
	}
	return nil
}

func (rs registrationService) build(ctx context.Context, tx bun.IDB, in CreateRegistration) (*Registration, error) {
	e := &Registration{
		AccountID: in.AccountID,
		Purpose:   strings.TrimSpace(in.Purpose),
	}

	err := resolveReferences(ctx, tx,
		reference{"resident_id", in.ResidentID, ensureIn(rs.residents), &e.ResidentID},
		reference{"relocation_type_id", in.RelocationTypeID, ensureIn(rs.relocationTypes), &e.RelocationTypeID},
		reference{"registration_type_id", in.RegistrationTypeID, ensureIn(rs.registrationTypes), &e.RegistrationTypeID},
	)
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (rs registrationService) patch(ctx context.Context, tx bun.IDB, e *Registration, in UpdateRegistration) error {
	applyText(in.Purpose, &e.Purpose)

	var refs []reference
	if s, ok := in.ResidentID.Get(); ok {
		refs = append(refs, reference{"resident_id", s, ensureIn(rs.residents), &e.ResidentID})
	}
	if s, ok := in.RelocationTypeID.Get(); ok {
		refs = append(refs, reference{"relocation_type_id", s, ensureIn(rs.relocationTypes), &e.RelocationTypeID})
	}
	if s, ok := in.RegistrationTypeID.Get(); ok {
		refs = append(refs, reference{"registration_type_id", s, ensureIn(rs.registrationTypes), &e.RegistrationTypeID})
	}

	return resolveReferences(ctx, tx, refs...)
}
