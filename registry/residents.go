package registry

import (
	"context"
	"strings"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/popreg/opt"
	"github.com/rise-and-shine/popreg/repogen"
	"github.com/rise-and-shine/popreg/val"
	"github.com/uptrace/bun"
)

// CreateResident is the civil record filed by an account. The occupation is given by
// name and created on first use.
type CreateResident struct {
	AccountID      string `json:"-"`
	NIK            string `json:"nik"             validate:"required,nik"                  mask:"true"`
	Name           string `json:"name"            validate:"notblank,max=255"`
	BirthPlace     string `json:"birth_place"     validate:"notblank,max=100"`
	BirthDate      string `json:"birth_date"      validate:"required,datetime=2006-01-02"`
	NationalityID  string `json:"nationality_id"  validate:"required,uuid"`
	Address        string `json:"address"         validate:"notblank,max=500"              mask:"true"`
	OccupationName string `json:"occupation_name" validate:"notblank,max=100"`
}

// SetOwner assigns the owning account.
func (c *CreateResident) SetOwner(accountID string) {
	c.AccountID = accountID
}

type UpdateResident struct {
	NIK            opt.Value[string] `json:"nik"             mask:"true"`
	Name           opt.Value[string] `json:"name"`
	BirthPlace     opt.Value[string] `json:"birth_place"`
	BirthDate      opt.Value[string] `json:"birth_date"`
	NationalityID  opt.Value[string] `json:"nationality_id"`
	Address        opt.Value[string] `json:"address"         mask:"true"`
	OccupationName opt.Value[string] `json:"occupation_name"`
}

func (u *UpdateResident) ValidateFields(f *val.Fields) {
	val.Opt(f, "nik", u.NIK, "nik")
	val.Opt(f, "name", u.Name, "notblank,max=255")
	val.Opt(f, "birth_place", u.BirthPlace, "notblank,max=100")
	val.Opt(f, "birth_date", u.BirthDate, "datetime=2006-01-02")
	val.Opt(f, "nationality_id", u.NationalityID, "uuid")
	val.Opt(f, "address", u.Address, "notblank,max=500")
	val.Opt(f, "occupation_name", u.OccupationName, "notblank,max=100")
}

type residentService struct {
	nationalities *repogen.PgRepo[Nationality]
	occupations   *repogen.Resolver[Occupation]
}

func newResidentService(
	db bun.IDB,
	repo *repogen.PgRepo[Resident],
	nationalities *repogen.PgRepo[Nationality],
	occupations *repogen.Resolver[Occupation],
) *Service[Resident, CreateResident, UpdateResident] {
	rs := residentService{nationalities: nationalities, occupations: occupations}

	return &Service[Resident, CreateResident, UpdateResident]{
		db:    db,
		repo:  repo,
		build: rs.build,
		patch: rs.patch,
	}
}

func (rs residentService) build(ctx context.Context, tx bun.IDB, in CreateResident) (*Resident, error) {
	birthDate, err := parseDate("birth_date", in.BirthDate)
	if err != nil {
		return nil, err
	}

	nationalityID, err := parseID("nationality_id", in.NationalityID)
	if err != nil {
		return nil, err
	}

	err = rs.nationalities.WithIDB(tx).EnsureExists(ctx, nationalityID)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	occupationID, err := rs.occupations.Resolve(ctx, tx, strings.TrimSpace(in.OccupationName))
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &Resident{
		AccountID:     in.AccountID,
		NIK:           strings.TrimSpace(in.NIK),
		Name:          strings.TrimSpace(in.Name),
		BirthPlace:    strings.TrimSpace(in.BirthPlace),
		BirthDate:     birthDate,
		Address:       strings.TrimSpace(in.Address),
		NationalityID: nationalityID,
		OccupationID:  occupationID,
	}, nil
}

func (rs residentService) patch(ctx context.Context, tx bun.IDB, e *Resident, in UpdateResident) error {
	applyText(in.NIK, &e.NIK)
	applyText(in.Name, &e.Name)
	applyText(in.BirthPlace, &e.BirthPlace)
	applyText(in.Address, &e.Address)

	if s, ok := in.BirthDate.Get(); ok {
		d, err := parseDate("birth_date", s)
		if err != nil {
			return err
		}
		e.BirthDate = d
	}

	if s, ok := in.NationalityID.Get(); ok {
		id, err := parseID("nationality_id", s)
		if err != nil {
			return err
		}
		err = rs.nationalities.WithIDB(tx).EnsureExists(ctx, id)
		if err != nil {
			return errx.Wrap(err)
		}
		e.NationalityID = id
	}

	if name, ok := in.OccupationName.Get(); ok {
		id, err := rs.occupations.Resolve(ctx, tx, strings.TrimSpace(name))
		if err != nil {
			return errx.Wrap(err)
		}
		e.OccupationID = id
	}

	return nil
}
