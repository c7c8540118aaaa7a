//go:build integration

package registry_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/opt"
	"github.com/rise-and-shine/popreg/pagination"
	"github.com/rise-and-shine/popreg/registry"
	"github.com/rise-and-shine/popreg/repogen"
	"github.com/rise-and-shine/popreg/testutil/containers"
	"github.com/stretchr/testify/suite"
)

const testSchema = "registry"

type RegistrySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	reg      *registry.Registry
}

func TestRegistrySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), testSchema+",public")
	s.Require().NoError(registry.Migrate(context.Background(), s.postgres.DB, testSchema))
	s.reg = registry.New(s.postgres.DB, registry.WithSchema(testSchema))
}

func (s *RegistrySuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), testSchema, registry.TableNames()...)
	s.Require().NoError(err)
}

func (s *RegistrySuite) requireCode(err error, typ errx.Type, code string) {
	s.Require().Error(err)
	e := errx.AsErrorX(err)
	s.Equal(typ, e.Type(), "unexpected type for %v", err)
	s.Equal(code, e.Code(), "unexpected code for %v", err)
}

func (s *RegistrySuite) seedAccount(id string) string {
	_, err := s.postgres.DB.ExecContext(context.Background(),
		"INSERT INTO registry.accounts (id, name, email) VALUES (?, ?, ?)",
		id, "Account "+id, id+"@example.com",
	)
	s.Require().NoError(err)
	return id
}

func (s *RegistrySuite) seedNationality(label string) *registry.Nationality {
	n, err := s.reg.Nationalities.Create(context.Background(), registry.CreateNationality{Label: label})
	s.Require().NoError(err)
	return n
}

func (s *RegistrySuite) seedResident(account, nik, occupation string) *registry.Resident {
	nationality := s.seedNationality("Nationality " + nik)
	r, err := s.reg.Residents.Create(context.Background(), registry.CreateResident{
		AccountID:      s.seedAccount(account),
		NIK:            nik,
		Name:           "Resident " + nik,
		BirthPlace:     "Jakarta",
		BirthDate:      "1990-01-02",
		NationalityID:  nationality.ID.String(),
		Address:        "Jl. Sudirman 5",
		OccupationName: occupation,
	})
	s.Require().NoError(err)
	return r
}

func (s *RegistrySuite) TestCreateDuplicateNameConflicts() {
	ctx := context.Background()

	_, err := s.reg.Occupations.Create(ctx, registry.CreateOccupation{Name: "Teacher"})
	s.Require().NoError(err)

	_, err = s.reg.Occupations.Create(ctx, registry.CreateOccupation{Name: "Teacher"})
	s.requireCode(err, errx.T_Conflict, registry.CodeOccupationNameTaken)
}

func (s *RegistrySuite) TestCreateResidentLoadsRelations() {
	r := s.seedResident("acc-1", "3201010101010001", "Farmer")

	s.Require().NotNil(r.Occupation)
	s.Equal("Farmer", r.Occupation.Name)
	s.Require().NotNil(r.Nationality)
	s.Require().NotNil(r.Account)
	s.Equal("acc-1", r.Account.ID)
	s.Equal("1990-01-02", r.BirthDate.Format("2006-01-02"))
}

func (s *RegistrySuite) TestSecondResidentForOwnerConflicts() {
	ctx := context.Background()
	first := s.seedResident("acc-1", "3201010101010001", "Farmer")

	_, err := s.reg.Residents.Create(ctx, registry.CreateResident{
		AccountID:      "acc-1",
		NIK:            "3201010101010002",
		Name:           "Another",
		BirthPlace:     "Bogor",
		BirthDate:      "1991-01-01",
		NationalityID:  first.NationalityID.String(),
		Address:        "Jl. Lain 2",
		OccupationName: "Unused Occupation",
	})
	s.requireCode(err, errx.T_Conflict, registry.CodeResidentExists)

	// The occupation created inside the failed transaction is rolled back.
	resp, err := s.reg.Occupations.Search(ctx, repogen.SearchQuery{Q: "Unused"})
	s.Require().NoError(err)
	s.Empty(resp.Data)

	mine, err := s.reg.Residents.FindByOwner(ctx, "acc-1")
	s.Require().NoError(err)
	s.Equal(first.ID, mine.ID)
}

func (s *RegistrySuite) TestCreateWithMissingReference() {
	ctx := context.Background()

	_, err := s.reg.Residents.Create(ctx, registry.CreateResident{
		AccountID:      s.seedAccount("acc-1"),
		NIK:            "3201010101010001",
		Name:           "Nobody",
		BirthPlace:     "Bogor",
		BirthDate:      "1991-01-01",
		NationalityID:  uuid.NewString(),
		Address:        "Jl. Lain 2",
		OccupationName: "Farmer",
	})
	s.requireCode(err, errx.T_NotFound, registry.CodeNationalityNotFound)
}

func (s *RegistrySuite) TestFindByOwnerMissing() {
	_, err := s.reg.Registrations.FindByOwner(context.Background(), "acc-nobody")
	s.requireCode(err, errx.T_NotFound, registry.CodeRegistrationNotFound)
}

func (s *RegistrySuite) TestUpdateMissingID() {
	_, err := s.reg.Nationalities.Update(context.Background(), uuid.New(), registry.UpdateNationality{
		Label: opt.Of("Anything"),
	})
	s.requireCode(err, errx.T_NotFound, registry.CodeNationalityNotFound)
}

func (s *RegistrySuite) TestUpdateIntoCollision() {
	ctx := context.Background()
	a := s.seedNationality("Indonesian")
	b := s.seedNationality("Malaysian")

	_, err := s.reg.Nationalities.Update(ctx, b.ID, registry.UpdateNationality{Label: opt.Of("Indonesian")})
	s.requireCode(err, errx.T_Conflict, registry.CodeNationalityLabelTaken)

	// Keeping the own value is not a collision.
	updated, err := s.reg.Nationalities.Update(ctx, a.ID, registry.UpdateNationality{Label: opt.Of("Indonesian")})
	s.Require().NoError(err)
	s.Equal("Indonesian", updated.Label)

	unchanged, err := s.reg.Nationalities.FindByID(ctx, b.ID)
	s.Require().NoError(err)
	s.Equal("Malaysian", unchanged.Label)
}

func (s *RegistrySuite) TestUpdateKeepsAbsentFields() {
	ctx := context.Background()
	r := s.seedResident("acc-1", "3201010101010001", "Farmer")

	updated, err := s.reg.Residents.Update(ctx, r.ID, registry.UpdateResident{
		Name:           opt.Of("Renamed"),
		OccupationName: opt.Of("Fisher"),
	})
	s.Require().NoError(err)

	s.Equal("Renamed", updated.Name)
	s.Equal(r.NIK, updated.NIK)
	s.Equal(r.Address, updated.Address)
	s.NotEqual(r.OccupationID, updated.OccupationID)
	s.Require().NotNil(updated.Occupation)
	s.Equal("Fisher", updated.Occupation.Name)
	s.Equal(r.CreatedAt.Unix(), updated.CreatedAt.Unix())
	s.False(updated.UpdatedAt.Before(r.UpdatedAt))
}

func (s *RegistrySuite) TestRemoveBulkWithMissingID() {
	ctx := context.Background()
	a := s.seedNationality("A")
	missing := uuid.New()

	_, err := s.reg.Nationalities.RemoveBulk(ctx, []uuid.UUID{a.ID, missing})
	s.requireCode(err, errx.T_NotFound, repogen.CodeSomeIDsNotFound)

	details := errx.AsErrorX(err).Details()
	s.EqualValues(2, details["requested"])
	s.EqualValues(1, details["found"])
	s.Contains(fmt.Sprint(details["missing_ids"]), missing.String())

	_, err = s.reg.Nationalities.FindByID(ctx, a.ID)
	s.NoError(err, "nothing is deleted when an id is missing")
}

func (s *RegistrySuite) TestRemoveBulk() {
	ctx := context.Background()
	a := s.seedNationality("A")
	b := s.seedNationality("B")
	c := s.seedNationality("C")

	n, err := s.reg.Nationalities.RemoveBulk(ctx, []uuid.UUID{a.ID, b.ID, a.ID})
	s.Require().NoError(err)
	s.Equal(2, n)

	resp, err := s.reg.Nationalities.Search(ctx, repogen.SearchQuery{})
	s.Require().NoError(err)
	s.Require().Len(resp.Data, 1)
	s.Equal(c.ID, resp.Data[0].ID)

	n, err = s.reg.Nationalities.RemoveBulk(ctx, nil)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RegistrySuite) TestRemoveMissingID() {
	err := s.reg.RelocationTypes.Remove(context.Background(), uuid.New())
	s.requireCode(err, errx.T_NotFound, registry.CodeRelocationTypeNotFound)
}

func (s *RegistrySuite) TestSearchPagination() {
	ctx := context.Background()
	for i := range 25 {
		_, err := s.reg.Occupations.Create(ctx, registry.CreateOccupation{Name: fmt.Sprintf("Occupation %02d", i)})
		s.Require().NoError(err)
	}

	resp, err := s.reg.Occupations.Search(ctx, repogen.SearchQuery{
		Page: pagination.Request{Page: 3, Size: 10},
	})
	s.Require().NoError(err)
	s.Len(resp.Data, 5)
	s.Equal(pagination.Meta{TotalItems: 25, CurrentPage: 3, PageSize: 10, TotalPages: 3}, resp.Pagination)

	// Newest first: the last page holds the oldest rows.
	s.Equal("Occupation 00", resp.Data[4].Name)

	resp, err = s.reg.Occupations.Search(ctx, repogen.SearchQuery{
		Page: pagination.Request{Page: 9, Size: 10},
	})
	s.Require().NoError(err)
	s.Empty(resp.Data)
	s.Equal(int64(25), resp.Pagination.TotalItems)

	resp, err = s.reg.Occupations.Search(ctx, repogen.SearchQuery{
		Page: pagination.Request{Page: 300_000_000, Size: 10},
	})
	s.Require().NoError(err)
	s.Empty(resp.Data, "a page past the largest offset is empty")
	s.Equal(pagination.Meta{TotalItems: 25, CurrentPage: 300_000_000, PageSize: 10, TotalPages: 3}, resp.Pagination)

	resp, err = s.reg.Occupations.Search(ctx, repogen.SearchQuery{Sort: "name:asc"})
	s.Require().NoError(err)
	s.Equal("Occupation 00", resp.Data[0].Name)
}

func (s *RegistrySuite) TestSearchFilters() {
	ctx := context.Background()
	for _, name := range []string{"Civil Engineer", "Software engineer", "Nurse", "100% Owner"} {
		_, err := s.reg.Occupations.Create(ctx, registry.CreateOccupation{Name: name})
		s.Require().NoError(err)
	}

	resp, err := s.reg.Occupations.Search(ctx, repogen.SearchQuery{Q: "ENGINEER"})
	s.Require().NoError(err)
	s.Len(resp.Data, 2)
	s.Equal(int64(2), resp.Pagination.TotalItems)

	resp, err = s.reg.Occupations.Search(ctx, repogen.SearchQuery{Q: " engineer"})
	s.Require().NoError(err)
	s.Len(resp.Data, 2)

	resp, err = s.reg.Occupations.Search(ctx, repogen.SearchQuery{Q: "engineer "})
	s.Require().NoError(err)
	s.Empty(resp.Data, "surrounding spaces are part of the term")

	resp, err = s.reg.Occupations.Search(ctx, repogen.SearchQuery{Q: "%"})
	s.Require().NoError(err)
	s.Len(resp.Data, 1, "wildcards match literally")

	resp, err = s.reg.Occupations.Search(ctx, repogen.SearchQuery{Q: "astronaut"})
	s.Require().NoError(err)
	s.Empty(resp.Data)
	s.Equal(pagination.Meta{TotalItems: 0, CurrentPage: 1, PageSize: 10, TotalPages: 0}, resp.Pagination)
}

func (s *RegistrySuite) TestSearchJoinedColumns() {
	ctx := context.Background()
	resident := s.seedResident("acc-1", "3201010101010001", "Farmer")

	relocation, err := s.reg.RelocationTypes.Create(ctx, registry.CreateRelocationType{Label: "Inter-city"})
	s.Require().NoError(err)
	registrationType, err := s.reg.RegistrationTypes.Create(ctx, registry.CreateRegistrationType{Label: "Permanent"})
	s.Require().NoError(err)

	_, err = s.reg.Registrations.Create(ctx, registry.CreateRegistration{
		AccountID:          "acc-1",
		ResidentID:         resident.ID.String(),
		RelocationTypeID:   relocation.ID.String(),
		RegistrationTypeID: registrationType.ID.String(),
		Purpose:            "Work",
	})
	s.Require().NoError(err)

	for _, q := range []string{"work", "permanent", resident.Name} {
		resp, err := s.reg.Registrations.Search(ctx, repogen.SearchQuery{Q: q})
		s.Require().NoError(err)
		s.Len(resp.Data, 1, q)
	}
}

func (s *RegistrySuite) TestResolverReusesOccupation() {
	a := s.seedResident("acc-1", "3201010101010001", "Driver")
	b := s.seedResident("acc-2", "3201010101010002", "Driver")

	s.Equal(a.OccupationID, b.OccupationID)

	resp, err := s.reg.Occupations.Search(context.Background(), repogen.SearchQuery{Q: "Driver"})
	s.Require().NoError(err)
	s.Len(resp.Data, 1)
}

func (s *RegistrySuite) TestResolverConcurrentCreates() {
	ctx := context.Background()
	const writers = 8

	nationality := s.seedNationality("Indonesian")
	inputs := make([]registry.CreateResident, writers)
	for i := range writers {
		inputs[i] = registry.CreateResident{
			AccountID:      s.seedAccount(fmt.Sprintf("acc-%d", i)),
			NIK:            fmt.Sprintf("32010101010100%02d", i),
			Name:           fmt.Sprintf("Resident %d", i),
			BirthPlace:     "Surabaya",
			BirthDate:      "1985-06-30",
			NationalityID:  nationality.ID.String(),
			Address:        "Jl. Pahlawan 10",
			OccupationName: "Pilot",
		}
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		errs      []error
		occupants = map[uuid.UUID]int{}
	)
	for _, in := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := s.reg.Residents.Create(ctx, in)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			occupants[r.OccupationID]++
		}()
	}
	wg.Wait()

	s.Empty(errs)
	s.Len(occupants, 1, "every resident shares one occupation row")
}

func (s *RegistrySuite) TestRemoveCascades() {
	ctx := context.Background()
	resident := s.seedResident("acc-1", "3201010101010001", "Miner")

	relocation, err := s.reg.RelocationTypes.Create(ctx, registry.CreateRelocationType{Label: "Local"})
	s.Require().NoError(err)
	registrationType, err := s.reg.RegistrationTypes.Create(ctx, registry.CreateRegistrationType{Label: "Temporary"})
	s.Require().NoError(err)

	registration, err := s.reg.Registrations.Create(ctx, registry.CreateRegistration{
		AccountID:          "acc-1",
		ResidentID:         resident.ID.String(),
		RelocationTypeID:   relocation.ID.String(),
		RegistrationTypeID: registrationType.ID.String(),
		Purpose:            "Family",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.reg.Occupations.Remove(ctx, resident.OccupationID))

	_, err = s.reg.Residents.FindByID(ctx, resident.ID)
	s.requireCode(err, errx.T_NotFound, registry.CodeResidentNotFound)

	_, err = s.reg.Registrations.FindByID(ctx, registration.ID)
	s.requireCode(err, errx.T_NotFound, registry.CodeRegistrationNotFound)
}

func (s *RegistrySuite) TestUpdateResidentNIKCollision() {
	ctx := context.Background()
	s.seedResident("acc-1", "3201010101010001", "Farmer")
	other := s.seedResident("acc-2", "3201010101010002", "Farmer")

	_, err := s.reg.Residents.Update(ctx, other.ID, registry.UpdateResident{NIK: opt.Of("3201010101010001")})
	s.requireCode(err, errx.T_Conflict, registry.CodeResidentNIKTaken)
}

func (s *RegistrySuite) TestCheckSearchPath() {
	ctx := context.Background()

	s.Require().NoError(registry.CheckSearchPath(ctx, s.postgres.DB, testSchema))
	s.Require().NoError(registry.CheckSearchPath(ctx, s.postgres.DB, "public"))

	_, err := s.postgres.DB.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS elsewhere")
	s.Require().NoError(err)

	err = registry.CheckSearchPath(ctx, s.postgres.DB, "elsewhere")
	s.requireCode(err, errx.T_Internal, registry.CodeSchemaNotOnSearchPath)
	s.Contains(errx.AsErrorX(err).Details(), "search_path")
}
