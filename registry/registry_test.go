package registry

import (
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/popreg/opt"
	"github.com/rise-and-shine/popreg/val"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResident() CreateResident {
	return CreateResident{
		NIK:            "3201010101010001",
		Name:           "Siti Aminah",
		BirthPlace:     "Bandung",
		BirthDate:      "1990-04-12",
		NationalityID:  "0192f2a4-6f1e-7c3a-9d51-6c1a2b3c4d5e",
		Address:        "Jl. Merdeka 1",
		OccupationName: "Teacher",
	}
}

func TestCreateInputsValidation(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		fields []string
	}{
		{name: "valid occupation", input: &CreateOccupation{Name: "Teacher"}},
		{name: "blank occupation", input: &CreateOccupation{Name: "  "}, fields: []string{"name"}},
		{name: "relocation label too long", input: &CreateRelocationType{Label: strings.Repeat("x", 51)}, fields: []string{"label"}},
		{name: "valid resident", input: func() any { r := validResident(); return &r }()},
		{
			name: "resident with bad nik, date and nationality",
			input: func() any {
				r := validResident()
				r.NIK = "12345"
				r.BirthDate = "12/04/1990"
				r.NationalityID = "indonesia"
				return &r
			}(),
			fields: []string{"nik", "birth_date", "nationality_id"},
		},
		{
			name:   "registration without references",
			input:  &CreateRegistration{Purpose: "moving"},
			fields: []string{"resident_id", "relocation_type_id", "registration_type_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := val.ValidateSchema(tt.input)
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			fields := errx.AsErrorX(err).Fields()
			for _, f := range tt.fields {
				assert.Contains(t, fields, f)
			}
			assert.Len(t, fields, len(tt.fields))
		})
	}
}

func TestUpdateInputsValidation(t *testing.T) {
	t.Run("empty patch is valid", func(t *testing.T) {
		require.NoError(t, val.ValidateSchema(&UpdateResident{}))
	})

	t.Run("present fields are checked", func(t *testing.T) {
		err := val.ValidateSchema(&UpdateResident{
			NIK:       opt.Of("1"),
			Name:      opt.Of(""),
			BirthDate: opt.Of("tomorrow"),
		})
		require.Error(t, err)

		fields := errx.AsErrorX(err).Fields()
		assert.Contains(t, fields, "nik")
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "birth_date")
	})

	t.Run("label patch", func(t *testing.T) {
		require.Error(t, val.ValidateSchema(&UpdateNationality{Label: opt.Of(strings.Repeat("x", 101))}))
		require.NoError(t, val.ValidateSchema(&UpdateNationality{Label: opt.Of("Indonesian")}))
	})
}

func TestResidentBuildRejectsMalformedInputBeforeStorage(t *testing.T) {
	rs := residentService{}

	in := validResident()
	in.BirthDate = "not-a-date"

	_, err := rs.build(t.Context(), nil, in)
	require.Error(t, err)

	e := errx.AsErrorX(err)
	assert.Equal(t, errx.T_Validation, e.Type())
	assert.Contains(t, e.Fields(), "birth_date")
}

func TestLabelServicePatchTrims(t *testing.T) {
	svc := newOccupationService(nil, nil)

	occ := &Occupation{Name: "Teacher"}
	require.NoError(t, svc.patch(t.Context(), nil, occ, UpdateOccupation{}))
	assert.Equal(t, "Teacher", occ.Name)

	require.NoError(t, svc.patch(t.Context(), nil, occ, UpdateOccupation{Name: opt.Of("  Farmer ")}))
	assert.Equal(t, "Farmer", occ.Name)

	built, err := svc.build(t.Context(), nil, CreateOccupation{Name: " Nurse "})
	require.NoError(t, err)
	assert.Equal(t, "Nurse", built.Name)
}

func TestSchemaSQL(t *testing.T) {
	ddl := generateSchemaSQL("registry")

	assert.Contains(t, ddl, `CREATE SCHEMA IF NOT EXISTS "registry";`)
	assert.Equal(t, 7, strings.Count(ddl, "ON DELETE CASCADE"))
	for _, idx := range []string{
		"idx_residents_nationality_id",
		"idx_residents_occupation_id",
		"idx_registrations_resident_id",
		"idx_registrations_relocation_type_id",
		"idx_registrations_registration_type_id",
	} {
		assert.Contains(t, ddl, idx)
	}
	for _, constraint := range []string{
		"occupations_name_key",
		"nationalities_label_key",
		"relocation_types_label_key",
		"registration_types_label_key",
		"residents_account_id_key",
		"residents_nik_key",
		"registrations_account_id_key",
	} {
		assert.Contains(t, ddl, constraint)
	}
}

func TestSpecsUseSchemaConstraints(t *testing.T) {
	ddl := generateSchemaSQL(defaultSchema)

	for _, u := range residentSpec(defaultSchema).Uniques {
		assert.Contains(t, ddl, u.Constraint)
	}
	for constraint := range registrationSpec(defaultSchema).References {
		assert.Contains(t, ddl, constraint)
	}
	for constraint := range residentSpec(defaultSchema).References {
		assert.Contains(t, ddl, constraint)
	}
}
