package val_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/popreg/opt"
	"github.com/rise-and-shine/popreg/val"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createPayload struct {
	Name string   `json:"name" validate:"notblank,max=10"`
	NIK  string   `json:"nik"  validate:"required,nik"`
	IDs  []string `json:"ids"  validate:"omitempty,dive,uuid"`
}

type patchPayload struct {
	ID   string            `params:"id" validate:"required,uuid"`
	Name opt.Value[string] `json:"name"`
}

func (p *patchPayload) ValidateFields(f *val.Fields) {
	val.Opt(f, "name", p.Name, "notblank,max=10")
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema any
		fields errx.M
	}{
		{
			name:   "valid",
			schema: &createPayload{Name: "Teacher", NIK: "3201010101010001"},
		},
		{
			name:   "blank name and short nik",
			schema: &createPayload{Name: "   ", NIK: "123"},
			fields: errx.M{
				"name": "This field is required",
				"nik":  "Must be a valid NIK (16 digits)",
			},
		},
		{
			name:   "too long and bad uuid in slice",
			schema: &createPayload{Name: "Professional", NIK: "3201010101010001", IDs: []string{"nope"}},
			fields: errx.M{
				"name":   "Must be at most 10 characters",
				"ids[0]": "Must be a valid UUID",
			},
		},
		{
			name:   "absent optional field is valid",
			schema: &patchPayload{ID: "0192f2a4-6f1e-7c3a-9d51-6c1a2b3c4d5e"},
		},
		{
			name:   "present optional field is checked",
			schema: &patchPayload{ID: "0192f2a4-6f1e-7c3a-9d51-6c1a2b3c4d5e", Name: opt.Of("")},
			fields: errx.M{"name": "This field is required"},
		},
		{
			name:   "tag errors and explicit checks are combined",
			schema: &patchPayload{ID: "x", Name: opt.Of("Professional")},
			fields: errx.M{
				"id":   "Must be a valid UUID",
				"name": "Must be at most 10 characters",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := val.ValidateSchema(tt.schema)
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			e := errx.AsErrorX(err)
			assert.Equal(t, errx.T_Validation, e.Type())
			assert.Equal(t, val.CodeValidationFailed, e.Code())
			assert.Equal(t, map[string]string(tt.fields), map[string]string(e.Fields()))
		})
	}
}

func TestFieldsFirstProblemWins(t *testing.T) {
	f := val.NewFields()
	require.NoError(t, f.Err())

	f.Add("name", "first")
	f.Add("name", "second")
	assert.True(t, f.Has("name"))

	e := errx.AsErrorX(f.Err())
	assert.Equal(t, "first", e.Fields()["name"])
}

func TestIsNIK(t *testing.T) {
	assert.True(t, val.IsNIK("3201010101010001"))
	assert.False(t, val.IsNIK("320101010101000"))
	assert.False(t, val.IsNIK("32010101010100012"))
	assert.False(t, val.IsNIK("32010101010100A1"))
	assert.False(t, val.IsNIK(""))
}
