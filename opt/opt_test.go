package opt_test

import (
	"encoding/json"
	"testing"

	"github.com/rise-and-shine/popreg/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Name  opt.Value[string] `json:"name"`
	Count opt.Value[int]    `json:"count"`
}

func TestUnmarshalPresence(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		nameSet   bool
		nameValue string
		countSet  bool
	}{
		{name: "empty object", payload: `{}`},
		{name: "only name", payload: `{"name":"Teacher"}`, nameSet: true, nameValue: "Teacher"},
		{name: "empty string is present", payload: `{"name":""}`, nameSet: true},
		{name: "both", payload: `{"name":"Farmer","count":3}`, nameSet: true, nameValue: "Farmer", countSet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &p))

			v, ok := p.Name.Get()
			assert.Equal(t, tt.nameSet, ok)
			assert.Equal(t, tt.nameValue, v)
			assert.Equal(t, tt.countSet, p.Count.IsSet())
		})
	}
}

func TestUnmarshalRejectsNull(t *testing.T) {
	var p patch
	err := json.Unmarshal([]byte(`{"name":null}`), &p)
	require.ErrorIs(t, err, opt.ErrNull)
}

func TestUnmarshalRejectsWrongType(t *testing.T) {
	var p patch
	err := json.Unmarshal([]byte(`{"count":"three"}`), &p)
	require.Error(t, err)
}

func TestApplyTo(t *testing.T) {
	dst := "old"

	assert.False(t, opt.Value[string]{}.ApplyTo(&dst))
	assert.Equal(t, "old", dst)

	assert.True(t, opt.Of("new").ApplyTo(&dst))
	assert.Equal(t, "new", dst)
}

func TestOrElseAndLogValue(t *testing.T) {
	assert.Equal(t, 5, opt.Value[int]{}.OrElse(5))
	assert.Equal(t, 7, opt.Of(7).OrElse(5))
	assert.Nil(t, opt.Value[int]{}.LogValue())
	assert.Equal(t, 7, opt.Of(7).LogValue())
}

func TestMarshal(t *testing.T) {
	b, err := json.Marshal(patch{Name: opt.Of("Teacher")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Teacher","count":null}`, string(b))
}
