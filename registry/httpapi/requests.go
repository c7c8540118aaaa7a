package httpapi

import (
	"encoding/json"

	"github.com/rise-and-shine/popreg/val"
)

type idRequest struct {
	ID string `params:"id" json:"id" validate:"required,uuid"`
}

type searchRequest struct {
	Q    string `query:"q"            json:"q"            validate:"max=255"`
	Sort string `query:"sort"         json:"sort"         validate:"max=255"`
	Page int    `query:"current_page" json:"current_page" validate:"omitempty,min=1"`
	Size int    `query:"size"         json:"size"         validate:"omitempty,min=1,max=100"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type meRequest struct{}

// updateRequest carries the id from the path and the partial update from the body.
type updateRequest[U any] struct {
	ID    string `params:"id" json:"id"    validate:"required,uuid"`
	Patch U      `params:"-"  json:"patch" query:"-"`
}

// UnmarshalJSON decodes the body into the patch.
func (r *updateRequest[U]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.Patch)
}

// ValidateFields runs the explicit checks of the patch.
func (r *updateRequest[U]) ValidateFields(f *val.Fields) {
	if fv, ok := any(&r.Patch).(val.FieldValidator); ok {
		fv.ValidateFields(f)
	}
}

type removedResponse struct {
	Deleted int `json:"deleted"`
}
