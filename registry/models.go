package registry

import (
	"time"

	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/pg"
	"github.com/uptrace/bun"
)

// Account is the login identity owned by the authentication service.
// The registry only reads it for display and references it as the owner of
// residents and registrations.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:account"`

	ID    string `bun:"id,pk"          json:"id"`
	Name  string `bun:"name,notnull"   json:"name"`
	Email string `bun:"email,notnull"  json:"email"`
}

type Occupation struct {
	bun.BaseModel `bun:"table:occupations,alias:occupation"`
	pg.Model

	Name string `bun:"name,notnull" json:"name"`
}

type Nationality struct {
	bun.BaseModel `bun:"table:nationalities,alias:nationality"`
	pg.Model

	Label string `bun:"label,notnull" json:"label"`
}

type RelocationType struct {
	bun.BaseModel `bun:"table:relocation_types,alias:relocation_type"`
	pg.Model

	Label string `bun:"label,notnull" json:"label"`
}

type RegistrationType struct {
	bun.BaseModel `bun:"table:registration_types,alias:registration_type"`
	pg.Model

	Label string `bun:"label,notnull" json:"label"`
}

// Resident is the civil record of one account.
type Resident struct {
	bun.BaseModel `bun:"table:residents,alias:resident"`
	pg.Model

	AccountID     string    `bun:"account_id,notnull"               json:"account_id"`
	NIK           string    `bun:"nik,notnull"                      json:"nik"            mask:"true"`
	Name          string    `bun:"name,notnull"                     json:"name"`
	BirthPlace    string    `bun:"birth_place,notnull"              json:"birth_place"`
	BirthDate     time.Time `bun:"birth_date,type:date,notnull"     json:"birth_date"`
	Address       string    `bun:"address,notnull"                  json:"address"        mask:"true"`
	NationalityID uuid.UUID `bun:"nationality_id,type:uuid,notnull" json:"nationality_id"`
	OccupationID  uuid.UUID `bun:"occupation_id,type:uuid,notnull"  json:"occupation_id"`

	Account     *Account     `bun:"rel:belongs-to,join:account_id=id"     json:"account,omitempty"`
	Nationality *Nationality `bun:"rel:belongs-to,join:nationality_id=id" json:"nationality,omitempty"`
	Occupation  *Occupation  `bun:"rel:belongs-to,join:occupation_id=id"  json:"occupation,omitempty"`
}

// Registration records a relocation request filed by an account for a resident.
type Registration struct {
	bun.BaseModel `bun:"table:registrations,alias:registration"`
	pg.Model

	AccountID          string    `bun:"account_id,notnull"                     json:"account_id"`
	ResidentID         uuid.UUID `bun:"resident_id,type:uuid,notnull"          json:"resident_id"`
	RelocationTypeID   uuid.UUID `bun:"relocation_type_id,type:uuid,notnull"   json:"relocation_type_id"`
	RegistrationTypeID uuid.UUID `bun:"registration_type_id,type:uuid,notnull" json:"registration_type_id"`
	Purpose            string    `bun:"purpose,notnull"                        json:"purpose"`

	Account          *Account          `bun:"rel:belongs-to,join:account_id=id"           json:"account,omitempty"`
	Resident         *Resident         `bun:"rel:belongs-to,join:resident_id=id"          json:"resident,omitempty"`
	RelocationType   *RelocationType   `bun:"rel:belongs-to,join:relocation_type_id=id"   json:"relocation_type,omitempty"`
	RegistrationType *RegistrationType `bun:"rel:belongs-to,join:registration_type_id=id" json:"registration_type,omitempty"`
}
