package registry

import (
	"github.com/rise-and-shine/popreg/repogen"
)

const (
	colName      = "name"
	colLabel     = "label"
	colAccountID = "account_id"
	colNIK       = "nik"
)

func occupationSpec(schema string) repogen.Spec[Occupation] {
	return repogen.Spec[Occupation]{
		Entity:       "occupation",
		Schema:       schema,
		NotFoundCode: CodeOccupationNotFound,
		Uniques: []repogen.Unique[Occupation]{{
			Column:     colName,
			Constraint: "occupations_name_key",
			Code:       CodeOccupationNameTaken,
			Value:      func(e *Occupation) any { return e.Name },
		}},
		SearchColumns: []string{"?TableAlias.name"},
		SortFields:    []string{"name", "created_at", "updated_at"},
	}
}

func nationalitySpec(schema string) repogen.Spec[Nationality] {
	return repogen.Spec[Nationality]{
		Entity:       "nationality",
		Schema:       schema,
		NotFoundCode: CodeNationalityNotFound,
		Uniques: []repogen.Unique[Nationality]{{
			Column:     colLabel,
			Constraint: "nationalities_label_key",
			Code:       CodeNationalityLabelTaken,
			Value:      func(e *Nationality) any { return e.Label },
		}},
		SearchColumns: []string{"?TableAlias.label"},
		SortFields:    []string{"label", "created_at", "updated_at"},
	}
}

func relocationTypeSpec(schema string) repogen.Spec[RelocationType] {
	return repogen.Spec[RelocationType]{
		Entity:       "relocation type",
		Schema:       schema,
		NotFoundCode: CodeRelocationTypeNotFound,
		Uniques: []repogen.Unique[RelocationType]{{
			Column:     colLabel,
			Constraint: "relocation_types_label_key",
			Code:       CodeRelocationTypeLabelTaken,
			Value:      func(e *RelocationType) any { return e.Label },
		}},
		SearchColumns: []string{"?TableAlias.label"},
		SortFields:    []string{"label", "created_at", "updated_at"},
	}
}

func registrationTypeSpec(schema string) repogen.Spec[RegistrationType] {
	return repogen.Spec[RegistrationType]{
		Entity:       "registration type",
		Schema:       schema,
		NotFoundCode: CodeRegistrationTypeNotFound,
		Uniques: []repogen.Unique[RegistrationType]{{
			Column:     colLabel,
			Constraint: "registration_types_label_key",
			Code:       CodeRegistrationTypeLabelTaken,
			Value:      func(e *RegistrationType) any { return e.Label },
		}},
		SearchColumns: []string{"?TableAlias.label"},
		SortFields:    []string{"label", "created_at", "updated_at"},
	}
}

func residentSpec(schema string) repogen.Spec[Resident] {
	return repogen.Spec[Resident]{
		Entity:       "resident",
		Schema:       schema,
		NotFoundCode: CodeResidentNotFound,
		OwnerColumn:  colAccountID,
		Uniques: []repogen.Unique[Resident]{
			{
				Column:     colAccountID,
				Constraint: "residents_account_id_key",
				Code:       CodeResidentExists,
				Value:      func(e *Resident) any { return e.AccountID },
			},
			{
				Column:     colNIK,
				Constraint: "residents_nik_key",
				Code:       CodeResidentNIKTaken,
				Value:      func(e *Resident) any { return e.NIK },
			},
		},
		References: map[string]string{
			"residents_account_id_fkey":     CodeAccountNotFound,
			"residents_nationality_id_fkey": CodeNationalityNotFound,
			"residents_occupation_id_fkey":  CodeOccupationNotFound,
		},
		Relations: []string{"Account", "Nationality", "Occupation"},
		SearchColumns: []string{
			"?TableAlias.name",
			"?TableAlias.nik",
			"?TableAlias.address",
		},
		SortFields: []string{"name", "birth_date", "created_at", "updated_at"},
	}
}

func registrationSpec(schema string) repogen.Spec[Registration] {
	return repogen.Spec[Registration]{
		Entity:       "registration",
		Schema:       schema,
		NotFoundCode: CodeRegistrationNotFound,
		OwnerColumn:  colAccountID,
		Uniques: []repogen.Unique[Registration]{{
			Column:     colAccountID,
			Constraint: "registrations_account_id_key",
			Code:       CodeRegistrationExists,
			Value:      func(e *Registration) any { return e.AccountID },
		}},
		References: map[string]string{
			"registrations_account_id_fkey":           CodeAccountNotFound,
			"registrations_resident_id_fkey":          CodeResidentNotFound,
			"registrations_relocation_type_id_fkey":   CodeRelocationTypeNotFound,
			"registrations_registration_type_id_fkey": CodeRegistrationTypeNotFound,
		},
		Relations: []string{"Account", "Resident", "RelocationType", "RegistrationType"},
		SearchColumns: []string{
			"?TableAlias.purpose",
			"resident.name",
			"registration_type.label",
		},
		SortFields: []string{"created_at", "updated_at"},
	}
}
