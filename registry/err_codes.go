package registry

const (
	CodeOccupationNotFound       = "OCCUPATION_NOT_FOUND"
	CodeNationalityNotFound      = "NATIONALITY_NOT_FOUND"
	CodeRelocationTypeNotFound   = "RELOCATION_TYPE_NOT_FOUND"
	CodeRegistrationTypeNotFound = "REGISTRATION_TYPE_NOT_FOUND"
	CodeResidentNotFound         = "RESIDENT_NOT_FOUND"
	CodeRegistrationNotFound     = "REGISTRATION_NOT_FOUND"
	CodeAccountNotFound          = "ACCOUNT_NOT_FOUND"

	CodeOccupationNameTaken        = "OCCUPATION_NAME_TAKEN"
	CodeNationalityLabelTaken      = "NATIONALITY_LABEL_TAKEN"
	CodeRelocationTypeLabelTaken   = "RELOCATION_TYPE_LABEL_TAKEN"
	CodeRegistrationTypeLabelTaken = "REGISTRATION_TYPE_LABEL_TAKEN"
	CodeResidentNIKTaken           = "RESIDENT_NIK_TAKEN"

	// CodeResidentExists is returned when the account already has a resident record.
	CodeResidentExists = "RESIDENT_ALREADY_EXISTS"
	// CodeRegistrationExists is returned when the account already filed a registration.
	CodeRegistrationExists = "REGISTRATION_ALREADY_EXISTS"

	// CodeSchemaNotOnSearchPath is returned at startup when relation joins could not
	// resolve the registry tables.
	CodeSchemaNotOnSearchPath = "SCHEMA_NOT_ON_SEARCH_PATH"
)
