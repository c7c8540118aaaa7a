package repogen

const (
	// CodeConflict is used when a write collides with an existing row and the
	// colliding field cannot be named more precisely.
	CodeConflict = "CONFLICT"

	// CodeSomeIDsNotFound is returned by bulk deletes when at least one id does not exist.
	CodeSomeIDsNotFound = "SOME_IDS_NOT_FOUND"

	// CodeReferenceNotFound is returned when a foreign key points to a missing row
	// and the constraint has no dedicated code.
	CodeReferenceNotFound = "REFERENCE_NOT_FOUND"

	// CodeNoOwner is returned by owner lookups on entities without an owner column.
	CodeNoOwner = "ENTITY_HAS_NO_OWNER"
)
