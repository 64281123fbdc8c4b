package descriptor

import "errors"

// Description-model-level errors. Most surface only from Library/category
// construction and validation; ErrMandatoryField also comes from
// CategoryDescription.Validate, which the record parser runs on every record
// (see package asterix for the parse-time error taxonomy).
var (
	ErrMandatoryField    = errors.New("descriptor: mandatory field missing")
	ErrDuplicateItem     = errors.New("descriptor: duplicate item id")
	ErrUndefinedUAPItem  = errors.New("descriptor: UAP references undefined item id")
	ErrDuplicateFRN      = errors.New("descriptor: duplicate FRN")
	ErrInvalidCategory   = errors.New("descriptor: invalid category")
	ErrUnknownCategory   = errors.New("descriptor: unknown category")
	ErrAlreadyInitialized = errors.New("descriptor: library already initialized")
)
