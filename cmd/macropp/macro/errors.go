package macro

import "errors"

var (
	ErrMalformedDefinition  = errors.New("malformed definition")
	ErrIdentifierTooLong    = errors.New("identifier too long")
	ErrValueTooLong         = errors.New("value too long")
	ErrTableFull            = errors.New("definition table capacity exceeded")
	ErrRedefinitionConflict = errors.New("redefinition conflict")
)
