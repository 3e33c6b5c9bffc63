package services

import "errors"

// Sentinel errors shared by all services. Controllers map these onto HTTP
// status codes; wrap with fmt.Errorf("%w: ...") to add context.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)
