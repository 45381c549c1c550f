package models

import "errors"

// Domain specific errors shared across repositories, services and handlers.
// ErrForbidden maps store-side policy rejections so callers can hint at a
// permission misconfiguration rather than a code bug.
var (
	ErrNotFound             = errors.New("requested item not found")
	ErrConflict             = errors.New("item already exists or conflict")
	ErrUnauthenticated      = errors.New("authentication required or invalid credentials")
	ErrForbidden            = errors.New("action forbidden by store policy")
	ErrBadRequest           = errors.New("bad request")
	ErrValidation           = errors.New("validation failed")
	ErrVerificationMismatch = errors.New("record still present after delete")
)
