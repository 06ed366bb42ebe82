package services

import (
	"errors"
	"fmt"
)

// Domain errors. Controllers map these onto HTTP statuses; raw storage
// errors only escape for unexpected failures.
var (
	ErrDuplicateIdentity  = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
)

// ValidationError reports rejected input, currently only message text.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
