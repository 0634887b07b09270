package service

import "errors"

// Failure taxonomy shared by the services. Handlers translate these to
// the HTTP error contract; nothing else crosses the boundary.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyLiked       = errors.New("already liked")
)
