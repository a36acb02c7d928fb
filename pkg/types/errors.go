package types

import "errors"

// Authentication and session errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrStorageCorrupt     = errors.New("stored value is corrupt")
)

// Entity validation errors.
var (
	ErrInvalidID       = errors.New("invalid task ID")
	ErrInvalidTitle    = errors.New("title must not be empty")
	ErrInvalidPriority = errors.New("invalid priority value")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidDueDate  = errors.New("due date must be set")
	ErrInvalidTheme    = errors.New("invalid theme value")
	ErrInvalidEmail    = errors.New("email must not be empty")
	ErrInvalidName     = errors.New("name must not be empty")
)
