package identity

import (
	"errors"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// State is the authentication state of the session.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a consistent copy of the identity state.
type Snapshot struct {
	State State       `json:"state"`
	User  *types.User `json:"user,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Authenticated reports whether the snapshot has a signed-in user.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Message returns the user-facing text for an authentication error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, types.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, types.ErrEmailAlreadyExists):
		return "Email already exists"
	case errors.Is(err, types.ErrInvalidEmail):
		return "Email is required"
	case errors.Is(err, types.ErrInvalidName):
		return "Name is required"
	}
	return "An error occurred"
}
