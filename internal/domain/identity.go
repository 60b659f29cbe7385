package domain

import "errors"

var (
	// ErrUnauthenticated indicates missing or invalid credentials.
	//
	// Unknown username and wrong password are reported with this same error.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates that the caller role is not allowed on the route.
	ErrForbidden = errors.New("forbidden")
	// ErrCredentialNotFound indicates that the credential store has no such username.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrInvalidCredentialEntry indicates a malformed credential store entry.
	ErrInvalidCredentialEntry = errors.New("invalid credential entry")
)

// Role is a named set of permissions attached to an identity.
type Role string

// Roles known to the cash card service.
const (
	RoleCardOwner Role = "CARD-OWNER"
	RoleNonOwner  Role = "NON-OWNER"
)

// Credential is what the credential store keeps for a username.
type Credential struct {
	Username       string
	HashedPassword string
	Role           Role
}

// Identity is an authenticated caller.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
