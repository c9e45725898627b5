package core

import (
	"context"
	"errors"
	"time"
)

// AccessToken is a short-lived bearer credential issued by the identity provider.
type AccessToken struct {
	Value  string
	Expiry time.Time // zero when the provider did not report expires_in
}

// UserRecord is whatever the identity provider answered to a successful
// user creation. Keycloak replies 201 with an empty body and a Location header.
type UserRecord struct {
	ID         string // last path segment of Location, if any
	Location   string
	StatusCode int
	Body       []byte
}

// NewUser holds the validated fields of a user creation request.
type NewUser struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// TokenProvider obtains administrative access tokens.
type TokenProvider interface {
	AdminToken(ctx context.Context) (*AccessToken, error)
}

// UserCreator creates users in the identity provider using an admin token.
type UserCreator interface {
	CreateUser(ctx context.Context, user NewUser, token *AccessToken) (*UserRecord, error)
}

// ProviderError is implemented by errors that carry the identity provider's
// HTTP status code.
type ProviderError interface {
	error
	ProviderStatus() int
}

// ProviderStatus returns the provider HTTP status carried by err, or 0 when
// the failure happened before a response was received.
func ProviderStatus(err error) int {
	var pe ProviderError
	if errors.As(err, &pe) {
		return pe.ProviderStatus()
	}
	return 0
}

// UserProvisioner runs the full creation flow for one request.
type UserProvisioner interface {
	CreateUser(ctx context.Context, user NewUser) (*UserRecord, error)
}
