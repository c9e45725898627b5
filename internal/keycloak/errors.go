package keycloak

import (
	"errors"
	"fmt"

	"github.com/go-authgate/kc-connector/internal/core"
)

var _ core.ProviderError = (*APIError)(nil)

var (
	ErrTokenAcquisition = errors.New("failed to acquire admin access token")
	ErrUserCreation     = errors.New("failed to create user")
	ErrMissingToken     = errors.New("access token is required")
)

// maxBodyPreview limits how much of a provider response ends up in error strings.
const maxBodyPreview = 200

// APIError describes a failed call to the Keycloak API. StatusCode and Body are
// set when the provider answered; Err holds the transport or decoding cause.
type APIError struct {
	Op         error
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: HTTP %d - %s", e.Op, e.StatusCode, bodyPreview(e.Body))
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Op, e.Err)
	default:
		return e.Op.Error()
	}
}

// Unwrap lets errors.Is match both the operation sentinel and the cause.
func (e *APIError) Unwrap() []error {
	errs := []error{e.Op}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ProviderStatus implements core.ProviderError.
func (e *APIError) ProviderStatus() int {
	return e.StatusCode
}

// StatusCode returns the provider HTTP status carried by err, or 0.
func StatusCode(err error) int {
	return core.ProviderStatus(err)
}

func bodyPreview(body string) string {
	if len(body) > maxBodyPreview {
		return body[:maxBodyPreview] + "..."
	}
	return body
}
