package models

import (
	"errors"
	"regexp"

	"github.com/go-authgate/kc-connector/internal/core"
)

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidEmail          = errors.New("invalid email address")
)

// notSpaceOrAt excludes "@" and Unicode whitespace. RE2's \s alone
// covers only ASCII whitespace.
const notSpaceOrAt = `[^\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}@]`

// emailPattern accepts a basic local@domain.tld shape.
var emailPattern = regexp.MustCompile(`^` + notSpaceOrAt + `+@` + notSpaceOrAt + `+\.` + notSpaceOrAt + `+$`)

// UserCreationRequest is the body accepted by POST /user.
type UserCreationRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate checks required fields first, then the email shape.
func (r *UserCreationRequest) Validate() error {
	if r.Username == "" || r.FirstName == "" || r.Email == "" || r.Password == "" {
		return ErrMissingRequiredFields
	}
	if !IsValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// NewUser converts the request into the provider-neutral form.
func (r *UserCreationRequest) NewUser() core.NewUser {
	return core.NewUser{
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
	}
}

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
