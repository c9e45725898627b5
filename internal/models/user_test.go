package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserCreationRequest_Validate(t *testing.T) {
	valid := UserCreationRequest{
		Username:  "jdoe",
		FirstName: "Jane",
		Email:     "jane@example.com",
		Password:  "secret",
	}

	tests := []struct {
		name    string
		mutate  func(r *UserCreationRequest)
		wantErr error
	}{
		{name: "valid without lastname", mutate: func(r *UserCreationRequest) {}},
		{name: "valid with lastname", mutate: func(r *UserCreationRequest) { r.LastName = "Doe" }},
		{
			name:    "missing username",
			mutate:  func(r *UserCreationRequest) { r.Username = "" },
			wantErr: ErrMissingRequiredFields,
		},
		{
			name:    "missing firstname",
			mutate:  func(r *UserCreationRequest) { r.FirstName = "" },
			wantErr: ErrMissingRequiredFields,
		},
		{
			name:    "missing email",
			mutate:  func(r *UserCreationRequest) { r.Email = "" },
			wantErr: ErrMissingRequiredFields,
		},
		{
			name:    "missing password",
			mutate:  func(r *UserCreationRequest) { r.Password = "" },
			wantErr: ErrMissingRequiredFields,
		},
		{
			name: "missing fields win over bad email",
			mutate: func(r *UserCreationRequest) {
				r.Password = ""
				r.Email = "not-an-email"
			},
			wantErr: ErrMissingRequiredFields,
		},
		{
			name:    "invalid email",
			mutate:  func(r *UserCreationRequest) { r.Email = "jane.example.com" },
			wantErr: ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{"a@b.co", true},
		{"first.last+tag@sub.example.org", true},
		{"jane@example", false},
		{"jane.example.com", false},
		{"@example.com", false},
		{"jane@.com", false},
		{"jane@mail.example.co.uk", true},
		{"jane doe@example.com", false},
		{"jane@exa mple.com", false},
		{"jane@@example.com", false},
		{"jane\tdoe@example.com", false},
		{"jane\vdoe@example.com", false},
		{"jane\u00a0doe@example.com", false},
		{"jane@example\u2028.com", false},
		{"jane@example.c\u2029om", false},
		{"\ufeffjane@example.com", false},
		{"jane\u3000doe@example.com", false},
		{"j\u00e9r\u00f4me@example.com", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestUserCreationRequest_NewUser(t *testing.T) {
	req := UserCreationRequest{
		Username:  "jdoe",
		FirstName: "Jane",
		Email:     "jane@example.com",
		Password:  "secret",
	}

	u := req.NewUser()
	assert.Equal(t, "jdoe", u.Username)
	assert.Equal(t, "Jane", u.FirstName)
	assert.Equal(t, "", u.LastName)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "secret", u.Password)
}
