package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/go-authgate/kc-connector/internal/core"
)

var _ core.UserCreator = (*UserClient)(nil)

// CredentialTypePassword is the Keycloak credential type for passwords.
const CredentialTypePassword = "password"

// UserRepresentation is the subset of the Keycloak admin user model sent on creation.
type UserRepresentation struct {
	Username      string                     `json:"username"`
	Email         string                     `json:"email"`
	FirstName     string                     `json:"firstName"`
	LastName      string                     `json:"lastName"`
	Enabled       bool                       `json:"enabled"`
	EmailVerified bool                       `json:"emailVerified"`
	Credentials   []CredentialRepresentation `json:"credentials"`
}

// CredentialRepresentation is a Keycloak user credential.
type CredentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// NewUserRepresentation builds the payload for u. Created users are enabled,
// have a verified email and a single non-temporary password.
func NewUserRepresentation(u core.NewUser) UserRepresentation {
	return UserRepresentation{
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Enabled:       true,
		EmailVerified: true,
		Credentials: []CredentialRepresentation{
			{
				Type:      CredentialTypePassword,
				Value:     u.Password,
				Temporary: false,
			},
		},
	}
}

// UserClient creates users through the realm-scoped admin REST API.
type UserClient struct {
	usersURL string
	client   *http.Client
}

// NewUserClient creates a user client for the configured realm.
func NewUserClient(cfg Config, client *http.Client) *UserClient {
	if client == nil {
		client = http.DefaultClient
	}

	return &UserClient{
		usersURL: cfg.baseURL() + "/auth/admin/realms/" + url.PathEscape(cfg.Realm) + "/users",
		client:   client,
	}
}

// UsersURL returns the user creation endpoint.
func (c *UserClient) UsersURL() string {
	return c.usersURL
}

// CreateUser submits user to Keycloak authorized by token.
func (c *UserClient) CreateUser(
	ctx context.Context,
	user core.NewUser,
	token *core.AccessToken,
) (*core.UserRecord, error) {
	if token == nil || token.Value == "" {
		return nil, &APIError{Op: ErrUserCreation, Err: ErrMissingToken}
	}

	payload, err := json.Marshal(NewUserRepresentation(user))
	if err != nil {
		return nil, &APIError{Op: ErrUserCreation, Err: fmt.Errorf("failed to marshal user: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.usersURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &APIError{Op: ErrUserCreation, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token.Value)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &APIError{Op: ErrUserCreation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Op:         ErrUserCreation,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Op:         ErrUserCreation,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	location := resp.Header.Get("Location")
	return &core.UserRecord{
		ID:         userIDFromLocation(location),
		Location:   location,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// userIDFromLocation extracts the id from .../users/{id}.
func userIDFromLocation(location string) string {
	if location == "" {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil || u.Path == "" {
		return ""
	}
	id := path.Base(u.Path)
	if id == "/" || id == "." || id == "users" {
		return ""
	}
	return id
}
