package keycloak

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
)

// adminRealm is the realm whose admin-cli client issues admin tokens.
const adminRealm = "master"

// DefaultAdminClientID is the built-in Keycloak client for admin logins.
const DefaultAdminClientID = "admin-cli"

// Config holds the immutable identity provider settings shared by the
// token provider and the user client.
type Config struct {
	BaseURL       string // internal address, e.g. http://keycloak:18080
	Realm         string
	AdminUsername string
	AdminPassword string
	AdminClientID string
}

func (c Config) baseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func (c Config) clientID() string {
	if c.AdminClientID == "" {
		return DefaultAdminClientID
	}
	return c.AdminClientID
}

// NewHTTPClient creates the HTTP client used for all Keycloak calls.
// A zero timeout leaves the transport defaults in charge.
func NewHTTPClient(timeout time.Duration, insecureSkipVerify bool) (*http.Client, error) {
	client, err := httpclient.NewClient(
		httpclient.WithTimeout(timeout),
		httpclient.WithInsecureSkipVerify(insecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create keycloak http client: %w", err)
	}
	return client, nil
}
