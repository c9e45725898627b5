package keycloak

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-authgate/kc-connector/internal/core"

	"golang.org/x/oauth2"
)

var _ core.TokenProvider = (*TokenProvider)(nil)

// TokenProvider obtains admin access tokens with the resource owner
// password grant against the master realm. Tokens are never cached.
type TokenProvider struct {
	oauth    *oauth2.Config
	username string
	password string
	client   *http.Client
}

// NewTokenProvider creates a token provider for the given Keycloak settings.
func NewTokenProvider(cfg Config, client *http.Client) *TokenProvider {
	if client == nil {
		client = http.DefaultClient
	}

	return &TokenProvider{
		oauth: &oauth2.Config{
			ClientID: cfg.clientID(),
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.baseURL() + "/auth/realms/" + adminRealm + "/protocol/openid-connect/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
		client:   client,
	}
}

// TokenURL returns the token endpoint used for the admin grant.
func (p *TokenProvider) TokenURL() string {
	return p.oauth.Endpoint.TokenURL
}

// AdminToken requests a fresh admin access token.
func (p *TokenProvider) AdminToken(ctx context.Context) (*core.AccessToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	tok, err := p.oauth.PasswordCredentialsToken(ctx, p.username, p.password)
	if err != nil {
		apiErr := &APIError{Op: ErrTokenAcquisition, Err: err}

		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			apiErr.StatusCode = retrieveErr.Response.StatusCode
			apiErr.Body = string(retrieveErr.Body)
		}
		return nil, apiErr
	}

	return &core.AccessToken{
		Value:  tok.AccessToken,
		Expiry: tok.Expiry,
	}, nil
}
