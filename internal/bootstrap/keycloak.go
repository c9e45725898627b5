package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/go-authgate/kc-connector/internal/config"
	"github.com/go-authgate/kc-connector/internal/keycloak"
)

// initializeKeycloakHTTPClient builds the outbound client used for token and user calls
func initializeKeycloakHTTPClient(cfg *config.Config) (*http.Client, error) {
	client, err := keycloak.NewHTTPClient(cfg.KeycloakTimeout, cfg.KeycloakInsecureSkipVerify)
	if err != nil {
		return nil, fmt.Errorf("failed to create Keycloak HTTP client: %w", err)
	}
	return client, nil
}

func keycloakConfig(cfg *config.Config) keycloak.Config {
	return keycloak.Config{
		BaseURL:       cfg.KeycloakURL,
		Realm:         cfg.KeycloakRealm,
		AdminUsername: cfg.KeycloakAdminUser,
		AdminPassword: cfg.KeycloakAdminPassword,
		AdminClientID: cfg.KeycloakAdminClientID,
	}
}

// initializeKeycloakClients creates the token provider and the user client
func initializeKeycloakClients(
	cfg *config.Config,
	httpClient *http.Client,
) (*keycloak.TokenProvider, *keycloak.UserClient) {
	kc := keycloakConfig(cfg)
	return keycloak.NewTokenProvider(kc, httpClient), keycloak.NewUserClient(kc, httpClient)
}
