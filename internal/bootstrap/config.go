package bootstrap

import (
	"log"

	"github.com/go-authgate/kc-connector/internal/config"
	"github.com/go-authgate/kc-connector/internal/version"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logConfiguration(cfg)
}

// logConfiguration prints the effective settings. Credentials are never logged.
func logConfiguration(cfg *config.Config) {
	log.Printf("Starting %s", version.Short())
	log.Printf("Keycloak hostname: %s", cfg.KeycloakHostname)
	log.Printf("Keycloak internal URL: %s", cfg.KeycloakURL)
	log.Printf("Keycloak realm: %s (admin client: %s)", cfg.KeycloakRealm, cfg.KeycloakAdminClientID)
	if cfg.KeycloakTimeout > 0 {
		log.Printf("Keycloak request timeout: %s", cfg.KeycloakTimeout)
	}
	if cfg.KeycloakInsecureSkipVerify {
		log.Printf("WARNING: TLS verification disabled for Keycloak requests")
	}
}
