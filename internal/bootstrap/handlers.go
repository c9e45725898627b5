package bootstrap

import (
	"log"

	"github.com/go-authgate/kc-connector/internal/config"
	"github.com/go-authgate/kc-connector/internal/core"
	"github.com/go-authgate/kc-connector/internal/handlers"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	user   *handlers.UserHandler
	health *handlers.HealthHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(cfg *config.Config, users core.UserProvisioner) handlerSet {
	loc, tz := handlers.ResolveTimezone(cfg.Timezone)
	log.Printf("Server timezone: %s", tz)

	return handlerSet{
		user:   handlers.NewUserHandler(users),
		health: handlers.NewHealthHandler(cfg.ServiceName, loc, tz),
	}
}
