package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/kc-connector/internal/config"
	"github.com/go-authgate/kc-connector/internal/keycloak"
	"github.com/go-authgate/kc-connector/internal/metrics"
	"github.com/go-authgate/kc-connector/internal/services"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	MetricsRecorder      metrics.Recorder
	RateLimitRedisClient *redis.Client
	KeycloakHTTPClient   *http.Client

	// Keycloak clients
	TokenProvider *keycloak.TokenProvider
	UserClient    *keycloak.UserClient

	// Services
	UserService *services.UserService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	validateAllConfiguration(cfg)

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(context.Background()); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up metrics, the Keycloak HTTP client and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)

	// Outbound client shared by both Keycloak calls
	app.KeycloakHTTPClient, err = initializeKeycloakHTTPClient(app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up the Keycloak clients and services
func (app *Application) initializeBusinessLayer() {
	app.TokenProvider, app.UserClient = initializeKeycloakClients(
		app.Config,
		app.KeycloakHTTPClient,
	)
	app.UserService = initializeServices(app.TokenProvider, app.UserClient, app.MetricsRecorder)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(app.Config, app.UserService)

	app.Router = setupRouter(
		app.Config,
		app.HandlerSet,
		app.MetricsRecorder,
		app.RateLimitRedisClient,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addRedisClientShutdownJob(m, app.Config, app.RateLimitRedisClient)
	addHTTPClientShutdownJob(m, app.KeycloakHTTPClient)

	// Wait for graceful shutdown
	<-m.Done()
}
