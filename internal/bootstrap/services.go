package bootstrap

import (
	"github.com/go-authgate/kc-connector/internal/core"
	"github.com/go-authgate/kc-connector/internal/metrics"
	"github.com/go-authgate/kc-connector/internal/services"
)

// initializeServices creates all business logic services
func initializeServices(
	tokens core.TokenProvider,
	users core.UserCreator,
	prometheusMetrics metrics.Recorder,
) *services.UserService {
	return services.NewUserService(tokens, users, prometheusMetrics)
}
