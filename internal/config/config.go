package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

const EnvironmentProduction = "production"

var (
	ErrKeycloakURLRequired   = errors.New("KEYCLOAK_URL is required")
	ErrKeycloakRealmRequired = errors.New("KEYCLOAK_REALM is required")
	ErrAdminUserRequired     = errors.New("KC_ADMIN_USER is required")
)

type Config struct {
	// Server settings
	ServerAddr  string
	Environment string
	ServiceName string
	Timezone    string // TZ; empty means the system zone

	ServerShutdownTimeout time.Duration

	// Keycloak
	KeycloakHostname           string // public hostname, informational
	KeycloakURL                string // internal base address used for API calls
	KeycloakRealm              string
	KeycloakAdminUser          string
	KeycloakAdminPassword      string
	KeycloakAdminClientID      string
	KeycloakTimeout            time.Duration // 0 disables the client timeout
	KeycloakInsecureSkipVerify bool

	// Metrics
	MetricsEnabled bool
	MetricsToken   string // Bearer token for /metrics, empty leaves it open

	// Rate limiting
	EnableRateLimit     bool
	RateLimitStore      string // "memory" or "redis"
	UserCreateRateLimit int    // requests per minute per IP

	// Redis (rate limit store)
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisConnTimeout  time.Duration
	RedisCloseTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ServiceName: getEnv("SERVICE_NAME", "User Creation Service"),
		Timezone:    getEnv("TZ", ""),

		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),

		KeycloakHostname:           getEnv("HOSTNAME", "camunda.example.com"),
		KeycloakURL:                getEnv("KEYCLOAK_URL", "http://keycloak:18080"),
		KeycloakRealm:              getEnv("KEYCLOAK_REALM", "camunda-platform"),
		KeycloakAdminUser:          getEnv("KC_ADMIN_USER", "admin"),
		KeycloakAdminPassword:      getEnv("KC_ADMIN_PASSWORD", "admin"),
		KeycloakAdminClientID:      getEnv("KEYCLOAK_ADMIN_CLIENT_ID", "admin-cli"),
		KeycloakTimeout:            getEnvDuration("KEYCLOAK_TIMEOUT", 0),
		KeycloakInsecureSkipVerify: getEnvBool("KEYCLOAK_INSECURE_SKIP_VERIFY", false),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		EnableRateLimit:     getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:      getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		UserCreateRateLimit: getEnvInt("USER_CREATE_RATE_LIMIT", 30),

		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisConnTimeout:  getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		RedisCloseTimeout: getEnvDuration("REDIS_CLOSE_TIMEOUT", 5*time.Second),
	}
}

// Validate checks settings that would otherwise fail on the first request.
func (c *Config) Validate() error {
	if c.KeycloakURL == "" {
		return ErrKeycloakURLRequired
	}
	u, err := url.Parse(c.KeycloakURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid KEYCLOAK_URL value: %q (must be an http or https URL)", c.KeycloakURL)
	}
	if c.KeycloakRealm == "" {
		return ErrKeycloakRealmRequired
	}
	if c.KeycloakAdminUser == "" {
		return ErrAdminUserRequired
	}
	if c.KeycloakTimeout < 0 {
		return fmt.Errorf("invalid KEYCLOAK_TIMEOUT value: %s (must not be negative)", c.KeycloakTimeout)
	}

	if c.EnableRateLimit {
		if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
			return fmt.Errorf(
				"invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
				c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis,
			)
		}
		if c.UserCreateRateLimit <= 0 {
			return fmt.Errorf("invalid USER_CREATE_RATE_LIMIT value: %d (must be positive)", c.UserCreateRateLimit)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// UsesRedis reports whether a Redis connection is needed at startup.
func (c *Config) UsesRedis() bool {
	return c.EnableRateLimit && c.RateLimitStore == RateLimitStoreRedis
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
