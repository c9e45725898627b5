package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-authgate/kc-connector/internal/config"
	"github.com/go-authgate/kc-connector/internal/metrics"
	"github.com/go-authgate/kc-connector/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userBody = `{"username":"jdoe","firstname":"Jane","email":"jane@example.com","password":"secret"}`

func newFakeKeycloak(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/realms/master/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"admin-token","token_type":"bearer","expires_in":60}`))
	})
	mux.HandleFunc("/auth/admin/realms/camunda-platform/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Location", r.URL.Path+"/1234")
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(keycloakURL string) *config.Config {
	return &config.Config{
		ServerAddr:            ":0",
		ServiceName:           "User Creation Service",
		Timezone:              "UTC",
		ServerShutdownTimeout: time.Second,
		KeycloakURL:           keycloakURL,
		KeycloakRealm:         "camunda-platform",
		KeycloakAdminUser:     "admin",
		KeycloakAdminPassword: "admin",
		KeycloakAdminClientID: "admin-cli",
		EnableRateLimit:       true,
		RateLimitStore:        config.RateLimitStoreMemory,
		UserCreateRateLimit:   30,
	}
}

// buildRouter runs the same phases as Run, minus the server.
func buildRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &Application{Config: cfg}
	require.NoError(t, app.initializeInfrastructure(context.Background()))
	app.initializeBusinessLayer()
	app.initializeHTTPLayer()
	require.NotNil(t, app.Server)
	assert.Equal(t, cfg.ServerAddr, app.Server.Addr)
	return app.Router
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r := buildRouter(t, testConfig(newFakeKeycloak(t).URL))

	w := get(r, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "User Creation Service", body["service"])
	assert.Equal(t, "UTC", body["timezone"])
}

func TestRouter_HealthWithoutKeycloak(t *testing.T) {
	r := buildRouter(t, testConfig("http://127.0.0.1:1"))

	w := get(r, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CreateUser(t *testing.T) {
	r := buildRouter(t, testConfig(newFakeKeycloak(t).URL))

	w := post(r, "/user", userBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t,
		`{"message":"User created successfully","username":"jdoe","email":"jane@example.com"}`,
		w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_CreateUserRateLimited(t *testing.T) {
	cfg := testConfig(newFakeKeycloak(t).URL)
	cfg.UserCreateRateLimit = 2
	r := buildRouter(t, cfg)

	for range 2 {
		assert.Equal(t, http.StatusCreated, post(r, "/user", userBody).Code)
	}

	w := post(r, "/user", userBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")

	// Health is never throttled.
	assert.Equal(t, http.StatusOK, get(r, "/health", "").Code)
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	cfg := testConfig(newFakeKeycloak(t).URL)
	cfg.EnableRateLimit = false
	cfg.UserCreateRateLimit = 1
	r := buildRouter(t, cfg)

	for range 3 {
		assert.Equal(t, http.StatusCreated, post(r, "/user", userBody).Code)
	}
}

func TestRouter_MetricsDisabled(t *testing.T) {
	r := buildRouter(t, testConfig(newFakeKeycloak(t).URL))

	assert.Equal(t, http.StatusNotFound, get(r, "/metrics", "").Code)
}

func TestRouter_MetricsWithToken(t *testing.T) {
	cfg := testConfig(newFakeKeycloak(t).URL)
	cfg.MetricsEnabled = true
	cfg.MetricsToken = "scrape-token"
	r := buildRouter(t, cfg)

	require.Equal(t, http.StatusCreated, post(r, "/user", userBody).Code)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/metrics", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/metrics", "Bearer nope").Code)

	w := get(r, "/metrics", "Bearer scrape-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kc_user_creations_total")
}

func TestInitializeMetrics(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		m := initializeMetrics(&config.Config{MetricsEnabled: enabled})
		require.NotNil(t, m)
	}
	_, isNoop := initializeMetrics(&config.Config{}).(*metrics.NoopMetrics)
	assert.True(t, isNoop)
}

func TestInitializeKeycloakClients(t *testing.T) {
	cfg := testConfig("http://keycloak:18080/")
	client, err := initializeKeycloakHTTPClient(cfg)
	require.NoError(t, err)

	tokens, users := initializeKeycloakClients(cfg, client)

	assert.Equal(t,
		"http://keycloak:18080/auth/realms/master/protocol/openid-connect/token",
		tokens.TokenURL())
	assert.Equal(t,
		"http://keycloak:18080/auth/admin/realms/camunda-platform/users",
		users.UsersURL())
}

func TestInitializeRateLimitRedisClient_NotNeeded(t *testing.T) {
	for _, cfg := range []*config.Config{
		{EnableRateLimit: false, RateLimitStore: config.RateLimitStoreRedis},
		{EnableRateLimit: true, RateLimitStore: config.RateLimitStoreMemory},
	} {
		client, err := initializeRateLimitRedisClient(context.Background(), cfg)
		require.NoError(t, err)
		assert.Nil(t, client)
	}
}

func TestInitializeRateLimitRedisClient_Unreachable(t *testing.T) {
	cfg := &config.Config{
		EnableRateLimit:  true,
		RateLimitStore:   config.RateLimitStoreRedis,
		RedisAddr:        "127.0.0.1:1",
		RedisConnTimeout: 200 * time.Millisecond,
	}

	client, err := initializeRateLimitRedisClient(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to Redis at 127.0.0.1:1")
}

func TestSetupRateLimiting_RedisWithoutClient(t *testing.T) {
	cfg := &config.Config{
		EnableRateLimit:     true,
		RateLimitStore:      config.RateLimitStoreRedis,
		UserCreateRateLimit: 10,
	}

	_, err := setupRateLimiting(cfg, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, middleware.ErrRedisClientRequired)
}

func TestCloseWithTimeout(t *testing.T) {
	assert.NoError(t, closeWithTimeout(func() error { return nil }, time.Second))

	closeErr := errors.New("close failed")
	assert.ErrorIs(t, closeWithTimeout(func() error { return closeErr }, time.Second), closeErr)

	block := make(chan struct{})
	defer close(block)
	err := closeWithTimeout(func() error {
		<-block
		return nil
	}, 10*time.Millisecond)
	assert.ErrorIs(t, err, errCloseTimeout)
}
