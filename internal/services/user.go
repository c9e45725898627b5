package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-authgate/kc-connector/internal/core"
)

// Outcome labels for user creation metrics
const (
	ResultCreated       = "created"
	ResultConflict      = "conflict"
	ResultAuthError     = "auth_error"
	ResultProviderError = "provider_error"
)

// Keycloak operations for external API metrics
const (
	OperationToken      = "token"
	OperationCreateUser = "create_user"
)

var _ core.UserProvisioner = (*UserService)(nil)

var (
	ErrAuthentication = errors.New("identity provider rejected the service credentials")
	ErrUserExists     = errors.New("user already exists")
	ErrProviderFailed = errors.New("identity provider request failed")
)

// UserService provisions users: it obtains a fresh admin token and then
// submits the user with it.
type UserService struct {
	tokens  core.TokenProvider
	users   core.UserCreator
	metrics core.Recorder
}

func NewUserService(
	tokens core.TokenProvider,
	users core.UserCreator,
	m core.Recorder,
) *UserService {
	return &UserService{
		tokens:  tokens,
		users:   users,
		metrics: m,
	}
}

// CreateUser returns ErrAuthentication, ErrUserExists or ErrProviderFailed
// (wrapping the provider error) on failure.
func (s *UserService) CreateUser(ctx context.Context, user core.NewUser) (*core.UserRecord, error) {
	start := time.Now()
	record, err := s.createUser(ctx, user)
	s.metrics.RecordUserCreation(resultFor(err), time.Since(start))
	return record, err
}

func (s *UserService) createUser(ctx context.Context, user core.NewUser) (*core.UserRecord, error) {
	token, err := s.adminToken(ctx)
	if err != nil {
		log.Printf("[User] Admin token request failed for user=%s: %v", user.Username, err)
		return nil, classify(err)
	}

	start := time.Now()
	record, err := s.users.CreateUser(ctx, user, token)
	if err != nil {
		s.metrics.RecordExternalAPICall(OperationCreateUser, core.ProviderStatus(err), time.Since(start))
		log.Printf("[User] Create failed for user=%s: %v", user.Username, err)
		return nil, classify(err)
	}
	s.metrics.RecordExternalAPICall(OperationCreateUser, record.StatusCode, time.Since(start))

	log.Printf("[User] Created user=%s id=%s", user.Username, record.ID)
	return record, nil
}

func (s *UserService) adminToken(ctx context.Context) (*core.AccessToken, error) {
	start := time.Now()
	token, err := s.tokens.AdminToken(ctx)
	duration := time.Since(start)

	s.metrics.RecordTokenRequest(err == nil, duration)
	if err != nil {
		s.metrics.RecordExternalAPICall(OperationToken, core.ProviderStatus(err), duration)
		return nil, err
	}
	s.metrics.RecordExternalAPICall(OperationToken, http.StatusOK, duration)
	return token, nil
}

// classify maps a provider failure onto the service error taxonomy.
// A 401 on either call means the admin credentials or token were rejected.
func classify(err error) error {
	switch core.ProviderStatus(err) {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrUserExists, err)
	default:
		return fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}
}

func resultFor(err error) string {
	switch {
	case err == nil:
		return ResultCreated
	case errors.Is(err, ErrUserExists):
		return ResultConflict
	case errors.Is(err, ErrAuthentication):
		return ResultAuthError
	default:
		return ResultProviderError
	}
}
