package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-authgate/kc-connector/internal/core"
	"github.com/go-authgate/kc-connector/internal/keycloak"
	"github.com/go-authgate/kc-connector/internal/metrics"
	"github.com/go-authgate/kc-connector/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testUser() core.NewUser {
	return core.NewUser{
		Username:  "jdoe",
		FirstName: "Jane",
		Email:     "jane@example.com",
		Password:  "secret",
	}
}

func tokenError(status int) error {
	return &keycloak.APIError{Op: keycloak.ErrTokenAcquisition, StatusCode: status}
}

func creationError(status int) error {
	return &keycloak.APIError{Op: keycloak.ErrUserCreation, StatusCode: status}
}

func TestCreateUser_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenProvider(ctrl)
	users := mocks.NewMockUserCreator(ctrl)
	token := &core.AccessToken{Value: "admin-token"}

	gomock.InOrder(
		tokens.EXPECT().AdminToken(gomock.Any()).Return(token, nil).Times(1),
		users.EXPECT().
			CreateUser(gomock.Any(), testUser(), token).
			Return(&core.UserRecord{ID: "abc", StatusCode: http.StatusCreated}, nil).
			Times(1),
	)

	svc := NewUserService(tokens, users, metrics.NewNoopMetrics())
	record, err := svc.CreateUser(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, "abc", record.ID)
}

func TestCreateUser_TokenUnauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenProvider(ctrl)
	users := mocks.NewMockUserCreator(ctrl)

	tokens.EXPECT().AdminToken(gomock.Any()).Return(nil, tokenError(http.StatusUnauthorized))
	// user creation must not start without a token
	users.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := NewUserService(tokens, users, metrics.NewNoopMetrics())
	_, err := svc.CreateUser(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.ErrorIs(t, err, keycloak.ErrTokenAcquisition)
}

func TestCreateUser_TokenTransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenProvider(ctrl)
	users := mocks.NewMockUserCreator(ctrl)

	cause := errors.New("dial tcp: connection refused")
	tokens.EXPECT().
		AdminToken(gomock.Any()).
		Return(nil, &keycloak.APIError{Op: keycloak.ErrTokenAcquisition, Err: cause})

	svc := NewUserService(tokens, users, metrics.NewNoopMetrics())
	_, err := svc.CreateUser(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrProviderFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrAuthentication)
}

func TestCreateUser_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"conflict", creationError(http.StatusConflict), ErrUserExists},
		{"unauthorized", creationError(http.StatusUnauthorized), ErrAuthentication},
		{"forbidden", creationError(http.StatusForbidden), ErrProviderFailed},
		{"bad request", creationError(http.StatusBadRequest), ErrProviderFailed},
		{"server error", creationError(http.StatusInternalServerError), ErrProviderFailed},
		{"plain error", errors.New("boom"), ErrProviderFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tokens := mocks.NewMockTokenProvider(ctrl)
			users := mocks.NewMockUserCreator(ctrl)

			tokens.EXPECT().AdminToken(gomock.Any()).Return(&core.AccessToken{Value: "t"}, nil)
			users.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

			svc := NewUserService(tokens, users, metrics.NewNoopMetrics())
			record, err := svc.CreateUser(context.Background(), testUser())
			assert.Nil(t, record)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCreateUser_RecordsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenProvider(ctrl)
	users := mocks.NewMockUserCreator(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	tokens.EXPECT().AdminToken(gomock.Any()).Return(&core.AccessToken{Value: "t"}, nil)
	users.EXPECT().
		CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, creationError(http.StatusConflict))

	recorder.EXPECT().RecordTokenRequest(true, gomock.Any()).Times(1)
	recorder.EXPECT().RecordExternalAPICall(OperationToken, http.StatusOK, gomock.Any()).Times(1)
	recorder.EXPECT().
		RecordExternalAPICall(OperationCreateUser, http.StatusConflict, gomock.Any()).
		Times(1)
	recorder.EXPECT().RecordUserCreation(ResultConflict, gomock.Any()).Times(1)

	svc := NewUserService(tokens, users, recorder)
	_, err := svc.CreateUser(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestCreateUser_RecordsTokenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenProvider(ctrl)
	users := mocks.NewMockUserCreator(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	tokens.EXPECT().AdminToken(gomock.Any()).Return(nil, tokenError(http.StatusUnauthorized))

	recorder.EXPECT().RecordTokenRequest(false, gomock.Any()).Times(1)
	recorder.EXPECT().
		RecordExternalAPICall(OperationToken, http.StatusUnauthorized, gomock.Any()).
		Times(1)
	recorder.EXPECT().RecordUserCreation(ResultAuthError, gomock.Any()).Times(1)

	svc := NewUserService(tokens, users, recorder)
	_, err := svc.CreateUser(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestResultFor(t *testing.T) {
	assert.Equal(t, ResultCreated, resultFor(nil))
	assert.Equal(t, ResultConflict, resultFor(classify(creationError(http.StatusConflict))))
	assert.Equal(t, ResultAuthError, resultFor(classify(tokenError(http.StatusUnauthorized))))
	assert.Equal(t, ResultProviderError, resultFor(classify(errors.New("x"))))
}
