package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/roombook-api/internal/models"
	"github.com/noah-isme/roombook-api/pkg/config"
	appErrors "github.com/noah-isme/roombook-api/pkg/errors"
)

func newTestAuthService(t *testing.T, password string) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(
		config.JWTConfig{Secret: "test_secret", Expiration: time.Hour, Issuer: "roombook-api"},
		config.AuthConfig{AdminEmail: "admin@example.com", AdminPasswordHash: string(hash)},
		nil,
		zap.NewNop(),
	)
}

func TestAuthLoginIssuesToken(t *testing.T) {
	svc := newTestAuthService(t, "secret-pass")

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "roombook-api", claims.Issuer)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, "secret-pass")

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(t, "secret-pass")

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "intruder@example.com",
		Password: "secret-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t, "secret-pass")

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := newTestAuthService(t, "secret-pass")
	resp, err := issuer.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	verifier := NewAuthService(
		config.JWTConfig{Secret: "other_secret", Expiration: time.Hour},
		config.AuthConfig{},
		nil,
		zap.NewNop(),
	)
	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
