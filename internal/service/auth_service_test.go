package service

import (
	"context"
	"testing"
	"time"

	"gastos-server/internal/dto"
	"gastos-server/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(store UserStore) *AuthService {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(store, jwtManager, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	store := &fakeUserStore{}
	svc := newAuthService(store)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ketlyn",
		Email:    "ketlyn@example.com",
		Password: "segredo123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "ketlyn@example.com", resp.User.Email)

	// password is stored hashed
	require.Len(t, store.users, 1)
	assert.NotEqual(t, "segredo123", store.users[0].PasswordHash)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ketlyn@example.com",
		Password: "segredo123",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(&fakeUserStore{})

	req := &dto.RegisterRequest{Name: "a", Email: "dup@example.com", Password: "segredo123"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newAuthService(&fakeUserStore{})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "a",
		Email:    "a@example.com",
		Password: "segredo123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "a@example.com", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "ninguem@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc := newAuthService(&fakeUserStore{})

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "a",
		Email:    "a@example.com",
		Password: "segredo123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
