package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"polisure/internal/config"
	"polisure/internal/domain"
	"polisure/internal/service"
	"polisure/mocks"
)

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-at-least-32-chars-long",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "polisure-test",
	}
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "adjuster@example.com",
		PasswordHash: string(hash),
		FullName:     "Test Adjuster",
		Role:         domain.RoleAdjuster,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	user := activeUser(t, "correct-horse-battery")
	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := service.NewAuthService(userRepo, jwtConfig())

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdjuster, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := activeUser(t, "correct-horse-battery")
	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := service.NewAuthService(userRepo, jwtConfig())

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	svc := service.NewAuthService(userRepo, jwtConfig())

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	user := activeUser(t, "correct-horse-battery")
	user.IsActive = false
	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := service.NewAuthService(userRepo, jwtConfig())

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_RefreshToken(t *testing.T) {
	user := activeUser(t, "correct-horse-battery")
	userRepo := new(mocks.MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	svc := service.NewAuthService(userRepo, jwtConfig())

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    user.Email,
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockUserRepo), jwtConfig())
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
