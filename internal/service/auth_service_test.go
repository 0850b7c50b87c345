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

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/service"
	"patrimon/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "patrimon-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "admin@test.com",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@test.com").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@test.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "admin@test.com",
		PasswordHash: hashPassword("correct-password"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@test.com").Return(user, nil)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@test.com",
		Password: "wrong-password",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmailHidesExistence(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "ghost@test.com").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ghost@test.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken_AdminClaims(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "admin@test.com",
		PasswordHash: hashPassword("password123"),
		IsActive:     true,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@test.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "admin@test.com",
		Password: "password123",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Nil(t, claims.NetworkID)

	// A refresh token must not pass access validation.
	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_NetworkTokenPair_OperatorClaims(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockUserRepo), testJWTConfig())

	network := &domain.Network{ID: uuid.New(), Name: "Rede Norte"}
	pair, err := svc.NetworkTokenPair(network)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, claims.Role)
	require.NotNil(t, claims.NetworkID)
	assert.Equal(t, network.ID, *claims.NetworkID)
	assert.Equal(t, uuid.Nil, claims.UserID)
}

func TestAuthService_RefreshToken_Operator(t *testing.T) {
	svc := service.NewAuthService(new(mocks.MockUserRepo), testJWTConfig())

	network := &domain.Network{ID: uuid.New()}
	pair, err := svc.NetworkTokenPair(network)
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, claims.Role)
	require.NotNil(t, claims.NetworkID)
	assert.Equal(t, network.ID, *claims.NetworkID)
}

func TestAuthService_Register_CreatesActiveAdmin(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@test.com" && u.IsActive && u.PasswordHash != "secret123"
	})).Return(nil)

	user, pair, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "new@test.com",
		Password: "secret123",
		City:     "Curitiba",
	})
	require.NoError(t, err)
	assert.Equal(t, "Curitiba", user.City)
	assert.NotEmpty(t, pair.AccessToken)
	userRepo.AssertExpectations(t)
}
