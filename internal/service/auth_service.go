package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/port"
)

// Claims represents the JWT claims carried by both session kinds. Admin
// tokens set UserID and Email; operator tokens set NetworkID only, since
// operators are not persisted accounts.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID       `json:"user_id,omitempty"`
	Email     string          `json:"email,omitempty"`
	Role      domain.UserRole `json:"role"`
	NetworkID *uuid.UUID      `json:"network_id,omitempty"`
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RegisterInput is the DTO for admin registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	City     string `json:"city" binding:"required"`
}

// LoginInput is the DTO for admin login requests.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RefreshInput is the DTO for token refresh requests.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(tokenString string) (*Claims, error)
	NetworkTokenPair(network *domain.Network) (*TokenPair, error)
}

type authService struct {
	userRepo port.UserRepository
	cfg      config.JWTConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(userRepo port.UserRepository, cfg config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("auth.Register hash: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		City:         input.City,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.adminTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.adminTokenPair(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateTokenString(refreshToken, "refresh")
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if claims.Role == domain.RoleOperator {
		// Operators have no persisted account to re-check; re-sign from the
		// claims themselves.
		if claims.NetworkID == nil {
			return nil, domain.ErrUnauthorized
		}
		return s.signPair(Claims{Role: domain.RoleOperator, NetworkID: claims.NetworkID}, (*claims.NetworkID).String())
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return s.adminTokenPair(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateTokenString(tokenString, "access")
}

// NetworkTokenPair issues an operator session scoped to one network. Called
// after the network password check succeeds.
func (s *authService) NetworkTokenPair(network *domain.Network) (*TokenPair, error) {
	id := network.ID
	return s.signPair(Claims{Role: domain.RoleOperator, NetworkID: &id}, id.String())
}

func (s *authService) adminTokenPair(user *domain.User) (*TokenPair, error) {
	return s.signPair(Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   domain.RoleAdmin,
	}, user.ID.String())
}

func (s *authService) signPair(base Claims, subject string) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)

	sign := func(audience string, expiry time.Time) (string, error) {
		claims := base
		claims.RegisteredClaims = jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audience},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
		signed, err := token.SignedString([]byte(s.cfg.Secret))
		if err != nil {
			return "", fmt.Errorf("signing %s token: %w", audience, err)
		}
		return signed, nil
	}

	accessToken, err := sign("access", accessExpiry)
	if err != nil {
		return nil, err
	}
	refreshToken, err := sign("refresh", now.Add(s.cfg.RefreshTokenExpiry))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) validateTokenString(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	aud, _ := claims.GetAudience()
	found := false
	for _, a := range aud {
		if a == audience {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
