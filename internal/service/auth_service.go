package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/weekboard/api/internal/config"
	"github.com/weekboard/api/internal/domain"
	"github.com/weekboard/api/internal/repository"
)

// UserRepository defines the behavior AuthService needs from a user repository.
type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TokenStore defines the minimal operations AuthService needs for token storage.
type TokenStore interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type AuthService struct {
	userRepo UserRepository
	tokens   TokenStore
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, tokens TokenStore, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		jwtCfg:   jwtCfg,
	}
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// Signup registers a new ordinary user. Admin accounts are provisioned
// out of band, never through this endpoint.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyExists.WithDetails(map[string]string{
			"email": "already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         domain.RoleMember,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	claims, err := s.validateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// The stored refresh token must match; logout or a later login
	// invalidates older ones.
	var stored string
	if err := s.tokens.Get(ctx, refreshKey(claims.UserID), &stored); err != nil || stored != refreshToken {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the caller's refresh token and denylists the presented
// access token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken string) error {
	if err := s.tokens.Delete(ctx, refreshKey(userID)); err != nil {
		return domain.NewAppError(domain.ErrCodeRedisError, "Failed to revoke session", 500).WithError(err)
	}

	claims, err := s.parseToken(accessToken, s.jwtCfg.AccessSecret)
	if err != nil {
		// Token already invalid, nothing left to revoke.
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	return s.tokens.Set(ctx, denylistKey(accessToken), true, remaining)
}

// ValidateAccessToken parses and verifies an access token and rejects
// tokens revoked via logout.
func (s *AuthService) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parseToken(tokenString, s.jwtCfg.AccessSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.Exists(ctx, denylistKey(tokenString))
	if err == nil && revoked {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenResponse, error) {
	accessToken, err := s.generateToken(user, s.jwtCfg.AccessSecret, s.accessTokenTTL())
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	refreshToken, err := s.generateToken(user, s.jwtCfg.RefreshSecret, s.refreshTokenTTL())
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}

	if err := s.tokens.Set(ctx, refreshKey(user.ID), refreshToken, s.refreshTokenTTL()); err != nil {
		return nil, domain.NewAppError(domain.ErrCodeRedisError, "Failed to store session", 500).WithError(err)
	}

	return &domain.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTokenTTL().Seconds()),
	}, nil
}

func (s *AuthService) generateToken(user *domain.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *AuthService) parseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) validateRefreshToken(tokenString string) (*Claims, error) {
	return s.parseToken(tokenString, s.jwtCfg.RefreshSecret)
}

func (s *AuthService) accessTokenTTL() time.Duration {
	return time.Duration(s.jwtCfg.AccessTokenDuration) * time.Minute
}

func (s *AuthService) refreshTokenTTL() time.Duration {
	return time.Duration(s.jwtCfg.RefreshTokenDuration) * time.Minute
}

func refreshKey(userID uuid.UUID) string {
	return fmt.Sprintf("refresh_token:%s", userID)
}

func denylistKey(token string) string {
	return fmt.Sprintf("token_denylist:%s", token)
}
