package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/pkg/jwt"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

var (
	ErrInvalidCredentials = apperrors.Rule("Identifiants invalides")
	ErrTokenRevoked       = fmt.Errorf("token revoked: %w", apperrors.ErrUnauthorized)
)

// AdminAuthService authenticates back-office users with bearer tokens.
// Logged out tokens stay on a denylist until they would have expired.
type AdminAuthService struct {
	users        repository.UserStore
	tokenManager *jwt.TokenManager
	revoked      *gocache.Cache
}

func NewAdminAuthService(users repository.UserStore, tokenManager *jwt.TokenManager) *AdminAuthService {
	return &AdminAuthService{
		users:        users,
		tokenManager: tokenManager,
		revoked:      gocache.New(tokenManager.GetExpirationTime(), 10*time.Minute),
	}
}

// Login checks the credentials and issues a token
func (s *AdminAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("unknown_email").Inc()
			logger.Warn("Login attempt for unknown email", zap.String("email", req.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("wrong_password").Inc()
		logger.Warn("Login attempt with wrong password", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokenManager.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logger.Info("Back-office login", zap.Int64("user_id", user.ID))
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// Authenticate validates a bearer token and rejects logged out ones
func (s *AdminAuthService) Authenticate(token string) (*jwt.UserClaims, error) {
	claims, err := s.tokenManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if _, revoked := s.revoked.Get(claims.ID); revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Me returns the authenticated user
func (s *AdminAuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Logout revokes the token until its expiry
func (s *AdminAuthService) Logout(claims *jwt.UserClaims) {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	s.revoked.Set(claims.ID, struct{}{}, ttl)
	logger.Info("Back-office logout", zap.Int64("user_id", claims.UserID))
}

// HashPassword hashes a password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
