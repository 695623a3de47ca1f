package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/SscSPs/studio_ops_app/internal/utils"
)

// authService signs admin tokens. The studio has a single admin whose
// username and bcrypt hash come from configuration.
type authService struct {
	BaseService
	cfg *config.Config
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, opts ...Option) portssvc.AuthSvcFacade {
	return &authService{
		BaseService: newBaseService(opts),
		cfg:         cfg,
	}
}

// Login checks the credentials and returns a signed access token.
func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if s.cfg.AdminPasswordHash == "" {
		s.GetLogger(ctx).Warn("Login attempted but ADMIN_PASSWORD_HASH is not configured")
		return "", time.Time{}, apperrors.ErrUnauthorized
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := utils.CheckPasswordHash(password, s.cfg.AdminPasswordHash)
	if !userOK || !passOK {
		s.LogDebug(ctx, "Rejected login", slog.String("username", username))
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	expiresAt := s.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(s.cfg.AdminUsername, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	s.LogInfo(ctx, "Admin logged in", slog.String("username", username))
	return token, expiresAt, nil
}
