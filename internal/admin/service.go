// Package admin authenticates the single operator account configured
// through the environment and guards the admin API with short-lived JWTs.
package admin

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"storefront_backend/platform/apperr"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
)

const adminSubject = "admin"

// Service issues and verifies admin tokens.
type Service struct {
	cfg config.AdminConfig
	log *logger.Logger
}

// NewService creates the admin auth service.
func NewService(cfg config.AdminConfig, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

// Login validates the operator credentials and returns a signed token.
func (s *Service) Login(email, password string) (string, error) {
	if s.cfg.GetAdminEmail() == "" || s.cfg.GetAdminPasswordHash() == "" {
		return "", apperr.Unauthorized("admin account is not configured")
	}
	if email != s.cfg.GetAdminEmail() {
		// Burn a bcrypt comparison anyway so a wrong email costs the same
		// as a wrong password.
		_ = bcrypt.CompareHashAndPassword([]byte(s.cfg.GetAdminPasswordHash()), []byte(password))
		return "", apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.GetAdminPasswordHash()), []byte(password)); err != nil {
		return "", apperr.Unauthorized("invalid credentials")
	}

	ttl := s.cfg.GetAdminTokenTTL()
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	claims := jwt.MapClaims{
		"sub": adminSubject,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.GetJWTSecret()))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}
	return signed, nil
}

// Verify checks a bearer token and returns an error when it is not a
// valid, unexpired admin token.
func (s *Service) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method")
		}
		return []byte(s.cfg.GetJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return apperr.Unauthorized("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperr.Unauthorized("invalid token claims")
	}
	if sub, _ := claims["sub"].(string); sub != adminSubject {
		return apperr.Unauthorized("invalid token subject")
	}
	return nil
}
