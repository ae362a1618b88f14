package service

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lms-insight-api/pkg/errors"
)

// AuthConfig configures service-token issuance.
type AuthConfig struct {
	Secret     string
	ServiceKey string
	TokenTTL   time.Duration
	Issuer     string
}

// AuthService issues and validates service tokens. This API is consumed by
// other backend services, not end users, so a shared service key exchanged
// for a short-lived HS256 bearer token is all that is needed.
type AuthService struct {
	config AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "lms-insight-api"
	}
	return &AuthService{config: config, logger: logger}
}

// IssueToken exchanges the shared service key for a bearer token.
func (s *AuthService) IssueToken(serviceKey, subject string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(serviceKey), []byte(s.config.ServiceKey)) != 1 {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrUnauthorized, "invalid service key")
	}
	if subject == "" {
		subject = "service"
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.config.TokenTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("service token issued", zap.String("subject", subject))
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
