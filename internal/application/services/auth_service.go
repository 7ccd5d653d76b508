package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/config"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// tokenClaims represents the JWT claims
type tokenClaims struct {
	jwt.RegisteredClaims
}

// AuthService issues and validates HS256 API tokens signed with the configured secret.
type AuthService struct {
	jwtConfig config.JWTConfig
	clock     ports.Clock
	logger    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(jwtConfig config.JWTConfig, clock ports.Clock, logger *logger.Logger) *AuthService {
	return &AuthService{
		jwtConfig: jwtConfig,
		clock:     clock,
		logger:    logger.WithComponent("auth_service"),
	}
}

// Enabled reports whether a secret is configured.
func (s *AuthService) Enabled() bool {
	return s.jwtConfig.AuthEnabled()
}

// IssueToken signs a token for subject.
func (s *AuthService) IssueToken(subject string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("cannot issue token: jwt secret is not configured")
	}

	now := s.clock.Now()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Infow("Token issued", "subject", subject, "expires_in", s.jwtConfig.ExpiresIn.String())
	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	},
		jwt.WithIssuer(s.jwtConfig.Issuer),
		jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, entities.ErrInvalidToken
	}

	return &ports.Claims{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}, nil
}
