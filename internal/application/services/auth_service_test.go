package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/clock"
	"github.com/forgeplanner/core/internal/infrastructure/config"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
)

func TestAuthService_IssueAndValidate(t *testing.T) {
	clk := clock.NewFake(time.Now())
	cfg := config.JWTConfig{Secret: "s3cret", ExpiresIn: time.Hour, Issuer: "forge-planner"}
	svc := NewAuthService(cfg, clk, logger.NewNop())
	require.True(t, svc.Enabled())

	token, err := svc.IssueToken("cli")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cli", claims.Subject)
	assert.Equal(t, "forge-planner", claims.Issuer)

	clk.Advance(2 * time.Hour)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, entities.ErrInvalidToken)
}

func TestAuthService_RejectsForeignTokens(t *testing.T) {
	clk := clock.NewFake(time.Now())
	mine := NewAuthService(config.JWTConfig{Secret: "a", ExpiresIn: time.Hour, Issuer: "forge-planner"}, clk, logger.NewNop())
	theirs := NewAuthService(config.JWTConfig{Secret: "b", ExpiresIn: time.Hour, Issuer: "forge-planner"}, clk, logger.NewNop())

	token, err := theirs.IssueToken("x")
	require.NoError(t, err)
	_, err = mine.ValidateToken(token)
	assert.ErrorIs(t, err, entities.ErrInvalidToken)

	_, err = mine.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, entities.ErrInvalidToken)
}

func TestAuthService_Disabled(t *testing.T) {
	svc := NewAuthService(config.JWTConfig{}, clock.Real{}, logger.NewNop())
	assert.False(t, svc.Enabled())
	_, err := svc.IssueToken("x")
	assert.Error(t, err)
}
