package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/flaskinni/inni/internal/auth"
	"github.com/flaskinni/inni/internal/config"
	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/flaskinni/inni/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRevocations struct {
	revoked map[string]bool
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func TestBuzzFeedAuthorize(t *testing.T) {
	ctx := context.Background()

	users := repositories.NewMemoryUserStore(time.Hour)
	buzz := services.NewBuzzService(repositories.NewMemoryBuzzStore(200), nil, zap.NewNop())
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiration: time.Hour}
	identity := services.NewIdentityService(users, buzz, nil, cfg, zap.NewNop())
	require.NoError(t, identity.Bootstrap(ctx))

	adminUser, err := identity.Register(ctx, "admin@y.com", "password-1", nil, nil)
	require.NoError(t, err)
	require.NoError(t, users.GrantRole(ctx, adminUser.ID, models.RoleAdmin))
	member, err := identity.Register(ctx, "member@y.com", "password-1", nil, nil)
	require.NoError(t, err)

	revocations := &fakeRevocations{revoked: map[string]bool{}}
	feed := NewBuzzFeed(cfg, identity, nil, revocations, zap.NewNop())

	adminToken, err := auth.GenerateJWT(cfg.JWTSecret, adminUser.ID, adminUser.Email, time.Hour)
	require.NoError(t, err)
	memberToken, err := auth.GenerateJWT(cfg.JWTSecret, member.ID, member.Email, time.Hour)
	require.NoError(t, err)

	assert.NoError(t, feed.authorize(ctx, adminToken))
	assert.Error(t, feed.authorize(ctx, memberToken), "the feed is admin-only")
	assert.Error(t, feed.authorize(ctx, ""))
	assert.Error(t, feed.authorize(ctx, "garbage"))

	// A logged-out admin token must stop working immediately, same as
	// on the HTTP path.
	claims, err := auth.ParseJWT(cfg.JWTSecret, adminToken)
	require.NoError(t, err)
	revocations.revoked[claims.ID] = true
	assert.Error(t, feed.authorize(ctx, adminToken))
}
