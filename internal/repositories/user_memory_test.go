package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(email string) *models.User {
	return &models.User{Email: email, Active: true, PublicProfile: true}
}

func TestCreateDuplicateIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(time.Hour)

	first, err := store.Create(ctx, newTestUser("x@y.com"))
	require.NoError(t, err)

	_, err = store.Create(ctx, newTestUser("x@y.com"))
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	// Email matching is case-insensitive, for lookups and uniqueness.
	_, err = store.Create(ctx, newTestUser("X@Y.COM"))
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	found, err := store.FindByEmail(ctx, "X@y.Com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestGetOrCreateRoleConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(time.Hour)

	const callers = 32
	var wg sync.WaitGroup
	results := make([]*models.Role, callers)
	createdFlags := make([]bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			role, created, err := store.GetOrCreateRole(ctx, "admin", "site administrator")
			require.NoError(t, err)
			results[i] = role
			createdFlags[i] = created
		}(i)
	}
	wg.Wait()

	var createdCount int
	for i := 0; i < callers; i++ {
		if createdFlags[i] {
			createdCount++
		}
		assert.Equal(t, results[0].ID, results[i].ID, "all callers must observe the same role row")
	}
	assert.Equal(t, 1, createdCount, "exactly one caller creates the role")

	roles, err := store.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestGrantRevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(time.Hour)

	u, err := store.Create(ctx, newTestUser("a@x.com"))
	require.NoError(t, err)
	_, _, err = store.GetOrCreateRole(ctx, "admin", "")
	require.NoError(t, err)

	// Granting a role that was never created is a caller error.
	assert.ErrorIs(t, store.GrantRole(ctx, u.ID, "editor"), ErrRoleNotFound)

	require.NoError(t, store.GrantRole(ctx, u.ID, "admin"))
	require.NoError(t, store.GrantRole(ctx, u.ID, "admin"))

	roles, err := store.RolesOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles, "double grant keeps set semantics")

	// Revoke returns the membership to its pre-grant state; revoking
	// again, or revoking an unknown role, is a no-op.
	require.NoError(t, store.RevokeRole(ctx, u.ID, "admin"))
	require.NoError(t, store.RevokeRole(ctx, u.ID, "admin"))
	require.NoError(t, store.RevokeRole(ctx, u.ID, "never-created"))

	roles, err = store.RolesOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestTouchLastSeenThrottle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(time.Hour)

	u, err := store.Create(ctx, newTestUser("a@x.com"))
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.TouchLastSeen(ctx, u.ID, base))
	got, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSeen)
	assert.Equal(t, base, *got.LastSeen, "first touch always writes")

	// Within the interval: no write.
	require.NoError(t, store.TouchLastSeen(ctx, u.ID, base.Add(30*time.Minute)))
	got, err = store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, base, *got.LastSeen)

	// Exactly the interval is still within it; the write needs more.
	require.NoError(t, store.TouchLastSeen(ctx, u.ID, base.Add(time.Hour)))
	got, err = store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, base, *got.LastSeen)

	// Past the interval: the write happens.
	later := base.Add(2 * time.Hour)
	require.NoError(t, store.TouchLastSeen(ctx, u.ID, later))
	got, err = store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, later, *got.LastSeen)
}

func TestAdminBootstrapScenario(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore(time.Hour)

	a, err := store.Create(ctx, newTestUser("a@x.com"))
	require.NoError(t, err)
	b, err := store.Create(ctx, newTestUser("b@x.com"))
	require.NoError(t, err)

	_, created, err := store.GetOrCreateRole(ctx, "admin", "site administrator")
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, store.GrantRole(ctx, a.ID, "admin"))
	require.NoError(t, store.GrantRole(ctx, b.ID, "admin"))

	for _, email := range []string{"a@x.com", "b@x.com"} {
		found, err := store.FindByEmail(ctx, email)
		require.NoError(t, err)
		roles, err := store.RolesOf(ctx, found.ID)
		require.NoError(t, err)

		p := rbac.Authenticated(found.ID, found.Email, roles)
		assert.True(t, rbac.RequireAll(p, "admin"))
		assert.True(t, rbac.AcceptAny(p, "editor", "admin"))
	}
}
