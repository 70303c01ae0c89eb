package repositories

import (
	"context"
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
)

// ProfileUpdate carries the mutable, authorization-neutral profile
// fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	Phone         *string
	Address       *string
	About         *string
	Image         *string
	PublicProfile *bool
}

// UserStore persists principals and their role memberships. Postgres
// and in-memory implementations below.
type UserStore interface {
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// Create fails with ErrDuplicateIdentity when the email is taken.
	Create(ctx context.Context, u *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	// TouchLastSeen writes only when last_seen is unset or older than
	// the throttle interval.
	TouchLastSeen(ctx context.Context, id uuid.UUID, now time.Time) error

	// GetOrCreateRole never produces a duplicate row under concurrent
	// calls with the same name.
	GetOrCreateRole(ctx context.Context, name, description string) (*models.Role, bool, error)
	GetRole(ctx context.Context, name string) (*models.Role, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	// GrantRole is idempotent; it fails with ErrRoleNotFound when the
	// role does not exist.
	GrantRole(ctx context.Context, userID uuid.UUID, roleName string) error
	// RevokeRole is idempotent; revoking an unheld or unknown role is a
	// no-op.
	RevokeRole(ctx context.Context, userID uuid.UUID, roleName string) error
	RolesOf(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// BuzzStore is the append-only event ledger. Entries are immutable
// after Record; there is no update operation.
type BuzzStore interface {
	Record(ctx context.Context, b models.Buzz) (*models.Buzz, error)
	Recent(ctx context.Context, limit int) ([]models.Buzz, error)
	ByType(ctx context.Context, eventType string, limit int) ([]models.Buzz, error)
	ByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]models.Buzz, error)
	// PurgeOlderThan applies the retention policy; run by a batch
	// process, never by request-scoped code.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PostStore persists blog posts.
type PostStore interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// clampLimit bounds page sizes so no query can return an unbounded
// result set.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
