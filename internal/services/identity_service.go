package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flaskinni/inni/internal/auth"
	"github.com/flaskinni/inni/internal/config"
	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password
	// alike, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	// ErrInvalidEmail rejects syntactically unusable registration
	// input; it is user error, not an authentication failure.
	ErrInvalidEmail = errors.New("invalid email address")
)

// TokenRevoker invalidates an issued token ahead of its expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type IdentityService struct {
	users   repositories.UserStore
	buzz    *BuzzService
	revoker TokenRevoker
	cfg     *config.Config
	log     *zap.Logger
}

func NewIdentityService(
	users repositories.UserStore,
	buzz *BuzzService,
	revoker TokenRevoker,
	cfg *config.Config,
	log *zap.Logger,
) *IdentityService {
	return &IdentityService{users: users, buzz: buzz, revoker: revoker, cfg: cfg, log: log}
}

// Bootstrap is the explicit idempotent startup routine: default roles
// always exist, and every configured starting admin holds the admin
// role. Safe to run on every boot.
func (s *IdentityService) Bootstrap(ctx context.Context) error {
	for _, r := range []struct{ name, description string }{
		{models.RoleAdmin, "full access, including the admin panel"},
		{models.RoleEndUser, "a registered member"},
	} {
		if _, _, err := s.users.GetOrCreateRole(ctx, r.name, r.description); err != nil {
			return fmt.Errorf("ensure role %s: %w", r.name, err)
		}
	}

	if len(s.cfg.StartingAdmins) == 0 {
		return nil
	}
	if s.cfg.StartingAdminPass == "" {
		s.log.Warn("skipping admin bootstrap: STARTING_ADMIN_PASS not set")
		return nil
	}

	for _, email := range s.cfg.StartingAdmins {
		u, err := s.users.FindByEmail(ctx, email)
		if errors.Is(err, repositories.ErrNotFound) {
			u, err = s.Register(ctx, email, s.cfg.StartingAdminPass, nil, nil)
		}
		if err != nil {
			return fmt.Errorf("bootstrap admin %s: %w", email, err)
		}
		if err := s.users.GrantRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("grant admin to %s: %w", email, err)
		}
	}

	s.buzz.Emit(ctx, models.Buzz{
		EventType: models.EventInfo,
		Title:     "admin bootstrap completed",
		Body:      fmt.Sprintf("%d starting admin(s) ensured", len(s.cfg.StartingAdmins)),
	})
	return nil
}

func (s *IdentityService) Register(ctx context.Context, email, password string, firstName, lastName *string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &models.User{
		Email:         email,
		PasswordHash:  hash,
		FirstName:     firstName,
		LastName:      lastName,
		Active:        true,
		PublicProfile: true,
	})
	if err != nil {
		return nil, err
	}

	// end-user is ensured at bootstrap; a missing role here is a
	// deployment fault worth surfacing in the log, not a failed signup.
	if err := s.users.GrantRole(ctx, u.ID, models.RoleEndUser); err != nil {
		s.log.Error("failed to grant end-user role", zap.String("user_id", u.ID.String()), zap.Error(err))
	}

	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &u.ID,
		EventType: models.EventUserSignup,
		Title:     "new user registered",
		Body:      u.Email + " joined",
	})
	return u, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !u.Active {
		return "", nil, ErrAccountDisabled
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, u.ID, u.Email, s.cfg.JWTExpiration)
	if err != nil {
		return "", nil, err
	}

	if err := s.users.TouchLastSeen(ctx, u.ID, time.Now().UTC()); err != nil {
		s.log.Warn("failed to touch last_seen", zap.Error(err))
	}

	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &u.ID,
		EventType: models.EventUserLogin,
		Title:     "user logged in",
		Body:      u.Email + " logged in",
	})
	return token, u, nil
}

// Logout revokes the presented token until it would expire anyway.
func (s *IdentityService) Logout(ctx context.Context, p rbac.Principal, jti string, expiresAt time.Time) error {
	if s.revoker != nil && jti != "" {
		if err := s.revoker.Revoke(ctx, jti, time.Until(expiresAt)); err != nil {
			return err
		}
	}
	if !p.IsAnonymous() {
		actorID := p.ID
		s.buzz.Emit(ctx, models.Buzz{
			ActorID:   &actorID,
			EventType: models.EventUserLogout,
			Title:     "user logged out",
			Body:      p.Email + " logged out",
		})
	}
	return nil
}

func (s *IdentityService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(oldPassword, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &u.ID,
		EventType: models.EventPasswordChanged,
		Title:     "password changed",
		Body:      u.Email + " changed their password",
	})
	return nil
}

// PrincipalFor resolves a user ID into the principal the checker
// consumes. Unknown or deactivated users resolve to anonymous.
func (s *IdentityService) PrincipalFor(ctx context.Context, userID uuid.UUID) (rbac.Principal, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return rbac.Anonymous(), err
	}
	if !u.Active {
		return rbac.Anonymous(), ErrAccountDisabled
	}
	roles, err := s.users.RolesOf(ctx, u.ID)
	if err != nil {
		return rbac.Anonymous(), err
	}
	return rbac.Authenticated(u.ID, u.Email, roles), nil
}

// GrantRole is the admin operation; the denial, like every denial, is
// recorded on the ledger.
func (s *IdentityService) GrantRole(ctx context.Context, actor rbac.Principal, userID uuid.UUID, roleName string) error {
	if !rbac.RequireAll(actor, models.RoleAdmin) {
		s.buzz.Denied(ctx, actor, "grant role "+roleName, rbac.Missing(actor, models.RoleAdmin))
		return rbac.ErrPermissionDenied
	}
	if err := s.users.GrantRole(ctx, userID, roleName); err != nil {
		return err
	}

	actorID := actor.ID
	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &actorID,
		EventType: models.EventInfo,
		Title:     "role granted",
		Body:      fmt.Sprintf("%s granted %s to %s", actor.Email, roleName, userID),
		Meta:      map[string]any{"role": roleName, "subject_user_id": userID.String()},
	})
	return nil
}

func (s *IdentityService) RevokeRole(ctx context.Context, actor rbac.Principal, userID uuid.UUID, roleName string) error {
	if !rbac.RequireAll(actor, models.RoleAdmin) {
		s.buzz.Denied(ctx, actor, "revoke role "+roleName, rbac.Missing(actor, models.RoleAdmin))
		return rbac.ErrPermissionDenied
	}
	if err := s.users.RevokeRole(ctx, userID, roleName); err != nil {
		return err
	}

	actorID := actor.ID
	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &actorID,
		EventType: models.EventInfo,
		Title:     "role revoked",
		Body:      fmt.Sprintf("%s revoked %s from %s", actor.Email, roleName, userID),
		Meta:      map[string]any{"role": roleName, "subject_user_id": userID.String()},
	})
	return nil
}

// SetActive enables or disables an account. Disabled accounts cannot
// authenticate and resolve to anonymous until re-enabled.
func (s *IdentityService) SetActive(ctx context.Context, actor rbac.Principal, userID uuid.UUID, active bool) error {
	if !rbac.RequireAll(actor, models.RoleAdmin) {
		s.buzz.Denied(ctx, actor, "set account active", rbac.Missing(actor, models.RoleAdmin))
		return rbac.ErrPermissionDenied
	}
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return err
	}

	verb := "deactivated"
	if active {
		verb = "reactivated"
	}
	actorID := actor.ID
	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &actorID,
		EventType: models.EventInfo,
		Title:     "account " + verb,
		Body:      fmt.Sprintf("%s %s account %s", actor.Email, verb, userID),
		Meta:      map[string]any{"subject_user_id": userID.String(), "active": active},
	})
	return nil
}

// TouchLastSeen exposes the throttled write for the auth middleware.
func (s *IdentityService) TouchLastSeen(ctx context.Context, userID uuid.UUID) {
	if err := s.users.TouchLastSeen(ctx, userID, time.Now().UTC()); err != nil {
		s.log.Warn("failed to touch last_seen", zap.Error(err))
	}
}
