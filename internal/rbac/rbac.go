package rbac

import (
	"errors"

	"github.com/google/uuid"
)

// ErrPermissionDenied is returned by operation gates when the acting
// principal's roles do not satisfy the declared requirement.
var ErrPermissionDenied = errors.New("permission denied")

// RoleSet is a set of role names.
type RoleSet map[string]struct{}

func NewRoleSet(names ...string) RoleSet {
	s := make(RoleSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s RoleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	return names
}

// Principal is the acting identity a request resolved to. An anonymous
// principal carries an empty role set, so call sites run the same
// checks without special-casing unauthenticated requests.
type Principal struct {
	ID            uuid.UUID
	Email         string
	Roles         RoleSet
	authenticated bool
}

func Anonymous() Principal {
	return Principal{Roles: RoleSet{}}
}

func Authenticated(id uuid.UUID, email string, roles []string) Principal {
	return Principal{
		ID:            id,
		Email:         email,
		Roles:         NewRoleSet(roles...),
		authenticated: true,
	}
}

func (p Principal) IsAnonymous() bool {
	return !p.authenticated
}

// RequireAll reports whether the principal holds every required role.
// An empty requirement is vacuously satisfied.
func RequireAll(p Principal, required ...string) bool {
	for _, r := range required {
		if !p.Roles.Has(r) {
			return false
		}
	}
	return true
}

// AcceptAny reports whether the principal holds at least one of the
// required roles. An empty requirement is never satisfied.
func AcceptAny(p Principal, required ...string) bool {
	for _, r := range required {
		if p.Roles.Has(r) {
			return true
		}
	}
	return false
}

// Missing returns the required roles the principal does not hold. Used
// for audit entries on denial, never in user-facing responses.
func Missing(p Principal, required ...string) []string {
	var missing []string
	for _, r := range required {
		if !p.Roles.Has(r) {
			missing = append(missing, r)
		}
	}
	return missing
}
