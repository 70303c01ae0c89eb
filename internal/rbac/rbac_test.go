package rbac

import (
	"testing"

	"github.com/google/uuid"
)

func TestRequireAll(t *testing.T) {
	admin := Authenticated(uuid.New(), "a@example.com", []string{"admin", "end-user"})
	user := Authenticated(uuid.New(), "b@example.com", []string{"end-user"})
	anon := Anonymous()

	tests := []struct {
		name     string
		p        Principal
		required []string
		expected bool
	}{
		{"holds all", admin, []string{"admin", "end-user"}, true},
		{"holds one of two", user, []string{"admin", "end-user"}, false},
		{"holds single", user, []string{"end-user"}, true},
		{"missing single", user, []string{"admin"}, false},

		// Empty requirement is vacuously satisfied, even anonymously.
		{"empty requirement", user, nil, true},
		{"empty requirement anonymous", anon, nil, true},

		// Anonymous principals hold no roles.
		{"anonymous denied", anon, []string{"end-user"}, false},
	}

	for _, tt := range tests {
		if got := RequireAll(tt.p, tt.required...); got != tt.expected {
			t.Errorf("%s: RequireAll = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestAcceptAny(t *testing.T) {
	user := Authenticated(uuid.New(), "b@example.com", []string{"end-user"})
	anon := Anonymous()

	tests := []struct {
		name     string
		p        Principal
		required []string
		expected bool
	}{
		{"holds one of two", user, []string{"admin", "end-user"}, true},
		{"holds none", user, []string{"admin", "editor"}, false},

		// Asymmetry with RequireAll: the empty requirement satisfies
		// nothing for "any".
		{"empty requirement", user, nil, false},
		{"empty requirement anonymous", anon, nil, false},

		{"anonymous denied", anon, []string{"end-user", "admin"}, false},
	}

	for _, tt := range tests {
		if got := AcceptAny(tt.p, tt.required...); got != tt.expected {
			t.Errorf("%s: AcceptAny = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestMissing(t *testing.T) {
	user := Authenticated(uuid.New(), "b@example.com", []string{"end-user"})

	missing := Missing(user, "admin", "end-user", "editor")
	if len(missing) != 2 || missing[0] != "admin" || missing[1] != "editor" {
		t.Errorf("Missing = %v, want [admin editor]", missing)
	}
	if got := Missing(user, "end-user"); got != nil {
		t.Errorf("Missing = %v, want nil", got)
	}
}

func TestAnonymousIsAnonymous(t *testing.T) {
	if !Anonymous().IsAnonymous() {
		t.Error("Anonymous().IsAnonymous() = false")
	}
	if Authenticated(uuid.New(), "a@example.com", nil).IsAnonymous() {
		t.Error("Authenticated(...).IsAnonymous() = true")
	}
}
