package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestIcon(t *testing.T) {
	tests := []struct {
		eventType string
		expected  string
	}{
		{EventUserSignup, "user-plus"},
		{EventUserLogin, "log-in"},
		{EventUserLogout, "log-out"},
		{EventPasswordChanged, "key"},
		{EventPostCreated, "file-text"},
		{EventPostUpdated, "edit"},
		{EventPostDeleted, "trash-2"},
		{EventError, "alert-triangle"},
		{EventWarning, "alert-circle"},
		{EventInfo, "info"},

		// Unknown types fall back to the bell
		{"something_else", "bell"},
		{"", "bell"},
	}

	for _, tt := range tests {
		if got := Icon(tt.eventType); got != tt.expected {
			t.Errorf("Icon(%q) = %q, want %q", tt.eventType, got, tt.expected)
		}
	}
}

func TestBuzzLink(t *testing.T) {
	actor := uuid.New()
	post := uuid.New()

	tests := []struct {
		name     string
		buzz     Buzz
		expected string
	}{
		{"actor only", Buzz{ActorID: &actor}, "/users/" + actor.String()},
		{"post only", Buzz{PostID: &post}, "/posts/" + post.String()},
		{"actor wins over post", Buzz{ActorID: &actor, PostID: &post}, "/users/" + actor.String()},
		{"neither", Buzz{}, ""},
	}

	for _, tt := range tests {
		if got := tt.buzz.Link(); got != tt.expected {
			t.Errorf("%s: Link() = %q, want %q", tt.name, got, tt.expected)
		}
	}
}
