package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Buzz event types. The vocabulary is open; these are the ones the
// application itself emits.
const (
	EventUserSignup      = "user_signup"
	EventUserLogin       = "user_login"
	EventUserLogout      = "user_logout"
	EventPasswordChanged = "password_changed"
	EventPostCreated     = "post_created"
	EventPostUpdated     = "post_updated"
	EventPostDeleted     = "post_deleted"
	EventInfo            = "info"
	EventWarning         = "warning"
	EventError           = "error"
)

// Buzz is one entry in the append-only event ledger shown on the admin
// panel. Entries are never updated after creation; retention is handled
// by a separate batch process.
type Buzz struct {
	ID        uuid.UUID      `json:"id"`
	ActorID   *uuid.UUID     `json:"actor_id,omitempty"`
	PostID    *uuid.UUID     `json:"post_id,omitempty"`
	EventType string         `json:"event_type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

var buzzIcons = map[string]string{
	EventUserSignup:      "user-plus",
	EventUserLogin:       "log-in",
	EventUserLogout:      "log-out",
	EventPasswordChanged: "key",
	EventPostCreated:     "file-text",
	EventPostUpdated:     "edit",
	EventPostDeleted:     "trash-2",
	EventError:           "alert-triangle",
	EventWarning:         "alert-circle",
	EventInfo:            "info",
}

// Icon maps an event type to a presentation hint. Unknown types fall
// back to the generic bell.
func Icon(eventType string) string {
	if icon, ok := buzzIcons[eventType]; ok {
		return icon
	}
	return "bell"
}

// Link derives a navigable reference from the event's relations. The
// actor link wins when both an actor and a post are present.
func (b Buzz) Link() string {
	if b.ActorID != nil {
		return fmt.Sprintf("/users/%s", b.ActorID)
	}
	if b.PostID != nil {
		return fmt.Sprintf("/posts/%s", b.PostID)
	}
	return ""
}
