package dto

import (
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// PublicProfile is the subset of a user visible to others.
type PublicProfile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	About       *string   `json:"about,omitempty"`
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewPublicProfile(u *models.User) PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		DisplayName: u.DisplayName(),
		About:       u.About,
		Image:       u.Image,
		CreatedAt:   u.CreatedAt,
	}
}

// BuzzEntry decorates a ledger row with its presentation hints.
type BuzzEntry struct {
	models.Buzz
	Icon string `json:"icon"`
	Link string `json:"link,omitempty"`
}

func NewBuzzEntry(b models.Buzz) BuzzEntry {
	return BuzzEntry{
		Buzz: b,
		Icon: models.Icon(b.EventType),
		Link: b.Link(),
	}
}

func NewBuzzEntries(entries []models.Buzz) []BuzzEntry {
	out := make([]BuzzEntry, 0, len(entries))
	for _, b := range entries {
		out = append(out, NewBuzzEntry(b))
	}
	return out
}
