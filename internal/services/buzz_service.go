package services

import (
	"context"
	"strings"

	"github.com/flaskinni/inni/internal/events"
	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuzzService fronts the append-only event ledger. Writes that fail
// are reported on the process log, never propagated into the outcome
// of the operation that triggered them: an audit outage must not brick
// a login.
type BuzzService struct {
	store     repositories.BuzzStore
	publisher events.Publisher
	log       *zap.Logger
}

// NewBuzzService accepts a nil publisher; the live feed is optional.
func NewBuzzService(store repositories.BuzzStore, publisher events.Publisher, log *zap.Logger) *BuzzService {
	return &BuzzService{store: store, publisher: publisher, log: log}
}

// Record appends an entry and returns it. Callers that must not fail
// on an audit outage use Emit instead.
func (s *BuzzService) Record(ctx context.Context, b models.Buzz) (*models.Buzz, error) {
	stored, err := s.store.Record(ctx, b)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		payload := map[string]any{
			"id":         stored.ID.String(),
			"event_type": stored.EventType,
			"title":      stored.Title,
			"icon":       models.Icon(stored.EventType),
			"link":       stored.Link(),
			"created_at": stored.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, events.StreamBuzz, events.Event{Type: stored.EventType, Payload: payload}); err != nil {
			s.log.Warn("buzz publish failed", zap.Error(err))
		}
	}
	return stored, nil
}

// Emit is the best-effort form of Record: a failed write lands on the
// fallback log channel and the caller proceeds.
func (s *BuzzService) Emit(ctx context.Context, b models.Buzz) {
	if _, err := s.Record(ctx, b); err != nil {
		s.log.Error("buzz write failed",
			zap.String("event_type", b.EventType),
			zap.String("title", b.Title),
			zap.Error(err),
		)
	}
}

// Denied records the warning entry for a rejected operation: who tried
// what, and which roles were missing. The user-facing response stays
// generic; only the ledger names roles.
func (s *BuzzService) Denied(ctx context.Context, p rbac.Principal, operation string, missing []string) {
	b := models.Buzz{
		EventType: models.EventWarning,
		Title:     "permission denied: " + operation,
		Meta: map[string]any{
			"operation":     operation,
			"missing_roles": strings.Join(missing, ","),
		},
	}
	if !p.IsAnonymous() {
		actorID := p.ID
		b.ActorID = &actorID
		b.Body = p.Email + " attempted " + operation
	} else {
		b.Body = "anonymous principal attempted " + operation
	}
	s.Emit(ctx, b)
}

func (s *BuzzService) Recent(ctx context.Context, limit int) ([]models.Buzz, error) {
	return s.store.Recent(ctx, limit)
}

func (s *BuzzService) ByType(ctx context.Context, eventType string, limit int) ([]models.Buzz, error) {
	return s.store.ByType(ctx, eventType, limit)
}

func (s *BuzzService) ByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]models.Buzz, error) {
	return s.store.ByActor(ctx, actorID, limit)
}
