package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
)

// MemoryBuzzStore is the in-memory ledger used by tests. FailWrites
// simulates a store outage so callers can verify that audit failures
// stay decoupled from business outcomes.
type MemoryBuzzStore struct {
	mu         sync.RWMutex
	entries    []models.Buzz
	maxLimit   int
	FailWrites bool
}

func NewMemoryBuzzStore(maxLimit int) *MemoryBuzzStore {
	if maxLimit <= 0 {
		maxLimit = 200
	}
	return &MemoryBuzzStore{maxLimit: maxLimit}
}

func (s *MemoryBuzzStore) Record(_ context.Context, b models.Buzz) (*models.Buzz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return nil, ErrUnavailable
	}

	b.ID = uuid.New()
	b.CreatedAt = time.Now().UTC()
	s.entries = append(s.entries, b)

	stored := b
	return &stored, nil
}

func (s *MemoryBuzzStore) Recent(_ context.Context, limit int) ([]models.Buzz, error) {
	return s.filter(limit, func(models.Buzz) bool { return true })
}

func (s *MemoryBuzzStore) ByType(_ context.Context, eventType string, limit int) ([]models.Buzz, error) {
	return s.filter(limit, func(b models.Buzz) bool { return b.EventType == eventType })
}

func (s *MemoryBuzzStore) ByActor(_ context.Context, actorID uuid.UUID, limit int) ([]models.Buzz, error) {
	return s.filter(limit, func(b models.Buzz) bool {
		return b.ActorID != nil && *b.ActorID == actorID
	})
}

func (s *MemoryBuzzStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var purged int64
	for _, b := range s.entries {
		if b.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, b)
	}
	s.entries = kept
	return purged, nil
}

// filter walks entries newest first and returns copies, so callers can
// never mutate the stored ledger.
func (s *MemoryBuzzStore) filter(limit int, match func(models.Buzz) bool) ([]models.Buzz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = clampLimit(limit, 50, s.maxLimit)
	var out []models.Buzz
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if match(s.entries[i]) {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}
