package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
)

type MemoryPostStore struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]models.Post
}

func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{posts: make(map[uuid.UUID]models.Post)}
}

func (s *MemoryPostStore) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *p
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now().UTC()
	s.posts[stored.ID] = stored
	return &stored, nil
}

func (s *MemoryPostStore) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryPostStore) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryPostStore) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[p.ID]
	if !ok {
		return nil, ErrNotFound
	}
	existing.Title = p.Title
	existing.Subtitle = p.Subtitle
	existing.Body = p.Body
	existing.Image = p.Image
	existing.Status = p.Status
	existing.PublishedAt = p.PublishedAt
	now := time.Now().UTC()
	existing.UpdatedAt = &now
	s.posts[p.ID] = existing
	return &existing, nil
}

func (s *MemoryPostStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryPostStore) List(_ context.Context, status string, limit, offset int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = clampLimit(limit, 20, 100)
	var all []models.Post
	for _, p := range s.posts {
		if status == "" || p.Status == status {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *MemoryPostStore) SlugExists(_ context.Context, slug string) (bool, error) {
	_, err := s.GetBySlug(context.Background(), slug)
	if err == nil {
		return true, nil
	}
	return false, nil
}
