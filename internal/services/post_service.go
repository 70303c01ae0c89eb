package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/flaskinni/inni/internal/excerpt"
	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PostInput struct {
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle,omitempty"`
	Body     string  `json:"body"`
	Image    *string `json:"image,omitempty"`
	Status   string  `json:"status,omitempty"`
}

// PostSummary is a post decorated with the plain-text excerpt used on
// list views.
type PostSummary struct {
	models.Post
	Excerpt string `json:"excerpt"`
}

type PostService struct {
	posts repositories.PostStore
	buzz  *BuzzService
	log   *zap.Logger
}

func NewPostService(posts repositories.PostStore, buzz *BuzzService, log *zap.Logger) *PostService {
	return &PostService{posts: posts, buzz: buzz, log: log}
}

func (s *PostService) Create(ctx context.Context, actor rbac.Principal, in PostInput) (*models.Post, error) {
	required := []string{models.RoleEndUser, models.RoleAdmin}
	if !rbac.AcceptAny(actor, required...) {
		s.buzz.Denied(ctx, actor, "create post", rbac.Missing(actor, required...))
		return nil, rbac.ErrPermissionDenied
	}

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return nil, fmt.Errorf("title and body are required")
	}
	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !models.IsValidPostStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	slug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   actor.ID,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Body:     in.Body,
		Image:    in.Image,
		Slug:     slug,
		Status:   status,
	}
	if status == models.PostStatusPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &actorID,
		PostID:    &created.ID,
		EventType: models.EventPostCreated,
		Title:     "post created",
		Body:      fmt.Sprintf("%s created %q", actor.Email, created.Title),
		Meta:      map[string]any{"slug": created.Slug, "status": created.Status},
	})
	return created, nil
}

func (s *PostService) Update(ctx context.Context, actor rbac.Principal, id uuid.UUID, in PostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canMutate(actor, post) {
		s.buzz.Denied(ctx, actor, "update post "+post.Slug, rbac.Missing(actor, models.RoleAdmin))
		return nil, rbac.ErrPermissionDenied
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Subtitle != nil {
		post.Subtitle = in.Subtitle
	}
	if in.Body != "" {
		post.Body = in.Body
	}
	if in.Image != nil {
		post.Image = in.Image
	}
	if in.Status != "" {
		if !models.IsValidPostStatus(in.Status) {
			return nil, fmt.Errorf("invalid status %q", in.Status)
		}
		if in.Status == models.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Status = in.Status
	}

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &actorID,
		PostID:    &updated.ID,
		EventType: models.EventPostUpdated,
		Title:     "post updated",
		Body:      fmt.Sprintf("%s updated %q", actor.Email, updated.Title),
		Meta:      map[string]any{"slug": updated.Slug, "status": updated.Status},
	})
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, actor rbac.Principal, id uuid.UUID) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.canMutate(actor, post) {
		s.buzz.Denied(ctx, actor, "delete post "+post.Slug, rbac.Missing(actor, models.RoleAdmin))
		return rbac.ErrPermissionDenied
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	// The row is gone, so the event keeps the identifying details in
	// meta instead of a dangling reference.
	actorID := actor.ID
	s.buzz.Emit(ctx, models.Buzz{
		ActorID:   &actorID,
		EventType: models.EventPostDeleted,
		Title:     "post deleted",
		Body:      fmt.Sprintf("%s deleted %q", actor.Email, post.Title),
		Meta:      map[string]any{"slug": post.Slug, "post_id": post.ID.String()},
	})
	return nil
}

// GetBySlug returns drafts and archived posts only to their author or
// an admin; published posts are public.
func (s *PostService) GetBySlug(ctx context.Context, actor rbac.Principal, slug string) (*models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished && !s.canMutate(actor, post) {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

// List returns published posts with excerpts. Admins may filter by any
// status.
func (s *PostService) List(ctx context.Context, actor rbac.Principal, status string, limit, offset int) ([]PostSummary, error) {
	if status == "" || !rbac.RequireAll(actor, models.RoleAdmin) {
		status = models.PostStatusPublished
	}
	posts, err := s.posts.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	summaries := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, PostSummary{
			Post:    p,
			Excerpt: excerpt.FromHTML(p.Body, excerpt.DefaultLength),
		})
	}
	return summaries, nil
}

func (s *PostService) canMutate(actor rbac.Principal, post *models.Post) bool {
	if actor.IsAnonymous() {
		return false
	}
	return post.UserID == actor.ID || rbac.RequireAll(actor, models.RoleAdmin)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "post"
	}
	return slug
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	slug := base
	for i := 1; ; i++ {
		exists, err := s.posts.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
