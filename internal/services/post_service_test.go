package services

import (
	"context"
	"testing"

	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/rbac"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPosts(t *testing.T) (*PostService, *repositories.MemoryBuzzStore) {
	t.Helper()
	buzzStore := repositories.NewMemoryBuzzStore(200)
	buzz := NewBuzzService(buzzStore, nil, zap.NewNop())
	return NewPostService(repositories.NewMemoryPostStore(), buzz, zap.NewNop()), buzzStore
}

func author() rbac.Principal {
	return rbac.Authenticated(uuid.New(), "author@y.com", []string{models.RoleEndUser})
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	svc, buzzStore := newTestPosts(t)
	p := author()

	post, err := svc.Create(ctx, p, PostInput{Title: "Hello, World!", Body: "<p>body</p>"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)

	// Same title gets a suffixed slug.
	second, err := svc.Create(ctx, p, PostInput{Title: "Hello, World!", Body: "<p>again</p>"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", second.Slug)

	created, err := buzzStore.ByType(ctx, models.EventPostCreated, 10)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, p.ID, *created[0].ActorID)
	assert.NotNil(t, created[0].PostID)
}

func TestCreatePostAnonymousDenied(t *testing.T) {
	ctx := context.Background()
	svc, buzzStore := newTestPosts(t)

	_, err := svc.Create(ctx, rbac.Anonymous(), PostInput{Title: "nope", Body: "nope"})
	assert.ErrorIs(t, err, rbac.ErrPermissionDenied)

	warnings, err := buzzStore.ByType(ctx, models.EventWarning, 10)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Nil(t, warnings[0].ActorID, "anonymous denials carry no actor")
}

func TestUpdatePostAuthorOrAdminOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPosts(t)
	owner := author()

	post, err := svc.Create(ctx, owner, PostInput{Title: "Mine", Body: "b"})
	require.NoError(t, err)

	stranger := rbac.Authenticated(uuid.New(), "other@y.com", []string{models.RoleEndUser})
	_, err = svc.Update(ctx, stranger, post.ID, PostInput{Title: "Stolen"})
	assert.ErrorIs(t, err, rbac.ErrPermissionDenied)

	admin := rbac.Authenticated(uuid.New(), "admin@y.com", []string{models.RoleAdmin})
	updated, err := svc.Update(ctx, admin, post.ID, PostInput{Status: models.PostStatusPublished})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, updated.Status)
	assert.NotNil(t, updated.PublishedAt)

	updated, err = svc.Update(ctx, owner, post.ID, PostInput{Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestDeletePostRecordsDetails(t *testing.T) {
	ctx := context.Background()
	svc, buzzStore := newTestPosts(t)
	owner := author()

	post, err := svc.Create(ctx, owner, PostInput{Title: "Doomed", Body: "b"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner, post.ID))

	_, err = svc.GetBySlug(ctx, owner, post.Slug)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	deleted, err := buzzStore.ByType(ctx, models.EventPostDeleted, 10)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Nil(t, deleted[0].PostID, "deleted rows are referenced via meta, not a dangling FK")
	assert.Equal(t, post.Slug, deleted[0].Meta["slug"])
}

func TestListAndVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPosts(t)
	owner := author()

	_, err := svc.Create(ctx, owner, PostInput{Title: "Draft Post", Body: "<p>draft</p>"})
	require.NoError(t, err)
	published, err := svc.Create(ctx, owner, PostInput{
		Title:  "Published Post",
		Body:   "<p>Some <strong>rich</strong> text body</p>",
		Status: models.PostStatusPublished,
	})
	require.NoError(t, err)

	// Anonymous readers see only published posts, with excerpts.
	list, err := svc.List(ctx, rbac.Anonymous(), "", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, published.ID, list[0].ID)
	assert.Equal(t, "Some rich text body", list[0].Excerpt)

	// A status filter from a non-admin is forced back to published.
	list, err = svc.List(ctx, rbac.Anonymous(), models.PostStatusDraft, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	admin := rbac.Authenticated(uuid.New(), "admin@y.com", []string{models.RoleAdmin})
	list, err = svc.List(ctx, admin, models.PostStatusDraft, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Draft Post", list[0].Title)

	// Draft lookups by slug 404 for strangers, resolve for the author.
	_, err = svc.GetBySlug(ctx, rbac.Anonymous(), "draft-post")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = svc.GetBySlug(ctx, owner, "draft-post")
	assert.NoError(t, err)
}
