package repositories

import (
	"context"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, user_id, title, subtitle, body, image, slug, status, created_at, updated_at, published_at`

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Subtitle, &p.Body, &p.Image, &p.Slug,
		&p.Status, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *PostRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `
		INSERT INTO posts (user_id, title, subtitle, body, image, slug, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+postColumns+`
	`, p.UserID, p.Title, p.Subtitle, p.Body, p.Image, p.Slug, p.Status, p.PublishedAt))
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `
		SELECT `+postColumns+` FROM posts WHERE id = $1
	`, id))
}

func (r *PostRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `
		SELECT `+postColumns+` FROM posts WHERE slug = $1
	`, slug))
}

func (r *PostRepo) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `
		UPDATE posts SET
			title = $2, subtitle = $3, body = $4, image = $5, status = $6,
			published_at = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+postColumns+`
	`, p.ID, p.Title, p.Subtitle, p.Body, p.Image, p.Status, p.PublishedAt))
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepo) List(ctx context.Context, status string, limit, offset int) ([]models.Post, error) {
	limit = clampLimit(limit, 20, 100)

	sql := `SELECT ` + postColumns + ` FROM posts`
	args := []any{limit, offset}
	if status != "" {
		sql += ` WHERE status = $3`
		args = append(args, status)
	}
	sql += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *PostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}
