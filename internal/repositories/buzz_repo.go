package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const buzzColumns = `id, actor_id, post_id, event_type, title, body, meta, created_at`

type BuzzRepo struct {
	pool     *pgxpool.Pool
	maxLimit int
}

// NewBuzzRepo caps every query at maxLimit rows (default 200).
func NewBuzzRepo(pool *pgxpool.Pool, maxLimit int) *BuzzRepo {
	if maxLimit <= 0 {
		maxLimit = 200
	}
	return &BuzzRepo{pool: pool, maxLimit: maxLimit}
}

func (r *BuzzRepo) Record(ctx context.Context, b models.Buzz) (*models.Buzz, error) {
	stored, err := scanBuzz(r.pool.QueryRow(ctx, `
		INSERT INTO buzz (actor_id, post_id, event_type, title, body, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+buzzColumns+`
	`, b.ActorID, b.PostID, b.EventType, b.Title, b.Body, b.Meta))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return stored, nil
}

func (r *BuzzRepo) Recent(ctx context.Context, limit int) ([]models.Buzz, error) {
	return r.query(ctx, `
		SELECT `+buzzColumns+` FROM buzz ORDER BY created_at DESC LIMIT $1
	`, clampLimit(limit, 50, r.maxLimit))
}

func (r *BuzzRepo) ByType(ctx context.Context, eventType string, limit int) ([]models.Buzz, error) {
	return r.query(ctx, `
		SELECT `+buzzColumns+` FROM buzz WHERE event_type = $2
		ORDER BY created_at DESC LIMIT $1
	`, clampLimit(limit, 50, r.maxLimit), eventType)
}

func (r *BuzzRepo) ByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]models.Buzz, error) {
	return r.query(ctx, `
		SELECT `+buzzColumns+` FROM buzz WHERE actor_id = $2
		ORDER BY created_at DESC LIMIT $1
	`, clampLimit(limit, 50, r.maxLimit), actorID)
}

func (r *BuzzRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buzz WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *BuzzRepo) query(ctx context.Context, sql string, args ...any) ([]models.Buzz, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Buzz
	for rows.Next() {
		b, err := scanBuzz(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *b)
	}
	return entries, rows.Err()
}

func scanBuzz(row pgx.Row) (*models.Buzz, error) {
	var b models.Buzz
	err := row.Scan(&b.ID, &b.ActorID, &b.PostID, &b.EventType, &b.Title, &b.Body, &b.Meta, &b.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}
