package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, address, about, image,
	active, public_profile, created_at, last_seen`

type UserRepo struct {
	pool             *pgxpool.Pool
	lastSeenInterval time.Duration
}

func NewUserRepo(pool *pgxpool.Pool, lastSeenInterval time.Duration) *UserRepo {
	if lastSeenInterval <= 0 {
		lastSeenInterval = time.Hour
	}
	return &UserRepo{pool: pool, lastSeenInterval: lastSeenInterval}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Address, &u.About, &u.Image, &u.Active, &u.PublicProfile, &u.CreatedAt, &u.LastSeen,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)
	`, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	created, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, phone, address, about, image, active, public_profile)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+userColumns+`
	`, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Address, u.About, u.Image, u.Active, u.PublicProfile))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			phone = COALESCE($4, phone),
			address = COALESCE($5, address),
			about = COALESCE($6, about),
			image = COALESCE($7, image),
			public_profile = COALESCE($8, public_profile)
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, upd.FirstName, upd.LastName, upd.Phone, upd.Address, upd.About, upd.Image, upd.PublicProfile))
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	limit = clampLimit(limit, 50, 200)
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// TouchLastSeen is called on every authenticated request; the WHERE
// clause keeps it from writing more than once per interval. Racing
// requests from the same user may occasionally both write, which is
// harmless.
func (r *UserRepo) TouchLastSeen(ctx context.Context, id uuid.UUID, now time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET last_seen = $2
		WHERE id = $1 AND (last_seen IS NULL OR last_seen < $3)
	`, id, now, now.Add(-r.lastSeenInterval))
	return err
}

func (r *UserRepo) GetOrCreateRole(ctx context.Context, name, description string) (*models.Role, bool, error) {
	var role models.Role
	err := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, description
	`, name, description).Scan(&role.ID, &role.Name, &role.Description)
	if err == nil {
		return &role, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	// Lost the race or the role predates us; either way the row exists.
	existing, err := r.GetRole(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *UserRepo) GetRole(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description FROM roles WHERE name = $1
	`, name).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &role, nil
}

func (r *UserRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *UserRepo) GrantRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	role, err := r.GetRole(ctx, roleName)
	if errors.Is(err, ErrNotFound) {
		return ErrRoleNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO roles_users (user_id, role_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, role.ID)
	return err
}

func (r *UserRepo) RevokeRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM roles_users
		WHERE user_id = $1 AND role_id = (SELECT id FROM roles WHERE name = $2)
	`, userID, roleName)
	return err
}

func (r *UserRepo) RolesOf(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.name FROM roles r
		JOIN roles_users ru ON ru.role_id = r.id
		WHERE ru.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
