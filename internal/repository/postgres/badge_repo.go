package postgres

import (
	"context"
	"database/sql"

	"minibadge/internal/domain"
)

const badgeColumns = `id, title, slug, description, image, creator_id, created_at, updated_at`

type badgeRepository struct {
	DB *sql.DB
}

// NewBadgeRepository returns a domain.BadgeRepository implemented with Postgres.
func NewBadgeRepository(db *sql.DB) domain.BadgeRepository {
	return &badgeRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBadge(row rowScanner) (*domain.Badge, error) {
	b := &domain.Badge{}
	var creator sql.NullString
	if err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Description, &b.Image, &creator, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if creator.Valid {
		b.CreatorID = &creator.String
	}
	return b, nil
}

func (r *badgeRepository) Create(ctx context.Context, b *domain.Badge) error {
	query := `
		INSERT INTO badges (title, slug, description, image, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, b.Title, b.Slug, b.Description, b.Image, b.CreatorID, b.CreatedAt, b.UpdatedAt).
		Scan(&b.ID)
	return storageError(err, domain.ErrDuplicateBadge)
}

func (r *badgeRepository) GetBySlug(ctx context.Context, slug string) (*domain.Badge, error) {
	query := `SELECT ` + badgeColumns + ` FROM badges WHERE slug = $1`
	b, err := scanBadge(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, storageError(err, nil)
	}
	return b, nil
}

func (r *badgeRepository) GetByID(ctx context.Context, id string) (*domain.Badge, error) {
	query := `SELECT ` + badgeColumns + ` FROM badges WHERE id = $1`
	b, err := scanBadge(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storageError(err, nil)
	}
	return b, nil
}

func (r *badgeRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Badge, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM badges`).Scan(&total); err != nil {
		return nil, 0, storageError(err, nil)
	}

	query := `
		SELECT ` + badgeColumns + `
		FROM badges
		ORDER BY updated_at DESC, id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, storageError(err, nil)
	}
	defer rows.Close()

	badges := []*domain.Badge{}
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, 0, storageError(err, nil)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageError(err, nil)
	}
	return badges, total, nil
}

// Update writes the mutable fields of b. Title and slug never change.
func (r *badgeRepository) Update(ctx context.Context, b *domain.Badge) error {
	query := `
		UPDATE badges
		SET description = $1, image = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, b.Description, b.Image, b.UpdatedAt, b.ID)
	if err != nil {
		return storageError(err, nil)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storageError(err, nil)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
