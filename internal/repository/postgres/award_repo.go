package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"minibadge/internal/domain"
)

type awardRepository struct {
	DB *sql.DB
}

// NewAwardRepository returns a domain.AwardRepository implemented with Postgres.
func NewAwardRepository(db *sql.DB) domain.AwardRepository {
	return &awardRepository{DB: db}
}

func (r *awardRepository) Create(ctx context.Context, a *domain.Award) error {
	query := `
		INSERT INTO awards (badge_id, email, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, a.BadgeID, a.Email, a.Slug, a.CreatedAt, a.UpdatedAt).
		Scan(&a.ID)
	return storageError(err, domain.ErrDuplicateAward)
}

func (r *awardRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM awards WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, storageError(err, nil)
	}
	return exists, nil
}

func (r *awardRepository) GetBySlug(ctx context.Context, slug string) (*domain.Award, error) {
	query := `
		SELECT a.id, a.badge_id, a.email, a.slug, a.created_at, a.updated_at,
		       b.id, b.title, b.slug, b.description, b.image, b.creator_id, b.created_at, b.updated_at
		FROM awards a
		JOIN badges b ON b.id = a.badge_id
		WHERE a.slug = $1
	`
	a, err := scanAwardWithBadge(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, storageError(err, nil)
	}
	return a, nil
}

func (r *awardRepository) GetByBadgeAndEmail(ctx context.Context, badgeID, email string) (*domain.Award, error) {
	query := `
		SELECT id, badge_id, email, slug, created_at, updated_at
		FROM awards
		WHERE badge_id = $1 AND email = $2
	`
	a := &domain.Award{}
	err := r.DB.QueryRowContext(ctx, query, badgeID, email).
		Scan(&a.ID, &a.BadgeID, &a.Email, &a.Slug, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, storageError(err, nil)
	}
	return a, nil
}

func (r *awardRepository) ListByBadgeAndEmails(ctx context.Context, badgeID string, emails []string) ([]*domain.Award, error) {
	if len(emails) == 0 {
		return []*domain.Award{}, nil
	}
	query := `
		SELECT id, badge_id, email, slug, created_at, updated_at
		FROM awards
		WHERE badge_id = $1 AND email = ANY($2)
		ORDER BY created_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query, badgeID, pq.Array(emails))
	if err != nil {
		return nil, storageError(err, nil)
	}
	defer rows.Close()

	awards := []*domain.Award{}
	for rows.Next() {
		a := &domain.Award{}
		if err := rows.Scan(&a.ID, &a.BadgeID, &a.Email, &a.Slug, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, storageError(err, nil)
		}
		awards = append(awards, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, nil)
	}
	return awards, nil
}

func (r *awardRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Award, error) {
	query := `
		SELECT a.id, a.badge_id, a.email, a.slug, a.created_at, a.updated_at,
		       b.id, b.title, b.slug, b.description, b.image, b.creator_id, b.created_at, b.updated_at
		FROM awards a
		JOIN badges b ON b.id = a.badge_id
		WHERE a.email = $1
		ORDER BY a.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, storageError(err, nil)
	}
	defer rows.Close()

	awards := []*domain.Award{}
	for rows.Next() {
		a, err := scanAwardWithBadge(rows)
		if err != nil {
			return nil, storageError(err, nil)
		}
		awards = append(awards, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, nil)
	}
	return awards, nil
}

func scanAwardWithBadge(row rowScanner) (*domain.Award, error) {
	a := &domain.Award{Badge: &domain.Badge{}}
	b := a.Badge
	var creator sql.NullString
	err := row.Scan(
		&a.ID, &a.BadgeID, &a.Email, &a.Slug, &a.CreatedAt, &a.UpdatedAt,
		&b.ID, &b.Title, &b.Slug, &b.Description, &b.Image, &creator, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if creator.Valid {
		b.CreatorID = &creator.String
	}
	return a, nil
}
