package domain

import (
	"context"
	"time"
)

// ImageSource is implemented by anything that can point at a badge image.
// ImageRef returns the image path relative to the uploads base URL, or "" if there is none.
type ImageSource interface {
	ImageRef() string
}

// Badge is a definable achievement.
// swagger:model Badge
type Badge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatorID   *string   `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBadge returns a new Badge. ID is set by the repository on create.
func NewBadge(title, slug, description string, creatorID *string, createdAt, updatedAt time.Time) *Badge {
	return &Badge{
		Title:       title,
		Slug:        slug,
		Description: description,
		CreatorID:   creatorID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func (b *Badge) ImageRef() string { return b.Image }

// BadgeRepository defines storage for badges.
type BadgeRepository interface {
	Create(ctx context.Context, badge *Badge) error
	GetBySlug(ctx context.Context, slug string) (*Badge, error)
	GetByID(ctx context.Context, id string) (*Badge, error)
	// List returns badges ordered by updated_at DESC and the total count.
	List(ctx context.Context, params PaginationParams) ([]*Badge, int, error)
	Update(ctx context.Context, badge *Badge) error
}

// BadgeUpdate carries the mutable fields of a badge. Nil fields are left unchanged.
type BadgeUpdate struct {
	Description *string
	Image       *ImageUpload
}

// ImageUpload is an uploaded badge image.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ImageStore persists badge images and returns their path relative to the uploads base.
type ImageStore interface {
	Save(ctx context.Context, badgeSlug string, img *ImageUpload) (ref string, err error)
	// Delete removes a stored image. A missing image is not an error.
	Delete(ctx context.Context, ref string) error
}

// BadgeService defines badge management and the public award views.
type BadgeService interface {
	Create(ctx context.Context, caller *Caller, title, description string, img *ImageUpload) (*Badge, error)
	GetBySlug(ctx context.Context, slug string) (*Badge, error)
	List(ctx context.Context, params PaginationParams) ([]*Badge, int, error)
	Update(ctx context.Context, caller *Caller, slug string, upd BadgeUpdate) (*Badge, error)
	GetAward(ctx context.Context, slug string) (*Award, error)
	ListAwardsByEmail(ctx context.Context, email string) ([]*Award, error)
}
