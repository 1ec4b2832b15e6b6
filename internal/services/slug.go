package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"minibadge/internal/domain"
	"minibadge/internal/metrics"
)

// DefaultSlugAttempts caps how many slugs are minted before giving up.
const DefaultSlugAttempts = 16

type slugGenerator struct {
	awardRepo   domain.AwardRepository
	maxAttempts int
	now         func() time.Time
}

// NewSlugGenerator returns a SlugGenerator that checks candidates against awardRepo.
// maxAttempts <= 0 uses DefaultSlugAttempts.
func NewSlugGenerator(awardRepo domain.AwardRepository, maxAttempts int) domain.SlugGenerator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultSlugAttempts
	}
	return &slugGenerator{awardRepo: awardRepo, maxAttempts: maxAttempts, now: time.Now}
}

func (g *slugGenerator) Attempts() int { return g.maxAttempts }

func (g *slugGenerator) Generate(ctx context.Context, email string) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		slug := mintSlug(g.now(), email, attempt)
		exists, err := g.awardRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("check award slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		metrics.SlugCollisions.Inc()
	}
	return "", domain.ErrDuplicateSlugExhausted
}

// mintSlug hashes the timestamp, email and attempt number and keeps the first
// AwardSlugLength characters of the URL-safe base64 digest.
func mintSlug(now time.Time, email string, attempt int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%s%d", now.UnixNano(), email, attempt)))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:domain.AwardSlugLength]
}
