package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minibadge/internal/domain"
)

func TestBadgeService_Create(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Caller{UserID: "user-1", Authenticated: true}

	tests := []struct {
		name     string
		caller   *domain.Caller
		title    string
		img      *domain.ImageUpload
		existing []*domain.Badge
		wantSlug string
		wantErr  error
	}{
		{name: "with image", caller: owner, title: "  Young Coder ", img: &domain.ImageUpload{Filename: "b.png", Data: []byte("png")}, wantSlug: "young-coder"},
		{name: "house badge from system context", caller: nil, title: "Coder", wantSlug: "coder"},
		{name: "empty title", caller: owner, title: "   ", wantErr: domain.ErrValidation},
		{name: "title without slug characters", caller: owner, title: "!!!", wantErr: domain.ErrValidation},
		{name: "accented title transliterated", caller: owner, title: "Café Crème", wantSlug: "cafe-creme"},
		{name: "non-latin title accepted", caller: owner, title: "日本語", wantSlug: Slugify("日本語")},
		{name: "anonymous caller", caller: &domain.Caller{}, title: "Coder", wantErr: domain.ErrForbidden},
		{name: "duplicate", caller: owner, title: "Coder", existing: []*domain.Badge{{ID: "b0", Title: "Coder", Slug: "coder"}}, wantErr: domain.ErrDuplicateBadge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := &fakeImageStore{}
			svc := NewBadgeService(newFakeBadgeRepo(tt.existing...), newFakeAwardRepo(), images, time.Second)
			badge, err := svc.Create(ctx, tt.caller, tt.title, "  About  ", tt.img)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, images.saved)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, badge.ID)
			assert.NotEmpty(t, badge.Slug)
			assert.Equal(t, tt.wantSlug, badge.Slug)
			assert.Equal(t, "About", badge.Description)
			if tt.caller != nil {
				require.NotNil(t, badge.CreatorID)
				assert.Equal(t, tt.caller.UserID, *badge.CreatorID)
			} else {
				assert.Nil(t, badge.CreatorID)
			}
			if tt.img != nil {
				assert.Equal(t, "badge/image_"+tt.wantSlug+".png", badge.Image)
			} else {
				assert.Empty(t, badge.Image)
			}
		})
	}
}

func TestBadgeService_Create_DiscardsImageWhenInsertFails(t *testing.T) {
	img := &domain.ImageUpload{Filename: "b.png", Data: []byte("png")}
	owner := &domain.Caller{UserID: "user-1", Authenticated: true}

	tests := []struct {
		name     string
		writeErr error
		want     error
	}{
		{name: "title raced by another request", writeErr: domain.ErrDuplicateBadge, want: domain.ErrDuplicateBadge},
		{name: "storage down", writeErr: domain.ErrStorageUnavailable, want: domain.ErrStorageUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeBadgeRepo()
			repo.writeErr = tt.writeErr
			images := &fakeImageStore{}
			svc := NewBadgeService(repo, newFakeAwardRepo(), images, time.Second)

			_, err := svc.Create(context.Background(), owner, "Coder", "", img)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, []string{"badge/image_coder.png"}, images.saved)
			assert.Equal(t, images.saved, images.deleted)
		})
	}
}

func TestBadgeService_Create_ReportsFailedCleanup(t *testing.T) {
	repo := newFakeBadgeRepo()
	repo.writeErr = domain.ErrStorageUnavailable
	cleanupErr := errors.New("permission denied")
	svc := NewBadgeService(repo, newFakeAwardRepo(), &fakeImageStore{deleteErr: cleanupErr}, time.Second)

	_, err := svc.Create(context.Background(), &domain.Caller{UserID: "u", Authenticated: true}, "Coder", "",
		&domain.ImageUpload{Filename: "b.png", Data: []byte("png")})
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	require.ErrorIs(t, err, cleanupErr)
}

func TestBadgeService_Update_DiscardsImageWhenWriteFails(t *testing.T) {
	badge := coderBadge()
	repo := newFakeBadgeRepo(badge)
	repo.writeErr = domain.ErrStorageUnavailable
	images := &fakeImageStore{}
	svc := NewBadgeService(repo, newFakeAwardRepo(), images, time.Second)

	_, err := svc.Update(context.Background(), nil, "coder", domain.BadgeUpdate{
		Image: &domain.ImageUpload{Filename: "new.png", Data: []byte("png")},
	})
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Equal(t, []string{"badge/image_coder.png"}, images.deleted)
}

func TestBadgeService_Update(t *testing.T) {
	ctx := context.Background()
	creator := "user-1"
	desc := "New description"

	tests := []struct {
		name    string
		caller  *domain.Caller
		wantErr error
	}{
		{name: "creator", caller: &domain.Caller{UserID: creator, Authenticated: true}},
		{name: "superuser", caller: &domain.Caller{UserID: "root", Authenticated: true, IsSuperuser: true}},
		{name: "someone else", caller: &domain.Caller{UserID: "user-2", Authenticated: true}, wantErr: domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badge := coderBadge()
			badge.CreatorID = &creator
			images := &fakeImageStore{}
			svc := NewBadgeService(newFakeBadgeRepo(badge), newFakeAwardRepo(), images, time.Second)
			got, err := svc.Update(ctx, tt.caller, "coder", domain.BadgeUpdate{
				Description: &desc,
				Image:       &domain.ImageUpload{Filename: "new.png", Data: []byte("png")},
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, images.saved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, desc, got.Description)
			assert.Equal(t, "badge/image_coder.png", got.Image)
			assert.Equal(t, "coder", got.Slug)
		})
	}
}

func TestBadgeService_Update_NotFound(t *testing.T) {
	svc := NewBadgeService(newFakeBadgeRepo(), newFakeAwardRepo(), &fakeImageStore{}, time.Second)
	_, err := svc.Update(context.Background(), nil, "missing", domain.BadgeUpdate{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBadgeService_List(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := newFakeBadgeRepo(
		&domain.Badge{ID: "1", Title: "A", Slug: "a", UpdatedAt: base},
		&domain.Badge{ID: "2", Title: "B", Slug: "b", UpdatedAt: base.Add(time.Hour)},
		&domain.Badge{ID: "3", Title: "C", Slug: "c", UpdatedAt: base.Add(2 * time.Hour)},
	)
	svc := NewBadgeService(repo, newFakeAwardRepo(), &fakeImageStore{}, time.Second)

	page, total, err := svc.List(context.Background(), domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Slug)
	assert.Equal(t, "b", page[1].Slug)

	page, _, err = svc.List(context.Background(), domain.PaginationParams{Page: 5, PageSize: 2})
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestBadgeService_Awards(t *testing.T) {
	ctx := context.Background()
	badge := coderBadge()
	awardRepo := newFakeAwardRepo()
	require.NoError(t, awardRepo.Create(ctx, domain.NewAward(badge, "a@x.com", "Ab3_x", time.Now())))
	svc := NewBadgeService(newFakeBadgeRepo(badge), awardRepo, &fakeImageStore{}, time.Second)

	award, err := svc.GetAward(ctx, "Ab3_x")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", award.Email)

	_, err = svc.GetAward(ctx, "zzzzz")
	require.ErrorIs(t, err, domain.ErrNotFound)

	awards, err := svc.ListAwardsByEmail(ctx, " A@X.com ")
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "Ab3_x", awards[0].Slug)

	awards, err = svc.ListAwardsByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.NotNil(t, awards)
	assert.Empty(t, awards)

	_, err = svc.ListAwardsByEmail(ctx, "not-an-email")
	require.ErrorIs(t, err, domain.ErrValidation)
}
