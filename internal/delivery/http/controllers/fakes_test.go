package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"minibadge/internal/delivery/http/helpers"
	"minibadge/internal/delivery/http/middleware"
	"minibadge/internal/domain"
)

const testBaseURL = "https://badges.example.org"

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testBadge() *domain.Badge {
	creator := "user-1"
	return &domain.Badge{
		ID:        "badge-1",
		Title:     "Coder",
		Slug:      "coder",
		Image:     "badge/image_coder_1700000000_0042.png",
		CreatorID: &creator,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

// fakeBadgeService implements domain.BadgeService for handler tests.
type fakeBadgeService struct {
	badge      *domain.Badge
	badges     []*domain.Badge
	total      int
	award      *domain.Award
	awards     []*domain.Award
	err        error
	lastCaller *domain.Caller
	lastTitle  string
	lastDesc   string
	lastImage  *domain.ImageUpload
	lastUpdate domain.BadgeUpdate
	lastParams domain.PaginationParams
}

func (f *fakeBadgeService) Create(_ context.Context, caller *domain.Caller, title, description string, img *domain.ImageUpload) (*domain.Badge, error) {
	f.lastCaller, f.lastTitle, f.lastDesc, f.lastImage = caller, title, description, img
	return f.badge, f.err
}

func (f *fakeBadgeService) GetBySlug(_ context.Context, _ string) (*domain.Badge, error) {
	return f.badge, f.err
}

func (f *fakeBadgeService) List(_ context.Context, params domain.PaginationParams) ([]*domain.Badge, int, error) {
	f.lastParams = params
	return f.badges, f.total, f.err
}

func (f *fakeBadgeService) Update(_ context.Context, caller *domain.Caller, _ string, upd domain.BadgeUpdate) (*domain.Badge, error) {
	f.lastCaller, f.lastUpdate = caller, upd
	return f.badge, f.err
}

func (f *fakeBadgeService) GetAward(_ context.Context, _ string) (*domain.Award, error) {
	return f.award, f.err
}

func (f *fakeBadgeService) ListAwardsByEmail(_ context.Context, _ string) ([]*domain.Award, error) {
	return f.awards, f.err
}

// fakeAwardService implements domain.AwardService for handler tests.
type fakeAwardService struct {
	result     *domain.IssueResult
	err        error
	lastEmails []string
	lastBase   string
}

func (f *fakeAwardService) Issue(_ context.Context, _ *domain.Badge, emails []string) (*domain.IssueResult, error) {
	f.lastEmails = emails
	return f.result, f.err
}

func (f *fakeAwardService) AwardBadge(_ context.Context, _ *domain.Caller, _ string, emails []string, baseURL string) (*domain.IssueResult, error) {
	f.lastEmails, f.lastBase = emails, baseURL
	return f.result, f.err
}

// fakeAssertionService implements domain.AssertionService for handler tests.
type fakeAssertionService struct {
	assertion *domain.Assertion
	err       error
}

func (f *fakeAssertionService) BuildBadgeDescriptor(_ *domain.Badge, _ string) (*domain.BadgeDescriptor, error) {
	return nil, nil
}

func (f *fakeAssertionService) BuildAssertion(_ *domain.Award, _ string) (*domain.Assertion, error) {
	return f.assertion, f.err
}

func (f *fakeAssertionService) AssertionForSlug(_ context.Context, _, _ string) (*domain.Assertion, error) {
	return f.assertion, f.err
}

func (f *fakeAssertionService) ImageURL(src domain.ImageSource, baseURL string) (string, error) {
	if src.ImageRef() == "" {
		return "", domain.ErrMissingImage
	}
	return baseURL + "/uploads/" + src.ImageRef(), nil
}

func authed(req *http.Request, caller *domain.Caller) *http.Request {
	return req.WithContext(middleware.SetCaller(req.Context(), caller))
}

// decode reads the envelope and unmarshals data into dest when non-nil.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}
