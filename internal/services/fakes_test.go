package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"minibadge/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeBadgeRepo is an in-memory BadgeRepository for tests.
type fakeBadgeRepo struct {
	bySlug   map[string]*domain.Badge
	nextID   int
	err      error
	writeErr error // fails Create and Update only
	// lookupDeadlines records whether each GetBySlug ran under a deadline.
	lookupDeadlines []bool
}

func newFakeBadgeRepo(badges ...*domain.Badge) *fakeBadgeRepo {
	f := &fakeBadgeRepo{bySlug: make(map[string]*domain.Badge), nextID: 1}
	for _, b := range badges {
		f.bySlug[b.Slug] = b
	}
	return f
}

func (f *fakeBadgeRepo) Create(ctx context.Context, b *domain.Badge) error {
	if f.err != nil {
		return f.err
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	for _, existing := range f.bySlug {
		if existing.Title == b.Title || existing.Slug == b.Slug {
			return domain.ErrDuplicateBadge
		}
	}
	b.ID = fmt.Sprintf("badge-%d", f.nextID)
	f.nextID++
	f.bySlug[b.Slug] = b
	return nil
}

func (f *fakeBadgeRepo) GetBySlug(ctx context.Context, slug string) (*domain.Badge, error) {
	_, hasDeadline := ctx.Deadline()
	f.lookupDeadlines = append(f.lookupDeadlines, hasDeadline)
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.bySlug[slug]; ok {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBadgeRepo) GetByID(ctx context.Context, id string) (*domain.Badge, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bySlug {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBadgeRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Badge, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []*domain.Badge
	for _, b := range f.bySlug {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	total := len(out)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (f *fakeBadgeRepo) Update(ctx context.Context, b *domain.Badge) error {
	if f.err != nil {
		return f.err
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, ok := f.bySlug[b.Slug]; !ok {
		return domain.ErrNotFound
	}
	f.bySlug[b.Slug] = b
	return nil
}

// fakeAwardRepo is an in-memory AwardRepository enforcing the same unique keys as the schema.
type fakeAwardRepo struct {
	mu     sync.Mutex
	awards []*domain.Award
	nextID int

	// takenSlugs are reported as existing without a stored award.
	takenSlugs map[string]bool
	// collideChecks makes the first N SlugExists calls report a collision.
	collideChecks int
	slugChecks    int

	// createErrs are returned by successive Create calls before normal behaviour resumes.
	createErrs []error
	// failCreateAfter fails every Create after this many successes when > 0.
	failCreateAfter int
	created         int

	listErr  error
	existErr error
	// staleList makes ListByBadgeAndEmails miss stored awards, as a concurrent
	// request committing between our read and our insert would.
	staleList bool
}

func newFakeAwardRepo() *fakeAwardRepo {
	return &fakeAwardRepo{nextID: 1, takenSlugs: map[string]bool{}}
}

func (f *fakeAwardRepo) Create(ctx context.Context, a *domain.Award) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if f.failCreateAfter > 0 && f.created >= f.failCreateAfter {
		return fmt.Errorf("%w: connection reset", domain.ErrStorageUnavailable)
	}
	for _, existing := range f.awards {
		if existing.Slug == a.Slug {
			return domain.ErrDuplicateSlug
		}
		if existing.BadgeID == a.BadgeID && existing.Email == a.Email {
			return domain.ErrDuplicateAward
		}
	}
	a.ID = fmt.Sprintf("award-%d", f.nextID)
	f.nextID++
	f.created++
	stored := *a
	f.awards = append(f.awards, &stored)
	return nil
}

func (f *fakeAwardRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existErr != nil {
		return false, f.existErr
	}
	f.slugChecks++
	if f.slugChecks <= f.collideChecks {
		return true, nil
	}
	if f.takenSlugs[slug] {
		return true, nil
	}
	for _, a := range f.awards {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAwardRepo) GetBySlug(ctx context.Context, slug string) (*domain.Award, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.awards {
		if a.Slug == slug {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAwardRepo) GetByBadgeAndEmail(ctx context.Context, badgeID, email string) (*domain.Award, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.awards {
		if a.BadgeID == badgeID && a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAwardRepo) ListByBadgeAndEmails(ctx context.Context, badgeID string, emails []string) ([]*domain.Award, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.staleList {
		return nil, nil
	}
	want := make(map[string]bool, len(emails))
	for _, e := range emails {
		want[e] = true
	}
	var out []*domain.Award
	for _, a := range f.awards {
		if a.BadgeID == badgeID && want[a.Email] {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeAwardRepo) ListByEmail(ctx context.Context, email string) ([]*domain.Award, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Award
	for _, a := range f.awards {
		if a.Email == email {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeAwardRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.awards)
}

// fakeImageStore records saved and deleted images.
type fakeImageStore struct {
	saved     []string
	deleted   []string
	err       error
	deleteErr error
}

func (f *fakeImageStore) Delete(ctx context.Context, ref string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeImageStore) Save(ctx context.Context, badgeSlug string, img *domain.ImageUpload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	ref := "badge/image_" + badgeSlug + ".png"
	f.saved = append(f.saved, ref)
	return ref, nil
}

// fakeMailer records sent messages and fails for addresses in failFor.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []string
	bodies  []string
	failFor map[string]bool
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[to] {
		return fmt.Errorf("smtp: mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	m.bodies = append(m.bodies, text)
	return nil
}

// fakeRenderer renders a fixed subject and echoes the award URL in the bodies.
type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	if r.err != nil {
		return "", "", "", r.err
	}
	d := data.(*domain.AwardEmailData)
	return "You've achieved a badge!", "<a href=\"" + d.AwardURL + "\">" + d.BadgeTitle + "</a>", d.AwardURL + " " + d.ClaimURL, nil
}

// recordingNotifier captures NotifyAwarded calls.
type recordingNotifier struct {
	calls [][]string
}

func (n *recordingNotifier) NotifyAwarded(ctx context.Context, badge *domain.Badge, awards []*domain.Award, newlyAwarded []string, baseURL string) {
	n.calls = append(n.calls, append([]string(nil), newlyAwarded...))
}
