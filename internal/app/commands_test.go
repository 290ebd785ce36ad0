package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai_feedback/internal/app"
	"ai_feedback/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	reviews   []domain.Review
	insertErr error
}

func (f *fakeRepo) InsertReview(ctx context.Context, rv domain.Review) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.reviews = append(f.reviews, rv)
	return nil
}

func (f *fakeRepo) UpdateFeedback(ctx context.Context, id, summary, recommendations string) error {
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			f.reviews[i].AISummary = summary
			f.reviews[i].AIRecommendations = recommendations
			f.reviews[i].FeedbackGenerated = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRepo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	for _, rv := range f.reviews {
		if rv.ID == id {
			return rv, nil
		}
	}
	return domain.Review{}, domain.ErrNotFound
}

func (f *fakeRepo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	out := make([]domain.Review, len(f.reviews))
	copy(out, f.reviews)
	return out, nil
}

func (f *fakeRepo) CountByRating(ctx context.Context) (map[int]int, error) {
	out := map[int]int{}
	for _, rv := range f.reviews {
		out[rv.Rating]++
	}
	return out, nil
}

func (f *fakeRepo) ListNeedingFeedback(ctx context.Context, limit int) ([]domain.Review, error) {
	var out []domain.Review
	for _, rv := range f.reviews {
		if !rv.FeedbackGenerated && len(out) < limit {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *fakeProvider) Name() string { return "fake" }

type fakeCache struct {
	dels []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	return false, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error { return nil }
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	return nil
}

// ---- tests ----

func TestSubmit_PersistsAndReturnsAcknowledgement(t *testing.T) {
	repo := &fakeRepo{}
	prov := &fakeProvider{reply: "Thanks for the kind words!"}
	cache := &fakeCache{}
	svc := app.NewSubmissionService(repo, app.NewEnricher(prov), cache)

	rv, ack, err := svc.Submit(context.Background(), 5, "Great service")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rv.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if rv.Text != "Great service" || rv.Rating != 5 {
		t.Fatalf("unexpected review: %+v", rv)
	}
	if ack != "Thanks for the kind words!" {
		t.Fatalf("unexpected ack: %q", ack)
	}
	if len(repo.reviews) != 1 {
		t.Fatalf("expected one persisted row, got %d", len(repo.reviews))
	}
	if !repo.reviews[0].FeedbackGenerated {
		t.Fatalf("expected feedback marked generated")
	}
	if rv.CreatedAt.IsZero() || rv.CreatedAt.After(time.Now().UTC()) {
		t.Fatalf("bad created_at: %v", rv.CreatedAt)
	}
	if len(cache.dels) == 0 {
		t.Fatalf("expected dashboard cache invalidation")
	}
}

func TestSubmit_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		rating int
		text   string
	}{
		{"empty text", 4, ""},
		{"whitespace text", 4, "   \n\t "},
		{"rating too low", 0, "fine"},
		{"rating too high", 6, "fine"},
		{"text too long", 3, strings.Repeat("a", domain.MaxReviewLength+1)},
		{"multibyte text too long", 3, strings.Repeat("é", domain.MaxReviewLength+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := app.NewSubmissionService(repo, app.NewEnricher(nil), nil)

			_, _, err := svc.Submit(context.Background(), tc.rating, tc.text)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(repo.reviews) != 0 {
				t.Fatalf("rejected submission must not persist a row")
			}
		})
	}
}

func TestSubmit_LengthLimitCountsCharacters(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewSubmissionService(repo, app.NewEnricher(nil), nil)

	// 3000 characters but 6000 bytes; must pass a character-based limit
	text := strings.Repeat("é", 3000)
	rv, _, err := svc.Submit(context.Background(), 4, text)
	if err != nil {
		t.Fatalf("multibyte review under the limit rejected: %v", err)
	}
	if rv.Text != text {
		t.Fatalf("text altered on the way in")
	}
}

func TestSubmit_TrimsText(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewSubmissionService(repo, app.NewEnricher(nil), nil)

	rv, _, err := svc.Submit(context.Background(), 3, "  decent meal  ")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rv.Text != "decent meal" {
		t.Fatalf("expected trimmed text, got %q", rv.Text)
	}
}

func TestSubmit_ProviderOutageStillPersists(t *testing.T) {
	repo := &fakeRepo{}
	prov := &fakeProvider{err: errors.New("quota exceeded")}
	svc := app.NewSubmissionService(repo, app.NewEnricher(prov), nil)

	rv, ack, err := svc.Submit(context.Background(), 2, "Cold food")
	if err != nil {
		t.Fatalf("submission must survive provider outage: %v", err)
	}
	if ack == "" {
		t.Fatalf("expected fallback acknowledgement")
	}
	if rv.AISummary != "2-star review" {
		t.Fatalf("expected fallback summary, got %q", rv.AISummary)
	}
	if rv.AIRecommendations == "" {
		t.Fatalf("expected fallback recommendations")
	}
	if rv.FeedbackGenerated {
		t.Fatalf("degraded enrichment must not be marked generated")
	}
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("db gone")}
	svc := app.NewSubmissionService(repo, app.NewEnricher(nil), nil)

	_, _, err := svc.Submit(context.Background(), 4, "fine")
	if err == nil || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestBackfill_UpdatesDegradedRows(t *testing.T) {
	repo := &fakeRepo{reviews: []domain.Review{
		{ID: "a", Rating: 1, Text: "bad", FeedbackGenerated: false},
		{ID: "b", Rating: 5, Text: "good", FeedbackGenerated: true},
	}}
	prov := &fakeProvider{reply: "regenerated"}
	cache := &fakeCache{}
	svc := app.NewBackfillService(repo, app.NewEnricher(prov), cache)

	pending, err := svc.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "a" {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	if err := svc.BackfillReview(context.Background(), pending[0]); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	got, _ := repo.GetReview(context.Background(), "a")
	if got.AISummary != "regenerated" || !got.FeedbackGenerated {
		t.Fatalf("row not updated: %+v", got)
	}
	if len(cache.dels) == 0 {
		t.Fatalf("expected cache invalidation after backfill")
	}
}
