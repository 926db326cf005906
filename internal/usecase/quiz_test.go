package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/resonancehq/archetype-api/internal/domain"
	"github.com/resonancehq/archetype-api/internal/scoring"
)

// --- mocks ---

type mockRepo struct {
	created domain.Record
	ttl     time.Duration
	records map[string]domain.Record
	merges  []map[string]any
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: map[string]domain.Record{}}
}

func (m *mockRepo) Create(ctx context.Context, record domain.Record, ttl time.Duration) error {
	m.created = record
	m.ttl = ttl
	m.records[record.ID] = record
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (domain.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return domain.Record{}, domain.NotFoundError{Resource: "record"}
	}
	return rec, nil
}

func (m *mockRepo) Merge(ctx context.Context, id string, patch map[string]any) (domain.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return domain.Record{}, domain.NotFoundError{Resource: "record"}
	}
	m.merges = append(m.merges, patch)
	if v, ok := patch["name"].(string); ok {
		rec.Name = v
	}
	if v, ok := patch["title"].(string); ok {
		rec.Title = v
	}
	if v, ok := patch["company"].(string); ok {
		rec.Company = v
	}
	if v, ok := patch["imageUrl"].(string); ok {
		rec.ImageURL = v
	}
	if v, ok := patch["cardUrl"].(string); ok {
		rec.CardURL = v
	}
	if v, ok := patch["enriched"].(bool); ok {
		rec.Enriched = v
	}
	m.records[id] = rec
	return rec, nil
}

type mockEnricher struct {
	profile *domain.Profile
	err     error
	calls   int
}

func (m *mockEnricher) Enrich(ctx context.Context, profileURL string) (*domain.Profile, error) {
	m.calls++
	return m.profile, m.err
}

type passthroughAssets struct{}

func (passthroughAssets) EnsureFresh(ctx context.Context, record domain.Record) (domain.Record, error) {
	return record, nil
}

type mockProber struct{ reachable bool }

func (m mockProber) Reachable(ctx context.Context, url string) bool { return m.reachable }

type mockBlob struct {
	url string
	err error
}

func (m mockBlob) PersistCopy(ctx context.Context, sourceURL string) (string, error) {
	return m.url, m.err
}

func newUsecase(repo *mockRepo, enricher *mockEnricher, blob mockBlob, prober mockProber) *QuizUsecase {
	engine := scoring.New(rand.New(rand.NewSource(1)))
	return NewQuizUsecase(repo, engine, enricher, passthroughAssets{}, prober, blob, nil, nil)
}

// --- tests ---

func glueSubmission() domain.QuizSubmission {
	return domain.QuizSubmission{
		Role:  "manager",
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Answers: []domain.Answer{
			{QuestionID: "q2", OptionID: "unblock-others"},
			{QuestionID: "q3", OptionID: "call-a-huddle"},
			{QuestionID: "q4", OptionID: "pairing"},
			{QuestionID: "q5", OptionID: "team-unstuck"},
			{QuestionID: "q6", OptionID: "handoffs"},
		},
	}
}

func TestSubmitWithoutProfileURL(t *testing.T) {
	repo := newMockRepo()
	enricher := &mockEnricher{}
	uc := newUsecase(repo, enricher, mockBlob{}, mockProber{})

	id, err := uc.Submit(context.Background(), glueSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a record id")
	}
	if enricher.calls != 0 {
		t.Fatalf("enrichment must not run without a profile url")
	}
	if repo.created.ArchetypeID != domain.ArchetypeGlue {
		t.Fatalf("archetype = %q, want %q", repo.created.ArchetypeID, domain.ArchetypeGlue)
	}
	if repo.created.Enriched {
		t.Fatalf("record must not be enriched")
	}
	if len(repo.created.Phrases) != 3 {
		t.Fatalf("expected 3 frozen phrases, got %d", len(repo.created.Phrases))
	}
	if repo.ttl != RecordTTL {
		t.Fatalf("ttl = %v, want %v", repo.ttl, RecordTTL)
	}

	got, err := uc.GetRecord(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Enriched {
		t.Fatalf("read-back record must not be enriched")
	}
}

func TestSubmitWithMatchOverwritesIdentity(t *testing.T) {
	repo := newMockRepo()
	enricher := &mockEnricher{profile: &domain.Profile{
		FirstName:  "Janet",
		LastName:   "Doerr",
		Company:    "Initech",
		Title:      "Staff Engineer",
		ImageURL:   "https://cdn.example.com/janet.jpg",
		ProfileURL: "example.com/in/janet",
	}}
	uc := newUsecase(repo, enricher, mockBlob{url: "https://blobs.example.com/abc.jpg"}, mockProber{})

	sub := glueSubmission()
	sub.ProfileURL = "https://www.example.com/in/janet/"

	if _, err := uc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec := repo.created
	if !rec.Enriched {
		t.Fatalf("expected enriched record")
	}
	if rec.Name != "Janet Doerr" || rec.Company != "Initech" || rec.Title != "Staff Engineer" {
		t.Fatalf("identity fields not overwritten: %+v", rec)
	}
	if rec.ImageURL != "https://blobs.example.com/abc.jpg" {
		t.Fatalf("primary asset should be the persisted copy, got %q", rec.ImageURL)
	}
	if rec.SourceImage != "https://cdn.example.com/janet.jpg" {
		t.Fatalf("secondary source not recorded, got %q", rec.SourceImage)
	}
}

func TestSubmitEnrichmentUnavailableStillSucceeds(t *testing.T) {
	repo := newMockRepo()
	enricher := &mockEnricher{profile: nil}
	uc := newUsecase(repo, enricher, mockBlob{}, mockProber{})

	sub := glueSubmission()
	sub.ProfileURL = "example.com/in/jane"

	id, err := uc.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id == "" || repo.created.Enriched {
		t.Fatalf("expected unenriched record, got %+v", repo.created)
	}
}

func TestSubmitUnreachableAssetClearsEnriched(t *testing.T) {
	repo := newMockRepo()
	enricher := &mockEnricher{profile: &domain.Profile{
		FirstName: "Janet",
		ImageURL:  "https://cdn.example.com/gone.jpg",
	}}
	uc := newUsecase(repo, enricher, mockBlob{err: errors.New("upload failed")}, mockProber{reachable: false})

	sub := glueSubmission()
	sub.ProfileURL = "example.com/in/janet"

	if _, err := uc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if repo.created.Enriched {
		t.Fatalf("unconfirmable asset must not yield an enriched record")
	}
	if repo.created.ImageURL != "" {
		t.Fatalf("primary asset should be empty, got %q", repo.created.ImageURL)
	}
	if repo.created.Name != "Janet" {
		t.Fatalf("identity fields should still be applied")
	}
}

func TestSubmitValidation(t *testing.T) {
	uc := newUsecase(newMockRepo(), &mockEnricher{}, mockBlob{}, mockProber{})

	sub := glueSubmission()
	sub.Email = "not-an-email"
	if _, err := uc.Submit(context.Background(), sub); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}

	sub = glueSubmission()
	sub.Name = "  "
	if _, err := uc.Submit(context.Background(), sub); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}

	sub = glueSubmission()
	sub.Role = "astronaut"
	if _, err := uc.Submit(context.Background(), sub); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTriggerEnrichmentIdempotentOnNoMatch(t *testing.T) {
	repo := newMockRepo()
	enricher := &mockEnricher{}
	uc := newUsecase(repo, enricher, mockBlob{}, mockProber{})

	id, err := uc.Submit(context.Background(), glueSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec, err := uc.TriggerEnrichment(context.Background(), id, "example.com/in/jane")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if rec.Enriched {
		t.Fatalf("no match must leave the record unenriched")
	}
	if len(repo.merges) != 0 {
		t.Fatalf("no match must not write anything, got %v", repo.merges)
	}

	// Safe to call again.
	if _, err := uc.TriggerEnrichment(context.Background(), id, "example.com/in/jane"); err != nil {
		t.Fatalf("second trigger: %v", err)
	}
}

func TestTriggerEnrichmentMergesMatch(t *testing.T) {
	repo := newMockRepo()
	enricher := &mockEnricher{}
	uc := newUsecase(repo, enricher, mockBlob{url: "https://blobs.example.com/x.jpg"}, mockProber{})

	id, err := uc.Submit(context.Background(), glueSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	enricher.profile = &domain.Profile{FirstName: "Janet", Company: "Initech", ImageURL: "https://cdn.example.com/j.jpg"}
	rec, err := uc.TriggerEnrichment(context.Background(), id, "example.com/in/janet")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if !rec.Enriched || rec.Name != "Janet" || rec.Company != "Initech" {
		t.Fatalf("match not merged: %+v", rec)
	}
}

func TestTriggerEnrichmentUnknownRecord(t *testing.T) {
	uc := newUsecase(newMockRepo(), &mockEnricher{}, mockBlob{}, mockProber{})

	_, err := uc.TriggerEnrichment(context.Background(), "missing", "example.com/in/x")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCaptureCardAsset(t *testing.T) {
	repo := newMockRepo()
	uc := newUsecase(repo, &mockEnricher{}, mockBlob{}, mockProber{})

	id, err := uc.Submit(context.Background(), glueSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec, err := uc.CaptureCardAsset(context.Background(), id, "https://cards.example.com/1.png")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if rec.CardURL != "https://cards.example.com/1.png" {
		t.Fatalf("card url not captured: %+v", rec)
	}
	if len(repo.merges) != 1 || len(repo.merges[0]) != 1 {
		t.Fatalf("capture must patch exactly one field, got %v", repo.merges)
	}
}
