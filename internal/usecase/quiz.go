package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resonancehq/archetype-api/internal/domain"
	"github.com/resonancehq/archetype-api/internal/scoring"
)

// RecordTTL bounds every record's life in the store. It is set once at
// creation and preserved across merges.
const RecordTTL = 30 * 24 * time.Hour

// QuizUsecase composes scoring, the record store, enrichment and asset
// lifecycle for the submit and read flows.
type QuizUsecase struct {
	repo     RecordRepository
	engine   *scoring.Engine
	enricher EnrichmentGateway
	assets   AssetManager
	prober   Prober
	blob     BlobStorage
	audit    SubmissionLog
	notifier Notifier
}

func NewQuizUsecase(
	repo RecordRepository,
	engine *scoring.Engine,
	enricher EnrichmentGateway,
	assets AssetManager,
	prober Prober,
	blob BlobStorage,
	audit SubmissionLog,
	notifier Notifier,
) *QuizUsecase {
	return &QuizUsecase{
		repo:     repo,
		engine:   engine,
		enricher: enricher,
		assets:   assets,
		prober:   prober,
		blob:     blob,
		audit:    audit,
		notifier: notifier,
	}
}

// Submit scores a submission, optionally enriches it, and creates the
// record. Enrichment is best effort: every failure below the store
// degrades to an unenriched record, and the submission still succeeds.
func (uc *QuizUsecase) Submit(ctx context.Context, sub domain.QuizSubmission) (string, error) {
	if err := validate(sub); err != nil {
		return "", err
	}

	archetypeID := uc.engine.Score(sub.Answers)

	record := domain.Record{
		ID:           uuid.NewString(),
		Name:         sub.Name,
		Company:      sub.Company,
		Email:        sub.Email,
		ProfileURL:   sub.ProfileURL,
		DemoInterest: sub.DemoInterest,
		ArchetypeID:  archetypeID,
		Phrases:      uc.engine.SamplePhrases(archetypeID),
		SourceImage:  sub.SourceImage,
		CreatedAt:    time.Now().UTC(),
	}

	if sub.ProfileURL != "" {
		profile, err := uc.enricher.Enrich(ctx, sub.ProfileURL)
		if err != nil {
			slog.Warn("enrichment failed, proceeding without", "error", err)
		} else if profile != nil {
			uc.applyProfile(ctx, &record, *profile)
		}
	}

	if err := uc.repo.Create(ctx, record, RecordTTL); err != nil {
		return "", err
	}

	if uc.audit != nil {
		if err := uc.audit.Insert(ctx, record, sub.Role); err != nil {
			slog.Warn("submission audit insert failed", "record", record.ID, "error", err)
		}
	}
	if uc.notifier != nil {
		uc.notifier.Notify(ctx, record)
	}

	return record.ID, nil
}

// GetRecord fetches a record and, when it claims an enriched asset,
// re-validates that asset before returning it.
func (uc *QuizUsecase) GetRecord(ctx context.Context, id string) (domain.Record, error) {
	record, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}

	if record.Enriched && record.ImageURL != "" {
		return uc.assets.EnsureFresh(ctx, record)
	}
	return record, nil
}

// TriggerEnrichment re-runs the enrichment path for an existing record.
// It is idempotent: a run that produces no match leaves the record as it
// was, and calling it again after a successful match just overwrites the
// same fields with the same values.
func (uc *QuizUsecase) TriggerEnrichment(ctx context.Context, id, profileURL string) (domain.Record, error) {
	record, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}

	if profileURL == "" {
		profileURL = record.ProfileURL
	}
	if profileURL == "" {
		return domain.Record{}, domain.ValidationError{Field: "profileUrl", Reason: "required for enrichment"}
	}

	profile, err := uc.enricher.Enrich(ctx, profileURL)
	if err != nil {
		slog.Warn("enrichment failed", "record", id, "error", err)
		return record, nil
	}
	if profile == nil {
		return record, nil
	}

	staged := record
	staged.ProfileURL = profileURL
	uc.applyProfile(ctx, &staged, *profile)

	return uc.repo.Merge(ctx, id, map[string]any{
		"name":        staged.Name,
		"title":       staged.Title,
		"company":     staged.Company,
		"profileUrl":  staged.ProfileURL,
		"imageUrl":    staged.ImageURL,
		"sourceImage": staged.SourceImage,
		"enriched":    staged.Enriched,
	})
}

// CaptureCardAsset stores the rendered-card URL produced by a downstream
// read path. The merge is additive: it must not disturb any other field.
func (uc *QuizUsecase) CaptureCardAsset(ctx context.Context, id, cardURL string) (domain.Record, error) {
	if cardURL == "" {
		return domain.Record{}, domain.ValidationError{Field: "cardUrl", Reason: "required"}
	}
	return uc.repo.Merge(ctx, id, map[string]any{"cardUrl": cardURL})
}

// applyProfile writes a matched profile into the record and settles the
// asset reference. Enriched only stays true if the portrait (when one
// exists) was confirmed retrievable, either by persisting a copy of it or
// by a direct probe.
func (uc *QuizUsecase) applyProfile(ctx context.Context, record *domain.Record, profile domain.Profile) {
	if name := profile.FullName(); name != "" {
		record.Name = name
	}
	if profile.Company != "" {
		record.Company = profile.Company
	}
	if profile.Title != "" {
		record.Title = profile.Title
	}
	record.Enriched = true

	if profile.ImageURL == "" {
		return
	}
	record.SourceImage = profile.ImageURL

	if copyURL, err := uc.blob.PersistCopy(ctx, profile.ImageURL); err == nil {
		record.ImageURL = copyURL
		return
	}
	if uc.prober.Reachable(ctx, profile.ImageURL) {
		record.ImageURL = profile.ImageURL
		return
	}

	record.ImageURL = ""
	record.Enriched = false
}

func validate(sub domain.QuizSubmission) error {
	if strings.TrimSpace(sub.Name) == "" {
		return domain.ValidationError{Field: "name", Reason: "required"}
	}
	if !strings.Contains(sub.Email, "@") {
		return domain.ValidationError{Field: "email", Reason: "must be an email address"}
	}
	if sub.Role != "" && !validRole(sub.Role) {
		return domain.ValidationError{Field: "role", Reason: "unknown role"}
	}
	return nil
}

func validRole(role string) bool {
	for _, r := range domain.Roles {
		if r == role {
			return true
		}
	}
	return false
}
