package usecase

import (
	"context"
	"time"

	"github.com/resonancehq/archetype-api/internal/domain"
)

// RecordRepository defines storage operations for result records.
//
// Merge is read-then-write on the stored JSON document: patch fields
// overwrite, absent fields are preserved, and the remaining TTL observed
// at read time is rewritten unchanged. Two concurrent merges to the same
// key can lose one update (last-writer-wins on the read snapshot); the
// access pattern is effectively one writer per key, so this is accepted.
type RecordRepository interface {
	Create(ctx context.Context, record domain.Record, ttl time.Duration) error
	Get(ctx context.Context, id string) (domain.Record, error)
	Merge(ctx context.Context, id string, patch map[string]any) (domain.Record, error)
}

// EnrichmentGateway resolves a profile URL through the external
// automation job. A (nil, nil) return means the feature is unavailable or
// produced no match; it is never an error and the caller proceeds without
// enrichment.
type EnrichmentGateway interface {
	Enrich(ctx context.Context, profileURL string) (*domain.Profile, error)
}

// AssetManager validates an enriched record's asset reference and repairs
// or invalidates it before the record is exposed.
type AssetManager interface {
	EnsureFresh(ctx context.Context, record domain.Record) (domain.Record, error)
}

// Prober checks whether an externally hosted asset URL still resolves.
type Prober interface {
	Reachable(ctx context.Context, url string) bool
}

// BlobStorage persists a copy of an external asset into durable storage
// and returns the hosted URL of the copy.
type BlobStorage interface {
	PersistCopy(ctx context.Context, sourceURL string) (string, error)
}

// SubmissionLog captures one audit row per submission, best effort.
type SubmissionLog interface {
	Insert(ctx context.Context, record domain.Record, role string) error
}

// Notifier pushes a new result to the CRM webhook, fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, record domain.Record)
}
