package service

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/resonancehq/archetype-api/internal/domain"
)

var tracer = otel.Tracer("asset")

// RecordMerger is the slice of the record store the asset lifecycle needs.
type RecordMerger interface {
	Merge(ctx context.Context, id string, patch map[string]any) (domain.Record, error)
}

// Prober checks whether an asset URL still resolves.
type Prober interface {
	Reachable(ctx context.Context, url string) bool
}

// BlobStorage persists a copy of an external asset and returns its URL.
type BlobStorage interface {
	PersistCopy(ctx context.Context, sourceURL string) (string, error)
}

// AssetService owns the asset half of a record's enrichment state:
//
//	NOT_ENRICHED          no confirmed match, or repair exhausted
//	ENRICHED_VALID        primary asset answered the last probe
//	ENRICHED_ASSET_STALE  probe failed mid-read; resolved before return
//
// Stale resolves either back to valid (secondary source re-persisted as
// the new primary) or down to not-enriched (asset cleared, flag dropped).
// An unreachable asset is never an error to the caller.
type AssetService struct {
	repo   RecordMerger
	prober Prober
	blob   BlobStorage
}

func NewAssetService(repo RecordMerger, prober Prober, blob BlobStorage) *AssetService {
	return &AssetService{
		repo:   repo,
		prober: prober,
		blob:   blob,
	}
}

// EnsureFresh confirms the record's primary asset is retrievable and
// repairs or invalidates it if not. The returned record is what the
// caller should expose.
func (s *AssetService) EnsureFresh(ctx context.Context, record domain.Record) (domain.Record, error) {
	ctx, span := tracer.Start(ctx, "Asset.Service.EnsureFresh")
	defer span.End()

	if !record.Enriched || record.ImageURL == "" {
		return record, nil
	}

	if s.prober.Reachable(ctx, record.ImageURL) {
		return record, nil
	}

	slog.Info("primary asset unreachable, attempting repair", "record", record.ID, "asset", record.ImageURL)

	if record.SourceImage != "" && record.SourceImage != record.ImageURL {
		copyURL, err := s.blob.PersistCopy(ctx, record.SourceImage)
		if err == nil {
			return s.merge(ctx, record, map[string]any{"imageUrl": copyURL})
		}
		span.RecordError(errors.Wrap(err, "secondary asset repair failed"))
		slog.Warn("secondary source failed, invalidating enrichment", "record", record.ID, "error", err)
	}

	// No way to repair: a broken asset must not masquerade as a valid
	// enriched record. Clear it so the next read re-enriches.
	return s.merge(ctx, record, map[string]any{"imageUrl": "", "enriched": false})
}

// merge applies the patch through the store and mirrors it onto the
// in-memory record. A store failure here is absorbed: the read already
// has data to serve, so we log, return the locally patched record, and
// let a later read retry the write.
func (s *AssetService) merge(ctx context.Context, record domain.Record, patch map[string]any) (domain.Record, error) {
	merged, err := s.repo.Merge(ctx, record.ID, patch)
	if err != nil {
		slog.Error("asset state merge failed", "record", record.ID, "error", err)
		if v, ok := patch["imageUrl"].(string); ok {
			record.ImageURL = v
		}
		if v, ok := patch["enriched"].(bool); ok {
			record.Enriched = v
		}
		return record, nil
	}
	return merged, nil
}
