package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resonancehq/archetype-api/internal/domain"
)

// RecordRepository stores result records as JSON documents in redis,
// keyed by a fixed prefix plus the record id and bounded by a TTL fixed
// at creation. Records are never deleted explicitly; expiry is the only
// way out.
type RecordRepository struct {
	rdb *redis.Client
}

func NewRecordRepository(rdb *redis.Client) *RecordRepository {
	return &RecordRepository{rdb: rdb}
}

func (r *RecordRepository) Create(ctx context.Context, record domain.Record, ttl time.Duration) error {
	b, err := json.Marshal(record)
	if err != nil {
		return domain.StoreError{Op: "encode", Err: err}
	}

	err = r.rdb.Set(ctx, domain.RecordKeyPrefix+record.ID, b, ttl).Err()
	if err != nil {
		return domain.StoreError{Op: "create", Err: err}
	}
	return nil
}

func (r *RecordRepository) Get(ctx context.Context, id string) (domain.Record, error) {
	b, err := r.rdb.Get(ctx, domain.RecordKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Record{}, domain.NotFoundError{Resource: "record"}
	}
	if err != nil {
		return domain.Record{}, domain.StoreError{Op: "get", Err: err}
	}

	var record domain.Record
	if err := json.Unmarshal(b, &record); err != nil {
		return domain.Record{}, domain.StoreError{Op: "decode", Err: err}
	}
	return record, nil
}

// Merge shallow-merges the patch's top-level fields into the stored JSON
// document and rewrites it with the remaining TTL observed at read time.
// A TTL that lapsed between read and write is a benign race: the document
// is rewritten without expiry rather than failing.
//
// This is read-then-write, not atomic. Two concurrent merges to the same
// key can lose one update; the access pattern (one writer per key) makes
// that an accepted risk rather than something to fence.
func (r *RecordRepository) Merge(ctx context.Context, id string, patch map[string]any) (domain.Record, error) {
	key := domain.RecordKeyPrefix + id

	b, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Record{}, domain.NotFoundError{Resource: "record"}
	}
	if err != nil {
		return domain.Record{}, domain.StoreError{Op: "merge-read", Err: err}
	}

	remaining, err := r.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return domain.Record{}, domain.StoreError{Op: "merge-ttl", Err: err}
	}

	merged, err := mergeDocument(b, patch)
	if err != nil {
		return domain.Record{}, domain.StoreError{Op: "merge-encode", Err: err}
	}

	// PTTL reports -1 for no expiry and -2 if the key vanished after the
	// read; both rewrite without expiry per the benign-race rule.
	var expiry time.Duration
	if remaining > 0 {
		expiry = remaining
	}

	if err := r.rdb.Set(ctx, key, merged, expiry).Err(); err != nil {
		return domain.Record{}, domain.StoreError{Op: "merge-write", Err: err}
	}

	var record domain.Record
	if err := json.Unmarshal(merged, &record); err != nil {
		return domain.Record{}, domain.StoreError{Op: "decode", Err: err}
	}
	return record, nil
}

// Ping reports store availability for the health endpoint.
func (r *RecordRepository) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return domain.StoreError{Op: "ping", Err: err}
	}
	return nil
}
