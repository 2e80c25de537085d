package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"municore/internal/core/apperror"
)

// compressionThreshold is the snapshot size above which zstd is applied.
const compressionThreshold = 8 * 1024

// Store persists archive entries. Implemented by the postgres layer.
type Store interface {
	Insert(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id int64) (*Entry, error)
	Find(ctx context.Context, q Query) ([]*Entry, error)
	Count(ctx context.Context, q Query) (int64, error)
}

// Recorder is the write side of the archive, consumed by deletion paths.
// deletedAt is the timestamp written to the deleted row itself, so the
// ledger entry and the row agree exactly.
type Recorder interface {
	Append(ctx context.Context, sourceTable string, recordID int64, mayoraltyID *int64, snapshot map[string]any, deletedAt time.Time, actor string, reason *string) error
}

// Service appends and reads deletion archive entries.
// Large snapshots are transparently zstd-compressed on write and
// decompressed on read.
type Service struct {
	store     Store
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

func NewService(store Store) (*Service, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Service{
		store:     store,
		encoder:   enc,
		decoder:   dec,
		threshold: compressionThreshold,
	}, nil
}

// Append writes one archive entry for a freshly deleted row.
// It must run inside the same transaction as the deletion itself so the
// ledger never diverges from the deletion marks.
func (s *Service) Append(ctx context.Context, sourceTable string, recordID int64, mayoraltyID *int64, snapshot map[string]any, deletedAt time.Time, actor string, reason *string) error {
	if sourceTable == "" {
		return apperror.NewValidation("source table is required")
	}
	if actor == "" {
		return apperror.NewValidation("deleting actor is required")
	}
	if deletedAt.IsZero() {
		deletedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("marshal deletion snapshot: %w", err))
	}

	entry := &Entry{
		SourceTable:     sourceTable,
		SourceRecordID:  recordID,
		MayoraltyID:     mayoraltyID,
		DeletedAt:       deletedAt,
		DeletedBy:       actor,
		Reason:          reason,
		CompressionAlgo: CompressionNone,
	}

	if len(raw) > s.threshold {
		entry.SnapshotCompressed = s.encoder.EncodeAll(raw, nil)
		entry.CompressionAlgo = CompressionZstd
	} else {
		entry.Snapshot = raw
	}

	return s.store.Insert(ctx, entry)
}

// GetByID returns a single entry with its snapshot decompressed.
func (s *Service) GetByID(ctx context.Context, id int64) (*Entry, error) {
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.inflate(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Find returns entries matching the query, snapshots decompressed.
func (s *Service) Find(ctx context.Context, q Query) ([]*Entry, error) {
	entries, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := s.inflate(e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Count returns the number of entries matching the query.
func (s *Service) Count(ctx context.Context, q Query) (int64, error) {
	return s.store.Count(ctx, q)
}

func (s *Service) inflate(e *Entry) error {
	if e.CompressionAlgo != CompressionZstd {
		return nil
	}
	raw, err := s.decoder.DecodeAll(e.SnapshotCompressed, nil)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("decompress archive entry %d: %w", e.ID, err))
	}
	e.Snapshot = raw
	e.SnapshotCompressed = nil
	e.CompressionAlgo = CompressionNone
	return nil
}
