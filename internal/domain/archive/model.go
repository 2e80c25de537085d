// Package archive provides the global ledger of deleted records.
// Every soft deletion appends one immutable entry carrying a full
// snapshot of the row as it stood immediately before deletion.
package archive

import (
	"encoding/json"
	"time"
)

// CompressionAlgo specifies the compression algorithm used for a snapshot.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// Entry is one record of the deletion ledger. Entries are created once,
// at the moment a row is deleted, and never mutated or deleted themselves.
type Entry struct {
	ID int64 `db:"id" json:"id"`

	// SourceTable names the logical entity type the row came from
	SourceTable string `db:"source_table" json:"sourceTable"`

	// SourceRecordID is the primary key of the deleted row
	SourceRecordID int64 `db:"source_record_id" json:"sourceRecordId"`

	// Snapshot is the serialized row state at time of deletion
	Snapshot json.RawMessage `db:"snapshot" json:"snapshot,omitempty"`

	// SnapshotCompressed holds the zstd-compressed snapshot for large rows
	SnapshotCompressed []byte `db:"snapshot_compressed" json:"-"`

	// CompressionAlgo tells how the snapshot is stored
	CompressionAlgo CompressionAlgo `db:"compression_algo" json:"-"`

	// DeletedAt is when the source row was deleted
	DeletedAt time.Time `db:"deleted_at" json:"deletedAt"`

	// DeletedBy is the actor (username or "system") who performed the deletion
	DeletedBy string `db:"deleted_by" json:"deletedBy"`

	// Reason is optional free text supplied by the caller
	Reason *string `db:"reason" json:"reason,omitempty"`

	// MayoraltyID is the owning tenant; nil for tenant-less entities
	MayoraltyID *int64 `db:"mayoralty_id" json:"mayoraltyId,omitempty"`
}

// Query selects archive entries for compliance review.
// Zero-valued fields are not applied.
type Query struct {
	SourceTable    string
	SourceRecordID int64
	MayoraltyID    *int64
	From           time.Time
	To             time.Time
	Limit          int
	Offset         int
}
