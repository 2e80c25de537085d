package dto

import (
	"encoding/json"
	"time"

	"municore/internal/domain/archive"
)

// --- Response DTOs ---

// ArchiveEntryResponse is one deletion archive entry with its snapshot
// already decompressed.
type ArchiveEntryResponse struct {
	ID             int64           `json:"id"`
	SourceTable    string          `json:"sourceTable"`
	SourceRecordID int64           `json:"sourceRecordId"`
	MayoraltyID    *int64          `json:"mayoraltyId,omitempty"`
	Snapshot       json.RawMessage `json:"snapshot"`
	DeletedAt      time.Time       `json:"deletedAt"`
	DeletedBy      string          `json:"deletedBy"`
	Reason         *string         `json:"reason,omitempty"`
}

// FromArchiveEntry creates response DTO from domain entry.
func FromArchiveEntry(e *archive.Entry) *ArchiveEntryResponse {
	return &ArchiveEntryResponse{
		ID:             e.ID,
		SourceTable:    e.SourceTable,
		SourceRecordID: e.SourceRecordID,
		MayoraltyID:    e.MayoraltyID,
		Snapshot:       e.Snapshot,
		DeletedAt:      e.DeletedAt,
		DeletedBy:      e.DeletedBy,
		Reason:         e.Reason,
	}
}
