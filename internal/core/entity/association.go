package entity

// Association is a many-to-many link row between an owner ("left") entity
// and a counterpart ("right") entity, carrying the full audited mixin.
//
// For a fixed (LeftID, RightID) pair at most one row is live at any time;
// soft-deleted rows for the same pair may coexist and record the history
// of repeated add/remove cycles.
type Association struct {
	AuditedRecord

	LeftID  int64 `db:"left_id" json:"leftId"`
	RightID int64 `db:"right_id" json:"rightId"`
}

// NewAssociation creates a live association row.
func NewAssociation(leftID, rightID int64) Association {
	return Association{
		AuditedRecord: NewAuditedRecord(),
		LeftID:        leftID,
		RightID:       rightID,
	}
}
