package entity

import (
	"context"
	"time"

	"municore/internal/core/apperror"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Identified is implemented by every persisted entity.
// The repository assigns the ID on insert and reads it back afterwards.
type Identified interface {
	GetID() int64
	SetID(id int64)
}

///////////////////////
// Audited Record    //
///////////////////////

// AuditedRecord contains the lifecycle fields every persisted entity carries.
// This is the unified base that eliminates the per-table duplication of
// audit and soft-delete columns.
//
// Invariants:
//   - IsDeleted == true  implies DeletedAt != nil
//   - IsDeleted == false implies DeletedAt == nil and DeletedBy == nil
//
// Active is a business-visibility flag independent of deletion: a record
// can be deactivated without being deleted.
type AuditedRecord struct {
	// ID is the primary key, assigned by storage on insert
	ID int64 `db:"id" json:"id"`

	// CreatedAt is set once at creation and never mutated
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// UpdatedAt is set on every mutating write
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`

	// Active is the business-visibility flag
	Active bool `db:"active" json:"active"`

	// IsDeleted marks the record as logically removed
	IsDeleted bool `db:"is_deleted" json:"isDeleted"`

	// DeletedAt is set exactly when IsDeleted transitions false -> true
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`

	// DeletedBy identifies the actor (username or "system") who deleted the record
	DeletedBy *string `db:"deleted_by" json:"deletedBy,omitempty"`
}

// NewAuditedRecord creates a live, active record with CreatedAt set.
func NewAuditedRecord() AuditedRecord {
	return AuditedRecord{
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}
}

// GetID implements Identified.
func (r *AuditedRecord) GetID() int64 { return r.ID }

// SetID implements Identified.
func (r *AuditedRecord) SetID(id int64) { r.ID = id }

// IsMarkedDeleted reports whether the record carries a deletion mark.
func (r *AuditedRecord) IsMarkedDeleted() bool { return r.IsDeleted }

// Touch updates the UpdatedAt timestamp.
func (r *AuditedRecord) Touch() {
	now := time.Now().UTC()
	r.UpdatedAt = &now
}

// MarkDeleted sets the soft-delete fields for the given actor at the
// given deletion time.
func (r *AuditedRecord) MarkDeleted(actor string, at time.Time) {
	r.IsDeleted = true
	r.DeletedAt = &at
	r.DeletedBy = &actor
}

// ClearDeleted restores the record: delete fields are cleared and
// UpdatedAt is bumped.
func (r *AuditedRecord) ClearDeleted() {
	r.IsDeleted = false
	r.DeletedAt = nil
	r.DeletedBy = nil
	r.Touch()
}

///////////////////////
// Tenant Record     //
///////////////////////

// TenantRecord extends AuditedRecord for entities owned by a mayoralty
// and identified by a short business code. The code must be unique among
// non-deleted rows of the same mayoralty; retired (deleted) codes may be
// reused.
type TenantRecord struct {
	AuditedRecord

	// MayoraltyID is the owning tenant (FK, restrict-on-delete)
	MayoraltyID int64 `db:"mayoralty_id" json:"mayoraltyId"`

	// Code is the short business identifier, unique per mayoralty among live rows
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewTenantRecord creates a live tenant-scoped record.
func NewTenantRecord(mayoraltyID int64, code, name string) TenantRecord {
	return TenantRecord{
		AuditedRecord: NewAuditedRecord(),
		MayoraltyID:   mayoraltyID,
		Code:          code,
		Name:          name,
	}
}

// Validate implements Validatable interface.
func (t *TenantRecord) Validate(ctx context.Context) error {
	if t.MayoraltyID == 0 {
		return apperror.NewValidation("mayoralty is required").
			WithDetail("field", "mayoraltyId")
	}
	if t.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	// Code can be auto-generated, so it's optional at creation
	// but required at save time

	return nil
}

// GetMayoraltyID returns the owning tenant id (useful for interfaces).
func (t *TenantRecord) GetMayoraltyID() int64 { return t.MayoraltyID }

// GetCode returns the business code.
func (t *TenantRecord) GetCode() string { return t.Code }

// SetCode sets the business code (used by code generation).
func (t *TenantRecord) SetCode(code string) { t.Code = code }

// TenantScoped is implemented by entities carrying a mayoralty + code pair.
type TenantScoped interface {
	Identified
	GetMayoraltyID() int64
	GetCode() string
	SetCode(code string)
}
