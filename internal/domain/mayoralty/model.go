// Package mayoralty provides the Mayoralty record: the tenant itself.
// Every other record in the system belongs to exactly one mayoralty.
package mayoralty

import (
	"context"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
)

// Mayoralty represents one municipal administration (a tenant).
// It is not tenant-scoped itself; its code is unique among live
// mayoralties system-wide.
type Mayoralty struct {
	entity.AuditedRecord

	// Code is the short identifier, unique among live mayoralties
	Code string `db:"code" json:"code"`

	// Name is the official name of the administration
	Name string `db:"name" json:"name"`

	// Department is the territorial department the mayoralty belongs to
	Department *string `db:"department" json:"department,omitempty"`
}

// New creates a live Mayoralty.
func New(code, name string) *Mayoralty {
	return &Mayoralty{
		AuditedRecord: entity.NewAuditedRecord(),
		Code:          code,
		Name:          name,
	}
}

// Validate implements entity.Validatable interface.
func (m *Mayoralty) Validate(ctx context.Context) error {
	if m.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if m.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
