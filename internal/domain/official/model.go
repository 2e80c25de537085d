// Package official provides the Official record: a responsible person
// within one mayoralty who can be assigned to subsecretariats.
package official

import (
	"context"
	"strings"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
)

// Official represents a municipal officer.
type Official struct {
	entity.TenantRecord

	// Position is the job title (e.g. "Director of Planning")
	Position *string `db:"position" json:"position,omitempty"`

	// Email is the work contact address
	Email *string `db:"email" json:"email,omitempty"`
}

// New creates a live Official.
func New(mayoraltyID int64, code, name string) *Official {
	return &Official{
		TenantRecord: entity.NewTenantRecord(mayoraltyID, code, name),
	}
}

// Validate implements entity.Validatable interface.
func (o *Official) Validate(ctx context.Context) error {
	if err := o.TenantRecord.Validate(ctx); err != nil {
		return err
	}

	if o.Email != nil && *o.Email != "" && !strings.Contains(*o.Email, "@") {
		return apperror.NewValidation("email is malformed").
			WithDetail("field", "email").
			WithDetail("value", *o.Email)
	}

	return nil
}
