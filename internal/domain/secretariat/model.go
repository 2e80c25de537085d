// Package secretariat provides the Secretariat record: a top-level
// administrative unit within one mayoralty.
package secretariat

import (
	"municore/internal/core/entity"
)

// Secretariat represents an administrative unit of a mayoralty.
type Secretariat struct {
	entity.TenantRecord

	// Description is optional free text
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a live Secretariat.
func New(mayoraltyID int64, code, name string) *Secretariat {
	return &Secretariat{
		TenantRecord: entity.NewTenantRecord(mayoraltyID, code, name),
	}
}
