// Package subsecretariat provides the Subsecretariat record: an
// administrative unit nested under a mayoralty that maintains
// many-to-many relationships to secretariats and officials.
package subsecretariat

import (
	"municore/internal/core/entity"
)

// Subsecretariat represents a second-level administrative unit.
type Subsecretariat struct {
	entity.TenantRecord

	// Description is optional free text
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a live Subsecretariat.
func New(mayoraltyID int64, code, name string) *Subsecretariat {
	return &Subsecretariat{
		TenantRecord: entity.NewTenantRecord(mayoraltyID, code, name),
	}
}
