package project

import (
	"municore/internal/domain"
)

// Repository defines the interface for Project persistence.
type Repository interface {
	domain.TenantRecordRepository[*Project]
}
