package secretariat

import (
	"context"

	"municore/internal/domain"
)

// Repository defines the interface for Secretariat persistence.
type Repository interface {
	domain.TenantRecordRepository[*Secretariat]

	// ExistsLiveIn checks tenant-scoped liveness for reference validation.
	ExistsLiveIn(ctx context.Context, mayoraltyID, id int64) (bool, error)
}
