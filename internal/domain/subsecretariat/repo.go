package subsecretariat

import (
	"context"

	"municore/internal/domain"
)

// Repository defines the interface for Subsecretariat persistence.
type Repository interface {
	domain.TenantRecordRepository[*Subsecretariat]

	// ExistsLiveIn checks tenant-scoped liveness for reference validation.
	ExistsLiveIn(ctx context.Context, mayoraltyID, id int64) (bool, error)
}
