package official

import (
	"context"

	"municore/internal/domain"
)

// Repository defines the interface for Official persistence.
type Repository interface {
	domain.TenantRecordRepository[*Official]

	// ExistsLiveIn checks tenant-scoped liveness for reference validation.
	ExistsLiveIn(ctx context.Context, mayoraltyID, id int64) (bool, error)
}
