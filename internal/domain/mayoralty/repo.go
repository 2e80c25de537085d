package mayoralty

import (
	"context"

	"municore/internal/domain"
)

// Repository defines the interface for Mayoralty persistence.
type Repository interface {
	domain.RecordRepository[*Mayoralty]

	// GetByCode retrieves the live mayoralty with the given code.
	// Mayoralty codes are global, not tenant-scoped.
	GetByCode(ctx context.Context, code string) (*Mayoralty, error)

	// HasLiveOwned reports whether any live record still belongs to the
	// mayoralty (secretariats, subsecretariats, officials, projects).
	HasLiveOwned(ctx context.Context, id int64) (bool, error)
}
