package record_repo

import (
	"municore/internal/domain/subsecretariat"
	"municore/internal/infrastructure/storage/postgres"
)

// SubsecretariatRepo implements subsecretariat.Repository.
type SubsecretariatRepo struct {
	*BaseRecordRepo[*subsecretariat.Subsecretariat]
}

// NewSubsecretariatRepo creates a new subsecretariat repository.
func NewSubsecretariatRepo(txManager *postgres.TxManager) *SubsecretariatRepo {
	return &SubsecretariatRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"subsecretariat",
			"subsecretariats",
			func() *subsecretariat.Subsecretariat { return &subsecretariat.Subsecretariat{} },
		),
	}
}
