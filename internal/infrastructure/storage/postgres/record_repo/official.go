package record_repo

import (
	"municore/internal/domain/official"
	"municore/internal/infrastructure/storage/postgres"
)

// OfficialRepo implements official.Repository.
type OfficialRepo struct {
	*BaseRecordRepo[*official.Official]
}

// NewOfficialRepo creates a new official repository.
func NewOfficialRepo(txManager *postgres.TxManager) *OfficialRepo {
	return &OfficialRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"official",
			"officials",
			func() *official.Official { return &official.Official{} },
		),
	}
}
