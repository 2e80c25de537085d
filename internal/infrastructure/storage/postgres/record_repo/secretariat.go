package record_repo

import (
	"municore/internal/domain/secretariat"
	"municore/internal/infrastructure/storage/postgres"
)

// SecretariatRepo implements secretariat.Repository.
type SecretariatRepo struct {
	*BaseRecordRepo[*secretariat.Secretariat]
}

// NewSecretariatRepo creates a new secretariat repository.
func NewSecretariatRepo(txManager *postgres.TxManager) *SecretariatRepo {
	return &SecretariatRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"secretariat",
			"secretariats",
			func() *secretariat.Secretariat { return &secretariat.Secretariat{} },
		),
	}
}
