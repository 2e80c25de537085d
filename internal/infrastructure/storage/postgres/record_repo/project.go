package record_repo

import (
	"municore/internal/domain/project"
	"municore/internal/infrastructure/storage/postgres"
)

// ProjectRepo implements project.Repository.
type ProjectRepo struct {
	*BaseRecordRepo[*project.Project]
}

// NewProjectRepo creates a new project repository.
func NewProjectRepo(txManager *postgres.TxManager) *ProjectRepo {
	return &ProjectRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"project",
			"projects",
			func() *project.Project { return &project.Project{} },
		),
	}
}
