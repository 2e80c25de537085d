package official

import (
	"context"

	appctx "municore/internal/core/context"
	"municore/internal/core/tx"
	"municore/internal/domain"
	"municore/internal/domain/archive"
)

// AssignmentRetirer retires every live join row referencing an
// official. Implemented by the subsecretariat-official reconciler.
type AssignmentRetirer interface {
	RetireAllByRight(ctx context.Context, mayoraltyID, rightID int64, actor string) error
}

// Service provides business logic for officials.
type Service struct {
	*domain.RecordService[*Official]
	repo        Repository
	assignments AssignmentRetirer
}

// ServiceConfig configures the Official service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Archive   archive.Recorder
	Codes     domain.CodeGenerator
	Snapshot  func(*Official) map[string]any

	// Assignments retires subsecretariat links on deletion
	Assignments AssignmentRetirer
}

// NewService creates a new Official service.
func NewService(cfg ServiceConfig) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Official]{
		Repo:       cfg.Repo,
		TxManager:  cfg.TxManager,
		Archive:    cfg.Archive,
		Codes:      cfg.Codes,
		EntityName: "official",
		TableName:  "officials",
		Snapshot:   cfg.Snapshot,
	})

	svc := &Service{
		RecordService: base,
		repo:          cfg.Repo,
		assignments:   cfg.Assignments,
	}

	base.Hooks().OnBeforeDelete(svc.retireAssignments)

	return svc
}

// retireAssignments cascades the deletion to every live subsecretariat
// assignment. Runs inside the deletion transaction.
func (s *Service) retireAssignments(ctx context.Context, off *Official) error {
	if s.assignments == nil {
		return nil
	}
	return s.assignments.RetireAllByRight(ctx, off.MayoraltyID, off.ID, appctx.GetActor(ctx))
}
