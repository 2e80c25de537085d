package secretariat

import (
	"context"

	appctx "municore/internal/core/context"
	"municore/internal/core/tx"
	"municore/internal/domain"
	"municore/internal/domain/archive"
)

// MembershipRetirer retires every live join row referencing a
// secretariat. Implemented by the subsecretariat-secretariat reconciler.
type MembershipRetirer interface {
	RetireAllByRight(ctx context.Context, mayoraltyID, rightID int64, actor string) error
}

// Service provides business logic for secretariats.
type Service struct {
	*domain.RecordService[*Secretariat]
	repo        Repository
	memberships MembershipRetirer
}

// ServiceConfig configures the Secretariat service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Archive   archive.Recorder
	Codes     domain.CodeGenerator
	Snapshot  func(*Secretariat) map[string]any

	// Memberships retires subsecretariat links on deletion; optional
	// until the reconciler is wired.
	Memberships MembershipRetirer
}

// NewService creates a new Secretariat service.
func NewService(cfg ServiceConfig) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Secretariat]{
		Repo:       cfg.Repo,
		TxManager:  cfg.TxManager,
		Archive:    cfg.Archive,
		Codes:      cfg.Codes,
		EntityName: "secretariat",
		TableName:  "secretariats",
		Snapshot:   cfg.Snapshot,
	})

	svc := &Service{
		RecordService: base,
		repo:          cfg.Repo,
		memberships:   cfg.Memberships,
	}

	base.Hooks().OnBeforeDelete(svc.retireMemberships)

	return svc
}

// retireMemberships cascades the deletion to every live subsecretariat
// link. Runs inside the deletion transaction.
func (s *Service) retireMemberships(ctx context.Context, sec *Secretariat) error {
	if s.memberships == nil {
		return nil
	}
	return s.memberships.RetireAllByRight(ctx, sec.MayoraltyID, sec.ID, appctx.GetActor(ctx))
}
