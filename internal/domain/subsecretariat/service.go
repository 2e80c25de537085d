package subsecretariat

import (
	"context"

	"municore/internal/core/apperror"
	appctx "municore/internal/core/context"
	"municore/internal/core/tx"
	"municore/internal/domain"
	"municore/internal/domain/archive"
	"municore/internal/domain/reconcile"
)

// Service provides business logic for subsecretariats, including
// desired-state synchronization of their secretariat and official
// relationships.
type Service struct {
	*domain.RecordService[*Subsecretariat]
	repo         Repository
	secretariats *reconcile.Reconciler
	officials    *reconcile.Reconciler
}

// ServiceConfig configures the Subsecretariat service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Archive   archive.Recorder
	Codes     domain.CodeGenerator
	Snapshot  func(*Subsecretariat) map[string]any

	// Secretariats reconciles the subsecretariat-secretariat relationship
	Secretariats *reconcile.Reconciler

	// Officials reconciles the subsecretariat-official relationship
	Officials *reconcile.Reconciler
}

// NewService creates a new Subsecretariat service.
func NewService(cfg ServiceConfig) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Subsecretariat]{
		Repo:       cfg.Repo,
		TxManager:  cfg.TxManager,
		Archive:    cfg.Archive,
		Codes:      cfg.Codes,
		EntityName: "subsecretariat",
		TableName:  "subsecretariats",
		Snapshot:   cfg.Snapshot,
	})

	svc := &Service{
		RecordService: base,
		repo:          cfg.Repo,
		secretariats:  cfg.Secretariats,
		officials:     cfg.Officials,
	}

	base.Hooks().OnBeforeDelete(svc.retireRelationships)

	return svc
}

// SyncSecretariats makes the live secretariat links of the
// subsecretariat equal the desired set.
func (s *Service) SyncSecretariats(ctx context.Context, mayoraltyID, subsecretariatID int64, desired []int64, actor string) (reconcile.Result, error) {
	return s.sync(ctx, s.secretariats, mayoraltyID, subsecretariatID, desired, actor)
}

// SyncOfficials makes the live official assignments of the
// subsecretariat equal the desired set.
func (s *Service) SyncOfficials(ctx context.Context, mayoraltyID, subsecretariatID int64, desired []int64, actor string) (reconcile.Result, error) {
	return s.sync(ctx, s.officials, mayoraltyID, subsecretariatID, desired, actor)
}

func (s *Service) sync(ctx context.Context, rec *reconcile.Reconciler, mayoraltyID, subsecretariatID int64, desired []int64, actor string) (reconcile.Result, error) {
	if err := s.checkOwner(ctx, mayoraltyID, subsecretariatID); err != nil {
		return reconcile.Result{}, err
	}
	return rec.Sync(ctx, mayoraltyID, subsecretariatID, desired, actor)
}

// SecretariatIDs returns the live secretariat IDs linked to the
// subsecretariat.
func (s *Service) SecretariatIDs(ctx context.Context, mayoraltyID, subsecretariatID int64) ([]int64, error) {
	if err := s.checkOwner(ctx, mayoraltyID, subsecretariatID); err != nil {
		return nil, err
	}
	return s.secretariats.ListLive(ctx, subsecretariatID)
}

// OfficialIDs returns the live official IDs assigned to the
// subsecretariat.
func (s *Service) OfficialIDs(ctx context.Context, mayoraltyID, subsecretariatID int64) ([]int64, error) {
	if err := s.checkOwner(ctx, mayoraltyID, subsecretariatID); err != nil {
		return nil, err
	}
	return s.officials.ListLive(ctx, subsecretariatID)
}

// checkOwner verifies the subsecretariat is live and belongs to the
// mayoralty before any relationship operation.
func (s *Service) checkOwner(ctx context.Context, mayoraltyID, subsecretariatID int64) error {
	ok, err := s.repo.ExistsLiveIn(ctx, mayoraltyID, subsecretariatID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("subsecretariat", subsecretariatID)
	}
	return nil
}

// retireRelationships cascades the deletion to every live secretariat
// link and official assignment. Runs inside the deletion transaction.
func (s *Service) retireRelationships(ctx context.Context, sub *Subsecretariat) error {
	actor := appctx.GetActor(ctx)
	if s.secretariats != nil {
		if err := s.secretariats.RetireAllByLeft(ctx, sub.MayoraltyID, sub.ID, actor); err != nil {
			return err
		}
	}
	if s.officials != nil {
		if err := s.officials.RetireAllByLeft(ctx, sub.MayoraltyID, sub.ID, actor); err != nil {
			return err
		}
	}
	return nil
}
