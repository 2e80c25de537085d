package mayoralty

import (
	"context"

	"municore/internal/core/apperror"
	"municore/internal/core/tx"
	"municore/internal/domain"
	"municore/internal/domain/archive"
)

// Service provides business logic for mayoralties.
// Uses composition with domain.RecordService for common lifecycle operations.
type Service struct {
	*domain.RecordService[*Mayoralty]
	repo Repository
}

// NewService creates a new Mayoralty service.
func NewService(repo Repository, txManager tx.Manager, rec archive.Recorder, snapshot func(*Mayoralty) map[string]any) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Mayoralty]{
		Repo:       repo,
		TxManager:  txManager,
		Archive:    rec,
		EntityName: "mayoralty",
		TableName:  "mayoralties",
		Snapshot:   snapshot,
	})

	svc := &Service{
		RecordService: base,
		repo:          repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkCodeFree)
	base.Hooks().OnBeforeUpdate(svc.checkCodeFree)
	base.Hooks().OnBeforeDelete(svc.restrictWhileOwned)

	return svc
}

// GetByCode retrieves the live mayoralty with the given code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Mayoralty, error) {
	m, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("mayoralty", code)
		}
		return nil, err
	}
	return m, nil
}

// checkCodeFree pre-checks global code uniqueness; the partial unique
// index remains the authority under concurrency.
func (s *Service) checkCodeFree(ctx context.Context, m *Mayoralty) error {
	existing, err := s.repo.GetByCode(ctx, m.Code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != m.ID {
		return apperror.NewDuplicateCode("mayoralty", 0, m.Code)
	}
	return nil
}

// restrictWhileOwned forbids deleting a mayoralty that still has live
// records. Owned records must be deleted (or moved) first.
func (s *Service) restrictWhileOwned(ctx context.Context, m *Mayoralty) error {
	owned, err := s.repo.HasLiveOwned(ctx, m.ID)
	if err != nil {
		return err
	}
	if owned {
		return apperror.NewConflict("mayoralty still has live records").
			WithDetail("id", m.ID)
	}
	return nil
}
