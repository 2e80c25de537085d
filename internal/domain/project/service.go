package project

import (
	"context"

	"github.com/shopspring/decimal"

	"municore/internal/core/tx"
	"municore/internal/domain"
	"municore/internal/domain/archive"
)

// Service provides business logic for projects.
type Service struct {
	*domain.RecordService[*Project]
	repo Repository
}

// ServiceConfig configures the Project service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Archive   archive.Recorder
	Codes     domain.CodeGenerator
	Snapshot  func(*Project) map[string]any
}

// NewService creates a new Project service.
func NewService(cfg ServiceConfig) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Project]{
		Repo:       cfg.Repo,
		TxManager:  cfg.TxManager,
		Archive:    cfg.Archive,
		Codes:      cfg.Codes,
		EntityName: "project",
		TableName:  "projects",
		Snapshot:   cfg.Snapshot,
	})

	return &Service{
		RecordService: base,
		repo:          cfg.Repo,
	}
}

// TotalBudget sums the budgets of the live projects of one mayoralty.
func (s *Service) TotalBudget(ctx context.Context, mayoraltyID int64) (decimal.Decimal, error) {
	f := domain.DefaultListFilter()
	f.Limit = 0 // all live projects
	result, err := s.List(ctx, mayoraltyID, f)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range result.Items {
		total = total.Add(p.Budget)
	}
	return total, nil
}
