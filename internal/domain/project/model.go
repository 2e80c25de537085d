// Package project provides the Project record: a planning artifact of
// one mayoralty with an exact-decimal budget.
package project

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
)

// Project represents a municipal project.
type Project struct {
	entity.TenantRecord

	// Objective is optional free text describing the goal
	Objective *string `db:"objective" json:"objective,omitempty"`

	// Budget is the allocated amount; exact decimal, never floats
	Budget decimal.Decimal `db:"budget" json:"budget"`

	// StartDate and EndDate bound the project period
	StartDate *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"endDate,omitempty"`
}

// New creates a live Project with a zero budget.
func New(mayoraltyID int64, code, name string) *Project {
	return &Project{
		TenantRecord: entity.NewTenantRecord(mayoraltyID, code, name),
		Budget:       decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (p *Project) Validate(ctx context.Context) error {
	if err := p.TenantRecord.Validate(ctx); err != nil {
		return err
	}

	if p.Budget.IsNegative() {
		return apperror.NewValidation("budget must not be negative").
			WithDetail("field", "budget").
			WithDetail("value", p.Budget.String())
	}

	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return apperror.NewValidation("end date must not precede start date").
			WithDetail("field", "endDate")
	}

	return nil
}
