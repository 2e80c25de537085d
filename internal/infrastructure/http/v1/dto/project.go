package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"municore/internal/domain/project"
)

// --- Request DTOs ---

// CreateProjectRequest is the request body for creating a project.
// Code is optional; when empty, a sequential one is generated.
type CreateProjectRequest struct {
	Code      string          `json:"code"`
	Name      string          `json:"name" binding:"required"`
	Objective *string         `json:"objective"`
	Budget    decimal.Decimal `json:"budget"`
	StartDate *time.Time      `json:"startDate"`
	EndDate   *time.Time      `json:"endDate"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProjectRequest) ToEntity(mayoraltyID int64) *project.Project {
	p := project.New(mayoraltyID, r.Code, r.Name)
	p.Objective = r.Objective
	p.Budget = r.Budget
	p.StartDate = r.StartDate
	p.EndDate = r.EndDate
	return p
}

// UpdateProjectRequest is the request body for updating a project.
type UpdateProjectRequest struct {
	Code      string          `json:"code"`
	Name      string          `json:"name" binding:"required"`
	Objective *string         `json:"objective"`
	Budget    decimal.Decimal `json:"budget"`
	StartDate *time.Time      `json:"startDate"`
	EndDate   *time.Time      `json:"endDate"`
	Active    bool            `json:"active"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProjectRequest) ApplyTo(p *project.Project) {
	if r.Code != "" {
		p.Code = r.Code
	}
	p.Name = r.Name
	p.Objective = r.Objective
	p.Budget = r.Budget
	p.StartDate = r.StartDate
	p.EndDate = r.EndDate
	p.Active = r.Active
}

// --- Response DTOs ---

// ProjectResponse is the response body for a project.
type ProjectResponse struct {
	AuditResponse
	MayoraltyID int64           `json:"mayoraltyId"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Objective   *string         `json:"objective,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
}

// FromProject creates response DTO from domain entity.
func FromProject(p *project.Project) *ProjectResponse {
	return &ProjectResponse{
		AuditResponse: auditResponse(p.AuditedRecord),
		MayoraltyID:   p.MayoraltyID,
		Code:          p.Code,
		Name:          p.Name,
		Objective:     p.Objective,
		Budget:        p.Budget,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
	}
}

// TotalBudgetResponse reports the sum of live project budgets.
type TotalBudgetResponse struct {
	MayoraltyID int64           `json:"mayoraltyId"`
	Total       decimal.Decimal `json:"total"`
}
