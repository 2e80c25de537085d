package dto

import (
	"municore/internal/domain/mayoralty"
)

// --- Request DTOs ---

// CreateMayoraltyRequest is the request body for creating a mayoralty.
type CreateMayoraltyRequest struct {
	Code       string  `json:"code" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Department *string `json:"department"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateMayoraltyRequest) ToEntity() *mayoralty.Mayoralty {
	m := mayoralty.New(r.Code, r.Name)
	m.Department = r.Department
	return m
}

// UpdateMayoraltyRequest is the request body for updating a mayoralty.
type UpdateMayoraltyRequest struct {
	Code       string  `json:"code" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Department *string `json:"department"`
	Active     bool    `json:"active"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateMayoraltyRequest) ApplyTo(m *mayoralty.Mayoralty) {
	m.Code = r.Code
	m.Name = r.Name
	m.Department = r.Department
	m.Active = r.Active
}

// --- Response DTOs ---

// MayoraltyResponse is the response body for a mayoralty.
type MayoraltyResponse struct {
	AuditResponse
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Department *string `json:"department,omitempty"`
}

// FromMayoralty creates response DTO from domain entity.
func FromMayoralty(m *mayoralty.Mayoralty) *MayoraltyResponse {
	return &MayoraltyResponse{
		AuditResponse: auditResponse(m.AuditedRecord),
		Code:          m.Code,
		Name:          m.Name,
		Department:    m.Department,
	}
}
