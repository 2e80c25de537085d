package dto

import (
	"municore/internal/domain/subsecretariat"
)

// --- Request DTOs ---

// CreateSubsecretariatRequest is the request body for creating a subsecretariat.
// Code is optional; when empty, a sequential one is generated.
type CreateSubsecretariatRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSubsecretariatRequest) ToEntity(mayoraltyID int64) *subsecretariat.Subsecretariat {
	s := subsecretariat.New(mayoraltyID, r.Code, r.Name)
	s.Description = r.Description
	return s
}

// UpdateSubsecretariatRequest is the request body for updating a subsecretariat.
type UpdateSubsecretariatRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSubsecretariatRequest) ApplyTo(s *subsecretariat.Subsecretariat) {
	if r.Code != "" {
		s.Code = r.Code
	}
	s.Name = r.Name
	s.Description = r.Description
	s.Active = r.Active
}

// --- Response DTOs ---

// SubsecretariatResponse is the response body for a subsecretariat.
type SubsecretariatResponse struct {
	AuditResponse
	MayoraltyID int64   `json:"mayoraltyId"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// FromSubsecretariat creates response DTO from domain entity.
func FromSubsecretariat(s *subsecretariat.Subsecretariat) *SubsecretariatResponse {
	return &SubsecretariatResponse{
		AuditResponse: auditResponse(s.AuditedRecord),
		MayoraltyID:   s.MayoraltyID,
		Code:          s.Code,
		Name:          s.Name,
		Description:   s.Description,
	}
}
