package dto

import (
	"municore/internal/domain/secretariat"
)

// --- Request DTOs ---

// CreateSecretariatRequest is the request body for creating a secretariat.
// Code is optional; when empty, a sequential one is generated.
type CreateSecretariatRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSecretariatRequest) ToEntity(mayoraltyID int64) *secretariat.Secretariat {
	s := secretariat.New(mayoraltyID, r.Code, r.Name)
	s.Description = r.Description
	return s
}

// UpdateSecretariatRequest is the request body for updating a secretariat.
type UpdateSecretariatRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSecretariatRequest) ApplyTo(s *secretariat.Secretariat) {
	if r.Code != "" {
		s.Code = r.Code
	}
	s.Name = r.Name
	s.Description = r.Description
	s.Active = r.Active
}

// --- Response DTOs ---

// SecretariatResponse is the response body for a secretariat.
type SecretariatResponse struct {
	AuditResponse
	MayoraltyID int64   `json:"mayoraltyId"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// FromSecretariat creates response DTO from domain entity.
func FromSecretariat(s *secretariat.Secretariat) *SecretariatResponse {
	return &SecretariatResponse{
		AuditResponse: auditResponse(s.AuditedRecord),
		MayoraltyID:   s.MayoraltyID,
		Code:          s.Code,
		Name:          s.Name,
		Description:   s.Description,
	}
}
