package dto

import (
	"municore/internal/domain/official"
)

// --- Request DTOs ---

// CreateOfficialRequest is the request body for creating an official.
// Code is optional; when empty, a sequential one is generated.
type CreateOfficialRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Position *string `json:"position"`
	Email    *string `json:"email"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateOfficialRequest) ToEntity(mayoraltyID int64) *official.Official {
	o := official.New(mayoraltyID, r.Code, r.Name)
	o.Position = r.Position
	o.Email = r.Email
	return o
}

// UpdateOfficialRequest is the request body for updating an official.
type UpdateOfficialRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Position *string `json:"position"`
	Email    *string `json:"email"`
	Active   bool    `json:"active"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateOfficialRequest) ApplyTo(o *official.Official) {
	if r.Code != "" {
		o.Code = r.Code
	}
	o.Name = r.Name
	o.Position = r.Position
	o.Email = r.Email
	o.Active = r.Active
}

// --- Response DTOs ---

// OfficialResponse is the response body for an official.
type OfficialResponse struct {
	AuditResponse
	MayoraltyID int64   `json:"mayoraltyId"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Position    *string `json:"position,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// FromOfficial creates response DTO from domain entity.
func FromOfficial(o *official.Official) *OfficialResponse {
	return &OfficialResponse{
		AuditResponse: auditResponse(o.AuditedRecord),
		MayoraltyID:   o.MayoraltyID,
		Code:          o.Code,
		Name:          o.Name,
		Position:      o.Position,
		Email:         o.Email,
	}
}
