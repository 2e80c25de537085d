// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"municore/internal/core/entity"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Audit ---

// AuditResponse contains the lifecycle fields shared by all records.
type AuditResponse struct {
	ID        int64      `json:"id"`
	Active    bool       `json:"active"`
	IsDeleted bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	DeletedBy *string    `json:"deletedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func auditResponse(r entity.AuditedRecord) AuditResponse {
	return AuditResponse{
		ID:        r.ID,
		Active:    r.Active,
		IsDeleted: r.IsDeleted,
		DeletedAt: r.DeletedAt,
		DeletedBy: r.DeletedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID int64 `json:"id"`
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// --- Deletion ---

// DeleteRequest carries the optional reason recorded in the deletion archive.
// The body is optional; DELETE without a body archives the row without a reason.
type DeleteRequest struct {
	Reason *string `json:"reason"`
}

// --- Relationship Sync ---

// SyncRequest is the desired counterpart set for relationship reconciliation.
// An empty list retires every live link.
type SyncRequest struct {
	IDs []int64 `json:"ids"`
}

// SyncResponse reports what reconciliation did, in counterpart IDs.
type SyncResponse struct {
	Restored []int64 `json:"restored"`
	Kept     []int64 `json:"kept"`
	Retired  []int64 `json:"retired"`
	Created  []int64 `json:"created"`
	Changed  bool    `json:"changed"`
}

// IDListResponse returns a plain set of counterpart IDs.
type IDListResponse struct {
	IDs []int64 `json:"ids"`
}
