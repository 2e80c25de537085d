// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"time"

	"municore/internal/core/entity"
	"municore/internal/domain/filter"
)

// --- Filter & Pagination ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs substring search on name and code
	Search string

	// IDs filters by specific IDs
	IDs []int64

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	// Active filters by the business-visibility flag when set
	Active *bool

	// AdvancedFilters is a list of ad-hoc conditions
	AdvancedFilters []filter.Item

	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Repository Interfaces ---

// RecordRepository defines lifecycle operations for audited entities.
// All write methods must be called inside a transaction scope managed by
// the service layer; reads work both inside and outside transactions.
type RecordRepository[T entity.Validatable] interface {
	// Create inserts a new entity and assigns its storage identity
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID regardless of deletion state.
	// Soft-deleted rows remain reachable by direct lookup.
	GetByID(ctx context.Context, id int64) (T, error)

	// GetForUpdate retrieves entity by ID with a row lock
	GetForUpdate(ctx context.Context, id int64) (T, error)

	// Update modifies existing entity. Only live rows are updatable,
	// a deleted target yields a not-found error.
	Update(ctx context.Context, entity T) error

	// MarkDeleted sets the soft-delete fields on a live row. The
	// caller supplies the timestamp so the archive entry written in
	// the same transaction agrees with the row exactly.
	// A missing or already-deleted target yields a not-found error.
	MarkDeleted(ctx context.Context, id int64, actor string, deletedAt time.Time) error

	// Restore clears the soft-delete fields and bumps updated_at
	Restore(ctx context.Context, id int64) error

	// List retrieves entities of one mayoralty with filtering and pagination
	List(ctx context.Context, mayoraltyID int64, filter ListFilter) (ListResult[T], error)

	// Exists checks if a row with given ID exists (any deletion state)
	Exists(ctx context.Context, id int64) (bool, error)

	// ExistsLive checks if a non-deleted row with given ID exists
	ExistsLive(ctx context.Context, id int64) (bool, error)
}

// TenantRecordRepository adds code-based access for tenant-scoped entities.
type TenantRecordRepository[T entity.Validatable] interface {
	RecordRepository[T]

	// GetByCode retrieves the live entity with the given code within a mayoralty
	GetByCode(ctx context.Context, mayoraltyID int64, code string) (T, error)

	// CodeInUse checks whether another live row of the same mayoralty
	// already carries the code. excludeID skips the row being updated.
	CodeInUse(ctx context.Context, mayoraltyID int64, code string, excludeID int64) (bool, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
// Before-delete hooks run inside the deletion transaction, which is where
// cascade retirement of dependent join rows happens.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnAfterCreate registers a hook to run after create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnAfterUpdate registers a hook to run after update.
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T]) {
	r.On(AfterUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}

// OnAfterDelete registers a hook to run after delete.
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T]) {
	r.On(AfterDelete, hook)
}
