package domain

import (
	"context"
	"fmt"
	"time"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
	"municore/internal/core/tx"
	"municore/internal/domain/archive"
	"municore/pkg/logger"
)

// CodeGenerator produces the next sequential business code for a
// mayoralty-scoped entity kind. Implemented by pkg/codegen.
type CodeGenerator interface {
	Next(ctx context.Context, mayoraltyID int64, scope string) (string, error)
}

// RecordService provides lifecycle business logic shared by all audited
// entities: validated creation, live-only updates, strict soft deletion
// with archiving, and restoration.
type RecordService[T entity.Validatable] struct {
	repo      RecordRepository[T]
	txManager tx.Manager
	archive   archive.Recorder
	codes     CodeGenerator
	hooks     *HookRegistry[T]

	// entityName for error messages, tableName for archive entries
	entityName string
	tableName  string

	// snapshot captures the row state for the deletion archive
	snapshot func(entity T) map[string]any
}

// RecordServiceConfig configures the record service.
type RecordServiceConfig[T entity.Validatable] struct {
	Repo       RecordRepository[T]
	TxManager  tx.Manager
	Archive    archive.Recorder
	Codes      CodeGenerator // optional, only for code-bearing entities
	EntityName string
	TableName  string
	Snapshot   func(entity T) map[string]any
}

// NewRecordService creates a new record service.
func NewRecordService[T entity.Validatable](cfg RecordServiceConfig[T]) *RecordService[T] {
	return &RecordService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		archive:    cfg.Archive,
		codes:      cfg.Codes,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
		tableName:  cfg.TableName,
		snapshot:   cfg.Snapshot,
	}
}

// Hooks returns the hook registry for external registration.
func (s *RecordService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *RecordService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	// If entity already returns structured AppError, keep it.
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *RecordService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	// Preserve existing AppError, but ensure not-found carries the entity name.
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// tenantRepo returns the code-aware repository when the entity kind
// carries tenant-scoped codes.
func (s *RecordService[T]) tenantRepo() (TenantRecordRepository[T], bool) {
	tr, ok := s.repo.(TenantRecordRepository[T])
	return tr, ok
}

// ensureCode assigns a generated code to code-bearing entities created
// without one, and pre-checks uniqueness among live rows of the mayoralty.
// The partial unique index remains the authority under concurrency; the
// pre-check exists to produce a precise error before touching storage.
func (s *RecordService[T]) ensureCode(ctx context.Context, ent T, excludeID int64) error {
	scoped, ok := any(ent).(entity.TenantScoped)
	if !ok {
		return nil
	}

	if scoped.GetCode() == "" {
		if s.codes == nil {
			return apperror.NewValidation("code is required").WithDetail("field", "code")
		}
		code, err := s.codes.Next(ctx, scoped.GetMayoraltyID(), s.tableName)
		if err != nil {
			return fmt.Errorf("generate %s code: %w", s.entityName, err)
		}
		scoped.SetCode(code)
		return nil
	}

	tr, ok := s.tenantRepo()
	if !ok {
		return nil
	}
	inUse, err := tr.CodeInUse(ctx, scoped.GetMayoraltyID(), scoped.GetCode(), excludeID)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.NewDuplicateCode(s.entityName, scoped.GetMayoraltyID(), scoped.GetCode())
	}
	return nil
}

// enrichDuplicateErr upgrades a constraint-level duplicate error with the
// tenant and code that caused it. The storage layer only sees the
// constraint name, not the values.
func (s *RecordService[T]) enrichDuplicateErr(err error, ent T) error {
	if err == nil || !apperror.IsDuplicateCode(err) {
		return err
	}
	scoped, ok := any(ent).(entity.TenantScoped)
	if !ok {
		return err
	}
	return apperror.NewDuplicateCode(s.entityName, scoped.GetMayoraltyID(), scoped.GetCode())
}

// Create creates a new entity. The storage identity is assigned on
// insert and written back into the entity.
func (s *RecordService[T]) Create(ctx context.Context, ent T) error {
	if err := ent.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeCreate, ent); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureCode(ctx, ent, 0); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, ent); err != nil {
			return s.enrichDuplicateErr(err, ent)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// After-create hooks run outside the transaction; the entity is
	// already committed, so failures are logged, not propagated.
	if err := s.hooks.Run(ctx, AfterCreate, ent); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}

	return nil
}

// GetByID retrieves entity by ID regardless of deletion state.
func (s *RecordService[T]) GetByID(ctx context.Context, id int64) (T, error) {
	ent, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ent, s.normalizeGetErr(err, id)
	}
	return ent, nil
}

// GetByCode retrieves the live entity with the given code within a mayoralty.
func (s *RecordService[T]) GetByCode(ctx context.Context, mayoraltyID int64, code string) (T, error) {
	var zero T
	tr, ok := s.tenantRepo()
	if !ok {
		return zero, apperror.NewInternal(fmt.Errorf("%s does not support code lookup", s.entityName))
	}
	ent, err := tr.GetByCode(ctx, mayoraltyID, code)
	if err != nil {
		return ent, s.normalizeGetErr(err, code)
	}
	return ent, nil
}

// Update modifies an existing live entity. Updating a soft-deleted row
// is rejected as not found.
func (s *RecordService[T]) Update(ctx context.Context, ent T) error {
	if err := ent.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, ent); err != nil {
		return err
	}

	var excludeID int64
	if identified, ok := any(ent).(entity.Identified); ok {
		excludeID = identified.GetID()
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureCode(ctx, ent, excludeID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, ent); err != nil {
			return s.normalizeGetErr(s.enrichDuplicateErr(err, ent), excludeID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterUpdate, ent); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}

	return nil
}

// SoftDelete marks the entity deleted and appends a full pre-deletion
// snapshot to the deletion archive, all within a single transaction.
//
// Deleting a row that is already deleted fails with not-found: the
// caller observed stale state and must be told so.
func (s *RecordService[T]) SoftDelete(ctx context.Context, id int64, actor string, reason *string) error {
	if actor == "" {
		return apperror.NewValidation("deleting actor is required")
	}

	var deleted T
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ent, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return s.normalizeGetErr(err, id)
		}

		if marked, ok := any(ent).(interface{ IsMarkedDeleted() bool }); ok && marked.IsMarkedDeleted() {
			return apperror.NewNotFound(s.entityName, id)
		}

		// Before-delete hooks run inside the transaction so dependent
		// rows (cascade retirement) commit or roll back atomically with
		// the deletion itself.
		if err := s.hooks.Run(ctx, BeforeDelete, ent); err != nil {
			return err
		}

		// Snapshot the row as it stood immediately before deletion.
		var snap map[string]any
		if s.snapshot != nil {
			snap = s.snapshot(ent)
		}

		// One timestamp for the row and its ledger entry.
		deletedAt := time.Now().UTC()

		if err := s.repo.MarkDeleted(ctx, id, actor, deletedAt); err != nil {
			return s.normalizeGetErr(err, id)
		}

		if s.archive != nil {
			var mayoraltyID *int64
			if scoped, ok := any(ent).(entity.TenantScoped); ok {
				mid := scoped.GetMayoraltyID()
				mayoraltyID = &mid
			}
			if err := s.archive.Append(ctx, s.tableName, id, mayoraltyID, snap, deletedAt, actor, reason); err != nil {
				return fmt.Errorf("archive %s %d: %w", s.entityName, id, err)
			}
		}

		deleted = ent
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterDelete, deleted); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "error", err)
	}

	return nil
}

// Restore clears the deletion mark of a soft-deleted entity.
// Restoring a live row is a conflict. For code-bearing entities the code
// must still be free among live rows of the mayoralty, otherwise the
// restore is rejected as a duplicate.
func (s *RecordService[T]) Restore(ctx context.Context, id int64) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ent, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return s.normalizeGetErr(err, id)
		}

		marked, ok := any(ent).(interface{ IsMarkedDeleted() bool })
		if ok && !marked.IsMarkedDeleted() {
			return apperror.NewConflict(fmt.Sprintf("%s is not deleted", s.entityName)).
				WithDetail("id", id)
		}

		if scoped, isScoped := any(ent).(entity.TenantScoped); isScoped {
			tr, hasCodes := s.tenantRepo()
			if hasCodes && scoped.GetCode() != "" {
				inUse, err := tr.CodeInUse(ctx, scoped.GetMayoraltyID(), scoped.GetCode(), id)
				if err != nil {
					return err
				}
				if inUse {
					return apperror.NewDuplicateCode(s.entityName, scoped.GetMayoraltyID(), scoped.GetCode())
				}
			}
		}

		if err := s.repo.Restore(ctx, id); err != nil {
			return s.enrichDuplicateErr(err, ent)
		}
		return nil
	})
}

// List retrieves entities of one mayoralty with filtering.
func (s *RecordService[T]) List(ctx context.Context, mayoraltyID int64, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, mayoraltyID, filter)
}

// Exists checks if an entity with the given ID exists in any state.
func (s *RecordService[T]) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// ExistsLive checks if a non-deleted entity with the given ID exists.
func (s *RecordService[T]) ExistsLive(ctx context.Context, id int64) (bool, error) {
	return s.repo.ExistsLive(ctx, id)
}
