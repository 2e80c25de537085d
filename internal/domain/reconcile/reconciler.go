package reconcile

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

// AssociationStore persists join rows for one association kind.
// ListByLeft must return the full history of the owner: live and
// soft-deleted rows alike.
type AssociationStore interface {
	ListByLeft(ctx context.Context, leftID int64) ([]*entity.Association, error)
	Insert(ctx context.Context, assoc *entity.Association) error
	Restore(ctx context.Context, id int64) error
	MarkDeleted(ctx context.Context, id int64, actor string, deletedAt time.Time) error
	RetireByLeft(ctx context.Context, leftID int64, actor string, deletedAt time.Time) ([]*entity.Association, error)
	RetireByRight(ctx context.Context, rightID int64, actor string, deletedAt time.Time) ([]*entity.Association, error)
}

// ReferenceChecker verifies that a counterpart row exists, is live, and
// belongs to the given mayoralty. Relationships never cross tenants.
type ReferenceChecker interface {
	ExistsLiveIn(ctx context.Context, mayoraltyID, id int64) (bool, error)
}

// Result reports what a synchronization did, in counterpart (right) IDs.
type Result struct {
	Restored []int64 `json:"restored"`
	Kept     []int64 `json:"kept"`
	Retired  []int64 `json:"retired"`
	Created  []int64 `json:"created"`
}

// Changed reports whether any write was performed.
func (r Result) Changed() bool {
	return len(r.Restored) > 0 || len(r.Retired) > 0 || len(r.Created) > 0
}

// Reconciler applies desired-state synchronization for one association
// kind (one join table). It is safe for concurrent use; the partial
// unique index on live (left, right) pairs is the backstop for
// concurrent synchronizations of the same owner.
type Reconciler struct {
	store     AssociationStore
	refs      ReferenceChecker
	txManager tx.Manager
	archive   archive.Recorder

	// table names the join table in archive entries and error details
	table string

	// rightEntity names the counterpart kind in reference errors
	rightEntity string
}

// Config configures a Reconciler.
type Config struct {
	Store       AssociationStore
	Refs        ReferenceChecker
	TxManager   tx.Manager
	Archive     archive.Recorder
	Table       string
	RightEntity string
}

func New(cfg Config) *Reconciler {
	return &Reconciler{
		store:       cfg.Store,
		refs:        cfg.Refs,
		txManager:   cfg.TxManager,
		archive:     cfg.Archive,
		table:       cfg.Table,
		rightEntity: cfg.RightEntity,
	}
}

// Sync makes the live association set of the owner equal the desired
// counterpart set, in one transaction.
//
// Counterparts that would need a brand-new row are validated to exist
// (live) before any write; a dangling reference fails the whole call.
// Retired rows are archived. A desired set already in effect performs
// no writes and returns a keep-only result. Sync is idempotent: running
// it twice with the same desired set leaves storage unchanged.
func (r *Reconciler) Sync(ctx context.Context, mayoraltyID, leftID int64, desired []int64, actor string) (Result, error) {
	var result Result
	if actor == "" {
		return result, apperror.NewValidation("acting user is required")
	}

	err := r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := r.store.ListByLeft(ctx, leftID)
		if err != nil {
			return fmt.Errorf("load %s history: %w", r.table, err)
		}

		byID := make(map[int64]*entity.Association, len(existing))
		for _, row := range existing {
			byID[row.ID] = row
		}

		plan := BuildPlan(existing, desired)
		result = planResult(plan, byID)

		if plan.IsNoop() {
			return nil
		}

		// Validate the create set up front so a single dangling
		// reference leaves storage untouched.
		for _, rightID := range plan.Create {
			ok, err := r.refs.ExistsLiveIn(ctx, mayoraltyID, rightID)
			if err != nil {
				return fmt.Errorf("check %s %d: %w", r.rightEntity, rightID, err)
			}
			if !ok {
				return apperror.NewInvalidReference(r.rightEntity, rightID).
					WithDetail("table", r.table)
			}
		}

		for _, rowID := range plan.Restore {
			if err := r.store.Restore(ctx, rowID); err != nil {
				return fmt.Errorf("restore %s row %d: %w", r.table, rowID, err)
			}
		}

		// One timestamp for the retired rows and their ledger entries.
		retiredAt := time.Now().UTC()
		for _, rowID := range plan.Retire {
			row := byID[rowID]
			if err := r.store.MarkDeleted(ctx, rowID, actor, retiredAt); err != nil {
				return fmt.Errorf("retire %s row %d: %w", r.table, rowID, err)
			}
			if r.archive != nil {
				if err := r.archive.Append(ctx, r.table, rowID, &mayoraltyID, snapshotRow(row), retiredAt, actor, nil); err != nil {
					return fmt.Errorf("archive %s row %d: %w", r.table, rowID, err)
				}
			}
		}

		for _, rightID := range plan.Create {
			assoc := entity.NewAssociation(leftID, rightID)
			if err := r.store.Insert(ctx, &assoc); err != nil {
				return fmt.Errorf("create %s row for %d: %w", r.table, rightID, err)
			}
		}

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if result.Changed() {
		logger.Info(ctx, "associations synchronized",
			"table", r.table,
			"left_id", leftID,
			"restored", len(result.Restored),
			"retired", len(result.Retired),
			"created", len(result.Created),
		)
	}
	return result, nil
}

// RetireAllByLeft soft-deletes every live row of the owner and archives
// each. Used by cascade retirement when the owner itself is deleted;
// the caller supplies the surrounding transaction.
func (r *Reconciler) RetireAllByLeft(ctx context.Context, mayoraltyID, leftID int64, actor string) error {
	retiredAt := time.Now().UTC()
	retired, err := r.store.RetireByLeft(ctx, leftID, actor, retiredAt)
	if err != nil {
		return fmt.Errorf("retire %s rows of owner %d: %w", r.table, leftID, err)
	}
	return r.archiveRetired(ctx, mayoraltyID, retired, actor, retiredAt)
}

// RetireAllByRight soft-deletes every live row referencing the
// counterpart and archives each. Used by cascade retirement when the
// counterpart is deleted; the caller supplies the surrounding transaction.
func (r *Reconciler) RetireAllByRight(ctx context.Context, mayoraltyID, rightID int64, actor string) error {
	retiredAt := time.Now().UTC()
	retired, err := r.store.RetireByRight(ctx, rightID, actor, retiredAt)
	if err != nil {
		return fmt.Errorf("retire %s rows of counterpart %d: %w", r.table, rightID, err)
	}
	return r.archiveRetired(ctx, mayoraltyID, retired, actor, retiredAt)
}

func (r *Reconciler) archiveRetired(ctx context.Context, mayoraltyID int64, retired []*entity.Association, actor string, retiredAt time.Time) error {
	if r.archive == nil {
		return nil
	}
	for _, row := range retired {
		if err := r.archive.Append(ctx, r.table, row.ID, &mayoraltyID, snapshotRow(row), retiredAt, actor, nil); err != nil {
			return fmt.Errorf("archive %s row %d: %w", r.table, row.ID, err)
		}
	}
	return nil
}

// ListLive returns the live counterpart IDs of the owner.
func (r *Reconciler) ListLive(ctx context.Context, leftID int64) ([]int64, error) {
	rows, err := r.store.ListByLeft(ctx, leftID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if !row.IsDeleted {
			ids = append(ids, row.RightID)
		}
	}
	return ids, nil
}

// planResult maps row IDs back to counterpart IDs for the caller.
func planResult(plan Plan, byID map[int64]*entity.Association) Result {
	toRight := func(rowIDs []int64) []int64 {
		if len(rowIDs) == 0 {
			return nil
		}
		out := make([]int64, 0, len(rowIDs))
		for _, rowID := range rowIDs {
			if row, ok := byID[rowID]; ok {
				out = append(out, row.RightID)
			}
		}
		return out
	}
	return Result{
		Restored: toRight(plan.Restore),
		Kept:     toRight(plan.Keep),
		Retired:  toRight(plan.Retire),
		Created:  append([]int64(nil), plan.Create...),
	}
}

// snapshotRow captures the pre-retirement state of a join row for the
// deletion archive.
func snapshotRow(row *entity.Association) map[string]any {
	snap := map[string]any{
		"id":         row.ID,
		"left_id":    row.LeftID,
		"right_id":   row.RightID,
		"created_at": row.CreatedAt.Format(time.RFC3339Nano),
		"active":     row.Active,
		"is_deleted": row.IsDeleted,
	}
	if row.UpdatedAt != nil {
		snap["updated_at"] = row.UpdatedAt.Format(time.RFC3339Nano)
	}
	return snap
}
