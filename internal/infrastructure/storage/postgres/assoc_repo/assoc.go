// Package assoc_repo provides the PostgreSQL store for many-to-many
// association rows. One instance serves one join table; the physical
// owner and counterpart columns are aliased to the logical left/right
// roles the domain works with.
package assoc_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
	"municore/internal/infrastructure/storage/postgres"
)

// AssocRepo persists association rows for one join table.
type AssocRepo struct {
	txManager *postgres.TxManager
	table     string
	leftCol   string
	rightCol  string
}

// New creates an association repository over the given join table.
// leftCol and rightCol are the physical FK column names, e.g.
// "subsecretariat_id" and "secretariat_id".
func New(txManager *postgres.TxManager, table, leftCol, rightCol string) *AssocRepo {
	return &AssocRepo{
		txManager: txManager,
		table:     table,
		leftCol:   leftCol,
		rightCol:  rightCol,
	}
}

func (r *AssocRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// selectCols aliases the physical FK columns to the logical roles.
func (r *AssocRepo) selectCols() []string {
	return []string{
		"id", "created_at", "updated_at", "active",
		"is_deleted", "deleted_at", "deleted_by",
		r.leftCol + " AS left_id",
		r.rightCol + " AS right_id",
	}
}

// ListByLeft returns the full row history of one owner: live and
// soft-deleted rows alike. The reconciler depends on seeing both.
func (r *AssocRepo) ListByLeft(ctx context.Context, leftID int64) ([]*entity.Association, error) {
	q := r.builder().
		Select(r.selectCols()...).
		From(r.table).
		Where(squirrel.Eq{r.leftCol: leftID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*entity.Association
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, postgres.TranslateError(err, r.table)
	}
	return rows, nil
}

// ListLiveByRight returns the live owner IDs referencing the counterpart.
func (r *AssocRepo) ListLiveByRight(ctx context.Context, rightID int64) ([]int64, error) {
	q := r.builder().
		Select(r.leftCol).
		From(r.table).
		Where(squirrel.Eq{r.rightCol: rightID}).
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy(r.leftCol)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []int64
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &ids, sql, args...); err != nil {
		return nil, postgres.TranslateError(err, r.table)
	}
	return ids, nil
}

// Insert creates a live association row and reads the assigned identity
// back. The partial unique index on the live (left, right) pair turns a
// concurrent duplicate into a translated conflict.
func (r *AssocRepo) Insert(ctx context.Context, assoc *entity.Association) error {
	q := r.builder().
		Insert(r.table).
		SetMap(map[string]any{
			"created_at": assoc.CreatedAt,
			"active":     assoc.Active,
			"is_deleted": assoc.IsDeleted,
			r.leftCol:    assoc.LeftID,
			r.rightCol:   assoc.RightID,
		}).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&assoc.ID); err != nil {
		return postgres.TranslateError(err, r.table)
	}
	return nil
}

// Restore clears the deletion mark of one row.
func (r *AssocRepo) Restore(ctx context.Context, id int64) error {
	q := r.builder().
		Update(r.table).
		Set("is_deleted", false).
		Set("deleted_at", nil).
		Set("deleted_by", nil).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_deleted": true})

	return r.execOne(ctx, q, id)
}

// MarkDeleted soft-deletes one live row. The caller supplies deletedAt
// so the row and its archive entry carry the same timestamp.
func (r *AssocRepo) MarkDeleted(ctx context.Context, id int64, actor string, deletedAt time.Time) error {
	q := r.builder().
		Update(r.table).
		Set("is_deleted", true).
		Set("deleted_at", deletedAt).
		Set("deleted_by", actor).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_deleted": false})

	return r.execOne(ctx, q, id)
}

func (r *AssocRepo) execOne(ctx context.Context, q squirrel.UpdateBuilder, id int64) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, r.table)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table, id)
	}
	return nil
}

// RetireByLeft soft-deletes every live row of the owner and returns the
// retired rows in their pre-deletion state for archiving.
func (r *AssocRepo) RetireByLeft(ctx context.Context, leftID int64, actor string, deletedAt time.Time) ([]*entity.Association, error) {
	return r.retireWhere(ctx, squirrel.Eq{r.leftCol: leftID}, actor, deletedAt)
}

// RetireByRight soft-deletes every live row referencing the counterpart
// and returns the retired rows in their pre-deletion state.
func (r *AssocRepo) RetireByRight(ctx context.Context, rightID int64, actor string, deletedAt time.Time) ([]*entity.Association, error) {
	return r.retireWhere(ctx, squirrel.Eq{r.rightCol: rightID}, actor, deletedAt)
}

func (r *AssocRepo) retireWhere(ctx context.Context, cond squirrel.Sqlizer, actor string, deletedAt time.Time) ([]*entity.Association, error) {
	q := r.builder().
		Update(r.table).
		Set("is_deleted", true).
		Set("deleted_at", deletedAt).
		Set("deleted_by", actor).
		Where(cond).
		Where(squirrel.Eq{"is_deleted": false}).
		Suffix("RETURNING " + strings.Join(r.selectCols(), ", "))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build retire: %w", err)
	}

	var retired []*entity.Association
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &retired, sql, args...); err != nil {
		return nil, postgres.TranslateError(err, r.table)
	}

	// The rows come back already marked; callers archive the state the
	// row had before retirement.
	for _, row := range retired {
		row.IsDeleted = false
		row.DeletedAt = nil
		row.DeletedBy = nil
	}
	return retired, nil
}
