// Package record_repo provides the PostgreSQL implementation of the
// generic record repository shared by all audited entities.
package record_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
	"municore/internal/domain"
	"municore/internal/domain/filter"
	"municore/internal/infrastructure/storage/postgres"
)

// immutableCols are never written by Update: identity and creation
// metadata are fixed, deletion fields are managed by MarkDeleted/Restore.
var immutableCols = map[string]struct{}{
	"id":           {},
	"created_at":   {},
	"mayoralty_id": {},
	"is_deleted":   {},
	"deleted_at":   {},
	"deleted_by":   {},
}

// BaseRecordRepo provides common lifecycle operations for audited
// entities. Embed this in specific entity repositories.
//
// All tenants share one database; tenant scoping happens through the
// mayoralty_id column, passed explicitly by the service layer.
type BaseRecordRepo[T any] struct {
	txManager  *postgres.TxManager
	entityName string
	tableName  string
	selectCols []string
	hasTenant  bool
	newFn      func() T
}

// NewBaseRecordRepo creates a new base record repository.
// Columns are derived from the entity's "db" tags once, at construction.
func NewBaseRecordRepo[T any](
	txManager *postgres.TxManager,
	entityName string,
	tableName string,
	newFn func() T,
) *BaseRecordRepo[T] {
	cols := postgres.ExtractDBColumns[T]()
	hasTenant := false
	for _, col := range cols {
		if col == "mayoralty_id" {
			hasTenant = true
			break
		}
	}
	return &BaseRecordRepo[T]{
		txManager:  txManager,
		entityName: entityName,
		tableName:  tableName,
		selectCols: cols,
		hasTenant:  hasTenant,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseRecordRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// TableName returns the underlying table name.
func (r *BaseRecordRepo[T]) TableName() string {
	return r.tableName
}

// Snapshot captures the entity's column values for the deletion archive.
func (r *BaseRecordRepo[T]) Snapshot(ent T) map[string]any {
	return postgres.StructToMap(ent)
}

// Create inserts a new entity using its "db" tags and reads the
// storage-assigned identity back into it.
func (r *BaseRecordRepo[T]) Create(ctx context.Context, ent T) error {
	data := postgres.StructToMap(ent)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	insertData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" {
			continue // assigned by storage
		}
		if val, ok := data[col]; ok {
			insertData[col] = val
		}
	}

	q := r.Builder().
		Insert(r.tableName).
		SetMap(insertData).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var newID int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return postgres.TranslateError(err, r.entityName)
	}

	if identified, ok := any(ent).(entity.Identified); ok {
		identified.SetID(newID)
	}
	return nil
}

// baseSelect creates a SELECT builder over all entity columns.
func (r *BaseRecordRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves entity by ID regardless of deletion state.
func (r *BaseRecordRepo[T]) GetByID(ctx context.Context, id int64) (T, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": id}).Limit(1), id)
}

// GetForUpdate retrieves entity by ID with a row lock.
func (r *BaseRecordRepo[T]) GetForUpdate(ctx context.Context, id int64) (T, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"), id)
}

func (r *BaseRecordRepo[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, key any) (T, error) {
	ent := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return ent, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, ent, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return ent, apperror.NewNotFound(r.entityName, key)
		}
		return ent, postgres.TranslateError(err, r.entityName)
	}
	return ent, nil
}

// buildUpdate assembles the UPDATE statement for a live entity.
// updated_at is skipped when copying columns and assigned exactly once
// with the write timestamp; a second assignment would be rejected by
// PostgreSQL (42601).
func (r *BaseRecordRepo[T]) buildUpdate(ent T) (string, []any, any, error) {
	data := postgres.StructToMap(ent)
	if len(data) == 0 {
		return "", nil, nil, fmt.Errorf("no db tags found in entity")
	}

	entityID, ok := data["id"]
	if !ok {
		return "", nil, nil, fmt.Errorf("entity has no 'id' field with db tag")
	}

	setData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if _, immutable := immutableCols[col]; immutable {
			continue
		}
		if col == "updated_at" {
			continue // assigned below with the write timestamp
		}
		if val, ok := data[col]; ok {
			setData[col] = val
		}
	}

	q := r.Builder().
		Update(r.tableName).
		SetMap(setData).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"is_deleted": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return "", nil, nil, fmt.Errorf("build update: %w", err)
	}
	return sql, args, entityID, nil
}

// Update modifies an existing live entity. A soft-deleted or missing
// target yields a not-found error.
func (r *BaseRecordRepo[T]) Update(ctx context.Context, ent T) error {
	sql, args, entityID, err := r.buildUpdate(ent)
	if err != nil {
		return err
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, r.entityName)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID)
	}
	return nil
}

// MarkDeleted sets the soft-delete fields on a live row. The caller
// supplies deletedAt so the row and its archive entry carry the same
// timestamp. Deleting an already-deleted row is reported as not found:
// the caller acted on stale state.
func (r *BaseRecordRepo[T]) MarkDeleted(ctx context.Context, id int64, actor string, deletedAt time.Time) error {
	q := r.Builder().
		Update(r.tableName).
		Set("is_deleted", true).
		Set("deleted_at", deletedAt).
		Set("deleted_by", actor).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_deleted": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build mark deleted: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, r.entityName)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, id)
	}
	return nil
}

// Restore clears the soft-delete fields of a deleted row. The partial
// unique indexes fire here when a live row meanwhile took the code or
// pair; the violation surfaces as a translated conflict.
func (r *BaseRecordRepo[T]) Restore(ctx context.Context, id int64) error {
	q := r.Builder().
		Update(r.tableName).
		Set("is_deleted", false).
		Set("deleted_at", nil).
		Set("deleted_by", nil).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_deleted": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build restore: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, r.entityName)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, id)
	}
	return nil
}

// List retrieves entities of one mayoralty with filtering and pagination.
func (r *BaseRecordRepo[T]) List(ctx context.Context, mayoraltyID int64, f domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := r.baseSelect()

	if r.hasTenant && mayoraltyID > 0 {
		q = q.Where(squirrel.Eq{"mayoralty_id": mayoraltyID})
	}

	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"is_deleted": false})
	}

	if f.Active != nil {
		q = q.Where(squirrel.Eq{"active": *f.Active})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}

	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": f.IDs})
	}

	var err error
	q, err = r.applyAdvancedFilters(q, f.AdvancedFilters)
	if err != nil {
		return domain.ListResult[T]{}, err
	}

	// Count total before pagination
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, postgres.TranslateError(err, r.entityName)
	}

	orderBy, err := r.parseOrderBy(f.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, postgres.TranslateError(err, r.entityName)
	}

	return result, nil
}

// applyAdvancedFilters applies ad-hoc conditions to query.
func (r *BaseRecordRepo[T]) applyAdvancedFilters(q squirrel.SelectBuilder, filters []filter.Item) (squirrel.SelectBuilder, error) {
	// Whitelist columns for SQL injection protection
	validCols := make(map[string]bool, len(r.selectCols))
	for _, col := range r.selectCols {
		validCols[col] = true
	}

	for _, item := range filters {
		if !validCols[item.Field] {
			return q, apperror.NewValidation("invalid filter column").WithDetail("field", item.Field)
		}

		switch item.Operator {
		case filter.Equal:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotInList:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		case filter.NotContains:
			q = q.Where(squirrel.NotILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		default:
			return q, apperror.NewValidation("unsupported filter operator").WithDetail("operator", string(item.Operator))
		}
	}

	return q, nil
}

// Exists checks if a row with the given ID exists in any deletion state.
func (r *BaseRecordRepo[T]) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"id": id})
}

// ExistsLive checks if a non-deleted row with the given ID exists.
func (r *BaseRecordRepo[T]) ExistsLive(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, squirrel.And{
		squirrel.Eq{"id": id},
		squirrel.Eq{"is_deleted": false},
	})
}

// ExistsLiveIn checks if a non-deleted row with the given ID exists
// within the mayoralty. Used for reference validation so relationships
// never reach across tenants.
func (r *BaseRecordRepo[T]) ExistsLiveIn(ctx context.Context, mayoraltyID, id int64) (bool, error) {
	cond := squirrel.And{
		squirrel.Eq{"id": id},
		squirrel.Eq{"is_deleted": false},
	}
	if r.hasTenant {
		cond = append(cond, squirrel.Eq{"mayoralty_id": mayoraltyID})
	}
	return r.exists(ctx, cond)
}

func (r *BaseRecordRepo[T]) exists(ctx context.Context, cond squirrel.Sqlizer) (bool, error) {
	q := r.Builder().
		Select("1").
		From(r.tableName).
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, postgres.TranslateError(err, r.entityName)
	}
	return true, nil
}

// GetByCode retrieves the live entity with the given code within a mayoralty.
func (r *BaseRecordRepo[T]) GetByCode(ctx context.Context, mayoraltyID int64, code string) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"mayoralty_id": mayoraltyID}).
		Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"is_deleted": false}).
		Limit(1)
	return r.getOne(ctx, q, code)
}

// CodeInUse checks whether another live row of the mayoralty already
// carries the code. excludeID skips the row being updated or restored.
func (r *BaseRecordRepo[T]) CodeInUse(ctx context.Context, mayoraltyID int64, code string, excludeID int64) (bool, error) {
	cond := squirrel.And{
		squirrel.Eq{"mayoralty_id": mayoraltyID},
		squirrel.Eq{"code": code},
		squirrel.Eq{"is_deleted": false},
	}
	if excludeID > 0 {
		cond = append(cond, squirrel.NotEq{"id": excludeID})
	}
	return r.exists(ctx, cond)
}

func (r *BaseRecordRepo[T]) parseOrderBy(orderBy string) (string, error) {
	allowed := make(map[string]struct{}, len(r.selectCols))
	for _, col := range r.selectCols {
		allowed[col] = struct{}{}
	}

	if orderBy == "" {
		orderBy = "id"
	}

	// Support "-field" for DESC.
	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
	}

	return field + " " + direction, nil
}
