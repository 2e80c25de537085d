// Package archive_repo provides the PostgreSQL store for the deletion
// archive. The table is append-only: no update or delete paths exist.
package archive_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"municore/internal/core/apperror"
	"municore/internal/domain/archive"
	"municore/internal/infrastructure/storage/postgres"
)

var selectCols = []string{
	"id", "source_table", "source_record_id",
	"snapshot", "snapshot_compressed", "compression_algo",
	"deleted_at", "deleted_by", "reason", "mayoralty_id",
}

// ArchiveRepo persists deletion archive entries.
type ArchiveRepo struct {
	txManager *postgres.TxManager
}

func New(txManager *postgres.TxManager) *ArchiveRepo {
	return &ArchiveRepo{txManager: txManager}
}

func (r *ArchiveRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Insert appends one entry and reads the assigned identity back.
func (r *ArchiveRepo) Insert(ctx context.Context, entry *archive.Entry) error {
	q := r.builder().
		Insert("deletion_archive").
		SetMap(map[string]any{
			"source_table":        entry.SourceTable,
			"source_record_id":    entry.SourceRecordID,
			"snapshot":            entry.Snapshot,
			"snapshot_compressed": entry.SnapshotCompressed,
			"compression_algo":    string(entry.CompressionAlgo),
			"deleted_at":          entry.DeletedAt,
			"deleted_by":          entry.DeletedBy,
			"reason":              entry.Reason,
			"mayoralty_id":        entry.MayoraltyID,
		}).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&entry.ID); err != nil {
		return postgres.TranslateError(err, "archive entry")
	}
	return nil
}

// GetByID retrieves one entry.
func (r *ArchiveRepo) GetByID(ctx context.Context, id int64) (*archive.Entry, error) {
	q := r.builder().
		Select(selectCols...).
		From("deletion_archive").
		Where(squirrel.Eq{"id": id}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entry := &archive.Entry{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("archive entry", id)
		}
		return nil, postgres.TranslateError(err, "archive entry")
	}
	return entry, nil
}

// Find retrieves entries matching the query, newest first.
func (r *ArchiveRepo) Find(ctx context.Context, query archive.Query) ([]*archive.Entry, error) {
	q := r.applyQuery(r.builder().Select(selectCols...).From("deletion_archive"), query).
		OrderBy("deleted_at DESC", "id DESC")

	if query.Limit > 0 {
		q = q.Limit(uint64(query.Limit))
	}
	if query.Offset > 0 {
		q = q.Offset(uint64(query.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*archive.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, postgres.TranslateError(err, "archive entry")
	}
	return entries, nil
}

// Count returns the number of entries matching the query.
func (r *ArchiveRepo) Count(ctx context.Context, query archive.Query) (int64, error) {
	q := r.applyQuery(r.builder().Select("COUNT(*)").From("deletion_archive"), query)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, postgres.TranslateError(err, "archive entry")
	}
	return count, nil
}

func (r *ArchiveRepo) applyQuery(q squirrel.SelectBuilder, query archive.Query) squirrel.SelectBuilder {
	if query.SourceTable != "" {
		q = q.Where(squirrel.Eq{"source_table": query.SourceTable})
	}
	if query.SourceRecordID > 0 {
		q = q.Where(squirrel.Eq{"source_record_id": query.SourceRecordID})
	}
	if query.MayoraltyID != nil {
		q = q.Where(squirrel.Eq{"mayoralty_id": *query.MayoraltyID})
	}
	if !query.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"deleted_at": query.From})
	}
	if !query.To.IsZero() {
		q = q.Where(squirrel.Lt{"deleted_at": query.To})
	}
	return q
}
