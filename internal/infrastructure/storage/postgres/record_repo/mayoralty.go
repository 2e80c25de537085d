package record_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"municore/internal/core/apperror"
	"municore/internal/domain/mayoralty"
	"municore/internal/infrastructure/storage/postgres"
)

const mayoraltyTable = "mayoralties"

// ownedTables are the tables whose live rows keep a mayoralty from
// being deleted.
var ownedTables = []string{"secretariats", "subsecretariats", "officials", "projects"}

// MayoraltyRepo implements mayoralty.Repository.
type MayoraltyRepo struct {
	*BaseRecordRepo[*mayoralty.Mayoralty]
}

// NewMayoraltyRepo creates a new mayoralty repository.
func NewMayoraltyRepo(txManager *postgres.TxManager) *MayoraltyRepo {
	return &MayoraltyRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txManager,
			"mayoralty",
			mayoraltyTable,
			func() *mayoralty.Mayoralty { return &mayoralty.Mayoralty{} },
		),
	}
}

// GetByCode retrieves the live mayoralty with the given code.
// Mayoralty codes are global, not scoped to a tenant.
func (r *MayoraltyRepo) GetByCode(ctx context.Context, code string) (*mayoralty.Mayoralty, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"is_deleted": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m mayoralty.Mayoralty
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("mayoralty", code)
		}
		return nil, postgres.TranslateError(err, "mayoralty")
	}
	return &m, nil
}

// HasLiveOwned reports whether any live record still belongs to the
// mayoralty.
func (r *MayoraltyRepo) HasLiveOwned(ctx context.Context, id int64) (bool, error) {
	querier := r.txManager.GetQuerier(ctx)

	for _, table := range ownedTables {
		q := r.Builder().
			Select("1").
			From(table).
			Where(squirrel.Eq{"mayoralty_id": id}).
			Where(squirrel.Eq{"is_deleted": false}).
			Limit(1)

		sql, args, err := q.ToSql()
		if err != nil {
			return false, fmt.Errorf("build query: %w", err)
		}

		var one int
		err = querier.QueryRow(ctx, sql, args...).Scan(&one)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return false, postgres.TranslateError(err, "mayoralty")
		}
	}
	return false, nil
}
