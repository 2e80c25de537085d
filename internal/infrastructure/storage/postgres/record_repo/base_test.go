package record_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municore/internal/core/apperror"
	"municore/internal/domain/filter"
	"municore/internal/domain/secretariat"
)

// newTestRepo builds a repo over the secretariat table. The query
// builder methods under test never touch the transaction manager.
func newTestRepo() *BaseRecordRepo[*secretariat.Secretariat] {
	return NewBaseRecordRepo(nil, "secretariat", "secretariats",
		func() *secretariat.Secretariat { return &secretariat.Secretariat{} })
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "default", orderBy: "", want: "id ASC"},
		{name: "plain column", orderBy: "name", want: "name ASC"},
		{name: "descending", orderBy: "-created_at", want: "created_at DESC"},
		{name: "explicit ascending", orderBy: "+code", want: "code ASC"},
		{name: "unknown column", orderBy: "password", wantErr: true},
		{name: "injection attempt", orderBy: "name; DROP TABLE secretariats", wantErr: true},
		{name: "bare dash", orderBy: "-", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tc.orderBy)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsAppError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyAdvancedFilters(t *testing.T) {
	repo := newTestRepo()

	t.Run("supported operators", func(t *testing.T) {
		q, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{
			{Field: "active", Operator: filter.Equal, Value: true},
			{Field: "name", Operator: filter.Contains, Value: "plan"},
			{Field: "id", Operator: filter.InList, Value: []int64{1, 2, 3}},
			{Field: "deleted_at", Operator: filter.IsNull},
		})
		require.NoError(t, err)

		sql, args, err := q.ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "active = $")
		assert.Contains(t, sql, "name ILIKE $")
		assert.Contains(t, sql, "id IN ($")
		assert.Contains(t, sql, "deleted_at IS NULL")
		assert.Contains(t, args, "%plan%")
	})

	t.Run("unknown column rejected", func(t *testing.T) {
		_, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{
			{Field: "secret_col", Operator: filter.Equal, Value: 1},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsAppError(err))
	})

	t.Run("unknown operator rejected", func(t *testing.T) {
		_, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{
			{Field: "name", Operator: "regex", Value: ".*"},
		})
		require.Error(t, err)
	})
}

func TestBuildUpdateAssignsEachColumnOnce(t *testing.T) {
	repo := newTestRepo()

	ent := secretariat.New(7, "SEC-001", "Planning")
	ent.ID = 42
	ent.Touch()

	sql, args, id, err := repo.buildUpdate(ent)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NotEmpty(t, args)

	// A doubled assignment is a PostgreSQL syntax error (42601), so
	// every column must appear in the SET clause exactly once.
	setClause := sql[:strings.Index(sql, " WHERE ")]
	for _, col := range []string{"updated_at =", "active =", "code =", "description =", "name ="} {
		assert.Equalf(t, 1, strings.Count(setClause, col), "column %q", col)
	}

	// Identity, creation and deletion columns are never written.
	for _, col := range []string{"id =", "created_at =", "mayoralty_id =", "deleted_at =", "deleted_by ="} {
		assert.Zerof(t, strings.Count(setClause, col), "column %q", col)
	}

	assert.Contains(t, sql, "WHERE id = $")
	assert.Contains(t, sql, "is_deleted = $")
}

func TestBaseSelectUsesTaggedColumns(t *testing.T) {
	repo := newTestRepo()

	sql, _, err := repo.baseSelect().ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM secretariats")
	for _, col := range []string{"id", "mayoralty_id", "code", "name", "description", "is_deleted", "deleted_at", "deleted_by"} {
		assert.Contains(t, sql, col)
	}
	assert.True(t, repo.hasTenant)
}
