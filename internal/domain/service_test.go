package domain

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
)

// testRecord is a minimal tenant-scoped entity for exercising the
// generic lifecycle.
type testRecord struct {
	entity.TenantRecord
}

func newTestRecord(mayoraltyID int64, code, name string) *testRecord {
	return &testRecord{TenantRecord: entity.NewTenantRecord(mayoraltyID, code, name)}
}

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo is an in-memory TenantRecordRepository.
type memRepo struct {
	nextID  int64
	records map[int64]*testRecord
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[int64]*testRecord)}
}

func (r *memRepo) Create(_ context.Context, ent *testRecord) error {
	r.nextID++
	ent.ID = r.nextID
	r.records[ent.ID] = ent
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*testRecord, error) {
	ent, ok := r.records[id]
	if !ok {
		return nil, apperror.NewNotFound("record", id)
	}
	return ent, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, id int64) (*testRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *memRepo) Update(_ context.Context, ent *testRecord) error {
	existing, ok := r.records[ent.ID]
	if !ok || existing.IsDeleted {
		return apperror.NewNotFound("record", ent.ID)
	}
	r.records[ent.ID] = ent
	return nil
}

func (r *memRepo) MarkDeleted(_ context.Context, id int64, actor string, deletedAt time.Time) error {
	ent, ok := r.records[id]
	if !ok || ent.IsDeleted {
		return apperror.NewNotFound("record", id)
	}
	ent.MarkDeleted(actor, deletedAt)
	return nil
}

func (r *memRepo) Restore(_ context.Context, id int64) error {
	ent, ok := r.records[id]
	if !ok || !ent.IsDeleted {
		return apperror.NewNotFound("record", id)
	}
	ent.ClearDeleted()
	return nil
}

func (r *memRepo) List(_ context.Context, mayoraltyID int64, f ListFilter) (ListResult[*testRecord], error) {
	var items []*testRecord
	for _, ent := range r.records {
		if ent.MayoraltyID != mayoraltyID {
			continue
		}
		if ent.IsDeleted && !f.IncludeDeleted {
			continue
		}
		items = append(items, ent)
	}
	return ListResult[*testRecord]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *memRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.records[id]
	return ok, nil
}

func (r *memRepo) ExistsLive(_ context.Context, id int64) (bool, error) {
	ent, ok := r.records[id]
	return ok && !ent.IsDeleted, nil
}

func (r *memRepo) GetByCode(_ context.Context, mayoraltyID int64, code string) (*testRecord, error) {
	for _, ent := range r.records {
		if ent.MayoraltyID == mayoraltyID && ent.Code == code && !ent.IsDeleted {
			return ent, nil
		}
	}
	return nil, apperror.NewNotFound("record", code)
}

func (r *memRepo) CodeInUse(_ context.Context, mayoraltyID int64, code string, excludeID int64) (bool, error) {
	for _, ent := range r.records {
		if ent.ID != excludeID && ent.MayoraltyID == mayoraltyID && ent.Code == code && !ent.IsDeleted {
			return true, nil
		}
	}
	return false, nil
}

// seqCodes hands out "T-1", "T-2", ...
type seqCodes struct {
	n int
}

func (c *seqCodes) Next(_ context.Context, _ int64, _ string) (string, error) {
	c.n++
	return fmt.Sprintf("T-%d", c.n), nil
}

// captureRecorder records archive appends.
type captureRecorder struct {
	entries []archivedCall
}

type archivedCall struct {
	table     string
	recordID  int64
	tenant    *int64
	snapshot  map[string]any
	deletedAt time.Time
	actor     string
	reason    *string
}

func (r *captureRecorder) Append(_ context.Context, table string, recordID int64, tenant *int64, snapshot map[string]any, deletedAt time.Time, actor string, reason *string) error {
	r.entries = append(r.entries, archivedCall{table, recordID, tenant, snapshot, deletedAt, actor, reason})
	return nil
}

func newTestService(repo *memRepo, rec *captureRecorder) *RecordService[*testRecord] {
	return NewRecordService(RecordServiceConfig[*testRecord]{
		Repo:       repo,
		TxManager:  passthroughTx{},
		Archive:    rec,
		Codes:      &seqCodes{},
		EntityName: "record",
		TableName:  "records",
		Snapshot: func(ent *testRecord) map[string]any {
			return map[string]any{"id": ent.ID, "code": ent.Code, "name": ent.Name}
		},
	})
}

func TestRecordService_CreateGeneratesCode(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})

	ent := newTestRecord(7, "", "Registry Office")
	require.NoError(t, svc.Create(context.Background(), ent))

	assert.Equal(t, int64(1), ent.ID)
	assert.Equal(t, "T-1", ent.Code)
}

func TestRecordService_CreateRejectsDuplicateCode(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, newTestRecord(7, "REG-1", "First")))

	err := svc.Create(ctx, newTestRecord(7, "REG-1", "Second"))
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicateCode(err))

	// Same code in a different mayoralty is fine.
	require.NoError(t, svc.Create(ctx, newTestRecord(8, "REG-1", "Elsewhere")))
}

func TestRecordService_SoftDeleteArchivesSnapshot(t *testing.T) {
	repo := newMemRepo()
	rec := &captureRecorder{}
	svc := newTestService(repo, rec)
	ctx := context.Background()

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))

	reason := "reorganization"
	require.NoError(t, svc.SoftDelete(ctx, ent.ID, "clerk.ruiz", &reason))

	stored := repo.records[ent.ID]
	assert.True(t, stored.IsDeleted)
	require.NotNil(t, stored.DeletedBy)
	assert.Equal(t, "clerk.ruiz", *stored.DeletedBy)
	assert.NotNil(t, stored.DeletedAt)

	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, "records", entry.table)
	assert.Equal(t, ent.ID, entry.recordID)
	require.NotNil(t, entry.tenant)
	assert.Equal(t, int64(7), *entry.tenant)
	assert.Equal(t, "clerk.ruiz", entry.actor)
	require.NotNil(t, entry.reason)
	assert.Equal(t, reason, *entry.reason)
	assert.Equal(t, "REG-1", entry.snapshot["code"])

	// Row and ledger carry the exact same deletion timestamp.
	assert.True(t, stored.DeletedAt.Equal(entry.deletedAt))
}

func TestRecordService_SoftDeleteRequiresActor(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})
	ctx := context.Background()

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))

	err := svc.SoftDelete(ctx, ent.ID, "", nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecordService_RedeleteIsNotFound(t *testing.T) {
	repo := newMemRepo()
	rec := &captureRecorder{}
	svc := newTestService(repo, rec)
	ctx := context.Background()

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))
	require.NoError(t, svc.SoftDelete(ctx, ent.ID, "clerk.ruiz", nil))

	err := svc.SoftDelete(ctx, ent.ID, "clerk.ruiz", nil)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// The second attempt must not have archived anything.
	assert.Len(t, rec.entries, 1)
}

func TestRecordService_UpdateDeletedIsNotFound(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})
	ctx := context.Background()

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))
	require.NoError(t, svc.SoftDelete(ctx, ent.ID, "clerk.ruiz", nil))

	ent.Name = "Renamed"
	err := svc.Update(ctx, ent)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordService_RestoreRevivesRow(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})
	ctx := context.Background()

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))
	require.NoError(t, svc.SoftDelete(ctx, ent.ID, "clerk.ruiz", nil))

	require.NoError(t, svc.Restore(ctx, ent.ID))

	stored := repo.records[ent.ID]
	assert.False(t, stored.IsDeleted)
	assert.Nil(t, stored.DeletedAt)
	assert.Nil(t, stored.DeletedBy)
}

func TestRecordService_RestoreLiveRowIsConflict(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})
	ctx := context.Background()

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))

	err := svc.Restore(ctx, ent.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestRecordService_RestoreBlockedByCodeReuse(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})
	ctx := context.Background()

	first := newTestRecord(7, "REG-1", "Original")
	require.NoError(t, svc.Create(ctx, first))
	require.NoError(t, svc.SoftDelete(ctx, first.ID, "clerk.ruiz", nil))

	// The code is free again, so a new live row may take it.
	second := newTestRecord(7, "REG-1", "Replacement")
	require.NoError(t, svc.Create(ctx, second))

	err := svc.Restore(ctx, first.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicateCode(err))
}

func TestRecordService_BeforeDeleteHookRunsInsideDeletion(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})
	ctx := context.Background()

	var hookSaw *testRecord
	svc.Hooks().OnBeforeDelete(func(_ context.Context, ent *testRecord) error {
		hookSaw = ent
		return nil
	})

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))
	require.NoError(t, svc.SoftDelete(ctx, ent.ID, "clerk.ruiz", nil))

	require.NotNil(t, hookSaw)
	assert.Equal(t, ent.ID, hookSaw.ID)
}

func TestRecordService_BeforeDeleteHookFailureAbortsDeletion(t *testing.T) {
	repo := newMemRepo()
	rec := &captureRecorder{}
	svc := newTestService(repo, rec)
	ctx := context.Background()

	svc.Hooks().OnBeforeDelete(func(_ context.Context, _ *testRecord) error {
		return apperror.NewConflict("record still referenced")
	})

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))

	err := svc.SoftDelete(ctx, ent.ID, "clerk.ruiz", nil)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.False(t, repo.records[ent.ID].IsDeleted)
	assert.Empty(t, rec.entries)
}

func TestRecordService_GetByCode(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, &captureRecorder{})
	ctx := context.Background()

	ent := newTestRecord(7, "REG-1", "Registry Office")
	require.NoError(t, svc.Create(ctx, ent))

	got, err := svc.GetByCode(ctx, 7, "REG-1")
	require.NoError(t, err)
	assert.Equal(t, ent.ID, got.ID)

	_, err = svc.GetByCode(ctx, 8, "REG-1")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
