package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municore/internal/core/apperror"
	"municore/internal/core/entity"
)

// Mock objects

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStore struct {
	rows   map[int64]*entity.Association
	nextID int64

	inserts  []int64 // right IDs inserted
	restores []int64 // row IDs restored
	retires  []int64 // row IDs retired
}

func newFakeStore(rows ...*entity.Association) *fakeStore {
	s := &fakeStore{rows: make(map[int64]*entity.Association), nextID: 1000}
	for _, row := range rows {
		s.rows[row.ID] = row
	}
	return s
}

func (s *fakeStore) ListByLeft(_ context.Context, leftID int64) ([]*entity.Association, error) {
	var out []*entity.Association
	for _, row := range s.rows {
		if row.LeftID == leftID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeStore) Insert(_ context.Context, assoc *entity.Association) error {
	s.nextID++
	assoc.ID = s.nextID
	s.rows[assoc.ID] = assoc
	s.inserts = append(s.inserts, assoc.RightID)
	return nil
}

func (s *fakeStore) Restore(_ context.Context, id int64) error {
	s.rows[id].ClearDeleted()
	s.restores = append(s.restores, id)
	return nil
}

func (s *fakeStore) MarkDeleted(_ context.Context, id int64, actor string, deletedAt time.Time) error {
	s.rows[id].MarkDeleted(actor, deletedAt)
	s.retires = append(s.retires, id)
	return nil
}

func (s *fakeStore) RetireByLeft(_ context.Context, leftID int64, actor string, deletedAt time.Time) ([]*entity.Association, error) {
	var retired []*entity.Association
	for _, row := range s.rows {
		if row.LeftID == leftID && !row.IsDeleted {
			row.MarkDeleted(actor, deletedAt)
			s.retires = append(s.retires, row.ID)
			retired = append(retired, row)
		}
	}
	return retired, nil
}

func (s *fakeStore) RetireByRight(_ context.Context, rightID int64, actor string, deletedAt time.Time) ([]*entity.Association, error) {
	var retired []*entity.Association
	for _, row := range s.rows {
		if row.RightID == rightID && !row.IsDeleted {
			row.MarkDeleted(actor, deletedAt)
			s.retires = append(s.retires, row.ID)
			retired = append(retired, row)
		}
	}
	return retired, nil
}

func (s *fakeStore) writes() int {
	return len(s.inserts) + len(s.restores) + len(s.retires)
}

type fakeRefs struct {
	live map[int64]bool
}

func (r *fakeRefs) ExistsLiveIn(_ context.Context, _ int64, id int64) (bool, error) {
	return r.live[id], nil
}

type archivedEntry struct {
	table    string
	recordID int64
	actor    string
}

type fakeRecorder struct {
	entries []archivedEntry
}

func (a *fakeRecorder) Append(_ context.Context, table string, recordID int64, _ *int64, _ map[string]any, _ time.Time, actor string, _ *string) error {
	a.entries = append(a.entries, archivedEntry{table: table, recordID: recordID, actor: actor})
	return nil
}

func newTestReconciler(store *fakeStore, refs *fakeRefs, rec *fakeRecorder) *Reconciler {
	return New(Config{
		Store:       store,
		Refs:        refs,
		TxManager:   passthroughTx{},
		Archive:     rec,
		Table:       "subsecretariat_secretariats",
		RightEntity: "secretariat",
	})
}

func TestSync_MixedPlan(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore(
		liveRow(100, 10, 1),
		liveRow(101, 10, 2),
		deletedRow(102, 10, 3, now.Add(-time.Hour)),
	)
	refs := &fakeRefs{live: map[int64]bool{1: true, 2: true, 3: true, 4: true}}
	rec := &fakeRecorder{}
	r := newTestReconciler(store, refs, rec)

	result, err := r.Sync(context.Background(), 1, 10, []int64{2, 3, 4}, "clerk")
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{2}, result.Kept)
	assert.ElementsMatch(t, []int64{3}, result.Restored)
	assert.ElementsMatch(t, []int64{1}, result.Retired)
	assert.ElementsMatch(t, []int64{4}, result.Created)

	// Row 102 is live again, row 100 retired, a new row exists for counterpart 4.
	assert.False(t, store.rows[102].IsDeleted)
	assert.True(t, store.rows[100].IsDeleted)
	require.NotNil(t, store.rows[100].DeletedBy)
	assert.Equal(t, "clerk", *store.rows[100].DeletedBy)

	// Only the retired row was archived.
	require.Len(t, rec.entries, 1)
	assert.Equal(t, int64(100), rec.entries[0].recordID)
	assert.Equal(t, "subsecretariat_secretariats", rec.entries[0].table)
	assert.Equal(t, "clerk", rec.entries[0].actor)
}

func TestSync_NoopPerformsNoWrites(t *testing.T) {
	store := newFakeStore(liveRow(100, 10, 1), liveRow(101, 10, 2))
	refs := &fakeRefs{live: map[int64]bool{1: true, 2: true}}
	rec := &fakeRecorder{}
	r := newTestReconciler(store, refs, rec)

	result, err := r.Sync(context.Background(), 1, 10, []int64{1, 2}, "clerk")
	require.NoError(t, err)

	assert.False(t, result.Changed())
	assert.ElementsMatch(t, []int64{1, 2}, result.Kept)
	assert.Zero(t, store.writes())
	assert.Empty(t, rec.entries)
}

func TestSync_Idempotent(t *testing.T) {
	store := newFakeStore(liveRow(100, 10, 1))
	refs := &fakeRefs{live: map[int64]bool{1: true, 2: true}}
	r := newTestReconciler(store, refs, &fakeRecorder{})

	_, err := r.Sync(context.Background(), 1, 10, []int64{2}, "clerk")
	require.NoError(t, err)
	writesAfterFirst := store.writes()

	result, err := r.Sync(context.Background(), 1, 10, []int64{2}, "clerk")
	require.NoError(t, err)

	assert.False(t, result.Changed())
	assert.Equal(t, writesAfterFirst, store.writes())
}

func TestSync_DanglingReferenceAbortsWithoutWrites(t *testing.T) {
	store := newFakeStore(liveRow(100, 10, 1))
	refs := &fakeRefs{live: map[int64]bool{1: true, 2: true}} // 99 does not exist
	rec := &fakeRecorder{}
	r := newTestReconciler(store, refs, rec)

	_, err := r.Sync(context.Background(), 1, 10, []int64{2, 99}, "clerk")
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidReference(err))

	// The valid part of the request must not have been applied.
	assert.Zero(t, store.writes())
	assert.False(t, store.rows[100].IsDeleted)
	assert.Empty(t, rec.entries)
}

func TestSync_RequiresActor(t *testing.T) {
	r := newTestReconciler(newFakeStore(), &fakeRefs{}, &fakeRecorder{})

	_, err := r.Sync(context.Background(), 1, 10, []int64{1}, "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSync_DeletedCounterpartRowRevivedNotDuplicated(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore(deletedRow(100, 10, 5, now))
	refs := &fakeRefs{live: map[int64]bool{5: true}}
	r := newTestReconciler(store, refs, &fakeRecorder{})

	result, err := r.Sync(context.Background(), 1, 10, []int64{5}, "clerk")
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{5}, result.Restored)
	assert.Empty(t, store.inserts)
	assert.Len(t, store.rows, 1)
	assert.False(t, store.rows[100].IsDeleted)
}

func TestRetireAllByLeft(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore(
		liveRow(100, 10, 1),
		liveRow(101, 10, 2),
		deletedRow(102, 10, 3, now),
		liveRow(103, 11, 1), // different owner, untouched
	)
	rec := &fakeRecorder{}
	r := newTestReconciler(store, &fakeRefs{}, rec)

	err := r.RetireAllByLeft(context.Background(), 1, 10, "system")
	require.NoError(t, err)

	assert.True(t, store.rows[100].IsDeleted)
	assert.True(t, store.rows[101].IsDeleted)
	assert.False(t, store.rows[103].IsDeleted)
	assert.Len(t, rec.entries, 2)
}

func TestRetireAllByRight(t *testing.T) {
	store := newFakeStore(
		liveRow(100, 10, 7),
		liveRow(101, 11, 7),
		liveRow(102, 11, 8),
	)
	rec := &fakeRecorder{}
	r := newTestReconciler(store, &fakeRefs{}, rec)

	err := r.RetireAllByRight(context.Background(), 1, 7, "system")
	require.NoError(t, err)

	assert.True(t, store.rows[100].IsDeleted)
	assert.True(t, store.rows[101].IsDeleted)
	assert.False(t, store.rows[102].IsDeleted)
	assert.Len(t, rec.entries, 2)
}

func TestListLive(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore(
		liveRow(100, 10, 1),
		deletedRow(101, 10, 2, now),
	)
	r := newTestReconciler(store, &fakeRefs{}, &fakeRecorder{})

	ids, err := r.ListLive(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}
