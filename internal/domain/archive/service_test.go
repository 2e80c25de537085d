package archive

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municore/internal/core/apperror"
)

type memStore struct {
	entries []*Entry
}

func (m *memStore) Insert(_ context.Context, entry *Entry) error {
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("archive entry", id)
}

func (m *memStore) Find(_ context.Context, q Query) ([]*Entry, error) {
	var out []*Entry
	for _, e := range m.entries {
		if q.SourceTable != "" && e.SourceTable != q.SourceTable {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) Count(_ context.Context, q Query) (int64, error) {
	entries, _ := m.Find(context.Background(), q)
	return int64(len(entries)), nil
}

func TestAppend_SmallSnapshotStoredPlain(t *testing.T) {
	store := &memStore{}
	svc, err := NewService(store)
	require.NoError(t, err)

	mayoralty := int64(7)
	deletedAt := time.Date(2026, time.March, 5, 10, 30, 0, 0, time.UTC)
	err = svc.Append(context.Background(), "officials", 42, &mayoralty,
		map[string]any{"id": 42, "name": "Jordan Reyes"}, deletedAt, "clerk", nil)
	require.NoError(t, err)

	require.Len(t, store.entries, 1)
	stored := store.entries[0]
	assert.Equal(t, CompressionNone, stored.CompressionAlgo)
	assert.Nil(t, stored.SnapshotCompressed)
	assert.Equal(t, "clerk", stored.DeletedBy)
	assert.Equal(t, int64(42), stored.SourceRecordID)
	assert.True(t, stored.DeletedAt.Equal(deletedAt))

	var snap map[string]any
	require.NoError(t, json.Unmarshal(stored.Snapshot, &snap))
	assert.Equal(t, "Jordan Reyes", snap["name"])
}

func TestAppend_LargeSnapshotCompressed(t *testing.T) {
	store := &memStore{}
	svc, err := NewService(store)
	require.NoError(t, err)

	// Well above the threshold, and compressible.
	big := map[string]any{"description": strings.Repeat("municipal records ", 2000)}
	err = svc.Append(context.Background(), "projects", 7, nil, big, time.Now().UTC(), "system", nil)
	require.NoError(t, err)

	stored := store.entries[0]
	assert.Equal(t, CompressionZstd, stored.CompressionAlgo)
	assert.Nil(t, stored.Snapshot)
	assert.NotEmpty(t, stored.SnapshotCompressed)
	assert.Less(t, len(stored.SnapshotCompressed), compressionThreshold)
}

func TestGetByID_DecompressesSnapshot(t *testing.T) {
	store := &memStore{}
	svc, err := NewService(store)
	require.NoError(t, err)

	big := map[string]any{"description": strings.Repeat("municipal records ", 2000)}
	require.NoError(t, svc.Append(context.Background(), "projects", 7, nil, big, time.Now().UTC(), "system", nil))

	entry, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, CompressionNone, entry.CompressionAlgo)
	assert.Nil(t, entry.SnapshotCompressed)

	var snap map[string]any
	require.NoError(t, json.Unmarshal(entry.Snapshot, &snap))
	assert.Equal(t, big["description"], snap["description"])
}

func TestAppend_Validation(t *testing.T) {
	svc, err := NewService(&memStore{})
	require.NoError(t, err)

	err = svc.Append(context.Background(), "", 1, nil, nil, time.Now().UTC(), "clerk", nil)
	require.Error(t, err)

	err = svc.Append(context.Background(), "officials", 1, nil, nil, time.Now().UTC(), "", nil)
	require.Error(t, err)
}

func TestFind_FiltersBySourceTable(t *testing.T) {
	store := &memStore{}
	svc, err := NewService(store)
	require.NoError(t, err)

	require.NoError(t, svc.Append(context.Background(), "officials", 1, nil, map[string]any{"a": 1}, time.Now().UTC(), "clerk", nil))
	require.NoError(t, svc.Append(context.Background(), "projects", 2, nil, map[string]any{"b": 2}, time.Now().UTC(), "clerk", nil))

	entries, err := svc.Find(context.Background(), Query{SourceTable: "officials"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].SourceRecordID)
}
