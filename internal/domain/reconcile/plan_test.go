package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"municore/internal/core/entity"
)

func liveRow(id, leftID, rightID int64) *entity.Association {
	return &entity.Association{
		AuditedRecord: entity.AuditedRecord{ID: id, CreatedAt: time.Now().UTC(), Active: true},
		LeftID:        leftID,
		RightID:       rightID,
	}
}

func deletedRow(id, leftID, rightID int64, deletedAt time.Time) *entity.Association {
	actor := "system"
	return &entity.Association{
		AuditedRecord: entity.AuditedRecord{
			ID:        id,
			CreatedAt: deletedAt.Add(-time.Hour),
			IsDeleted: true,
			DeletedAt: &deletedAt,
			DeletedBy: &actor,
		},
		LeftID:  leftID,
		RightID: rightID,
	}
}

func TestBuildPlan_Partitioning(t *testing.T) {
	now := time.Now().UTC()

	// Owner 10 currently linked to 1 and 2 (live); link to 3 was removed earlier.
	existing := []*entity.Association{
		liveRow(100, 10, 1),
		liveRow(101, 10, 2),
		deletedRow(102, 10, 3, now.Add(-24*time.Hour)),
	}

	// Desired: keep 2, bring back 3, add 4, drop 1.
	plan := BuildPlan(existing, []int64{2, 3, 4})

	assert.ElementsMatch(t, []int64{101}, plan.Keep)
	assert.ElementsMatch(t, []int64{102}, plan.Restore)
	assert.ElementsMatch(t, []int64{100}, plan.Retire)
	assert.ElementsMatch(t, []int64{4}, plan.Create)
	assert.False(t, plan.IsNoop())
}

func TestBuildPlan_NoopWhenDesiredMatchesLive(t *testing.T) {
	existing := []*entity.Association{
		liveRow(100, 10, 1),
		liveRow(101, 10, 2),
	}

	plan := BuildPlan(existing, []int64{1, 2})

	assert.True(t, plan.IsNoop())
	assert.ElementsMatch(t, []int64{100, 101}, plan.Keep)
}

func TestBuildPlan_EmptyDesiredRetiresEverything(t *testing.T) {
	existing := []*entity.Association{
		liveRow(100, 10, 1),
		liveRow(101, 10, 2),
		deletedRow(102, 10, 3, time.Now().UTC()),
	}

	plan := BuildPlan(existing, nil)

	assert.ElementsMatch(t, []int64{100, 101}, plan.Retire)
	assert.Empty(t, plan.Keep)
	assert.Empty(t, plan.Restore)
	assert.Empty(t, plan.Create)
}

func TestBuildPlan_EmptyHistoryCreatesEverything(t *testing.T) {
	plan := BuildPlan(nil, []int64{1, 2, 3})

	assert.ElementsMatch(t, []int64{1, 2, 3}, plan.Create)
	assert.False(t, plan.IsNoop())
}

func TestBuildPlan_DuplicateDesiredIDsCollapse(t *testing.T) {
	existing := []*entity.Association{liveRow(100, 10, 1)}

	plan := BuildPlan(existing, []int64{1, 1, 2, 2, 2})

	assert.ElementsMatch(t, []int64{100}, plan.Keep)
	assert.ElementsMatch(t, []int64{2}, plan.Create)
}

func TestBuildPlan_RestoresMostRecentlyDeletedRow(t *testing.T) {
	now := time.Now().UTC()

	// The pair (10, 5) was added and removed twice; two deleted rows exist.
	existing := []*entity.Association{
		deletedRow(100, 10, 5, now.Add(-48*time.Hour)),
		deletedRow(101, 10, 5, now.Add(-1*time.Hour)),
	}

	plan := BuildPlan(existing, []int64{5})

	assert.Equal(t, []int64{101}, plan.Restore)
	assert.Empty(t, plan.Create)
}

func TestBuildPlan_UndesiredDeletedRowsUntouched(t *testing.T) {
	now := time.Now().UTC()
	existing := []*entity.Association{
		deletedRow(100, 10, 7, now),
	}

	plan := BuildPlan(existing, nil)

	assert.True(t, plan.IsNoop())
}
