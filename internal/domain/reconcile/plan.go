// Package reconcile implements desired-state synchronization of
// many-to-many association rows. Given the full history of join rows
// for one owner (live and soft-deleted) and a desired set of
// counterpart IDs, it computes and applies the minimal set of restores,
// retirements and creations that makes the live set equal the desired
// set while preserving deletion history.
package reconcile

import (
	"municore/internal/core/entity"
)

// Plan is the partitioning of a synchronization request into the four
// possible outcomes per counterpart. Applying a plan touches only the
// Restore, Retire and Create sets; Keep rows are left untouched.
type Plan struct {
	// Restore holds association row IDs whose deletion mark is cleared
	Restore []int64

	// Keep holds association row IDs already live and still desired
	Keep []int64

	// Retire holds association row IDs to be soft-deleted
	Retire []int64

	// Create holds counterpart (right) IDs with no prior row to revive
	Create []int64
}

// IsNoop reports whether applying the plan would perform no writes.
func (p Plan) IsNoop() bool {
	return len(p.Restore) == 0 && len(p.Retire) == 0 && len(p.Create) == 0
}

// BuildPlan partitions the desired counterpart set against the full row
// history of one owner.
//
// For each desired counterpart: a live row is kept; otherwise the most
// recently deleted row for the pair is restored; otherwise a new row is
// created. Every live row whose counterpart is not desired is retired.
// Deleted rows for undesired counterparts stay untouched, so history is
// never rewritten.
//
// Duplicate IDs in desired are collapsed; order is not significant.
func BuildPlan(existing []*entity.Association, desired []int64) Plan {
	want := make(map[int64]struct{}, len(desired))
	for _, rightID := range desired {
		want[rightID] = struct{}{}
	}

	live := make(map[int64]*entity.Association, len(existing))
	// latestDeleted keeps, per counterpart, the most recently deleted row.
	// Older deleted rows for the same pair remain archival history.
	latestDeleted := make(map[int64]*entity.Association)

	for _, row := range existing {
		if !row.IsDeleted {
			live[row.RightID] = row
			continue
		}
		prev, ok := latestDeleted[row.RightID]
		if !ok || deletedAfter(row, prev) {
			latestDeleted[row.RightID] = row
		}
	}

	var plan Plan

	for rightID := range want {
		if row, ok := live[rightID]; ok {
			plan.Keep = append(plan.Keep, row.ID)
			continue
		}
		if row, ok := latestDeleted[rightID]; ok {
			plan.Restore = append(plan.Restore, row.ID)
			continue
		}
		plan.Create = append(plan.Create, rightID)
	}

	for rightID, row := range live {
		if _, ok := want[rightID]; !ok {
			plan.Retire = append(plan.Retire, row.ID)
		}
	}

	return plan
}

func deletedAfter(a, b *entity.Association) bool {
	switch {
	case a.DeletedAt == nil:
		return false
	case b.DeletedAt == nil:
		return true
	default:
		return a.DeletedAt.After(*b.DeletedAt)
	}
}
