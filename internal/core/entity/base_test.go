package entity

import (
	"context"
	"testing"
	"time"
)

func TestAuditedRecordDeletionLifecycle(t *testing.T) {
	r := NewAuditedRecord()

	if !r.Active {
		t.Fatal("new record must be active")
	}
	if r.IsMarkedDeleted() {
		t.Fatal("new record must not carry a deletion mark")
	}

	deletedAt := time.Date(2026, time.March, 5, 10, 30, 0, 0, time.UTC)
	r.MarkDeleted("clerk.ruiz", deletedAt)
	if !r.IsMarkedDeleted() {
		t.Fatal("record must be marked deleted")
	}
	if r.DeletedAt == nil || !r.DeletedAt.Equal(deletedAt) {
		t.Fatalf("DeletedAt = %v, want %v", r.DeletedAt, deletedAt)
	}
	if r.DeletedBy == nil || *r.DeletedBy != "clerk.ruiz" {
		t.Fatalf("DeletedBy = %v, want clerk.ruiz", r.DeletedBy)
	}
	// The business-visibility flag is independent of deletion.
	if !r.Active {
		t.Fatal("deletion must not touch the Active flag")
	}

	r.ClearDeleted()
	if r.IsMarkedDeleted() {
		t.Fatal("record must be live after restore")
	}
	if r.DeletedAt != nil || r.DeletedBy != nil {
		t.Fatal("delete fields must be cleared on restore")
	}
	if r.UpdatedAt == nil {
		t.Fatal("restore must bump UpdatedAt")
	}
}

func TestTenantRecordValidate(t *testing.T) {
	ctx := context.Background()

	valid := NewTenantRecord(1, "SEC-00001", "Secretariat of Planning")
	if err := valid.Validate(ctx); err != nil {
		t.Fatalf("valid record: %v", err)
	}

	// Code is optional at creation (it may be generated later).
	noCode := NewTenantRecord(1, "", "Secretariat of Planning")
	if err := noCode.Validate(ctx); err != nil {
		t.Fatalf("record without code: %v", err)
	}

	noTenant := NewTenantRecord(0, "SEC-00001", "Secretariat of Planning")
	if err := noTenant.Validate(ctx); err == nil {
		t.Fatal("expected error for missing mayoralty")
	}

	noName := NewTenantRecord(1, "SEC-00001", "")
	if err := noName.Validate(ctx); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestAssociationPairs(t *testing.T) {
	a := NewAssociation(10, 20)
	if a.LeftID != 10 || a.RightID != 20 {
		t.Fatalf("association = (%d, %d), want (10, 20)", a.LeftID, a.RightID)
	}
	if a.IsMarkedDeleted() {
		t.Fatal("new association must be live")
	}
}
