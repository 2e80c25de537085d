package codegen

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu   sync.Mutex
	vals map[string]int64 // simulates code_sequences rows per (mayoralty, scope)
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{vals: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	// args: mayoralty_id, scope[, increment]
	key := fmt.Sprintf("%v:%v", args[0], args[1])
	var increment int64 = 1
	if len(args) == 3 {
		if v, ok := args[2].(int64); ok {
			increment = v
		}
	}
	m.vals[key] += increment
	return &mockRow{val: m.vals[key]}
}

func TestNext_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	svc.RegisterKind("secretariats", Config{Prefix: "SEC", PadWidth: 5})
	ctx := context.Background()

	code, err := svc.Next(ctx, 1, "secretariats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "SEC-00001" {
		t.Errorf("expected SEC-00001, got %s", code)
	}

	code, err = svc.Next(ctx, 1, "secretariats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "SEC-00002" {
		t.Errorf("expected SEC-00002, got %s", code)
	}
}

func TestNext_SequencesIndependentPerMayoralty(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	svc.RegisterKind("officials", Config{Prefix: "OFF", PadWidth: 5})
	ctx := context.Background()

	if _, err := svc.Next(ctx, 1, "officials"); err != nil {
		t.Fatal(err)
	}
	code, err := svc.Next(ctx, 2, "officials")
	if err != nil {
		t.Fatal(err)
	}
	if code != "OFF-00001" {
		t.Errorf("mayoralty 2 should start its own sequence, got %s", code)
	}
}

func TestNext_UnregisteredScopeDerivesPrefix(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)

	code, err := svc.Next(context.Background(), 1, "projects")
	if err != nil {
		t.Fatal(err)
	}
	if code != "PRO-00001" {
		t.Errorf("expected derived prefix PRO, got %s", code)
	}
}

func TestNextWithOptions_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	svc.RegisterKind("projects", Config{Prefix: "PRJ", PadWidth: 4})
	ctx := context.Background()
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	for i := 1; i <= 15; i++ {
		code, err := svc.NextWithOptions(ctx, 1, "projects", opts)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		expected := fmt.Sprintf("PRJ-%04d", i)
		if code != expected {
			t.Errorf("call %d: expected %s, got %s", i, expected, code)
		}
	}

	// 15 codes with range size 10 need exactly two DB round trips.
	if q.vals["1:projects"] != 20 {
		t.Errorf("expected 2 allocated ranges (current_val 20), got %d", q.vals["1:projects"])
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]int64{
		"SEC-00042":  42,
		"PRJ-0001":   1,
		"MAY-10000":  10000,
		"nodigits":   -1,
		"trailing-":  -1,
		"X-Y-00007":  7,
	}
	for input, expected := range cases {
		if got := ParseNumber(input); got != expected {
			t.Errorf("ParseNumber(%q) = %d, want %d", input, got, expected)
		}
	}
}
