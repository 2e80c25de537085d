// Package codegen provides sequential business code generation for
// tenant-scoped records. Codes are unique per (mayoralty, scope) and
// formatted as PREFIX-XXXXX.
package codegen

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Strategy defines the code generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every code.
	// Guarantees sequential codes without gaps while the row commits.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if the application restarts.
	StrategyCached
)

// Options configuration for code generation.
type Options struct {
	Strategy Strategy

	// RangeSize is the number of values to allocate at once in Cached
	// strategy. Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds formatting for one entity kind.
type Config struct {
	// Prefix added to all codes (e.g., "SEC", "PRJ")
	Prefix string

	// PadWidth is the minimum number width (default 5)
	PadWidth int
}

type cachedRange struct {
	current int64
	max     int64
}

// Service generates codes backed by the code_sequences table.
//
// Generation runs against the pool, outside business transactions:
// a rolled-back create leaves a gap in the sequence, which is acceptable
// because codes only need uniqueness, not density.
type Service struct {
	querier Querier

	mu      sync.Mutex
	configs map[string]Config
	ranges  map[string]*cachedRange
}

// New creates a code generation service.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		configs: make(map[string]Config),
		ranges:  make(map[string]*cachedRange),
	}
}

// RegisterKind sets the formatting config for a scope (entity kind).
// Unregistered scopes derive a prefix from the scope name.
func (s *Service) RegisterKind(scope string, cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[scope] = cfg
}

func (s *Service) configFor(scope string) Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[scope]; ok {
		return cfg
	}
	prefix := strings.ToUpper(scope)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return Config{Prefix: prefix, PadWidth: 5}
}

// Next generates the next code for the scope within the mayoralty,
// using the strict strategy.
func (s *Service) Next(ctx context.Context, mayoraltyID int64, scope string) (string, error) {
	return s.NextWithOptions(ctx, mayoraltyID, scope, nil)
}

// NextWithOptions generates the next code using the given options.
func (s *Service) NextWithOptions(ctx context.Context, mayoraltyID int64, scope string, opts *Options) (string, error) {
	if s == nil {
		return "", fmt.Errorf("codegen service is not initialized")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	var num int64
	var err error
	switch opts.Strategy {
	case StrategyCached:
		num, err = s.nextCached(ctx, mayoraltyID, scope, opts)
	default:
		num, err = s.nextStrict(ctx, mayoraltyID, scope)
	}
	if err != nil {
		return "", err
	}

	return s.format(s.configFor(scope), num), nil
}

// nextStrict fetches the next value directly from DB using UPSERT + RETURNING.
func (s *Service) nextStrict(ctx context.Context, mayoraltyID int64, scope string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO code_sequences (mayoralty_id, scope, current_val)
        VALUES ($1, $2, 1)
        ON CONFLICT (mayoralty_id, scope) DO UPDATE SET current_val = code_sequences.current_val + 1
        RETURNING current_val
	`, mayoraltyID, scope).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// nextCached fetches the next value from memory, refilling from DB if needed.
func (s *Service) nextCached(ctx context.Context, mayoraltyID int64, scope string, opts *Options) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cacheKey := fmt.Sprintf("%d:%s", mayoraltyID, scope)
	rng, exists := s.ranges[cacheKey]
	if !exists {
		rng = &cachedRange{}
		s.ranges[cacheKey] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// Reserve 'size' values: current_val tracks the last value handed
		// out, so the reserved range is (newMax-size, newMax].
		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO code_sequences (mayoralty_id, scope, current_val)
            VALUES ($1, $2, $3)
            ON CONFLICT (mayoralty_id, scope) DO UPDATE SET current_val = code_sequences.current_val + $3
            RETURNING current_val
		`, mayoraltyID, scope, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNext sets the sequence value for a scope (for data migrations).
func (s *Service) SetNext(ctx context.Context, mayoraltyID int64, scope string, value int64) error {
	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO code_sequences (mayoralty_id, scope, current_val)
		VALUES ($1, $2, $3)
		ON CONFLICT (mayoralty_id, scope) DO UPDATE SET current_val = $3
		RETURNING current_val
	`, mayoraltyID, scope, value).Scan(&result)

	s.mu.Lock()
	delete(s.ranges, fmt.Sprintf("%d:%s", mayoraltyID, scope))
	s.mu.Unlock()

	return err
}

func (s *Service) format(cfg Config, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts the numeric part from a formatted code.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	idx := strings.LastIndexByte(formatted, '-')
	if idx < 0 || idx == len(formatted)-1 {
		return -1
	}
	var num int64
	if _, err := fmt.Sscanf(formatted[idx+1:], "%d", &num); err != nil {
		return -1
	}
	return num
}
