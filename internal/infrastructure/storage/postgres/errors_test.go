package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municore/internal/core/apperror"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(t *testing.T, got error)
	}{
		{
			name: "tenant code unique violation",
			err:  pgError("23505", "uq_secretariats_tenant_code_live"),
			check: func(t *testing.T, got error) {
				assert.True(t, apperror.IsDuplicateCode(got))
			},
		},
		{
			name: "live pair unique violation is retryable conflict",
			err:  pgError("23505", "uq_subsecretariat_secretariats_pair_live"),
			check: func(t *testing.T, got error) {
				assert.True(t, apperror.IsConflict(got))
			},
		},
		{
			name: "other unique violation",
			err:  pgError("23505", "users_username_key"),
			check: func(t *testing.T, got error) {
				assert.True(t, apperror.IsConflict(got))
			},
		},
		{
			name: "foreign key violation",
			err:  pgError("23503", "fk_subsecretariat_officials_official"),
			check: func(t *testing.T, got error) {
				assert.True(t, apperror.IsInvalidReference(got))
			},
		},
		{
			name: "unclassified database error",
			err:  errors.New("connection reset"),
			check: func(t *testing.T, got error) {
				appErr, ok := apperror.AsAppError(got)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeDatabase, appErr.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.err, "secretariat")
			require.Error(t, got)
			tt.check(t, got)
		})
	}
}

func TestTranslateErrorPassthrough(t *testing.T) {
	assert.NoError(t, TranslateError(nil, "secretariat"))

	// Already-translated errors pass through untouched.
	orig := apperror.NewNotFound("secretariat", 42)
	assert.Equal(t, error(orig), TranslateError(orig, "secretariat"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(pgError("23505", "any")))
	assert.False(t, IsUniqueViolation(pgError("23503", "any")))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
