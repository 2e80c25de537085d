package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"municore/internal/core/apperror"
)

// PostgreSQL error codes relevant to the lifecycle operations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Partial unique index naming convention enforced by the migrations:
//
//	uq_<table>_tenant_code_live  on (mayoralty_id, code) WHERE NOT is_deleted
//	uq_<table>_pair_live         on (left, right)        WHERE NOT is_deleted
//
// The suffix tells us which business error a 23505 maps to. The index is
// the source of truth for uniqueness; the application-level pre-checks only
// exist for friendlier early errors, so a violation slipping through them
// is an expected, recoverable condition.
const (
	suffixTenantCodeLive = "_tenant_code_live"
	suffixPairLive       = "_pair_live"
)

// TranslateError maps low-level pgx errors onto the application error
// taxonomy. Unique violations on a tenant-code index become
// DuplicateCodeError; unique violations on a live-pair index become
// ConflictError (a concurrent reconciliation won, safe to retry);
// foreign-key violations become InvalidReferenceError. Anything else is
// wrapped as an unclassified storage error.
func TranslateError(err error, entityName string) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperror.NewDatabase(err)
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if strings.HasSuffix(pgErr.ConstraintName, suffixTenantCodeLive) {
			// Tenant and code are not recoverable from the driver error;
			// the service layer re-raises with full context when it has it.
			return apperror.NewDuplicateCode(entityName, 0, "").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
		if strings.HasSuffix(pgErr.ConstraintName, suffixPairLive) {
			return apperror.NewConflict("a concurrent change already created this association, retry the operation").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
		return apperror.NewConflict("unique constraint violated").
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)

	case pgForeignKeyViolation:
		return apperror.NewInvalidReference(entityName, nil).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}

	return apperror.NewDatabase(err)
}

// IsUniqueViolation reports whether err is a raw 23505 from the driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
