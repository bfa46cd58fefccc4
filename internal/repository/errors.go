package repository

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE коды PostgreSQL, которые различает движок
const (
	codeExclusionViolation = "23P01"
	codeUniqueViolation    = "23505"
	codeLockNotAvailable   = "55P03"
	codeQueryCanceled      = "57014"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsExclusionViolation - запись пересеклась с другой по ограничению EXCLUDE
func IsExclusionViolation(err error) bool {
	code := pgCode(err)
	return code == codeExclusionViolation || code == codeUniqueViolation
}

// IsLockTimeout - не дождались блокировки за lock_timeout
func IsLockTimeout(err error) bool {
	code := pgCode(err)
	return code == codeLockNotAvailable || code == codeQueryCanceled
}

// translate переводит ошибки PostgreSQL в ошибки движка расписания
func translate(op string, err error) error {
	switch {
	case IsExclusionViolation(err):
		return fmt.Errorf("%s: %w: %v", op, scheduling.ErrConflictOnCommit, err)
	case IsLockTimeout(err):
		return fmt.Errorf("%s: %w: %v", op, scheduling.ErrLockTimeout, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
