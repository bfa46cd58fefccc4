package scheduling

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrNoWorkday         = errors.New("staff does not work this day")
	ErrNoSlot            = errors.New("requested time is not available")
	ErrConflictOnCommit  = errors.New("booking overlaps a concurrently committed booking")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrLockTimeout       = errors.New("timed out waiting for schedule lock")
)

// Outcome возвращает имя состояния валидатора для логов
func Outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ErrNoWorkday):
		return "rejected_no_workday"
	case errors.Is(err, ErrNoSlot):
		return "rejected_no_slot"
	case errors.Is(err, ErrConflictOnCommit):
		return "conflict_on_commit"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrLockTimeout):
		return "lock_timeout"
	default:
		return "error"
	}
}
