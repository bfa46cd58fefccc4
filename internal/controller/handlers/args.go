package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// usageError - неверные аргументы команды, текст уходит пользователю как есть
type usageError struct {
	usage string
}

func (e *usageError) Error() string {
	return e.usage
}

func usage(format string, args ...any) error {
	return &usageError{usage: fmt.Sprintf(format, args...)}
}

// splitCommand отделяет команду от аргументов и срезает @имя_бота
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}

	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd, fields[1:]
}

func parseID(what, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, usage("❌ Неверный идентификатор (%s): %s", what, s)
	}
	return id, nil
}

func parseDate(s string) (model.Date, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, usage("❌ Неверная дата: %s\nФормат: ГГГГ-ММ-ДД", s)
	}
	return d, nil
}

// parseStart собирает момент начала из даты и времени в часовом поясе салона
func parseStart(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := parseDate(date)
	if err != nil {
		return time.Time{}, err
	}

	tod, err := model.ParseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, usage("❌ Неверное время: %s\nФормат: ЧЧ:ММ", clock)
	}

	return d.At(tod, loc), nil
}

func parseStatus(s string) (model.BookingStatus, error) {
	st, ok := model.ParseBookingStatus(strings.ToLower(s))
	if !ok {
		return "", usage("❌ Неизвестный статус: %s\nДопустимые: scheduled, confirmed, completed, cancelled, no_show", s)
	}
	return st, nil
}

func parseAmount(s string) (decimal.NullDecimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil || amount.IsNegative() {
		return decimal.NullDecimal{}, usage("❌ Неверная сумма: %s", s)
	}
	return decimal.NewNullDecimal(amount), nil
}

func isUsage(err error) (*usageError, bool) {
	var u *usageError
	ok := errors.As(err, &u)
	return u, ok
}
