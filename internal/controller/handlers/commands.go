package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/render"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/availability <мастер> <услуга> <ГГГГ-ММ-ДД> - свободные слоты\n" +
	"/day <мастер> <ГГГГ-ММ-ДД> - расписание мастера на день\n" +
	"/book <мастер> <услуга> <клиент> <ГГГГ-ММ-ДД> <ЧЧ:ММ> [заметка] - записать клиента\n" +
	"/move <запись> <ГГГГ-ММ-ДД> <ЧЧ:ММ> - перенести запись\n" +
	"/status <запись> <статус> [сумма] - сменить статус\n" +
	"/booking <запись> - показать запись\n" +
	"/delete <запись> - удалить запись\n" +
	"/help - показать эту справку\n\n" +
	"Статусы: scheduled, confirmed, completed, cancelled, no_show"

type command func(ctx context.Context, args []string) (Reply, error)

func (h *Handlers) commands() map[string]command {
	return map[string]command{
		"/start":        h.start,
		"/help":         h.help,
		"/availability": h.availability,
		"/day":          h.day,
		"/book":         h.book,
		"/move":         h.move,
		"/status":       h.status,
		"/booking":      h.booking,
		"/delete":       h.deleteBooking,
	}
}

// Execute выполняет текстовую команду и возвращает ответ
func (h *Handlers) Execute(ctx context.Context, text string) Reply {
	name, args := splitCommand(text)
	if name == "" {
		return Reply{}
	}

	cmd, ok := h.commands()[name]
	if !ok {
		return Reply{Text: "❓ Неизвестная команда. Используйте /help"}
	}

	reply, err := cmd(ctx, args)
	if err != nil {
		if _, usageErr := isUsage(err); !usageErr {
			h.logger.Warn("Command failed",
				zap.String("command", name),
				zap.Strings("args", args),
				zap.Error(err))
		}
		return Reply{Text: ErrorMessage(err)}
	}
	return reply
}

// start обрабатывает команду /start
func (h *Handlers) start(_ context.Context, _ []string) (Reply, error) {
	return Reply{Text: "👋 Привет! Это бот записи в салон.\n\n" + helpText}, nil
}

// help обрабатывает команду /help
func (h *Handlers) help(_ context.Context, _ []string) (Reply, error) {
	return Reply{Text: helpText}, nil
}

// availability: /availability <staff> <service> <date>
func (h *Handlers) availability(ctx context.Context, args []string) (Reply, error) {
	if len(args) != 3 {
		return Reply{}, usage("Использование: /availability <мастер> <услуга> <ГГГГ-ММ-ДД>")
	}

	staffID, err := parseID("мастер", args[0])
	if err != nil {
		return Reply{}, err
	}
	serviceID, err := parseID("услуга", args[1])
	if err != nil {
		return Reply{}, err
	}
	date, err := parseDate(args[2])
	if err != nil {
		return Reply{}, err
	}

	avail, err := h.engine.ComputeAvailability(ctx, staffID, serviceID, date)
	if err != nil {
		return Reply{}, err
	}

	return Reply{Text: formatting.FormatAvailability(date, avail.Slots, avail.Message, h.loc)}, nil
}

// day: /day <staff> <date>, отвечает картинкой дня
func (h *Handlers) day(ctx context.Context, args []string) (Reply, error) {
	if len(args) != 2 {
		return Reply{}, usage("Использование: /day <мастер> <ГГГГ-ММ-ДД>")
	}

	staffID, err := parseID("мастер", args[0])
	if err != nil {
		return Reply{}, err
	}
	date, err := parseDate(args[1])
	if err != nil {
		return Reply{}, err
	}

	agenda, err := h.engine.ListStaffDay(ctx, staffID, date)
	if err != nil {
		return Reply{}, err
	}

	staffName := ""
	if agenda.Staff != nil {
		staffName = agenda.Staff.Name
	}
	caption := formatting.FormatDaySummary(staffName, date, agenda.Bookings, len(agenda.FreeSlots))

	img, err := render.DayImage(render.Day{
		StaffName: staffName,
		Date:      date,
		Windows:   agenda.Windows,
		Bookings:  agenda.Bookings,
		FreeSlots: agenda.FreeSlots,
	}, h.loc)
	if err != nil {
		// без картинки отвечаем текстом
		h.logger.Error("Failed to render day image", zap.Error(err))
		return Reply{Text: caption}, nil
	}

	return Reply{Text: caption, Photo: img, PhotoName: fmt.Sprintf("day-%s.png", date)}, nil
}

// book: /book <staff> <service> <client> <date> <time> [notes...]
func (h *Handlers) book(ctx context.Context, args []string) (Reply, error) {
	if len(args) < 5 {
		return Reply{}, usage("Использование: /book <мастер> <услуга> <клиент> <ГГГГ-ММ-ДД> <ЧЧ:ММ> [заметка]")
	}

	req := service.BookingRequest{Notes: strings.Join(args[5:], " ")}
	var err error
	if req.StaffID, err = parseID("мастер", args[0]); err != nil {
		return Reply{}, err
	}
	if req.ServiceID, err = parseID("услуга", args[1]); err != nil {
		return Reply{}, err
	}
	if req.ClientID, err = parseID("клиент", args[2]); err != nil {
		return Reply{}, err
	}
	if req.StartAt, err = parseStart(args[3], args[4], h.loc); err != nil {
		return Reply{}, err
	}

	b, err := h.engine.CreateBooking(ctx, req)
	if err != nil {
		return Reply{}, err
	}

	return Reply{Text: "✅ Запись создана!\n\n" + formatting.FormatBooking(b, h.loc)}, nil
}

// move: /move <booking> <date> <time>
func (h *Handlers) move(ctx context.Context, args []string) (Reply, error) {
	if len(args) != 3 {
		return Reply{}, usage("Использование: /move <запись> <ГГГГ-ММ-ДД> <ЧЧ:ММ>")
	}

	id, err := parseID("запись", args[0])
	if err != nil {
		return Reply{}, err
	}
	start, err := parseStart(args[1], args[2], h.loc)
	if err != nil {
		return Reply{}, err
	}

	b, err := h.engine.UpdateBooking(ctx, id, service.BookingChanges{StartAt: &start})
	if err != nil {
		return Reply{}, err
	}

	return Reply{Text: "✅ Запись перенесена!\n\n" + formatting.FormatBooking(b, h.loc)}, nil
}

// status: /status <booking> <status> [amount]
func (h *Handlers) status(ctx context.Context, args []string) (Reply, error) {
	if len(args) < 2 || len(args) > 3 {
		return Reply{}, usage("Использование: /status <запись> <статус> [сумма]")
	}

	req := service.TransitionRequest{}
	var err error
	if req.BookingID, err = parseID("запись", args[0]); err != nil {
		return Reply{}, err
	}
	if req.Status, err = parseStatus(args[1]); err != nil {
		return Reply{}, err
	}
	if len(args) == 3 {
		if req.PaidAmount, err = parseAmount(args[2]); err != nil {
			return Reply{}, err
		}
	}

	b, err := h.engine.Transition(ctx, req)
	if err != nil {
		return Reply{}, err
	}

	display := formatting.GetBookingStatusDisplay(b.Status)
	return Reply{Text: fmt.Sprintf("%s Статус изменён: %s\n\n%s", display.Emoji, display.Text, formatting.FormatBooking(b, h.loc))}, nil
}

// booking: /booking <booking>
func (h *Handlers) booking(ctx context.Context, args []string) (Reply, error) {
	if len(args) != 1 {
		return Reply{}, usage("Использование: /booking <запись>")
	}

	id, err := parseID("запись", args[0])
	if err != nil {
		return Reply{}, err
	}

	b, err := h.engine.GetBooking(ctx, id)
	if err != nil {
		return Reply{}, err
	}

	return Reply{Text: formatting.FormatBooking(b, h.loc)}, nil
}

// deleteBooking: /delete <booking>
func (h *Handlers) deleteBooking(ctx context.Context, args []string) (Reply, error) {
	if len(args) != 1 {
		return Reply{}, usage("Использование: /delete <запись>")
	}

	id, err := parseID("запись", args[0])
	if err != nil {
		return Reply{}, err
	}

	if err := h.engine.DeleteBooking(ctx, id); err != nil {
		return Reply{}, err
	}

	return Reply{Text: "🗑 Запись удалена."}, nil
}
