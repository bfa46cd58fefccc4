package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/app"
	"github.com/Freeeeeet/salon_scheduler/internal/config"
	"github.com/Freeeeeet/salon_scheduler/internal/migrations"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"github.com/Freeeeeet/salon_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedStaff struct {
	Name  string
	Hours []model.WorkingWindow
}

type seedService struct {
	Name     string
	Duration int
	Price    string
}

func main() {
	chatID := flag.Int64("staff-chat", 0, "telegram chat id первого мастера для уведомлений")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		log.Fatal(err)
	}
	if err := migrator.Run(ctx); err != nil {
		log.Fatal(err)
	}
	migrator.Close()

	db := base.NewRepository(pool, cfg.LockTimeout)
	staffRepo := repository.NewStaffRepository(db)
	hoursRepo := repository.NewWorkingHoursRepository(db)
	serviceRepo := repository.NewServiceRepository(db, logger)
	clientRepo := repository.NewClientRepository(db)

	staff := []seedStaff{
		{Name: "Анна", Hours: weekdays(9*60, 12*60, 13*60, 18*60)},
		{Name: "Ольга", Hours: weekdays(10*60, 19*60)},
	}
	services := []seedService{
		{Name: "Стрижка", Duration: 60, Price: "1500"},
		{Name: "Укладка", Duration: 30, Price: "800"},
		{Name: "Окрашивание", Duration: 90, Price: "3500"},
	}
	clients := []string{"Мария", "Елена"}

	// всё или ничего
	err = repository.NewTransactor(db).InTx(ctx, func(ctx context.Context) error {
		for i, s := range staff {
			m := &model.Staff{Name: s.Name, IsActive: true}
			if i == 0 && *chatID != 0 {
				m.TelegramChatID = chatID
			}
			if err := staffRepo.Create(ctx, m); err != nil {
				return err
			}
			for _, w := range s.Hours {
				w.StaffID = m.ID
				if err := hoursRepo.Create(ctx, &w); err != nil {
					return err
				}
			}
			fmt.Printf("💇 %s: %s\n", m.Name, m.ID)
		}

		for _, s := range services {
			svc := &model.Service{
				Name:            s.Name,
				DurationMinutes: s.Duration,
				Price:           decimal.RequireFromString(s.Price),
				IsActive:        true,
			}
			if err := serviceRepo.Create(ctx, svc); err != nil {
				return err
			}
			fmt.Printf("🧾 %s (%d мин): %s\n", svc.Name, svc.DurationMinutes, svc.ID)
		}

		for _, name := range clients {
			c := &model.Client{Name: name}
			if err := clientRepo.Create(ctx, c); err != nil {
				return err
			}
			fmt.Printf("👤 %s: %s\n", c.Name, c.ID)
		}
		return nil
	})
	if err != nil {
		logger.Fatal("Seed failed", zap.Error(err))
	}

	logger.Info("Seed completed",
		zap.Int("staff", len(staff)),
		zap.Int("services", len(services)),
		zap.Int("clients", len(clients)))
}

// weekdays повторяет пары [начало, конец) на каждый день с понедельника по пятницу
func weekdays(bounds ...model.TimeOfDay) []model.WorkingWindow {
	var out []model.WorkingWindow
	for d := model.Monday; d <= model.Friday; d++ {
		for i := 0; i+1 < len(bounds); i += 2 {
			out = append(out, model.WorkingWindow{Weekday: d, Start: bounds[i], End: bounds[i+1]})
		}
	}
	return out
}
