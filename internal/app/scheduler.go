package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NoShowSweeper закрывает просроченные записи как no_show
type NoShowSweeper interface {
	SweepNoShows(ctx context.Context, now time.Time) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  NoShowSweeper
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sweeper NoShowSweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("no_show_interval", s.interval))

	go s.runNoShowTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runNoShowTask периодически помечает неявки
func (s *Scheduler) runNoShowTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("No-show task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("No-show task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	marked, err := s.sweeper.SweepNoShows(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to sweep no-shows", zap.Int("marked", marked), zap.Error(err))
		return
	}

	s.logger.Debug("No-show sweep completed", zap.Int("marked", marked))
}
