package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SlotSweeper снимает с публикации слоты, время которых уже прошло
type SlotSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  SlotSweeper
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sweeper SlotSweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("sweep_interval", s.interval))

	go s.runSweepTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

func (s *Scheduler) runSweepTask(ctx context.Context) {
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
			s.logger.Info("Slot sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Slot sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	removed, err := s.sweeper.SweepExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to sweep expired slots", zap.Error(err))
		return
	}

	if removed > 0 {
		s.logger.Info("Expired slots withdrawn", zap.Int64("count", removed))
	}
}
