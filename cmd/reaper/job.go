package main

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

// Reaper интерфейс клиента reap-expired
type Reaper interface {
	Reap(ctx context.Context, olderThan time.Duration, limit int) (*models.ReapExpiredResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// reapJob один запуск очистки, реализует cron.Job
type reapJob struct {
	reaper    Reaper
	olderThan time.Duration
	limit     int
	timeout   time.Duration
	log       Logger
}

func newReapJob(reaper Reaper, olderThan time.Duration, limit int, timeout time.Duration, log Logger) *reapJob {
	return &reapJob{
		reaper:    reaper,
		olderThan: olderThan,
		limit:     limit,
		timeout:   timeout,
		log:       log,
	}
}

// Run вызывается планировщиком. Ошибки только логируются: следующий запуск повторит попытку
func (j *reapJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result, err := j.reaper.Reap(ctx, j.olderThan, j.limit)
	if err != nil {
		j.log.Error("ReapExpired: run failed: %v", err)
		return
	}

	if result.Reaped == 0 {
		j.log.Info("ReapExpired: nothing to reap")
		return
	}

	j.log.Info("ReapExpired: cancelled %d unpaid bookings", result.Reaped)
	if j.limit > 0 && result.Reaped >= j.limit {
		j.log.Warn("ReapExpired: limit %d reached, the rest is left for the next run", j.limit)
	}
}

// cronLogger направляет сообщения планировщика в логгер сервиса
type cronLogger struct {
	log Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
