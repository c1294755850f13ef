package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-BookingEngine/internal/config"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
)

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if cfg.Internal.Token == "" {
		log.Fatal("internal.token is required for the reaper")
	}

	client := newReapClient(cfg.Reaper.BaseURL, cfg.Internal.Token, time.Duration(cfg.Reaper.Timeout)*time.Second)
	job := newReapJob(client, time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute, cfg.Reaper.Limit,
		time.Duration(cfg.Reaper.Timeout)*time.Second, log)

	// Следующий запуск не стартует, пока не закончился предыдущий
	scheduler := cron.New(
		cron.WithLogger(cronLogger{log: log}),
		cron.WithChain(cron.Recover(cronLogger{log: log}), cron.SkipIfStillRunning(cronLogger{log: log})),
	)
	if _, err := scheduler.AddJob(cfg.Reaper.Schedule, job); err != nil {
		log.Fatal("Invalid reaper schedule %q: %v", cfg.Reaper.Schedule, err)
	}

	log.Info("Reaper started: schedule=%q, engine=%s, pending_ttl=%dm, limit=%d",
		cfg.Reaper.Schedule, cfg.Reaper.BaseURL, cfg.Booking.PendingTTLMinutes, cfg.Reaper.Limit)
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Stopping reaper...")
	<-scheduler.Stop().Done()
	log.Info("Reaper stopped")
}
