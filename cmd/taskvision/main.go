package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskvision/internal/config"
	"taskvision/internal/logger"
	"taskvision/internal/model"
	"taskvision/internal/notify"
	"taskvision/internal/repository"
	"taskvision/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat))

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	engine := service.NewRecurrenceEngine(taskRepo, appLog, cfg.CatchUpWindowDays)
	reminders := service.NewReminderScheduler(taskRepo, blockRepo, appLog, time.Local)
	defer reminders.Shutdown()

	var notifier notify.Notifier
	if cfg.TelegramToken != "" {
		notifier, err = notify.NewTelegramNotifier(cfg.TelegramToken, userRepo)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
	} else {
		notifier = notify.NewLogNotifier(appLog)
	}

	deliver := func(ownerID string) service.NotifyFunc {
		return func(reminder model.Reminder) {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := notifier.Notify(notifyCtx, ownerID, "TaskVision", reminder.Message, reminder.Tag()); err != nil {
				appLog.Error("deliver reminder", "tag", reminder.Tag(), "error", err)
			}
		}
	}

	catchUpAll := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		users, err := userRepo.ListAll(jobCtx)
		if err != nil {
			appLog.Error("catch-up: list users", "error", err)
			return
		}
		today := model.DateOf(time.Now())
		for _, user := range users {
			if err := engine.CatchUp(jobCtx, user.ID, today); err != nil {
				appLog.Error("catch-up", "owner_id", user.ID, "error", err)
			}
		}
	}

	checkReminders := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		users, err := userRepo.ListAll(jobCtx)
		if err != nil {
			appLog.Error("reminder check: list users", "error", err)
			return
		}
		for _, user := range users {
			if err := reminders.PeriodicCheck(jobCtx, user.ID, deliver(user.ID)); err != nil {
				appLog.Error("reminder check", "owner_id", user.ID, "error", err)
			}
		}
	}

	scheduler := service.NewSchedulerService(time.Local, appLog)
	if _, err := scheduler.ScheduleDaily(cfg.CatchUpTime, "catch-up", catchUpAll); err != nil {
		log.Fatalf("schedule catch-up: %v", err)
	}
	if _, err := scheduler.ScheduleInterval(cfg.ReminderCheckInterval, "reminder-check", checkReminders); err != nil {
		log.Fatalf("schedule reminder check: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Run both passes once at startup so a restart catches up
	// immediately instead of waiting for the next tick.
	catchUpAll()
	checkReminders()

	appLog.Info("taskvision started",
		"catchup_time", cfg.CatchUpTime,
		"window_days", cfg.CatchUpWindowDays,
		"check_interval", cfg.ReminderCheckInterval)

	<-ctx.Done()
	appLog.Info("shutdown complete")
}
