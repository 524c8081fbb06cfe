package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/yukiwukii/paper-review-bot/bot"
	"github.com/yukiwukii/paper-review-bot/config"
	"github.com/yukiwukii/paper-review-bot/db"
	"github.com/yukiwukii/paper-review-bot/reminder"
	"github.com/yukiwukii/paper-review-bot/scheduler"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Info("paper review reminder bot starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.Info("✓ config loaded")

	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()
	log.Info("✓ database initialized")

	if err := bot.InitBot(cfg); err != nil {
		log.Fatalf("failed to initialize bot: %v", err)
	}
	log.Info("✓ bot initialized")

	store := db.NewStore()
	engine := reminder.NewEngine(store, bot.Notifier{})

	sched, err := scheduler.New(cfg.Timezone, func() {
		if err := engine.Dispatch(); err != nil {
			log.Errorf("scheduled dispatch failed: %v", err)
		}
	}, func() {
		if err := engine.AutoPop(); err != nil {
			log.Errorf("auto-pop sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}

	// persisted schedules win over the env defaults
	dispatchSpec, err := loadSpec(store.GetSchedule,
		scheduler.Spec{DayOfWeek: cfg.ReminderDay, Hour: cfg.ReminderHour, Minute: cfg.ReminderMinute})
	if err != nil {
		log.Fatalf("failed to load reminder schedule: %v", err)
	}
	autoPopSpec, err := loadSpec(store.GetAutoPopSchedule,
		scheduler.Spec{DayOfWeek: cfg.AutoPopDay, Hour: cfg.AutoPopHour, Minute: cfg.AutoPopMinute})
	if err != nil {
		log.Fatalf("failed to load auto-pop schedule: %v", err)
	}

	if err := sched.RearmDispatch(dispatchSpec); err != nil {
		log.Fatalf("failed to arm reminder trigger: %v", err)
	}
	if err := sched.RearmAutoPop(autoPopSpec); err != nil {
		log.Fatalf("failed to arm auto-pop trigger: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	log.Info("✓ scheduler started")

	bot.Wire(engine, store, sched)
	go bot.Start()
	log.Info("✓ bot message loop started")

	log.Infof("✅ running (reminders %s, auto-pop %s, %s)", dispatchSpec, autoPopSpec, cfg.Timezone)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("received shutdown signal, exiting")
}

func loadSpec(get func() (*db.Schedule, error), fallback scheduler.Spec) (scheduler.Spec, error) {
	persisted, err := get()
	if err != nil {
		return scheduler.Spec{}, err
	}
	var spec *scheduler.Spec
	if persisted != nil {
		spec = &scheduler.Spec{DayOfWeek: persisted.DayOfWeek, Hour: persisted.Hour, Minute: persisted.Minute}
	}
	return scheduler.Effective(spec, fallback), nil
}
