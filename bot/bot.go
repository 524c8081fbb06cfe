package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/yukiwukii/paper-review-bot/config"
	"github.com/yukiwukii/paper-review-bot/db"
	"github.com/yukiwukii/paper-review-bot/reminder"
	"github.com/yukiwukii/paper-review-bot/scheduler"
)

var (
	BotAPI *tgbotapi.BotAPI

	engine   *reminder.Engine
	store    *db.Store
	sched    *scheduler.Scheduler
	adminIDs map[int64]bool
)

func InitBot(cfg *config.Config) error {
	var err error
	BotAPI, err = tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return err
	}

	BotAPI.Debug = false
	log.Infof("bot authorized: @%s (id %d)", BotAPI.Self.UserName, BotAPI.Self.ID)

	adminIDs = make(map[int64]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		adminIDs[id] = true
	}

	// public command menu; admin commands stay unlisted
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Welcome message and command overview"},
		{Command: "help", Description: "How the review rotation works"},
		{Command: "queue", Description: "View the current queue"},
		{Command: "skip", Description: "Skip your turn and pass to the next person"},
	}

	cmdConfig := tgbotapi.NewSetMyCommands(commands...)
	if _, err = BotAPI.Request(cmdConfig); err != nil {
		log.Errorf("failed to register command menu: %v", err)
	} else {
		log.Info("command menu registered")
	}

	return nil
}

// Wire hands the transport its collaborators. Must run before Start.
func Wire(eng *reminder.Engine, st *db.Store, sc *scheduler.Scheduler) {
	engine = eng
	store = st
	sched = sc
}

func Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := BotAPI.GetUpdatesChan(u)

	// worker pool over the updates channel; handlers serialize their own
	// state mutations through the engine lock
	workerCount := 10
	for i := 0; i < workerCount; i++ {
		go func() {
			for update := range updates {
				handleUpdate(update)
			}
		}()
	}

	select {}
}

func handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		handleCommand(update.Message)
	}
}
