package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/yukiwukii/paper-review-bot/db"
	"github.com/yukiwukii/paper-review-bot/reminder"
	"github.com/yukiwukii/paper-review-bot/scheduler"
)

func handleStart(message *tgbotapi.Message) {
	text := baseCommandsText
	if isPrivileged(message) {
		text += adminCommandsText
	}

	if isGroupChat(message.Chat) {
		reply(message.Chat.ID, text)
		return
	}

	// in private chats, offer to add the bot to a group
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(
				"➕ Add bot to a group",
				fmt.Sprintf("https://t.me/%s?startgroup=1", BotAPI.Self.UserName),
			),
		),
	)
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = keyboard
	if _, err := BotAPI.Send(msg); err != nil {
		log.Errorf("[reply] failed to send to chat %d: %v", message.Chat.ID, err)
	}
}

func handleHelp(message *tgbotapi.Message) {
	text := baseHelpText
	if isPrivileged(message) {
		text += adminHelpText
	}
	reply(message.Chat.ID, text)
}

func handleQueue(message *tgbotapi.Message) {
	statuses, err := engine.Snapshot(message.From.ID)
	if err != nil {
		log.Errorf("[queue] snapshot failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	reply(message.Chat.ID, formatQueue(statuses))
}

func handleSkip(message *tgbotapi.Message) {
	err := engine.SelfSkip(message.From.ID, message.From.UserName)
	if errors.Is(err, reminder.ErrNoActiveReminder) {
		reply(message.Chat.ID, "You don't have an active reminder to skip.")
		return
	}
	if err != nil {
		log.Errorf("[skip] failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	reply(message.Chat.ID, "You've skipped your turn. Moving to the next person in queue.")
}

func handleSetGroup(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}
	if !isGroupChat(message.Chat) {
		reply(message.Chat.ID, "This command can only be used in a group chat.")
		return
	}

	if err := store.SetGroupChatID(message.Chat.ID); err != nil {
		log.Errorf("[setgroup] failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	reply(message.Chat.ID, fmt.Sprintf(
		"Group chat set! Reminders will be sent to this group.\nGroup ID: %d", message.Chat.ID))
}

func handleAddUser(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	args := strings.Fields(message.CommandArguments())
	if len(args) < 1 {
		reply(message.Chat.ID, "Usage: /adduser @username\nExample: /adduser @john")
		return
	}

	username := strings.TrimPrefix(args[0], "@")
	position, err := engine.AddUser(username)
	if errors.Is(err, reminder.ErrDuplicateUser) {
		reply(message.Chat.ID, fmt.Sprintf("@%s is already in the queue.", username))
		return
	}
	if err != nil {
		log.Errorf("[adduser] failed: %v", err)
		reply(message.Chat.ID, fmt.Sprintf("Error adding user: %v", err))
		return
	}
	reply(message.Chat.ID, fmt.Sprintf("Added @%s to the queue at position %d!", username, position))
}

func handleRemoveUser(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	args := strings.Fields(message.CommandArguments())
	if len(args) < 1 {
		reply(message.Chat.ID, "Usage: /removeuser @username\nExample: /removeuser @john")
		return
	}

	username := strings.TrimPrefix(args[0], "@")
	err := engine.RemoveUser(username)
	if errors.Is(err, reminder.ErrNotInQueue) {
		reply(message.Chat.ID, fmt.Sprintf("@%s not found in the queue.", username))
		return
	}
	if err != nil {
		log.Errorf("[removeuser] failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	reply(message.Chat.ID, fmt.Sprintf("Removed @%s from the queue.", username))
}

func handleInitQueue(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	args := strings.Fields(message.CommandArguments())
	if len(args) < 1 {
		reply(message.Chat.ID, "Usage: /initqueue @user1 @user2 @user3\n"+
			"Example: /initqueue @alice @bob @charlie\n\n"+
			"This will replace the entire queue with the provided users.")
		return
	}

	usernames := make([]string, 0, len(args))
	for _, arg := range args {
		usernames = append(usernames, strings.TrimPrefix(arg, "@"))
	}

	added, err := engine.InitQueue(usernames)
	if err != nil {
		log.Errorf("[initqueue] failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if len(added) == 0 {
		reply(message.Chat.ID, "No users were added to the queue.")
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Queue initialized with %d users:\n", len(added)))
	for i, name := range added {
		text.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
	}
	reply(message.Chat.ID, strings.TrimRight(text.String(), "\n"))
}

func handleClearQueue(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	if err := engine.ClearQueue(); err != nil {
		log.Errorf("[clearqueue] failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	reply(message.Chat.ID, "Queue cleared successfully.")
}

func handleNoReview(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	result, err := engine.SkipWeek(message.From.ID)
	if errors.Is(err, reminder.ErrEmptyQueue) {
		reply(message.Chat.ID, "The queue is empty. Nothing to skip.")
		return
	}
	if err != nil {
		log.Errorf("[noreview] failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}

	name := result.Front.Label()
	if result.CancelledReminder {
		reply(message.Chat.ID, fmt.Sprintf(
			"✓ Cancelled active reminder for @%s.\n"+
				"✓ Set skip flag to prevent next scheduled reminder.\n\n"+
				"This week's review has been skipped. Queue order remains unchanged.", name))
	} else {
		reply(message.Chat.ID, fmt.Sprintf(
			"✓ Set skip flag to prevent next scheduled reminder for @%s.\n\n"+
				"This week's review will be skipped. Queue order remains unchanged.", name))
	}
}

// parseScheduleArgs validates <day> <hour> <minute> and replies on error.
func parseScheduleArgs(message *tgbotapi.Message, usage string) (scheduler.Spec, bool) {
	args := strings.Fields(message.CommandArguments())
	if len(args) < 3 {
		reply(message.Chat.ID, usage)
		return scheduler.Spec{}, false
	}

	day, err1 := strconv.Atoi(args[0])
	hour, err2 := strconv.Atoi(args[1])
	minute, err3 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil || err3 != nil {
		reply(message.Chat.ID, "Invalid input. Please use numbers only.")
		return scheduler.Spec{}, false
	}

	if day < 0 || day > 6 {
		reply(message.Chat.ID, "Day must be between 0 (Monday) and 6 (Sunday)")
		return scheduler.Spec{}, false
	}
	if hour < 0 || hour > 23 {
		reply(message.Chat.ID, "Hour must be between 0 and 23")
		return scheduler.Spec{}, false
	}
	if minute < 0 || minute > 59 {
		reply(message.Chat.ID, "Minute must be between 0 and 59")
		return scheduler.Spec{}, false
	}

	return scheduler.Spec{DayOfWeek: day, Hour: hour, Minute: minute}, true
}

func handleSetSchedule(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	spec, ok := parseScheduleArgs(message,
		"Usage: /setschedule <day> <hour> <minute>\n\n"+
			"Day: 0=Monday, 1=Tuesday, 2=Wednesday, 3=Thursday, 4=Friday, 5=Saturday, 6=Sunday\n"+
			"Hour: 0-23 (24-hour format)\n"+
			"Minute: 0-59\n\n"+
			"Example: /setschedule 0 9 0\n"+
			"(Sets reminder for Monday at 9:00 AM)")
	if !ok {
		return
	}

	if err := sched.RearmDispatch(spec); err != nil {
		log.Errorf("[setschedule] failed to re-arm: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if err := store.SetSchedule(db.Schedule{DayOfWeek: spec.DayOfWeek, Hour: spec.Hour, Minute: spec.Minute}); err != nil {
		log.Errorf("[setschedule] failed to persist: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}

	reply(message.Chat.ID, fmt.Sprintf(
		"Schedule updated!\nReminders will be sent every %s (%s)", spec, sched.Location()))
}

func handleSetAutoPop(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	spec, ok := parseScheduleArgs(message,
		"Usage: /setautopop <day> <hour> <minute>\n\n"+
			"Day: 0=Monday, 1=Tuesday, 2=Wednesday, 3=Thursday, 4=Friday, 5=Saturday, 6=Sunday\n"+
			"Hour: 0-23 (24-hour format)\n"+
			"Minute: 0-59\n\n"+
			"Example: /setautopop 0 18 0\n"+
			"(Sets auto-pop for Monday at 6:00 PM)")
	if !ok {
		return
	}

	if err := sched.RearmAutoPop(spec); err != nil {
		log.Errorf("[setautopop] failed to re-arm: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	if err := store.SetAutoPopSchedule(db.Schedule{DayOfWeek: spec.DayOfWeek, Hour: spec.Hour, Minute: spec.Minute}); err != nil {
		log.Errorf("[setautopop] failed to persist: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}

	reply(message.Chat.ID, fmt.Sprintf(
		"Auto-pop schedule updated!\nUsers with active reminders will be auto-popped every %s (%s)",
		spec, sched.Location()))
}

func handleNextReminder(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	nextRunText := "Not scheduled"
	if next, ok := sched.NextDispatch(); ok {
		nextRunText = next.Format("2006-01-02 15:04:05 MST")
	}

	status, err := engine.Status()
	if err != nil {
		log.Errorf("[nextreminder] failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}

	thisWeek := "done"
	if status.Holder != nil {
		thisWeek = status.Holder.Label()
	}
	nextName := "none"
	if status.Next != nil {
		nextName = status.Next.Label()
	}

	text := fmt.Sprintf("This week's review is %s\nNext reminder is at %s for %s",
		thisWeek, nextRunText, nextName)
	if status.WeekSkipped {
		text += "\nNote: /noreview is set, so the next scheduled run will be skipped."
	}
	reply(message.Chat.ID, text)
}

func handleHistory(message *tgbotapi.Message) {
	if !requireAdmin(message) {
		return
	}

	records, err := store.RecentHistory(10)
	if err != nil {
		log.Errorf("[history] failed: %v", err)
		reply(message.Chat.ID, "Something went wrong, please try again.")
		return
	}
	reply(message.Chat.ID, formatHistory(records))
}
