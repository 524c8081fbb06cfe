package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/yukiwukii/paper-review-bot/db"
	"github.com/yukiwukii/paper-review-bot/reminder"
)

// Notifier delivers the engine's notifications over Telegram. Failures are
// the caller's to log; the lifecycle advances either way.
type Notifier struct{}

func (Notifier) NotifyGroup(chatID int64, text string) error {
	_, err := BotAPI.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (Notifier) NotifyUser(userID int64, text string) error {
	_, err := BotAPI.Send(tgbotapi.NewMessage(userID, text))
	return err
}

func reply(chatID int64, text string) {
	if _, err := BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Errorf("[reply] failed to send to chat %d: %v", chatID, err)
	}
}

func formatQueue(statuses []reminder.EntryStatus) string {
	if len(statuses) == 0 {
		return "The queue is empty."
	}

	var text strings.Builder
	text.WriteString("Current Queue:\n\n")
	for i, st := range statuses {
		marker := ""
		if st.You {
			marker += " 👈 (you)"
		}
		if st.Active {
			marker += " 🔔"
		}
		text.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, st.Entry.Label(), marker))
	}
	return strings.TrimRight(text.String(), "\n")
}

func formatHistory(records []db.HistoryRecord) string {
	if len(records) == 0 {
		return "No history yet."
	}

	var text strings.Builder
	text.WriteString("Recent activity:\n\n")
	for _, rec := range records {
		line := fmt.Sprintf("%s | %s", rec.CreatedAt.Format("2006-01-02 15:04"), rec.Action)
		if rec.Notes != "" {
			line += " (" + rec.Notes + ")"
		}
		text.WriteString(line + "\n")
	}
	return strings.TrimRight(text.String(), "\n")
}

const baseCommandsText = "Welcome to the Reminder Bot!\n\n" +
	"Available commands:\n" +
	"/queue - View the current queue\n" +
	"/skip - Skip your turn and pass to next person\n" +
	"/help - Show this help message"

const adminCommandsText = "\n\nAdmin commands:\n" +
	"/adduser @username - Add user to queue by username\n" +
	"/removeuser @username - Remove user from queue\n" +
	"/initqueue @user1 @user2 @user3 - Initialize queue with users\n" +
	"/setgroup - Set this group as the reminder target\n" +
	"/setschedule <day> <hour> <minute> - Set reminder schedule\n" +
	"/setautopop <day> <hour> <minute> - Set auto-pop schedule\n" +
	"/clearqueue - Clear the entire queue\n" +
	"/noreview - Skip this week's reminder (queue stays the same)\n" +
	"/nextreminder - Show next reminder time and who is up next\n" +
	"/history - Show recent queue activity"

const baseHelpText = "Reminder Bot Commands:\n\n" +
	"/queue - View the current queue\n" +
	"/skip - Skip your turn and pass to next person\n" +
	"/help - Show this help message\n\n" +
	"How it works:\n" +
	"1. Admins add users to the queue\n" +
	"2. Every week, the bot reminds the next person in the group\n" +
	"3. Use /skip to pass your turn to the next person\n" +
	"4. After the auto-pop schedule, you'll be moved to the back of the queue"

const adminHelpText = "\n\nAdmin Commands:\n" +
	"/adduser @username - Add a user to the queue by their username\n" +
	"/removeuser @username - Remove a user from the queue\n" +
	"/initqueue @user1 @user2 @user3 - Initialize/replace the entire queue\n" +
	"/setgroup - Set this group chat as the reminder target\n" +
	"/setschedule <day> <hour> <minute> - Set reminder schedule (day: 0=Mon, 6=Sun)\n" +
	"/setautopop <day> <hour> <minute> - Set auto-pop schedule (day: 0=Mon, 6=Sun)\n" +
	"/clearqueue - Clear the entire queue\n" +
	"/noreview - Skip this week's reminder (queue order unchanged)\n" +
	"/nextreminder - Show next reminder time and who is up next\n" +
	"/history - Show recent queue activity\n\n" +
	"Note: Users must be in the group for the bot to remind them!"
