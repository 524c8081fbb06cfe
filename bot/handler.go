package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

func isGroupChat(chat *tgbotapi.Chat) bool {
	return chat.Type == "group" || chat.Type == "supergroup"
}

// isPrivileged reports whether the sender may use admin commands: either a
// configured admin id, or a creator/administrator of the group the command
// was sent in.
func isPrivileged(message *tgbotapi.Message) bool {
	if message.From == nil {
		return false
	}
	if adminIDs[message.From.ID] {
		return true
	}
	if !isGroupChat(message.Chat) {
		return false
	}

	member, err := BotAPI.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: message.Chat.ID,
			UserID: message.From.ID,
		},
	})
	if err != nil {
		log.Errorf("[auth] failed to check admin status: %v", err)
		return false
	}

	return member.Status == "creator" || member.Status == "administrator"
}

func handleCommand(message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}

	command := message.Command()
	log.Infof("[command] /%s from %d in chat %d", command, message.From.ID, message.Chat.ID)

	switch command {
	case "start":
		handleStart(message)
	case "help":
		handleHelp(message)
	case "queue":
		handleQueue(message)
	case "skip":
		handleSkip(message)
	case "setgroup":
		handleSetGroup(message)
	case "adduser":
		handleAddUser(message)
	case "removeuser":
		handleRemoveUser(message)
	case "initqueue":
		handleInitQueue(message)
	case "clearqueue":
		handleClearQueue(message)
	case "noreview":
		handleNoReview(message)
	case "setschedule":
		handleSetSchedule(message)
	case "setautopop":
		handleSetAutoPop(message)
	case "nextreminder":
		handleNextReminder(message)
	case "history":
		handleHistory(message)
	}
}

// requireAdmin replies and returns false when the sender is not privileged.
func requireAdmin(message *tgbotapi.Message) bool {
	if isPrivileged(message) {
		return true
	}
	reply(message.Chat.ID, "Only admins can use this command.")
	return false
}
