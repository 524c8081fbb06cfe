package reminder

import "fmt"

func groupReminderText(mention string) string {
	return fmt.Sprintf("%s 🔔\n\n"+
		"It's your turn for paper review!\n\n"+
		"Please use /skip to pass to the next person.", mention)
}

func directReminderText(name string) string {
	return fmt.Sprintf("Hello %s! 🔔\n\n"+
		"It's your turn for paper review!\n\n"+
		"Please use /skip to pass to the next person.", name)
}

const skipNoticeText = "📋 This week's review has been skipped as requested. " +
	"Normal schedule will resume next week."
