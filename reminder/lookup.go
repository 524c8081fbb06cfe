package reminder

import (
	"github.com/yukiwukii/paper-review-bot/db"
)

// FindActiveReminder looks up the active reminder for an identity using the
// first usable key: queue id, then non-zero user id, then username. The
// order matters because user id 0 is the unresolved placeholder and would
// otherwise match any other placeholder entry's reminder.
func FindActiveReminder(s Store, queueID, userID int64, username string) (*db.ActiveReminder, error) {
	switch {
	case queueID != 0:
		return s.ReminderByQueueID(queueID)
	case userID != 0:
		return s.ReminderByUserID(userID)
	case username != "":
		return s.ReminderByUsername(username)
	default:
		return nil, nil
	}
}
