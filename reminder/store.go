package reminder

import (
	"errors"
	"time"

	"github.com/yukiwukii/paper-review-bot/db"
)

var (
	ErrDuplicateUser    = errors.New("user is already in the queue")
	ErrNotInQueue       = errors.New("user is not in the queue")
	ErrNoActiveReminder = errors.New("no active reminder")
	ErrEmptyQueue       = errors.New("queue is empty")
)

// Store is the persistence the engine runs against. *db.Store implements it;
// tests use an in-memory double. The engine serializes every call sequence
// with its own lock, so implementations need no internal ordering guarantees
// beyond per-call atomicity.
type Store interface {
	AddToQueue(userID int64, username, displayName string) (bool, error)
	RemoveFromQueue(userID int64) (bool, error)
	QueueList() ([]db.QueueEntry, error)
	NextInQueue() (*db.QueueEntry, error)
	ClearQueue() error
	MoveToBack(queueID int64) (bool, error)
	FindQueueID(userID int64, username string) (int64, bool, error)

	CreateReminder(queueID, userID int64, username string, at time.Time) (int64, error)
	ReminderByQueueID(queueID int64) (*db.ActiveReminder, error)
	ReminderByUserID(userID int64) (*db.ActiveReminder, error)
	ReminderByUsername(username string) (*db.ActiveReminder, error)
	ActiveReminders() ([]db.ActiveReminder, error)
	TouchReminder(reminderID int64, count int, at time.Time) error
	DeleteReminder(reminderID int64) error

	SetSkipWeek(reason string) error
	WeekSkipped() (bool, error)
	ClearSkipWeek() error

	GroupChatID() (int64, bool, error)
	AddHistory(userID int64, action, notes string) error
}

// Notifier delivers outbound notifications. Delivery is best-effort: the
// engine logs failures and advances state regardless.
type Notifier interface {
	NotifyGroup(chatID int64, text string) error
	NotifyUser(userID int64, text string) error
}
