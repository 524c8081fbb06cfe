package db

import (
	"fmt"
	"time"
)

// QueueEntry is one participant's slot in the rotation.
type QueueEntry struct {
	QueueID     int64     `db:"id"`
	UserID      int64     `db:"user_id"` // 0 until the platform resolves the username
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	Position    int       `db:"position"`
	AddedAt     time.Time `db:"added_at"`
}

// Resolved reports whether the platform identity is known yet. Entries added
// by username only carry user id 0 until their first interaction.
func (e QueueEntry) Resolved() bool {
	return e.UserID != 0
}

// Label is the human-readable name used in replies and notifications.
func (e QueueEntry) Label() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	if e.Username != "" {
		return e.Username
	}
	return fmt.Sprintf("User %d", e.UserID)
}

// Mention is the form used when notifying the group.
func (e QueueEntry) Mention() string {
	if e.Username != "" {
		return "@" + e.Username
	}
	return fmt.Sprintf("User %d", e.UserID)
}

// ActiveReminder marks an entry as notified and awaiting resolution.
type ActiveReminder struct {
	ReminderID     int64      `db:"id"`
	QueueID        int64      `db:"queue_id"` // 0 when the legacy binding is missing
	UserID         int64      `db:"user_id"`
	Username       string     `db:"username"`
	ReminderCount  int        `db:"reminder_count"`
	CreatedAt      time.Time  `db:"created_at"`
	LastRemindedAt time.Time  `db:"last_reminded_at"`
	NextReminderAt *time.Time `db:"next_reminder_at"` // reserved, always nil for now
}

// HistoryRecord is an append-only audit entry.
type HistoryRecord struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Action    string    `db:"action"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}

// Schedule is a persisted weekly slot (day 0=Monday .. 6=Sunday).
type Schedule struct {
	DayOfWeek int `db:"day_of_week"`
	Hour      int `db:"hour"`
	Minute    int `db:"minute"`
}
