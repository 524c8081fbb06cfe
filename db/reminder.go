package db

import (
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// CreateReminder inserts the active-reminder row for a queue entry. Callers
// must have checked there is no active reminder for the entry already.
func (s *Store) CreateReminder(queueID, userID int64, username string, at time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO active_reminders
		(queue_id, user_id, username, reminder_count, created_at, last_reminded_at, next_reminder_at)
		VALUES (?, ?, ?, 0, ?, ?, NULL)
	`, queueID, userID, nullString(username), at, at)
	if err != nil {
		return 0, fmt.Errorf("create reminder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Infof("[reminder] created reminder %d for user %d", id, userID)
	return id, nil
}

func (s *Store) ReminderByQueueID(queueID int64) (*ActiveReminder, error) {
	return s.reminderWhere("queue_id = ?", queueID)
}

func (s *Store) ReminderByUserID(userID int64) (*ActiveReminder, error) {
	return s.reminderWhere("user_id = ?", userID)
}

func (s *Store) ReminderByUsername(username string) (*ActiveReminder, error) {
	return s.reminderWhere("username = ?", username)
}

// ActiveReminders returns every active reminder, for the auto-pop sweep.
func (s *Store) ActiveReminders() ([]ActiveReminder, error) {
	rows, err := s.db.Query(`
		SELECT id, queue_id, user_id, username, reminder_count, created_at, last_reminded_at, next_reminder_at
		FROM active_reminders
	`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []ActiveReminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// TouchReminder records a re-send: new count and timestamp.
func (s *Store) TouchReminder(reminderID int64, count int, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE active_reminders
		SET reminder_count = ?, last_reminded_at = ?
		WHERE id = ?
	`, count, at, reminderID)
	if err != nil {
		return fmt.Errorf("touch reminder: %w", err)
	}
	log.Infof("[reminder] updated reminder %d (count %d)", reminderID, count)
	return nil
}

func (s *Store) DeleteReminder(reminderID int64) error {
	if _, err := s.db.Exec("DELETE FROM active_reminders WHERE id = ?", reminderID); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	log.Infof("[reminder] deleted reminder %d", reminderID)
	return nil
}

func (s *Store) reminderWhere(cond string, arg any) (*ActiveReminder, error) {
	row := s.db.QueryRow(`
		SELECT id, queue_id, user_id, username, reminder_count, created_at, last_reminded_at, next_reminder_at
		FROM active_reminders
		WHERE `+cond+` LIMIT 1
	`, arg)
	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reminder: %w", err)
	}
	return &r, nil
}

func scanReminder(row rowScanner) (ActiveReminder, error) {
	var r ActiveReminder
	var queueID sql.NullInt64
	var username sql.NullString
	var lastRemindedAt, nextReminderAt sql.NullTime
	err := row.Scan(&r.ReminderID, &queueID, &r.UserID, &username, &r.ReminderCount, &r.CreatedAt, &lastRemindedAt, &nextReminderAt)
	if err != nil {
		return r, err
	}
	r.QueueID = queueID.Int64
	r.Username = username.String
	r.LastRemindedAt = lastRemindedAt.Time
	if nextReminderAt.Valid {
		t := nextReminderAt.Time
		r.NextReminderAt = &t
	}
	return r, nil
}
