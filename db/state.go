package db

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SetSkipWeek arms the one-shot latch suppressing the next dispatch.
func (s *Store) SetSkipWeek(reason string) error {
	if _, err := s.db.Exec("INSERT INTO skip_week (reason) VALUES (?)", reason); err != nil {
		return fmt.Errorf("set skip flag: %w", err)
	}
	log.Infof("[skip] week-skip flag set: %s", reason)
	return nil
}

func (s *Store) WeekSkipped() (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM skip_week").Scan(&count); err != nil {
		return false, fmt.Errorf("check skip flag: %w", err)
	}
	return count > 0, nil
}

func (s *Store) ClearSkipWeek() error {
	if _, err := s.db.Exec("DELETE FROM skip_week"); err != nil {
		return fmt.Errorf("clear skip flag: %w", err)
	}
	log.Info("[skip] week-skip flag cleared")
	return nil
}

func (s *Store) SetSchedule(sched Schedule) error {
	return s.upsertSchedule("schedule", sched)
}

func (s *Store) GetSchedule() (*Schedule, error) {
	return s.getSchedule("schedule")
}

func (s *Store) SetAutoPopSchedule(sched Schedule) error {
	return s.upsertSchedule("autopop_schedule", sched)
}

func (s *Store) GetAutoPopSchedule() (*Schedule, error) {
	return s.getSchedule("autopop_schedule")
}

func (s *Store) upsertSchedule(table string, sched Schedule) error {
	_, err := s.db.Exec(`
		INSERT INTO `+table+` (id, day_of_week, hour, minute)
		VALUES (1, ?, ?, ?)
		ON DUPLICATE KEY UPDATE day_of_week = VALUES(day_of_week), hour = VALUES(hour), minute = VALUES(minute)
	`, sched.DayOfWeek, sched.Hour, sched.Minute)
	if err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	log.Infof("[schedule] saved %s: day=%d %02d:%02d", table, sched.DayOfWeek, sched.Hour, sched.Minute)
	return nil
}

func (s *Store) getSchedule(table string) (*Schedule, error) {
	var sched Schedule
	err := s.db.QueryRow(`
		SELECT day_of_week, hour, minute FROM `+table+` WHERE id = 1
	`).Scan(&sched.DayOfWeek, &sched.Hour, &sched.Minute)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return &sched, nil
}

// SetGroupChatID binds the group every notification goes to.
func (s *Store) SetGroupChatID(chatID int64) error {
	_, err := s.db.Exec(`
		INSERT INTO group_chat (id, chat_id)
		VALUES (1, ?)
		ON DUPLICATE KEY UPDATE chat_id = VALUES(chat_id)
	`, chatID)
	if err != nil {
		return fmt.Errorf("save group chat: %w", err)
	}
	log.Infof("[group] saved group chat id %d", chatID)
	return nil
}

// GroupChatID returns the bound group, or ok=false when reminders fall back
// to direct messages.
func (s *Store) GroupChatID() (int64, bool, error) {
	var chatID int64
	err := s.db.QueryRow("SELECT chat_id FROM group_chat WHERE id = 1").Scan(&chatID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load group chat: %w", err)
	}
	return chatID, true, nil
}

// AddHistory appends an audit record. History is observational only.
func (s *Store) AddHistory(userID int64, action, notes string) error {
	if _, err := s.db.Exec(`
		INSERT INTO reminder_history (user_id, action, notes) VALUES (?, ?, ?)
	`, userID, action, notes); err != nil {
		return fmt.Errorf("add history: %w", err)
	}
	return nil
}

// RecentHistory returns the latest audit records, newest first.
func (s *Store) RecentHistory(limit int) ([]HistoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, action, notes, created_at
		FROM reminder_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var notes sql.NullString
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Action, &notes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Notes = notes.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
