package db

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/yukiwukii/paper-review-bot/rotation"
)

// AddToQueue appends a participant at the next free position. Returns false
// when the username is already queued. Entries without a username are never
// deduplicated.
func (s *Store) AddToQueue(userID int64, username, displayName string) (bool, error) {
	if username != "" {
		var exists bool
		err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM user_queue WHERE username = ?)", username).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("check username: %w", err)
		}
		if exists {
			log.Warnf("[queue] @%s already in queue", username)
			return false, nil
		}
	}

	var maxPos sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(position) FROM user_queue").Scan(&maxPos); err != nil {
		return false, fmt.Errorf("max position: %w", err)
	}
	nextPos := 0
	if maxPos.Valid {
		nextPos = int(maxPos.Int64) + 1
	}

	_, err := s.db.Exec(`
		INSERT INTO user_queue (user_id, username, display_name, position)
		VALUES (?, ?, ?, ?)
	`, userID, nullString(username), nullString(displayName), nextPos)
	if err != nil {
		return false, fmt.Errorf("insert queue entry: %w", err)
	}

	log.Infof("[queue] added user %d (@%s) at position %d", userID, username, nextPos)
	return true, nil
}

// RemoveFromQueue deletes the first-matching entry (lowest position) for the
// user id and compacts the positions above it. Returns false when no entry
// matches.
func (s *Store) RemoveFromQueue(userID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var id int64
	var pos int
	err = tx.QueryRow(`
		SELECT id, position FROM user_queue
		WHERE user_id = ?
		ORDER BY position ASC LIMIT 1
	`, userID).Scan(&id, &pos)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find queue entry: %w", err)
	}

	if _, err = tx.Exec("DELETE FROM user_queue WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("delete queue entry: %w", err)
	}
	if _, err = tx.Exec("UPDATE user_queue SET position = position - 1 WHERE position > ?", pos); err != nil {
		return false, fmt.Errorf("compact positions: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	log.Infof("[queue] removed user %d (entry %d)", userID, id)
	return true, nil
}

// QueueList returns every entry in turn order.
func (s *Store) QueueList() ([]QueueEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, username, display_name, position, added_at
		FROM user_queue
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	defer rows.Close()

	var entries []QueueEntry
	for rows.Next() {
		entry, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// NextInQueue returns the front entry, or nil when the queue is empty.
func (s *Store) NextInQueue() (*QueueEntry, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, username, display_name, position, added_at
		FROM user_queue
		ORDER BY position ASC LIMIT 1
	`)
	entry, err := scanQueueEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) ClearQueue() error {
	if _, err := s.db.Exec("DELETE FROM user_queue"); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	log.Info("[queue] cleared")
	return nil
}

// MoveToBack rotates the entry to the end of the queue. Entries already at
// the back (or a single-entry queue) are a successful no-op.
func (s *Store) MoveToBack(queueID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT id FROM user_queue ORDER BY position ASC")
	if err != nil {
		return false, fmt.Errorf("load order: %w", err)
	}
	var order []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return false, err
		}
		order = append(order, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, err
	}

	updated, found := rotation.MoveToBack(order, queueID)
	if !found {
		return false, nil
	}

	for id, pos := range rotation.Diff(order, updated) {
		if _, err := tx.Exec("UPDATE user_queue SET position = ? WHERE id = ?", pos, id); err != nil {
			return false, fmt.Errorf("reposition entry %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	log.Infof("[queue] moved entry %d to back", queueID)
	return true, nil
}

// FindQueueID resolves a queue entry from either half of a participant's
// identity: non-zero user id first, then username.
func (s *Store) FindQueueID(userID int64, username string) (int64, bool, error) {
	if userID != 0 {
		var id int64
		err := s.db.QueryRow("SELECT id FROM user_queue WHERE user_id = ? LIMIT 1", userID).Scan(&id)
		if err == nil {
			return id, true, nil
		}
		if err != sql.ErrNoRows {
			return 0, false, err
		}
	}
	if username != "" {
		var id int64
		err := s.db.QueryRow("SELECT id FROM user_queue WHERE username = ? LIMIT 1", username).Scan(&id)
		if err == nil {
			return id, true, nil
		}
		if err != sql.ErrNoRows {
			return 0, false, err
		}
	}
	return 0, false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQueueEntry(row rowScanner) (QueueEntry, error) {
	var entry QueueEntry
	var username, displayName sql.NullString
	err := row.Scan(&entry.QueueID, &entry.UserID, &username, &displayName, &entry.Position, &entry.AddedAt)
	if err != nil {
		return entry, err
	}
	entry.Username = username.String
	entry.DisplayName = displayName.String
	return entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
