package reminder

import (
	"errors"
	"strings"
	"time"

	"github.com/yukiwukii/paper-review-bot/db"
	"github.com/yukiwukii/paper-review-bot/rotation"
)

// memStore is an in-memory Store. It maintains the same invariants the SQL
// store does: entries sorted by position with positions equal to the slice
// index, reminders in creation order.
type memStore struct {
	entries   []db.QueueEntry
	reminders []db.ActiveReminder
	history   []db.HistoryRecord
	skipRows  int
	groupChat *int64

	nextQueueID    int64
	nextReminderID int64
}

func newMemStore() *memStore {
	return &memStore{nextQueueID: 1, nextReminderID: 1}
}

func (m *memStore) setGroup(chatID int64) {
	m.groupChat = &chatID
}

func (m *memStore) order() []int64 {
	ids := make([]int64, len(m.entries))
	for i, e := range m.entries {
		ids[i] = e.QueueID
	}
	return ids
}

func (m *memStore) applyOrder(order []int64) {
	byID := make(map[int64]db.QueueEntry, len(m.entries))
	for _, e := range m.entries {
		byID[e.QueueID] = e
	}
	m.entries = m.entries[:0]
	for i, id := range order {
		e := byID[id]
		e.Position = i
		m.entries = append(m.entries, e)
	}
}

func (m *memStore) AddToQueue(userID int64, username, displayName string) (bool, error) {
	if username != "" {
		for _, e := range m.entries {
			if e.Username == username {
				return false, nil
			}
		}
	}
	m.entries = append(m.entries, db.QueueEntry{
		QueueID:     m.nextQueueID,
		UserID:      userID,
		Username:    username,
		DisplayName: displayName,
		Position:    len(m.entries),
	})
	m.nextQueueID++
	return true, nil
}

func (m *memStore) RemoveFromQueue(userID int64) (bool, error) {
	for _, e := range m.entries {
		if e.UserID == userID {
			order, _ := rotation.Remove(m.order(), e.QueueID)
			m.applyOrder(order)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) QueueList() ([]db.QueueEntry, error) {
	out := make([]db.QueueEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memStore) NextInQueue() (*db.QueueEntry, error) {
	if len(m.entries) == 0 {
		return nil, nil
	}
	e := m.entries[0]
	return &e, nil
}

func (m *memStore) ClearQueue() error {
	m.entries = nil
	return nil
}

func (m *memStore) MoveToBack(queueID int64) (bool, error) {
	order, found := rotation.MoveToBack(m.order(), queueID)
	if !found {
		return false, nil
	}
	m.applyOrder(order)
	return true, nil
}

func (m *memStore) FindQueueID(userID int64, username string) (int64, bool, error) {
	if userID != 0 {
		for _, e := range m.entries {
			if e.UserID == userID {
				return e.QueueID, true, nil
			}
		}
	}
	if username != "" {
		for _, e := range m.entries {
			if e.Username == username {
				return e.QueueID, true, nil
			}
		}
	}
	return 0, false, nil
}

func (m *memStore) CreateReminder(queueID, userID int64, username string, at time.Time) (int64, error) {
	id := m.nextReminderID
	m.nextReminderID++
	m.reminders = append(m.reminders, db.ActiveReminder{
		ReminderID:     id,
		QueueID:        queueID,
		UserID:         userID,
		Username:       username,
		CreatedAt:      at,
		LastRemindedAt: at,
	})
	return id, nil
}

func (m *memStore) ReminderByQueueID(queueID int64) (*db.ActiveReminder, error) {
	for i := range m.reminders {
		if m.reminders[i].QueueID == queueID {
			r := m.reminders[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) ReminderByUserID(userID int64) (*db.ActiveReminder, error) {
	for i := range m.reminders {
		if m.reminders[i].UserID == userID {
			r := m.reminders[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) ReminderByUsername(username string) (*db.ActiveReminder, error) {
	for i := range m.reminders {
		if m.reminders[i].Username == username {
			r := m.reminders[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) ActiveReminders() ([]db.ActiveReminder, error) {
	out := make([]db.ActiveReminder, len(m.reminders))
	copy(out, m.reminders)
	return out, nil
}

func (m *memStore) TouchReminder(reminderID int64, count int, at time.Time) error {
	for i := range m.reminders {
		if m.reminders[i].ReminderID == reminderID {
			m.reminders[i].ReminderCount = count
			m.reminders[i].LastRemindedAt = at
			return nil
		}
	}
	return errors.New("reminder not found")
}

func (m *memStore) DeleteReminder(reminderID int64) error {
	for i := range m.reminders {
		if m.reminders[i].ReminderID == reminderID {
			m.reminders = append(m.reminders[:i], m.reminders[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) SetSkipWeek(reason string) error {
	m.skipRows++
	return nil
}

func (m *memStore) WeekSkipped() (bool, error) {
	return m.skipRows > 0, nil
}

func (m *memStore) ClearSkipWeek() error {
	m.skipRows = 0
	return nil
}

func (m *memStore) GroupChatID() (int64, bool, error) {
	if m.groupChat == nil {
		return 0, false, nil
	}
	return *m.groupChat, true, nil
}

func (m *memStore) AddHistory(userID int64, action, notes string) error {
	m.history = append(m.history, db.HistoryRecord{UserID: userID, Action: action, Notes: notes})
	return nil
}

// fakeNotifier records deliveries and can be told to fail them.
type fakeNotifier struct {
	group  []string // texts sent to the group
	direct []int64  // user ids messaged directly
	fail   bool
}

func (n *fakeNotifier) NotifyGroup(chatID int64, text string) error {
	if n.fail {
		return errors.New("send failed")
	}
	n.group = append(n.group, text)
	return nil
}

func (n *fakeNotifier) NotifyUser(userID int64, text string) error {
	if n.fail {
		return errors.New("send failed")
	}
	n.direct = append(n.direct, userID)
	return nil
}

func (n *fakeNotifier) lastGroupMention(mention string) bool {
	if len(n.group) == 0 {
		return false
	}
	return strings.Contains(n.group[len(n.group)-1], mention)
}
