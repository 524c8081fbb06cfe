package reminder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yukiwukii/paper-review-bot/db"
)

// Engine drives the reminder lifecycle. Every event that can touch queue
// positions or the active-reminder set runs under one lock, so scheduled
// triggers, self-service skips and admin edits never interleave their
// read-modify-write sequences.
type Engine struct {
	mu       sync.Mutex
	store    Store
	notifier Notifier
	now      func() time.Time
}

func NewEngine(store Store, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Dispatch runs one reminder cycle: consume the week-skip latch if armed,
// otherwise notify the front of the queue and record the active reminder.
func (e *Engine) Dispatch() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatchLocked()
}

func (e *Engine) dispatchLocked() error {
	skipped, err := e.store.WeekSkipped()
	if err != nil {
		return err
	}
	if skipped {
		log.Info("[dispatch] week skipped via /noreview, clearing flag")
		if err := e.store.ClearSkipWeek(); err != nil {
			return err
		}
		if chatID, ok, err := e.store.GroupChatID(); err != nil {
			return err
		} else if ok {
			if err := e.notifier.NotifyGroup(chatID, skipNoticeText); err != nil {
				log.Errorf("[dispatch] failed to send skip notice to group: %v", err)
			}
		}
		return nil
	}

	entry, err := e.store.NextInQueue()
	if err != nil {
		return err
	}
	if entry == nil {
		log.Info("[dispatch] no users in queue to remind")
		return nil
	}

	active, err := FindActiveReminder(e.store, entry.QueueID, entry.UserID, entry.Username)
	if err != nil {
		return err
	}

	// Best-effort delivery: a failed send is logged and the lifecycle
	// still advances.
	chatID, hasGroup, err := e.store.GroupChatID()
	if err != nil {
		return err
	}
	if hasGroup {
		if err := e.notifier.NotifyGroup(chatID, groupReminderText(entry.Mention())); err != nil {
			log.Errorf("[dispatch] failed to send reminder to group %d: %v", chatID, err)
		} else {
			log.Infof("[dispatch] sent reminder for %s to group %d", entry.Mention(), chatID)
		}
	} else {
		if err := e.notifier.NotifyUser(entry.UserID, directReminderText(entry.Label())); err != nil {
			log.Errorf("[dispatch] failed to send reminder to user %d: %v", entry.UserID, err)
		} else {
			log.Infof("[dispatch] sent reminder to user %d", entry.UserID)
		}
	}

	if active != nil {
		if err := e.store.TouchReminder(active.ReminderID, active.ReminderCount+1, e.now()); err != nil {
			return err
		}
		return e.store.AddHistory(entry.UserID, "reminded", "scheduled reminder re-sent")
	}
	if _, err := e.store.CreateReminder(entry.QueueID, entry.UserID, entry.Username, e.now()); err != nil {
		return err
	}
	return e.store.AddHistory(entry.UserID, "reminded", "initial reminder sent")
}

// SelfSkip resolves the caller to a queue entry and, when that entry holds
// the active reminder, concludes the turn: reminder deleted, entry rotated
// to the back, and the next person notified immediately.
func (e *Engine) SelfSkip(userID int64, username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.store.QueueList()
	if err != nil {
		return err
	}

	var entry *db.QueueEntry
	for i := range entries {
		if entries[i].UserID == userID && entries[i].Resolved() {
			entry = &entries[i]
			break
		}
	}
	if entry == nil && username != "" {
		for i := range entries {
			if entries[i].Username != "" && strings.EqualFold(entries[i].Username, username) {
				entry = &entries[i]
				break
			}
		}
	}
	if entry == nil {
		return ErrNoActiveReminder
	}

	active, err := FindActiveReminder(e.store, entry.QueueID, entry.UserID, entry.Username)
	if err != nil {
		return err
	}
	if active == nil {
		return ErrNoActiveReminder
	}

	if err := e.store.DeleteReminder(active.ReminderID); err != nil {
		return err
	}
	if _, err := e.store.MoveToBack(entry.QueueID); err != nil {
		return err
	}
	if err := e.store.AddHistory(entry.UserID, "skipped", fmt.Sprintf("user skipped their turn (@%s)", username)); err != nil {
		return err
	}
	log.Infof("[skip] user %d (@%s) skipped their turn", userID, username)

	// remind the next person without waiting for the schedule
	return e.dispatchLocked()
}

// SkipWeekResult reports what /noreview did.
type SkipWeekResult struct {
	Front             db.QueueEntry
	CancelledReminder bool
}

// SkipWeek arms the one-shot latch so the next scheduled dispatch is
// suppressed. The front entry's active reminder, if any, is cancelled; the
// queue order is left untouched. Reminders held by non-front entries are
// deliberately left for the auto-pop sweep.
func (e *Engine) SkipWeek(adminID int64) (*SkipWeekResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.store.NextInQueue()
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEmptyQueue
	}

	result := &SkipWeekResult{Front: *entry}

	active, err := FindActiveReminder(e.store, entry.QueueID, entry.UserID, entry.Username)
	if err != nil {
		return nil, err
	}
	if active != nil {
		if err := e.store.DeleteReminder(active.ReminderID); err != nil {
			return nil, err
		}
		if err := e.store.AddHistory(entry.UserID, "review_skipped", "admin cancelled active reminder via /noreview"); err != nil {
			return nil, err
		}
		result.CancelledReminder = true
	}

	if err := e.store.SetSkipWeek(fmt.Sprintf("Admin %d used /noreview", adminID)); err != nil {
		return nil, err
	}
	if err := e.store.AddHistory(0, "week_skipped", fmt.Sprintf("Admin %d skipped week via /noreview", adminID)); err != nil {
		return nil, err
	}
	log.Infof("[noreview] admin %d skipped the week", adminID)
	return result, nil
}

// AutoPop sweeps every active reminder, not just the front entry's: each one
// is rotated to the back and cleared. Reminders whose queue entry no longer
// exists are deleted without rotating.
func (e *Engine) AutoPop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	reminders, err := e.store.ActiveReminders()
	if err != nil {
		return err
	}

	for _, r := range reminders {
		queueID := r.QueueID
		if queueID == 0 {
			id, ok, err := e.store.FindQueueID(r.UserID, r.Username)
			if err != nil {
				return err
			}
			if !ok {
				log.Warnf("[autopop] could not resolve queue entry for reminder %d, removing", r.ReminderID)
				if err := e.store.DeleteReminder(r.ReminderID); err != nil {
					return err
				}
				continue
			}
			queueID = id
		}

		moved, err := e.store.MoveToBack(queueID)
		if err != nil {
			return err
		}
		if !moved {
			log.Warnf("[autopop] reminder %d references missing queue entry %d, removing", r.ReminderID, queueID)
			if err := e.store.DeleteReminder(r.ReminderID); err != nil {
				return err
			}
			continue
		}

		if err := e.store.DeleteReminder(r.ReminderID); err != nil {
			return err
		}
		if err := e.store.AddHistory(r.UserID, "auto_popped", "moved to back after auto-pop schedule"); err != nil {
			return err
		}
		log.Infof("[autopop] popped queue entry %d (reminder %d)", queueID, r.ReminderID)
	}
	return nil
}

// AddUser appends a participant by username, user id unresolved until their
// first interaction. Returns the 1-based position for display.
func (e *Engine) AddUser(username string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ok, err := e.store.AddToQueue(0, username, "")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrDuplicateUser
	}

	entries, err := e.store.QueueList()
	if err != nil {
		return 0, err
	}
	if err := e.store.AddHistory(0, "added_by_admin", fmt.Sprintf("Username: @%s, Position: %d", username, len(entries))); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// RemoveUser removes the entry matching username.
func (e *Engine) RemoveUser(username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.store.QueueList()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Username == username {
			removed, err := e.store.RemoveFromQueue(entry.UserID)
			if err != nil {
				return err
			}
			if !removed {
				return ErrNotInQueue
			}
			return e.store.AddHistory(entry.UserID, "removed_by_admin", fmt.Sprintf("Username: @%s", username))
		}
	}
	return ErrNotInQueue
}

// InitQueue replaces the whole queue with usernames in the given order,
// returning the ones actually added.
func (e *Engine) InitQueue(usernames []string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.ClearQueue(); err != nil {
		return nil, err
	}

	var added []string
	for _, username := range usernames {
		ok, err := e.store.AddToQueue(0, username, "")
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Warnf("[queue] failed to add @%s during init", username)
			continue
		}
		added = append(added, "@"+username)
	}

	if len(added) > 0 {
		if err := e.store.AddHistory(0, "queue_initialized", "Users: "+strings.Join(added, ", ")); err != nil {
			return nil, err
		}
	}
	return added, nil
}

// ClearQueue empties the queue. An active reminder for a removed entry stays
// behind as an orphan until the auto-pop sweep collects it.
func (e *Engine) ClearQueue() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.ClearQueue(); err != nil {
		return err
	}
	return e.store.AddHistory(0, "queue_cleared", "All users removed from queue")
}

// EntryStatus is one row of the /queue view.
type EntryStatus struct {
	Entry  db.QueueEntry
	Active bool // entry holds the active reminder
	You    bool // entry is the caller
}

// Snapshot returns the queue in turn order with per-entry markers.
func (e *Engine) Snapshot(callerID int64) ([]EntryStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.store.QueueList()
	if err != nil {
		return nil, err
	}

	statuses := make([]EntryStatus, 0, len(entries))
	for _, entry := range entries {
		active, err := FindActiveReminder(e.store, entry.QueueID, entry.UserID, entry.Username)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, EntryStatus{
			Entry:  entry,
			Active: active != nil,
			You:    entry.Resolved() && entry.UserID == callerID,
		})
	}
	return statuses, nil
}

// Status describes the current cycle for /nextreminder.
type Status struct {
	Front       *db.QueueEntry
	Holder      *db.QueueEntry // first entry in order holding an active reminder
	Next        *db.QueueEntry // who is up after the holder (or the front when idle)
	WeekSkipped bool
}

func (e *Engine) Status() (*Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.store.QueueList()
	if err != nil {
		return nil, err
	}

	st := &Status{}
	holderIdx := -1
	for i := range entries {
		active, err := FindActiveReminder(e.store, entries[i].QueueID, entries[i].UserID, entries[i].Username)
		if err != nil {
			return nil, err
		}
		if active != nil {
			holderIdx = i
			st.Holder = &entries[i]
			break
		}
	}

	if len(entries) > 0 {
		st.Front = &entries[0]
		if holderIdx < 0 {
			st.Next = &entries[0]
		} else if holderIdx+1 < len(entries) {
			st.Next = &entries[holderIdx+1]
		}
	}

	st.WeekSkipped, err = e.store.WeekSkipped()
	if err != nil {
		return nil, err
	}
	return st, nil
}
