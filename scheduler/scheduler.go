// Package scheduler arms the two weekly wall-clock triggers (reminder
// dispatch and auto-pop) in the configured timezone and lets them be
// re-armed live when an admin changes a schedule.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Spec is a weekly slot. DayOfWeek uses 0=Monday .. 6=Sunday.
type Spec struct {
	DayOfWeek int
	Hour      int
	Minute    int
}

// CronExpr renders the slot as a cron expression. Cron weekdays start at
// 0=Sunday, so the day is shifted by one.
func (s Spec) CronExpr() string {
	return fmt.Sprintf("%d %d * * %d", s.Minute, s.Hour, (s.DayOfWeek+1)%7)
}

// String renders the slot for replies, e.g. "Monday at 09:00".
func (s Spec) String() string {
	return fmt.Sprintf("%s at %02d:%02d", dayNames[s.DayOfWeek], s.Hour, s.Minute)
}

// Effective picks the persisted schedule when one exists, otherwise the
// configured default. Persisted values survive restarts and always win.
func Effective(persisted *Spec, fallback Spec) Spec {
	if persisted != nil {
		return *persisted
	}
	return fallback
}

type Scheduler struct {
	cron     *cron.Cron
	loc      *time.Location
	dispatch func()
	autoPop  func()

	dispatchID cron.EntryID
	autoPopID  cron.EntryID
	armed      struct{ dispatch, autoPop bool }
}

func New(timezone string, dispatch, autoPop func()) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		loc:      loc,
		dispatch: dispatch,
		autoPop:  autoPop,
	}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info("scheduler stopped")
}

// RearmDispatch replaces the reminder trigger with the given slot.
func (s *Scheduler) RearmDispatch(spec Spec) error {
	if s.armed.dispatch {
		s.cron.Remove(s.dispatchID)
	}
	id, err := s.cron.AddFunc(spec.CronExpr(), s.dispatch)
	if err != nil {
		return fmt.Errorf("arm dispatch trigger: %w", err)
	}
	s.dispatchID = id
	s.armed.dispatch = true
	log.Infof("[schedule] reminder trigger armed: %s (%s)", spec, s.loc)
	return nil
}

// RearmAutoPop replaces the auto-pop trigger with the given slot.
func (s *Scheduler) RearmAutoPop(spec Spec) error {
	if s.armed.autoPop {
		s.cron.Remove(s.autoPopID)
	}
	id, err := s.cron.AddFunc(spec.CronExpr(), s.autoPop)
	if err != nil {
		return fmt.Errorf("arm auto-pop trigger: %w", err)
	}
	s.autoPopID = id
	s.armed.autoPop = true
	log.Infof("[schedule] auto-pop trigger armed: %s (%s)", spec, s.loc)
	return nil
}

// NextDispatch returns the next reminder fire time in the scheduler's
// timezone. ok is false until the trigger is armed and the scheduler runs.
func (s *Scheduler) NextDispatch() (time.Time, bool) {
	if !s.armed.dispatch {
		return time.Time{}, false
	}
	next := s.cron.Entry(s.dispatchID).Next
	if next.IsZero() {
		return time.Time{}, false
	}
	return next.In(s.loc), true
}

// Location is the timezone both triggers fire in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}
