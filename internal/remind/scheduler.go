package remind

import (
	"log/slog"
	"sync"
	"time"
)

// DeliverFunc delivers a fired reminder to its conversation.
type DeliverFunc func(Reminder) error

// Scheduler arms one in-memory one-shot timer per pending reminder. It
// holds no authoritative state: it is rebuilt from the Store on startup and
// kept in sync through the onFired callback.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	now    func() time.Time
	logger *slog.Logger
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
		now:    time.Now,
		logger: slog.Default(),
	}
}

// SetLogger sets a custom logger.
func (s *Scheduler) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Schedule arms a timer for the reminder. Scheduling is idempotent: an id
// with an armed timer is left untouched. Reminders whose time has already
// passed are dropped silently rather than fired. On fire the delivery is
// attempted at most once; onFired runs exactly once regardless of the
// delivery outcome so the store is always cleaned up.
func (s *Scheduler) Schedule(reminder Reminder, deliver DeliverFunc, onFired func(id string)) bool {
	if reminder.ID == "" || deliver == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, armed := s.timers[reminder.ID]; armed {
		return false
	}

	delay := reminder.FireAt.Sub(s.now())
	if delay <= 0 {
		s.logger.Debug("dropping stale reminder", "id", reminder.ID, "fire_at", reminder.FireAt)
		return false
	}

	s.timers[reminder.ID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, reminder.ID)
		s.mu.Unlock()

		if err := deliver(reminder); err != nil {
			s.logger.Error("failed to deliver reminder", "id", reminder.ID, "error", err)
		}
		if onFired != nil {
			onFired(reminder.ID)
		}
	})

	s.logger.Info("reminder scheduled", "id", reminder.ID, "fire_at", reminder.FireAt, "in", delay)
	return true
}

// Cancel disarms the timer for id if one is armed.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[id]
	if !ok {
		return false
	}
	timer.Stop()
	delete(s.timers, id)
	return true
}

// Scheduled reports whether a timer is armed for id.
func (s *Scheduler) Scheduled(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Len returns the number of armed timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// StopAll disarms every timer, typically during shutdown.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
