package state

import (
	"time"
)

type PendingReminder struct {
	SessionID string
	FireAt    time.Time
	Text      string
}

// Session is the per-visitor state. It is only touched while the owning
// Store lock is held.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time

	history  ChatHistory
	reminder *PendingReminder
	fired    string
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
	}
}

func (s *Session) AddTurn(role Role, text string, now time.Time) {
	s.history.add(role, text, now)
}

func (s *Session) History() []Message {
	return s.history.snapshot()
}

// SetReminder replaces any reminder already scheduled for the session.
func (s *Session) SetReminder(fireAt time.Time, text string) {
	s.reminder = &PendingReminder{
		SessionID: s.ID,
		FireAt:    fireAt,
		Text:      text,
	}
}

func (s *Session) Reminder() (PendingReminder, bool) {
	if s.reminder == nil {
		return PendingReminder{}, false
	}
	return *s.reminder, true
}

// TakeFired returns the fired reminder message once and clears it.
func (s *Session) TakeFired() (string, bool) {
	if s.fired == "" {
		return "", false
	}

	msg := s.fired
	s.fired = ""
	return msg, true
}

func (s *Session) fireIfDue(now time.Time) bool {
	if s.reminder == nil || now.Before(s.reminder.FireAt) {
		return false
	}

	s.fired = FiredPrefix + s.reminder.Text
	s.reminder = nil
	return true
}

// idle reports whether the session outlived its cookie. Pending or fired
// reminders do not keep it alive.
func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivity) >= ttl
}
