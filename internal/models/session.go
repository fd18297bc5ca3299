package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurlybekov/pomo/internal/timeacct"
)

// SessionType classifies what a timed interval is for.
type SessionType string

const (
	TypeFocus      SessionType = "focus"
	TypeShortBreak SessionType = "short_break"
	TypeLongBreak  SessionType = "long_break"
	TypeCustom     SessionType = "custom"
)

// SessionStatus is the lifecycle state of a session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
	StatusStopped   SessionStatus = "stopped"
	// StatusAbandoned is reserved for external/administrative marking and is
	// never produced by the lifecycle operations below.
	StatusAbandoned SessionStatus = "abandoned"
)

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	switch t {
	case TypeFocus, TypeShortBreak, TypeLongBreak, TypeCustom:
		return true
	}
	return false
}

// Valid reports whether s is a known session status.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusStopped, StatusAbandoned:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transition is permitted.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusStopped || s == StatusAbandoned
}

const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 180
	MaxTagLength       = 20
	MaxNoteLength      = 500
)

// Session represents one timed focus/break interval owned by a single user.
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PublicID string `gorm:"uniqueIndex;not null" json:"public_id"`

	UserID   string `gorm:"not null;index:idx_user_started;index:idx_user_status" json:"user_id"`
	UserName string `json:"user_name"`

	Type     SessionType   `gorm:"not null" json:"type"`
	Duration int           `gorm:"not null" json:"duration"` // planned minutes
	Status   SessionStatus `gorm:"not null;index:idx_user_status;index:idx_status_started" json:"status"`

	StartedAt time.Time  `gorm:"not null;index:idx_user_started,sort:desc;index:idx_status_started,sort:desc" json:"started_at"`
	PausedAt  *time.Time `json:"paused_at"`
	ResumedAt *time.Time `json:"resumed_at"`

	TotalPausedMs int64 `json:"total_paused_ms"`

	CompletedAt *time.Time `json:"completed_at"`
	StoppedAt   *time.Time `json:"stopped_at"`

	// Last progress report from the caller, only accepted while active.
	RemainingSeconds  *int       `json:"remaining_seconds"`
	ProgressUpdatedAt *time.Time `json:"progress_updated_at"`

	WasCompleted   bool     `json:"was_completed"`
	CompletionRate *float64 `json:"completion_rate"` // 0-100, finalized on stop/complete
	ActualDuration *float64 `json:"actual_duration"` // minutes, one decimal

	CycleNumber int    `gorm:"default:1" json:"cycle_number"`
	Tag         string `json:"tag"`
	Note        string `json:"note"`

	// Soft-delete / retention flag. Rows are never hard-deleted here.
	IsActive bool `gorm:"default:true;index" json:"is_active"`

	// Optimistic concurrency counter, bumped on every committed transition.
	Version int `gorm:"default:0" json:"-"`
}

// NewSession constructs a session in the active state. Invalid duration,
// type, or a missing user id are rejected before anything is persisted.
func NewSession(userID, userName string, typ SessionType, durationMinutes int, now time.Time) (*Session, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "required"}
	}
	if !typ.Valid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown session type %q", typ)}
	}
	if durationMinutes < MinDurationMinutes || durationMinutes > MaxDurationMinutes {
		return nil, &ValidationError{
			Field:  "duration",
			Reason: fmt.Sprintf("must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes),
		}
	}

	return &Session{
		PublicID:    uuid.NewString(),
		UserID:      userID,
		UserName:    userName,
		Type:        typ,
		Duration:    durationMinutes,
		Status:      StatusActive,
		StartedAt:   now,
		CycleNumber: 1,
		IsActive:    true,
	}, nil
}

// Pause moves an active session to paused.
func (s *Session) Pause(now time.Time) error {
	if s.Status != StatusActive {
		return ErrInvalidTransition
	}
	s.Status = StatusPaused
	s.PausedAt = &now
	return nil
}

// Resume folds the open paused interval into TotalPausedMs and reactivates
// the session.
func (s *Session) Resume(now time.Time) error {
	if s.Status != StatusPaused {
		return ErrInvalidTransition
	}
	s.foldPause(now)
	s.Status = StatusActive
	s.ResumedAt = &now
	return nil
}

// UpdateProgress records the caller-reported remaining seconds. Negative
// values are clamped to zero. Only an active session accepts progress.
func (s *Session) UpdateProgress(remainingSeconds int, now time.Time) error {
	if s.Status != StatusActive {
		return ErrInvalidTransition
	}
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	s.RemainingSeconds = &remainingSeconds
	s.ProgressUpdatedAt = &now
	return nil
}

// Complete finishes the session successfully: completion rate 100, actual
// duration from elapsed time, remaining progress forced to zero. A paused
// session folds its open paused interval first.
func (s *Session) Complete(now time.Time) error {
	if s.Status.Terminal() {
		return ErrAlreadyTerminal
	}
	if s.Status == StatusPaused {
		s.foldPause(now)
	}
	s.Status = StatusCompleted
	s.CompletedAt = &now
	s.WasCompleted = true

	rate := 100.0
	s.CompletionRate = &rate
	mins := timeacct.ElapsedMinutes(s.StartedAt, now, s.TotalPausedMs)
	s.ActualDuration = &mins

	zero := 0
	s.RemainingSeconds = &zero
	s.ProgressUpdatedAt = &now
	return nil
}

// Stop ends the session early. The completion rate comes from the last
// reported remaining time; a session that never reported progress counts as
// not started.
func (s *Session) Stop(now time.Time) error {
	if s.Status.Terminal() {
		return ErrAlreadyTerminal
	}
	if s.Status == StatusPaused {
		s.foldPause(now)
	}
	s.Status = StatusStopped
	s.StoppedAt = &now
	s.PausedAt = nil

	rate := timeacct.CompletionRate(s.Duration, s.RemainingSeconds)
	s.CompletionRate = &rate
	mins := timeacct.ElapsedMinutes(s.StartedAt, now, s.TotalPausedMs)
	s.ActualDuration = &mins
	return nil
}

// SoftDelete flags the session out of queries without removing the row.
// Idempotent.
func (s *Session) SoftDelete() {
	s.IsActive = false
}

func (s *Session) foldPause(now time.Time) {
	if s.PausedAt == nil {
		return
	}
	paused := now.Sub(*s.PausedAt).Milliseconds()
	if paused > 0 {
		s.TotalPausedMs += paused
	}
	s.PausedAt = nil
}

// endTime returns the accounting end of the session: completion beats stop,
// a running session has no fixed end yet.
func (s *Session) endTime() (time.Time, bool) {
	if s.CompletedAt != nil {
		return *s.CompletedAt, true
	}
	if s.StoppedAt != nil {
		return *s.StoppedAt, true
	}
	return time.Time{}, false
}

// ElapsedMs returns elapsed milliseconds at now, net of paused time. For a
// finished session the terminal timestamp wins over now.
func (s *Session) ElapsedMs(now time.Time) int64 {
	end, ok := s.endTime()
	if !ok {
		end = now
	}
	return timeacct.ElapsedMs(s.StartedAt, end, s.TotalPausedMs)
}

// ElapsedMinutes is ElapsedMs in minutes rounded to one decimal.
func (s *Session) ElapsedMinutes(now time.Time) float64 {
	end, ok := s.endTime()
	if !ok {
		end = now
	}
	return timeacct.ElapsedMinutes(s.StartedAt, end, s.TotalPausedMs)
}

// Progress returns the 0-100 progress percentage from the last reported
// remaining time, or 0 when no progress was ever reported.
func (s *Session) Progress() int {
	if s.RemainingSeconds == nil || s.Duration <= 0 {
		return 0
	}
	return timeacct.ProgressPercent(s.Duration, *s.RemainingSeconds)
}

// BeforeSave enforces the write invariants and fills derived fields that were
// never set explicitly. It runs on every create and update, so a row that
// violates the invariants is never written.
func (s *Session) BeforeSave(tx *gorm.DB) error {
	if err := s.validate(); err != nil {
		return err
	}

	// Fallback derivations only: an explicitly set value is never overwritten.
	if s.CompletionRate == nil && s.RemainingSeconds != nil && s.Duration > 0 {
		rate := float64(timeacct.ProgressPercent(s.Duration, *s.RemainingSeconds))
		s.CompletionRate = &rate
	}
	if s.ActualDuration == nil {
		if end, ok := s.endTime(); ok {
			mins := timeacct.ElapsedMinutes(s.StartedAt, end, s.TotalPausedMs)
			s.ActualDuration = &mins
		}
	}
	return nil
}

func (s *Session) validate() error {
	if s.UserID == "" {
		return &ValidationError{Field: "user_id", Reason: "required"}
	}
	if !s.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown session type %q", s.Type)}
	}
	if !s.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s.Status)}
	}
	if s.Duration < MinDurationMinutes || s.Duration > MaxDurationMinutes {
		return &ValidationError{
			Field:  "duration",
			Reason: fmt.Sprintf("must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes),
		}
	}
	if s.StartedAt.IsZero() {
		return &ValidationError{Field: "started_at", Reason: "required"}
	}
	if s.TotalPausedMs < 0 {
		return &ValidationError{Field: "total_paused_ms", Reason: "must not be negative"}
	}
	if s.RemainingSeconds != nil && *s.RemainingSeconds < 0 {
		return &ValidationError{Field: "remaining_seconds", Reason: "must not be negative"}
	}
	if s.CompletionRate != nil && (*s.CompletionRate < 0 || *s.CompletionRate > 100) {
		return &ValidationError{Field: "completion_rate", Reason: "must be between 0 and 100"}
	}
	if s.ActualDuration != nil && *s.ActualDuration < 0 {
		return &ValidationError{Field: "actual_duration", Reason: "must not be negative"}
	}
	if s.CycleNumber < 1 {
		return &ValidationError{Field: "cycle_number", Reason: "must be at least 1"}
	}
	if len(s.Tag) > MaxTagLength {
		return &ValidationError{Field: "tag", Reason: fmt.Sprintf("longer than %d characters", MaxTagLength)}
	}
	if len(s.Note) > MaxNoteLength {
		return &ValidationError{Field: "note", Reason: fmt.Sprintf("longer than %d characters", MaxNoteLength)}
	}
	if s.CompletedAt != nil && s.StoppedAt != nil {
		return &ValidationError{Field: "status", Reason: "completed_at and stopped_at are mutually exclusive"}
	}
	return nil
}
