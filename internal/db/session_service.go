package db

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"

	"github.com/nurlybekov/pomo/internal/models"
)

// Clock supplies the current time. Injectable so lifecycle transitions are
// deterministic under test.
type Clock func() time.Time

const aggregateCacheSize = 128

// SessionService owns the database handle, the clock, and a small expiring
// cache for aggregation reads. One instance per process; there is no package
// level state.
type SessionService struct {
	db    *gorm.DB
	clock Clock
	cache *expirable.LRU[string, any]
}

// NewSessionService builds a service around an open database handle. A nil
// clock means wall clock. cacheTTL bounds how stale aggregation reads may be;
// zero disables expiry (writes still purge the cache).
func NewSessionService(gdb *gorm.DB, clock Clock, cacheTTL time.Duration) *SessionService {
	if clock == nil {
		clock = time.Now
	}
	return &SessionService{
		db:    gdb,
		clock: clock,
		cache: expirable.NewLRU[string, any](aggregateCacheSize, nil, cacheTTL),
	}
}

// StartRequest holds the data needed to start a new session.
type StartRequest struct {
	UserID          string
	UserName        string
	Type            models.SessionType
	DurationMinutes int
	Cycle           int // optional grouping hint, defaults to 1
	Tag             string
	Note            string
}

// StartSession validates the request and persists a new active session.
func (s *SessionService) StartSession(req StartRequest) (*models.Session, error) {
	sess, err := models.NewSession(req.UserID, req.UserName, req.Type, req.DurationMinutes, s.clock())
	if err != nil {
		return nil, err
	}
	if req.Cycle > 0 {
		sess.CycleNumber = req.Cycle
	}
	sess.Tag = req.Tag
	sess.Note = req.Note

	if err := s.db.Create(sess).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	s.cache.Purge()
	return sess, nil
}

// GetSession loads a session by its public id. A unique prefix of the id is
// accepted so callers can use the short form shown in listings.
func (s *SessionService) GetSession(publicID string) (*models.Session, error) {
	var sess models.Session
	err := s.db.Where("public_id = ?", publicID).First(&sess).Error
	if err == nil {
		return &sess, nil
	}

	var matches []models.Session
	if err := s.db.Where("public_id LIKE ?", publicID+"%").Limit(2).Find(&matches).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	if len(matches) != 1 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

// GetActiveSession returns the most recently started running (active or
// paused) session for the user, or ErrNotFound when there is none.
func (s *SessionService) GetActiveSession(userID string) (*models.Session, error) {
	var sess models.Session
	err := s.db.
		Where("user_id = ? AND status IN ? AND is_active = ?",
			userID, []models.SessionStatus{models.StatusActive, models.StatusPaused}, true).
		Order("started_at DESC").
		First(&sess).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &sess, nil
}

// Pause pauses an active session.
func (s *SessionService) Pause(publicID string) (*models.Session, error) {
	return s.transition(publicID, func(sess *models.Session, now time.Time) error {
		return sess.Pause(now)
	})
}

// Resume reactivates a paused session, folding the paused interval into the
// session's paused-time accumulator.
func (s *SessionService) Resume(publicID string) (*models.Session, error) {
	return s.transition(publicID, func(sess *models.Session, now time.Time) error {
		return sess.Resume(now)
	})
}

// UpdateProgress records the remaining seconds reported by the caller.
func (s *SessionService) UpdateProgress(publicID string, remainingSeconds int) (*models.Session, error) {
	return s.transition(publicID, func(sess *models.Session, now time.Time) error {
		return sess.UpdateProgress(remainingSeconds, now)
	})
}

// Complete finishes a session successfully.
func (s *SessionService) Complete(publicID string) (*models.Session, error) {
	return s.transition(publicID, func(sess *models.Session, now time.Time) error {
		return sess.Complete(now)
	})
}

// Stop ends a session early.
func (s *SessionService) Stop(publicID string) (*models.Session, error) {
	return s.transition(publicID, func(sess *models.Session, now time.Time) error {
		return sess.Stop(now)
	})
}

// Delete soft-deletes a session. Idempotent; the row stays in place with
// is_active=false.
func (s *SessionService) Delete(publicID string) (*models.Session, error) {
	return s.transition(publicID, func(sess *models.Session, now time.Time) error {
		sess.SoftDelete()
		return nil
	})
}

// transitionColumns are the fields a lifecycle transition may change. They
// are selected explicitly on update so cleared pointers (e.g. paused_at)
// are written as NULL.
var transitionColumns = []string{
	"status", "paused_at", "resumed_at", "total_paused_ms",
	"completed_at", "stopped_at", "remaining_seconds", "progress_updated_at",
	"was_completed", "completion_rate", "actual_duration",
	"is_active", "version", "updated_at",
}

// transition runs one read-modify-write lifecycle step. The state machine
// mutates a copy, so a rejected transition leaves nothing behind, and the
// commit is guarded by a compare-and-swap on the version column so two
// racing transitions cannot both succeed.
func (s *SessionService) transition(publicID string, apply func(*models.Session, time.Time) error) (*models.Session, error) {
	sess, err := s.GetSession(publicID)
	if err != nil {
		return nil, err
	}
	now := s.clock()

	working := *sess
	if err := apply(&working, now); err != nil {
		return nil, err
	}

	loadedVersion := sess.Version
	working.Version = loadedVersion + 1

	res := s.db.Model(&working).
		Where("version = ?", loadedVersion).
		Select(transitionColumns).
		Updates(&working)
	if res.Error != nil {
		return nil, wrapStoreErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}

	s.cache.Purge()
	return &working, nil
}
