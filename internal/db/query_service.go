package db

import (
	"fmt"
	"time"

	"github.com/nurlybekov/pomo/internal/models"
)

// SessionFilter narrows FindByUser results. All set filters are combined
// with AND; zero values mean "no filter".
type SessionFilter struct {
	Statuses     []models.SessionStatus
	Types        []models.SessionType
	StartedFrom  *time.Time // inclusive
	StartedTo    *time.Time // inclusive
	WasCompleted *bool
	SortAsc      bool // default is started_at descending
	Offset       int
	Limit        int
}

// FindActiveSessions returns running (active or paused) sessions, newest
// first, optionally scoped to one user. Soft-deleted rows are excluded.
func (s *SessionService) FindActiveSessions(userID string) ([]models.Session, error) {
	q := s.db.
		Where("status IN ? AND is_active = ?",
			[]models.SessionStatus{models.StatusActive, models.StatusPaused}, true)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var sessions []models.Session
	if err := q.Order("started_at DESC").Find(&sessions).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return sessions, nil
}

// CountTodayCompleted counts the user's sessions completed since local
// midnight.
func (s *SessionService) CountTodayCompleted(userID string) (int64, error) {
	now := s.clock()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var n int64
	err := s.db.Model(&models.Session{}).
		Where("user_id = ? AND status = ? AND is_active = ?", userID, models.StatusCompleted, true).
		Where("completed_at >= ? AND completed_at < ?", dayStart, dayEnd).
		Count(&n).Error
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	return n, nil
}

// FindByUser returns the user's session history narrowed by filter.
func (s *SessionService) FindByUser(userID string, filter SessionFilter) ([]models.Session, error) {
	q := s.db.Where("user_id = ? AND is_active = ?", userID, true)

	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Types) > 0 {
		q = q.Where("type IN ?", filter.Types)
	}
	if filter.StartedFrom != nil {
		q = q.Where("started_at >= ?", *filter.StartedFrom)
	}
	if filter.StartedTo != nil {
		q = q.Where("started_at <= ?", *filter.StartedTo)
	}
	if filter.WasCompleted != nil {
		q = q.Where("was_completed = ?", *filter.WasCompleted)
	}

	order := "started_at DESC"
	if filter.SortAsc {
		order = "started_at ASC"
	}
	q = q.Order(order)

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var sessions []models.Session
	if err := q.Find(&sessions).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return sessions, nil
}

// BestRecord summarizes a user's completed sessions of one type.
type BestRecord struct {
	Type           models.SessionType `json:"type"`
	Completed      int64              `json:"completed"`
	TotalMinutes   float64            `json:"total_minutes"`
	LongestMinutes float64            `json:"longest_minutes"`
	AverageMinutes float64            `json:"average_minutes"`
	BestRate       float64            `json:"best_rate"`
}

// BestRecords groups the user's completed sessions by type. Results are
// cached per user until the next write or cache expiry.
func (s *SessionService) BestRecords(userID string) ([]BestRecord, error) {
	key := "best:" + userID
	if v, ok := s.cache.Get(key); ok {
		return v.([]BestRecord), nil
	}

	var records []BestRecord
	err := s.db.Model(&models.Session{}).
		Select(`type,
			COUNT(*) AS completed,
			COALESCE(SUM(actual_duration), 0) AS total_minutes,
			COALESCE(MAX(actual_duration), 0) AS longest_minutes,
			COALESCE(AVG(actual_duration), 0) AS average_minutes,
			COALESCE(MAX(completion_rate), 0) AS best_rate`).
		Where("user_id = ? AND status = ? AND is_active = ?", userID, models.StatusCompleted, true).
		Group("type").
		Order("type").
		Scan(&records).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	s.cache.Add(key, records)
	return records, nil
}

// MonthlyGroup is one (type, status) bucket of a monthly rollup.
type MonthlyGroup struct {
	Type         models.SessionType   `json:"type"`
	Status       models.SessionStatus `json:"status"`
	Count        int64                `json:"count"`
	TotalMinutes float64              `json:"total_minutes"`
	AverageRate  float64              `json:"average_rate"`
}

// MonthlyStats is the rollup of one calendar month of a user's sessions.
type MonthlyStats struct {
	Year          int            `json:"year"`
	Month         time.Month     `json:"month"`
	TotalSessions int64          `json:"total_sessions"`
	TotalMinutes  float64        `json:"total_minutes"`
	Groups        []MonthlyGroup `json:"groups"`
}

// GetMonthlyStats aggregates the sessions started within the given calendar
// month (local time), grouped by (type, status), with grand totals across
// all groups.
func (s *SessionService) GetMonthlyStats(userID string, year int, month time.Month) (*MonthlyStats, error) {
	key := fmt.Sprintf("month:%s:%04d-%02d", userID, year, month)
	if v, ok := s.cache.Get(key); ok {
		return v.(*MonthlyStats), nil
	}

	loc := s.clock().Location()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var groups []MonthlyGroup
	err := s.db.Model(&models.Session{}).
		Select(`type, status,
			COUNT(*) AS count,
			COALESCE(SUM(actual_duration), 0) AS total_minutes,
			COALESCE(AVG(completion_rate), 0) AS average_rate`).
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("started_at >= ? AND started_at < ?", monthStart, monthEnd).
		Group("type").Group("status").
		Order("type, status").
		Scan(&groups).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	stats := &MonthlyStats{Year: year, Month: month, Groups: groups}
	for _, g := range groups {
		stats.TotalSessions += g.Count
		stats.TotalMinutes += g.TotalMinutes
	}

	s.cache.Add(key, stats)
	return stats, nil
}

// CleanupOldSessions flips is_active=false on terminal (stopped or
// completed) sessions whose last modification is older than maxAgeDays.
// Running sessions are never touched regardless of age, and nothing is
// physically deleted. Returns the number of sessions swept.
func (s *SessionService) CleanupOldSessions(maxAgeDays int) (int64, error) {
	cutoff := s.clock().AddDate(0, 0, -maxAgeDays)

	res := s.db.Model(&models.Session{}).
		Where("status IN ? AND is_active = ? AND updated_at < ?",
			[]models.SessionStatus{models.StatusStopped, models.StatusCompleted}, true, cutoff).
		UpdateColumn("is_active", false)
	if res.Error != nil {
		return 0, wrapStoreErr(res.Error)
	}

	s.cache.Purge()
	return res.RowsAffected, nil
}
