package db_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	"pgregory.net/rapid"

	"github.com/nurlybekov/pomo/internal/db"
	"github.com/nurlybekov/pomo/internal/models"
)

var t0 = time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })
	return gdb
}

// testClock is an injectable clock the tests advance by hand.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*db.SessionService, *testClock, *gorm.DB) {
	t.Helper()
	gdb := openTestDB(t)
	clk := &testClock{now: t0}
	return db.NewSessionService(gdb, clk.Now, 0), clk, gdb
}

func startFocus(t *testing.T, svc *db.SessionService, minutes int) *models.Session {
	t.Helper()
	sess, err := svc.StartSession(db.StartRequest{
		UserID:          "user-1",
		UserName:        "Aliya",
		Type:            models.TypeFocus,
		DurationMinutes: minutes,
	})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	return sess
}

func TestStartSessionPersists(t *testing.T) {
	svc, _, _ := newTestService(t)

	sess := startFocus(t, svc, 25)

	loaded, err := svc.GetSession(sess.PublicID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if loaded.Status != models.StatusActive {
		t.Errorf("status = %q, want active", loaded.Status)
	}
	if !loaded.StartedAt.Equal(t0) {
		t.Errorf("started at = %v, want %v", loaded.StartedAt, t0)
	}
	if loaded.Version != 0 {
		t.Errorf("version = %d, want 0", loaded.Version)
	}
}

func TestStartSessionValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name string
		req  db.StartRequest
	}{
		{"bad duration", db.StartRequest{UserID: "u", Type: models.TypeFocus, DurationMinutes: 0}},
		{"bad type", db.StartRequest{UserID: "u", Type: "nap", DurationMinutes: 25}},
		{"missing user", db.StartRequest{Type: models.TypeFocus, DurationMinutes: 25}},
		{"oversized note", db.StartRequest{
			UserID: "u", Type: models.TypeFocus, DurationMinutes: 25,
			Note: strings.Repeat("x", models.MaxNoteLength+1),
		}},
		{"oversized tag", db.StartRequest{
			UserID: "u", Type: models.TypeFocus, DurationMinutes: 25,
			Tag: strings.Repeat("x", models.MaxTagLength+1),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.StartSession(tt.req)
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestLifecyclePersistsPausedTime(t *testing.T) {
	svc, clk, _ := newTestService(t)
	sess := startFocus(t, svc, 25)

	clk.Advance(5 * time.Minute)
	if _, err := svc.Pause(sess.PublicID); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	clk.Advance(5 * time.Minute)
	resumed, err := svc.Resume(sess.PublicID)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if want := int64(5 * 60 * 1000); resumed.TotalPausedMs != want {
		t.Errorf("total paused = %d, want %d", resumed.TotalPausedMs, want)
	}

	// Paused time survives the round-trip, and the version advanced once per
	// committed transition.
	loaded, err := svc.GetSession(sess.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.TotalPausedMs != resumed.TotalPausedMs {
		t.Errorf("persisted paused = %d, want %d", loaded.TotalPausedMs, resumed.TotalPausedMs)
	}
	if loaded.PausedAt != nil {
		t.Error("paused_at should be NULL after resume")
	}
	if loaded.Version != 2 {
		t.Errorf("version = %d, want 2", loaded.Version)
	}
}

func TestCompleteScenario(t *testing.T) {
	svc, clk, _ := newTestService(t)
	sess := startFocus(t, svc, 25)

	clk.Advance(5 * time.Minute)
	if _, err := svc.Pause(sess.PublicID); err != nil {
		t.Fatal(err)
	}
	clk.Advance(5 * time.Minute)
	if _, err := svc.Resume(sess.PublicID); err != nil {
		t.Fatal(err)
	}
	clk.Advance(20 * time.Minute)
	done, err := svc.Complete(sess.PublicID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if done.ActualDuration == nil || *done.ActualDuration != 25.0 {
		t.Errorf("actual duration = %v, want 25.0", done.ActualDuration)
	}
	if done.CompletionRate == nil || *done.CompletionRate != 100 {
		t.Errorf("completion rate = %v, want 100", done.CompletionRate)
	}

	// Either terminal operation on a finished session is rejected.
	if _, err := svc.Complete(sess.PublicID); !errors.Is(err, models.ErrAlreadyTerminal) {
		t.Errorf("second Complete() error = %v, want ErrAlreadyTerminal", err)
	}
	if _, err := svc.Stop(sess.PublicID); !errors.Is(err, models.ErrAlreadyTerminal) {
		t.Errorf("Stop() after Complete() error = %v, want ErrAlreadyTerminal", err)
	}
}

func TestStopScenario(t *testing.T) {
	svc, clk, _ := newTestService(t)
	sess := startFocus(t, svc, 25)

	clk.Advance(10 * time.Minute)
	if _, err := svc.UpdateProgress(sess.PublicID, 900); err != nil {
		t.Fatalf("UpdateProgress() error = %v", err)
	}
	stopped, err := svc.Stop(sess.PublicID)
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if stopped.Status != models.StatusStopped {
		t.Errorf("status = %q, want stopped", stopped.Status)
	}
	if stopped.CompletionRate == nil || *stopped.CompletionRate != 40 {
		t.Errorf("completion rate = %v, want 40", stopped.CompletionRate)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	sess := startFocus(t, svc, 25)

	for i := 0; i < 2; i++ {
		deleted, err := svc.Delete(sess.PublicID)
		if err != nil {
			t.Fatalf("Delete() #%d error = %v", i+1, err)
		}
		if deleted.IsActive {
			t.Errorf("Delete() #%d left is_active true", i+1)
		}
	}
}

func TestGetSessionAcceptsUniquePrefix(t *testing.T) {
	svc, _, _ := newTestService(t)
	sess := startFocus(t, svc, 25)

	loaded, err := svc.GetSession(sess.PublicID[:8])
	if err != nil {
		t.Fatalf("GetSession(prefix) error = %v", err)
	}
	if loaded.PublicID != sess.PublicID {
		t.Errorf("loaded %q, want %q", loaded.PublicID, sess.PublicID)
	}

	if _, err := svc.GetSession("no-such-session"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}

// A transition that loses the race between load and commit must fail with
// ErrConflict instead of silently double-counting. The injected clock runs
// a competing write at exactly that window.
func TestConcurrentTransitionConflict(t *testing.T) {
	gdb := openTestDB(t)

	clkB := &testClock{now: t0}
	svcB := db.NewSessionService(gdb, clkB.Now, 0)

	sess, err := svcB.StartSession(db.StartRequest{
		UserID: "user-1", Type: models.TypeFocus, DurationMinutes: 25,
	})
	if err != nil {
		t.Fatal(err)
	}

	interleave := false
	clkA := func() time.Time {
		if interleave {
			interleave = false
			if _, err := svcB.Pause(sess.PublicID); err != nil {
				t.Fatalf("competing Pause() error = %v", err)
			}
		}
		return t0
	}
	svcA := db.NewSessionService(gdb, clkA, 0)

	interleave = true
	if _, err := svcA.Pause(sess.PublicID); !errors.Is(err, db.ErrConflict) {
		t.Fatalf("racing Pause() error = %v, want ErrConflict", err)
	}

	// The competing pause won; exactly one paused transition is recorded.
	loaded, err := svcB.GetSession(sess.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != models.StatusPaused {
		t.Errorf("status = %q, want paused", loaded.Status)
	}
	if loaded.Version != 1 {
		t.Errorf("version = %d, want 1", loaded.Version)
	}
}

// Storing a session and reading it back reproduces every field.
func TestSessionRoundTrip(t *testing.T) {
	gdb := openTestDB(t)

	// Second precision matches the storage round-trip and keeps the
	// comparison free of driver formatting concerns.
	genTime := func(rt *rapid.T, label string) time.Time {
		sec := rapid.Int64Range(1_600_000_000, 1_900_000_000).Draw(rt, label)
		return time.Unix(sec, 0).UTC()
	}

	rapid.Check(t, func(rt *rapid.T) {
		started := genTime(rt, "started")
		sess, err := models.NewSession(
			rapid.StringMatching(`[a-z0-9]{4,16}`).Draw(rt, "user"),
			rapid.StringN(0, 20, -1).Draw(rt, "name"),
			rapid.SampledFrom([]models.SessionType{
				models.TypeFocus, models.TypeShortBreak, models.TypeLongBreak, models.TypeCustom,
			}).Draw(rt, "type"),
			rapid.IntRange(1, 180).Draw(rt, "duration"),
			started,
		)
		if err != nil {
			rt.Fatalf("NewSession() error = %v", err)
		}

		sess.TotalPausedMs = rapid.Int64Range(0, 10_000_000).Draw(rt, "paused_ms")
		sess.CycleNumber = rapid.IntRange(1, 8).Draw(rt, "cycle")
		sess.Tag = rapid.StringMatching(`[a-z]{0,20}`).Draw(rt, "tag")
		if rapid.Bool().Draw(rt, "has_progress") {
			remaining := rapid.IntRange(0, 200*60).Draw(rt, "remaining")
			at := genTime(rt, "progress_at")
			sess.RemainingSeconds = &remaining
			sess.ProgressUpdatedAt = &at
		}
		if rapid.Bool().Draw(rt, "stopped") {
			at := genTime(rt, "stopped_at")
			sess.Status = models.StatusStopped
			sess.StoppedAt = &at
			rate := float64(rapid.IntRange(0, 100).Draw(rt, "rate"))
			sess.CompletionRate = &rate
		}

		if err := gdb.Create(sess).Error; err != nil {
			rt.Fatalf("Create() error = %v", err)
		}

		var loaded models.Session
		if err := gdb.Where("public_id = ?", sess.PublicID).First(&loaded).Error; err != nil {
			rt.Fatalf("First() error = %v", err)
		}

		if loaded.UserID != sess.UserID || loaded.UserName != sess.UserName {
			rt.Fatalf("identity changed: %q/%q", loaded.UserID, loaded.UserName)
		}
		if loaded.Type != sess.Type || loaded.Status != sess.Status {
			rt.Fatalf("type/status changed: %q/%q", loaded.Type, loaded.Status)
		}
		if loaded.Duration != sess.Duration || loaded.CycleNumber != sess.CycleNumber {
			rt.Fatalf("duration/cycle changed")
		}
		if !loaded.StartedAt.Equal(sess.StartedAt) {
			rt.Fatalf("started at = %v, want %v", loaded.StartedAt, sess.StartedAt)
		}
		if loaded.TotalPausedMs != sess.TotalPausedMs {
			rt.Fatalf("paused ms = %d, want %d", loaded.TotalPausedMs, sess.TotalPausedMs)
		}
		if loaded.Tag != sess.Tag {
			rt.Fatalf("tag = %q, want %q", loaded.Tag, sess.Tag)
		}
		if !intPtrEqual(loaded.RemainingSeconds, sess.RemainingSeconds) {
			rt.Fatalf("remaining = %v, want %v", loaded.RemainingSeconds, sess.RemainingSeconds)
		}
		if !timePtrEqual(loaded.StoppedAt, sess.StoppedAt) {
			rt.Fatalf("stopped at = %v, want %v", loaded.StoppedAt, sess.StoppedAt)
		}
		if !floatPtrEqual(loaded.CompletionRate, sess.CompletionRate) {
			rt.Fatalf("rate = %v, want %v", loaded.CompletionRate, sess.CompletionRate)
		}
		if loaded.IsActive != sess.IsActive || loaded.WasCompleted != sess.WasCompleted {
			rt.Fatalf("flags changed")
		}
	})
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
