package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nurlybekov/pomo/internal/models"
)

// ErrNotFound is returned when no session matches the lookup.
var ErrNotFound = errors.New("session not found")

// ErrConflict is returned when a transition lost an optimistic concurrency
// race: the session changed between load and commit. The caller may reload
// and retry.
var ErrConflict = errors.New("session was modified concurrently")

// ErrStoreUnavailable wraps driver failures. Safe to retry with backoff.
var ErrStoreUnavailable = errors.New("session store unavailable")

// wrapStoreErr maps gorm errors into the package taxonomy. Validation errors
// raised by the model hook pass through untouched so callers can present
// them as user-correctable input problems.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
