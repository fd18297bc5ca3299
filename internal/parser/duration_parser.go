package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nurlybekov/pomo/internal/models"
)

// ParseDuration parses a planned session length into minutes.
// Supported formats:
// - plain minutes (e.g., "25")
// - minutes with suffix (e.g., "25m", "90min")
// - hours (e.g., "1h", "2h")
// - hours and minutes (e.g., "1h30m")
func ParseDuration(input string) (int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}

	// Plain number means minutes
	if minutes, err := strconv.Atoi(input); err == nil {
		return minutes, nil
	}

	re := regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)(?:m|min))?$`)
	matches := re.FindStringSubmatch(input)
	if matches == nil || (matches[1] == "" && matches[2] == "") {
		return 0, fmt.Errorf("invalid duration %q. Use: 25, 25m, 1h, or 1h30m", input)
	}

	minutes := 0
	if matches[1] != "" {
		hours, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, fmt.Errorf("invalid hours")
		}
		minutes += hours * 60
	}
	if matches[2] != "" {
		m, err := strconv.Atoi(matches[2])
		if err != nil {
			return 0, fmt.Errorf("invalid minutes")
		}
		minutes += m
	}
	return minutes, nil
}

// ParseSessionType maps user input to a session type. Accepts a few
// shorthand spellings for the break types.
func ParseSessionType(input string) (models.SessionType, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "focus", "work", "pomodoro":
		return models.TypeFocus, nil
	case "short", "short_break", "short-break", "shortbreak", "break":
		return models.TypeShortBreak, nil
	case "long", "long_break", "long-break", "longbreak":
		return models.TypeLongBreak, nil
	case "custom":
		return models.TypeCustom, nil
	default:
		return "", fmt.Errorf("unknown session type %q. Use: focus, short_break, long_break, or custom", input)
	}
}

// ParseStatus maps user input to a session status for list filters.
func ParseStatus(input string) (models.SessionStatus, error) {
	status := models.SessionStatus(strings.ToLower(strings.TrimSpace(input)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q. Use: active, paused, completed, stopped, or abandoned", input)
	}
	return status, nil
}
