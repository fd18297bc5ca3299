package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a filter boundary date.
// Supported formats:
// - yyyy-mm-dd (e.g., "2026-08-15")
// - "today", "yesterday"
// - X days ago (e.g., "3 days ago", "1 day ago")
// The result is midnight local time of the target day; now anchors the
// relative forms.
func ParseDate(input string, now time.Time) (*time.Time, error) {
	if input == "" {
		return nil, nil
	}

	input = strings.ToLower(strings.TrimSpace(input))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch input {
	case "today":
		return &today, nil
	case "yesterday":
		d := today.AddDate(0, 0, -1)
		return &d, nil
	}

	if d, err := parseAbsoluteDate(input, now.Location()); err == nil {
		return d, nil
	}

	if d, err := parseDaysAgo(input, today); err == nil {
		return d, nil
	}

	return nil, fmt.Errorf("invalid date %q. Use: yyyy-mm-dd, today, yesterday, or X days ago", input)
}

// parseAbsoluteDate parses yyyy-mm-dd.
func parseAbsoluteDate(input string, loc *time.Location) (*time.Time, error) {
	dateRegex := regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	matches := dateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid date format")
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	day, _ := strconv.Atoi(matches[3])

	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Rejects overflow dates like 2026-02-30
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return nil, fmt.Errorf("invalid date")
	}

	return &d, nil
}

// parseDaysAgo parses "X days ago".
func parseDaysAgo(input string, today time.Time) (*time.Time, error) {
	re := regexp.MustCompile(`^(\d+)\s+days?\s+ago$`)
	matches := re.FindStringSubmatch(input)
	if len(matches) != 2 {
		return nil, fmt.Errorf("invalid relative date")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil || amount < 0 || amount > 3650 {
		return nil, fmt.Errorf("days must be between 0 and 3650")
	}

	d := today.AddDate(0, 0, -amount)
	return &d, nil
}

// ParseMonth parses a yyyy-mm month reference for the stats command. An
// empty input means the current month of now.
func ParseMonth(input string, now time.Time) (int, time.Month, error) {
	if strings.TrimSpace(input) == "" {
		return now.Year(), now.Month(), nil
	}

	re := regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	matches := re.FindStringSubmatch(strings.TrimSpace(input))
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("invalid month %q. Use: yyyy-mm", input)
	}

	year, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}

	return year, time.Month(month), nil
}
