package timeacct_test

import (
	"testing"
	"time"

	"github.com/nurlybekov/pomo/internal/timeacct"
)

var base = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func TestElapsedMs(t *testing.T) {
	tests := []struct {
		name     string
		end      time.Time
		pausedMs int64
		want     int64
	}{
		{"no pause", base.Add(10 * time.Minute), 0, 600000},
		{"with pause", base.Add(10 * time.Minute), 120000, 480000},
		{"pause exceeds elapsed", base.Add(time.Minute), 600000, 0},
		{"end before start", base.Add(-time.Minute), 0, 0},
		{"zero elapsed", base, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeacct.ElapsedMs(base, tt.end, tt.pausedMs)
			if got != tt.want {
				t.Errorf("ElapsedMs() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestElapsedMinutesRoundsHalfUpToOneDecimal(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want float64
	}{
		{"exact", base.Add(25 * time.Minute), 25.0},
		{"rounds up at half", base.Add(9*time.Minute + 3*time.Second), 9.1}, // 9.05 -> 9.1
		{"rounds down below half", base.Add(9*time.Minute + 2*time.Second), 9.0},
		{"sub-minute", base.Add(30 * time.Second), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeacct.ElapsedMinutes(base, tt.end, 0)
			if got != tt.want {
				t.Errorf("ElapsedMinutes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		duration  int
		remaining int
		want      int
	}{
		{"not started", 25, 1500, 0},
		{"forty percent", 25, 900, 40},
		{"done", 25, 0, 100},
		{"rounds half up", 3, 85, 53}, // 95/180 = 52.78
		{"negative remaining clamps to 100", 25, -60, 100},
		{"remaining beyond plan clamps to 0", 25, 4000, 0},
		{"zero duration", 0, 100, 0},
		{"negative duration", -5, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeacct.ProgressPercent(tt.duration, tt.remaining)
			if got != tt.want {
				t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.duration, tt.remaining, got, tt.want)
			}
		})
	}
}

func TestCompletionRate(t *testing.T) {
	remaining := 900

	tests := []struct {
		name      string
		duration  int
		remaining *int
		want      float64
	}{
		{"with progress", 25, &remaining, 40},
		{"no progress reported counts as not started", 25, nil, 0},
		{"zero duration", 0, &remaining, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeacct.CompletionRate(tt.duration, tt.remaining)
			if got != tt.want {
				t.Errorf("CompletionRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.25, 2.3},
		{2.24, 2.2},
		{0, 0},
		{24.999, 25.0},
	}

	for _, tt := range tests {
		if got := timeacct.Round1(tt.in); got != tt.want {
			t.Errorf("Round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
