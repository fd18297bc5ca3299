package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nurlybekov/pomo/internal/db"
	"github.com/nurlybekov/pomo/internal/models"
)

// TimerModel is the TUI model for a running countdown session.
type TimerModel struct {
	width  int
	height int

	svc     *db.SessionService
	session *models.Session

	bar       progress.Model
	remaining time.Duration

	// Animation state
	timerAnimation int

	// Outcome once the user acted
	finished bool   // session reached a terminal state in this TUI
	leaving  bool   // user left with the session still running
	action   string // "completed" or "stopped" when finished
	err      error
}

// timerTickMsg is sent every second to update the countdown
type timerTickMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

// NewTimerModel creates a new countdown TUI model
func NewTimerModel(svc *db.SessionService, session *models.Session) TimerModel {
	bar := progress.New(
		progress.WithGradient(ColorAccentMain, ColorAccentBright),
		progress.WithoutPercentage(),
	)
	m := TimerModel{
		svc:     svc,
		session: session,
		bar:     bar,
	}
	m.remaining = m.computeRemaining()
	return m
}

func (m TimerModel) computeRemaining() time.Duration {
	now := time.Now()
	// Freeze the countdown while paused: the open paused interval is only
	// folded into the accumulator on resume.
	if m.session.Status == models.StatusPaused && m.session.PausedAt != nil {
		now = *m.session.PausedAt
	}
	planned := time.Duration(m.session.Duration) * time.Minute
	elapsed := time.Duration(m.session.ElapsedMs(now)) * time.Millisecond
	remaining := planned - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Init starts the timer and animation tickers
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return timerTickMsg{}
		}),
		tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
			return animationTickMsg{}
		}),
	)
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.remaining = m.computeRemaining()

		if m.session.Status == models.StatusActive {
			// Report progress so the stored session reflects the countdown.
			updated, err := m.svc.UpdateProgress(m.session.PublicID, int(m.remaining.Seconds()))
			if err == nil {
				m.session = updated
			}

			if m.remaining <= 0 {
				updated, err := m.svc.Complete(m.session.PublicID)
				if err != nil {
					m.err = err
				} else {
					m.session = updated
					m.finished = true
					m.action = "completed"
				}
				return m, tea.Quit
			}
		}

		if !m.finished && !m.leaving {
			return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
				return timerTickMsg{}
			})
		}
		return m, nil

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if !m.finished && !m.leaving {
			return m, tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
				return animationTickMsg{}
			})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-12, 48)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p", "P":
			if updated, err := m.svc.Pause(m.session.PublicID); err == nil {
				m.session = updated
			}
			return m, nil
		case "r", "R":
			if updated, err := m.svc.Resume(m.session.PublicID); err == nil {
				m.session = updated
			}
			return m, nil
		case "s", "S":
			updated, err := m.svc.Stop(m.session.PublicID)
			if err != nil {
				m.err = err
			} else {
				m.session = updated
				m.finished = true
				m.action = "stopped"
			}
			return m, tea.Quit
		case "c", "C":
			updated, err := m.svc.Complete(m.session.PublicID)
			if err != nil {
				m.err = err
			} else {
				m.session = updated
				m.finished = true
				m.action = "completed"
			}
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			// Leave the TUI with the session still running
			m.leaving = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the countdown TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	panel := m.renderTimerPanel(m.width, contentHeight)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		panel,
		helpBar,
	)
}

// renderTimerPanel renders the centered countdown panel
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	accent := ColorAccentBright
	if m.session.Type != models.TypeFocus && m.session.Type != models.TypeCustom {
		accent = ColorBreakAccent
	}

	// Animated header
	animChars := []string{"🍅", "⏲", "🍅", "⏲"}
	if m.session.Status == models.StatusPaused {
		animChars = []string{"⏸", "⏸", "⏸", "⏸"}
	}
	animChar := animChars[m.timerAnimation]
	headerText := fmt.Sprintf("%s  %s  %s", animChar, strings.ToUpper(string(m.session.Type)), animChar)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(accent)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, headerStyle.Render(headerText))

	// Countdown clock
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, clockStyle.Render(formatClock(m.remaining)))

	// Progress bar with percentage
	planned := time.Duration(m.session.Duration) * time.Minute
	frac := 0.0
	if planned > 0 {
		frac = 1 - m.remaining.Seconds()/planned.Seconds()
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	barLine := fmt.Sprintf("%s %3.0f%%", m.bar.ViewAs(frac), frac*100)
	barStyle := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width)
	components = append(components, barStyle.Render(barLine))

	// Status line
	statusText := fmt.Sprintf("%d min planned · cycle %d", m.session.Duration, m.session.CycleNumber)
	if m.session.Tag != "" {
		statusText += " · #" + m.session.Tag
	}
	if m.session.Status == models.StatusPaused {
		statusText = "PAUSED · " + statusText
	}
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, statusStyle.Render(statusText))

	// Session start time
	sessionInfo := fmt.Sprintf("Started at %s", m.session.StartedAt.Format("15:04:05"))
	sessionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, sessionStyle.Render(sessionInfo))

	content := strings.Join(components, "\n\n")

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(content)
}

// renderHelpBar renders the key hints at the bottom
func (m TimerModel) renderHelpBar() string {
	keys := "p pause · r resume · s stop · c complete · q leave running"
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Align(lipgloss.Center).
		Width(m.width)
	return helpStyle.Render(keys)
}

// formatClock renders mm:ss, or hh:mm:ss past the hour mark
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
