package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nurlybekov/pomo/internal/db"
	"github.com/nurlybekov/pomo/internal/models"
)

// RunTimerTUI runs the countdown timer for a session until it finishes or
// the user leaves it running in the background.
func RunTimerTUI(svc *db.SessionService, session *models.Session) error {
	model := NewTimerModel(svc, session)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	// Handle exit messages after the TUI closes
	if m, ok := finalModel.(TimerModel); ok {
		switch {
		case m.err != nil:
			fmt.Printf("❌ Error: %v\n", m.err)
		case m.finished && m.action == "completed":
			fmt.Printf("✅ Session completed")
			if m.session.ActualDuration != nil {
				fmt.Printf(" — %.1f min", *m.session.ActualDuration)
			}
			fmt.Println()
		case m.finished && m.action == "stopped":
			fmt.Printf("⏹️  Session stopped")
			if m.session.CompletionRate != nil {
				fmt.Printf(" at %.0f%%", *m.session.CompletionRate)
			}
			fmt.Println()
		case m.leaving:
			fmt.Println("Session keeps running. Use 'pomo status' to check on it.")
		}
	}

	return nil
}
