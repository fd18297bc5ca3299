package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nurlybekov/pomo/internal/db"
	"github.com/nurlybekov/pomo/internal/models"
	"github.com/nurlybekov/pomo/internal/parser"
	"github.com/nurlybekov/pomo/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [type]",
	Short: "Start a focus or break session",
	Long: `Start a timed session. Opens the interactive timer by default, use --no-ui for a plain start.

Examples:
  pomo start                   # 25 minute focus session with timer UI
  pomo start short_break       # short break with the configured length
  pomo start focus -d 45m      # 45 minute focus session
  pomo start custom -d 1h30m --tag deepwork`,
	Args: cobra.MaximumNArgs(1),
	Run: withService(func(cmd *cobra.Command, args []string) {
		typeArg := ""
		if len(args) > 0 {
			typeArg = args[0]
		}
		sessionType, err := parser.ParseSessionType(typeArg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		minutes := cfg.DefaultMinutes(sessionType)
		if durStr, _ := cmd.Flags().GetString("duration"); durStr != "" {
			minutes, err = parser.ParseDuration(durStr)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}
		if minutes == 0 {
			fmt.Println("Error: custom sessions need an explicit --duration")
			return
		}

		tag, _ := cmd.Flags().GetString("tag")
		note, _ := cmd.Flags().GetString("note")
		cycle, _ := cmd.Flags().GetInt("cycle")

		session, err := svc.StartSession(db.StartRequest{
			UserID:          cfg.UserID,
			UserName:        cfg.UserName,
			Type:            sessionType,
			DurationMinutes: minutes,
			Cycle:           cycle,
			Tag:             tag,
			Note:            note,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			fmt.Printf("⏱️  Started %s session %s (%d min)\n", session.Type, shortID(session), session.Duration)
			fmt.Printf("Started at: %s\n", session.StartedAt.Format("15:04:05"))
		} else {
			if err := tui.RunTimerTUI(svc, session); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause [session-id]",
	Short: "Pause the running session",
	Args:  cobra.MaximumNArgs(1),
	Run: withService(func(cmd *cobra.Command, args []string) {
		session, err := resolveAndApply(args, svc.Pause)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("⏸️  Paused %s session %s\n", session.Type, shortID(session))
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Resume a paused session",
	Args:  cobra.MaximumNArgs(1),
	Run: withService(func(cmd *cobra.Command, args []string) {
		session, err := resolveAndApply(args, svc.Resume)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		paused := time.Duration(session.TotalPausedMs) * time.Millisecond
		fmt.Printf("▶️  Resumed %s session %s (paused %s in total)\n",
			session.Type, shortID(session), formatDuration(paused))
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop [session-id]",
	Short: "Stop the running session early",
	Args:  cobra.MaximumNArgs(1),
	Run: withService(func(cmd *cobra.Command, args []string) {
		session, err := resolveAndApply(args, svc.Stop)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("⏹️  Stopped %s session %s\n", session.Type, shortID(session))
		printOutcome(session)
	}),
}

var completeCmd = &cobra.Command{
	Use:   "complete [session-id]",
	Short: "Mark the running session as completed",
	Args:  cobra.MaximumNArgs(1),
	Run: withService(func(cmd *cobra.Command, args []string) {
		session, err := resolveAndApply(args, svc.Complete)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ Completed %s session %s\n", session.Type, shortID(session))
		printOutcome(session)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running session and today's completions",
	Run: withService(func(cmd *cobra.Command, args []string) {
		count, err := svc.CountTodayCompleted(cfg.UserID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		session, err := svc.GetActiveSession(cfg.UserID)
		if err == nil {
			state := "running"
			if session.Status == models.StatusPaused {
				state = "paused"
			}
			elapsed := time.Duration(session.ElapsedMs(time.Now())) * time.Millisecond
			fmt.Printf("⏱️  %s session %s (%s, %d min planned)\n",
				session.Type, shortID(session), state, session.Duration)
			fmt.Printf("Elapsed: %s  Progress: %d%%\n", formatDuration(elapsed), session.Progress())
		} else {
			fmt.Println("No running session")
		}

		fmt.Printf("Completed today: %d\n", count)
	}),
}

// resolveAndApply applies a lifecycle operation to the session named by
// args, or to the user's running session when no id was given.
func resolveAndApply(args []string, op func(string) (*models.Session, error)) (*models.Session, error) {
	if len(args) > 0 {
		return op(args[0])
	}
	session, err := svc.GetActiveSession(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("no running session. Pass a session id explicitly")
	}
	return op(session.PublicID)
}

func printOutcome(session *models.Session) {
	if session.ActualDuration != nil {
		fmt.Printf("Actual duration: %.1f min\n", *session.ActualDuration)
	}
	if session.CompletionRate != nil {
		fmt.Printf("Completion rate: %.0f%%\n", *session.CompletionRate)
	}
}

// shortID shows the first uuid segment, enough to address a session.
func shortID(session *models.Session) string {
	if len(session.PublicID) >= 8 {
		return session.PublicID[:8]
	}
	return session.PublicID
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}

func init() {
	startCmd.Flags().StringP("duration", "d", "", "Planned length (25, 25m, 1h, 1h30m)")
	startCmd.Flags().String("tag", "", "Short label for the session")
	startCmd.Flags().String("note", "", "Free-form note")
	startCmd.Flags().Int("cycle", 0, "Cycle number within a focus round")
	startCmd.Flags().Bool("no-ui", false, "Start without the interactive timer")
}
