package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Hide a session from history",
	Long:  "Soft-deletes a session: the record is kept but no longer shows up in listings or stats.",
	Args:  cobra.ExactArgs(1),
	Run: withService(func(cmd *cobra.Command, args []string) {
		session, err := svc.Delete(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Deleted session %s\n", shortID(session))
	}),
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Sweep old finished sessions out of history",
	Long: `Flags finished (stopped or completed) sessions older than the retention
threshold as inactive. Running sessions are never touched and nothing is
physically deleted.`,
	Run: withService(func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = cfg.CleanupMaxAgeDays
		}

		swept, err := svc.CleanupOldSessions(days)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🧹 Swept %d sessions older than %d days\n", swept, days)
	}),
}

func init() {
	cleanupCmd.Flags().Int("days", 0, "Age threshold in days (default from config)")
}
