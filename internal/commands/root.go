package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nurlybekov/pomo/internal/config"
	"github.com/nurlybekov/pomo/internal/db"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg config.Config
	svc *db.SessionService
)

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "A CLI focus session tracker",
	Long: `pomo tracks timed focus and break sessions: start, pause, resume,
complete, and stop them, then review your history, best records, and
monthly stats from the terminal.`,
}

// initService loads the configuration, opens the database, and builds the
// session service the commands share.
func initService() error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	gdb, err := db.Open(c.DBPath)
	if err != nil {
		return err
	}
	cfg = c
	svc = db.NewSessionService(gdb, nil, time.Duration(c.CacheTTLSeconds)*time.Second)
	return nil
}

// withService wraps a command function to set up the service first
func withService(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := initService(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fn(cmd, args)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pomo %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(bestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(versionCmd)
}
