package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nurlybekov/pomo/internal/db"
	"github.com/nurlybekov/pomo/internal/parser"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List your sessions",
	Long:    "List your session history with optional filters for status, type, date range, and completion",
	Run: withService(func(cmd *cobra.Command, args []string) {
		filter, err := buildFilter(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		sessions, err := svc.FindByUser(cfg.UserID, filter)
		if err != nil {
			fmt.Printf("Error fetching sessions: %v\n", err)
			return
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found. Use 'pomo start' to begin your first one.")
			return
		}

		// Print table header
		fmt.Printf("%-10s %-12s %-10s %-17s %-8s %-8s %s\n",
			"ID", "TYPE", "STATUS", "STARTED", "PLANNED", "ACTUAL", "RATE")
		fmt.Println(strings.Repeat("-", 78))

		for _, session := range sessions {
			actual := "-"
			if session.ActualDuration != nil {
				actual = fmt.Sprintf("%.1fm", *session.ActualDuration)
			}
			rate := "-"
			if session.CompletionRate != nil {
				rate = fmt.Sprintf("%.0f%%", *session.CompletionRate)
			}

			fmt.Printf("%-10s %-12s %-10s %-17s %-8s %-8s %s\n",
				session.PublicID[:8],
				session.Type,
				session.Status,
				session.StartedAt.Format("02/01/2006 15:04"),
				fmt.Sprintf("%dm", session.Duration),
				actual,
				rate)
		}
	}),
}

// buildFilter translates the list flags into a SessionFilter.
func buildFilter(cmd *cobra.Command) (db.SessionFilter, error) {
	var filter db.SessionFilter

	if statusStr, _ := cmd.Flags().GetString("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status, err := parser.ParseStatus(part)
			if err != nil {
				return filter, err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	if typeStr, _ := cmd.Flags().GetString("type"); typeStr != "" {
		for _, part := range strings.Split(typeStr, ",") {
			sessionType, err := parser.ParseSessionType(part)
			if err != nil {
				return filter, err
			}
			filter.Types = append(filter.Types, sessionType)
		}
	}

	now := time.Now()
	if fromStr, _ := cmd.Flags().GetString("from"); fromStr != "" {
		from, err := parser.ParseDate(fromStr, now)
		if err != nil {
			return filter, err
		}
		filter.StartedFrom = from
	}
	if toStr, _ := cmd.Flags().GetString("to"); toStr != "" {
		to, err := parser.ParseDate(toStr, now)
		if err != nil {
			return filter, err
		}
		// Inclusive upper bound: the whole target day counts.
		end := to.AddDate(0, 0, 1).Add(-time.Millisecond)
		filter.StartedTo = &end
	}

	if cmd.Flags().Changed("completed") {
		completed, _ := cmd.Flags().GetBool("completed")
		filter.WasCompleted = &completed
	}

	filter.SortAsc, _ = cmd.Flags().GetBool("asc")
	filter.Offset, _ = cmd.Flags().GetInt("offset")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	return filter, nil
}

func init() {
	listCmd.Flags().StringP("status", "s", "", "Filter by status (comma-separated): active, paused, completed, stopped")
	listCmd.Flags().StringP("type", "t", "", "Filter by type (comma-separated): focus, short_break, long_break, custom")
	listCmd.Flags().String("from", "", "Sessions started on or after this date (yyyy-mm-dd, today, 7 days ago)")
	listCmd.Flags().String("to", "", "Sessions started on or before this date")
	listCmd.Flags().Bool("completed", false, "Filter by whether the session was ever completed")
	listCmd.Flags().Bool("asc", false, "Sort oldest first")
	listCmd.Flags().Int("offset", 0, "Skip this many sessions")
	listCmd.Flags().Int("limit", 20, "Maximum sessions to show")
}
