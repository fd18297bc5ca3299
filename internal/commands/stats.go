package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nurlybekov/pomo/internal/parser"
)

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Show your best records per session type",
	Run: withService(func(cmd *cobra.Command, args []string) {
		records, err := svc.BestRecords(cfg.UserID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if len(records) == 0 {
			fmt.Println("No completed sessions yet.")
			return
		}

		fmt.Printf("%-12s %-10s %-10s %-10s %-10s %s\n",
			"TYPE", "DONE", "TOTAL", "LONGEST", "AVERAGE", "BEST RATE")
		fmt.Println(strings.Repeat("-", 64))
		for _, r := range records {
			fmt.Printf("%-12s %-10d %-10s %-10s %-10s %.0f%%\n",
				r.Type,
				r.Completed,
				fmt.Sprintf("%.1fm", r.TotalMinutes),
				fmt.Sprintf("%.1fm", r.LongestMinutes),
				fmt.Sprintf("%.1fm", r.AverageMinutes),
				r.BestRate)
		}
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats [yyyy-mm]",
	Short: "Show a monthly rollup of your sessions",
	Long: `Show per type/status counts, minutes, and average completion rate for one
calendar month. Defaults to the current month.

Examples:
  pomo stats
  pomo stats 2026-07`,
	Args: cobra.MaximumNArgs(1),
	Run: withService(func(cmd *cobra.Command, args []string) {
		monthArg := ""
		if len(args) > 0 {
			monthArg = args[0]
		}
		year, month, err := parser.ParseMonth(monthArg, time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		stats, err := svc.GetMonthlyStats(cfg.UserID, year, month)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("📊 %s %d — %d sessions, %.1f minutes\n\n",
			month, year, stats.TotalSessions, stats.TotalMinutes)

		if len(stats.Groups) == 0 {
			fmt.Println("No sessions in this month.")
			return
		}

		fmt.Printf("%-12s %-10s %-8s %-10s %s\n", "TYPE", "STATUS", "COUNT", "MINUTES", "AVG RATE")
		fmt.Println(strings.Repeat("-", 52))
		for _, g := range stats.Groups {
			fmt.Printf("%-12s %-10s %-8d %-10s %.0f%%\n",
				g.Type, g.Status, g.Count, fmt.Sprintf("%.1f", g.TotalMinutes), g.AverageRate)
		}
	}),
}
