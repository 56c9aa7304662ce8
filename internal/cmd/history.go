package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/letsdev/lets/internal/history"
	"github.com/letsdev/lets/internal/style"
)

// History command flags
var (
	historyTail  int
	historyType  string
	historyRepo  string
	historySince string
)

var historyCmd = &cobra.Command{
	Use:     "history",
	GroupID: GroupDiag,
	Short:   "Show the workspaces lets has created and removed",
	Long: `Show the log of workspaces created and removed by lets.

Examples:
  lets history                 # Show last 20 events
  lets history -n 50           # Show last 50 events
  lets history --type removed  # Show only removals
  lets history --repo myrepo   # Show events for one repository
  lets history --since 24h     # Show events from the last day`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyTail, "tail", "n", 20, "Number of events to show")
	historyCmd.Flags().StringVarP(&historyType, "type", "t", "", "Filter by event type (created, removed)")
	historyCmd.Flags().StringVar(&historyRepo, "repo", "", "Filter by repository name")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Show events since duration (e.g., 1h, 24h)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	filter := history.Filter{
		Type: history.EventType(historyType),
		Repo: historyRepo,
	}
	if historySince != "" {
		d, err := time.ParseDuration(historySince)
		if err != nil {
			return fmt.Errorf("invalid --since duration: %w", err)
		}
		filter.Since = time.Now().Add(-d)
	}
	return printHistory(cmd.OutOrStdout(), history.NewLog(historyPath()), filter, historyTail)
}

func printHistory(w io.Writer, log *history.Log, filter history.Filter, tail int) error {
	if _, err := os.Stat(log.Path()); os.IsNotExist(err) {
		fmt.Fprintf(w, "%s No history yet\n", style.Dim.Render("○"))
		return nil
	}

	events, err := log.Tail(tail, filter)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintf(w, "%s No events match filter\n", style.Dim.Render("○"))
		return nil
	}

	for _, e := range events {
		line := history.FormatLine(e)
		if e.Type == history.EventRemoved {
			line = style.Dim.Render(line)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
