package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command group.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage the interaction history",
		Long: `The interaction history records every chosen command together with
the query that found it. It drives frequency ranking, recency bonuses and
query latches. Data is stored locally under ~/.cmd-palette.

Commands:
  show    List recent selections
  stats   Show usage counts and latched queries
  export  Write the history as JSON
  clear   Delete all history`,
	}

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryStatsCmd())
	cmd.AddCommand(newHistoryExportCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var limit int
	var grep string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List recent selections, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				return runHistoryShow(cmd.OutOrStdout(), a, limit, grep)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().StringVarP(&grep, "grep", "g", "", "Only entries whose query contains this text")
	return cmd
}

func runHistoryShow(w io.Writer, a *app, limit int, grep string) error {
	events := a.palette.History().Events()
	if grep != "" {
		events = a.palette.History().Matching(grep)
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No history recorded.")
		return nil
	}
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	for _, e := range events {
		when := "-"
		if e.Timestamp > 0 {
			when = time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "  %s  %s  %s\n", when, runewidth.FillRight(quoteQuery(e.Query), 24), e.CommandID)
	}
	return nil
}

func quoteQuery(q string) string {
	return "\"" + q + "\""
}

func newHistoryStatsCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage counts and latched queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				return runHistoryStats(cmd.OutOrStdout(), a, top)
			})
		},
	}

	cmd.Flags().IntVarP(&top, "top", "t", 10, "Number of most used commands to show")
	return cmd
}

func runHistoryStats(w io.Writer, a *app, top int) error {
	idx := a.palette.Index()

	fmt.Fprintln(w, headerStyle.Render("Interaction History"))
	fmt.Fprintln(w, "===================")
	fmt.Fprintf(w, "Selections:        %d\n", a.palette.History().Len())
	fmt.Fprintf(w, "Distinct commands: %d\n", len(idx.Occurrences))
	fmt.Fprintf(w, "Latched queries:   %d\n", len(idx.Latch))

	usage := idx.Top(top)
	if len(usage) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Most used:")
	for i, u := range usage {
		name := u.CommandID
		if cmd, ok := a.palette.Registry().Get(u.CommandID); ok {
			name = cmd.Name
		}
		fmt.Fprintf(w, "%3d. %s  %4d  %s\n", i+1, runewidth.FillRight(runewidth.Truncate(name, 32, "…"), 32), u.Count, u.CommandID)
	}
	return nil
}

func newHistoryExportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				w := cmd.OutOrStdout()
				if outputFile != "" {
					f, err := os.Create(outputFile)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", outputFile, err)
					}
					defer f.Close()
					w = f
				}
				return writeJSON(w, a.palette.History().Events())
			})
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "This will delete all interaction history. Continue? (y/N): ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			return withApp(cmd.Context(), func(a *app) error {
				a.palette.ClearHistory()
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared successfully")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on w and reads the answer from r.
func confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)
	answer, _ := bufio.NewReader(r).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
