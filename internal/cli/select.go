package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/khanglvm/cmd-palette/internal/registry"
)

// NewSelectCmd creates the 'select' command.
func NewSelectCmd() *cobra.Command {
	var query string
	var run bool

	cmd := &cobra.Command{
		Use:   "select <command-id>",
		Short: "Record that a command was chosen",
		Long: `Record a selection in the interaction log so that future queries
rank the command higher. With --query, the query text becomes a latch:
typing it again puts this command first.`,
		Example: `  palette select tool_crop --query crp
  palette select "menu:File/Open" --run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				return runSelect(cmd.Context(), cmd.OutOrStdout(), a, query, args[0], run)
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Query text the command was chosen for")
	cmd.Flags().BoolVarP(&run, "run", "r", false, "Dispatch the command after recording")

	return cmd
}

// runSelect records the selection and optionally dispatches the command.
// Unknown ids are recorded anyway; they may belong to a manifest that is
// not loaded right now.
func runSelect(ctx context.Context, w io.Writer, a *app, query, id string, run bool) error {
	cmd, known := a.palette.Registry().Get(id)
	if !known {
		log.Warn().Str("id", id).Msg("Recording selection of unregistered command")
	}

	a.palette.RecordSelection(query, id)
	fmt.Fprintf(w, "Recorded %s\n", id)

	if !run {
		return nil
	}
	if !known {
		return fmt.Errorf("cannot run %s: %w", id, registry.ErrNoExecutor)
	}
	return registry.EchoDispatcher(w).Execute(ctx, cmd)
}
