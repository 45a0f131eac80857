package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/cmd-palette/internal/palette"
	"github.com/khanglvm/cmd-palette/internal/registry"
)

type queryOptions struct {
	kind    string
	all     bool
	explain bool
	json    bool
}

// NewQueryCmd creates the 'query' command.
func NewQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:     "query [text...]",
		Aliases: []string{"q"},
		Short:   "Rank commands for a query",
		Long: `Run a palette query and print the ranked results.

A "#kind" token anywhere in the text restricts results to that kind,
for example "#tool crop". An empty query lists startup commands followed
by the most used ones.`,
		Example: `  palette query crp
  palette query "#menu open"
  palette query --explain canvas
  palette query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				return runQuery(cmd.OutOrStdout(), a, strings.Join(args, " "), opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "Restrict results to one command kind")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Include hidden commands")
	cmd.Flags().BoolVarP(&opts.explain, "explain", "e", false, "Show the score breakdown of each result")
	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "Output as JSON")

	return cmd
}

// filtersFor builds query filters from the command-line options.
func filtersFor(kind string, all bool) (palette.Filters, error) {
	f := palette.Filters{IncludeHidden: all}
	if kind != "" {
		k, ok := registry.ParseKind(kind)
		if !ok {
			return f, fmt.Errorf("unknown kind %q", kind)
		}
		f.Kinds = []registry.Kind{k}
	}
	return f, nil
}

func runQuery(w io.Writer, a *app, text string, opts queryOptions) error {
	f, err := filtersFor(opts.kind, opts.all)
	if err != nil {
		return err
	}

	results := a.palette.Query(text, f)
	if opts.json {
		return writeJSON(w, results)
	}
	writeResults(w, results, opts.explain)
	return nil
}
