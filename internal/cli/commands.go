package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/cmd-palette/internal/registry"
	"github.com/khanglvm/cmd-palette/internal/search"
)

// NewCommandsCmd creates the commands group for browsing the registry.
func NewCommandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "commands",
		Aliases: []string{"cmds"},
		Short:   "Browse and manage registered commands",
	}

	cmd.AddCommand(newCommandsListCmd())
	cmd.AddCommand(newCommandsFindCmd())
	cmd.AddCommand(newCommandsHideCmd(true))
	cmd.AddCommand(newCommandsHideCmd(false))

	return cmd
}

func newCommandsListCmd() *cobra.Command {
	var kind string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered commands in registration order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				return runCommandsList(cmd.OutOrStdout(), a, kind, jsonOutput)
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only commands of this kind")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func runCommandsList(w io.Writer, a *app, kind string, jsonOutput bool) error {
	reg := a.palette.Registry()
	cmds := reg.All()
	if kind != "" {
		k, ok := registry.ParseKind(kind)
		if !ok {
			return fmt.Errorf("unknown kind %q", kind)
		}
		cmds = reg.ByKind(k)
	}

	if jsonOutput {
		return writeJSON(w, cmds)
	}

	hidden := make(map[string]bool, len(a.cfg.Hidden))
	for _, id := range a.cfg.Hidden {
		hidden[id] = true
	}
	writeCommands(w, cmds, hidden)
	return nil
}

func newCommandsFindCmd() *cobra.Command {
	var kind string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "find <text...>",
		Short: "Search command names and descriptions",
		Long: `Search names, descriptions and targets with keyword relevance,
fused with the palette's fuzzy name ranking.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				return runCommandsFind(cmd.OutOrStdout(), a, strings.Join(args, " "), kind, limit, jsonOutput)
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only commands of this kind")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func runCommandsFind(w io.Writer, a *app, text, kind string, limit int, jsonOutput bool) error {
	var k registry.Kind
	if kind != "" {
		var ok bool
		if k, ok = registry.ParseKind(kind); !ok {
			return fmt.Errorf("unknown kind %q", kind)
		}
	}

	catalog, err := search.NewCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	reg := a.palette.Registry()
	if err := catalog.IndexRegistry(reg); err != nil {
		return err
	}

	hits, err := catalog.SearchHybrid(text, k, limit, reg, a.palette.Index(), search.DefaultFusionConfig)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(w, hits)
	}
	if len(hits) == 0 {
		fmt.Fprintln(w, "No matching commands.")
		return nil
	}
	for i, h := range hits {
		fmt.Fprintf(w, "%2d  %-8s  %s  (%s)  %.2f\n", i+1, h.Kind, h.Name, h.ID, h.Score)
		if h.Description != "" {
			fmt.Fprintf(w, "    %s\n", h.Description)
		}
	}
	return nil
}

func newCommandsHideCmd(hide bool) *cobra.Command {
	use, short := "hide <command-id>", "Hide a command from palette results"
	if !hide {
		use, short = "unhide <command-id>", "Show a previously hidden command again"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				return runCommandsHide(cmd.OutOrStdout(), a, args[0], hide)
			})
		},
	}
}

func runCommandsHide(w io.Writer, a *app, id string, hide bool) error {
	var changed bool
	if hide {
		changed = a.cfg.Hide(id)
	} else {
		changed = a.cfg.Unhide(id)
	}

	if !changed {
		state := "hidden"
		if !hide {
			state = "not hidden"
		}
		fmt.Fprintf(w, "%s is already %s\n", id, state)
		return nil
	}

	if err := a.saveConfig(); err != nil {
		return err
	}
	if hide {
		fmt.Fprintf(w, "Hidden %s\n", id)
	} else {
		fmt.Fprintf(w, "Unhidden %s\n", id)
	}
	return nil
}
