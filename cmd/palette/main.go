/*
Package main is the entry point for the palette CLI.

palette is a command palette engine: it ranks named commands against
typed text with fuzzy matching and learns from what you choose, so the
commands you use most, and the ones you picked for a given query, rise
to the top.

Usage:
  palette [command]

Available Commands:
  init        Create a default configuration and sample manifest
  query       Rank commands for a query
  select      Record that a command was chosen
  shell       Interactive palette
  history     Inspect and manage the interaction history
  commands    Browse and manage registered commands
  version     Show version information

Examples:
  # Rank commands for "crp"
  palette query crp

  # Teach the palette that "crp" means the crop tool
  palette select tool_crop --query crp

  # Type queries interactively
  palette shell
*/
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/khanglvm/cmd-palette/internal/cli"
	"github.com/khanglvm/cmd-palette/internal/version"
)

// Version information (set via ldflags during build)
var (
	buildVersion = "dev"
	commit       = "none"
	date         = "unknown"
)

func main() {
	version.Version, version.Commit, version.Date = buildVersion, commit, date

	rootCmd := &cobra.Command{
		Use:   "palette",
		Short: "Fuzzy command palette with usage-based ranking",
		Long: `palette ranks a registry of named commands (menu items, tools, actions,
scripts, bookmarks) against typed text.

Ranking combines:
  • fuzzy subsequence matching on the command name
  • word-level bonuses for prefix and exact matches
  • how recently and how often each command was chosen
  • query latches: the command you chose most for the exact same text

History stays on this machine under ~/.cmd-palette.`,
		Version:       version.Current().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cli.Globals.Verbose)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cli.Globals.ConfigPath, "config", "c", "", "Config file (default ~/.cmd-palette.json)")
	rootCmd.PersistentFlags().BoolVar(&cli.Globals.Verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(cli.NewInitCmd())
	rootCmd.AddCommand(cli.NewQueryCmd())
	rootCmd.AddCommand(cli.NewSelectCmd())
	rootCmd.AddCommand(cli.NewShellCmd())
	rootCmd.AddCommand(cli.NewHistoryCmd())
	rootCmd.AddCommand(cli.NewCommandsCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends human-readable logs to stderr so stdout stays
// parseable for --json output.
func setupLogging(verbose bool) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
}
