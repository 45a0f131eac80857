package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/khanglvm/cmd-palette/internal/palette"
	"github.com/khanglvm/cmd-palette/internal/registry"
)

const shellHelp = `Type text to query. Commands:
  :N       choose result N of the last query
  :clear   clear the interaction history
  :help    show this help
  :q       quit`

// lineReader is the part of readline the shell loop needs.
type lineReader interface {
	Readline() (string, error)
}

// NewShellCmd creates the 'shell' command.
func NewShellCmd() *cobra.Command {
	var kind string
	var all bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive palette",
		Long: `Start an interactive palette. Each line is a query; ":N" chooses
result N and records the selection. The manifest is reloaded whenever it
changes on disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filtersFor(kind, all)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				return runShell(cmd.Context(), cmd.OutOrStdout(), a, f)
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Restrict results to one command kind")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden commands")

	return cmd
}

func runShell(ctx context.Context, w io.Writer, a *app, f palette.Filters) error {
	historyFile := ""
	if dir, err := a.cfg.HistoryDir(); err == nil && dir != "" {
		historyFile = filepath.Join(dir, "shell_history")
	} else if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".cmd-palette", "shell_history")
	}

	// The preview writes through readline so the prompt is redrawn after it.
	var rl *readline.Instance
	delay := time.Duration(a.cfg.Palette.DebounceMs) * time.Millisecond
	session := a.palette.NewSession(f, delay, func(_ string, results []palette.Result) {
		writePreview(rl.Stdout(), results)
	})
	defer session.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "› ",
		InterruptPrompt:   "^C",
		EOFPrompt:         ":q",
		HistoryFile:       historyFile,
		HistoryLimit:      500,
		HistorySearchFold: true,
		Stdout:            w,
		Listener:          keystrokeListener(session),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	if a.manifestPath != "" {
		if watcher, err := registry.NewWatcher(a.manifestPath, func(reg *registry.Registry) {
			a.palette.SetRegistry(reg)
			log.Info().Int("commands", reg.Len()).Msg("Manifest reloaded")
		}); err != nil {
			log.Warn().Err(err).Msg("Manifest watching unavailable")
		} else if err := watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("Manifest watching unavailable")
		} else {
			defer watcher.Stop()
		}
	}

	fmt.Fprintln(w, shellHelp)
	return shellLoop(ctx, rl, w, a, session)
}

// keystrokeListener feeds the line being edited into the session so a
// preview of the best match follows typing. Enter is left to shellLoop,
// whose Flush supersedes any pending preview.
func keystrokeListener(session *palette.Session) readline.Listener {
	return readline.FuncListener(func(line []rune, pos int, key rune) ([]rune, int, bool) {
		if key == readline.CharEnter || key == readline.CharCtrlJ {
			return nil, 0, false
		}
		text := strings.TrimSpace(string(line))
		if text != "" && !strings.HasPrefix(text, ":") {
			session.Input(string(line))
		}
		return nil, 0, false
	})
}

func writePreview(w io.Writer, results []palette.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "  (no match)")
		return
	}
	top := results[0].Command
	fmt.Fprintf(w, "  ↳ %s  %s (%d matches)\n", top.Name, top.ID, len(results))
}

// shellLoop reads lines until EOF or ":q". Each submitted line is flushed
// through session, cancelling any preview still pending for it.
func shellLoop(ctx context.Context, in lineReader, w io.Writer, a *app, session *palette.Session) error {
	var lastQuery string
	var last []palette.Result

	for {
		line, err := in.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if strings.HasPrefix(input, ":") {
			done, err := shellCommand(ctx, w, a, input[1:], lastQuery, last)
			if err != nil {
				fmt.Fprintln(w, "Error:", err)
			}
			if done {
				return nil
			}
			continue
		}

		lastQuery = line
		last = session.Flush(line)
		writeResults(w, last, false)
	}
}

// shellCommand handles a ":" command. It reports whether the shell should exit.
func shellCommand(ctx context.Context, w io.Writer, a *app, name, lastQuery string, last []palette.Result) (bool, error) {
	switch name {
	case "q", "quit", "exit":
		return true, nil
	case "clear":
		a.palette.ClearHistory()
		fmt.Fprintln(w, "History cleared.")
		return false, nil
	case "help", "h", "?":
		fmt.Fprintln(w, shellHelp)
		return false, nil
	}

	n, err := strconv.Atoi(name)
	if err != nil {
		return false, fmt.Errorf("unknown command :%s", name)
	}
	if n < 1 || n > len(last) {
		return false, fmt.Errorf("no result %d", n)
	}

	chosen := last[n-1].Command
	a.palette.RecordSelection(lastQuery, chosen.ID)
	if err := registry.EchoDispatcher(w).Execute(ctx, chosen); err != nil {
		return false, err
	}
	return false, nil
}
