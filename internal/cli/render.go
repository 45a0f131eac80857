package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"

	"github.com/khanglvm/cmd-palette/internal/palette"
	"github.com/khanglvm/cmd-palette/internal/registry"
)

var (
	matchStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	disabledStyle = lipgloss.NewStyle().Faint(true)
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// maxNameWidth caps the name column.
const maxNameWidth = 48

// styledName renders name with the runes at positions emphasized.
func styledName(name string, positions []int) string {
	if len(positions) == 0 {
		return name
	}

	var b strings.Builder
	next := 0
	for i, r := range []rune(name) {
		if next < len(positions) && positions[next] == i {
			b.WriteString(matchStyle.Render(string(r)))
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// pad appends spaces so that plain occupies width display cells.
func pad(styled, plain string, width int) string {
	gap := width - runewidth.StringWidth(plain)
	if gap <= 0 {
		return styled
	}
	return styled + strings.Repeat(" ", gap)
}

func nameColumnWidth(names []string) int {
	width := 0
	for _, n := range names {
		if w := runewidth.StringWidth(n); w > width {
			width = w
		}
	}
	if width > maxNameWidth {
		width = maxNameWidth
	}
	return width
}

// writeResults prints one numbered line per result.
func writeResults(w io.Writer, results []palette.Result, explain bool) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching commands.")
		return
	}

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Command.Name
	}
	width := nameColumnWidth(names)

	for i, r := range results {
		name := r.Command.Name
		styled := styledName(name, r.Positions)
		if runewidth.StringWidth(name) > width {
			name = runewidth.Truncate(name, width, "…")
			styled = name
		}
		if !r.Command.Enabled {
			styled = disabledStyle.Render(styled)
		}

		fmt.Fprintf(w, "%2d  %s  %s  %s\n",
			i+1,
			pad(styled, name, width),
			kindStyle.Render(runewidth.FillRight(string(r.Command.Kind), 8)),
			r.Command.ID,
		)
		if explain {
			b := r.Breakdown
			fmt.Fprintf(w, "    score %.2f = chunks %.2f + exact %.2f + latch %.2f + recency %.2f + used %.2f\n",
				b.Total(), b.Chunks, b.ExactName, b.Latch, b.Recency, b.Occurrence)
		}
	}
}

// writeCommands prints commands in registration order.
func writeCommands(w io.Writer, cmds []registry.Command, hidden map[string]bool) {
	if len(cmds) == 0 {
		fmt.Fprintln(w, "No commands registered.")
		return
	}

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	width := nameColumnWidth(names)

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Commands (%d):", len(cmds))))
	for _, c := range cmds {
		name := runewidth.Truncate(c.Name, width, "…")
		var flags []string
		if !c.Enabled {
			flags = append(flags, "disabled")
		}
		if c.Hidden || hidden[c.ID] {
			flags = append(flags, "hidden")
		}
		line := fmt.Sprintf("  %s  %s  %s", runewidth.FillRight(name, width), runewidth.FillRight(string(c.Kind), 8), c.ID)
		if len(flags) > 0 {
			line += "  [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintln(w, line)
	}
}

// writeJSON pretty-prints v.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
