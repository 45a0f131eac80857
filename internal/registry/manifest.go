package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk description of every command source.
//
// Example:
//
//	tools:
//	  - id: tool_crop
//	    name: Crop Tool
//	menus:
//	  - name: File
//	    children:
//	      - name: Export
//	        children:
//	          - name: PNG
//	            target: file/export/png
type Manifest struct {
	Menus     []MenuNode `yaml:"menus"`
	Tools     []Entry    `yaml:"tools"`
	Actions   []Entry    `yaml:"actions"`
	Scripts   []Entry    `yaml:"scripts"`
	Bookmarks []Entry    `yaml:"bookmarks"`
	Builtins  []Entry    `yaml:"builtins"`
	Pickers   []Entry    `yaml:"pickers"`
	API       []Entry    `yaml:"api"`
}

// Entry is a flat command definition inside a manifest section.
type Entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Enabled     *bool  `yaml:"enabled,omitempty"`
	Description string `yaml:"description,omitempty"`
	Target      string `yaml:"target,omitempty"`
}

// MenuNode is one item of a host menu tree. Leaves become commands.
type MenuNode struct {
	Name     string     `yaml:"name"`
	Enabled  *bool      `yaml:"enabled,omitempty"`
	Target   string     `yaml:"target,omitempty"`
	Children []MenuNode `yaml:"children,omitempty"`
}

// LoadManifest reads a YAML manifest and builds a registry from it.
func LoadManifest(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest builds a registry from manifest bytes.
// Sources are concatenated in a fixed order: menus, tools, actions,
// scripts, bookmarks, builtins, pickers, api.
func ParseManifest(data []byte) (*Registry, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return New(m.Commands()), nil
}

// Commands flattens every section of the manifest into commands.
func (m *Manifest) Commands() []Command {
	cmds := FlattenMenus(m.Menus)

	sections := []struct {
		kind    Kind
		entries []Entry
	}{
		{KindTool, m.Tools},
		{KindAction, m.Actions},
		{KindScript, m.Scripts},
		{KindBookmark, m.Bookmarks},
		{KindBuiltin, m.Builtins},
		{KindPicker, m.Pickers},
		{KindAPI, m.API},
	}

	for _, s := range sections {
		for _, e := range s.entries {
			cmds = append(cmds, e.command(s.kind))
		}
	}
	return cmds
}

func (e Entry) command(kind Kind) Command {
	id := e.ID
	if id == "" {
		id = string(kind) + ":" + e.Name
	}
	return Command{
		ID:          id,
		Name:        e.Name,
		Kind:        kind,
		Enabled:     enabledOrDefault(e.Enabled),
		Description: e.Description,
		Target:      e.Target,
	}
}

func enabledOrDefault(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

// menuFrame is a pending node on the flattening worklist.
type menuFrame struct {
	node    MenuNode
	path    []string
	enabled bool
}

// FlattenMenus turns a menu tree into one menu command per leaf.
// The walk uses an explicit stack so tree depth is bounded only by memory.
// Output order is depth-first in document order. A disabled parent
// disables all of its descendants.
func FlattenMenus(roots []MenuNode) []Command {
	var cmds []Command

	stack := make([]menuFrame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, menuFrame{node: roots[i], enabled: true})
	}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		path := make([]string, len(frame.path), len(frame.path)+1)
		copy(path, frame.path)
		path = append(path, frame.node.Name)
		enabled := frame.enabled && enabledOrDefault(frame.node.Enabled)

		if len(frame.node.Children) == 0 {
			cmds = append(cmds, Command{
				ID:      "menu:" + strings.Join(path, "/"),
				Name:    strings.Join(path, " > "),
				Kind:    KindMenu,
				Enabled: enabled,
				Target:  frame.node.Target,
			})
			continue
		}

		for i := len(frame.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, menuFrame{
				node:    frame.node.Children[i],
				path:    path,
				enabled: enabled,
			})
		}
	}

	return cmds
}
