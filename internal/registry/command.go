/*
Package registry holds the immutable set of palette commands.

A Registry is built once per session (or per manifest reload) from
type-specific sources: menu trees, static tool lists, user bookmarks and
scripts, built-in actions. It is never mutated after construction; a reload
produces a new Registry that replaces the old one.
*/
package registry

import "strings"

// Kind identifies the source category of a command.
type Kind string

const (
	KindMenu     Kind = "menu"
	KindTool     Kind = "tool"
	KindAction   Kind = "action"
	KindScript   Kind = "script"
	KindBookmark Kind = "bookmark"
	KindBuiltin  Kind = "builtin"
	KindPicker   Kind = "picker"
	KindAPI      Kind = "api"
)

var allKinds = []Kind{
	KindMenu,
	KindTool,
	KindAction,
	KindScript,
	KindBookmark,
	KindBuiltin,
	KindPicker,
	KindAPI,
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind resolves a kind name case-insensitively.
// "plugin" is accepted as an alias for KindBuiltin.
func ParseKind(s string) (Kind, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "plugin" {
		return KindBuiltin, true
	}
	for _, k := range allKinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Command is a single invokable, named entry exposed to the palette.
type Command struct {
	// ID is unique and stable across reloads.
	ID string `json:"id" yaml:"id"`

	// Name is the display text and the query target.
	Name string `json:"name" yaml:"name"`

	// Kind is the command's source category.
	Kind Kind `json:"kind" yaml:"kind"`

	// Enabled reports whether the host can currently execute the command.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Hidden is the user-controlled visibility flag.
	Hidden bool `json:"hidden" yaml:"hidden"`

	// Description is optional help text, used by catalog search only.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Target is an opaque execution payload (menu path, script path, URL).
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}
