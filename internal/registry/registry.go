package registry

import (
	"github.com/rs/zerolog/log"
)

// Registry is an ordered, read-only collection of commands.
type Registry struct {
	commands []Command
	byID     map[string]int
}

// New builds a registry from cmds, preserving registration order.
// Commands with an empty ID are skipped; when IDs collide the first wins.
func New(cmds []Command) *Registry {
	r := &Registry{
		commands: make([]Command, 0, len(cmds)),
		byID:     make(map[string]int, len(cmds)),
	}

	for _, cmd := range cmds {
		if cmd.ID == "" {
			log.Warn().Str("name", cmd.Name).Msg("Skipping command without id")
			continue
		}
		if _, exists := r.byID[cmd.ID]; exists {
			log.Warn().Str("id", cmd.ID).Msg("Duplicate command id, keeping first")
			continue
		}
		r.byID[cmd.ID] = len(r.commands)
		r.commands = append(r.commands, cmd)
	}

	return r
}

// All returns a copy of every command in registration order.
func (r *Registry) All() []Command {
	if r == nil {
		return nil
	}
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Get looks up a command by id.
func (r *Registry) Get(id string) (Command, bool) {
	if r == nil {
		return Command{}, false
	}
	idx, ok := r.byID[id]
	if !ok {
		return Command{}, false
	}
	return r.commands[idx], true
}

// Len returns the number of commands.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.commands)
}

// ByKind returns the commands of kind k in registration order.
func (r *Registry) ByKind(k Kind) []Command {
	if r == nil {
		return nil
	}
	var out []Command
	for _, cmd := range r.commands {
		if cmd.Kind == k {
			out = append(out, cmd)
		}
	}
	return out
}

// WithHidden returns a new registry whose Hidden flags reflect ids.
// The receiver is left untouched.
func (r *Registry) WithHidden(ids []string) *Registry {
	hidden := make(map[string]bool, len(ids))
	for _, id := range ids {
		hidden[id] = true
	}

	cmds := r.All()
	for i := range cmds {
		cmds[i].Hidden = cmds[i].Hidden || hidden[cmds[i].ID]
	}
	return New(cmds)
}
