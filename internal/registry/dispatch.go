package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

var (
	// ErrNoExecutor is returned when no executor handles a command's kind.
	ErrNoExecutor = errors.New("no executor registered for command kind")

	// ErrDisabled is returned when executing a disabled command.
	ErrDisabled = errors.New("command is disabled")
)

// Executor runs a command against the host application.
type Executor interface {
	Execute(ctx context.Context, cmd Command) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, cmd Command) error

// Execute calls f(ctx, cmd).
func (f ExecutorFunc) Execute(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Dispatcher routes commands to executors by kind.
type Dispatcher struct {
	mu        sync.RWMutex
	executors map[Kind]Executor
}

// NewDispatcher creates an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{executors: make(map[Kind]Executor)}
}

// Register installs exec for kind, replacing any previous executor.
func (d *Dispatcher) Register(kind Kind, exec Executor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.executors[kind] = exec
}

// Execute dispatches cmd to the executor registered for its kind.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) error {
	if !cmd.Enabled {
		return fmt.Errorf("%s: %w", cmd.ID, ErrDisabled)
	}

	d.mu.RLock()
	exec, ok := d.executors[cmd.Kind]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s (%s): %w", cmd.ID, cmd.Kind, ErrNoExecutor)
	}

	return exec.Execute(ctx, cmd)
}

// EchoDispatcher returns a dispatcher that reports every command to w
// instead of executing it. Execution itself belongs to the host.
func EchoDispatcher(w io.Writer) *Dispatcher {
	d := NewDispatcher()
	for _, kind := range Kinds() {
		d.Register(kind, ExecutorFunc(func(ctx context.Context, cmd Command) error {
			_, err := fmt.Fprintf(w, "→ %s %s (%s)\n", cmd.Kind, cmd.ID, cmd.Target)
			return err
		}))
	}
	return d
}
