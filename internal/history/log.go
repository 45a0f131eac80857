/*
Package history implements the palette's interaction log.

The log is an ordered list of selections, most recent first: index 0 is
always the newest event. It is loaded once from a storage.Store, grows by
one event per selection, and is written back to the store as a whole
snapshot after every change.
*/
package history

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/khanglvm/cmd-palette/internal/storage"
	"github.com/rs/zerolog/log"
)

// Event is one command selection.
type Event struct {
	Query     string
	CommandID string
	Timestamp int64
}

// ToStorage converts the event to its persisted form.
func (e Event) ToStorage() storage.Event {
	return storage.Event{Query: e.Query, CommandID: e.CommandID, Timestamp: e.Timestamp}
}

func fromStorage(e storage.Event) Event {
	return Event{Query: e.Query, CommandID: e.CommandID, Timestamp: e.Timestamp}
}

// Notifier receives the one-time warning when the persisted log is unusable.
type Notifier func(err error)

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithMaxEvents caps the log length; older events fall off the tail.
// Zero means unbounded.
func WithMaxEvents(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxEvents = n
		}
	}
}

// WithNotifier sets the callback for unreadable persisted logs.
func WithNotifier(n Notifier) Option {
	return func(l *Log) { l.notify = n }
}

// WithPersister routes snapshot writes through p instead of writing inline.
func WithPersister(p *Persister) Option {
	return func(l *Log) { l.persister = p }
}

// Log is the in-memory interaction log bound to a store.
type Log struct {
	mu         sync.RWMutex
	saveMu     sync.Mutex // orders mutation and save of each snapshot
	events     []Event
	store      storage.Store
	persister  *Persister
	now        func() time.Time
	maxEvents  int
	notify     Notifier
	notifyOnce sync.Once
}

// New creates an empty log bound to store. Call Load to read persisted data.
func New(store storage.Store, opts ...Option) *Log {
	l := &Log{
		store:  store,
		now:    time.Now,
		events: []Event{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open creates a log and loads it from store.
func Open(ctx context.Context, store storage.Store, opts ...Option) *Log {
	l := New(store, opts...)
	l.Load(ctx)
	return l
}

// Load initializes the store and replaces the in-memory log with its
// contents. Any failure leaves the log empty and is reported once through
// the notifier; it is never fatal.
func (l *Log) Load(ctx context.Context) {
	if l.store == nil {
		return
	}

	if err := l.store.Init(); err != nil {
		l.warn(err)
		return
	}

	stored, err := l.store.LoadEvents(ctx)
	if err != nil {
		l.warn(err)
		stored = nil
	}

	events := make([]Event, 0, len(stored))
	for _, e := range stored {
		events = append(events, fromStorage(e))
	}

	l.mu.Lock()
	l.events = l.trim(events)
	l.mu.Unlock()
}

func (l *Log) warn(err error) {
	l.notifyOnce.Do(func() {
		log.Warn().Err(err).Msg("Interaction log unavailable, starting with empty history")
		if l.notify != nil {
			l.notify(err)
		}
	})
}

// Append records a selection at the head of the log and persists the
// new snapshot. It returns the created event.
func (l *Log) Append(query, commandID string) Event {
	e := Event{
		Query:     query,
		CommandID: commandID,
		Timestamp: l.now().UnixMilli(),
	}

	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	l.mu.Lock()
	events := make([]Event, 0, len(l.events)+1)
	events = append(events, e)
	events = append(events, l.events...)
	l.events = l.trim(events)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persist(snapshot)
	return e
}

// Clear empties the log and persists the empty snapshot.
func (l *Log) Clear() {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	l.mu.Lock()
	l.events = []Event{}
	l.mu.Unlock()

	l.persist([]storage.Event{})
}

// Events returns a copy of the log, most recent first.
func (l *Log) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Matching returns events whose query contains substr (case-insensitive).
func (l *Log) Matching(substr string) []Event {
	needle := strings.ToLower(substr)
	var out []Event
	for _, e := range l.Events() {
		if strings.Contains(strings.ToLower(e.Query), needle) {
			out = append(out, e)
		}
	}
	return out
}

func (l *Log) trim(events []Event) []Event {
	if l.maxEvents > 0 && len(events) > l.maxEvents {
		return events[:l.maxEvents]
	}
	return events
}

func (l *Log) snapshotLocked() []storage.Event {
	out := make([]storage.Event, len(l.events))
	for i, e := range l.events {
		out[i] = e.ToStorage()
	}
	return out
}

func (l *Log) persist(snapshot []storage.Event) {
	if l.store == nil {
		return
	}
	if l.persister != nil {
		l.persister.Submit(snapshot)
		return
	}
	if err := l.store.SaveEvents(context.Background(), snapshot); err != nil {
		log.Warn().Err(err).Msg("Failed to persist interaction log")
	}
}
