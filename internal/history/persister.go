package history

import (
	"context"
	"sync"
	"time"

	"github.com/khanglvm/cmd-palette/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	// snapshotQueueSize is the buffer for pending snapshots.
	// If full, the oldest pending snapshot is superseded anyway.
	snapshotQueueSize = 16

	// flushInterval is how long the persister waits to coalesce writes.
	flushInterval = 50 * time.Millisecond
)

// Persister writes log snapshots to a store in the background.
// Only the newest pending snapshot is written: each snapshot is the whole
// log, so intermediate ones carry no extra information.
type Persister struct {
	store    storage.Store
	queue    chan []storage.Event
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex
	writes   int
}

// NewPersister starts a background writer for store.
func NewPersister(store storage.Store) *Persister {
	p := &Persister{
		store:    store,
		queue:    make(chan []storage.Event, snapshotQueueSize),
		stopChan: make(chan struct{}),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// Submit queues a snapshot without blocking.
func (p *Persister) Submit(snapshot []storage.Event) {
	for {
		select {
		case p.queue <- snapshot:
			return
		default:
		}
		// Queue full: drop the oldest pending snapshot and retry.
		select {
		case <-p.queue:
		default:
		}
	}
}

// Stop flushes the newest pending snapshot and stops the writer.
func (p *Persister) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
		p.wg.Wait()
	})
}

// Writes reports how many snapshots reached the store.
func (p *Persister) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

func (p *Persister) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var pending []storage.Event
	dirty := false

	for {
		select {
		case snapshot := <-p.queue:
			pending = snapshot
			dirty = true

		case <-ticker.C:
			if dirty {
				p.write(pending)
				dirty = false
			}

		case <-p.stopChan:
			for {
				select {
				case snapshot := <-p.queue:
					pending = snapshot
					dirty = true
				default:
					if dirty {
						p.write(pending)
					}
					return
				}
			}
		}
	}
}

func (p *Persister) write(snapshot []storage.Event) {
	if err := p.store.SaveEvents(context.Background(), snapshot); err != nil {
		log.Warn().Err(err).Int("events", len(snapshot)).Msg("Failed to persist interaction log")
		return
	}
	p.mu.Lock()
	p.writes++
	p.mu.Unlock()
}
