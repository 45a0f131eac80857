package palette

import (
	"sync"
	"time"
)

// DefaultDebounce is the keystroke coalescing window.
const DefaultDebounce = 100 * time.Millisecond

// Deliver receives the results of the latest query run.
type Deliver func(text string, results []Result)

// Session coalesces rapid input into query runs. Only the last input
// within the debounce window triggers a query, and a result is dropped if
// newer input arrived while it was being computed.
type Session struct {
	palette *Palette
	filters Filters
	delay   time.Duration
	deliver Deliver

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool
}

// NewSession creates a debounced query session. A non-positive delay
// uses DefaultDebounce.
func (p *Palette) NewSession(f Filters, delay time.Duration, deliver Deliver) *Session {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Session{
		palette: p,
		filters: f,
		delay:   delay,
		deliver: deliver,
	}
}

// Input schedules a query for text, superseding any pending one.
func (s *Session) Input(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.run(gen, text) })
}

// Flush runs text immediately, superseding any pending input.
func (s *Session) Flush(text string) []Result {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	s.mu.Unlock()

	return s.palette.Query(text, s.filters)
}

// Close cancels pending input. Results still in flight are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && gen == s.gen
}

func (s *Session) run(gen uint64, text string) {
	if !s.current(gen) {
		return
	}
	results := s.palette.Query(text, s.filters)
	if !s.current(gen) {
		return
	}
	s.deliver(text, results)
}
