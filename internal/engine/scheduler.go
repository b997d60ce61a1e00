package engine

import (
	"context"
	"sync"
	"time"
)

// FrameFunc is called once per scheduled frame with the frame timestamp.
type FrameFunc func(now time.Time)

// Token identifies a scheduled callback. The zero Token is never issued.
type Token uint64

// Scheduler stands in for the display's frame clock. Each Schedule call runs
// its callback at most once, on the next frame.
type Scheduler interface {
	Schedule(fn FrameFunc) Token
	Cancel(t Token)
}

type pending struct {
	token Token
	fn    FrameFunc
}

type queue struct {
	mu    sync.Mutex
	next  Token
	items []pending
}

func (q *queue) Schedule(fn FrameFunc) Token {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.items = append(q.items, pending{token: q.next, fn: fn})
	return q.next
}

func (q *queue) Cancel(t Token) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, p := range q.items {
		if p.token == t {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Pending is the number of callbacks waiting for the next frame.
func (q *queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// drain runs the callbacks pending at call time. Callbacks scheduled while
// draining wait for the following frame.
func (q *queue) drain(now time.Time) int {
	q.mu.Lock()
	batch := q.items
	q.items = nil
	q.mu.Unlock()

	for _, p := range batch {
		p.fn(now)
	}
	return len(batch)
}

// ManualScheduler fires frames only when told to, on a synthetic clock.
type ManualScheduler struct {
	queue
	clock sync.Mutex
	now   time.Time
}

func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (m *ManualScheduler) Now() time.Time {
	m.clock.Lock()
	defer m.clock.Unlock()
	return m.now
}

// Fire runs the pending callbacks at now and returns how many ran.
func (m *ManualScheduler) Fire(now time.Time) int {
	m.clock.Lock()
	m.now = now
	m.clock.Unlock()
	return m.drain(now)
}

// Advance moves the clock by d and fires.
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.clock.Lock()
	m.now = m.now.Add(d)
	now := m.now
	m.clock.Unlock()
	return m.drain(now)
}

// Run advances n frames of d each and returns the callbacks fired.
func (m *ManualScheduler) Run(n int, d time.Duration) int {
	total := 0
	for i := 0; i < n; i++ {
		total += m.Advance(d)
	}
	return total
}

// TickerScheduler fires frames from a single goroutine at a fixed rate.
type TickerScheduler struct {
	queue
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewTickerScheduler(ctx context.Context, fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &TickerScheduler{cancel: cancel, done: make(chan struct{})}
	go s.run(ctx, time.Second/time.Duration(fps))
	return s
}

func (s *TickerScheduler) run(ctx context.Context, interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.drain(now)
		}
	}
}

// Close stops the ticker goroutine and waits for it to exit. Pending
// callbacks are dropped.
func (s *TickerScheduler) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed once the ticker goroutine has exited.
func (s *TickerScheduler) Done() <-chan struct{} { return s.done }
