package engine

import (
	"strings"
	"sync"

	"github.com/san-kum/physlab/internal/draw"
)

type EventKind uint8

const (
	EventResize EventKind = iota + 1
	EventKeyDown
	EventKeyUp
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	}
	return "unknown"
}

type Event struct {
	Kind EventKind
	Key  string
	Size draw.Size
}

type Listener func(ev Event)

type ListenerID uint64

// Host is the window-level event source a controller attaches to.
type Host interface {
	AddListener(kind EventKind, l Listener) ListenerID
	RemoveListener(id ListenerID)
}

type registration struct {
	id   ListenerID
	kind EventKind
	fn   Listener
}

// Window is an in-process Host. Listeners run on the goroutine that calls
// Dispatch, in registration order.
type Window struct {
	mu   sync.Mutex
	next ListenerID
	regs []registration
}

func NewWindow() *Window {
	return &Window{}
}

func (w *Window) AddListener(kind EventKind, l Listener) ListenerID {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.next++
	w.regs = append(w.regs, registration{id: w.next, kind: kind, fn: l})
	return w.next
}

// RemoveListener ignores ids it does not know.
func (w *Window) RemoveListener(id ListenerID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, r := range w.regs {
		if r.id == id {
			w.regs = append(w.regs[:i], w.regs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers ev and reports how many listeners received it.
func (w *Window) Dispatch(ev Event) int {
	if ev.Kind != EventResize {
		ev.Key = strings.ToLower(ev.Key)
	}
	w.mu.Lock()
	var targets []Listener
	for _, r := range w.regs {
		if r.kind == ev.Kind {
			targets = append(targets, r.fn)
		}
	}
	w.mu.Unlock()

	for _, fn := range targets {
		fn(ev)
	}
	return len(targets)
}

// Listeners counts registrations of kind; zero kind counts all.
func (w *Window) Listeners(kind EventKind) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if kind == 0 {
		return len(w.regs)
	}
	n := 0
	for _, r := range w.regs {
		if r.kind == kind {
			n++
		}
	}
	return n
}
