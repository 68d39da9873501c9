package engine

import (
	"sync"

	"github.com/vovakirdan/cli-games/internal/core"
)

// Inbox carries input from other goroutines (an SSH channel, a remote
// controller, tests) into the loop. Send never blocks: when the buffer is
// full the oldest event is dropped.
type Inbox struct {
	events   chan core.InputEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewInbox creates an inbox buffering up to size events.
func NewInbox(size int) *Inbox {
	if size < 1 {
		size = 64
	}
	return &Inbox{
		events: make(chan core.InputEvent, size),
		done:   make(chan struct{}),
	}
}

// Send queues ev. It returns false once the inbox is closed.
func (i *Inbox) Send(ev core.InputEvent) bool {
	select {
	case <-i.done:
		return false
	default:
	}

	select {
	case i.events <- ev:
		return true
	default:
	}

	// Full: drop oldest and retry once.
	select {
	case <-i.events:
	default:
	}
	select {
	case i.events <- ev:
		return true
	default:
		return false
	}
}

// Drain returns the events queued right now without blocking. A nil inbox
// is empty.
func (i *Inbox) Drain() []core.InputEvent {
	if i == nil {
		return nil
	}
	var out []core.InputEvent
	for rep := 0; rep < cap(i.events); rep++ {
		select {
		case ev := <-i.events:
			out = append(out, ev)
		default:
			return out
		}
	}
	return out
}

// Close stops further sends. Safe to call more than once.
func (i *Inbox) Close() {
	i.doneOnce.Do(func() {
		close(i.done)
	})
}

// Done is closed by Close.
func (i *Inbox) Done() <-chan struct{} {
	return i.done
}
