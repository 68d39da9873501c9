package tui

import (
	"sync"

	"github.com/vovakirdan/cli-games/internal/core"
)

// keyBuffer is how many unread keys a surface holds before dropping the
// oldest.
const keyBuffer = 32

// Surface is a core.Surface drawn by the simulation loop and shown by a
// Bubble Tea program. The loop goroutine owns the back buffer; the UI side
// only resizes, pushes keys and reads finished frames.
type Surface struct {
	back *core.Screen
	keys chan core.InputEvent

	mu         sync.Mutex
	rows, cols int
	frame      string
}

var _ core.Surface = (*Surface)(nil)

// NewSurface creates a surface of the given size.
func NewSurface(cols, rows int) *Surface {
	return &Surface{
		back: core.NewScreen(cols, rows),
		keys: make(chan core.InputEvent, keyBuffer),
		rows: rows,
		cols: cols,
	}
}

// Dimensions reports the size the terminal currently offers.
func (s *Surface) Dimensions() (rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.cols
}

// Resize records a new terminal size; the back buffer follows on the next
// Clear.
func (s *Surface) Resize(cols, rows int) {
	s.mu.Lock()
	s.rows, s.cols = max(0, rows), max(0, cols)
	s.mu.Unlock()
}

// Clear blanks the back buffer, resizing it first if the terminal changed.
func (s *Surface) Clear() {
	rows, cols := s.Dimensions()
	s.back.Resize(cols, rows)
	s.back.Clear()
}

// PutChar draws into the back buffer.
func (s *Surface) PutChar(row, col int, glyph rune, style core.Style) {
	s.back.PutChar(row, col, glyph, style)
}

// Present publishes the back buffer as the current frame.
func (s *Surface) Present() {
	frame := RenderScreen(s.back)
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
}

// Frame returns the last presented frame.
func (s *Surface) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Push queues a key for the loop. When the buffer is full the oldest key
// is dropped.
func (s *Surface) Push(ev core.InputEvent) {
	if ev.IsNone() {
		return
	}
	for {
		select {
		case s.keys <- ev:
			return
		default:
		}
		select {
		case <-s.keys:
		default:
		}
	}
}

// PollKey returns the next queued key without blocking.
func (s *Surface) PollKey() core.InputEvent {
	select {
	case ev := <-s.keys:
		return ev
	default:
		return core.NoInput
	}
}

// Release drops keys typed after the session ended and the stale frame.
func (s *Surface) Release() {
	for {
		select {
		case <-s.keys:
		default:
			s.mu.Lock()
			s.frame = ""
			s.mu.Unlock()
			return
		}
	}
}
