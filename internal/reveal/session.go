package reveal

import (
	"math/rand/v2"
)

// State is the lifecycle position of a Session.
type State int

const (
	// StateIdle means no reveal has started yet, or the last one was
	// cancelled. The canvas is fully covered or untouched.
	StateIdle State = iota
	// StateInitializing is the transient phase inside Start: enumerating
	// the field, shuffling it and repainting the cover.
	StateInitializing
	// StateRevealing means the session is consuming its permutation and
	// expects Step calls until exhaustion.
	StateRevealing
	// StateComplete means every cell has been cleared. Terminal until the
	// next Start.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRevealing:
		return "revealing"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// BatchSize returns the number of cells cleared per frame for a canvas of
// totalCells. The floor of 2000 keeps tiny canvases snappy; above 400k cells
// the size scales so the full reveal always lands near 200 frames.
func BatchSize(totalCells int) int {
	b := totalCells / 200
	if b < 2000 {
		b = 2000
	}
	return b
}

// TargetTotal resolves the logical nuance count a session should display at
// completion: totalAvailable when the generator reported one, else the
// literal placed-dot count. The generator's dedup means totalAvailable can
// legitimately exceed the number of rendered cells.
func TargetTotal(count, totalAvailable int) int {
	if totalAvailable > 0 {
		return totalAvailable
	}
	return count
}

// Frame is the observable result of one Step: the cells cleared this frame
// and the synchronized counters after them.
type Frame struct {
	// Cells cleared by this frame, in reveal order. Aliases the session's
	// permutation; valid until the next Start.
	Cells []Cell
	// Progress is the fraction of cells cleared so far, in [0,1].
	Progress float64
	// Displayed is the nuance counter shown next to the artwork:
	// floor(Progress × targetTotal), pinned to targetTotal exactly on the
	// final frame.
	Displayed int
	// Done is set on the frame that clears the last cell.
	Done bool
}

// Session runs one reveal of one artwork over one canvas. It is a purely
// cooperative machine: Start prepares the permutation and covers the canvas,
// then each Step clears one batch, and Cancel abandons the run between
// steps. Not safe for concurrent use; drive it from a single goroutine.
type Session struct {
	canvas *Canvas
	rng    *rand.Rand

	field     *Field
	cursor    int
	batch     int
	target    int
	displayed int
	state     State
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRand sets a deterministic random source for the permutation.
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = rng }
}

// NewSession creates an idle session bound to a canvas. A nil canvas is
// accepted; Start then degrades to a no-op, mirroring a drawing surface
// that is not mounted yet.
func NewSession(canvas *Canvas, opts ...SessionOption) *Session {
	s := &Session{canvas: canvas}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins a fresh reveal toward targetTotal. Any in-flight reveal is
// cancelled first. The field is enumerated and shuffled anew on every call,
// so a restart never resumes an abandoned order. When the canvas is absent
// the call is a guarded no-op and the session stays idle.
func (s *Session) Start(targetTotal int) {
	if s.canvas == nil {
		return
	}
	if s.state == StateRevealing {
		s.Cancel()
	}
	s.state = StateInitializing

	s.field = NewField(s.canvas.Width(), s.canvas.Height())
	s.field.Shuffle(s.rng)
	s.canvas.Cover()

	s.cursor = 0
	s.displayed = 0
	s.batch = BatchSize(s.field.Len())
	s.target = targetTotal
	if s.target < 0 {
		s.target = 0
	}
	if s.field.Len() == 0 {
		// Degenerate surface: nothing to reveal.
		s.displayed = s.target
		s.state = StateComplete
		return
	}
	s.state = StateRevealing
}

// Step clears the next batch of cells and reports the resulting frame.
// It returns false when the session is not revealing (idle, complete, or
// never started); callers stop ticking on false or on Frame.Done.
func (s *Session) Step() (Frame, bool) {
	if s.state != StateRevealing {
		return Frame{}, false
	}

	total := s.field.Len()
	end := s.cursor + s.batch
	if end > total {
		end = total
	}
	cleared := s.field.Cells()[s.cursor:end]
	for _, c := range cleared {
		s.canvas.ClearCell(c.X, c.Y)
	}
	s.cursor = end

	progress := float64(s.cursor) / float64(total)
	s.displayed = int(progress * float64(s.target))

	f := Frame{
		Cells:     cleared,
		Progress:  progress,
		Displayed: s.displayed,
	}

	if s.cursor == total {
		// Pin the counter to the true total, absorbing the rounding
		// drift the floor introduced on intermediate frames.
		s.displayed = s.target
		f.Displayed = s.target
		f.Done = true
		s.state = StateComplete
	}
	return f, true
}

// Cancel abandons an in-flight reveal: the permutation is discarded and the
// canvas returns to fully covered. On an idle or complete session it is a
// no-op. No reveal work is ever observed after Cancel returns.
func (s *Session) Cancel() {
	if s.state != StateRevealing && s.state != StateInitializing {
		return
	}
	s.field = nil
	s.cursor = 0
	s.displayed = 0
	s.target = 0
	s.canvas.Cover()
	s.state = StateIdle
}

// Progress returns the fraction of cells cleared, in [0,1].
func (s *Session) Progress() float64 {
	if s.field == nil || s.field.Len() == 0 {
		return 0
	}
	return float64(s.cursor) / float64(s.field.Len())
}

// Displayed returns the current nuance counter.
func (s *Session) Displayed() int { return s.displayed }

// Active reports whether a reveal is in flight.
func (s *Session) Active() bool {
	return s.state == StateInitializing || s.state == StateRevealing
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// TotalCells returns the literal cell count of the current field, zero when
// no reveal has been prepared.
func (s *Session) TotalCells() int {
	if s.field == nil {
		return 0
	}
	return s.field.Len()
}
