package reveal

import (
	"context"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Driver ticks a Session at a fixed frame interval, standing in for the
// display-refresh callback that drives the animation client-side. It owns
// the cooperative scheduling only; the Session owns all reveal state.
type Driver struct {
	// Interval between frames. Zero means DefaultFrameInterval.
	Interval time.Duration
}

// Run steps the session once per tick until it completes, the context is
// cancelled, or emit fails. emit receives every frame in order and runs on
// Run's goroutine, so a slow emit stretches wall-clock time without ever
// skipping or reordering cells.
//
// On context cancellation the session is cancelled (canvas re-covered)
// before returning, so no reveal work survives the call; the in-progress
// batch, if any, completed before the cancellation check, which is the
// engine's cancellation granularity. Run returns nil on completion,
// ctx.Err() on cancellation, or the emit error.
func (d *Driver) Run(ctx context.Context, s *Session, emit func(Frame) error) error {
	interval := d.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Cancel()
			return ctx.Err()
		case <-ticker.C:
			frame, ok := s.Step()
			if !ok {
				return nil
			}
			if emit != nil {
				if err := emit(frame); err != nil {
					s.Cancel()
					return err
				}
			}
			if frame.Done {
				return nil
			}
		}
	}
}
