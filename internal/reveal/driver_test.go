package reveal

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"
)

func TestDriverRunsToCompletion(t *testing.T) {
	canvas := NewCanvas(60, 60)
	s := NewSession(canvas, WithRand(rand.New(rand.NewPCG(1, 1))))
	s.Start(3600)

	d := &Driver{Interval: time.Millisecond}
	var frames int
	var last Frame
	err := d.Run(context.Background(), s, func(f Frame) error {
		frames++
		last = f
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if frames != 2 { // 3600 cells, 2000 per batch
		t.Fatalf("frames: got %d, want 2", frames)
	}
	if !last.Done || last.Displayed != 3600 {
		t.Fatalf("final frame: %+v", last)
	}
	if canvas.Covered() != 0 {
		t.Fatal("driver finished with covered cells remaining")
	}
}

func TestDriverHonorsContextCancel(t *testing.T) {
	canvas := NewCanvas(200, 200)
	s := NewSession(canvas, WithRand(rand.New(rand.NewPCG(2, 2))))
	s.Start(40_000)

	ctx, cancel := context.WithCancel(context.Background())
	d := &Driver{Interval: time.Millisecond}
	err := d.Run(ctx, s, func(f Frame) error {
		cancel() // cancel after the first frame is observed
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err: got %v, want context.Canceled", err)
	}
	if s.Active() {
		t.Fatal("session still active after context cancel")
	}
	if got := canvas.Covered(); got != 40_000 {
		t.Fatalf("canvas not re-covered: %d covered, want 40000", got)
	}
}

func TestDriverStopsOnEmitError(t *testing.T) {
	s := NewSession(NewCanvas(100, 100), WithRand(rand.New(rand.NewPCG(3, 3))))
	s.Start(10_000)

	sentinel := errors.New("peer gone")
	d := &Driver{Interval: time.Millisecond}
	err := d.Run(context.Background(), s, func(f Frame) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err: got %v, want sentinel", err)
	}
	if s.Active() {
		t.Fatal("session still active after emit failure")
	}
}

func TestDriverIdleSessionReturnsImmediately(t *testing.T) {
	s := NewSession(NewCanvas(10, 10))
	d := &Driver{Interval: time.Millisecond}
	if err := d.Run(context.Background(), s, nil); err != nil {
		t.Fatalf("run on idle session: %v", err)
	}
}
