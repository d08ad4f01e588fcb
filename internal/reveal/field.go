// Package reveal implements the progressive dissolve animation engine behind
// the Rencontres tabs: a freshly generated artwork sits under an opaque cover
// layer, and the engine clears the cover cell by cell, in random order, over
// roughly two hundred frames.
//
// The engine is split in three parts. Field enumerates and permutes the cells
// of the canvas. Session owns one reveal lifecycle (start, step, cancel) and
// keeps the displayed nuance counter in sync with the artwork's logical total.
// Driver ticks a Session at a fixed frame interval. A Session is confined to
// the goroutine of its Driver; nothing here is safe for concurrent use.
package reveal

import "math/rand/v2"

// Cell identifies a 1×1 unit of the canvas by its integer coordinates.
type Cell struct {
	X int
	Y int
}

// Field is the full set of cells covering a W×H canvas, in the order they
// will be revealed. A fresh Field lists cells row-major; Shuffle turns that
// into a uniform random permutation. The order is consumed by a Session and
// never re-permuted mid-reveal.
type Field struct {
	width  int
	height int
	cells  []Cell
}

// NewField enumerates every cell of a w×h canvas, row-major.
func NewField(w, h int) *Field {
	f := &Field{
		width:  w,
		height: h,
		cells:  make([]Cell, 0, w*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.cells = append(f.cells, Cell{X: x, Y: y})
		}
	}
	return f
}

// Shuffle permutes the cells in place using Fisher–Yates, walking from the
// last index down and swapping with a uniformly chosen earlier-or-equal
// index, so every permutation is equally likely. A nil rng uses the shared
// top-level source.
func (f *Field) Shuffle(rng *rand.Rand) {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(f.cells) - 1; i > 0; i-- {
		j := intN(i + 1)
		f.cells[i], f.cells[j] = f.cells[j], f.cells[i]
	}
}

// Width returns the canvas width the field was built for.
func (f *Field) Width() int { return f.width }

// Height returns the canvas height the field was built for.
func (f *Field) Height() int { return f.height }

// Len returns the total number of cells.
func (f *Field) Len() int { return len(f.cells) }

// Cells exposes the reveal order. Callers must not mutate it.
func (f *Field) Cells() []Cell { return f.cells }
