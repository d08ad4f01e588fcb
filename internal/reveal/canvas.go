package reveal

import (
	"image/png"
	"io"

	"github.com/gogpu/gg"
)

// CoverWhite is the default covering color, matching the white ground the
// generators paint behind the nuance dots.
var CoverWhite = gg.White

// Canvas is the server-side cover layer over one artwork preview. It starts
// fully transparent; Cover paints every pixel with an opaque covering color,
// and ClearCell punches 1×1 holes that expose the artwork underneath. One
// active Session owns the canvas at a time.
type Canvas struct {
	pix   *gg.Pixmap
	cover gg.RGBA
}

// NewCanvas allocates a w×h cover layer.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		pix:   gg.NewPixmap(w, h),
		cover: CoverWhite,
	}
}

// SetCoverColor changes the covering color used by the next Cover call.
func (c *Canvas) SetCoverColor(col gg.RGBA) { c.cover = col }

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.pix.Width() }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.pix.Height() }

// Cover repaints the whole canvas with the opaque covering color, fully
// occluding the artwork. Synchronous; returns once every pixel is painted.
func (c *Canvas) Cover() {
	c.pix.Clear(c.cover)
}

// ClearCell removes the covering paint from exactly one cell. Out-of-range
// coordinates are ignored by the underlying pixmap.
func (c *Canvas) ClearCell(x, y int) {
	c.pix.SetPixel(x, y, gg.Transparent)
}

// Covered counts the cells still carrying opaque paint. Linear scan, meant
// for tests and diagnostics rather than the frame loop.
func (c *Canvas) Covered() int {
	n := 0
	for y := 0; y < c.pix.Height(); y++ {
		for x := 0; x < c.pix.Width(); x++ {
			if c.pix.GetPixel(x, y).A > 0 {
				n++
			}
		}
	}
	return n
}

// EncodePNG writes the current cover state as a PNG, for observers joining
// after the reveal started.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.pix.ToImage())
}
