package reveal

import (
	"bytes"
	"image/png"
	"testing"
)

func TestCanvasCoverAndClear(t *testing.T) {
	c := NewCanvas(16, 16)
	if got := c.Covered(); got != 0 {
		t.Fatalf("fresh canvas covered: got %d, want 0", got)
	}

	c.Cover()
	if got := c.Covered(); got != 256 {
		t.Fatalf("covered after Cover: got %d, want 256", got)
	}

	c.ClearCell(3, 5)
	c.ClearCell(3, 5) // clearing twice is harmless
	c.ClearCell(-1, 0)
	c.ClearCell(16, 16) // out of range ignored
	if got := c.Covered(); got != 255 {
		t.Fatalf("covered after clear: got %d, want 255", got)
	}
}

func TestCanvasEncodePNG(t *testing.T) {
	c := NewCanvas(8, 8)
	c.Cover()
	c.ClearCell(0, 0)

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("bounds: %v", b)
	}

	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0 {
		t.Errorf("cleared cell alpha: got %d, want 0", a)
	}
	_, _, _, a = img.At(7, 7).RGBA()
	if a == 0 {
		t.Error("covered cell lost its paint")
	}
}
