package canvas

import (
	"errors"
	"fmt"

	"github.com/junsooki/pixoo64/internal/anim"
)

// ErrOutOfBounds is returned when a direct pixel access falls outside the grid.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Buffer is a fixed-size square grid of RGB pixels, stored row-major.
// It is not safe for concurrent writers.
type Buffer struct {
	width int
	pix   []uint8 // RGB, 3 bytes per pixel
}

// NewBuffer creates a black buffer of the device width.
func NewBuffer() *Buffer {
	return NewBufferSize(anim.Width)
}

// NewBufferSize creates a black buffer of the given width. Widths below 1 are raised to 1.
func NewBufferSize(width int) *Buffer {
	if width < 1 {
		width = 1
	}
	return &Buffer{
		width: width,
		pix:   make([]uint8, anim.FrameSize(width)),
	}
}

// Width returns the side length of the grid.
func (b *Buffer) Width() int {
	return b.width
}

// SetPixel writes one pixel. Coordinates outside [0, Width) are rejected.
func (b *Buffer) SetPixel(x, y int, c Color) error {
	if !b.inBounds(x, y) {
		return fmt.Errorf("set pixel (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	b.put(x, y, c)
	return nil
}

// At reads one pixel with the same bounds rule as SetPixel.
func (b *Buffer) At(x, y int) (Color, error) {
	if !b.inBounds(x, y) {
		return Color{}, fmt.Errorf("read pixel (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	i := b.offset(x, y)
	return Color{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2]}, nil
}

// Clear fills every pixel with c.
func (b *Buffer) Clear(c Color) {
	for i := 0; i < len(b.pix); i += 3 {
		b.pix[i] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
	}
}

// Snapshot copies the grid into a frame.
func (b *Buffer) Snapshot() anim.Frame {
	f := make(anim.Frame, len(b.pix))
	copy(f, b.pix)
	return f
}

// Animation wraps a snapshot of the buffer into a one-frame animation.
func (b *Buffer) Animation(delayMs int) *anim.Animation {
	a, err := anim.New([]anim.Frame{b.Snapshot()}, delayMs, b.width)
	if err != nil {
		// A snapshot always has the right size.
		panic(err)
	}
	return a
}

// plot is the clipping write used by the rasterizer.
func (b *Buffer) plot(x, y int, c Color) {
	if b.inBounds(x, y) {
		b.put(x, y, c)
	}
}

func (b *Buffer) put(x, y int, c Color) {
	i := b.offset(x, y)
	b.pix[i] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.width + x) * 3
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.width
}
