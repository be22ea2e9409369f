package anim

import (
	"errors"
	"fmt"
	"image"
	"time"
)

const (
	// Width is the side length of the device canvas in pixels.
	Width = 64
	// MaxFrames is the most frames the device accepts in one animation.
	MaxFrames = 60
	// DefaultDelay is the frame delay in milliseconds used when none is given.
	DefaultDelay = 100
)

var (
	ErrEmptyAnimation = errors.New("animation has no frames")
	ErrFrameSize      = errors.New("frame size does not match width")
)

// FrameSize returns the byte length of an RGB frame of the given width.
func FrameSize(width int) int {
	return width * width * 3
}

// Frame is one row-major RGB snapshot of the canvas.
type Frame []byte

// Image converts the frame to an *image.RGBA of the given width.
func (f Frame) Image(width int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, width))
	n := min(len(f)/3, width*width)
	for i := 0; i < n; i++ {
		img.Pix[i*4] = f[i*3]
		img.Pix[i*4+1] = f[i*3+1]
		img.Pix[i*4+2] = f[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// Animation is an immutable ordered sequence of frames played at a fixed delay.
type Animation struct {
	frames []Frame
	delay  int
	width  int
}

// New validates and copies frames into an Animation. A non-positive delay
// falls back to DefaultDelay.
func New(frames []Frame, delayMs, width int) (*Animation, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyAnimation
	}
	if width <= 0 || width > Width {
		return nil, fmt.Errorf("width %d outside 1..%d: %w", width, Width, ErrFrameSize)
	}
	if delayMs <= 0 {
		delayMs = DefaultDelay
	}

	size := FrameSize(width)
	a := &Animation{
		frames: make([]Frame, len(frames)),
		delay:  delayMs,
		width:  width,
	}
	for i, f := range frames {
		if len(f) != size {
			return nil, fmt.Errorf("frame %d has %d bytes, want %d: %w", i, len(f), size, ErrFrameSize)
		}
		a.frames[i] = append(Frame(nil), f...)
	}
	return a, nil
}

// Len returns the number of frames.
func (a *Animation) Len() int {
	return len(a.frames)
}

// Frame returns frame i. The returned slice must not be modified.
func (a *Animation) Frame(i int) Frame {
	return a.frames[i]
}

// DelayMs returns the frame delay in milliseconds.
func (a *Animation) DelayMs() int {
	return a.delay
}

// Delay returns the frame delay as a duration.
func (a *Animation) Delay() time.Duration {
	return time.Duration(a.delay) * time.Millisecond
}

// Width returns the frame width in pixels.
func (a *Animation) Width() int {
	return a.width
}
