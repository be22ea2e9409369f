package display

import (
	"image"

	"github.com/junsooki/pixoo64/internal/anim"
)

// Display shows frames handed to it by the playback clock until the user
// closes it or its context ends.
type Display interface {
	Run() error
	Render(frame anim.Frame, width int)
	// CurrentFrame returns the last rendered frame, or nil.
	CurrentFrame() *image.RGBA
}

var (
	_ Display = (*EbitenDisplay)(nil)
	_ Display = (*Headless)(nil)
)
