package scene

import (
	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/junsooki/pixoo64/internal/anim"
	"github.com/junsooki/pixoo64/internal/canvas"
)

const (
	pulseFrames = 24
	pulseFloor  = 0.2
)

// PulseAnimation fades the buffer's picture down to pulseFloor brightness and
// back up over one loop, easing in and out.
func PulseAnimation(b *canvas.Buffer, delayMs int) (*anim.Animation, error) {
	src := b.Snapshot()
	lut := pulseLut(pulseFrames)

	frames := make([]anim.Frame, len(lut))
	for i, gain := range lut {
		frames[i] = dim(src, gain)
	}
	return anim.New(frames, delayMs, b.Width())
}

// pulseLut returns per-frame brightness: 1 at both ends, pulseFloor at the middle.
func pulseLut(length int) []float64 {
	lut := make([]float64, length)
	half := float64(length / 2)
	for i := range lut {
		t := float64(i) / half
		if t > 1 {
			t = 2 - t
		}
		lut[i] = 1 - (1-pulseFloor)*ease.InOutQuad(t)
	}
	return lut
}

func dim(src anim.Frame, gain float64) anim.Frame {
	black := colorful.Color{}
	out := make(anim.Frame, len(src))
	for i := 0; i < len(src); i += 3 {
		c := canvas.RGB(src[i], src[i+1], src[i+2]).Colorful()
		d := canvas.FromColorful(black.BlendRgb(c, gain))
		out[i], out[i+1], out[i+2] = d.R, d.G, d.B
	}
	return out
}
