package decoder

import (
	"io"

	"github.com/junsooki/pixoo64/internal/anim"
)

// Decoder decodes an image stream into an animation.
type Decoder interface {
	Decode(r io.Reader) (*anim.Animation, error)
}
