package decoder

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/junsooki/pixoo64/internal/anim"
)

// GIFDecoder decodes animated GIFs, compositing each frame over the previous
// ones and resampling the result to a square of the target width.
type GIFDecoder struct {
	width int
}

func NewGIFDecoder(width int) *GIFDecoder {
	if width < 1 {
		width = anim.Width
	}
	return &GIFDecoder{width: width}
}

// LoadGIF decodes the GIF file at path at the device width.
func LoadGIF(path string) (*anim.Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewGIFDecoder(anim.Width).Decode(f)
}

// Decode uses the first frame's delay for the whole animation.
func (d *GIFDecoder) Decode(r io.Reader) (*anim.Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, anim.ErrEmptyAnimation
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	composite := image.NewRGBA(bounds)
	scaled := image.NewRGBA(image.Rect(0, 0, d.width, d.width))

	frames := make([]anim.Frame, 0, len(g.Image))
	for i, src := range g.Image {
		var saved *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Draw(saved, bounds, composite, bounds.Min, draw.Src)
		}

		draw.Draw(composite, src.Bounds(), src, src.Bounds().Min, draw.Over)
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), composite, bounds, draw.Src, nil)
		frames = append(frames, rgbFrame(scaled))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(composite, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			composite = saved
		}
	}

	delay := anim.DefaultDelay
	if len(g.Delay) > 0 && g.Delay[0] > 0 {
		delay = g.Delay[0] * 10
	}
	return anim.New(frames, delay, d.width)
}

// rgbFrame drops the alpha channel, which the device does not have.
func rgbFrame(img *image.RGBA) anim.Frame {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	f := make(anim.Frame, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			f = append(f, row[x], row[x+1], row[x+2])
		}
	}
	return f
}
