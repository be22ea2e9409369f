package decoder

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
)

func solidGIF(t *testing.T, delay int, colors ...color.RGBA) *bytes.Buffer {
	t.Helper()
	palette := color.Palette{color.RGBA{0, 0, 0, 255}}
	for _, c := range colors {
		palette = append(palette, c)
	}

	g := &gif.GIF{}
	for i := range colors {
		img := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
		for p := range img.Pix {
			img.Pix[p] = uint8(i + 1)
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestDecodeGIF(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	a, err := NewGIFDecoder(4).Decode(solidGIF(t, 5, red, blue))
	if err != nil {
		t.Fatal(err)
	}

	if a.Len() != 2 || a.Width() != 4 || a.DelayMs() != 50 {
		t.Fatalf("len=%d width=%d delay=%d", a.Len(), a.Width(), a.DelayMs())
	}
	for i, want := range []color.RGBA{red, blue} {
		f := a.Frame(i)
		if len(f) != 4*4*3 {
			t.Fatalf("frame %d has %d bytes", i, len(f))
		}
		for p := 0; p < len(f); p += 3 {
			if f[p] != want.R || f[p+1] != want.G || f[p+2] != want.B {
				t.Fatalf("frame %d pixel %d = %v, want %v", i, p/3, f[p:p+3], want)
			}
		}
	}
}

func TestDecodeGIFDefaultDelay(t *testing.T) {
	a, err := NewGIFDecoder(2).Decode(solidGIF(t, 0, color.RGBA{1, 2, 3, 255}))
	if err != nil {
		t.Fatal(err)
	}
	if a.DelayMs() != 100 {
		t.Fatalf("delay = %d, want 100", a.DelayMs())
	}
}

func TestDecodeGIFInvalid(t *testing.T) {
	if _, err := NewGIFDecoder(4).Decode(bytes.NewReader([]byte("GIF89a nope"))); err == nil {
		t.Fatal("expected error for corrupt gif")
	}
}

func TestLoadGIFMissingFile(t *testing.T) {
	if _, err := LoadGIF("does-not-exist.gif"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
