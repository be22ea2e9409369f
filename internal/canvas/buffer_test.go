package canvas

import (
	"bytes"
	"errors"
	"testing"
)

func TestSetPixelRoundTrip(t *testing.T) {
	b := NewBuffer()
	for y := 0; y < b.Width(); y++ {
		for x := 0; x < b.Width(); x++ {
			c := RGB(uint8(x*4), uint8(y*4), uint8(x^y))
			if err := b.SetPixel(x, y, c); err != nil {
				t.Fatalf("SetPixel(%d, %d): %v", x, y, err)
			}
			got, err := b.At(x, y)
			if err != nil {
				t.Fatal(err)
			}
			if got != c {
				t.Fatalf("At(%d, %d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestSetPixelOutOfBounds(t *testing.T) {
	b := NewBuffer()
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {64, 0}, {0, 64}, {100, 100}} {
		err := b.SetPixel(p[0], p[1], White)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("SetPixel(%d, %d) error = %v, want ErrOutOfBounds", p[0], p[1], err)
		}
	}
	if !bytes.Equal(b.Snapshot(), NewBuffer().Snapshot()) {
		t.Fatal("rejected write modified the buffer")
	}
}

func TestClearIdempotent(t *testing.T) {
	once := NewBuffer()
	once.Clear(Red)

	twice := NewBuffer()
	twice.Clear(Red)
	twice.Clear(Red)

	if !bytes.Equal(once.Snapshot(), twice.Snapshot()) {
		t.Fatal("clearing twice differs from clearing once")
	}
	c, _ := once.At(63, 63)
	if c != Red {
		t.Fatalf("At(63, 63) = %v, want red", c)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	b := NewBuffer()
	f := b.Snapshot()
	if len(f) != 64*64*3 {
		t.Fatalf("snapshot length = %d", len(f))
	}
	b.Clear(White)
	if f[0] != 0 {
		t.Fatal("snapshot aliases the buffer")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	if err != nil {
		t.Fatal(err)
	}
	if c != RGB(255, 128, 0) {
		t.Fatalf("ParseColor = %v", c)
	}
	if c.Hex() != "#ff8000" {
		t.Fatalf("Hex() = %s", c.Hex())
	}
	if _, err := ParseColor("nope"); err == nil {
		t.Fatal("expected error for invalid color")
	}
}
