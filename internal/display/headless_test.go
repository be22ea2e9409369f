package display

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
)

func TestHeadlessRender(t *testing.T) {
	h := NewHeadless(context.Background(), zap.NewNop())
	if h.CurrentFrame() != nil {
		t.Fatal("frame present before first render")
	}

	f := make(anim.Frame, anim.FrameSize(2))
	f[9], f[10], f[11] = 10, 20, 30
	h.Render(f, 2)

	img := h.CurrentFrame()
	if img == nil || img.Bounds().Dx() != 2 {
		t.Fatalf("CurrentFrame() = %v", img)
	}
	if got := img.RGBAAt(1, 1); got.R != 10 || got.G != 20 || got.B != 30 || got.A != 0xff {
		t.Fatalf("pixel (1,1) = %v", got)
	}
}

func TestHeadlessRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHeadless(ctx, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- h.Run() }()

	select {
	case <-done:
		t.Fatal("Run returned before cancel")
	case <-time.After(20 * time.Millisecond):
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
