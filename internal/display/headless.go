package display

import (
	"context"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
)

// Headless keeps the latest frame without opening a window. Run blocks until
// its context is cancelled.
type Headless struct {
	ctx    context.Context
	logger *zap.Logger

	mu       sync.Mutex
	frame    *image.RGBA
	rendered int
}

func NewHeadless(ctx context.Context, logger *zap.Logger) *Headless {
	return &Headless{ctx: ctx, logger: logger.Named("headless")}
}

func (h *Headless) Render(frame anim.Frame, width int) {
	img := frame.Image(width)
	h.mu.Lock()
	h.frame = img
	h.rendered++
	n := h.rendered
	h.mu.Unlock()
	h.logger.Debug("frame rendered", zap.Int("count", n))
}

func (h *Headless) CurrentFrame() *image.RGBA {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

func (h *Headless) Run() error {
	<-h.ctx.Done()
	return nil
}
