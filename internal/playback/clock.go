package playback

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
	"github.com/junsooki/pixoo64/internal/assembler"
)

// DefaultInterval is the poll cadence of the render tick.
const DefaultInterval = time.Second / 60

// Renderer shows one frame.
type Renderer interface {
	Render(frame anim.Frame, width int)
}

// Clock polls the stage at a fixed interval and renders the current frame
// whenever the animation's frame delay has elapsed since the last advance.
type Clock struct {
	stage    *assembler.Stage
	renderer Renderer
	interval time.Duration
	logger   *zap.Logger

	last time.Time
}

// NewClock creates a Clock polling at DefaultInterval.
func NewClock(stage *assembler.Stage, renderer Renderer, logger *zap.Logger) *Clock {
	return &Clock{
		stage:    stage,
		renderer: renderer,
		interval: DefaultInterval,
		logger:   logger.Named("playback"),
	}
}

// SetInterval changes the poll cadence. Call before Run.
func (c *Clock) SetInterval(d time.Duration) {
	if d > 0 {
		c.interval = d
	}
}

// Run ticks until ctx is cancelled.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.last = time.Now()
	c.logger.Info("playback started", zap.Duration("interval", c.interval))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("playback stopped")
			return ctx.Err()
		case now := <-ticker.C:
			c.Tick(now)
		}
	}
}

// Tick renders and advances if a frame is due at now. It reports whether a
// frame was rendered. Tick must not be called concurrently with itself.
func (c *Clock) Tick(now time.Time) bool {
	p := c.stage.Load()

	delay := time.Duration(anim.DefaultDelay) * time.Millisecond
	if p != nil {
		delay = p.Animation().Delay()
	}
	if now.Sub(c.last) < delay {
		return false
	}
	c.last = now

	if p == nil {
		return false
	}
	c.renderer.Render(p.Frame(), p.Animation().Width())
	if !c.stage.Advance(p) {
		c.logger.Debug("advance superseded by publish", zap.Int("picID", p.PicID()))
	}
	return true
}
