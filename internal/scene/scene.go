package scene

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
	"github.com/junsooki/pixoo64/internal/canvas"
	"github.com/junsooki/pixoo64/internal/device"
)

// A Step draws one picture and holds it on the device for a while.
type Step struct {
	Name string
	Draw func(b *canvas.Buffer) error
	// Animate, when set, turns the drawn buffer into a multi-frame animation
	// instead of flushing a single frame.
	Animate func(b *canvas.Buffer, delayMs int) (*anim.Animation, error)
	Hold    time.Duration
}

// Scene is an ordered list of steps.
type Scene []Step

var scenes = map[string]Scene{
	"pixels":     pixels(),
	"lines":      lines(),
	"circles":    circles(),
	"rectangles": rectangles(),
	"windows":    {{Name: "windows flag", Draw: windowsFlag, Hold: 3 * time.Second}},
	"swiss":      {{Name: "swiss flag", Draw: swissFlag, Hold: 3 * time.Second}},
	"pulse":      {{Name: "pulse", Draw: swissFlag, Animate: PulseAnimation, Hold: 5 * time.Second}},
}

// Lookup returns the named scene.
func Lookup(name string) (Scene, error) {
	s, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %v)", name, Names())
	}
	return s, nil
}

// Names lists the available scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Play draws and sends each step in turn, waiting Hold between steps. It stops
// at the first send error or when ctx is cancelled.
func (s Scene) Play(ctx context.Context, c *device.Client, delayMs int, logger *zap.Logger) error {
	for _, step := range s {
		b := c.Buffer()
		if err := step.Draw(b); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}

		var id int
		var err error
		if step.Animate != nil {
			var a *anim.Animation
			a, err = step.Animate(b, delayMs)
			if err != nil {
				return fmt.Errorf("%s: %w", step.Name, err)
			}
			id, err = c.DisplayAnimation(ctx, a)
		} else {
			id, err = c.Flush(ctx, delayMs)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		logger.Info("step shown", zap.String("step", step.Name), zap.Int("picID", id))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step.Hold):
		}
	}
	return nil
}
