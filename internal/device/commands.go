package device

import (
	"context"

	"github.com/junsooki/pixoo64/internal/canvas"
	"github.com/junsooki/pixoo64/internal/protocol"
)

// Stateless device commands. Each is a single request with no effect on the session.

func (c *Client) Reboot(ctx context.Context) (protocol.Response, error) {
	return c.command(ctx, protocol.NewReboot())
}

// SetBrightness clamps brightness to 0-100.
func (c *Client) SetBrightness(ctx context.Context, brightness int) (protocol.Response, error) {
	return c.command(ctx, protocol.NewSetBrightness(brightness))
}

// DisplayText scrolls text in the given color.
func (c *Client) DisplayText(ctx context.Context, text string, color canvas.Color) (protocol.Response, error) {
	return c.command(ctx, protocol.NewSendText(text, color.Hex()))
}

func (c *Client) SetScoreBoard(ctx context.Context, blue, red int) (protocol.Response, error) {
	return c.command(ctx, protocol.NewSetScoreBoard(blue, red))
}

// PlayBuzzer times are in milliseconds.
func (c *Client) PlayBuzzer(ctx context.Context, active, off, total int) (protocol.Response, error) {
	return c.command(ctx, protocol.NewPlayBuzzer(active, off, total))
}

// SetTimer starts (protocol.TimerStart) or stops (protocol.TimerStop) the countdown.
func (c *Client) SetTimer(ctx context.Context, minutes, seconds, status int) (protocol.Response, error) {
	return c.command(ctx, protocol.NewSetTimer(minutes, seconds, status))
}
