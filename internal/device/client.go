package device

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
	"github.com/junsooki/pixoo64/internal/canvas"
	"github.com/junsooki/pixoo64/internal/encoder"
	"github.com/junsooki/pixoo64/internal/protocol"
	"github.com/junsooki/pixoo64/internal/transport"
)

// Client is one controller session with a display device. It owns the
// drawing buffer and the PicID sequence for the session.
type Client struct {
	sender transport.Sender
	buffer *canvas.Buffer
	seq    *encoder.Sequence
	enc    *encoder.Encoder
	logger *zap.Logger
}

// NewClient creates a session. The first PicID used is initialPicID+1.
func NewClient(sender transport.Sender, initialPicID int, logger *zap.Logger) *Client {
	logger = logger.Named("device")
	seq := encoder.NewSequence(initialPicID)
	return &Client{
		sender: sender,
		buffer: canvas.NewBuffer(),
		seq:    seq,
		enc:    encoder.New(sender, seq, logger),
		logger: logger,
	}
}

// Buffer returns the session's drawing buffer.
func (c *Client) Buffer() *canvas.Buffer {
	return c.buffer
}

// Flush sends the buffer as a one-frame animation with the next PicID.
func (c *Client) Flush(ctx context.Context, delayMs int) (int, error) {
	return c.enc.Send(ctx, c.buffer.Animation(delayMs))
}

// FlushWithID sends the buffer as a one-frame animation tagged with id.
func (c *Client) FlushWithID(ctx context.Context, id, delayMs int) error {
	return c.enc.SendWithID(ctx, c.buffer.Animation(delayMs), id)
}

// DisplayAnimation sends a with the next PicID and returns it.
func (c *Client) DisplayAnimation(ctx context.Context, a *anim.Animation) (int, error) {
	return c.enc.Send(ctx, a)
}

// DisplayAnimationWithID sends a tagged with id.
func (c *Client) DisplayAnimationWithID(ctx context.Context, a *anim.Animation, id int) error {
	return c.enc.SendWithID(ctx, a, id)
}

func (c *Client) command(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	c.logger.Debug("sending command", zap.String("command", req.CommandName()))
	resp, err := c.sender.Send(ctx, req)
	if err != nil {
		return resp, fmt.Errorf("%s: %w", req.CommandName(), err)
	}
	return resp, nil
}
