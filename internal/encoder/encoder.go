package encoder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
	"github.com/junsooki/pixoo64/internal/protocol"
	"github.com/junsooki/pixoo64/internal/transport"
)

// Encode splits an animation into frame messages tagged with id. At most
// anim.MaxFrames messages are produced; extra frames are dropped.
func Encode(a *anim.Animation, id int) ([]protocol.SendGif, error) {
	if a == nil || a.Len() == 0 {
		return nil, anim.ErrEmptyAnimation
	}

	n := min(a.Len(), anim.MaxFrames)
	msgs := make([]protocol.SendGif, n)
	for i := 0; i < n; i++ {
		msgs[i] = protocol.NewSendGif(id, n, a.Width(), i, a.DelayMs(), a.Frame(i))
	}
	return msgs, nil
}

// Encoder sends animations to a device one frame message at a time.
type Encoder struct {
	sender transport.Sender
	seq    *Sequence
	logger *zap.Logger
}

// New creates an Encoder. IDs for Send come from seq.
func New(sender transport.Sender, seq *Sequence, logger *zap.Logger) *Encoder {
	return &Encoder{
		sender: sender,
		seq:    seq,
		logger: logger.Named("encoder"),
	}
}

// Send transmits a with the next PicID from the sequence and returns that ID.
func (e *Encoder) Send(ctx context.Context, a *anim.Animation) (int, error) {
	if a == nil || a.Len() == 0 {
		return 0, anim.ErrEmptyAnimation
	}
	id := e.seq.Next()
	return id, e.SendWithID(ctx, a, id)
}

// SendWithID transmits a tagged with a caller-chosen PicID. Each message must
// be acknowledged before the next is sent; the first failure stops the
// transfer and is returned. Frames already sent are not recalled.
func (e *Encoder) SendWithID(ctx context.Context, a *anim.Animation, id int) error {
	msgs, err := Encode(a, id)
	if err != nil {
		return err
	}

	for _, m := range msgs {
		if _, err := e.sender.Send(ctx, m); err != nil {
			return fmt.Errorf("send frame %d/%d of pic %d: %w", m.PicOffset+1, m.PicNum, id, err)
		}
		e.logger.Debug("frame sent",
			zap.Int("picID", id),
			zap.Int("offset", m.PicOffset),
			zap.Int("total", m.PicNum))
	}
	e.logger.Info("animation sent", zap.Int("picID", id), zap.Int("frames", len(msgs)))
	return nil
}
