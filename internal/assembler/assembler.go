package assembler

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
	"github.com/junsooki/pixoo64/internal/protocol"
)

var (
	// ErrMalformedPayload covers bad headers, bad base64 and wrong frame sizes.
	ErrMalformedPayload = errors.New("malformed frame payload")
	// ErrForeignMessage is a non-zero offset for a transfer other than the one in progress.
	ErrForeignMessage = errors.New("message does not belong to the current transfer")
	// ErrNotReceiving is a non-zero offset arriving with no transfer in progress.
	ErrNotReceiving = errors.New("no transfer in progress")
)

// State is the reassembler's position in a transfer.
type State int

const (
	Idle State = iota
	Receiving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Receiving:
		return "receiving"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Assembler rebuilds animations from frame messages and publishes each
// completed one to a Stage. Frames are slotted by offset, so a transfer
// completes once every offset 0..PicNum-1 has arrived. An offset 0 always
// starts over. Rejected messages leave both the transfer and the Stage as
// they were. Safe for concurrent use.
type Assembler struct {
	stage  *Stage
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	picID    int
	total    int
	width    int
	delay    int
	frames   []anim.Frame
	received int
}

func New(stage *Stage, logger *zap.Logger) *Assembler {
	return &Assembler{
		stage:  stage,
		logger: logger.Named("assembler"),
	}
}

// State returns the current state.
func (a *Assembler) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Handle consumes one frame message. It returns the animation it published,
// if this message completed one.
func (a *Assembler) Handle(m protocol.SendGif) (*Published, error) {
	frame, err := validate(m)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if m.PicOffset == 0 {
		a.start(m)
	} else {
		switch {
		case a.state != Receiving:
			return nil, fmt.Errorf("pic %d offset %d: %w", m.PicID, m.PicOffset, ErrNotReceiving)
		case m.PicID != a.picID || m.PicNum != a.total || m.PicWidth != a.width:
			return nil, fmt.Errorf("pic %d offset %d during pic %d: %w", m.PicID, m.PicOffset, a.picID, ErrForeignMessage)
		}
	}

	if a.frames[m.PicOffset] == nil {
		a.received++
	}
	a.frames[m.PicOffset] = frame
	a.logger.Debug("frame received",
		zap.Int("picID", m.PicID),
		zap.Int("offset", m.PicOffset),
		zap.Int("total", m.PicNum))

	if a.received < a.total {
		return nil, nil
	}
	return a.finish()
}

func (a *Assembler) start(m protocol.SendGif) {
	if a.state == Receiving {
		a.logger.Debug("incomplete transfer dropped",
			zap.Int("picID", a.picID),
			zap.Int("received", a.received),
			zap.Int("total", a.total))
	}
	a.state = Receiving
	a.picID = m.PicID
	a.total = m.PicNum
	a.width = m.PicWidth
	a.delay = m.PicSpeed
	a.frames = make([]anim.Frame, m.PicNum)
	a.received = 0
}

func (a *Assembler) finish() (*Published, error) {
	defer a.reset()

	an, err := anim.New(a.frames, a.delay, a.width)
	if err != nil {
		// validate already checked every frame; this is unreachable.
		return nil, fmt.Errorf("pic %d: %w: %w", a.picID, ErrMalformedPayload, err)
	}
	p := a.stage.Publish(an, a.picID)
	a.logger.Info("animation published", zap.Int("picID", a.picID), zap.Int("frames", an.Len()))
	return p, nil
}

func (a *Assembler) reset() {
	a.state = Idle
	a.frames = nil
	a.received = 0
}

func validate(m protocol.SendGif) (anim.Frame, error) {
	switch {
	case m.PicNum < 1 || m.PicNum > anim.MaxFrames:
		return nil, fmt.Errorf("pic %d: PicNum %d: %w", m.PicID, m.PicNum, ErrMalformedPayload)
	case m.PicOffset < 0 || m.PicOffset >= m.PicNum:
		return nil, fmt.Errorf("pic %d: PicOffset %d of %d: %w", m.PicID, m.PicOffset, m.PicNum, ErrMalformedPayload)
	case m.PicWidth < 1 || m.PicWidth > anim.Width:
		return nil, fmt.Errorf("pic %d: PicWidth %d: %w", m.PicID, m.PicWidth, ErrMalformedPayload)
	}

	frame, err := m.Frame()
	if err != nil {
		return nil, fmt.Errorf("pic %d offset %d: %w: %w", m.PicID, m.PicOffset, ErrMalformedPayload, err)
	}
	if want := anim.FrameSize(m.PicWidth); len(frame) != want {
		return nil, fmt.Errorf("pic %d offset %d: %d bytes, want %d: %w",
			m.PicID, m.PicOffset, len(frame), want, ErrMalformedPayload)
	}
	return frame, nil
}
