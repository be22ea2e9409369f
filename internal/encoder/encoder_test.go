package encoder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
	"github.com/junsooki/pixoo64/internal/protocol"
	"github.com/junsooki/pixoo64/internal/transport"
)

// recorder is a transport.Sender that keeps every frame message it receives.
type recorder struct {
	mu          sync.Mutex
	sent        []protocol.SendGif
	inFlight    int
	maxInFlight int
	failAt      int // offset that fails, -1 for none
}

func newRecorder() *recorder {
	return &recorder{failAt: -1}
}

func (r *recorder) Send(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	r.mu.Lock()
	r.inFlight++
	r.maxInFlight = max(r.maxInFlight, r.inFlight)
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.inFlight--
		r.mu.Unlock()
	}()

	m := req.(protocol.SendGif)
	if m.PicOffset == r.failAt {
		return protocol.Response{}, fmt.Errorf("%w: connection reset", transport.ErrTransport)
	}
	r.mu.Lock()
	r.sent = append(r.sent, m)
	r.mu.Unlock()
	return protocol.Response{}, nil
}

func testAnimation(t *testing.T, n int) *anim.Animation {
	t.Helper()
	frames := make([]anim.Frame, n)
	for i := range frames {
		frames[i] = make(anim.Frame, anim.FrameSize(anim.Width))
		frames[i][0] = byte(i)
	}
	a, err := anim.New(frames, 80, anim.Width)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestEncodeCapsAtMaxFrames(t *testing.T) {
	msgs, err := Encode(testAnimation(t, 61), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 60 {
		t.Fatalf("got %d messages, want 60", len(msgs))
	}
	for i, m := range msgs {
		if m.PicNum != 60 || m.PicOffset != i || m.PicID != 7 || m.PicWidth != 64 || m.PicSpeed != 80 {
			t.Fatalf("message %d = %+v", i, m)
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	if _, err := Encode(nil, 1); !errors.Is(err, anim.ErrEmptyAnimation) {
		t.Fatalf("Encode(nil) error = %v, want ErrEmptyAnimation", err)
	}
}

func TestSendInOrder(t *testing.T) {
	rec := newRecorder()
	enc := New(rec, NewSequence(400), zap.NewNop())

	id, err := enc.Send(context.Background(), testAnimation(t, 3))
	if err != nil {
		t.Fatal(err)
	}
	if id != 401 {
		t.Fatalf("id = %d, want 401", id)
	}
	if len(rec.sent) != 3 {
		t.Fatalf("sent %d messages, want 3", len(rec.sent))
	}
	for i, m := range rec.sent {
		if m.PicOffset != i || m.PicID != 401 || m.PicNum != 3 {
			t.Fatalf("message %d = %+v", i, m)
		}
		f, err := m.Frame()
		if err != nil {
			t.Fatal(err)
		}
		if f[0] != byte(i) {
			t.Fatalf("message %d carries frame %d", i, f[0])
		}
	}
	if rec.maxInFlight != 1 {
		t.Fatalf("%d messages were in flight at once", rec.maxInFlight)
	}

	id, err = enc.Send(context.Background(), testAnimation(t, 1))
	if err != nil {
		t.Fatal(err)
	}
	if id != 402 {
		t.Fatalf("second id = %d, want 402", id)
	}
}

func TestSendStopsOnTransportFailure(t *testing.T) {
	rec := newRecorder()
	rec.failAt = 2
	enc := New(rec, NewSequence(0), zap.NewNop())

	err := enc.SendWithID(context.Background(), testAnimation(t, 5), 9)
	if !errors.Is(err, transport.ErrTransport) {
		t.Fatalf("SendWithID() error = %v, want ErrTransport", err)
	}
	if len(rec.sent) != 2 {
		t.Fatalf("sent %d messages before failure, want 2", len(rec.sent))
	}
}

func TestSendEmptyDoesNotConsumeID(t *testing.T) {
	seq := NewSequence(10)
	enc := New(newRecorder(), seq, zap.NewNop())
	if _, err := enc.Send(context.Background(), nil); !errors.Is(err, anim.ErrEmptyAnimation) {
		t.Fatalf("Send(nil) error = %v", err)
	}
	if id := seq.Next(); id != 11 {
		t.Fatalf("Next() = %d, want 11", id)
	}
}

func TestSequenceConcurrent(t *testing.T) {
	seq := NewSequence(0)
	var wg sync.WaitGroup
	ids := make(chan int, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- seq.Next()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d handed out twice", id)
		}
		seen[id] = true
	}
	if len(seen) != 100 {
		t.Fatalf("got %d distinct ids", len(seen))
	}
}
