package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/anim"
	"github.com/junsooki/pixoo64/internal/assembler"
	"github.com/junsooki/pixoo64/internal/canvas"
	"github.com/junsooki/pixoo64/internal/device"
	"github.com/junsooki/pixoo64/internal/encoder"
	"github.com/junsooki/pixoo64/internal/protocol"
	"github.com/junsooki/pixoo64/internal/transport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*httptest.Server, *assembler.Stage) {
	t.Helper()
	stage := assembler.NewStage()
	s := NewServer("", assembler.New(stage, zap.NewNop()), zap.NewNop())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, stage
}

func threeFrames(t *testing.T) *anim.Animation {
	t.Helper()
	var frames []anim.Frame
	for _, c := range []canvas.Color{canvas.Red, canvas.Green, canvas.Blue} {
		b := canvas.NewBuffer()
		b.Clear(c)
		frames = append(frames, b.Snapshot())
	}
	a, err := anim.New(frames, 120, anim.Width)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func checkPublished(t *testing.T, stage *assembler.Stage, id int, src *anim.Animation) {
	t.Helper()
	p := stage.Load()
	if p == nil {
		t.Fatal("nothing published")
	}
	if p.PicID() != id || p.Index() != 0 || p.Animation().Len() != src.Len() || p.Animation().DelayMs() != src.DelayMs() {
		t.Fatalf("published id=%d index=%d frames=%d delay=%d", p.PicID(), p.Index(), p.Animation().Len(), p.Animation().DelayMs())
	}
	for i := 0; i < src.Len(); i++ {
		if !bytes.Equal(p.Animation().Frame(i), src.Frame(i)) {
			t.Fatalf("frame %d differs", i)
		}
	}
}

func TestHTTPTransfer(t *testing.T) {
	srv, stage := newTestServer(t)
	tr := transport.NewHTTP(srv.URL, zap.NewNop())
	enc := encoder.New(tr, encoder.NewSequence(400), zap.NewNop())

	src := threeFrames(t)
	id, err := enc.Send(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	checkPublished(t, stage, id, src)
}

func TestWebSocketTransfer(t *testing.T) {
	srv, stage := newTestServer(t)
	ws, err := transport.DialWebSocket("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	client := device.NewClient(ws, 0, zap.NewNop())
	src := threeFrames(t)
	if err := client.DisplayAnimationWithID(context.Background(), src, 401); err != nil {
		t.Fatal(err)
	}
	checkPublished(t, stage, 401, src)

	if _, err := client.SetBrightness(context.Background(), 30); err != nil {
		t.Fatalf("SetBrightness over websocket: %v", err)
	}
}

func TestMalformedFrameRejected(t *testing.T) {
	srv, stage := newTestServer(t)
	tr := transport.NewHTTP(srv.URL, zap.NewNop())

	bad := protocol.NewSendGif(1, 1, anim.Width, 0, 100, make(anim.Frame, 12))
	if _, err := tr.Send(context.Background(), bad); !errors.Is(err, transport.ErrTransport) {
		t.Fatalf("Send() error = %v, want ErrTransport", err)
	}
	if stage.Load() != nil {
		t.Fatal("malformed frame was published")
	}
}

func TestPostResponses(t *testing.T) {
	srv, stage := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"brightness", `{"Command":"Channel/SetBrightness","Brightness":50}`, http.StatusOK, `{"error_code":0}`},
		{"unknown command", `{"Command":"Channel/GetAllConf"}`, http.StatusOK, `{"error_code":0}`},
		{"not json", `{`, http.StatusInternalServerError, `{"error_code":1}`},
		{"stray frame", `{"Command":"Draw/SendHttpGif","PicID":1,"PicNum":2,"PicWidth":1,"PicOffset":1,"PicSpeed":100,"PicData":"AAAA"}`, http.StatusInternalServerError, `{"error_code":1}`},
		{"oversized width", `{"Command":"Draw/SendHttpGif","PicID":1,"PicNum":1,"PicWidth":4294967296,"PicOffset":0,"PicSpeed":100,"PicData":""}`, http.StatusInternalServerError, `{"error_code":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/post", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			var buf bytes.Buffer
			buf.ReadFrom(resp.Body)
			if resp.StatusCode != tt.status || strings.TrimSpace(buf.String()) != tt.want {
				t.Fatalf("got %d %s, want %d %s", resp.StatusCode, buf.String(), tt.status, tt.want)
			}
		})
	}
	if stage.Load() != nil {
		t.Fatal("rejected request published an animation")
	}
}

func TestHandleMQTT(t *testing.T) {
	stage := assembler.NewStage()
	s := NewServer("", assembler.New(stage, zap.NewNop()), zap.NewNop())

	msgs, err := encoder.Encode(threeFrames(t), 9)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			t.Fatal(err)
		}
		s.handleMQTT("pixoo/post", data)
	}
	s.handleMQTT("pixoo/post", []byte("garbage"))

	if p := stage.Load(); p == nil || p.PicID() != 9 || p.Animation().Len() != 3 {
		t.Fatal("mqtt transfer not published")
	}
}
