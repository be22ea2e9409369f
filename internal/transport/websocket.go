package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/protocol"
)

const pingPeriod = 25 * time.Second

var errClosed = errors.New("connection closed")

// WebSocket keeps one connection open to a simulator's /ws endpoint. Each
// request is answered by exactly one Response; only one exchange is in flight.
// A Send abandoned through its context closes the connection.
type WebSocket struct {
	url    string
	logger *zap.Logger

	conn    *websocket.Conn
	mu      sync.Mutex // serializes exchanges
	replies chan protocol.Response

	closeMu sync.Mutex
	done    chan struct{}
	closed  bool
	readErr error
}

// DialWebSocket connects and starts the read and ping loops.
func DialWebSocket(url string, logger *zap.Logger) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: websocket dial: %w", ErrTransport, err)
	}

	w := &WebSocket{
		url:     url,
		logger:  logger.Named("websocket"),
		conn:    conn,
		replies: make(chan protocol.Response, 1),
		done:    make(chan struct{}),
	}
	go w.readLoop()
	go w.pingLoop()
	return w, nil
}

func (w *WebSocket) Send(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return protocol.Response{}, fmt.Errorf("%w: %s: %w", ErrTransport, req.CommandName(), w.err())
	default:
	}

	if err := w.conn.WriteJSON(req); err != nil {
		return protocol.Response{}, fmt.Errorf("%w: write %s: %w", ErrTransport, req.CommandName(), err)
	}

	select {
	case resp := <-w.replies:
		if !resp.OK() {
			return resp, fmt.Errorf("%w: %s returned error_code %d", ErrTransport, req.CommandName(), resp.ErrorCode)
		}
		return resp, nil
	case <-w.done:
		return protocol.Response{}, fmt.Errorf("%w: %s: %w", ErrTransport, req.CommandName(), w.err())
	case <-ctx.Done():
		// Replies carry no request id, so a late reply would be taken as the
		// answer to the next request. The connection is unusable from here.
		w.logger.Warn("exchange abandoned, closing connection", zap.String("command", req.CommandName()))
		w.Close()
		return protocol.Response{}, fmt.Errorf("%w: %s: %w", ErrTransport, req.CommandName(), ctx.Err())
	}
}

// Close shuts down the connection.
func (w *WebSocket) Close() error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.conn.Close()
}

func (w *WebSocket) err() error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.readErr != nil {
		return w.readErr
	}
	return errClosed
}

func (w *WebSocket) readLoop() {
	defer w.Close()
	for {
		var resp protocol.Response
		if err := w.conn.ReadJSON(&resp); err != nil {
			select {
			case <-w.done:
			default:
				w.logger.Warn("websocket read error", zap.String("url", w.url), zap.Error(err))
				w.closeMu.Lock()
				w.readErr = err
				w.closeMu.Unlock()
			}
			return
		}
		select {
		case w.replies <- resp:
		default:
			w.logger.Warn("unexpected reply dropped", zap.Int("error_code", resp.ErrorCode))
		}
	}
}

func (w *WebSocket) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			_ = w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		}
	}
}
