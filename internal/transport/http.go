package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/protocol"
)

// HTTP posts JSON requests to the device's /post endpoint.
type HTTP struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTP creates an HTTP transport for a base URL such as "http://192.168.1.130:80".
// Requests carry no timeout; a stalled device blocks the caller.
func NewHTTP(baseURL string, logger *zap.Logger) *HTTP {
	return &HTTP{
		url:    strings.TrimRight(baseURL, "/") + "/post",
		client: &http.Client{},
		logger: logger.Named("http"),
	}
}

func (t *HTTP) Send(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("marshal %s: %w", req.CommandName(), err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return protocol.Response{}, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	t.logger.Debug("sending request", zap.String("url", t.url), zap.String("command", req.CommandName()))
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("%w: post %s: %w", ErrTransport, t.url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return protocol.Response{}, fmt.Errorf("%w: %s returned %s", ErrTransport, req.CommandName(), resp.Status)
	}

	var out protocol.Response
	if err := json.Unmarshal(data, &out); err != nil {
		// Some firmware answers with a non-JSON body; a 2xx status is success.
		t.logger.Debug("unparsed response", zap.Int("status", resp.StatusCode), zap.ByteString("body", data))
		return protocol.Response{}, nil
	}
	if !out.OK() {
		return out, fmt.Errorf("%w: %s returned error_code %d", ErrTransport, req.CommandName(), out.ErrorCode)
	}
	return out, nil
}

func (t *HTTP) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
