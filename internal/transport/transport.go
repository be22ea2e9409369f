package transport

import (
	"context"
	"errors"

	"github.com/junsooki/pixoo64/internal/protocol"
)

// ErrTransport marks a failed exchange with the device. Nothing is retried.
var ErrTransport = errors.New("transport failure")

// Sender delivers one request and waits for the device to answer it.
type Sender interface {
	Send(ctx context.Context, req protocol.Request) (protocol.Response, error)
}

// Conn is a Sender holding resources that must be released.
type Conn interface {
	Sender
	Close() error
}
