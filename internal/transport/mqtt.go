package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/protocol"
)

// MQTTOptions configures a broker connection.
type MQTTOptions struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// NewMQTTClient builds and connects a paho client.
func NewMQTTClient(o MQTTOptions) (mqtt.Client, error) {
	options := mqtt.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second)
	client := mqtt.NewClient(options)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("%w: mqtt connect %s: %w", ErrTransport, o.Broker, token.Error())
	}
	return client, nil
}

// MQTT publishes requests to a topic. The broker's acknowledgement completes
// the exchange; the device never answers, so every Response is zero.
type MQTT struct {
	client mqtt.Client
	topic  string
	logger *zap.Logger
}

// NewMQTT wraps a connected client.
func NewMQTT(client mqtt.Client, topic string, logger *zap.Logger) *MQTT {
	return &MQTT{
		client: client,
		topic:  topic,
		logger: logger.Named("mqtt"),
	}
}

// DialMQTT connects to the broker and returns a publishing transport.
func DialMQTT(o MQTTOptions, logger *zap.Logger) (*MQTT, error) {
	client, err := NewMQTTClient(o)
	if err != nil {
		return nil, err
	}
	return NewMQTT(client, o.Topic, logger), nil
}

func (t *MQTT) Send(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Response{}, fmt.Errorf("%w: %s: %w", ErrTransport, req.CommandName(), err)
	}
	data, err := json.Marshal(req)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("marshal %s: %w", req.CommandName(), err)
	}

	t.logger.Debug("publishing", zap.String("topic", t.topic), zap.String("command", req.CommandName()))
	token := t.client.Publish(t.topic, 1, false, data)
	token.Wait()
	if err := token.Error(); err != nil {
		return protocol.Response{}, fmt.Errorf("%w: publish %s: %w", ErrTransport, t.topic, err)
	}
	return protocol.Response{}, nil
}

func (t *MQTT) Close() error {
	t.client.Disconnect(250)
	return nil
}
