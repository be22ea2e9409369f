package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/canvas"
	"github.com/junsooki/pixoo64/internal/config"
	"github.com/junsooki/pixoo64/internal/decoder"
	"github.com/junsooki/pixoo64/internal/device"
	"github.com/junsooki/pixoo64/internal/logging"
	"github.com/junsooki/pixoo64/internal/scene"
	"github.com/junsooki/pixoo64/internal/transport"
)

func main() {
	cfg := config.ParseControllerFlags()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("pixoo64 controller starting",
		zap.String("addr", cfg.Address),
		zap.String("transport", cfg.Transport),
		zap.Int("initialPicID", cfg.InitialPicID))

	conn, err := dial(cfg, logger)
	if err != nil {
		logger.Fatal("connect", zap.Error(err))
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, device.NewClient(conn, cfg.InitialPicID, logger), logger); err != nil {
		logger.Error("controller failed", zap.Error(err))
		os.Exit(1)
	}
}

func dial(cfg *config.ControllerConfig, logger *zap.Logger) (transport.Conn, error) {
	switch cfg.Transport {
	case config.TransportWebSocket:
		return transport.DialWebSocket(fmt.Sprintf("ws://%s/ws", cfg.Address), logger)
	case config.TransportMQTT:
		return transport.DialMQTT(transport.MQTTOptions{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topic:    cfg.MQTT.Topic,
		}, logger)
	default:
		return transport.NewHTTP("http://"+cfg.Address, logger), nil
	}
}

func run(ctx context.Context, cfg *config.ControllerConfig, client *device.Client, logger *zap.Logger) error {
	if cfg.Brightness >= 0 {
		if _, err := client.SetBrightness(ctx, cfg.Brightness); err != nil {
			return err
		}
	}

	if cfg.GIF != "" {
		a, err := decoder.LoadGIF(cfg.GIF)
		if err != nil {
			return fmt.Errorf("load %s: %w", cfg.GIF, err)
		}
		id, err := client.DisplayAnimation(ctx, a)
		if err != nil {
			return err
		}
		logger.Info("gif displayed", zap.String("file", cfg.GIF), zap.Int("frames", a.Len()), zap.Int("picID", id))
	}

	if cfg.Scene != "" {
		s, err := scene.Lookup(cfg.Scene)
		if err != nil {
			return err
		}
		if err := s.Play(ctx, client, cfg.FrameDelay, logger); err != nil {
			return err
		}
	}

	if cfg.Text != "" {
		color, err := canvas.ParseColor(cfg.TextColor)
		if err != nil {
			return fmt.Errorf("text color: %w", err)
		}
		if _, err := client.DisplayText(ctx, cfg.Text, color); err != nil {
			return err
		}
	}
	return nil
}
