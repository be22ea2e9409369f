package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/assembler"
	"github.com/junsooki/pixoo64/internal/config"
	"github.com/junsooki/pixoo64/internal/display"
	"github.com/junsooki/pixoo64/internal/logging"
	"github.com/junsooki/pixoo64/internal/playback"
	"github.com/junsooki/pixoo64/internal/simulator"
	"github.com/junsooki/pixoo64/internal/transport"
)

func main() {
	cfg := config.ParseSimulatorFlags()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("pixoo64 simulator starting",
		zap.String("listen", cfg.Listen),
		zap.Int("scale", cfg.Scale),
		zap.Bool("headless", cfg.Headless),
		zap.String("mqtt", cfg.MQTT.Broker))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stage := assembler.NewStage()
	srv := simulator.NewServer(cfg.Listen, assembler.New(stage, logger), logger)

	if cfg.MQTT.Broker != "" {
		client, err := transport.NewMQTTClient(transport.MQTTOptions{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		})
		if err != nil {
			logger.Fatal("mqtt", zap.Error(err))
		}
		defer client.Disconnect(250)
		if err := srv.Subscribe(client, cfg.MQTT.Topic); err != nil {
			logger.Fatal("mqtt", zap.Error(err))
		}
	}

	var disp display.Display
	if cfg.Headless {
		disp = display.NewHeadless(ctx, logger)
	} else {
		disp = display.NewEbitenDisplay("Pixoo64 Simulator", cfg.Scale)
	}

	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	go playback.NewClock(stage, disp, logger).Run(ctx)

	// Ebitengine RunGame must be on the main goroutine (macOS requirement).
	if err := disp.Run(); err != nil {
		logger.Error("display", zap.Error(err))
	}
	stop()
	logger.Info("shutting down")
}
