package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// Transport names accepted by the controller.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "ws"
	TransportMQTT      = "mqtt"
)

// MQTTConfig describes a broker connection. An empty Broker disables MQTT.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	ClientID string `yaml:"clientId"`
}

// ControllerConfig holds configuration for the controller binary.
type ControllerConfig struct {
	Address      string     `yaml:"address"`
	Transport    string     `yaml:"transport"`
	InitialPicID int        `yaml:"initialPicId"`
	FrameDelay   int        `yaml:"frameDelay"`
	Brightness   int        `yaml:"brightness"`
	Scene        string     `yaml:"scene"`
	GIF          string     `yaml:"gif"`
	Text         string     `yaml:"text"`
	TextColor    string     `yaml:"textColor"`
	LogLevel     string     `yaml:"logLevel"`
	MQTT         MQTTConfig `yaml:"mqtt"`
}

// ParseControllerFlags parses os.Args for the controller binary, exiting on error.
func ParseControllerFlags() *ControllerConfig {
	cfg, err := ParseControllerArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}

// ParseControllerArgs parses controller flags. Values from -config are
// overridden by flags given explicitly on the command line.
func ParseControllerArgs(args []string) (*ControllerConfig, error) {
	cfg := &ControllerConfig{}
	fs := flag.NewFlagSet("controller", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	fs.StringVar(&cfg.Address, "addr", "localhost:8079", "Device address (host:port)")
	fs.StringVar(&cfg.Transport, "transport", TransportHTTP, "Transport: http, ws or mqtt")
	fs.IntVar(&cfg.InitialPicID, "pic-id", 0, "PicID to count up from")
	fs.IntVar(&cfg.FrameDelay, "delay", 100, "Frame delay in ms for flushed frames")
	fs.IntVar(&cfg.Brightness, "brightness", -1, "Brightness 0-100 (-1 leaves it unchanged)")
	fs.StringVar(&cfg.Scene, "scene", "", "Demo scene to play")
	fs.StringVar(&cfg.GIF, "gif", "", "GIF file to display")
	fs.StringVar(&cfg.Text, "text", "", "Text to display")
	fs.StringVar(&cfg.TextColor, "text-color", "#ffffff", "Text color as #rrggbb")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	bindMQTT(fs, &cfg.MQTT)

	if err := parse(fs, args, configPath, cfg); err != nil {
		return nil, err
	}

	switch cfg.Transport {
	case TransportHTTP, TransportWebSocket:
	case TransportMQTT:
		if cfg.MQTT.Broker == "" {
			return nil, fmt.Errorf("transport mqtt requires -mqtt-broker")
		}
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
	fillClientID(&cfg.MQTT, "pixoo64-controller")
	return cfg, nil
}

// SimulatorConfig holds configuration for the simulator binary.
type SimulatorConfig struct {
	Listen   string     `yaml:"listen"`
	Scale    int        `yaml:"scale"`
	Headless bool       `yaml:"headless"`
	LogLevel string     `yaml:"logLevel"`
	MQTT     MQTTConfig `yaml:"mqtt"`
}

// ParseSimulatorFlags parses os.Args for the simulator binary, exiting on error.
func ParseSimulatorFlags() *SimulatorConfig {
	cfg, err := ParseSimulatorArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}

// ParseSimulatorArgs parses simulator flags the same way as ParseControllerArgs.
func ParseSimulatorArgs(args []string) (*SimulatorConfig, error) {
	cfg := &SimulatorConfig{}
	fs := flag.NewFlagSet("simulator", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	fs.StringVar(&cfg.Listen, "listen", "localhost:8079", "HTTP listen address")
	fs.IntVar(&cfg.Scale, "scale", 8, "Window pixels per device pixel")
	fs.BoolVar(&cfg.Headless, "headless", false, "Run without a window")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	bindMQTT(fs, &cfg.MQTT)

	if err := parse(fs, args, configPath, cfg); err != nil {
		return nil, err
	}
	if cfg.Scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1, got %d", cfg.Scale)
	}
	fillClientID(&cfg.MQTT, "pixoo64-simulator")
	return cfg, nil
}

func bindMQTT(fs *flag.FlagSet, m *MQTTConfig) {
	fs.StringVar(&m.Broker, "mqtt-broker", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	fs.StringVar(&m.Topic, "mqtt-topic", "pixoo64/post", "MQTT topic carrying device requests")
	fs.StringVar(&m.Username, "mqtt-username", "", "MQTT username")
	fs.StringVar(&m.Password, "mqtt-password", "", "MQTT password")
	fs.StringVar(&m.ClientID, "mqtt-client-id", "", "MQTT client ID (auto-generated if empty)")
}

// parse applies flag defaults, then the YAML file, then explicit flags.
func parse(fs *flag.FlagSet, args []string, configPath *string, cfg any) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return nil
	}

	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if err := readFile(*configPath, cfg); err != nil {
		return err
	}
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("reapply -%s: %w", name, err)
		}
	}
	return nil
}

func readFile(path string, cfg any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func fillClientID(m *MQTTConfig, prefix string) {
	if m.ClientID == "" {
		m.ClientID = fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
	}
}
