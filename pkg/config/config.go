package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cec-protocol/cec-go/pkg/cec"
)

// Config is the full controller configuration.
type Config struct {
	Bridge  BridgeConfig  `yaml:"bridge"`
	Device  DeviceConfig  `yaml:"device"`
	Actions ActionsConfig `yaml:"actions"`
	Log     LogConfig     `yaml:"log"`
}

// BridgeConfig describes the TCP bridge connection.
type BridgeConfig struct {
	// Address is the bridge host:port. Required.
	Address string `yaml:"address"`
	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// DeviceConfig describes the controller's identity on the bus.
type DeviceConfig struct {
	// Source is the logical address transmitted as the source
	// nibble of every outgoing message (0-14).
	Source uint8 `yaml:"source"`
	// OSDName is the name reported to SET_OSD_NAME queries.
	OSDName string `yaml:"osd_name"`
}

// ActionsConfig tunes the feature-action framework.
type ActionsConfig struct {
	// ResponseTimeout is the deadline an action waits for a
	// correlated reply before retrying or giving up.
	ResponseTimeout time.Duration `yaml:"response_timeout"`
}

// LogConfig describes event logging.
type LogConfig struct {
	// Level is the slog level: debug, info, warn or error.
	Level string `yaml:"level"`
	// File, when set, receives the CBOR event stream.
	File string `yaml:"file"`
}

// Default returns the configuration used when no file is given. The
// bridge address is left empty and must come from the caller.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			ConnectTimeout: 10 * time.Second,
		},
		Device: DeviceConfig{
			Source:  uint8(cec.AddrPlayback1),
			OSDName: "CEC Controller",
		},
		Actions: ActionsConfig{
			ResponseTimeout: time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML configuration file. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses YAML configuration data over the defaults.
func LoadBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges. The bridge address is validated
// separately by the caller since it may arrive via a flag.
func (c *Config) Validate() error {
	if cec.LogicalAddress(c.Device.Source).IsBroadcast() || !cec.LogicalAddress(c.Device.Source).IsValid() {
		return fmt.Errorf("device source must be 0-14, got %d", c.Device.Source)
	}
	if c.Bridge.ConnectTimeout <= 0 {
		return fmt.Errorf("bridge connect_timeout must be positive, got %s", c.Bridge.ConnectTimeout)
	}
	if c.Actions.ResponseTimeout <= 0 {
		return fmt.Errorf("actions response_timeout must be positive, got %s", c.Actions.ResponseTimeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Log.Level)
	}
	return nil
}

// SourceAddress returns the device source as a logical address.
func (c *Config) SourceAddress() cec.LogicalAddress {
	return cec.LogicalAddress(c.Device.Source)
}
