package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Receiver ReceiverConfig `yaml:"receiver"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Web      WebConfig      `yaml:"web"`
	Display  DisplayConfig  `yaml:"display"`
}

type MQTTConfig struct {
	Broker           string `yaml:"broker"`
	ClientIDProducer string `yaml:"client_id_producer"`
	ClientIDConsole  string `yaml:"client_id_console"`
	ClientIDWeb      string `yaml:"client_id_web"`
	ClientIDDisplay  string `yaml:"client_id_display"`
	TopicFix         string `yaml:"topic_fix"`
}

type ReceiverConfig struct {
	// Transport is "i2c" (ZED-F9R DDC port) or "serial".
	Transport string `yaml:"transport"`

	I2CBus        string `yaml:"i2c_bus"`
	I2CAddr       uint16 `yaml:"i2c_addr"`
	CountLSBFirst bool   `yaml:"count_lsb_first"`

	SerialPort string `yaml:"serial_port"`
	BaudRate   uint   `yaml:"baud_rate"`

	// MaxChunk bounds one stream read, in bytes.
	MaxChunk int `yaml:"max_chunk"`
	// PollIntervalMS is the idle sleep between polls, in milliseconds.
	PollIntervalMS int `yaml:"poll_interval_ms"`
}

type PipelineConfig struct {
	VerifyChecksum bool   `yaml:"verify_checksum"`
	DropFiller     bool   `yaml:"drop_filler"`
	SyncOnStart    bool   `yaml:"sync_on_start"`
	MaxLineBytes   int    `yaml:"max_line_bytes"`
	FixedZone      int    `yaml:"fixed_zone"`
	RolloverTag    string `yaml:"rollover_tag"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type DisplayConfig struct {
	I2CBus           string `yaml:"i2c_bus"`
	UpdateIntervalMS int    `yaml:"update_interval_ms"`
}

// Load reads and validates the configuration file.
func Load(configPath string) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MQTT.ClientIDProducer == "" {
		c.MQTT.ClientIDProducer = "zedf9r-gps-producer"
	}
	if c.MQTT.ClientIDConsole == "" {
		c.MQTT.ClientIDConsole = "zedf9r-console-subscriber"
	}
	if c.MQTT.ClientIDWeb == "" {
		c.MQTT.ClientIDWeb = "zedf9r-web-subscriber"
	}
	if c.MQTT.ClientIDDisplay == "" {
		c.MQTT.ClientIDDisplay = "zedf9r-display-subscriber"
	}
	if c.MQTT.TopicFix == "" {
		c.MQTT.TopicFix = "gnss/fix"
	}
	if c.Receiver.Transport == "" {
		c.Receiver.Transport = "i2c"
	}
	if c.Receiver.MaxChunk == 0 {
		c.Receiver.MaxChunk = 32
	}
	if c.Receiver.PollIntervalMS == 0 {
		c.Receiver.PollIntervalMS = 5
	}
	if c.Receiver.BaudRate == 0 {
		c.Receiver.BaudRate = 9600
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}
	if c.Display.UpdateIntervalMS == 0 {
		c.Display.UpdateIntervalMS = 250
	}
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}
	switch c.Receiver.Transport {
	case "i2c":
		// empty i2c_bus selects the first available bus
	case "serial":
		if c.Receiver.SerialPort == "" {
			return fmt.Errorf("receiver.serial_port is required for the serial transport")
		}
	default:
		return fmt.Errorf("receiver.transport must be \"i2c\" or \"serial\", got %q", c.Receiver.Transport)
	}
	if c.Receiver.MaxChunk < 0 {
		return fmt.Errorf("receiver.max_chunk must be positive")
	}
	if c.Pipeline.FixedZone < 0 || c.Pipeline.FixedZone > 60 {
		return fmt.Errorf("pipeline.fixed_zone must be 0 (derive from longitude) or 1..60")
	}
	return nil
}

// Package-level unexported variables for the process-wide config:
// InitGlobal is the only writer, Get the only reader. The sync.Once
// keeps repeated InitGlobal calls from reloading.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// InitGlobal initializes the global configuration from file. Only the
// first call loads; later calls are no-ops.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must have
// been called first, or this returns nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
