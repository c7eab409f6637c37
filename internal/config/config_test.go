package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zedf9r.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  broker: tcp://broker.local:1883
  topic_fix: vehicle/gnss
receiver:
  transport: i2c
  i2c_bus: "1"
  i2c_addr: 0x42
  count_lsb_first: true
  max_chunk: 64
  poll_interval_ms: 10
pipeline:
  verify_checksum: true
  drop_filler: true
  fixed_zone: 52
  rollover_tag: GGA
web:
  port: 9090
display:
  i2c_bus: "2"
  update_interval_ms: 500
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://broker.local:1883" {
		t.Errorf("broker = %q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.TopicFix != "vehicle/gnss" {
		t.Errorf("topic = %q", cfg.MQTT.TopicFix)
	}
	if cfg.Receiver.I2CAddr != 0x42 || !cfg.Receiver.CountLSBFirst {
		t.Errorf("receiver = %+v", cfg.Receiver)
	}
	if cfg.Receiver.MaxChunk != 64 || cfg.Receiver.PollIntervalMS != 10 {
		t.Errorf("receiver = %+v", cfg.Receiver)
	}
	if !cfg.Pipeline.VerifyChecksum || cfg.Pipeline.FixedZone != 52 {
		t.Errorf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Web.Port != 9090 || cfg.Display.UpdateIntervalMS != 500 {
		t.Errorf("web = %+v, display = %+v", cfg.Web, cfg.Display)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  broker: tcp://localhost:1883
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTT.TopicFix != "gnss/fix" {
		t.Errorf("default topic = %q", cfg.MQTT.TopicFix)
	}
	if cfg.MQTT.ClientIDProducer == "" || cfg.MQTT.ClientIDWeb == "" {
		t.Errorf("client ids must default: %+v", cfg.MQTT)
	}
	if cfg.Receiver.Transport != "i2c" {
		t.Errorf("default transport = %q", cfg.Receiver.Transport)
	}
	if cfg.Receiver.MaxChunk != 32 || cfg.Receiver.PollIntervalMS != 5 {
		t.Errorf("receiver defaults = %+v", cfg.Receiver)
	}
	if cfg.Receiver.BaudRate != 9600 {
		t.Errorf("default baud = %d", cfg.Receiver.BaudRate)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("default web port = %d", cfg.Web.Port)
	}
	if cfg.Display.UpdateIntervalMS != 250 {
		t.Errorf("default display interval = %d", cfg.Display.UpdateIntervalMS)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{
			name: "missing broker",
			body: "receiver:\n  transport: i2c\n",
		},
		{
			name: "unknown transport",
			body: "mqtt:\n  broker: tcp://localhost:1883\nreceiver:\n  transport: spi\n",
		},
		{
			name: "serial without port",
			body: "mqtt:\n  broker: tcp://localhost:1883\nreceiver:\n  transport: serial\n",
		},
		{
			name: "zone out of range",
			body: "mqtt:\n  broker: tcp://localhost:1883\npipeline:\n  fixed_zone: 61\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "mqtt: [broker\n")); err == nil {
		t.Error("expected a parse error")
	}
}
