// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
	"time"
)

// helper to build a minimal valid config quickly
func minimal() *Config {
	return &Config{
		Bus: BusConfig{
			Device:            "/dev/ttyS1",
			DeviceCount:       2,
			ChannelsPerDevice: 16,
		},
	}
}

// ---- tests ----

func TestValidate_Minimal(t *testing.T) {
	if err := Validate(minimal()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Topology(t *testing.T) {
	cases := []struct {
		name     string
		devices  int
		channels int
		ok       bool
	}{
		{"smallest", 1, 1, true},
		{"largest", 247, 16, true},
		{"no devices", 0, 16, false},
		{"too many devices", 248, 16, false},
		{"no channels", 2, 0, false},
		{"too many channels", 2, 17, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := minimal()
			cfg.Bus.DeviceCount = tc.devices
			cfg.Bus.ChannelsPerDevice = tc.channels

			err := Validate(cfg)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestValidate_SerialFraming(t *testing.T) {
	cfg := minimal()
	cfg.Bus.Parity = "x"
	cfg.Bus.DataBits = 9
	cfg.Bus.StopBits = 3

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	for _, want := range []string{"parity", "data_bits", "stop_bits"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_MQTTRequiresIdentity(t *testing.T) {
	cfg := minimal()
	cfg.MQTT.Broker = "tcp://localhost:1883"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing product_key/device_name")
	}

	cfg.MQTT.ProductKey = "pk"
	cfg.MQTT.DeviceName = "door/1"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for '/' in device_name")
	}

	cfg.MQTT.DeviceName = "door1"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := minimal()
	cfg.Log.Level = "loud"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for bad log level")
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := minimal()
	_ = Validate(cfg)
	if cfg.Bus.BaudRate != 0 || cfg.Timing.SettleMs != nil {
		t.Fatalf("Validate mutated config: %+v", cfg)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := minimal()
	cfg.Bus.Parity = "e"
	Normalize(cfg)

	if cfg.Bus.BaudRate != 9600 || cfg.Bus.DataBits != 8 || cfg.Bus.StopBits != 1 {
		t.Fatalf("serial defaults not applied: %+v", cfg.Bus)
	}
	if cfg.Bus.Parity != "E" {
		t.Fatalf("parity=%q want E", cfg.Bus.Parity)
	}
	if cfg.Timing.QueueTimeoutMs != 200 || cfg.Timing.QueueDepth != 16 || cfg.Timing.MessageSize != 256 {
		t.Fatalf("queue defaults not applied: %+v", cfg.Timing)
	}
	if cfg.Timing.SettleMs == nil || *cfg.Timing.SettleMs != 1000 {
		t.Fatalf("settle default not applied")
	}
	if Ms(cfg.Timing.PerDoorTimeoutMs) != time.Second {
		t.Fatalf("per-door timeout=%v want 1s", Ms(cfg.Timing.PerDoorTimeoutMs))
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level=%q want info", cfg.Log.Level)
	}
}

func TestNormalize_KeepsExplicitZeroSettle(t *testing.T) {
	cfg := minimal()
	zero := 0
	cfg.Timing.SettleMs = &zero
	Normalize(cfg)

	if *cfg.Timing.SettleMs != 0 {
		t.Fatalf("settle=%d want 0", *cfg.Timing.SettleMs)
	}
}

func TestNormalize_MQTTClientID(t *testing.T) {
	cfg := minimal()
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ProductKey = "pk"
	cfg.MQTT.DeviceName = "dn"
	Normalize(cfg)

	if cfg.MQTT.ClientID != "pk.dn" {
		t.Fatalf("client id=%q want pk.dn", cfg.MQTT.ClientID)
	}
	if cfg.MQTT.ReportIntervalMs != 10000 {
		t.Fatalf("report interval=%d want 10000", cfg.MQTT.ReportIntervalMs)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("bus:\n  device: /dev/ttyS1\n  devcie_count: 2\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParse_Full(t *testing.T) {
	raw := `
bus:
  device: /dev/ttyS1
  baud_rate: 19200
  parity: E
  device_count: 4
  channels_per_device: 8
  rs485:
    rts_high_during_send: true
  direction_gpio:
    chip: gpiochip0
    line: 17
timing:
  settle_ms: 0
mqtt:
  broker: tcp://broker:1883
  product_key: pk
  device_name: dn
http:
  addr: ":8080"
log:
  level: debug
`
	cfg, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate err=%v", err)
	}
	Normalize(cfg)

	if cfg.Bus.BaudRate != 19200 || cfg.Bus.DeviceCount != 4 || cfg.Bus.ChannelsPerDevice != 8 {
		t.Fatalf("bus=%+v", cfg.Bus)
	}
	if cfg.Bus.RS485 == nil || !cfg.Bus.RS485.RTSHighDuringSend {
		t.Fatalf("rs485 not decoded")
	}
	if cfg.Bus.DirectionGPIO == nil || cfg.Bus.DirectionGPIO.Line != 17 {
		t.Fatalf("direction_gpio not decoded")
	}
	if *cfg.Timing.SettleMs != 0 {
		t.Fatalf("explicit settle_ms=0 lost")
	}
	if !cfg.MQTT.Enabled() || cfg.HTTP.Addr != ":8080" || cfg.Log.Level != "debug" {
		t.Fatalf("optional sections not decoded: %+v %+v %+v", cfg.MQTT, cfg.HTTP, cfg.Log)
	}
}
