// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/door"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are accepted wherever Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	// ------------------------------------------------------------
	// BUS
	// ------------------------------------------------------------

	b := cfg.Bus
	if strings.TrimSpace(b.Device) == "" {
		fail("bus.device is required")
	}
	if b.BaudRate < 0 {
		fail("bus.baud_rate must be > 0")
	}
	if b.DataBits != 0 && (b.DataBits < 5 || b.DataBits > 8) {
		fail("bus.data_bits must be 5..8, got %d", b.DataBits)
	}
	if b.StopBits != 0 && b.StopBits != 1 && b.StopBits != 2 {
		fail("bus.stop_bits must be 1 or 2, got %d", b.StopBits)
	}
	switch strings.ToUpper(b.Parity) {
	case "", "N", "E", "O":
	default:
		fail("bus.parity must be N, E or O, got %q", b.Parity)
	}
	if b.DeviceCount < 1 || b.DeviceCount > door.MaxDevices {
		fail("bus.device_count must be 1..%d, got %d", door.MaxDevices, b.DeviceCount)
	}
	if b.ChannelsPerDevice < 1 || b.ChannelsPerDevice > door.MaxChannels {
		fail("bus.channels_per_device must be 1..%d, got %d", door.MaxChannels, b.ChannelsPerDevice)
	}
	if r := b.RS485; r != nil {
		if r.DelayBeforeSendMs < 0 || r.DelayAfterSendMs < 0 {
			fail("bus.rs485 delays must be >= 0")
		}
	}
	if g := b.DirectionGPIO; g != nil {
		if strings.TrimSpace(g.Chip) == "" {
			fail("bus.direction_gpio.chip is required")
		}
		if g.Line < 0 {
			fail("bus.direction_gpio.line must be >= 0, got %d", g.Line)
		}
	}

	// ------------------------------------------------------------
	// TIMING
	// ------------------------------------------------------------

	t := cfg.Timing
	if t.QueueTimeoutMs < 0 {
		fail("timing.queue_timeout_ms must be > 0")
	}
	if t.SettleMs != nil && *t.SettleMs < 0 {
		fail("timing.settle_ms must be >= 0")
	}
	if t.ReadTimeoutMs < 0 {
		fail("timing.read_timeout_ms must be > 0")
	}
	if t.PerDoorTimeoutMs < 0 {
		fail("timing.per_door_timeout_ms must be > 0")
	}
	if t.QueueDepth < 0 {
		fail("timing.queue_depth must be > 0")
	}
	if t.MessageSize < 0 {
		fail("timing.message_size must be > 0")
	}

	// ------------------------------------------------------------
	// MQTT (opt-in)
	// ------------------------------------------------------------

	m := cfg.MQTT
	if m.Enabled() {
		if m.ProductKey == "" || m.DeviceName == "" {
			fail("mqtt: product_key and device_name are required when broker is set")
		}
		if strings.ContainsAny(m.ProductKey+m.DeviceName, "/+#") {
			fail("mqtt: product_key and device_name must not contain '/', '+' or '#'")
		}
		if m.QoS > 2 {
			fail("mqtt.qos must be 0..2, got %d", m.QoS)
		}
		if m.ReportIntervalMs < 0 {
			fail("mqtt.report_interval_ms must be > 0")
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if cfg.Log.Level != "" {
		if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
			fail("log.level: %v", err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}
