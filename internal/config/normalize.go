// internal/config/normalize.go
package config

import (
	"strings"
	"time"
)

// Defaults match the deployed door controllers.
const (
	DefaultBaudRate         = 9600
	DefaultDataBits         = 8
	DefaultStopBits         = 1
	DefaultParity           = "N"
	DefaultQueueTimeoutMs   = 200
	DefaultSettleMs         = 1000
	DefaultReadTimeoutMs    = 1000
	DefaultPerDoorTimeoutMs = 1000
	DefaultQueueDepth       = 16
	DefaultMessageSize      = 256
	DefaultReportIntervalMs = 10000
	DefaultLogLevel         = "info"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Bus
	setDefault(&b.BaudRate, DefaultBaudRate)
	setDefault(&b.DataBits, DefaultDataBits)
	setDefault(&b.StopBits, DefaultStopBits)
	b.Parity = strings.ToUpper(b.Parity)
	if b.Parity == "" {
		b.Parity = DefaultParity
	}

	t := &cfg.Timing
	setDefault(&t.QueueTimeoutMs, DefaultQueueTimeoutMs)
	setDefault(&t.ReadTimeoutMs, DefaultReadTimeoutMs)
	setDefault(&t.PerDoorTimeoutMs, DefaultPerDoorTimeoutMs)
	setDefault(&t.QueueDepth, DefaultQueueDepth)
	setDefault(&t.MessageSize, DefaultMessageSize)
	if t.SettleMs == nil {
		v := DefaultSettleMs
		t.SettleMs = &v
	}

	m := &cfg.MQTT
	setDefault(&m.ReportIntervalMs, DefaultReportIntervalMs)
	if m.Enabled() && m.ClientID == "" {
		m.ClientID = m.ProductKey + "." + m.DeviceName
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// Ms converts a millisecond config value.
func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
