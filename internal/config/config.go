// internal/config/config.go
package config

type Config struct {
	Bus    BusConfig    `yaml:"bus"`
	Timing TimingConfig `yaml:"timing"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
}

// ---- BUS ----

type BusConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	StopBits int    `yaml:"stop_bits"`
	Parity   string `yaml:"parity"` // N | E | O

	// Topology: slaves are addressed 1..device_count.
	DeviceCount       int `yaml:"device_count"`
	ChannelsPerDevice int `yaml:"channels_per_device"`

	// Kernel-driven RTS toggling (optional)
	RS485 *RS485Config `yaml:"rs485"`

	// Transceiver direction pin driven once at startup (optional)
	DirectionGPIO *GPIOConfig `yaml:"direction_gpio"`

	// Dump every frame at debug level
	Debug bool `yaml:"debug"`
}

type RS485Config struct {
	RTSHighDuringSend bool `yaml:"rts_high_during_send"`
	RTSHighAfterSend  bool `yaml:"rts_high_after_send"`
	RxDuringTx        bool `yaml:"rx_during_tx"`
	DelayBeforeSendMs int  `yaml:"delay_before_send_ms"`
	DelayAfterSendMs  int  `yaml:"delay_after_send_ms"`
}

type GPIOConfig struct {
	Chip string `yaml:"chip"`
	Line int    `yaml:"line"`

	// Level driven on the line; false is receive/low.
	High bool `yaml:"high"`
}

// ---- TIMING ----

type TimingConfig struct {
	QueueTimeoutMs   int  `yaml:"queue_timeout_ms"`
	SettleMs         *int `yaml:"settle_ms"` // nil => default, 0 => no settle
	ReadTimeoutMs    int  `yaml:"read_timeout_ms"`
	PerDoorTimeoutMs int  `yaml:"per_door_timeout_ms"`
	QueueDepth       int  `yaml:"queue_depth"`
	MessageSize      int  `yaml:"message_size"`
}

// ---- MQTT (optional) ----

type MQTTConfig struct {
	Broker   string `yaml:"broker"` // empty => disabled
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos"`

	// Topic identity: /sys/<product_key>/<device_name>/...
	ProductKey string `yaml:"product_key"`
	DeviceName string `yaml:"device_name"`

	ReportIntervalMs int `yaml:"report_interval_ms"`
}

// Enabled reports whether a broker is configured.
func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

// ---- HTTP (optional) ----

type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty => disabled
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}
