// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	stdlog "log"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
	log "github.com/sirupsen/logrus"
)

// Client implements poller.Client using Modbus RTU on one serial line.
// It serializes requests because it mutates SlaveId and Timeout per call.
type Client struct {
	mu      sync.Mutex
	line    line
	client  bus
	timeout time.Duration
}

// bus is the part of modbus.Client the door bus uses.
type bus interface {
	WriteMultipleCoils(address, quantity uint16, value []byte) ([]byte, error)
	ReadDiscreteInputs(address, quantity uint16) ([]byte, error)
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// line is the addressable serial port under the bus.
type line interface {
	SetSlave(id byte)
	SetTimeout(d time.Duration)
	Close() error
}

type rtuLine struct{ h *modbus.RTUClientHandler }

func (l rtuLine) SetSlave(id byte) { l.h.SlaveId = id }
func (l rtuLine) SetTimeout(d time.Duration) { l.h.Timeout = d }
func (l rtuLine) Close() error { return l.h.Close() }

// Config is the serial line config.
type Config struct {
	Device   string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string

	// Optional kernel RS-485 RTS control.
	RS485 *serial.RS485Config

	// Debug dumps every frame through logrus at debug level.
	Debug bool

	// Timeout used for the first open; later calls carry their own.
	Timeout time.Duration
}

// New opens the serial line. One attempt: the caller decides what a
// failure at startup means.
func New(cfg Config) (*Client, error) {
	if cfg.Device == "" {
		return nil, errors.New("modbus client: serial device required")
	}

	h := modbus.NewRTUClientHandler(cfg.Device)
	h.BaudRate = cfg.BaudRate
	h.DataBits = cfg.DataBits
	h.StopBits = cfg.StopBits
	h.Parity = cfg.Parity
	h.Timeout = cfg.Timeout
	if cfg.RS485 != nil {
		h.RS485 = *cfg.RS485
	}
	if cfg.Debug {
		h.Logger = stdlog.New(log.StandardLogger().WriterLevel(log.DebugLevel), "modbus: ", 0)
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus client: open %s: %w", cfg.Device, err)
	}

	log.WithFields(log.Fields{
		"device": cfg.Device,
		"baud":   cfg.BaudRate,
		"format": fmt.Sprintf("%d%s%d", cfg.DataBits, cfg.Parity, cfg.StopBits),
	}).Info("modbus rtu line open")

	return newClient(rtuLine{h}, modbus.NewClient(h), cfg.Timeout), nil
}

func newClient(l line, b bus, timeout time.Duration) *Client {
	return &Client{line: l, client: b, timeout: timeout}
}

// Close closes the serial port.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.line.Close()
}

// use addresses the next request. The serial timeout is fixed when the
// port opens, so a different timeout closes the port; the next request
// reopens it.
func (c *Client) use(slave uint8, timeout time.Duration) {
	c.line.SetSlave(slave)
	if timeout == c.timeout {
		return
	}
	if err := c.line.Close(); err != nil {
		log.WithError(err).Debug("modbus client: close before timeout change")
	}
	c.line.SetTimeout(timeout)
	c.timeout = timeout
}

// ---- poller.Client interface ----

func (c *Client) WriteCoils(slave uint8, addr uint16, bits []bool, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.use(slave, timeout)
	_, err := c.client.WriteMultipleCoils(addr, uint16(len(bits)), packBits(bits))
	return err
}

func (c *Client) ReadDiscreteInputs(slave uint8, addr, qty uint16, timeout time.Duration) ([]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.use(slave, timeout)
	data, err := c.client.ReadDiscreteInputs(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(data) < (int(qty)+7)/8 {
		return nil, errors.New("modbus: read-bits payload shorter than quantity")
	}
	return unpackBits(data, int(qty)), nil
}

func (c *Client) ReadHoldingRegisters(slave uint8, addr, qty uint16, timeout time.Duration) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.use(slave, timeout)
	data, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(data) != 2*int(qty) {
		return nil, fmt.Errorf("modbus: read-registers got %d bytes, want %d", len(data), 2*int(qty))
	}
	return unpackRegisters(data), nil
}

func (c *Client) WriteRegisters(slave uint8, addr uint16, regs []uint16, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.use(slave, timeout)
	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs))
	return err
}
