// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/modbus-doorctl/internal/door"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// Client abstracts the field-bus exchanges the poller needs.
// Every call addresses one slave and carries its own response timeout.
// One attempt per call: a failure is returned, never retried.
type Client interface {
	WriteCoils(slave uint8, addr uint16, bits []bool, timeout time.Duration) error               // FC 15
	ReadDiscreteInputs(slave uint8, addr, qty uint16, timeout time.Duration) ([]bool, error)     // FC 2
	ReadHoldingRegisters(slave uint8, addr, qty uint16, timeout time.Duration) ([]uint16, error) // FC 3
	WriteRegisters(slave uint8, addr uint16, regs []uint16, timeout time.Duration) error         // FC 16
}

// Replier delivers command outcomes to whoever sent the command.
type Replier interface {
	Reply(r status.Reply) error
}

// Timing holds the bus cadence.
type Timing struct {
	// QueueTimeout is the idle wait before a periodic scan. Never zero:
	// scanning must go on while no command arrives.
	QueueTimeout time.Duration

	// Settle is the pause between writing coils and reading doors back.
	Settle time.Duration

	// ReadTimeout bounds every single-device read and register write.
	ReadTimeout time.Duration

	// PerDoorTimeout is multiplied by the number of doors a coil write opens.
	PerDoorTimeout time.Duration
}

// Config is the immutable runtime config of the poller.
type Config struct {
	Topology door.Topology
	Timing   Timing
}
