// Package gpio drives the RS-485 transceiver direction line.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Pin is a single output line.
type Pin interface {
	// Set drives the line high or low.
	Set(high bool) error

	// Close releases the line.
	Close() error
}

// Setup drives the direction line once at startup. The line keeps its
// level for the process lifetime; per-frame switching is left to the
// serial driver.
func Setup(p Pin, high bool) error {
	if err := p.Set(high); err != nil {
		return fmt.Errorf("gpio: set direction: %w", err)
	}
	log.WithField("high", high).Info("rs485 direction line configured")
	return nil
}

func value(high bool) int {
	if high {
		return 1
	}
	return 0
}
