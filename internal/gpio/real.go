//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPin is an output line on a Linux GPIO chip.
type RealPin struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealPin requests offset on chip as an output already at the given
// level, so the line never passes through the other level on request.
func NewRealPin(chip string, offset int, high bool) (*RealPin, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}

	l, err := c.RequestLine(offset, direction(high), gpiocdev.WithConsumer("doorctl"))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("request line %d: %w", offset, err)
	}

	return &RealPin{chip: c, line: l}, nil
}

func direction(high bool) gpiocdev.OutputOption {
	return gpiocdev.AsOutput(value(high))
}

// Set drives the line.
func (p *RealPin) Set(high bool) error {
	return p.line.SetValue(value(high))
}

// Close returns the line to input before releasing it, so the
// transceiver is not left driving the bus.
func (p *RealPin) Close() error {
	var errs []error

	if p.line != nil {
		if err := p.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line: %w", err))
		}
		if err := p.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
