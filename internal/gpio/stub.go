//go:build !linux

package gpio

import "errors"

// RealPin is not available on non-Linux platforms.
type RealPin struct{}

// NewRealPin returns an error on non-Linux platforms.
func NewRealPin(chip string, offset int, high bool) (*RealPin, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

func (p *RealPin) Set(high bool) error {
	return errors.New("gpio: not supported")
}

func (p *RealPin) Close() error {
	return nil
}
