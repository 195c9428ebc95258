// internal/door/topology.go
package door

import (
	"fmt"
	"strconv"
	"strings"
)

// Bus limits.
const (
	MaxDevices  = 247 // highest RTU slave address; 0 is broadcast
	MaxChannels = 16  // alarm registers carry one bit per channel
)

// Topology is the fixed shape of the door bus.
// Built once from configuration and never resized.
type Topology struct {
	Devices  int // slave units, addressed 1..Devices
	Channels int // doors per unit
}

// NewTopology validates device and channel counts.
func NewTopology(devices, channels int) (Topology, error) {
	if devices < 1 || devices > MaxDevices {
		return Topology{}, fmt.Errorf("door: device count %d out of range 1..%d", devices, MaxDevices)
	}
	if channels < 1 || channels > MaxChannels {
		return Topology{}, fmt.Errorf("door: channel count %d out of range 1..%d", channels, MaxChannels)
	}
	return Topology{Devices: devices, Channels: channels}, nil
}

// Doors returns the number of addressable doors on the bus.
func (t Topology) Doors() int {
	return t.Devices * t.Channels
}

// Valid reports whether door is a 1-based index on this bus.
func (t Topology) Valid(door int) bool {
	return door >= 1 && door <= t.Doors()
}

// Locate maps a 1-based door index to 0-based (device, channel).
func (t Topology) Locate(door int) (device, channel int, err error) {
	if !t.Valid(door) {
		return 0, 0, fmt.Errorf("door: index %d out of range 1..%d", door, t.Doors())
	}
	return (door - 1) / t.Channels, (door - 1) % t.Channels, nil
}

// Index maps 0-based (device, channel) back to a 1-based door index.
func (t Topology) Index(device, channel int) int {
	return device*t.Channels + channel + 1
}

// Address returns the RTU slave address of a 0-based device.
func (t Topology) Address(device int) uint8 {
	return uint8(device + 1)
}

// Span returns the [lo, hi) slice bounds of a device in a per-door buffer.
func (t Topology) Span(device int) (lo, hi int) {
	lo = device * t.Channels
	return lo, lo + t.Channels
}

// FormatList renders door indices as "3,5,17".
func FormatList(doors []int) string {
	parts := make([]string, len(doors))
	for i, d := range doors {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// Set collects the 1-based indices of every true entry, ascending.
func Set(buf []bool) []int {
	var out []int
	for i, v := range buf {
		if v {
			out = append(out, i+1)
		}
	}
	return out
}
