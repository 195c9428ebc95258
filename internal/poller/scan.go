// internal/poller/scan.go
package poller

import (
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// ScanOnce refreshes door status and alarm registers of every device.
// It never writes coils. A failed read keeps the previous values.
func (p *Poller) ScanOnce() {
	topo := p.cfg.Topology
	timeout := p.cfg.Timing.ReadTimeout

	for dev := 0; dev < topo.Devices; dev++ {
		addr := topo.Address(dev)
		lo, hi := topo.Span(dev)

		bits, err := p.client.ReadDiscreteInputs(addr, 0, uint16(topo.Channels), timeout)
		p.exchange(dev, "read doors", err)
		if err == nil {
			copy(p.doors[lo:hi], bits)
		}

		regs, err := p.client.ReadHoldingRegisters(addr, status.RegAlarmBase, status.AlarmTypes, timeout)
		p.exchange(dev, "read alarms", err)
		if err == nil {
			copy(p.alarms[dev][:], regs)
		}
	}

	p.publish()
}
