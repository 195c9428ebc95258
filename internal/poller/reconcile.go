// internal/poller/reconcile.go
package poller

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/door"
)

// OpenDoors runs one reconciliation cycle and returns the requested doors
// that did not report open, ascending and 1-based.
//
// The cycle always runs to completion: build coils, write coils per device,
// settle, read every device back, compare.
func (p *Poller) OpenDoors(ctx context.Context, doors []int) []int {
	topo := p.cfg.Topology

	clear(p.coils)
	clear(p.doors)
	clear(p.fails)
	for _, d := range doors {
		if topo.Valid(d) {
			p.coils[d-1] = true
		}
	}

	// A device whose write failed was not commanded this cycle.
	unwritten := make([]bool, topo.Devices)
	for dev := 0; dev < topo.Devices; dev++ {
		lo, hi := topo.Span(dev)
		n := count(p.coils[lo:hi])
		if n == 0 {
			continue
		}
		err := p.client.WriteCoils(
			topo.Address(dev), 0, p.coils[lo:hi],
			time.Duration(n)*p.cfg.Timing.PerDoorTimeout,
		)
		p.exchange(dev, "write coils", err)
		unwritten[dev] = err != nil
	}

	settle(ctx, p.cfg.Timing.Settle)

	for dev := 0; dev < topo.Devices; dev++ {
		lo, hi := topo.Span(dev)
		bits, err := p.client.ReadDiscreteInputs(
			topo.Address(dev), 0, uint16(topo.Channels), p.cfg.Timing.ReadTimeout,
		)
		p.exchange(dev, "read doors", err)
		if err == nil {
			copy(p.doors[lo:hi], bits)
		}

		for i := lo; i < hi; i++ {
			if !p.coils[i] {
				continue
			}
			if unwritten[dev] || err != nil || !p.doors[i] {
				p.fails[i] = true
			}
		}
	}

	p.publish()

	failed := door.Set(p.fails)
	log.WithFields(log.Fields{
		"requested": door.FormatList(doors),
		"failed":    len(failed),
	}).Debug("reconcile done")
	return failed
}

// settle pauses between the write and read-back passes.
func settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func count(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}
	return n
}
