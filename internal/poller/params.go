// internal/poller/params.go
package poller

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/command"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// Register maps a configuration parameter to its holding register.
func Register(param command.Param) (uint16, error) {
	switch param {
	case command.MaxDoorOpenTime:
		return status.RegMaxOpenTime, nil
	case command.MaxDoorPowerTime:
		return status.RegMaxPowerTime, nil
	default:
		return 0, fmt.Errorf("poller: no register for %v", param)
	}
}

// SetParam writes one configuration register on every device.
// Returns the 1-based addresses of devices that did not acknowledge.
func (p *Poller) SetParam(param command.Param, value uint16) []int {
	topo := p.cfg.Topology

	reg, err := Register(param)
	if err != nil {
		log.WithError(err).Error("parameter write skipped")
		rejected := make([]int, topo.Devices)
		for dev := range rejected {
			rejected[dev] = int(topo.Address(dev))
		}
		return rejected
	}

	var rejected []int
	for dev := 0; dev < topo.Devices; dev++ {
		err := p.client.WriteRegisters(topo.Address(dev), reg, []uint16{value}, p.cfg.Timing.ReadTimeout)
		p.exchange(dev, "write "+param.String(), err)
		if err != nil {
			rejected = append(rejected, int(topo.Address(dev)))
		}
	}

	if len(rejected) == 0 {
		log.WithFields(log.Fields{
			"param": param,
			"value": value,
		}).Info("parameter written")
	}

	p.publish()
	return rejected
}
