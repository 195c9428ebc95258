// internal/poller/builder.go
package poller

import (
	cfg "github.com/tamzrod/modbus-doorctl/internal/config"
	"github.com/tamzrod/modbus-doorctl/internal/door"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// Build constructs the command queue and a Poller from validated,
// normalized config. The client lifecycle stays with the caller.
func Build(c *cfg.Config, client Client, store *status.Store, replier Replier) (*Poller, *Queue, error) {
	topo, err := door.NewTopology(c.Bus.DeviceCount, c.Bus.ChannelsPerDevice)
	if err != nil {
		return nil, nil, err
	}

	queue, err := NewQueue(c.Timing.QueueDepth, c.Timing.MessageSize)
	if err != nil {
		return nil, nil, err
	}

	settle := 0
	if c.Timing.SettleMs != nil {
		settle = *c.Timing.SettleMs
	}

	p, err := New(
		Config{
			Topology: topo,
			Timing: Timing{
				QueueTimeout:   cfg.Ms(c.Timing.QueueTimeoutMs),
				Settle:         cfg.Ms(settle),
				ReadTimeout:    cfg.Ms(c.Timing.ReadTimeoutMs),
				PerDoorTimeout: cfg.Ms(c.Timing.PerDoorTimeoutMs),
			},
		},
		client,
		queue,
		store,
		replier,
	)
	if err != nil {
		return nil, nil, err
	}

	return p, queue, nil
}
