// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/health"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// Poller is the single owner of the bus and of the door buffers.
// Commands and periodic scans are serialized through one goroutine (Run);
// everyone else sees the state only through the snapshot store.
type Poller struct {
	cfg     Config
	client  Client
	queue   *Queue
	store   *status.Store
	replier Replier

	coils  []bool
	doors  []bool
	fails  []bool
	alarms [][status.AlarmTypes]uint16
	health *health.Tracker

	now func() time.Time
}

// New creates a poller with immutable config and allocates its buffers.
func New(cfg Config, client Client, queue *Queue, store *status.Store, replier Replier) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if queue == nil {
		return nil, errors.New("poller: queue required")
	}
	if store == nil {
		return nil, errors.New("poller: status store required")
	}
	if replier == nil {
		return nil, errors.New("poller: replier required")
	}
	if cfg.Topology.Doors() == 0 {
		return nil, errors.New("poller: empty topology")
	}
	if cfg.Timing.QueueTimeout <= 0 {
		return nil, errors.New("poller: queue timeout must be > 0")
	}
	if cfg.Timing.ReadTimeout <= 0 || cfg.Timing.PerDoorTimeout <= 0 {
		return nil, errors.New("poller: bus timeouts must be > 0")
	}
	if cfg.Timing.Settle < 0 {
		return nil, errors.New("poller: settle must be >= 0")
	}

	n := cfg.Topology.Doors()
	return &Poller{
		cfg:     cfg,
		client:  client,
		queue:   queue,
		store:   store,
		replier: replier,
		coils:   make([]bool, n),
		doors:   make([]bool, n),
		fails:   make([]bool, n),
		alarms:  make([][status.AlarmTypes]uint16, cfg.Topology.Devices),
		health:  health.NewTracker(cfg.Topology.Devices),
		now:     time.Now,
	}, nil
}

// publish copies the working buffers into the store.
func (p *Poller) publish() {
	p.store.Publish(status.Snapshot{
		Topology: p.cfg.Topology,
		Coils:    p.coils,
		Doors:    p.doors,
		Alarms:   p.alarms,
		Health:   p.health.Counters(),
		At:       p.now(),
	})
}

func (p *Poller) reply(r status.Reply) {
	if err := p.replier.Reply(r); err != nil {
		log.WithFields(log.Fields{
			"id":   r.ID,
			"code": r.Code,
		}).WithError(err).Warn("reply not delivered")
	}
}

// exchange records the outcome of one bus exchange against device health.
func (p *Poller) exchange(device int, op string, err error) {
	wasOnline := p.health.Online(device)
	p.health.Record(device, err)

	f := log.WithFields(log.Fields{
		"device": p.cfg.Topology.Address(device),
		"op":     op,
	})
	if err != nil {
		f.WithError(err).Debug("modbus exchange failed")
	}
	switch online := p.health.Online(device); {
	case wasOnline && !online:
		f.Warn("device offline")
	case !wasOnline && online:
		f.Info("device back online")
	}
}
