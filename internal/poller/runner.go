// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/command"
	"github.com/tamzrod/modbus-doorctl/internal/door"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// Run is the polling task. It waits on the command queue and handles each
// message; when the queue stays idle for QueueTimeout it scans the bus.
// One goroutine per bus. No overlap.
//
// Returns ctx.Err() on shutdown, or a wrapped queue error when the
// queue fails in any other way.
func (p *Poller) Run(ctx context.Context) error {
	p.publish()

	log.WithFields(log.Fields{
		"devices":  p.cfg.Topology.Devices,
		"channels": p.cfg.Topology.Channels,
		"idle":     p.cfg.Timing.QueueTimeout,
	}).Info("door poller started")

	for {
		msg, err := p.queue.Receive(ctx, p.cfg.Timing.QueueTimeout)
		switch {
		case err == nil:
			p.Handle(ctx, msg)

		case errors.Is(err, ErrTimeout):
			p.ScanOnce()

		case ctx.Err() != nil:
			log.Info("door poller stopped")
			return ctx.Err()

		default:
			log.WithError(err).Error("command queue failed, poller stopping")
			return fmt.Errorf("poller: receive: %w", err)
		}
	}
}

// Handle parses one textual command and executes it.
func (p *Poller) Handle(ctx context.Context, msg string) {
	req, err := command.Parse(msg, p.cfg.Topology.Doors())

	var cerr *command.Error
	switch {
	case errors.As(err, &cerr):
		log.WithField("id", cerr.ID).WithError(err).Warn("command rejected")
		p.reply(status.Reply{
			Service: status.ServiceDeviceCtrl,
			ID:      cerr.ID,
			Code:    status.CodeDeviceCtrlError,
		})
		return

	case err != nil:
		log.WithField("msg", msg).WithError(err).Debug("command dropped")
		return
	}

	switch req.Kind {
	case command.OpenDoors:
		failed := p.OpenDoors(ctx, req.Doors)
		r := status.Reply{Service: status.ServiceDoorCtrl, ID: req.ID, Code: status.CodeOK}
		if len(failed) > 0 {
			r.Code = status.CodeDoorCtrlFail
			r.OpenFail = door.FormatList(failed)
			log.WithFields(log.Fields{
				"id":        req.ID,
				"open_fail": r.OpenFail,
			}).Warn("doors failed to open")
		}
		p.reply(r)

	case command.SetParam:
		rejected := p.SetParam(req.Param, req.Value)
		r := status.Reply{Service: status.ServiceDeviceCtrl, ID: req.ID, Code: status.CodeOK}
		if len(rejected) > 0 {
			r.Code = status.CodeDeviceCtrlError
			log.WithFields(log.Fields{
				"id":      req.ID,
				"param":   req.Param,
				"devices": door.FormatList(rejected),
			}).Warn("parameter write failed")
		}
		p.reply(r)
	}
}
