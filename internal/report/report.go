// internal/report/report.go
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/door"
	"github.com/tamzrod/modbus-doorctl/internal/mqtt"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

const version = "1.0"

const (
	methodDeviceError = "thing.event.device_error.post"
	methodAlarm       = "thing.event.alarm.post"
	methodProperty    = "thing.event.property.post"
)

// EventPost is the body of device_error and alarm events.
type EventPost struct {
	ID      string      `json:"id"`
	Version string      `json:"version"`
	Params  EventParams `json:"params"`
	Method  string      `json:"method"`
}

type EventParams struct {
	Value map[string]string `json:"value"`
	Time  int64             `json:"time"`
}

// PropertyPost is the body of the periodic property report.
type PropertyPost struct {
	ID      string                   `json:"id"`
	Version string                   `json:"version"`
	Params  map[string]PropertyValue `json:"params"`
	Method  string                   `json:"method"`
}

type PropertyValue struct {
	Value string `json:"value"`
	Time  int64  `json:"time"`
}

// Reporter periodically publishes the published snapshot to the cloud.
// It only reads the status store; the bus is never touched.
type Reporter struct {
	pub      mqtt.Publisher
	topics   mqtt.Topics
	store    *status.Store
	interval time.Duration

	seq atomic.Uint64
	now func() time.Time
}

// New creates a reporter.
func New(pub mqtt.Publisher, topics mqtt.Topics, store *status.Store, interval time.Duration) (*Reporter, error) {
	if pub == nil || store == nil {
		return nil, errors.New("report: publisher and store required")
	}
	if interval <= 0 {
		return nil, errors.New("report: interval must be > 0")
	}
	return &Reporter{
		pub:      pub,
		topics:   topics,
		store:    store,
		interval: interval,
		now:      time.Now,
	}, nil
}

// Run reports every interval until ctx is done.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.ReportOnce(); err != nil {
				log.WithError(err).Warn("periodic report incomplete")
			}
		}
	}
}

// ReportOnce publishes one round: device errors and each alarm type when
// any are active, then the door status property.
// Returns status.ErrNotReady before the first snapshot.
func (r *Reporter) ReportOnce() error {
	snap, err := r.store.Snapshot()
	if err != nil {
		return err
	}

	ms := r.now().UnixMilli()
	var errs []string

	// ------------------------------------------------------------
	// DEVICE ERRORS (any device with a nonzero counter)
	// ------------------------------------------------------------

	if faulty := snap.Faulty(); len(faulty) > 0 {
		body := r.event(methodDeviceError, ms, map[string]string{
			"error_name": "Communication",
			"error_info": door.FormatList(faulty),
		})
		if err := r.publish(r.topics.DeviceErrorPost, body); err != nil {
			errs = append(errs, fmt.Sprintf("report: device_error err=%v", err))
		}
	}

	// ------------------------------------------------------------
	// ALARMS (one event per active alarm type)
	// ------------------------------------------------------------

	for _, alarm := range []int{status.AlarmTimeout, status.AlarmIllegal, status.AlarmOverCurrent} {
		doors := snap.AlarmDoors(alarm)
		if len(doors) == 0 {
			continue
		}
		body := r.event(methodAlarm, ms, map[string]string{
			"alarm_name": status.AlarmNames[alarm],
			"alarm_info": door.FormatList(doors),
		})
		if err := r.publish(r.topics.AlarmPost, body); err != nil {
			errs = append(errs, fmt.Sprintf("report: alarm %s err=%v", status.AlarmNames[alarm], err))
		}
	}

	// ------------------------------------------------------------
	// PROPERTIES (always)
	// ------------------------------------------------------------

	prop := PropertyPost{
		ID:      r.nextID(),
		Version: version,
		Params: map[string]PropertyValue{
			"door_status": {Value: status.EncodeDoorStatus(snap), Time: ms},
		},
		Method: methodProperty,
	}
	if err := r.publish(r.topics.PropertyPost, prop); err != nil {
		errs = append(errs, fmt.Sprintf("report: property err=%v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

func (r *Reporter) event(method string, ms int64, value map[string]string) EventPost {
	return EventPost{
		ID:      r.nextID(),
		Version: version,
		Params:  EventParams{Value: value, Time: ms},
		Method:  method,
	}
}

func (r *Reporter) nextID() string {
	return strconv.FormatUint(r.seq.Add(1)-1, 10)
}

func (r *Reporter) publish(topic string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	log.WithField("topic", topic).Debug("report publish")
	return r.pub.Publish(topic, payload)
}
