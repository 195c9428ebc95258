package mqtt

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// ReplyPayload is the service reply body.
type ReplyPayload struct {
	ID   string            `json:"id"`
	Code string            `json:"code"`
	Data map[string]string `json:"data"`
}

// FormatReply creates the JSON body for a command outcome.
// Data is always present; it carries open_fail only when doors failed.
func FormatReply(r status.Reply) ([]byte, error) {
	p := ReplyPayload{
		ID:   r.ID,
		Code: r.Code,
		Data: map[string]string{},
	}
	if r.OpenFail != "" {
		p.Data["open_fail"] = r.OpenFail
	}
	return json.Marshal(p)
}

// Replier publishes command outcomes on the matching *_reply topic.
type Replier struct {
	pub    Publisher
	topics Topics
}

// NewReplier creates a Replier on pub.
func NewReplier(pub Publisher, topics Topics) *Replier {
	return &Replier{pub: pub, topics: topics}
}

// Reply implements poller.Replier.
func (r *Replier) Reply(rep status.Reply) error {
	var topic string
	switch rep.Service {
	case status.ServiceDoorCtrl:
		topic = r.topics.DoorCtrlReply
	case status.ServiceDeviceCtrl:
		topic = r.topics.DeviceCtrlReply
	default:
		return fmt.Errorf("mqtt: reply for unknown service %d", rep.Service)
	}

	payload, err := FormatReply(rep)
	if err != nil {
		return fmt.Errorf("format reply: %w", err)
	}

	log.WithFields(log.Fields{
		"topic": topic,
		"id":    rep.ID,
		"code":  rep.Code,
	}).Info("service reply")

	return r.pub.Publish(topic, payload)
}

// LogReplier stands in for the broker when none is configured:
// outcomes are only logged.
type LogReplier struct{}

func (LogReplier) Reply(rep status.Reply) error {
	log.WithFields(log.Fields{
		"id":        rep.ID,
		"code":      rep.Code,
		"open_fail": rep.OpenFail,
	}).Info("command outcome")
	return nil
}
