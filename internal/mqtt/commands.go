package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-doorctl/internal/command"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// Enqueuer accepts textual commands for the polling task.
type Enqueuer interface {
	Urgent(msg string) error
}

// Commands translates inbound service JSON into textual commands.
type Commands struct {
	queue   Enqueuer
	replier *Replier
}

// NewCommands creates a translator feeding queue. Requests that never
// reach the queue are answered through replier.
func NewCommands(queue Enqueuer, replier *Replier) *Commands {
	return &Commands{queue: queue, replier: replier}
}

// Register subscribes both service topics.
func (c *Commands) Register(sub Subscriber, topics Topics) error {
	if err := sub.Subscribe(topics.DoorCtrl, c.HandleDoorCtrl); err != nil {
		return err
	}
	return sub.Subscribe(topics.DeviceCtrl, c.HandleDeviceCtrl)
}

// servicePayload is the inbound service body:
// {"id":"123","params":{...}}
type servicePayload struct {
	ID     json.RawMessage            `json:"id"`
	Params map[string]json.RawMessage `json:"params"`
}

// HandleDoorCtrl turns {"id","params":{"door_idx":"1,2"}} into
// "id=<id>;door_idx=1,2".
func (c *Commands) HandleDoorCtrl(topic string, payload []byte) {
	id, params, err := decode(payload)
	if err != nil {
		log.WithField("topic", topic).WithError(err).Debug("door_ctrl dropped")
		return
	}

	doors, ok := scalar(params[command.KeyDoorIdx])
	if !ok {
		log.WithFields(log.Fields{"topic": topic, "id": id}).Debug("door_ctrl without door_idx dropped")
		return
	}

	c.enqueue(id, fmt.Sprintf("%s=%s;%s=%s", command.KeyID, id, command.KeyDoorIdx, doors))
}

// HandleDeviceCtrl turns {"id","params":{"ctrl_cmd","ctrl_para"}} into
// "id=<id>;ctrl_cmd=<cmd>;ctrl_para=<n>". Commands that need no bus
// traffic are answered here.
func (c *Commands) HandleDeviceCtrl(topic string, payload []byte) {
	id, params, err := decode(payload)
	if err != nil {
		log.WithField("topic", topic).WithError(err).Debug("device_ctrl dropped")
		return
	}

	cmd, ok := scalar(params[command.KeyCtrlCmd])
	if !ok {
		log.WithFields(log.Fields{"topic": topic, "id": id}).Debug("device_ctrl without ctrl_cmd dropped")
		return
	}
	para, ok := scalar(params[command.KeyCtrlPara])
	if !ok {
		log.WithFields(log.Fields{"topic": topic, "id": id}).Debug("device_ctrl without ctrl_para dropped")
		return
	}

	if _, known := command.LookupParam(cmd); known {
		c.enqueue(id, fmt.Sprintf("%s=%s;%s=%s;%s=%s",
			command.KeyID, id, command.KeyCtrlCmd, cmd, command.KeyCtrlPara, para))
		return
	}

	code := status.CodeDevCtrlFail
	if strings.EqualFold(cmd, "beep") {
		code = status.CodeOK
	}
	log.WithFields(log.Fields{"id": id, "ctrl_cmd": cmd, "code": code}).Info("device control answered locally")
	c.reply(status.Reply{Service: status.ServiceDeviceCtrl, ID: id, Code: code})
}

func (c *Commands) enqueue(id, msg string) {
	if err := c.queue.Urgent(msg); err != nil {
		log.WithField("id", id).WithError(err).Warn("command not queued")
	}
}

func (c *Commands) reply(r status.Reply) {
	if err := c.replier.Reply(r); err != nil {
		log.WithField("id", r.ID).WithError(err).Warn("reply not delivered")
	}
}

var errBadID = errors.New("missing or unusable id")

func decode(payload []byte) (string, map[string]json.RawMessage, error) {
	var p servicePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", nil, err
	}
	id, ok := scalar(p.ID)
	if !ok || id == "" || strings.ContainsAny(id, ";=") {
		return "", nil, errBadID
	}
	if p.Params == nil {
		return "", nil, errors.New("missing params")
	}
	return id, p.Params, nil
}

// scalar reads a JSON string or number as text.
func scalar(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}
