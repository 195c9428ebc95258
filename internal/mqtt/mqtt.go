// Package mqtt connects the door controller to the cloud broker:
// command topics in, replies and periodic events out.
package mqtt

import "fmt"

// Publisher publishes payloads to the broker.
type Publisher interface {
	// Publish sends payload to topic.
	// Returns error if publishing fails (should not crash the process).
	Publish(topic string, payload []byte) error

	// Close disconnects from the broker.
	Close() error
}

// Subscriber delivers inbound messages on a topic to a handler.
type Subscriber interface {
	Subscribe(topic string, h Handler) error
}

// Handler is called for every inbound message. It runs on the client's
// delivery goroutine and must not block.
type Handler func(topic string, payload []byte)

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Topics are the per-gateway topic names, all rooted at
// /sys/<product_key>/<device_name>/.
type Topics struct {
	DoorCtrl        string
	DoorCtrlReply   string
	DeviceCtrl      string
	DeviceCtrlReply string
	AlarmPost       string
	DeviceErrorPost string
	PropertyPost    string
}

// NewTopics builds the topic set for one gateway identity.
func NewTopics(productKey, deviceName string) Topics {
	root := fmt.Sprintf("/sys/%s/%s/thing", productKey, deviceName)
	return Topics{
		DoorCtrl:        root + "/service/door_ctrl",
		DoorCtrlReply:   root + "/service/door_ctrl_reply",
		DeviceCtrl:      root + "/service/device_ctrl",
		DeviceCtrlReply: root + "/service/device_ctrl_reply",
		AlarmPost:       root + "/event/alarm/post",
		DeviceErrorPost: root + "/event/device_error/post",
		PropertyPost:    root + "/event/property/post",
	}
}
