package web

import (
	"encoding/json"
	"time"

	"github.com/tamzrod/modbus-doorctl/internal/mqtt"
	"github.com/tamzrod/modbus-doorctl/internal/status"
)

// StatusJSON is the top-level JSON structure for /status.json.
type StatusJSON struct {
	Ready   bool         `json:"ready"`
	At      string       `json:"at,omitempty"`
	MQTT    *MQTTJSON    `json:"mqtt,omitempty"`
	Devices []DeviceJSON `json:"devices"`
}

type MQTTJSON struct {
	Connected bool `json:"connected"`
}

type DeviceJSON struct {
	Address int        `json:"address"`
	Online  bool       `json:"online"`
	Health  uint8      `json:"health"`
	Doors   []DoorJSON `json:"doors"`
}

type DoorJSON struct {
	Door    int      `json:"door"`
	Channel int      `json:"channel"`
	Coil    bool     `json:"coil"`
	Open    bool     `json:"open"`
	Alarms  []string `json:"alarms,omitempty"`
}

func formatJSON(s status.Snapshot, ready bool, conn mqtt.ConnectionStatus) ([]byte, error) {
	out := StatusJSON{Ready: ready, Devices: []DeviceJSON{}}
	if conn != nil {
		out.MQTT = &MQTTJSON{Connected: conn.IsConnected()}
	}
	if !ready {
		return json.Marshal(out)
	}

	out.At = s.At.UTC().Format(time.RFC3339)
	topo := s.Topology
	for dev := 0; dev < topo.Devices; dev++ {
		d := DeviceJSON{
			Address: int(topo.Address(dev)),
			Online:  s.Online(dev),
			Health:  s.Health[dev],
		}
		for ch := 0; ch < topo.Channels; ch++ {
			idx := topo.Index(dev, ch)
			dj := DoorJSON{
				Door:    idx,
				Channel: ch + 1,
				Coil:    s.Coils[idx-1],
				Open:    s.Doors[idx-1],
			}
			for a := 0; a < status.AlarmTypes; a++ {
				if s.Alarms[dev][a]&(1<<uint(ch)) != 0 {
					dj.Alarms = append(dj.Alarms, status.AlarmNames[a])
				}
			}
			d.Doors = append(d.Doors, dj)
		}
		out.Devices = append(out.Devices, d)
	}
	return json.Marshal(out)
}
