// internal/command/command.go
package command

import (
	"errors"
	"fmt"
)

// Wire keys of the textual command envelope.
const (
	KeyID       = "id"
	KeyDoorIdx  = "door_idx"
	KeyCtrlCmd  = "ctrl_cmd"
	KeyCtrlPara = "ctrl_para"
)

// Kind selects what a Request asks the bus to do.
type Kind int

const (
	OpenDoors Kind = iota + 1
	SetParam
)

// Param is a device configuration register the cloud may set.
type Param int

const (
	MaxDoorOpenTime Param = iota + 1
	MaxDoorPowerTime
)

// paramNames maps ctrl_cmd values to Params.
var paramNames = map[string]Param{
	"max_door_open_time":  MaxDoorOpenTime,
	"max_door_power_time": MaxDoorPowerTime,
}

func (p Param) String() string {
	for name, v := range paramNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("param(%d)", int(p))
}

// LookupParam resolves a ctrl_cmd name, case-insensitively.
func LookupParam(name string) (Param, bool) {
	p, ok := paramNames[lower(name)]
	return p, ok
}

// Request is one decoded command.
type Request struct {
	ID   string
	Kind Kind

	// OpenDoors: 1-based, strictly ascending.
	Doors []int
	// OpenDoors: raw tokens that were rejected.
	Dropped []string

	// SetParam
	Param Param
	Value uint16
}

// ErrMalformed means the envelope itself could not be read; there is
// no usable id to reply to.
var ErrMalformed = errors.New("command: malformed envelope")

// Error is a failure that can still be answered: the id is known.
type Error struct {
	ID     string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("command %s: %s", e.ID, e.Reason)
}
