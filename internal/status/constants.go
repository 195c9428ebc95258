// internal/status/constants.go
package status

// Protocol constants shared with the door-control slaves and the cloud.
// These values define the protocol and MUST NOT be configurable.

// ---- SLAVE REGISTER MAP ----

// RegAlarmBase is the first holding register of the alarm block.
const RegAlarmBase uint16 = 21

// AlarmTypes is the number of alarm registers per device.
const AlarmTypes = 3

// RegMaxOpenTime holds the door-open alarm time in seconds.
const RegMaxOpenTime uint16 = 24

// RegMaxPowerTime holds the lock power-on time in seconds.
const RegMaxPowerTime uint16 = 25

// ---- ALARM TYPES ----
// Index into a device's alarm block. Each register is a bit-per-channel mask.

// AlarmIllegal is a door forced open without a command.
const AlarmIllegal = 0

// AlarmTimeout is a door held open longer than the max open time.
const AlarmTimeout = 1

// AlarmOverCurrent is a lock drawing too much current.
const AlarmOverCurrent = 2

// AlarmNames are the cloud-facing names, by alarm index.
var AlarmNames = [AlarmTypes]string{"Illegal", "Timeout", "Current"}

// ---- REPLY CODES ----

const (
	CodeOK              = "200"
	CodeDoorCtrlFail    = "100000"
	CodeDevCtrlFail     = "100001"
	CodePropertyError   = "100002"
	CodeDeviceCtrlError = "100003"
)

// Service selects the reply channel.
type Service int

const (
	ServiceDoorCtrl Service = iota + 1
	ServiceDeviceCtrl
)

// Reply is one command outcome handed to the reply publisher.
type Reply struct {
	Service Service
	ID      string
	Code    string

	// OpenFail lists failed doors as "3,5"; empty on success.
	OpenFail string
}
