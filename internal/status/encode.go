// internal/status/encode.go
package status

import (
	"fmt"
	"io"
	"strings"
)

// EncodeDoorStatus renders every door as 0/1, comma-separated.
// No IO. No side effects.
func EncodeDoorStatus(s Snapshot) string {
	var b strings.Builder
	for i, open := range s.Doors {
		if i > 0 {
			b.WriteByte(',')
		}
		if open {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// alarmFlags are printed in alarm-index order; '*' means clear.
var alarmFlags = [AlarmTypes]byte{'C', 'T', 'L'}

// WriteTable prints the per-channel diagnostic table:
// device address with online flag, channel, coil, door and alarm flags.
func WriteTable(w io.Writer, s Snapshot) error {
	if _, err := fmt.Fprint(w,
		"device   channel   coil status   door status   alarm status\n",
		"------   -------   -----------   -----------   ------------\n",
	); err != nil {
		return err
	}

	topo := s.Topology
	for dev := 0; dev < topo.Devices; dev++ {
		online := 'O'
		if !s.Online(dev) {
			online = 'F'
		}

		for ch := 0; ch < topo.Channels; ch++ {
			idx := topo.Index(dev, ch) - 1

			var alarms [AlarmTypes*2 - 1]byte
			for a := 0; a < AlarmTypes; a++ {
				flag := byte('*')
				if s.Alarms[dev][a]&(1<<uint(ch)) != 0 {
					flag = alarmFlags[a]
				}
				alarms[a*2] = flag
				if a < AlarmTypes-1 {
					alarms[a*2+1] = '|'
				}
			}

			if _, err := fmt.Fprintf(w, " %02d-%c        %02d         %c             %c            %s\n",
				dev+1, online, ch+1, openFlag(s.Coils[idx]), openFlag(s.Doors[idx]), alarms[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

func openFlag(open bool) byte {
	if open {
		return 'O'
	}
	return 'C'
}
