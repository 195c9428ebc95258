// internal/status/snapshot.go
package status

import (
	"errors"
	"sync"
	"time"

	"github.com/tamzrod/modbus-doorctl/internal/door"
	"github.com/tamzrod/modbus-doorctl/internal/health"
)

// ErrNotReady is returned before the polling task has published once.
var ErrNotReady = errors.New("status: snapshot not available")

// Snapshot is a point-in-time copy of the polling task's buffers.
// It is a value type: safe to keep after the Store lock is released.
type Snapshot struct {
	Topology door.Topology

	Coils  []bool               // commanded open, one per door
	Doors  []bool               // physically open, one per door
	Alarms [][AlarmTypes]uint16 // per device, bit per channel
	Health []uint8              // per device error counter

	At time.Time
}

// Online reports whether a 0-based device is below the health threshold.
func (s Snapshot) Online(device int) bool {
	return s.Health[device] < health.Threshold
}

// Faulty returns the 1-based addresses of devices with a nonzero error
// counter, online or not.
func (s Snapshot) Faulty() []int {
	var out []int
	for i, n := range s.Health {
		if n > 0 {
			out = append(out, i+1)
		}
	}
	return out
}

// AlarmDoors returns the global door indices with the given alarm bit set.
func (s Snapshot) AlarmDoors(alarm int) []int {
	var out []int
	for dev, regs := range s.Alarms {
		mask := regs[alarm]
		for ch := 0; ch < s.Topology.Channels; ch++ {
			if mask&(1<<uint(ch)) != 0 {
				out = append(out, s.Topology.Index(dev, ch))
			}
		}
	}
	return out
}

// Clone deep-copies every buffer.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Coils = append([]bool(nil), s.Coils...)
	out.Doors = append([]bool(nil), s.Doors...)
	out.Alarms = append([][AlarmTypes]uint16(nil), s.Alarms...)
	out.Health = append([]uint8(nil), s.Health...)
	return out
}

// Store is the single publication point between the polling task
// (one writer) and any number of readers.
type Store struct {
	mu    sync.RWMutex
	snap  Snapshot
	ready bool
}

// NewStore returns an empty, not-ready store.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the current snapshot with a copy of s.
func (st *Store) Publish(s Snapshot) {
	c := s.Clone()
	st.mu.Lock()
	st.snap = c
	st.ready = true
	st.mu.Unlock()
}

// Snapshot returns a copy of the latest published snapshot.
func (st *Store) Snapshot() (Snapshot, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if !st.ready {
		return Snapshot{}, ErrNotReady
	}
	return st.snap.Clone(), nil
}
