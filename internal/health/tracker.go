// internal/health/tracker.go
package health

// Threshold is the error count at which a device is classed offline.
const Threshold = 10

// Tracker holds one saturating error counter per device.
// Single writer: the polling task. Readers take Counters() copies.
type Tracker struct {
	counts []uint8
}

// NewTracker allocates counters for n devices, all online.
func NewTracker(n int) *Tracker {
	return &Tracker{counts: make([]uint8, n)}
}

// RecordSuccess lowers the counter of a 0-based device.
// A device at or above Threshold drops straight to Threshold-1,
// so one good exchange brings an offline device back online.
func (t *Tracker) RecordSuccess(device int) {
	c := t.counts[device]
	switch {
	case c >= Threshold:
		t.counts[device] = Threshold - 1
	case c > 0:
		t.counts[device] = c - 1
	}
}

// RecordFailure raises the counter of a 0-based device, saturating at Threshold.
func (t *Tracker) RecordFailure(device int) {
	if t.counts[device] < Threshold {
		t.counts[device]++
	}
}

// Record is RecordSuccess when err is nil, RecordFailure otherwise.
func (t *Tracker) Record(device int, err error) {
	if err == nil {
		t.RecordSuccess(device)
		return
	}
	t.RecordFailure(device)
}

// Count returns the raw counter of a 0-based device.
func (t *Tracker) Count(device int) uint8 {
	return t.counts[device]
}

// Online reports whether a 0-based device is below Threshold.
func (t *Tracker) Online(device int) bool {
	return t.counts[device] < Threshold
}

// Counters returns a copy of every counter.
func (t *Tracker) Counters() []uint8 {
	out := make([]uint8, len(t.counts))
	copy(out, t.counts)
	return out
}
