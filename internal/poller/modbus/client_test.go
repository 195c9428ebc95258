// internal/poller/modbus/client_test.go
package modbus

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

// fakeLine records what the client does to the serial port.
type fakeLine struct {
	events []string
	slave  byte
	closes int
}

func (l *fakeLine) SetSlave(id byte) {
	l.slave = id
	l.events = append(l.events, "slave")
}

func (l *fakeLine) SetTimeout(d time.Duration) {
	l.events = append(l.events, "timeout "+d.String())
}

func (l *fakeLine) Close() error {
	l.closes++
	l.events = append(l.events, "close")
	return nil
}

// fakeBus answers with canned payloads and notes the slave seen per call.
type fakeBus struct {
	line   *fakeLine
	seen   []byte
	coils  []byte
	inputs []byte
	regs   []byte
	err    error
}

func (b *fakeBus) WriteMultipleCoils(address, quantity uint16, value []byte) ([]byte, error) {
	b.seen = append(b.seen, b.line.slave)
	b.coils = append([]byte(nil), value...)
	return nil, b.err
}

func (b *fakeBus) ReadDiscreteInputs(address, quantity uint16) ([]byte, error) {
	b.seen = append(b.seen, b.line.slave)
	return b.inputs, b.err
}

func (b *fakeBus) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	b.seen = append(b.seen, b.line.slave)
	return b.regs, b.err
}

func (b *fakeBus) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	b.seen = append(b.seen, b.line.slave)
	return nil, b.err
}

func newTestClient() (*Client, *fakeLine, *fakeBus) {
	l := &fakeLine{}
	b := &fakeBus{line: l}
	return newClient(l, b, time.Second), l, b
}

func TestClient_SetsSlaveBeforeEachCall(t *testing.T) {
	c, _, b := newTestClient()
	b.inputs = []byte{0x01, 0x00}
	b.regs = []byte{0, 0, 0, 0, 0, 0}

	if err := c.WriteCoils(1, 0, []bool{true}, time.Second); err != nil {
		t.Fatalf("WriteCoils err=%v", err)
	}
	if _, err := c.ReadDiscreteInputs(7, 0, 16, time.Second); err != nil {
		t.Fatalf("ReadDiscreteInputs err=%v", err)
	}
	if _, err := c.ReadHoldingRegisters(3, 21, 3, time.Second); err != nil {
		t.Fatalf("ReadHoldingRegisters err=%v", err)
	}
	if err := c.WriteRegisters(9, 24, []uint16{5}, time.Second); err != nil {
		t.Fatalf("WriteRegisters err=%v", err)
	}

	if !reflect.DeepEqual(b.seen, []byte{1, 7, 3, 9}) {
		t.Fatalf("slaves seen by bus=%v want [1 7 3 9]", b.seen)
	}
}

func TestClient_ReopensOnlyWhenTimeoutChanges(t *testing.T) {
	c, l, _ := newTestClient()

	_ = c.WriteCoils(1, 0, []bool{true}, time.Second)
	_ = c.WriteCoils(2, 0, []bool{true}, time.Second)
	if l.closes != 0 {
		t.Fatalf("closed %d times with unchanged timeout", l.closes)
	}

	_ = c.WriteCoils(1, 0, []bool{true, true}, 2*time.Second)
	_ = c.WriteCoils(2, 0, []bool{true, true}, 2*time.Second)
	if l.closes != 1 {
		t.Fatalf("closes=%d want 1 after one timeout change", l.closes)
	}

	want := []string{"slave", "slave", "slave", "close", "timeout 2s", "slave"}
	if !reflect.DeepEqual(l.events, want) {
		t.Fatalf("events=%q want %q", l.events, want)
	}
}

func TestClient_WriteCoilsPacksBits(t *testing.T) {
	c, _, b := newTestClient()

	bits := make([]bool, 16)
	bits[0], bits[9] = true, true
	if err := c.WriteCoils(1, 0, bits, time.Second); err != nil {
		t.Fatalf("WriteCoils err=%v", err)
	}
	if !reflect.DeepEqual(b.coils, []byte{0x01, 0x02}) {
		t.Fatalf("coils=% x want 01 02", b.coils)
	}
}

func TestClient_ShortInputsPayload(t *testing.T) {
	c, _, b := newTestClient()
	b.inputs = []byte{0xFF}

	if _, err := c.ReadDiscreteInputs(1, 0, 16, time.Second); err == nil {
		t.Fatalf("expected error for 1 byte carrying 16 inputs")
	}

	b.inputs = []byte{0x05, 0x80}
	got, err := c.ReadDiscreteInputs(1, 0, 16, time.Second)
	if err != nil {
		t.Fatalf("ReadDiscreteInputs err=%v", err)
	}
	if len(got) != 16 || !got[0] || got[1] || !got[2] || !got[15] {
		t.Fatalf("inputs=%v", got)
	}
}

func TestClient_MisSizedRegistersPayload(t *testing.T) {
	c, _, b := newTestClient()

	for _, raw := range [][]byte{{0, 1, 0, 2}, {0, 1, 0, 2, 0, 3, 0, 4}} {
		b.regs = raw
		_, err := c.ReadHoldingRegisters(1, 21, 3, time.Second)
		if err == nil || !strings.Contains(err.Error(), "want 6") {
			t.Fatalf("%d bytes: err=%v want byte-count error", len(raw), err)
		}
	}

	b.regs = []byte{0, 1, 0, 2, 0x12, 0x34}
	got, err := c.ReadHoldingRegisters(1, 21, 3, time.Second)
	if err != nil {
		t.Fatalf("ReadHoldingRegisters err=%v", err)
	}
	if !reflect.DeepEqual(got, []uint16{1, 2, 0x1234}) {
		t.Fatalf("regs=%v", got)
	}
}

func TestClient_BusErrorPassesThrough(t *testing.T) {
	c, _, b := newTestClient()
	b.err = errors.New("serial: timeout")

	if _, err := c.ReadDiscreteInputs(1, 0, 16, time.Second); !errors.Is(err, b.err) {
		t.Fatalf("err=%v want bus error", err)
	}
	if err := c.WriteCoils(1, 0, []bool{true}, time.Second); !errors.Is(err, b.err) {
		t.Fatalf("err=%v want bus error", err)
	}
}

func TestClient_CloseClosesLine(t *testing.T) {
	c, l, _ := newTestClient()

	if err := c.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}
	if l.closes != 1 {
		t.Fatalf("closes=%d want 1", l.closes)
	}
}
