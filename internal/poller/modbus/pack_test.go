// internal/poller/modbus/pack_test.go
package modbus

import (
	"bytes"
	"testing"
)

func TestPackBits_LSBFirst(t *testing.T) {
	bits := make([]bool, 16)
	bits[0] = true
	bits[2] = true
	bits[9] = true

	got := packBits(bits)
	if !bytes.Equal(got, []byte{0x05, 0x02}) {
		t.Fatalf("packBits=% x want 05 02", got)
	}
}

func TestPackBits_PartialByte(t *testing.T) {
	got := packBits([]bool{false, false, false, false, true})
	if !bytes.Equal(got, []byte{0x10}) {
		t.Fatalf("packBits=% x want 10", got)
	}
}

func TestUnpackBits_ShortPayload(t *testing.T) {
	got := unpackBits([]byte{0x81}, 12)
	if len(got) != 12 || !got[0] || !got[7] || got[1] || got[8] {
		t.Fatalf("unpackBits=%v", got)
	}
}

func TestRegisters_BigEndian(t *testing.T) {
	raw := packRegisters([]uint16{0x0102, 0xA0B0})
	if !bytes.Equal(raw, []byte{0x01, 0x02, 0xA0, 0xB0}) {
		t.Fatalf("packRegisters=% x", raw)
	}

	regs := unpackRegisters(raw)
	if len(regs) != 2 || regs[0] != 0x0102 || regs[1] != 0xA0B0 {
		t.Fatalf("unpackRegisters=%v", regs)
	}
}
