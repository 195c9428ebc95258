// internal/door/topology_test.go
package door

import "testing"

func TestNewTopology_Bounds(t *testing.T) {
	cases := []struct {
		devices, channels int
		ok                bool
	}{
		{2, 16, true},
		{1, 1, true},
		{247, 16, true},
		{0, 16, false},
		{248, 16, false},
		{2, 0, false},
		{2, 17, false},
	}

	for _, c := range cases {
		_, err := NewTopology(c.devices, c.channels)
		if (err == nil) != c.ok {
			t.Fatalf("NewTopology(%d,%d) err=%v, want ok=%v", c.devices, c.channels, err, c.ok)
		}
	}
}

func TestLocate_Bijection(t *testing.T) {
	shapes := [][2]int{{1, 1}, {2, 16}, {3, 5}, {7, 8}, {247, 16}}

	for _, s := range shapes {
		topo, err := NewTopology(s[0], s[1])
		if err != nil {
			t.Fatalf("NewTopology: %v", err)
		}

		seen := make(map[[2]int]bool)
		for d := 1; d <= topo.Doors(); d++ {
			dev, ch, err := topo.Locate(d)
			if err != nil {
				t.Fatalf("Locate(%d): %v", d, err)
			}
			if dev < 0 || dev >= topo.Devices || ch < 0 || ch >= topo.Channels {
				t.Fatalf("Locate(%d) = (%d,%d) outside %+v", d, dev, ch, topo)
			}
			key := [2]int{dev, ch}
			if seen[key] {
				t.Fatalf("Locate(%d) = (%d,%d) already produced", d, dev, ch)
			}
			seen[key] = true

			if back := topo.Index(dev, ch); back != d {
				t.Fatalf("Index(Locate(%d)) = %d", d, back)
			}
		}
		if len(seen) != topo.Doors() {
			t.Fatalf("covered %d pairs, want %d", len(seen), topo.Doors())
		}
	}
}

func TestLocate_OutOfRange(t *testing.T) {
	topo, _ := NewTopology(2, 16)

	for _, d := range []int{0, -1, 33} {
		if _, _, err := topo.Locate(d); err == nil {
			t.Fatalf("Locate(%d): expected error", d)
		}
	}
}

func TestSpanAndAddress(t *testing.T) {
	topo, _ := NewTopology(3, 4)

	lo, hi := topo.Span(2)
	if lo != 8 || hi != 12 {
		t.Fatalf("Span(2) = [%d,%d), want [8,12)", lo, hi)
	}
	if a := topo.Address(0); a != 1 {
		t.Fatalf("Address(0) = %d, want 1", a)
	}
}

func TestFormatListAndSet(t *testing.T) {
	buf := []bool{false, true, false, true, true}

	got := FormatList(Set(buf))
	if got != "2,4,5" {
		t.Fatalf("FormatList(Set) = %q, want %q", got, "2,4,5")
	}
	if FormatList(nil) != "" {
		t.Fatalf("FormatList(nil) should be empty")
	}
}
