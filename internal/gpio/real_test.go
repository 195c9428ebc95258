//go:build linux

package gpio

import (
	"reflect"
	"testing"

	"github.com/warthog618/go-gpiocdev"
)

func TestDirectionRequestsConfiguredLevel(t *testing.T) {
	if got := direction(true); !reflect.DeepEqual(got, gpiocdev.OutputOption{1}) {
		t.Errorf("direction(true) = %v, want [1]", got)
	}
	if got := direction(false); !reflect.DeepEqual(got, gpiocdev.OutputOption{0}) {
		t.Errorf("direction(false) = %v, want [0]", got)
	}
}
