package cooldown

import (
	"testing"
	"time"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-testutil"
)

func TestTracker_TryAcquire(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := 2000 * time.Millisecond

	tests := map[string]struct {
		offsets []time.Duration
		exp     []bool
	}{
		"first use is permitted": {
			offsets: []time.Duration{0},
			exp:     []bool{true},
		},
		"inside window is rejected": {
			offsets: []time.Duration{0, 1000 * time.Millisecond},
			exp:     []bool{true, false},
		},
		"after window is permitted": {
			offsets: []time.Duration{0, 1000 * time.Millisecond, 2001 * time.Millisecond},
			exp:     []bool{true, false, true},
		},
		"exactly at expiry is permitted": {
			offsets: []time.Duration{0, 2000 * time.Millisecond},
			exp:     []bool{true, true},
		},
		"rejection does not extend the window": {
			offsets: []time.Duration{0, 1999 * time.Millisecond, 2000 * time.Millisecond},
			exp:     []bool{true, false, true},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tr := NewTracker()
			id := platform.NewEntityId()

			for i, off := range tt.offsets {
				got := tr.TryAcquire(id, start.Add(off), window)
				testutil.AssertEqual(t, "acquire "+off.String(), got, tt.exp[i])
			}
		})
	}
}

func TestTracker_Forget(t *testing.T) {
	now := time.Now()
	tr := NewTracker()
	id := platform.NewEntityId()

	tr.Arm(id, now, time.Minute)
	testutil.AssertEqual(t, "ready while armed", tr.Ready(id, now), false)

	tr.Forget(id)
	testutil.AssertEqual(t, "ready after forget", tr.Ready(id, now), true)
	testutil.AssertEqual(t, "len", tr.Len(), 0)
}
