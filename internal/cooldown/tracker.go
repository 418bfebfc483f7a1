package cooldown

import (
	"time"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/session"
)

// Tracker gates an action per entity behind an "available again" timestamp.
// The action is permitted iff no entry exists or the entry is not after now.
type Tracker struct {
	until *session.Map[time.Time]
}

func NewTracker() *Tracker {
	return &Tracker{until: session.NewMap[time.Time]()}
}

// Ready reports whether id may act at now without arming the gate.
func (t *Tracker) Ready(id platform.EntityId, now time.Time) bool {
	until, ok := t.until.Get(id)
	return !ok || !until.After(now)
}

// TryAcquire checks the gate and, when permitted, re-arms it until now+window in the
// same critical section. A rejected call leaves the existing entry untouched.
func (t *Tracker) TryAcquire(id platform.EntityId, now time.Time, window time.Duration) bool {
	acquired := false
	t.until.Compute(id, func(until time.Time, ok bool) (time.Time, bool) {
		if ok && until.After(now) {
			return until, true
		}
		acquired = true
		return now.Add(window), true
	})
	return acquired
}

// Arm unconditionally sets the gate for id until now+window.
func (t *Tracker) Arm(id platform.EntityId, now time.Time, window time.Duration) {
	t.until.Set(id, now.Add(window))
}

// Forget drops the entry for id.
func (t *Tracker) Forget(id platform.EntityId) {
	t.until.Delete(id)
}

// Len returns the number of tracked entities.
func (t *Tracker) Len() int {
	return t.until.Len()
}
