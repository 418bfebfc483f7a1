package world

import "github.com/pixil98/go-lobby/internal/platform"

// Op names a platform call that can be made to fail.
type Op string

const (
	OpNewSurface       Op = "new_surface"
	OpSetActiveSurface Op = "set_active_surface"
	OpNewIndicator     Op = "new_indicator"
	OpSetSlot          Op = "set_slot"
	OpHide             Op = "hide"
	OpShow             Op = "show"
	OpSpawnParticles   Op = "spawn_particles"
	OpSetVelocity      Op = "set_velocity"
	OpMove             Op = "move"
	OpSendMessage      Op = "send_message"
	OpOpenMenu         Op = "open_menu"
	OpRunCommand       Op = "run_command"
)

// Fault decides whether a call fails. id is the entity the call targets; for
// visibility calls it is the hidden or shown entity.
type Fault func(id platform.EntityId) error

// InjectFault makes every later call of op consult f. A nil f clears the fault.
func (w *World) InjectFault(op Op, f Fault) {
	w.faultMu.Lock()
	defer w.faultMu.Unlock()

	if f == nil {
		delete(w.faults, op)
		return
	}
	w.faults[op] = f
}

func (w *World) fault(op Op, id platform.EntityId) error {
	w.faultMu.Lock()
	f, ok := w.faults[op]
	w.faultMu.Unlock()

	if !ok {
		return nil
	}
	return f(id)
}
