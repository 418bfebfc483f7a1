package world

import (
	"fmt"
	"slices"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/platform"
)

// ParticleBurst records one SpawnParticles call.
type ParticleBurst struct {
	Region   string
	Particle platform.Particle
	At       platform.Vec3
	Count    int
	Spread   platform.Vec3
	Speed    float64
}

// SoundEvent records one PlaySound call.
type SoundEvent struct {
	Sound  platform.Sound
	Volume float64
	Pitch  float64
}

func (w *World) Hide(viewer, target platform.EntityId) error {
	if err := w.fault(OpHide, target); err != nil {
		return err
	}
	if !w.Connected(target) {
		return fmt.Errorf("hiding %s: %w", target, ErrNotConnected)
	}
	return w.update(viewer, func(es *entityState) error {
		es.hidden[target] = true
		return nil
	})
}

func (w *World) Show(viewer, target platform.EntityId) error {
	if err := w.fault(OpShow, target); err != nil {
		return err
	}
	return w.update(viewer, func(es *entityState) error {
		delete(es.hidden, target)
		return nil
	})
}

// CanSee reports whether viewer has no hide relation towards target.
func (w *World) CanSee(viewer, target platform.EntityId) bool {
	hidden := false
	w.view(viewer, func(es *entityState) { hidden = es.hidden[target] })
	return !hidden
}

// HiddenCount returns how many entities viewer currently hides.
func (w *World) HiddenCount(viewer platform.EntityId) int {
	n := 0
	w.view(viewer, func(es *entityState) { n = len(es.hidden) })
	return n
}

func (w *World) SpawnParticles(region string, p platform.Particle, at platform.Vec3, count int, spread platform.Vec3, speed float64) error {
	if err := w.fault(OpSpawnParticles, platform.EntityId{}); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.particles = append(w.particles, ParticleBurst{
		Region:   region,
		Particle: p,
		At:       at,
		Count:    count,
		Spread:   spread,
		Speed:    speed,
	})
	return nil
}

// Particles returns every burst spawned so far.
func (w *World) Particles() []ParticleBurst {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.particles)
}

// ResetParticles forgets every recorded burst.
func (w *World) ResetParticles() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.particles = nil
}

func (w *World) PlaySound(id platform.EntityId, s platform.Sound, volume, pitch float64) error {
	return w.update(id, func(es *entityState) error {
		es.sounds = append(es.sounds, SoundEvent{Sound: s, Volume: volume, Pitch: pitch})
		return nil
	})
}

func (w *World) Sounds(id platform.EntityId) []SoundEvent {
	var out []SoundEvent
	w.view(id, func(es *entityState) { out = slices.Clone(es.sounds) })
	return out
}

func (w *World) SetVelocity(id platform.EntityId, v platform.Vec3) error {
	if err := w.fault(OpSetVelocity, id); err != nil {
		return err
	}
	return w.update(id, func(es *entityState) error {
		es.velocity = v
		return nil
	})
}

func (w *World) Velocity(id platform.EntityId) platform.Vec3 {
	var v platform.Vec3
	w.view(id, func(es *entityState) { v = es.velocity })
	return v
}

func (w *World) OnGround(id platform.EntityId) bool {
	var ok bool
	w.view(id, func(es *entityState) { ok = es.onGround })
	return ok
}

func (w *World) AllowFlight(id platform.EntityId) bool {
	var ok bool
	w.view(id, func(es *entityState) { ok = es.allowFlight })
	return ok
}

func (w *World) SetAllowFlight(id platform.EntityId, allow bool) error {
	return w.update(id, func(es *entityState) error {
		es.allowFlight = allow
		if !allow {
			es.flying = false
		}
		return nil
	})
}

func (w *World) SetFlying(id platform.EntityId, flying bool) error {
	return w.update(id, func(es *entityState) error {
		es.flying = flying
		return nil
	})
}

func (w *World) Flying(id platform.EntityId) bool {
	var ok bool
	w.view(id, func(es *entityState) { ok = es.flying })
	return ok
}

// Move relocates the entity on its own goroutine and reports the outcome through done.
func (w *World) Move(id platform.EntityId, target platform.Location, done func(error)) {
	go func() {
		err := w.fault(OpMove, id)
		if err == nil {
			err = w.Teleport(id, target)
		}
		if done != nil {
			done(err)
		}
	}()
}

// SendMessage records msg and forwards it, without style codes, to the publisher.
func (w *World) SendMessage(id platform.EntityId, msg string) error {
	if err := w.fault(OpSendMessage, id); err != nil {
		return err
	}
	err := w.update(id, func(es *entityState) error {
		es.messages = append(es.messages, msg)
		return nil
	})
	if err != nil {
		return err
	}

	if w.publisher != nil {
		if err := w.publisher.PublishToEntity(id, []byte(display.StripStyles(msg))); err != nil {
			return fmt.Errorf("publishing message: %w", err)
		}
	}
	return nil
}

func (w *World) Messages(id platform.EntityId) []string {
	var out []string
	w.view(id, func(es *entityState) { out = slices.Clone(es.messages) })
	return out
}

func (w *World) OpenMenu(id platform.EntityId, m *platform.Menu) error {
	if err := w.fault(OpOpenMenu, id); err != nil {
		return err
	}
	return w.update(id, func(es *entityState) error {
		es.menu = m
		return nil
	})
}

func (w *World) CloseMenu(id platform.EntityId) error {
	return w.update(id, func(es *entityState) error {
		es.menu = nil
		return nil
	})
}

// OpenedMenu returns the menu id is looking at, if any.
func (w *World) OpenedMenu(id platform.EntityId) *platform.Menu {
	var m *platform.Menu
	w.view(id, func(es *entityState) { m = es.menu })
	return m
}

func (w *World) RunCommand(id platform.EntityId, command string) error {
	if err := w.fault(OpRunCommand, id); err != nil {
		return err
	}
	return w.update(id, func(es *entityState) error {
		es.commands = append(es.commands, command)
		return nil
	})
}

func (w *World) Commands(id platform.EntityId) []string {
	var out []string
	w.view(id, func(es *entityState) { out = slices.Clone(es.commands) })
	return out
}
