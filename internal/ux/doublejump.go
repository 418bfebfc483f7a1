package ux

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/go-lobby/internal/cooldown"
	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/session"
)

// TickDuration is the platform's nominal tick, used to convert tick counts to time.
const TickDuration = 50 * time.Millisecond

// DoubleJumpManager turns a flight toggle into a jump boost for grounded members.
type DoubleJumpManager struct {
	enabled   bool
	cfg       DoubleJumpConfig
	host      platform.Platform
	isMember  func(platform.EntityId) bool
	now       func() time.Time
	cooldowns *cooldown.Tracker

	granted *session.Map[struct{}]
}

func NewDoubleJumpManager(cfg Config, host platform.Platform, isMember func(platform.EntityId) bool, now func() time.Time) *DoubleJumpManager {
	return &DoubleJumpManager{
		enabled:   cfg.Hub.Enabled && cfg.UX.Enabled && cfg.UX.DoubleJump.Enabled,
		cfg:       cfg.UX.DoubleJump,
		host:      host,
		isMember:  isMember,
		now:       now,
		cooldowns: cooldown.NewTracker(),
		granted:   session.NewMap[struct{}](),
	}
}

func (m *DoubleJumpManager) canUse(id platform.EntityId) bool {
	if !m.enabled || !m.isMember(id) {
		return false
	}
	switch m.host.GameMode(id) {
	case platform.GameModeCreative, platform.GameModeSpectator:
		return false
	}
	return true
}

// EnsureFlight allows flight for a grounded member whose cooldown has passed, so the
// next jump key press arrives as a flight toggle.
func (m *DoubleJumpManager) EnsureFlight(ctx context.Context, id platform.EntityId) {
	if !m.canUse(id) {
		return
	}
	if !m.host.OnGround(id) || !m.cooldowns.Ready(id, m.now()) || m.host.AllowFlight(id) {
		return
	}

	if err := m.host.SetAllowFlight(id, true); err != nil {
		slog.DebugContext(ctx, "allowing flight", "entity", id, "error", err)
		return
	}
	m.granted.Set(id, struct{}{})
}

// HandleMove re-arms flight after a landing.
func (m *DoubleJumpManager) HandleMove(ctx context.Context, id platform.EntityId) {
	m.EnsureFlight(ctx, id)
}

// HandleFlightToggle consumes a flight toggle from a member and applies the boost. It
// returns true when the platform should cancel the toggle.
func (m *DoubleJumpManager) HandleFlightToggle(ctx context.Context, id platform.EntityId) bool {
	if !m.canUse(id) {
		return false
	}

	if err := m.host.SetFlying(id, false); err != nil {
		slog.DebugContext(ctx, "cancelling flight", "entity", id, "error", err)
	}
	if err := m.host.SetAllowFlight(id, false); err != nil {
		slog.DebugContext(ctx, "revoking flight", "entity", id, "error", err)
	}
	m.granted.Delete(id)

	window := time.Duration(m.cfg.CooldownTicks) * TickDuration
	if !m.cooldowns.TryAcquire(id, m.now(), window) {
		return true
	}

	loc, ok := m.host.Location(id)
	if !ok {
		return true
	}
	v := loc.PlanarHeading().Scale(m.cfg.VelocityForward)
	v.Y = m.cfg.VelocityY
	if err := m.host.SetVelocity(id, v); err != nil {
		slog.WarnContext(ctx, "applying double jump", "entity", id, "error", err)
	}

	if s := m.cfg.Sound; s.Enabled {
		sound := platform.ParseSound(s.Name, platform.SoundBatTakeoff)
		if err := m.host.PlaySound(id, sound, s.Volume, s.Pitch); err != nil {
			slog.DebugContext(ctx, "playing double jump sound", "entity", id, "error", err)
		}
	}
	return true
}

// Refresh takes back flight granted here once id is no longer a member.
func (m *DoubleJumpManager) Refresh(ctx context.Context, id platform.EntityId, member bool) {
	if member {
		return
	}
	if _, ok := m.granted.Delete(id); !ok {
		return
	}
	if err := m.host.SetAllowFlight(id, false); err != nil {
		slog.DebugContext(ctx, "revoking flight", "entity", id, "error", err)
	}
}

// Release forgets id's cooldown.
func (m *DoubleJumpManager) Release(_ context.Context, id platform.EntityId) {
	m.cooldowns.Forget(id)
	m.granted.Delete(id)
}

// Stop takes back every flight grant.
func (m *DoubleJumpManager) Stop(ctx context.Context) {
	for id := range m.granted.Clear() {
		if err := m.host.SetAllowFlight(id, false); err != nil {
			slog.DebugContext(ctx, "revoking flight", "entity", id, "error", err)
		}
	}
}
