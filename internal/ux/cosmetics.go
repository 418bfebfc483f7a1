package ux

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pixil98/go-lobby/internal/cooldown"
	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/prefs"
	"github.com/pixil98/go-lobby/internal/session"
	"golang.org/x/text/cases"
)

// Effect is one toggleable cosmetic.
type Effect string

const (
	EffectWings  Effect = "wings"
	EffectTrail  Effect = "trail"
	EffectHalo   Effect = "halo"
	EffectAura   Effect = "aura"
	EffectGadget Effect = "gadget"
)

// PermissionPrefix followed by the effect id unlocks an effect.
const PermissionPrefix = "hub.cosmetics."

const (
	CosmeticsMenuTag  = "hub_cosmetics_menu"
	GadgetTag         = "hub_gadget"
	CosmeticActionTag = "cosmetics_action"
)

var (
	defaultMenuItemLore = []string{"&7Right click to open"}
	defaultGadgetLore   = []string{"&7Right click", "&7Small boost + particles"}

	gadgetSpread = platform.Vec3{X: 0.35, Y: 0.35, Z: 0.35}
)

const (
	gadgetHeight = 1.0
	gadgetSpeed  = 0.02
)

type effectSpec struct {
	slot    int
	on      platform.Material
	display string
}

var effectOrder = []Effect{EffectWings, EffectTrail, EffectHalo, EffectAura, EffectGadget}

var effectSpecs = map[Effect]effectSpec{
	EffectWings:  {slot: 10, on: platform.MaterialFeather, display: "&d&lWings"},
	EffectTrail:  {slot: 11, on: platform.MaterialString, display: "&b&lTrail"},
	EffectHalo:   {slot: 12, on: platform.MaterialGoldNugget, display: "&e&lHalo"},
	EffectAura:   {slot: 13, on: platform.MaterialBlazePowder, display: "&5&lAura"},
	EffectGadget: {slot: 14, on: platform.MaterialBlazeRod, display: "&6&lGadget"},
}

// Effects returns every cosmetic in menu order.
func Effects() []Effect {
	return append([]Effect(nil), effectOrder...)
}

// EffectNames returns the persisted flag name of every cosmetic.
func EffectNames() []string {
	names := make([]string, len(effectOrder))
	for i, e := range effectOrder {
		names[i] = string(e)
	}
	return names
}

// ParseEffect accepts an effect id in any case.
func ParseEffect(raw string) (Effect, error) {
	e := Effect(cases.Fold().String(strings.TrimSpace(raw)))
	if _, ok := effectSpecs[e]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEffect, raw)
	}
	return e, nil
}

// Permission is the unlock permission for e.
func (e Effect) Permission() string {
	return PermissionPrefix + string(e)
}

// CosmeticsManager renders each member's enabled cosmetics and owns the toggles, the
// per-entity trail and aura samples, and the gadget cooldown.
type CosmeticsManager struct {
	enabled   bool
	cfg       CosmeticsConfig
	loreWidth int
	host      platform.Platform
	prefs     *prefs.Store
	cooldowns *cooldown.Tracker
	bypass    platform.BypassPredicate
	now       func() time.Time

	trail    *session.Map[platform.Location]
	aura     *session.Map[float64]
	equipped *session.Map[struct{}]
}

func NewCosmeticsManager(cfg Config, host platform.Platform, store *prefs.Store, bypass platform.BypassPredicate, now func() time.Time) *CosmeticsManager {
	return &CosmeticsManager{
		enabled:   cfg.UX.Enabled && cfg.UX.Cosmetics.Enabled,
		cfg:       cfg.UX.Cosmetics,
		loreWidth: cfg.UX.LoreWidth,
		host:      host,
		prefs:     store,
		cooldowns: cooldown.NewTracker(),
		bypass:    bypass,
		now:       now,
		trail:     session.NewMap[platform.Location](),
		aura:      session.NewMap[float64](),
		equipped:  session.NewMap[struct{}](),
	}
}

// Tick keeps the placeholders in place for members and draws their enabled effects.
// Everyone else loses their samples, cooldown and placeholders.
func (m *CosmeticsManager) Tick(ctx context.Context, presence []Presence) error {
	if !m.enabled {
		return nil
	}

	now := m.now()
	for _, p := range presence {
		if !p.Member || m.bypassed(p.ID) {
			m.Exit(ctx, p.ID)
			continue
		}

		m.equipped.Set(p.ID, struct{}{})
		if err := m.ensureItems(p.ID); err != nil {
			slog.WarnContext(ctx, "placing cosmetics items", "entity", p.ID, "error", err)
		}

		loc, ok := m.host.Location(p.ID)
		if !ok {
			continue
		}
		if err := m.render(p.ID, loc, now); err != nil {
			slog.WarnContext(ctx, "rendering cosmetics", "entity", p.ID, "error", err)
		}
	}
	return nil
}

// Refresh applies a membership change outside the tick.
func (m *CosmeticsManager) Refresh(ctx context.Context, id platform.EntityId, member bool) {
	if !member || m.bypassed(id) {
		m.Exit(ctx, id)
	}
}

// Exit drops id's samples and cooldown and removes its placeholders.
func (m *CosmeticsManager) Exit(ctx context.Context, id platform.EntityId) {
	m.Release(ctx, id)
	removeTagged(ctx, m.host, id, CosmeticsMenuTag, GadgetTag)
}

// Release drops id's samples and cooldown.
func (m *CosmeticsManager) Release(_ context.Context, id platform.EntityId) {
	m.trail.Delete(id)
	m.aura.Delete(id)
	m.cooldowns.Forget(id)
	m.equipped.Delete(id)
}

// Stop removes every placeholder and asks for the toggles to be persisted.
func (m *CosmeticsManager) Stop(ctx context.Context) {
	for id := range m.equipped.Clear() {
		removeTagged(ctx, m.host, id, CosmeticsMenuTag, GadgetTag)
	}
	m.trail.Clear()
	m.aura.Clear()
	m.prefs.ScheduleFlush()
}

// Enabled reports whether e is switched on for id, regardless of permission.
func (m *CosmeticsManager) Enabled(id platform.EntityId, e Effect) bool {
	return m.prefs.Enabled(id, string(e))
}

// Unlocked reports whether id holds the permission for e.
func (m *CosmeticsManager) Unlocked(id platform.EntityId, e Effect) bool {
	return m.host.HasPermission(id, e.Permission())
}

// IsPlaceholder reports whether item is the cosmetics menu item or the gadget.
func (m *CosmeticsManager) IsPlaceholder(item *platform.Item) bool {
	return item.HasTag(CosmeticsMenuTag) || item.HasTag(GadgetTag)
}

// Toggle flips e for id and schedules a debounced save. Without the unlock permission
// nothing changes and id is told so.
func (m *CosmeticsManager) Toggle(ctx context.Context, id platform.EntityId, e Effect) (bool, error) {
	if _, ok := effectSpecs[e]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownEffect, e)
	}
	if !m.Unlocked(id, e) {
		notify(ctx, m.host, id, "&c"+ErrCosmeticLocked.Message)
		return m.Enabled(id, e), ErrCosmeticLocked
	}

	on := m.prefs.Toggle(id, string(e))
	if e == EffectGadget {
		var err error
		if on {
			err = m.ensureGadget(id)
		} else {
			err = m.removeGadget(id)
		}
		if err != nil {
			slog.WarnContext(ctx, "updating gadget item", "entity", id, "error", err)
		}
	}

	m.prefs.ScheduleFlush()
	return on, nil
}

// HandleInteract reacts to id using item. It returns true when the item was a cosmetics
// placeholder.
func (m *CosmeticsManager) HandleInteract(ctx context.Context, id platform.EntityId, item *platform.Item) bool {
	if !m.enabled || item == nil || m.bypassed(id) {
		return false
	}

	switch {
	case item.HasTag(CosmeticsMenuTag):
		if err := m.OpenMenu(id); err != nil {
			slog.WarnContext(ctx, "opening cosmetics menu", "entity", id, "error", err)
		}
		return true
	case item.HasTag(GadgetTag):
		m.UseGadget(ctx, id)
		return true
	}
	return false
}

// UseGadget launches id forward and up with a particle burst. The cooldown is armed
// before anything else happens; it returns false when the gadget is off or cooling down.
func (m *CosmeticsManager) UseGadget(ctx context.Context, id platform.EntityId) bool {
	if !m.active(id, EffectGadget) {
		return false
	}

	g := m.cfg.Gadget
	window := time.Duration(g.CooldownMs) * time.Millisecond
	if !m.cooldowns.TryAcquire(id, m.now(), window) {
		return false
	}

	loc, ok := m.host.Location(id)
	if !ok {
		return true
	}

	v := loc.PlanarHeading().Scale(g.VelocityForward)
	v.Y = g.VelocityY
	if err := m.host.SetVelocity(id, v); err != nil {
		slog.WarnContext(ctx, "launching gadget", "entity", id, "error", err)
	}

	particle := platform.ParseParticle(g.Particle, platform.ParticleFirework)
	at := loc.Pos.Add(platform.Vec3{Y: gadgetHeight})
	if err := m.host.SpawnParticles(loc.Region, particle, at, g.ParticleCount, gadgetSpread, gadgetSpeed); err != nil {
		slog.DebugContext(ctx, "spawning gadget particles", "entity", id, "error", err)
	}
	if err := m.host.PlaySound(id, platform.SoundFireworkLaunch, 1.0, 1.2); err != nil {
		slog.DebugContext(ctx, "playing gadget sound", "entity", id, "error", err)
	}
	return true
}

func (m *CosmeticsManager) bypassed(id platform.EntityId) bool {
	return m.bypass != nil && m.bypass(id)
}

// active is true when e is both switched on and still unlocked.
func (m *CosmeticsManager) active(id platform.EntityId, e Effect) bool {
	return m.Enabled(id, e) && m.Unlocked(id, e)
}

func (m *CosmeticsManager) render(id platform.EntityId, loc platform.Location, now time.Time) error {
	parts := m.cfg.Particles
	var errs []error

	if m.active(id, EffectWings) {
		p := platform.ParseParticle(parts.Wings, platform.ParticleEndRod)
		errs = append(errs, m.spawnEach(loc.Region, p, wingPoints(loc, m.cfg.Wings, now)))
	}
	if m.active(id, EffectHalo) {
		p := platform.ParseParticle(parts.Halo, platform.ParticleFirework)
		errs = append(errs, m.spawnEach(loc.Region, p, haloPoints(loc.Pos, m.cfg.Halo, now)))
	}
	if m.active(id, EffectAura) {
		phase := m.aura.Compute(id, func(cur float64, ok bool) (float64, bool) {
			if !ok {
				return 0, true
			}
			return cur + auraStep, true
		})
		p := platform.ParseParticle(parts.Aura, platform.ParticleEnchant)
		errs = append(errs, m.spawnEach(loc.Region, p, auraPoints(loc.Pos, phase)))
	}
	if m.active(id, EffectTrail) {
		last, had := m.trail.Get(id)
		m.trail.Set(id, loc)
		if had && trailStep(last, loc) {
			p := platform.ParseParticle(parts.Trail, platform.ParticleCloud)
			at := loc.Pos.Add(platform.Vec3{Y: trailHeight})
			errs = append(errs, m.host.SpawnParticles(loc.Region, p, at, trailCount, trailSpread, 0))
		}
	} else {
		m.trail.Delete(id)
	}

	return errors.Join(errs...)
}

func (m *CosmeticsManager) spawnEach(region string, p platform.Particle, points []platform.Vec3) error {
	for _, at := range points {
		if err := m.host.SpawnParticles(region, p, at, 1, platform.Vec3{}, 0); err != nil {
			return err
		}
	}
	return nil
}

func (m *CosmeticsManager) ensureItems(id platform.EntityId) error {
	var errs []error
	if mi := m.cfg.MenuItem; mi.Enabled {
		errs = append(errs, ensurePlaceholder(m.host, id, clampSlot(mi.Slot), CosmeticsMenuTag, m.menuItem()))
	}
	if m.active(id, EffectGadget) {
		errs = append(errs, m.ensureGadget(id))
	}
	return errors.Join(errs...)
}

func (m *CosmeticsManager) ensureGadget(id platform.EntityId) error {
	slot := clampSlot(m.cfg.Gadget.Slot)
	if m.host.Slot(id, slot).HasTag(GadgetTag) {
		return nil
	}
	return m.host.SetSlot(id, slot, m.gadgetItem())
}

func (m *CosmeticsManager) removeGadget(id platform.EntityId) error {
	slot := clampSlot(m.cfg.Gadget.Slot)
	if !m.host.Slot(id, slot).HasTag(GadgetTag) {
		return nil
	}
	return m.host.SetSlot(id, slot, nil)
}

func (m *CosmeticsManager) menuItem() *platform.Item {
	mi := m.cfg.MenuItem
	mat := platform.ParseMaterial(mi.Material, platform.MaterialEnderChest)
	return placeholder(mat, CosmeticsMenuTag, mi.Name, mi.Lore, defaultMenuItemLore, m.loreWidth)
}

func (m *CosmeticsManager) gadgetItem() *platform.Item {
	g := m.cfg.Gadget
	mat := platform.ParseMaterial(g.Material, platform.MaterialBlazeRod)
	return placeholder(mat, GadgetTag, g.Name, g.Lore, defaultGadgetLore, m.loreWidth)
}
