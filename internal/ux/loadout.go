package ux

import (
	"context"
	"log/slog"
	"slices"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/session"
)

const (
	NavigationTag       = "hub_navigation"
	VisibilityToggleTag = "hub_visibility_toggle"

	defaultNavigationSlot = 0
	defaultToggleSlot     = 8
)

var (
	defaultNavigationLore = []string{"&7Right click to open the menu."}
	defaultShownLore      = []string{"&7Right click to hide players."}
	defaultHiddenLore     = []string{"&7Right click to show players."}
)

// LoadoutManager keeps the navigation and visibility-toggle placeholders in every
// member's inventory and owns each viewer's "others hidden" state.
type LoadoutManager struct {
	enabled   bool
	cfg       LoadoutConfig
	loreWidth int
	host      platform.Platform
	menu      *HubMenu
	isMember  func(platform.EntityId) bool

	equipped *session.Map[struct{}]
	hidden   *session.Map[struct{}]
}

func NewLoadoutManager(cfg Config, host platform.Platform, menu *HubMenu, isMember func(platform.EntityId) bool) *LoadoutManager {
	return &LoadoutManager{
		enabled:   cfg.Hub.Enabled && cfg.UX.Enabled && cfg.UX.Loadout.Enabled,
		cfg:       cfg.UX.Loadout,
		loreWidth: cfg.UX.LoreWidth,
		host:      host,
		menu:      menu,
		isMember:  isMember,
		equipped:  session.NewMap[struct{}](),
		hidden:    session.NewMap[struct{}](),
	}
}

// Refresh applies a membership change: leaving unwinds everything, joining optionally
// clears the inventory and places the placeholders.
func (m *LoadoutManager) Refresh(ctx context.Context, id platform.EntityId, member bool) {
	if !m.enabled {
		return
	}
	if !member {
		m.Exit(ctx, id)
		return
	}

	if m.cfg.ClearInventory {
		if err := m.host.ClearInventory(id); err != nil {
			slog.WarnContext(ctx, "clearing inventory", "entity", id, "error", err)
		}
	}
	m.ensure(ctx, id)
}

// EnsureItems runs every tick. Members get any missing placeholder back; entities that
// stopped being members since the last call are unwound.
func (m *LoadoutManager) EnsureItems(ctx context.Context, id platform.EntityId, member bool) {
	if !m.enabled {
		return
	}
	if !member {
		if _, ok := m.equipped.Get(id); ok {
			m.Exit(ctx, id)
		}
		return
	}
	m.ensure(ctx, id)
}

// Exit restores id's view of other entities and takes the placeholders away.
func (m *LoadoutManager) Exit(ctx context.Context, id platform.EntityId) {
	m.equipped.Delete(id)
	if _, ok := m.hidden.Delete(id); ok {
		m.applyVisibility(ctx, id, false)
	}
	removeTagged(ctx, m.host, id, NavigationTag, VisibilityToggleTag)
}

// Release forgets id after it disconnected, unwinding its hide relations.
func (m *LoadoutManager) Release(ctx context.Context, id platform.EntityId) {
	m.equipped.Delete(id)
	if _, ok := m.hidden.Delete(id); ok {
		m.applyVisibility(ctx, id, false)
	}
}

// Stop unwinds every viewer and removes every placeholder this manager placed.
func (m *LoadoutManager) Stop(ctx context.Context) {
	for id := range m.hidden.Clear() {
		m.applyVisibility(ctx, id, false)
	}
	for id := range m.equipped.Clear() {
		removeTagged(ctx, m.host, id, NavigationTag, VisibilityToggleTag)
	}
}

// Hidden reports whether id currently hides everyone else.
func (m *LoadoutManager) Hidden(id platform.EntityId) bool {
	_, ok := m.hidden.Get(id)
	return ok
}

// IsPlaceholder reports whether item is one of the loadout placeholders.
func (m *LoadoutManager) IsPlaceholder(item *platform.Item) bool {
	return item.HasTag(NavigationTag) || item.HasTag(VisibilityToggleTag)
}

// HandleActivate reacts to id using item. It returns true when the item was a loadout
// placeholder and the activation was consumed.
func (m *LoadoutManager) HandleActivate(ctx context.Context, id platform.EntityId, item *platform.Item) bool {
	if !m.enabled || item == nil || !m.isMember(id) {
		return false
	}

	switch {
	case item.HasTag(VisibilityToggleTag):
		m.ToggleVisibility(ctx, id)
		return true
	case item.HasTag(NavigationTag):
		m.navigate(ctx, id)
		return true
	}
	return false
}

// ToggleVisibility flips whether id hides every other connected entity and returns the
// new state.
func (m *LoadoutManager) ToggleVisibility(ctx context.Context, id platform.EntityId) bool {
	hidden := false
	m.hidden.Compute(id, func(_ struct{}, ok bool) (struct{}, bool) {
		hidden = !ok
		return struct{}{}, hidden
	})

	m.applyVisibility(ctx, id, hidden)
	if m.cfg.VisibilityToggle.Enabled {
		if err := m.ensureToggle(id, hidden); err != nil {
			slog.WarnContext(ctx, "updating visibility toggle", "entity", id, "error", err)
		}
	}

	if hidden {
		notify(ctx, m.host, id, "&7Players hidden.")
	} else {
		notify(ctx, m.host, id, "&aPlayers shown.")
	}
	return hidden
}

// OnOtherEntityJoined hides newcomer from every member that hides everyone.
func (m *LoadoutManager) OnOtherEntityJoined(ctx context.Context, newcomer platform.EntityId) {
	for _, viewer := range m.hidden.Keys() {
		if viewer == newcomer || !m.isMember(viewer) {
			continue
		}
		if err := m.host.Hide(viewer, newcomer); err != nil {
			slog.DebugContext(ctx, "hiding newcomer", "viewer", viewer, "target", newcomer, "error", err)
		}
	}
}

// applyVisibility hides or shows every other connected entity for viewer. One failing
// target does not stop the rest.
func (m *LoadoutManager) applyVisibility(ctx context.Context, viewer platform.EntityId, hide bool) {
	for _, other := range m.host.Online() {
		if other == viewer {
			continue
		}
		var err error
		if hide {
			err = m.host.Hide(viewer, other)
		} else {
			err = m.host.Show(viewer, other)
		}
		if err != nil {
			slog.DebugContext(ctx, "changing visibility", "viewer", viewer, "target", other, "hide", hide, "error", err)
		}
	}
}

func (m *LoadoutManager) navigate(ctx context.Context, id platform.EntityId) {
	if m.menu.Enabled() {
		if err := m.menu.Open(id); err != nil {
			slog.WarnContext(ctx, "opening hub menu", "entity", id, "error", err)
		}
		return
	}
	m.menu.QuickPlay(ctx, id)
}

func (m *LoadoutManager) ensure(ctx context.Context, id platform.EntityId) {
	m.equipped.Set(id, struct{}{})

	if nav := m.cfg.Navigation; nav.Enabled {
		slot := slotOr(nav.Slot, defaultNavigationSlot)
		if err := ensurePlaceholder(m.host, id, slot, NavigationTag, m.navigationItem()); err != nil {
			slog.WarnContext(ctx, "placing navigation item", "entity", id, "error", err)
		}
	}

	if m.cfg.VisibilityToggle.Enabled {
		if err := m.ensureToggle(id, m.Hidden(id)); err != nil {
			slog.WarnContext(ctx, "placing visibility toggle", "entity", id, "error", err)
		}
	}
}

// ensureToggle places the toggle, or switches an existing one to the variant for hidden.
func (m *LoadoutManager) ensureToggle(id platform.EntityId, hidden bool) error {
	want := m.toggleItem(hidden)
	slot := slotOr(m.cfg.VisibilityToggle.Slot, defaultToggleSlot)

	if existing := m.host.Slot(id, slot); existing.HasTag(VisibilityToggleTag) {
		return m.replaceIfStale(id, slot, existing, want)
	}
	if i, ok := findTagged(m.host, id, VisibilityToggleTag); ok {
		return m.replaceIfStale(id, i, m.host.Slot(id, i), want)
	}
	return m.host.SetSlot(id, slot, want)
}

func (m *LoadoutManager) replaceIfStale(id platform.EntityId, slot int, existing, want *platform.Item) error {
	if existing.Material == want.Material && existing.Name == want.Name && slices.Equal(existing.Lore, want.Lore) {
		return nil
	}
	return m.host.SetSlot(id, slot, want)
}

func (m *LoadoutManager) navigationItem() *platform.Item {
	nav := m.cfg.Navigation
	mat := platform.ParseMaterial(nav.Material, platform.MaterialCompass)
	return placeholder(mat, NavigationTag, nav.Name, nav.Lore, defaultNavigationLore, m.loreWidth)
}

func (m *LoadoutManager) toggleItem(hidden bool) *platform.Item {
	t := m.cfg.VisibilityToggle
	if hidden {
		mat := platform.ParseMaterial(t.Hide.Material, platform.MaterialGrayDye)
		return placeholder(mat, VisibilityToggleTag, t.Hide.Name, t.Hide.Lore, defaultHiddenLore, m.loreWidth)
	}
	mat := platform.ParseMaterial(t.Show.Material, platform.MaterialLimeDye)
	return placeholder(mat, VisibilityToggleTag, t.Show.Name, t.Show.Lore, defaultShownLore, m.loreWidth)
}
