package ux

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/world"
	"github.com/pixil98/go-testutil"
)

func newTestLoadout(cfg Config, w *world.World) *LoadoutManager {
	return NewLoadoutManager(cfg, w, NewHubMenu(cfg, w), member(w, cfg))
}

func TestLoadoutManager_Refresh(t *testing.T) {
	tests := map[string]struct {
		configure   func(*Config)
		prefill     map[int]*platform.Item
		expNavSlot  int
		expToggle   int
		expKept     bool
		expNavCount int
	}{
		"places both items": {
			expNavSlot:  0,
			expToggle:   8,
			expKept:     true,
			expNavCount: 1,
		},
		"clears inventory first": {
			configure:   func(c *Config) { c.UX.Loadout.ClearInventory = true },
			expNavSlot:  0,
			expToggle:   8,
			expKept:     false,
			expNavCount: 1,
		},
		"existing navigation elsewhere is not duplicated": {
			prefill: map[int]*platform.Item{
				20: platform.NewTaggedItem(platform.MaterialCompass, NavigationTag),
			},
			expNavSlot:  20,
			expToggle:   8,
			expKept:     true,
			expNavCount: 1,
		},
		"out of range slots": {
			configure: func(c *Config) {
				c.UX.Loadout.Navigation.Slot = -4
				c.UX.Loadout.VisibilityToggle.Slot = 99
			},
			expNavSlot:  0,
			expToggle:   8,
			expKept:     true,
			expNavCount: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig()
			if tt.configure != nil {
				tt.configure(&cfg)
			}

			w := world.NewWorld()
			id := connect(t, w, "hub")
			_ = w.SetSlot(id, 30, &platform.Item{Material: platform.MaterialChest})
			for slot, it := range tt.prefill {
				_ = w.SetSlot(id, slot, it)
			}

			newTestLoadout(cfg, w).Refresh(ctx, id, true)

			contents := w.Contents(id)
			testutil.AssertEqual(t, "navigation", w.Slot(id, tt.expNavSlot).HasTag(NavigationTag), true)
			testutil.AssertEqual(t, "navigation count", countTagged(contents, NavigationTag), tt.expNavCount)
			testutil.AssertEqual(t, "toggle", w.Slot(id, tt.expToggle).HasTag(VisibilityToggleTag), true)
			testutil.AssertEqual(t, "other item kept", w.Slot(id, 30) != nil, tt.expKept)
		})
	}
}

func TestLoadoutManager_ToggleVisibility(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	w := world.NewWorld()
	viewer := connect(t, w, "hub")
	other := connect(t, w, "hub")
	far := connect(t, w, "arena")

	m := newTestLoadout(cfg, w)
	m.Refresh(ctx, viewer, true)

	hidden := m.ToggleVisibility(ctx, viewer)
	testutil.AssertEqual(t, "hidden", hidden, true)
	testutil.AssertEqual(t, "other hidden", w.CanSee(viewer, other), false)
	testutil.AssertEqual(t, "far hidden", w.CanSee(viewer, far), false)
	testutil.AssertEqual(t, "one directional", w.CanSee(other, viewer), true)

	toggle := w.Slot(viewer, 8)
	testutil.AssertEqual(t, "toggle material", toggle.Material, platform.MaterialGrayDye)
	testutil.AssertEqual(t, "toggle name", toggle.Name, "§7§lPlayers: Hidden")
	testutil.AssertEqual(t, "message", w.Messages(viewer), []string{"§7Players hidden."})

	newcomer := connect(t, w, "hub")
	m.OnOtherEntityJoined(ctx, newcomer)
	testutil.AssertEqual(t, "newcomer hidden", w.CanSee(viewer, newcomer), false)

	hidden = m.ToggleVisibility(ctx, viewer)
	testutil.AssertEqual(t, "shown", hidden, false)
	testutil.AssertEqual(t, "hidden count", w.HiddenCount(viewer), 0)
	testutil.AssertEqual(t, "toggle material", w.Slot(viewer, 8).Material, platform.MaterialLimeDye)
}

func TestLoadoutManager_VisibilityBestEffort(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	w := world.NewWorld()
	viewer := connect(t, w, "hub")
	broken := connect(t, w, "hub")
	fine := connect(t, w, "hub")

	w.InjectFault(world.OpHide, func(target platform.EntityId) error {
		if target == broken {
			return errors.New("cannot hide")
		}
		return nil
	})

	m := newTestLoadout(cfg, w)
	m.ToggleVisibility(ctx, viewer)
	testutil.AssertEqual(t, "broken still visible", w.CanSee(viewer, broken), true)
	testutil.AssertEqual(t, "fine hidden", w.CanSee(viewer, fine), false)
}

func TestLoadoutManager_ExitUnwinds(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	w := world.NewWorld()
	viewer := connect(t, w, "hub")
	other := connect(t, w, "hub")

	m := newTestLoadout(cfg, w)
	m.Refresh(ctx, viewer, true)
	m.ToggleVisibility(ctx, viewer)

	moveTo(t, w, viewer, "arena")
	m.EnsureItems(ctx, viewer, false)

	testutil.AssertEqual(t, "hidden state cleared", m.Hidden(viewer), false)
	testutil.AssertEqual(t, "other visible again", w.CanSee(viewer, other), true)
	testutil.AssertEqual(t, "navigation removed", countTagged(w.Contents(viewer), NavigationTag), 0)
	testutil.AssertEqual(t, "toggle removed", countTagged(w.Contents(viewer), VisibilityToggleTag), 0)
}

func TestLoadoutManager_EnsureItems(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	w := world.NewWorld()
	id := connect(t, w, "hub")
	m := newTestLoadout(cfg, w)

	m.EnsureItems(ctx, id, true)
	_ = w.SetSlot(id, 0, nil)
	m.EnsureItems(ctx, id, true)
	testutil.AssertEqual(t, "navigation restored", w.Slot(id, 0).HasTag(NavigationTag), true)

	outsider := connect(t, w, "arena")
	_ = w.SetSlot(outsider, 0, platform.NewTaggedItem(platform.MaterialCompass, NavigationTag))
	m.EnsureItems(ctx, outsider, false)
	testutil.AssertEqual(t, "never equipped is left alone", w.Slot(outsider, 0).HasTag(NavigationTag), true)
}

func TestLoadoutManager_HandleActivate(t *testing.T) {
	tests := map[string]struct {
		menuEnabled bool
		region      string
		item        *platform.Item
		expHandled  bool
		expMenu     bool
		expCommands []string
	}{
		"navigation opens menu": {
			menuEnabled: true,
			region:      "hub",
			item:        platform.NewTaggedItem(platform.MaterialCompass, NavigationTag),
			expHandled:  true,
			expMenu:     true,
		},
		"navigation runs command without menu": {
			menuEnabled: false,
			region:      "hub",
			item:        platform.NewTaggedItem(platform.MaterialCompass, NavigationTag),
			expHandled:  true,
			expCommands: []string{"sw join"},
		},
		"unrelated item": {
			menuEnabled: true,
			region:      "hub",
			item:        &platform.Item{Material: platform.MaterialChest},
			expHandled:  false,
		},
		"non-member": {
			menuEnabled: true,
			region:      "arena",
			item:        platform.NewTaggedItem(platform.MaterialCompass, NavigationTag),
			expHandled:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig()
			cfg.UX.Menu.Enabled = tt.menuEnabled

			w := world.NewWorld()
			id := connect(t, w, tt.region)

			handled := newTestLoadout(cfg, w).HandleActivate(ctx, id, tt.item)
			testutil.AssertEqual(t, "handled", handled, tt.expHandled)
			testutil.AssertEqual(t, "menu open", w.OpenedMenu(id) != nil, tt.expMenu)
			testutil.AssertEqual(t, "commands", len(w.Commands(id)), len(tt.expCommands))
			for i, c := range tt.expCommands {
				testutil.AssertEqual(t, "command", w.Commands(id)[i], c)
			}
		})
	}
}

func TestLoadoutManager_Stop(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	w := world.NewWorld()
	a := connect(t, w, "hub")
	b := connect(t, w, "hub")

	m := newTestLoadout(cfg, w)
	m.Refresh(ctx, a, true)
	m.Refresh(ctx, b, true)
	m.ToggleVisibility(ctx, a)

	m.Stop(ctx)
	testutil.AssertEqual(t, "a sees b", w.CanSee(a, b), true)
	testutil.AssertEqual(t, "a items", countTagged(w.Contents(a), NavigationTag), 0)
	testutil.AssertEqual(t, "b items", countTagged(w.Contents(b), VisibilityToggleTag), 0)
}
