package ux

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/world"
	"github.com/pixil98/go-testutil"
)

func TestHubMenu_Build(t *testing.T) {
	tests := map[string]struct {
		slot    int
		enabled bool
		expSlot int
	}{
		"configured slot": {slot: 11, enabled: true, expSlot: 11},
		"slot clamped":    {slot: 40, enabled: true, expSlot: MenuSize - 1},
		"negative slot":   {slot: -1, enabled: true, expSlot: 0},
		"quick play off":  {slot: 11, enabled: false, expSlot: -1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			cfg.UX.Menu.QuickPlay.Slot = tt.slot
			cfg.UX.Menu.QuickPlay.Enabled = tt.enabled

			m := NewHubMenu(cfg, world.NewWorld()).Build()
			testutil.AssertEqual(t, "kind", m.Kind, platform.MenuKindHub)
			testutil.AssertEqual(t, "title", m.Title, "§bLobby")
			testutil.AssertEqual(t, "filled", len(m.Items), MenuSize)

			actions := 0
			for slot, it := range m.Items {
				if action, ok := it.Tag(MenuActionTag); ok {
					actions++
					testutil.AssertEqual(t, "action", action, ActionQuickPlay)
					testutil.AssertEqual(t, "slot", slot, tt.expSlot)
				}
			}
			exp := 0
			if tt.enabled {
				exp = 1
			}
			testutil.AssertEqual(t, "action items", actions, exp)
		})
	}
}

func TestHubMenu_HandleClick(t *testing.T) {
	quickPlay := &platform.Item{Material: platform.MaterialCompass}
	quickPlay.SetTag(MenuActionTag, ActionQuickPlay)

	tests := map[string]struct {
		command     string
		item        *platform.Item
		fail        bool
		expCommands []string
		expMessages int
		expClosed   bool
	}{
		"runs command": {
			command:     "sw join",
			item:        quickPlay,
			expCommands: []string{"sw join"},
			expClosed:   true,
		},
		"leading slash stripped": {
			command:     " /sw join solo",
			item:        quickPlay,
			expCommands: []string{"sw join solo"},
			expClosed:   true,
		},
		"blank command ignored": {
			command:   "/ ",
			item:      quickPlay,
			expClosed: true,
		},
		"filler click ignored": {
			command: "sw join",
			item:    &platform.Item{Material: platform.MaterialGrayStainedGlassPane},
		},
		"failing command reported": {
			command:     "sw join",
			item:        quickPlay,
			fail:        true,
			expMessages: 1,
			expClosed:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig()
			cfg.UX.Menu.QuickPlay.Command = tt.command

			w := world.NewWorld()
			id := connect(t, w, "hub")
			if tt.fail {
				w.InjectFault(world.OpRunCommand, func(platform.EntityId) error { return errors.New("unknown command") })
			}

			h := NewHubMenu(cfg, w)
			if err := h.Open(id); err != nil {
				t.Fatalf("opening: %v", err)
			}
			h.HandleClick(ctx, id, tt.item)

			testutil.AssertEqual(t, "closed", w.OpenedMenu(id) == nil, tt.expClosed)
			testutil.AssertEqual(t, "command count", len(w.Commands(id)), len(tt.expCommands))
			for i, c := range tt.expCommands {
				testutil.AssertEqual(t, "command", w.Commands(id)[i], c)
			}
			testutil.AssertEqual(t, "messages", len(w.Messages(id)), tt.expMessages)
		})
	}
}
