package ux

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/platform"
)

const (
	MenuSize = 27

	// MenuActionTag carries the action id of a clickable hub menu item.
	MenuActionTag   = "hub_menu_action"
	ActionQuickPlay = "quick_play"
)

// HubMenu is the container opened by the navigation placeholder.
type HubMenu struct {
	cfg       MenuConfig
	loreWidth int
	host      commandRunner
}

func NewHubMenu(cfg Config, host commandRunner) *HubMenu {
	return &HubMenu{
		cfg:       cfg.UX.Menu,
		loreWidth: cfg.UX.LoreWidth,
		host:      host,
	}
}

func (h *HubMenu) Enabled() bool {
	return h.cfg.Enabled
}

// Build lays out the menu: filler panes everywhere plus the quick play action.
func (h *HubMenu) Build() *platform.Menu {
	m := platform.NewMenu(platform.MenuKindHub, display.Colorize(h.cfg.Title), MenuSize)

	filler := &platform.Item{Material: platform.MaterialGrayStainedGlassPane, Name: " "}
	for i := 0; i < m.Size; i++ {
		m.Items[i] = filler.Clone()
	}

	qp := h.cfg.QuickPlay
	if qp.Enabled {
		it := &platform.Item{
			Material: platform.MaterialCompass,
			Name:     display.Colorize(qp.Name),
			Lore:     display.WrapLore(qp.Lore, h.loreWidth),
		}
		it.SetTag(MenuActionTag, ActionQuickPlay)
		m.Items[min(m.Size-1, max(0, qp.Slot))] = it
	}
	return m
}

// Open shows the menu to id.
func (h *HubMenu) Open(id platform.EntityId) error {
	if !h.cfg.Enabled {
		return nil
	}
	if err := h.host.OpenMenu(id, h.Build()); err != nil {
		return fmt.Errorf("opening hub menu: %w", err)
	}
	return nil
}

// HandleClick runs the action of a clicked item. Any click on an action item closes
// the menu.
func (h *HubMenu) HandleClick(ctx context.Context, id platform.EntityId, item *platform.Item) {
	action, ok := item.Tag(MenuActionTag)
	if !ok {
		return
	}
	if err := h.host.CloseMenu(id); err != nil {
		slog.DebugContext(ctx, "closing hub menu", "entity", id, "error", err)
	}
	if action == ActionQuickPlay {
		h.QuickPlay(ctx, id)
	}
}

// QuickPlay runs the configured quick play command.
func (h *HubMenu) QuickPlay(ctx context.Context, id platform.EntityId) {
	runCommand(ctx, h.host, id, h.cfg.QuickPlay.Command)
}
