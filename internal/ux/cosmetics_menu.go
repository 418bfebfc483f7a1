package ux

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/platform"
)

const cosmeticsMenuTitle = "&bCosmetics"

// BuildMenu lays out one item per cosmetic showing its state for id.
func (m *CosmeticsManager) BuildMenu(id platform.EntityId) *platform.Menu {
	menu := platform.NewMenu(platform.MenuKindCosmetics, display.Colorize(cosmeticsMenuTitle), MenuSize)

	for _, e := range effectOrder {
		spec := effectSpecs[e]
		on := m.Enabled(id, e)

		state := "&cLocked"
		if m.Unlocked(id, e) {
			state = "&7Disabled"
			if on {
				state = "&aEnabled"
			}
		}

		mat := platform.MaterialGrayDye
		if on {
			mat = spec.on
		}

		it := &platform.Item{
			Material: mat,
			Name:     display.Colorize(spec.display + " &8- " + state),
			Lore: []string{
				display.Colorize("&7Right click toggle"),
				display.Colorize("&7Permission: &f" + e.Permission()),
			},
		}
		it.SetTag(CosmeticActionTag, string(e))
		menu.Items[spec.slot] = it
	}
	return menu
}

// OpenMenu shows the cosmetics menu to id.
func (m *CosmeticsManager) OpenMenu(id platform.EntityId) error {
	if err := m.host.OpenMenu(id, m.BuildMenu(id)); err != nil {
		return fmt.Errorf("opening cosmetics menu: %w", err)
	}
	return nil
}

// HandleMenuClick toggles the clicked cosmetic and reopens the menu so it shows the
// new state.
func (m *CosmeticsManager) HandleMenuClick(ctx context.Context, id platform.EntityId, item *platform.Item) {
	raw, ok := item.Tag(CosmeticActionTag)
	if !ok {
		return
	}
	e, err := ParseEffect(raw)
	if err != nil {
		return
	}

	// A denied toggle has already been reported to the entity.
	_, _ = m.Toggle(ctx, id, e)

	if err := m.OpenMenu(id); err != nil {
		slog.WarnContext(ctx, "reopening cosmetics menu", "entity", id, "error", err)
	}
}
