package ux

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/platform"
)

// placeholder builds a tagged item with a styled name and wrapped lore. fallbackLore is
// used when lore is empty.
func placeholder(mat platform.Material, tag, name string, lore, fallbackLore []string, width int) *platform.Item {
	if len(lore) == 0 {
		lore = fallbackLore
	}
	it := platform.NewTaggedItem(mat, tag)
	it.Name = display.Colorize(name)
	it.Lore = display.WrapLore(lore, width)
	return it
}

// slotOr keeps slot inside the inventory: negative values become 0 and values past the
// end become fallback.
func slotOr(slot, fallback int) int {
	if slot < 0 {
		return 0
	}
	if slot >= platform.InventorySize {
		return fallback
	}
	return slot
}

// clampSlot pins slot to the nearest valid inventory index.
func clampSlot(slot int) int {
	return min(platform.InventorySize-1, max(0, slot))
}

// findTagged returns the first slot holding an item tagged with tag.
func findTagged(host platform.Inventories, id platform.EntityId, tag string) (int, bool) {
	for i, it := range host.Contents(id) {
		if it.HasTag(tag) {
			return i, true
		}
	}
	return 0, false
}

// ensurePlaceholder puts want into slot unless an item carrying tag is already held
// anywhere in the inventory.
func ensurePlaceholder(host platform.Inventories, id platform.EntityId, slot int, tag string, want *platform.Item) error {
	if host.Slot(id, slot).HasTag(tag) {
		return nil
	}
	if _, ok := findTagged(host, id, tag); ok {
		return nil
	}
	return host.SetSlot(id, slot, want)
}

// removeTagged empties every slot holding an item with one of tags.
func removeTagged(ctx context.Context, host platform.Inventories, id platform.EntityId, tags ...string) {
	for i, it := range host.Contents(id) {
		if it == nil {
			continue
		}
		for _, tag := range tags {
			if !it.HasTag(tag) {
				continue
			}
			if err := host.SetSlot(id, i, nil); err != nil {
				slog.DebugContext(ctx, "removing placeholder", "entity", id, "slot", i, "error", err)
			}
			break
		}
	}
}

type commandRunner interface {
	platform.Menus
	platform.Messenger
}

// runCommand executes command on behalf of id. A leading slash is dropped and blank
// commands are ignored.
func runCommand(ctx context.Context, host commandRunner, id platform.EntityId, command string) {
	cmd := strings.TrimPrefix(strings.TrimSpace(command), "/")
	if strings.TrimSpace(cmd) == "" {
		return
	}
	if err := host.RunCommand(id, cmd); err != nil {
		slog.WarnContext(ctx, "running command", "entity", id, "command", cmd, "error", err)
		notify(ctx, host, id, "&cCould not run command: /"+cmd)
	}
}

// notify sends a styled message to id. Delivery failures are only logged.
func notify(ctx context.Context, host platform.Messenger, id platform.EntityId, msg string) {
	if err := host.SendMessage(id, display.Colorize(msg)); err != nil {
		slog.DebugContext(ctx, "sending message", "entity", id, "error", err)
	}
}
