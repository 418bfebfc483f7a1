package world

import (
	"fmt"

	"github.com/pixil98/go-lobby/internal/platform"
)

// Slot returns a copy of the item in slot, or nil when it is empty.
func (w *World) Slot(id platform.EntityId, slot int) *platform.Item {
	if slot < 0 || slot >= platform.InventorySize {
		return nil
	}
	var it *platform.Item
	w.view(id, func(es *entityState) { it = es.slots[slot].Clone() })
	return it
}

func (w *World) SetSlot(id platform.EntityId, slot int, item *platform.Item) error {
	if slot < 0 || slot >= platform.InventorySize {
		return fmt.Errorf("slot %d: %w", slot, ErrInvalidSlot)
	}
	if err := w.fault(OpSetSlot, id); err != nil {
		return err
	}
	return w.update(id, func(es *entityState) error {
		es.slots[slot] = item.Clone()
		return nil
	})
}

// Contents returns a copy of every slot, indexed by slot number.
func (w *World) Contents(id platform.EntityId) []*platform.Item {
	out := make([]*platform.Item, platform.InventorySize)
	w.view(id, func(es *entityState) {
		for i, it := range es.slots {
			out[i] = it.Clone()
		}
	})
	return out
}

func (w *World) ClearInventory(id platform.EntityId) error {
	return w.update(id, func(es *entityState) error {
		es.slots = [platform.InventorySize]*platform.Item{}
		return nil
	})
}
