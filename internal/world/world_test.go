package world

import (
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-testutil"
)

func TestWorld_Connect(t *testing.T) {
	tests := map[string]struct {
		capacity  int
		preload   int
		duplicate bool
		expErr    error
	}{
		"first session": {capacity: 2},
		"at capacity":   {capacity: 1, preload: 1, expErr: ErrFull},
		"unbounded":     {capacity: 0, preload: 5},
		"duplicate id":  {capacity: 5, duplicate: true, expErr: ErrSessionExists},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := NewWorld(WithCapacity(tt.capacity))
			for range tt.preload {
				if err := w.Connect(platform.NewEntityId(), Profile{}); err != nil {
					t.Fatalf("preloading: %v", err)
				}
			}

			id := platform.NewEntityId()
			if tt.duplicate {
				_ = w.Connect(id, Profile{})
			}

			err := w.Connect(id, Profile{Name: "steve", GameMode: platform.GameModeAdventure})
			testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
			if tt.expErr != nil {
				return
			}
			testutil.AssertEqual(t, "connected", w.Connected(id), true)
			testutil.AssertEqual(t, "name", w.Name(id), "steve")
			testutil.AssertEqual(t, "on ground", w.OnGround(id), true)
		})
	}
}

func TestWorld_DisconnectDropsRelations(t *testing.T) {
	w := NewWorld()
	viewer, target := platform.NewEntityId(), platform.NewEntityId()
	_ = w.Connect(viewer, Profile{})
	_ = w.Connect(target, Profile{})

	ind, err := w.NewIndicator("title", platform.BarColorBlue, platform.BarStyleSolid)
	if err != nil {
		t.Fatalf("creating indicator: %v", err)
	}
	_ = ind.AddViewer(target)
	if err := w.Hide(viewer, target); err != nil {
		t.Fatalf("hiding: %v", err)
	}
	testutil.AssertEqual(t, "hidden before", w.CanSee(viewer, target), false)

	if err := w.Disconnect(target); err != nil {
		t.Fatalf("disconnecting: %v", err)
	}
	testutil.AssertEqual(t, "hidden count", w.HiddenCount(viewer), 0)
	testutil.AssertEqual(t, "indicator viewers", w.Indicators()[0].ViewerCount(), 0)
	testutil.AssertEqual(t, "online", w.Online(), []platform.EntityId{viewer})
	testutil.AssertEqual(t, "second disconnect", errors.Is(w.Disconnect(target), ErrNotConnected), true)
}

func TestWorld_Permissions(t *testing.T) {
	w := NewWorld()
	id := platform.NewEntityId()
	_ = w.Connect(id, Profile{Permissions: []string{"hub.cosmetics.halo"}})

	testutil.AssertEqual(t, "granted", w.HasPermission(id, "hub.cosmetics.halo"), true)
	testutil.AssertEqual(t, "missing", w.HasPermission(id, "hub.cosmetics.wings"), false)

	_ = w.SetPermission(id, "*", true)
	testutil.AssertEqual(t, "wildcard", w.HasPermission(id, "hub.cosmetics.wings"), true)

	_ = w.SetPermission(id, "*", false)
	_ = w.SetPermission(id, "hub.cosmetics.halo", false)
	testutil.AssertEqual(t, "revoked", w.HasPermission(id, "hub.cosmetics.halo"), false)
}

func TestWorld_Slots(t *testing.T) {
	w := NewWorld()
	id := platform.NewEntityId()
	_ = w.Connect(id, Profile{})

	item := platform.NewTaggedItem(platform.MaterialCompass, "tag")
	if err := w.SetSlot(id, 4, item); err != nil {
		t.Fatalf("setting slot: %v", err)
	}
	item.SetTag("tag", "changed")

	got := w.Slot(id, 4)
	v, _ := got.Tag("tag")
	testutil.AssertEqual(t, "stored copy", v, "1")
	testutil.AssertEqual(t, "out of range", errors.Is(w.SetSlot(id, platform.InventorySize, item), ErrInvalidSlot), true)
	testutil.AssertEqual(t, "negative read", w.Slot(id, -1) == nil, true)

	_ = w.ClearInventory(id)
	testutil.AssertEqual(t, "cleared", w.Slot(id, 4) == nil, true)
}

func TestWorld_Faults(t *testing.T) {
	w := NewWorld()
	id := platform.NewEntityId()
	_ = w.Connect(id, Profile{})

	boom := errors.New("boom")
	w.InjectFault(OpSendMessage, func(platform.EntityId) error { return boom })
	testutil.AssertEqual(t, "faulted", errors.Is(w.SendMessage(id, "hi"), boom), true)
	testutil.AssertEqual(t, "not recorded", len(w.Messages(id)), 0)

	w.InjectFault(OpSendMessage, nil)
	if err := w.SendMessage(id, "hi"); err != nil {
		t.Fatalf("sending after clearing fault: %v", err)
	}
	testutil.AssertEqual(t, "recorded", w.Messages(id), []string{"hi"})
}

func TestWorld_Move(t *testing.T) {
	tests := map[string]struct {
		fault     error
		expRegion string
	}{
		"success":  {expRegion: "hub"},
		"rejected": {fault: errors.New("denied"), expRegion: "arena"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := NewWorld()
			id := platform.NewEntityId()
			_ = w.Connect(id, Profile{Location: platform.Location{Region: "arena"}})
			if tt.fault != nil {
				w.InjectFault(OpMove, func(platform.EntityId) error { return tt.fault })
			}

			done := make(chan error, 1)
			w.Move(id, platform.Location{Region: "hub"}, func(err error) { done <- err })

			select {
			case err := <-done:
				testutil.AssertEqual(t, "error", errors.Is(err, tt.fault), true)
			case <-time.After(time.Second):
				t.Fatal("move never completed")
			}

			loc, _ := w.Location(id)
			testutil.AssertEqual(t, "region", loc.Region, tt.expRegion)
		})
	}
}

func TestWorld_TPS(t *testing.T) {
	w := NewWorld()
	_, ok := w.TPS()
	testutil.AssertEqual(t, "unknown at start", ok, false)

	w.SetTPS(19.5)
	tps, ok := w.TPS()
	testutil.AssertEqual(t, "known", ok, true)
	testutil.AssertEqual(t, "value", tps, 19.5)

	w.SetTPS(-1)
	_, ok = w.TPS()
	testutil.AssertEqual(t, "unavailable", ok, false)
}
