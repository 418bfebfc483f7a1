package ux

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/prefs"
	"github.com/pixil98/go-lobby/internal/storage"
	"github.com/pixil98/go-lobby/internal/world"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// memKV keeps preference records in memory.
type memKV struct {
	mu    sync.Mutex
	recs  storage.Records
	saves int
}

func (m *memKV) Load() (storage.Records, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recs, nil
}

func (m *memKV) Save(r storage.Records) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = r
	m.saves++
	return nil
}

func newTestStore() *prefs.Store {
	return prefs.NewStore(&memKV{}, EffectNames())
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: testStart}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// manualDriver holds the scheduled task until the test fires it.
type manualDriver struct {
	mu        sync.Mutex
	task      func(context.Context)
	scheduled int
	cancelled int
}

func (d *manualDriver) Schedule(task func(context.Context)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.task = task
	d.scheduled++
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.task = nil
		d.cancelled++
	}
}

// Fire runs the scheduled task once. It reports false when nothing is scheduled.
func (d *manualDriver) Fire(ctx context.Context) bool {
	d.mu.Lock()
	task := d.task
	d.mu.Unlock()
	if task == nil {
		return false
	}
	task(ctx)
	return true
}

func (d *manualDriver) FireN(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		d.Fire(ctx)
	}
}

func (d *manualDriver) Scheduled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.task != nil
}

// testConfig is the default configuration with every periodic subsystem running on
// each tick.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.UX.Panel.UpdateTicks = 1
	cfg.UX.Cosmetics.UpdateTicks = 1
	cfg.Normalize()
	return cfg
}

func connect(t *testing.T, w *world.World, region string, perms ...string) platform.EntityId {
	t.Helper()
	id := platform.NewEntityId()
	err := w.Connect(id, world.Profile{
		Name:        "steve",
		Location:    platform.Location{Region: region},
		Permissions: perms,
	})
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	return id
}

func moveTo(t *testing.T, w *world.World, id platform.EntityId, region string) {
	t.Helper()
	if err := w.Teleport(id, platform.Location{Region: region}); err != nil {
		t.Fatalf("teleporting: %v", err)
	}
}

func member(w *world.World, cfg Config) func(platform.EntityId) bool {
	return NewRegionClassifier(cfg, w, nil).IsMember
}

func presenceOf(w *world.World, cfg Config) []Presence {
	isMember := member(w, cfg)
	var out []Presence
	for _, id := range w.Online() {
		out = append(out, Presence{ID: id, Member: isMember(id)})
	}
	return out
}

func countTagged(items []*platform.Item, tag string) int {
	n := 0
	for _, it := range items {
		if it.HasTag(tag) {
			n++
		}
	}
	return n
}
