package driver

import (
	"context"
	"slices"
	"sync"
	"time"
)

const (
	DefaultTickLength = time.Millisecond * 50
)

// Driver runs every scheduled task once per tick, in scheduling order, on the goroutine
// that called Start.
type Driver struct {
	tickLength time.Duration

	mu    sync.Mutex
	next  uint64
	tasks map[uint64]func(context.Context)
}

func NewDriver(opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tasks:      make(map[uint64]func(context.Context)),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Schedule adds task to every following tick. The returned cancel removes it without
// waiting for a run in progress, so a task may cancel itself.
func (d *Driver) Schedule(task func(context.Context)) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.next++
	id := d.next
	d.tasks[id] = task

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.tasks, id)
	}
}

// Len returns the number of scheduled tasks.
func (d *Driver) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs each scheduled task once. A task cancelled by an earlier one in the same
// tick is skipped.
func (d *Driver) Tick(ctx context.Context) {
	d.mu.Lock()
	ids := make([]uint64, 0, len(d.tasks))
	for id := range d.tasks {
		ids = append(ids, id)
	}
	d.mu.Unlock()
	slices.Sort(ids)

	for _, id := range ids {
		d.mu.Lock()
		task, ok := d.tasks[id]
		d.mu.Unlock()
		if !ok {
			continue
		}
		task(ctx)
	}
}
