package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-lobby/internal/driver"
	"github.com/pixil98/go-lobby/internal/messaging"
	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/prefs"
	"github.com/pixil98/go-lobby/internal/ux"
	"github.com/pixil98/go-lobby/internal/world"
	"github.com/pixil98/go-service/service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Messaging
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Session registry, publishing entity messages over nats
	w := world.NewWorld(
		world.WithCapacity(cfg.World.Capacity),
		world.WithPublisher(messaging.NewNatsPublisher(natsServer)),
	)

	store, err := cfg.Storage.buildPreferenceStore()
	if err != nil {
		return nil, fmt.Errorf("creating preference store: %w", err)
	}
	// Loaded before any worker runs so bridge toggles never race the load.
	store.Load(context.Background())

	d := driver.NewDriver(driver.WithTickLength(cfg.tickLength()))

	var opts []ux.SynchronizerOpt
	if perm := cfg.Bypass.Permission; perm != "" {
		opts = append(opts, ux.WithBypass(func(id platform.EntityId) bool {
			return w.HasPermission(id, perm)
		}))
	}
	hub := ux.NewSynchronizer(cfg.Config, w, d, store, opts...)

	return service.WorkerList{
		"nats":        natsServer,
		"driver":      d,
		"preferences": store,
		"bridge":      messaging.NewEventBridge(natsServer, w, hub),
		"hub":         &hubWorker{sync: hub, store: store},
	}, nil
}

// hubWorker keeps the synchronizer running for the lifetime of the service.
type hubWorker struct {
	sync  *ux.Synchronizer
	store *prefs.Store
}

func (h *hubWorker) Start(ctx context.Context) error {
	if err := h.sync.Start(ctx); err != nil {
		return fmt.Errorf("starting hub: %w", err)
	}
	slog.InfoContext(ctx, "hub started", "state", h.sync.State())

	<-ctx.Done()

	stopCtx := context.WithoutCancel(ctx)
	h.sync.Stop(stopCtx)
	if h.store.Pending() {
		if err := h.store.Flush(); err != nil {
			slog.WarnContext(stopCtx, "flushing preferences on shutdown", "error", err)
		}
	}
	slog.InfoContext(stopCtx, "hub stopped", "state", h.sync.State())
	return nil
}
