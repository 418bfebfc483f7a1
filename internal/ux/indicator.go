package ux

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/session"
)

// IndicatorManager owns the single progress indicator shown to every member.
type IndicatorManager struct {
	enabled bool
	cfg     IndicatorConfig
	host    platform.Indicators

	mu      sync.Mutex
	bar     platform.Indicator
	viewers *session.Map[struct{}]
}

func NewIndicatorManager(cfg Config, host platform.Indicators) *IndicatorManager {
	return &IndicatorManager{
		enabled: cfg.UX.Enabled && cfg.UX.Indicator.Enabled,
		cfg:     cfg.UX.Indicator,
		host:    host,
		viewers: session.NewMap[struct{}](),
	}
}

// Tick creates the indicator on first use, refreshes its title and progress, and syncs
// its viewers with membership. Failing to create the indicator is returned to the caller.
func (m *IndicatorManager) Tick(ctx context.Context, presence []Presence) error {
	if !m.enabled {
		m.Stop(ctx)
		return nil
	}

	bar, err := m.indicator()
	if err != nil {
		return err
	}
	bar.SetTitle(display.Colorize(m.cfg.Title))
	bar.SetProgress(m.cfg.Progress)

	for _, p := range presence {
		if p.Member {
			m.attach(ctx, bar, p.ID)
		} else {
			m.detach(ctx, bar, p.ID)
		}
	}
	return nil
}

// Refresh applies one entity's membership against the indicator if it already exists.
func (m *IndicatorManager) Refresh(ctx context.Context, id platform.EntityId, member bool) {
	bar := m.current()
	if bar == nil {
		return
	}
	if member && m.enabled {
		m.attach(ctx, bar, id)
		return
	}
	m.detach(ctx, bar, id)
}

// Release detaches id, typically because it disconnected.
func (m *IndicatorManager) Release(ctx context.Context, id platform.EntityId) {
	if bar := m.current(); bar != nil {
		m.detach(ctx, bar, id)
		return
	}
	m.viewers.Delete(id)
}

// Stop detaches every viewer and discards the indicator.
func (m *IndicatorManager) Stop(_ context.Context) {
	m.mu.Lock()
	bar := m.bar
	m.bar = nil
	m.mu.Unlock()

	m.viewers.Clear()
	if bar != nil {
		bar.RemoveAll()
	}
}

// Viewing reports whether id is an active viewer.
func (m *IndicatorManager) Viewing(id platform.EntityId) bool {
	_, ok := m.viewers.Get(id)
	return ok
}

func (m *IndicatorManager) indicator() (platform.Indicator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bar != nil {
		return m.bar, nil
	}

	bar, err := m.host.NewIndicator(
		display.Colorize(m.cfg.Title),
		platform.ParseBarColor(m.cfg.Color),
		platform.ParseBarStyle(m.cfg.Style),
	)
	if err != nil {
		return nil, fmt.Errorf("creating indicator: %w", err)
	}
	bar.SetProgress(m.cfg.Progress)
	m.bar = bar
	return bar, nil
}

func (m *IndicatorManager) current() platform.Indicator {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bar
}

func (m *IndicatorManager) attach(ctx context.Context, bar platform.Indicator, id platform.EntityId) {
	if _, loaded := m.viewers.LoadOrStore(id, struct{}{}); loaded {
		return
	}
	if err := bar.AddViewer(id); err != nil {
		m.viewers.Delete(id)
		slog.WarnContext(ctx, "adding indicator viewer", "entity", id, "error", err)
	}
}

func (m *IndicatorManager) detach(ctx context.Context, bar platform.Indicator, id platform.EntityId) {
	if _, ok := m.viewers.Delete(id); !ok {
		return
	}
	if err := bar.RemoveViewer(id); err != nil {
		slog.DebugContext(ctx, "removing indicator viewer", "entity", id, "error", err)
	}
}
