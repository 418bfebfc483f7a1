package ux

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/prefs"
)

// State is the synchronizer's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
	// StateFaulted is terminal: a tick failed and only a new Synchronizer can resume.
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFaulted:
		return "faulted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PeriodicDriver runs a task once per fixed tick until the returned cancel is called.
// cancel must not wait for a task that is currently running.
type PeriodicDriver interface {
	Schedule(task func(context.Context)) (cancel func())
}

type SynchronizerOpt func(*Synchronizer)

// WithBypass excludes entities for which p returns true from every hub feature.
func WithBypass(p platform.BypassPredicate) SynchronizerOpt {
	return func(s *Synchronizer) {
		s.bypass = p
	}
}

// WithClock replaces the wall clock used for animation and cooldowns.
func WithClock(now func() time.Time) SynchronizerOpt {
	return func(s *Synchronizer) {
		s.now = now
	}
}

// Synchronizer drives every hub subsystem from one periodic tick and from session
// events. A failed tick stops it for good.
type Synchronizer struct {
	cfg    Config
	host   platform.Platform
	driver PeriodicDriver
	bypass platform.BypassPredicate
	now    func() time.Time

	classifier *RegionClassifier
	panel      *PanelManager
	indicator  *IndicatorManager
	menu       *HubMenu
	loadout    *LoadoutManager
	cosmetics  *CosmeticsManager
	jump       *DoubleJumpManager

	mu     sync.Mutex
	state  State
	ticks  uint64
	cancel func()
}

func NewSynchronizer(cfg Config, host platform.Platform, driver PeriodicDriver, store *prefs.Store, opts ...SynchronizerOpt) *Synchronizer {
	cfg.Normalize()

	s := &Synchronizer{
		cfg:    cfg,
		host:   host,
		driver: driver,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.classifier = NewRegionClassifier(cfg, host, s.bypass)
	s.panel = NewPanelManager(cfg, host, s.now)
	s.indicator = NewIndicatorManager(cfg, host)
	s.menu = NewHubMenu(cfg, host)
	s.loadout = NewLoadoutManager(cfg, host, s.menu, s.classifier.IsMember)
	s.cosmetics = NewCosmeticsManager(cfg, host, store, s.bypass, s.now)
	s.jump = NewDoubleJumpManager(cfg, host, s.classifier.IsMember, s.now)
	return s
}

// Classifier exposes the membership rule in use.
func (s *Synchronizer) Classifier() *RegionClassifier {
	return s.classifier
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ticks returns how many ticks have run since the last Start.
func (s *Synchronizer) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Start schedules the tick and refreshes every connected entity. It does nothing when
// the hub or its UX is disabled or already running, and refuses once faulted.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		return nil
	case StateFaulted:
		return ErrFaulted
	}
	if !s.cfg.Hub.Enabled || !s.cfg.UX.Enabled {
		slog.InfoContext(ctx, "hub disabled, synchronizer not started")
		return nil
	}

	s.state = StateRunning
	s.ticks = 0
	s.cancel = s.driver.Schedule(s.tick)

	for _, id := range s.host.Online() {
		s.refreshLocked(ctx, id)
	}
	slog.InfoContext(ctx, "hub synchronizer started")
	return nil
}

// Stop cancels the tick and tears down every binding, restoring prior UI. It is safe to
// call repeatedly and from any goroutine.
func (s *Synchronizer) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(ctx, StateStopped)
}

func (s *Synchronizer) stopLocked(ctx context.Context, next State) {
	if s.state != StateRunning {
		return
	}
	s.state = next

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	contain(ctx, "stopping panels", func() { s.panel.Stop(ctx) })
	contain(ctx, "stopping indicator", func() { s.indicator.Stop(ctx) })
	contain(ctx, "stopping loadout", func() { s.loadout.Stop(ctx) })
	contain(ctx, "stopping cosmetics", func() { s.cosmetics.Stop(ctx) })
	contain(ctx, "stopping double jump", func() { s.jump.Stop(ctx) })
}

// Refresh recomputes id's membership and pushes it to every subsystem.
func (s *Synchronizer) Refresh(ctx context.Context, id platform.EntityId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return
	}
	s.refreshLocked(ctx, id)
}

func (s *Synchronizer) refreshLocked(ctx context.Context, id platform.EntityId) {
	contain(ctx, "refreshing entity", func() {
		member := s.classifier.IsMember(id)
		s.panel.Refresh(ctx, id, member)
		s.indicator.Refresh(ctx, id, member)
		s.loadout.Refresh(ctx, id, member)
		s.cosmetics.Refresh(ctx, id, member)
		s.jump.Refresh(ctx, id, member)
	})
}

// OnJoin refreshes a newly connected entity and hides it from members that hide others.
func (s *Synchronizer) OnJoin(ctx context.Context, id platform.EntityId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return
	}
	s.refreshLocked(ctx, id)
	contain(ctx, "hiding newcomer", func() { s.loadout.OnOtherEntityJoined(ctx, id) })
}

// OnWorldChange refreshes an entity that moved to another region.
func (s *Synchronizer) OnWorldChange(ctx context.Context, id platform.EntityId) {
	s.Refresh(ctx, id)
}

// OnDisconnect unwinds and forgets everything held for id.
func (s *Synchronizer) OnDisconnect(ctx context.Context, id platform.EntityId) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contain(ctx, "releasing entity", func() {
		s.panel.Release(ctx, id)
		s.indicator.Release(ctx, id)
		s.loadout.Release(ctx, id)
		s.cosmetics.Release(ctx, id)
		s.jump.Release(ctx, id)
	})
}

// HandleInteract routes an item use to the loadout first and then to cosmetics. It
// returns true when a hub placeholder consumed the interaction.
func (s *Synchronizer) HandleInteract(ctx context.Context, id platform.EntityId, item *platform.Item) bool {
	if !s.running() {
		return false
	}
	if s.loadout.HandleActivate(ctx, id, item) {
		return true
	}
	return s.cosmetics.HandleInteract(ctx, id, item)
}

// HandleMenuClick dispatches a click inside a hub-owned menu.
func (s *Synchronizer) HandleMenuClick(ctx context.Context, id platform.EntityId, kind platform.MenuKind, item *platform.Item) {
	if !s.running() || item == nil {
		return
	}
	switch kind {
	case platform.MenuKindHub:
		s.menu.HandleClick(ctx, id, item)
	case platform.MenuKindCosmetics:
		s.cosmetics.HandleMenuClick(ctx, id, item)
	}
}

// HandleFlightToggle returns true when the toggle became a double jump and should be
// cancelled by the platform.
func (s *Synchronizer) HandleFlightToggle(ctx context.Context, id platform.EntityId) bool {
	if !s.running() {
		return false
	}
	return s.jump.HandleFlightToggle(ctx, id)
}

// HandleMove re-arms double jump after id lands.
func (s *Synchronizer) HandleMove(ctx context.Context, id platform.EntityId) {
	if !s.running() {
		return
	}
	s.jump.HandleMove(ctx, id)
}

// IsPlaceholder reports whether item is any hub placeholder, so the platform can refuse
// to let it be dropped or moved.
func (s *Synchronizer) IsPlaceholder(item *platform.Item) bool {
	return s.loadout.IsPlaceholder(item) || s.cosmetics.IsPlaceholder(item)
}

// OpenCosmeticsMenu shows the cosmetics menu to id.
func (s *Synchronizer) OpenCosmeticsMenu(id platform.EntityId) error {
	if !s.connected(id) {
		return ErrNotConnected
	}
	return s.cosmetics.OpenMenu(id)
}

// ToggleCosmetic flips one effect for id. The effect id is matched case-insensitively.
func (s *Synchronizer) ToggleCosmetic(ctx context.Context, id platform.EntityId, effect string) (bool, error) {
	e, err := ParseEffect(effect)
	if err != nil {
		return false, err
	}
	if !s.connected(id) {
		return false, ErrNotConnected
	}
	return s.cosmetics.Toggle(ctx, id, e)
}

// SendToHub moves id to the configured hub spawn. The move completes asynchronously; a
// failure is logged and reported to the entity.
func (s *Synchronizer) SendToHub(ctx context.Context, id platform.EntityId) error {
	if !s.cfg.Hub.Enabled {
		return ErrHubDisabled
	}
	if !s.connected(id) {
		return ErrNotConnected
	}

	sp := s.cfg.Hub.Spawn
	target := platform.Location{
		Region: s.cfg.Hub.Region,
		Pos:    platform.Vec3{X: sp.X, Y: sp.Y, Z: sp.Z},
		Yaw:    sp.Yaw,
		Pitch:  sp.Pitch,
	}
	s.host.Move(id, target, func(err error) {
		if err == nil {
			return
		}
		slog.WarnContext(ctx, "sending entity to hub", "entity", id, "error", err)
		notify(ctx, s.host, id, "&cTeleport failed.")
	})
	return nil
}

func (s *Synchronizer) running() bool {
	return s.State() == StateRunning
}

func (s *Synchronizer) connected(id platform.EntityId) bool {
	return slices.Contains(s.host.Online(), id)
}

func (s *Synchronizer) tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return
	}
	if err := s.runTick(ctx); err != nil {
		slog.ErrorContext(ctx, "hub tick failed, synchronizer stopped until reload", "tick", s.ticks, "error", err)
		s.stopLocked(ctx, StateFaulted)
	}
}

func (s *Synchronizer) runTick(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	s.ticks++
	presence := s.presence()
	cfg := s.cfg.UX

	// The indicator shares the panel's refresh period.
	if s.due(cfg.Panel.UpdateTicks) {
		if err := s.panel.Tick(ctx, presence); err != nil {
			return fmt.Errorf("panel: %w", err)
		}
		if err := s.indicator.Tick(ctx, presence); err != nil {
			return fmt.Errorf("indicator: %w", err)
		}
	}

	for _, p := range presence {
		s.loadout.EnsureItems(ctx, p.ID, p.Member)
		if p.Member {
			s.jump.EnsureFlight(ctx, p.ID)
		} else {
			s.jump.Refresh(ctx, p.ID, false)
		}
	}

	if s.due(cfg.Cosmetics.UpdateTicks) {
		if err := s.cosmetics.Tick(ctx, presence); err != nil {
			return fmt.Errorf("cosmetics: %w", err)
		}
	}
	return nil
}

// presence classifies every connected entity once per tick.
func (s *Synchronizer) presence() []Presence {
	online := s.host.Online()
	out := make([]Presence, 0, len(online))
	for _, id := range online {
		out = append(out, Presence{ID: id, Member: s.classifier.IsMember(id)})
	}
	return out
}

func (s *Synchronizer) due(period int) bool {
	return s.ticks%uint64(max(1, period)) == 0
}

// contain runs fn and turns a panic into a log line.
func contain(ctx context.Context, what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, what, "panic", r)
		}
	}()
	fn()
}
