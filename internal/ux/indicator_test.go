package ux

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/world"
	"github.com/pixil98/go-testutil"
)

func TestIndicatorManager_Tick(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.UX.Indicator.Progress = 0.5
	cfg.UX.Indicator.Color = "purple"

	w := world.NewWorld()
	a := connect(t, w, "hub")
	b := connect(t, w, "arena")

	m := NewIndicatorManager(cfg, w)
	if err := m.Tick(ctx, presenceOf(w, cfg)); err != nil {
		t.Fatalf("tick: %v", err)
	}

	inds := w.Indicators()
	testutil.AssertEqual(t, "indicator count", len(inds), 1)
	bar := inds[0]
	testutil.AssertEqual(t, "title", bar.Title(), "§bLobby")
	testutil.AssertEqual(t, "color", bar.Color(), platform.BarColorPurple)
	testutil.AssertEqual(t, "style", bar.Style(), platform.BarStyleSolid)
	testutil.AssertEqual(t, "progress", bar.Progress(), 0.5)
	testutil.AssertEqual(t, "member viewing", bar.HasViewer(a), true)
	testutil.AssertEqual(t, "non-member viewing", bar.HasViewer(b), false)

	moveTo(t, w, a, "arena")
	moveTo(t, w, b, "hub")
	_ = m.Tick(ctx, presenceOf(w, cfg))
	testutil.AssertEqual(t, "left viewer", bar.HasViewer(a), false)
	testutil.AssertEqual(t, "joined viewer", bar.HasViewer(b), true)
	testutil.AssertEqual(t, "tracked", m.Viewing(b), true)
	testutil.AssertEqual(t, "still one indicator", len(w.Indicators()), 1)
}

func TestIndicatorManager_CreateFailure(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	w := world.NewWorld()
	connect(t, w, "hub")
	w.InjectFault(world.OpNewIndicator, func(platform.EntityId) error { return errors.New("no bars left") })

	err := NewIndicatorManager(cfg, w).Tick(ctx, presenceOf(w, cfg))
	testutil.AssertErrorContains(t, err, "no bars left")
}

func TestIndicatorManager_RefreshAndStop(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	w := world.NewWorld()
	a := connect(t, w, "hub")
	m := NewIndicatorManager(cfg, w)

	m.Refresh(ctx, a, true)
	testutil.AssertEqual(t, "no indicator before first tick", m.Viewing(a), false)

	_ = m.Tick(ctx, presenceOf(w, cfg))
	bar := w.Indicators()[0]

	b := connect(t, w, "hub")
	m.Refresh(ctx, b, true)
	testutil.AssertEqual(t, "refreshed viewer", bar.HasViewer(b), true)

	m.Release(ctx, a)
	testutil.AssertEqual(t, "released", bar.HasViewer(a), false)
	testutil.AssertEqual(t, "released tracking", m.Viewing(a), false)

	m.Stop(ctx)
	testutil.AssertEqual(t, "no viewers", bar.ViewerCount(), 0)
	testutil.AssertEqual(t, "untracked", m.Viewing(b), false)

	_ = m.Tick(ctx, presenceOf(w, cfg))
	testutil.AssertEqual(t, "recreated after stop", len(w.Indicators()), 2)
}
