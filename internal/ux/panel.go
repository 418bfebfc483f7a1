package ux

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/platform"
	"github.com/pixil98/go-lobby/internal/session"
)

const (
	// MaxPanelLines is the number of lines a panel surface holds.
	MaxPanelLines = 15

	fallbackTPS  = "20.0"
	fallbackMSPT = "50.0"
)

// DefaultPanelLines is rendered when no lines are configured.
var DefaultPanelLines = []string{
	"&b&lLobby",
	"&7%date% &8• &7%time%",
	"&7",
	"&7Name: &f%player%",
	"&7Online: &f%online%&7/&f%max%",
	"&7Ping: &f%ping%ms",
	"&7TPS: &f%tps% &8(&f%mspt%mspt&8)",
	"&7",
	"&b/sw join &8- &7Quick Play",
	"&7Double jump: &fSpace x2",
	"&7",
	"&bplay.example.net",
}

// Presence is one connected entity's hub membership for the current tick.
type Presence struct {
	ID     platform.EntityId
	Member bool
}

// PanelData is the placeholder set available to panel lines, both as %name% tokens and
// as template fields.
type PanelData struct {
	Player string
	Online int
	Max    int
	Ping   int
	World  string
	Time   string
	Date   string
	TPS    string
	MSPT   string
}

func (d PanelData) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"%player%", d.Player,
		"%online%", strconv.Itoa(d.Online),
		"%max%", strconv.Itoa(d.Max),
		"%ping%", strconv.Itoa(d.Ping),
		"%world%", d.World,
		"%time%", d.Time,
		"%date%", d.Date,
		"%tps%", d.TPS,
		"%mspt%", d.MSPT,
	)
}

type panelBinding struct {
	surface platform.Surface
	prior   platform.Surface
}

// PanelManager owns one heads-up surface per member and gives the entity's previous
// surface back when membership ends.
type PanelManager struct {
	enabled  bool
	cfg      PanelConfig
	host     platform.Platform
	now      func() time.Time
	bindings *session.Map[*panelBinding]
}

func NewPanelManager(cfg Config, host platform.Platform, now func() time.Time) *PanelManager {
	return &PanelManager{
		enabled:  cfg.UX.Enabled && cfg.UX.Panel.Enabled,
		cfg:      cfg.UX.Panel,
		host:     host,
		now:      now,
		bindings: session.NewMap[*panelBinding](),
	}
}

// Tick attaches or updates the panel of every member and detaches it from everyone else.
func (m *PanelManager) Tick(ctx context.Context, presence []Presence) error {
	if !m.enabled {
		m.Stop(ctx)
		return nil
	}

	for _, p := range presence {
		if !p.Member {
			m.remove(ctx, p.ID)
			continue
		}
		if err := m.ensure(p.ID); err != nil {
			slog.WarnContext(ctx, "updating panel", "entity", p.ID, "error", err)
		}
	}
	return nil
}

// Refresh applies one entity's membership immediately.
func (m *PanelManager) Refresh(ctx context.Context, id platform.EntityId, member bool) {
	if !m.enabled || !member {
		m.remove(ctx, id)
		return
	}
	if err := m.ensure(id); err != nil {
		slog.WarnContext(ctx, "updating panel", "entity", id, "error", err)
	}
}

// Release drops id's binding after a disconnect, restoring its surface if still ours.
func (m *PanelManager) Release(ctx context.Context, id platform.EntityId) {
	m.remove(ctx, id)
}

// Stop detaches every panel this manager still owns.
func (m *PanelManager) Stop(ctx context.Context) {
	for id, b := range m.bindings.Clear() {
		m.restore(ctx, id, b)
	}
}

// Bound reports whether a panel is currently attached for id.
func (m *PanelManager) Bound(id platform.EntityId) bool {
	_, ok := m.bindings.Get(id)
	return ok
}

func (m *PanelManager) ensure(id platform.EntityId) error {
	if b, ok := m.bindings.Get(id); ok {
		if m.host.ActiveSurface(id) != b.surface {
			// Something else replaced our surface; it keeps it.
			m.bindings.DeleteIf(id, func(cur *panelBinding) bool { return cur == b })
			return nil
		}
		return m.render(id, b)
	}

	prior := m.host.ActiveSurface(id)
	s, err := m.host.NewSurface(display.Colorize(m.cfg.Title))
	if err != nil {
		return fmt.Errorf("creating surface: %w", err)
	}

	b := &panelBinding{surface: s, prior: prior}
	if actual, loaded := m.bindings.LoadOrStore(id, b); loaded {
		return m.render(id, actual)
	}

	if err := m.host.SetActiveSurface(id, s); err != nil {
		m.bindings.Delete(id)
		return fmt.Errorf("attaching surface: %w", err)
	}
	return m.render(id, b)
}

func (m *PanelManager) remove(ctx context.Context, id platform.EntityId) {
	b, ok := m.bindings.Delete(id)
	if !ok {
		return
	}
	m.restore(ctx, id, b)
}

func (m *PanelManager) restore(ctx context.Context, id platform.EntityId, b *panelBinding) {
	if m.host.ActiveSurface(id) != b.surface {
		return
	}
	if err := m.host.SetActiveSurface(id, b.prior); err != nil {
		slog.DebugContext(ctx, "restoring previous surface", "entity", id, "error", err)
	}
}

func (m *PanelManager) render(id platform.EntityId, b *panelBinding) error {
	lines, err := m.RenderLines(id)
	if err != nil {
		return err
	}

	b.surface.SetTitle(display.Colorize(m.cfg.Title))
	for i := 0; i < MaxPanelLines; i++ {
		if i >= len(lines) {
			b.surface.ClearLine(i)
			continue
		}
		prefix, suffix := display.SplitLine(lines[i])
		b.surface.SetLine(i, prefix, suffix)
	}
	return nil
}

// RenderLines produces the styled lines for id, at most MaxPanelLines of them.
func (m *PanelManager) RenderLines(id platform.EntityId) ([]string, error) {
	raw := m.cfg.Lines
	if len(raw) == 0 {
		raw = DefaultPanelLines
	}

	data := m.data(id)
	rep := data.replacer()

	out := make([]string, 0, min(len(raw), MaxPanelLines))
	for _, line := range raw {
		if len(out) >= MaxPanelLines {
			break
		}
		expanded, err := display.ExpandTemplate(line, data)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(out), err)
		}
		out = append(out, display.Colorize(rep.Replace(expanded)))
	}
	return out, nil
}

func (m *PanelManager) data(id platform.EntityId) PanelData {
	now := m.now()
	d := PanelData{
		Player: m.host.Name(id),
		Online: len(m.host.Online()),
		Max:    m.host.Capacity(),
		Ping:   m.host.Ping(id),
		Time:   now.Format(time.TimeOnly),
		Date:   now.Format(time.DateOnly),
		TPS:    fallbackTPS,
		MSPT:   fallbackMSPT,
	}
	if loc, ok := m.host.Location(id); ok {
		d.World = loc.Region
	}
	if tps, ok := m.host.TPS(); ok {
		d.TPS = fmt.Sprintf("%.1f", math.Min(20, tps))
		if tps > 0 {
			d.MSPT = fmt.Sprintf("%.1f", 1000/tps)
		}
	}
	return d
}
