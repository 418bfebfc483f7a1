package world

import (
	"slices"
	"sync"

	"github.com/pixil98/go-lobby/internal/platform"
)

// Line is one rendered panel line.
type Line struct {
	Prefix string
	Suffix string
}

// Surface is an in-memory heads-up panel.
type Surface struct {
	mu    sync.Mutex
	title string
	lines map[int]Line
}

func NewSurface(title string) *Surface {
	return &Surface{
		title: title,
		lines: make(map[int]Line),
	}
}

func (s *Surface) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

func (s *Surface) SetLine(line int, prefix, suffix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[line] = Line{Prefix: prefix, Suffix: suffix}
}

func (s *Surface) ClearLine(line int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, line)
}

func (s *Surface) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Line returns the parts shown on line.
func (s *Surface) Line(line int) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lines[line]
	return l, ok
}

// Text returns every shown line joined back together, in line order.
func (s *Surface) Text() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]int, 0, len(s.lines))
	for k := range s.lines {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.lines[k].Prefix+s.lines[k].Suffix)
	}
	return out
}

func (w *World) NewSurface(title string) (platform.Surface, error) {
	if err := w.fault(OpNewSurface, platform.EntityId{}); err != nil {
		return nil, err
	}
	return NewSurface(title), nil
}

func (w *World) ActiveSurface(id platform.EntityId) platform.Surface {
	var s platform.Surface
	w.view(id, func(es *entityState) { s = es.surface })
	return s
}

func (w *World) SetActiveSurface(id platform.EntityId, s platform.Surface) error {
	if err := w.fault(OpSetActiveSurface, id); err != nil {
		return err
	}
	return w.update(id, func(es *entityState) error {
		es.surface = s
		return nil
	})
}

// Indicator is an in-memory shared progress bar.
type Indicator struct {
	world *World

	mu       sync.Mutex
	title    string
	color    platform.BarColor
	style    platform.BarStyle
	progress float64
	viewers  map[platform.EntityId]bool
}

func (w *World) NewIndicator(title string, color platform.BarColor, style platform.BarStyle) (platform.Indicator, error) {
	if err := w.fault(OpNewIndicator, platform.EntityId{}); err != nil {
		return nil, err
	}

	ind := &Indicator{
		world:    w,
		title:    title,
		color:    color,
		style:    style,
		progress: 1,
		viewers:  make(map[platform.EntityId]bool),
	}

	w.mu.Lock()
	w.indicators = append(w.indicators, ind)
	w.mu.Unlock()

	return ind, nil
}

// Indicators returns every indicator created so far.
func (w *World) Indicators() []*Indicator {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.indicators)
}

func (i *Indicator) SetTitle(title string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.title = title
}

func (i *Indicator) SetProgress(progress float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.progress = progress
}

func (i *Indicator) AddViewer(id platform.EntityId) error {
	if !i.world.Connected(id) {
		return ErrNotConnected
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.viewers[id] = true
	return nil
}

func (i *Indicator) RemoveViewer(id platform.EntityId) error {
	i.drop(id)
	return nil
}

func (i *Indicator) RemoveAll() {
	i.mu.Lock()
	defer i.mu.Unlock()
	clear(i.viewers)
}

func (i *Indicator) Title() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.title
}

func (i *Indicator) Color() platform.BarColor {
	return i.color
}

func (i *Indicator) Style() platform.BarStyle {
	return i.style
}

func (i *Indicator) Progress() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.progress
}

func (i *Indicator) HasViewer(id platform.EntityId) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.viewers[id]
}

func (i *Indicator) ViewerCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.viewers)
}

func (i *Indicator) drop(id platform.EntityId) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.viewers, id)
}
