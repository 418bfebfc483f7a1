package world

import (
	"fmt"
	"slices"
	"sync"

	"github.com/pixil98/go-lobby/internal/platform"
)

const DefaultCapacity = 100

// Publisher delivers outbound text to one entity's channel.
type Publisher interface {
	PublishToEntity(id platform.EntityId, data []byte) error
}

// Profile is what a session brings with it when it connects.
type Profile struct {
	Name        string
	Location    platform.Location
	GameMode    platform.GameMode
	Permissions []string
	Ping        int
}

// World is an in-memory platform: the session registry plus every per-entity piece of
// state the hub reads or writes. All access goes through its methods.
type World struct {
	mu         sync.RWMutex
	sessions   map[platform.EntityId]*entityState
	order      []platform.EntityId
	capacity   int
	tps        float64
	tpsKnown   bool
	particles  []ParticleBurst
	indicators []*Indicator

	publisher Publisher

	faultMu sync.Mutex
	faults  map[Op]Fault
}

// entityState holds all mutable state for one connected session.
type entityState struct {
	name        string
	loc         platform.Location
	locKnown    bool
	gameMode    platform.GameMode
	perms       map[string]bool
	ping        int
	slots       [platform.InventorySize]*platform.Item
	surface     platform.Surface
	hidden      map[platform.EntityId]bool
	velocity    platform.Vec3
	onGround    bool
	allowFlight bool
	flying      bool
	menu        *platform.Menu
	messages    []string
	commands    []string
	sounds      []SoundEvent
}

type WorldOpt func(*World)

// WithCapacity sets the maximum number of concurrent sessions.
func WithCapacity(n int) WorldOpt {
	return func(w *World) {
		w.capacity = n
	}
}

// WithPublisher forwards every message sent to an entity through p.
func WithPublisher(p Publisher) WorldOpt {
	return func(w *World) {
		w.publisher = p
	}
}

func NewWorld(opts ...WorldOpt) *World {
	w := &World{
		sessions: make(map[platform.EntityId]*entityState),
		capacity: DefaultCapacity,
		faults:   make(map[Op]Fault),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

var _ platform.Platform = (*World)(nil)

// Connect registers a new session.
func (w *World) Connect(id platform.EntityId, p Profile) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.sessions[id]; exists {
		return ErrSessionExists
	}
	if w.capacity > 0 && len(w.sessions) >= w.capacity {
		return ErrFull
	}

	perms := make(map[string]bool, len(p.Permissions))
	for _, perm := range p.Permissions {
		perms[perm] = true
	}

	w.sessions[id] = &entityState{
		name:     p.Name,
		loc:      p.Location,
		locKnown: true,
		gameMode: p.GameMode,
		perms:    perms,
		ping:     p.Ping,
		hidden:   make(map[platform.EntityId]bool),
		onGround: true,
	}
	w.order = append(w.order, id)
	return nil
}

// Disconnect removes a session along with every visibility relation that involves it.
func (w *World) Disconnect(id platform.EntityId) error {
	w.mu.Lock()
	if _, exists := w.sessions[id]; !exists {
		w.mu.Unlock()
		return ErrNotConnected
	}

	delete(w.sessions, id)
	w.order = slices.DeleteFunc(w.order, func(o platform.EntityId) bool { return o == id })
	for _, es := range w.sessions {
		delete(es.hidden, id)
	}
	indicators := slices.Clone(w.indicators)
	w.mu.Unlock()

	for _, ind := range indicators {
		ind.drop(id)
	}
	return nil
}

// Teleport moves a session to loc immediately.
func (w *World) Teleport(id platform.EntityId, loc platform.Location) error {
	return w.update(id, func(es *entityState) error {
		es.loc = loc
		es.locKnown = true
		return nil
	})
}

// SetLocationKnown marks a session's location as unknown, as it is mid-transition.
func (w *World) SetLocationKnown(id platform.EntityId, known bool) error {
	return w.update(id, func(es *entityState) error {
		es.locKnown = known
		return nil
	})
}

func (w *World) SetGameMode(id platform.EntityId, m platform.GameMode) error {
	return w.update(id, func(es *entityState) error {
		es.gameMode = m
		return nil
	})
}

func (w *World) SetPermission(id platform.EntityId, perm string, granted bool) error {
	return w.update(id, func(es *entityState) error {
		if granted {
			es.perms[perm] = true
		} else {
			delete(es.perms, perm)
		}
		return nil
	})
}

func (w *World) SetOnGround(id platform.EntityId, onGround bool) error {
	return w.update(id, func(es *entityState) error {
		es.onGround = onGround
		return nil
	})
}

func (w *World) SetPing(id platform.EntityId, ping int) error {
	return w.update(id, func(es *entityState) error {
		es.ping = ping
		return nil
	})
}

// SetTPS reports a server tick rate. A negative value makes the metric unavailable.
func (w *World) SetTPS(tps float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tps = tps
	w.tpsKnown = tps >= 0
}

// Connected reports whether id has a session.
func (w *World) Connected(id platform.EntityId) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.sessions[id]
	return ok
}

func (w *World) Online() []platform.EntityId {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return slices.Clone(w.order)
}

func (w *World) Capacity() int {
	return w.capacity
}

func (w *World) Name(id platform.EntityId) string {
	var name string
	w.view(id, func(es *entityState) { name = es.name })
	return name
}

func (w *World) Ping(id platform.EntityId) int {
	var ping int
	w.view(id, func(es *entityState) { ping = es.ping })
	return ping
}

func (w *World) Location(id platform.EntityId) (platform.Location, bool) {
	var (
		loc platform.Location
		ok  bool
	)
	w.view(id, func(es *entityState) {
		loc, ok = es.loc, es.locKnown
	})
	return loc, ok
}

func (w *World) HasPermission(id platform.EntityId, perm string) bool {
	var ok bool
	w.view(id, func(es *entityState) { ok = es.perms[perm] || es.perms["*"] })
	return ok
}

func (w *World) GameMode(id platform.EntityId) platform.GameMode {
	var m platform.GameMode
	w.view(id, func(es *entityState) { m = es.gameMode })
	return m
}

func (w *World) TPS() (float64, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.tps, w.tpsKnown
}

// view calls fn with the session's state under the read lock. Unknown ids are ignored.
func (w *World) view(id platform.EntityId, fn func(*entityState)) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	es, ok := w.sessions[id]
	if ok {
		fn(es)
	}
	return ok
}

// update calls fn with the session's state under the write lock.
func (w *World) update(id platform.EntityId, fn func(*entityState) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	es, ok := w.sessions[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrNotConnected)
	}
	return fn(es)
}
