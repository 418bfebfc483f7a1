package platform

// Surface is a per-entity heads-up panel: a title plus a fixed set of lines, each line
// rendered as a prefix and a suffix part.
type Surface interface {
	SetTitle(title string)
	SetLine(line int, prefix, suffix string)
	ClearLine(line int)
}

// Indicator is a world-anchored progress bar shared by all of its viewers.
type Indicator interface {
	SetTitle(title string)
	SetProgress(progress float64)
	AddViewer(id EntityId) error
	RemoveViewer(id EntityId) error
	RemoveAll()
}

// Sessions exposes the currently connected entities.
type Sessions interface {
	Online() []EntityId
	Capacity() int
	Name(id EntityId) string
	Ping(id EntityId) int
	// Location returns false while the entity's position is unknown (mid-transition or
	// disconnected).
	Location(id EntityId) (Location, bool)
	HasPermission(id EntityId, perm string) bool
	GameMode(id EntityId) GameMode
}

// Inventories gives indexed access to an entity's held-item slots.
type Inventories interface {
	Slot(id EntityId, slot int) *Item
	SetSlot(id EntityId, slot int, item *Item) error
	// Contents returns every slot, indexed by slot number. Empty slots are nil.
	Contents(id EntityId) []*Item
	ClearInventory(id EntityId) error
}

// Surfaces creates panels and swaps the one an entity is looking at.
type Surfaces interface {
	NewSurface(title string) (Surface, error)
	ActiveSurface(id EntityId) Surface
	SetActiveSurface(id EntityId, s Surface) error
}

// Indicators creates shared progress indicators.
type Indicators interface {
	NewIndicator(title string, color BarColor, style BarStyle) (Indicator, error)
}

// Visibility controls one-directional hide relations between a viewer and a target.
type Visibility interface {
	Hide(viewer, target EntityId) error
	Show(viewer, target EntityId) error
}

// Effects draws particles and plays sounds.
type Effects interface {
	SpawnParticles(region string, p Particle, at Vec3, count int, spread Vec3, speed float64) error
	PlaySound(id EntityId, s Sound, volume, pitch float64) error
}

// Movement covers velocity, flight state and asynchronous relocation.
type Movement interface {
	SetVelocity(id EntityId, v Vec3) error
	OnGround(id EntityId) bool
	AllowFlight(id EntityId) bool
	SetAllowFlight(id EntityId, allow bool) error
	SetFlying(id EntityId, flying bool) error
	// Move relocates the entity asynchronously. done is called exactly once with the outcome.
	Move(id EntityId, target Location, done func(error))
}

// Messenger delivers short text messages to one entity.
type Messenger interface {
	SendMessage(id EntityId, msg string) error
}

// Menus opens container views and runs commands on behalf of an entity.
type Menus interface {
	OpenMenu(id EntityId, m *Menu) error
	CloseMenu(id EntityId) error
	RunCommand(id EntityId, command string) error
}

// Metrics reports server performance. ok is false when unavailable.
type Metrics interface {
	TPS() (tps float64, ok bool)
}

// Platform is everything the hub consumes from the hosting server.
type Platform interface {
	Sessions
	Inventories
	Surfaces
	Indicators
	Visibility
	Effects
	Movement
	Messenger
	Menus
	Metrics
}

// BypassPredicate excludes an entity from every hub feature when it returns true.
type BypassPredicate func(id EntityId) bool
