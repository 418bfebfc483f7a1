package platform

import (
	"math"

	"github.com/google/uuid"
)

// EntityId identifies one connected session. It is stable for the lifetime of the
// session and unique across sessions that are connected at the same time.
type EntityId uuid.UUID

// NewEntityId returns a random entity id.
func NewEntityId() EntityId {
	return EntityId(uuid.New())
}

// ParseEntityId parses the string form produced by EntityId.String.
func ParseEntityId(s string) (EntityId, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EntityId{}, err
	}
	return EntityId(id), nil
}

func (id EntityId) String() string {
	return uuid.UUID(id).String()
}

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) DistanceSquared(o Vec3) float64 {
	return v.Sub(o).LengthSquared()
}

// Normalize returns v scaled to unit length. Near-zero vectors are returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.LengthSquared()
	if l <= 1e-6 {
		return v
	}
	return v.Scale(1 / math.Sqrt(l))
}

// Location is a position and orientation inside a named region.
type Location struct {
	Region string  `json:"region"`
	Pos    Vec3    `json:"pos"`
	Yaw    float64 `json:"yaw"`
	Pitch  float64 `json:"pitch"`
}

// Direction returns the unit look vector for the location's yaw and pitch (degrees).
func (l Location) Direction() Vec3 {
	yaw := l.Yaw * math.Pi / 180
	pitch := l.Pitch * math.Pi / 180
	xz := math.Cos(pitch)
	return Vec3{
		X: -xz * math.Sin(yaw),
		Y: -math.Sin(pitch),
		Z: xz * math.Cos(yaw),
	}
}

// PlanarHeading returns the look direction flattened onto the horizontal plane.
func (l Location) PlanarHeading() Vec3 {
	d := l.Direction()
	d.Y = 0
	return d.Normalize()
}

// GameMode mirrors the session's interaction mode as reported by the platform.
type GameMode int

const (
	GameModeSurvival GameMode = iota
	GameModeAdventure
	GameModeCreative
	GameModeSpectator
)

func (m *GameMode) UnmarshalText(text []byte) error {
	*m = ParseGameMode(string(text))
	return nil
}

// ParseGameMode parses a game mode name, defaulting to survival.
func ParseGameMode(raw string) GameMode {
	switch normalize(raw) {
	case "ADVENTURE":
		return GameModeAdventure
	case "CREATIVE":
		return GameModeCreative
	case "SPECTATOR":
		return GameModeSpectator
	default:
		return GameModeSurvival
	}
}
