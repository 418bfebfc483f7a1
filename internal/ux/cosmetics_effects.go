package ux

import (
	"math"
	"time"

	"github.com/pixil98/go-lobby/internal/platform"
)

const (
	trailMinStep    = 0.15
	trailHeight     = 0.1
	trailCount      = 4
	haloHeight      = 2.15
	auraHeight      = 0.9
	auraRadius      = 0.65
	auraStep        = 0.25
	auraRise        = 0.15
	wingsHeight     = 1.25
	wingsBackOffset = 0.25
)

var trailSpread = platform.Vec3{X: 0.05, Y: 0.01, Z: 0.05}

// cycle returns how far t is through a repeating period, in radians.
func cycle(t time.Time, period time.Duration) float64 {
	ms := period.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return float64(t.UnixMilli()%ms) / float64(ms) * 2 * math.Pi
}

// trailStep reports whether the entity moved far enough within one region since the
// last sample to leave a trail.
func trailStep(last, now platform.Location) bool {
	if last.Region != now.Region {
		return false
	}
	return last.Pos.DistanceSquared(now.Pos) >= trailMinStep*trailMinStep
}

// haloPoints spreads points evenly on a circle above the entity, rotated by elapsed time.
func haloPoints(pos platform.Vec3, cfg HaloConfig, t time.Time) []platform.Vec3 {
	base := pos.Add(platform.Vec3{Y: haloHeight})
	rot := cycle(t, time.Duration(cfg.PeriodMs)*time.Millisecond)

	out := make([]platform.Vec3, 0, cfg.Points)
	for i := 0; i < cfg.Points; i++ {
		a := rot + 2*math.Pi*float64(i)/float64(cfg.Points)
		out = append(out, base.Add(platform.Vec3{
			X: math.Cos(a) * cfg.Radius,
			Z: math.Sin(a) * cfg.Radius,
		}))
	}
	return out
}

// auraPoints places three points 120 degrees apart around the entity, each a little
// higher than the last.
func auraPoints(pos platform.Vec3, phase float64) []platform.Vec3 {
	base := pos.Add(platform.Vec3{Y: auraHeight})

	out := make([]platform.Vec3, 0, 3)
	for i := 0; i < 3; i++ {
		a := phase + float64(i)*(2*math.Pi/3)
		out = append(out, base.Add(platform.Vec3{
			X: math.Cos(a) * auraRadius,
			Y: auraRise * float64(i),
			Z: math.Sin(a) * auraRadius,
		}))
	}
	return out
}

// wingPoints returns both wings behind the entity. The basis comes from the yaw alone
// and the wing tips flap sinusoidally with elapsed time.
func wingPoints(loc platform.Location, cfg WingsConfig, t time.Time) []platform.Vec3 {
	rad := loc.Yaw * math.Pi / 180
	forward := platform.Vec3{X: -math.Sin(rad), Z: math.Cos(rad)}.Normalize()
	up := platform.Vec3{Y: 1}
	right := platform.Vec3{X: forward.Z, Z: -forward.X}.Normalize()

	base := loc.Pos.Add(platform.Vec3{Y: wingsHeight}).Sub(forward.Scale(wingsBackOffset))
	flap := math.Sin(cycle(t, time.Duration(cfg.FlapPeriodMs)*time.Millisecond)) * cfg.FlapStrength

	out := make([]platform.Vec3, 0, 2*cfg.Points)
	for _, side := range []float64{1, -1} {
		for i := 0; i < cfg.Points; i++ {
			fi := float64(i)
			x := 0.18 + fi*0.10
			y := fi * 0.12
			z := fi*0.03 + flap
			off := right.Scale(side * x).Add(up.Scale(y)).Add(forward.Scale(-z))
			out = append(out, base.Add(off))
		}
	}
	return out
}
