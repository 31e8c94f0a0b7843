package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// NormalizeAngle maps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a = 0
	}
	return a
}

// IsInsideAngleRange reports whether angle lies on the counterclockwise sweep
// from start to end. A sweep of a full turn or more contains every angle.
// When end < start the sweep wraps through 0.
func IsInsideAngleRange(start, end, angle float64) bool {
	span := end - start
	if span >= TwoPi {
		return true
	}
	if span < 0 {
		span = NormalizeAngle(span)
	}
	return NormalizeAngle(angle-start) <= span
}

// AngleDist returns the signed shortest rotation from a to b, in (−π, π].
func AngleDist(a, b float64) float64 {
	d := NormalizeAngle(b - a)
	if d > math.Pi {
		d -= TwoPi
	}
	return d
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// ProjectOnSegment projects p onto the line through a and b. It returns the
// projection parameter f (0 at a, 1 at b) and the perpendicular distance r.
// A zero-length segment yields f = 0 and the distance to a.
func ProjectOnSegment(p, a, b Point2D) (f, r float64) {
	d := r2.Sub(b.Vec(), a.Vec())
	ap := r2.Sub(p.Vec(), a.Vec())
	l2 := r2.Dot(d, d)
	if l2 == 0 {
		return 0, r2.Norm(ap)
	}
	f = r2.Dot(ap, d) / l2
	r = math.Abs(r2.Cross(d, ap)) / math.Sqrt(l2)
	return f, r
}

// SegmentDistance returns the distance from p to the segment a-b.
func SegmentDistance(p, a, b Point2D) float64 {
	f, r := ProjectOnSegment(p, a, b)
	switch {
	case f > 1:
		return p.Distance(b)
	case f < 0:
		return p.Distance(a)
	default:
		return r
	}
}

// DecadeFloor returns the largest power of ten not greater than v, which
// must be positive.
func DecadeFloor(v float64) float64 {
	p := math.Pow(10, math.Floor(math.Log10(v)))
	// Log10 can be off by one ulp at exact powers.
	switch {
	case p*10 <= v:
		p *= 10
	case p > v:
		p /= 10
	}
	return p
}
