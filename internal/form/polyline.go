package form

import (
	"fmt"
	"math"

	"line-editor/pkg/geometry"
)

// PolyLine is an open chain of straight segments through its points.
type PolyLine struct {
	Points []geometry.Point2D
}

// NewPolyLine creates a PolyLine through the given points.
func NewPolyLine(points ...geometry.Point2D) *PolyLine {
	return &PolyLine{Points: append([]geometry.Point2D(nil), points...)}
}

func (pl *PolyLine) Type() Type { return TypePolyLine }

func (pl *PolyLine) DistanceTo(p geometry.Point2D, maxDist float64) (float64, bool) {
	if len(pl.Points) == 0 {
		return 0, false
	}
	best := p.Distance(pl.Points[0])
	for i := 1; i < len(pl.Points); i++ {
		if d := geometry.SegmentDistance(p, pl.Points[i-1], pl.Points[i]); d < best {
			best = d
		}
	}
	if best > maxDist {
		return 0, false
	}
	return best, true
}

// NearestSegment finds the segment whose interior projection of p is
// closest and within maxDist. It returns the index of the segment's end
// point (the insertion index for a new point) and the projected point.
func (pl *PolyLine) NearestSegment(p geometry.Point2D, maxDist float64) (int, geometry.Point2D, bool) {
	bestIdx := -1
	bestR := math.Inf(1)
	var bestPt geometry.Point2D
	for i := 1; i < len(pl.Points); i++ {
		a, b := pl.Points[i-1], pl.Points[i]
		f, r := geometry.ProjectOnSegment(p, a, b)
		if f < 0 || f > 1 || r > maxDist || r >= bestR {
			continue
		}
		bestIdx, bestR = i, r
		bestPt = a.Add(b.Sub(a).Scale(f))
	}
	if bestIdx < 0 {
		return 0, geometry.Point2D{}, false
	}
	return bestIdx, bestPt, true
}

// Insert adds p at index i, or appends when i is out of range.
func (pl *PolyLine) Insert(i int, p geometry.Point2D) int {
	if i < 0 || i >= len(pl.Points) {
		pl.Points = append(pl.Points, p)
		return len(pl.Points) - 1
	}
	pl.Points = append(pl.Points, geometry.Point2D{})
	copy(pl.Points[i+1:], pl.Points[i:])
	pl.Points[i] = p
	return i
}

// Remove deletes the point at index i. The last remaining point is kept.
func (pl *PolyLine) Remove(i int) bool {
	if i < 0 || i >= len(pl.Points) || len(pl.Points) <= 1 {
		return false
	}
	pl.Points = append(pl.Points[:i], pl.Points[i+1:]...)
	return true
}

// Simplify drops points closer than epsilon to the chord of their span and
// returns how many were removed.
func (pl *PolyLine) Simplify(epsilon float64) int {
	before := len(pl.Points)
	pl.Points = geometry.Simplify(pl.Points, epsilon)
	return before - len(pl.Points)
}

func (pl *PolyLine) DefiningPoints() []geometry.Point2D {
	return append([]geometry.Point2D(nil), pl.Points...)
}

func (pl *PolyLine) BoundingBox() geometry.Rect {
	return geometry.BoundingBox(pl.Points)
}

func (pl *PolyLine) Mirror(dir MirrorDirection, pos float64) {
	for i, p := range pl.Points {
		pl.Points[i] = mirrorPoint(p, dir, pos)
	}
}

func (pl *PolyLine) Translate(dx, dy float64) {
	for i, p := range pl.Points {
		pl.Points[i] = geometry.Point2D{X: p.X + dx, Y: p.Y + dy}
	}
}

func (pl *PolyLine) Rotate(center geometry.Point2D, angle float64) {
	for i, p := range pl.Points {
		pl.Points[i] = rotatePoint(p, center, angle)
	}
}

func (pl *PolyLine) Rotate90(center geometry.Point2D, turns int) {
	for i, p := range pl.Points {
		pl.Points[i] = rotatePoint90(p, center, turns)
	}
}

// Values returns [x0, y0, x1, y1, ...].
func (pl *PolyLine) Values() []float64 {
	v := make([]float64, 0, 2*len(pl.Points))
	for _, p := range pl.Points {
		v = append(v, p.X, p.Y)
	}
	return v
}

func (pl *PolyLine) SetValues(v []float64) error {
	if len(v) < 2 || len(v)%2 != 0 {
		return fmt.Errorf("%w: polyline needs an even number of values, got %d", ErrInvalidValues, len(v))
	}
	if err := checkFinite(v); err != nil {
		return err
	}
	pts := make([]geometry.Point2D, len(v)/2)
	for i := range pts {
		pts[i] = geometry.NewPoint2D(v[2*i], v[2*i+1])
	}
	pl.Points = pts
	return nil
}

func (pl *PolyLine) Clone() Form {
	return NewPolyLine(pl.Points...)
}
