package form

import (
	"fmt"
	"math"

	"line-editor/pkg/geometry"
)

// Arc is a circular arc swept counterclockwise from Start to End (radians).
// End is kept at or above Start; a sweep of a full turn is a full circle.
type Arc struct {
	Center geometry.Point2D
	R      float64
	Start  float64
	End    float64
}

// NewArc creates an Arc. An End below Start is lifted by full turns.
func NewArc(xc, yc, r, start, end float64) *Arc {
	a := &Arc{Center: geometry.NewPoint2D(xc, yc), R: r, Start: start, End: end}
	a.normalize()
	return a
}

func (a *Arc) normalize() {
	for a.End < a.Start {
		a.End += geometry.TwoPi
	}
}

func (a *Arc) Type() Type { return TypeArc }

// StartPoint returns the position of the start angle on the circle.
func (a *Arc) StartPoint() geometry.Point2D { return a.Center.Polar(a.R, a.Start) }

// EndPoint returns the position of the end angle on the circle.
func (a *Arc) EndPoint() geometry.Point2D { return a.Center.Polar(a.R, a.End) }

// ContainsAngle reports whether angle lies on the arc's sweep.
func (a *Arc) ContainsAngle(angle float64) bool {
	return geometry.IsInsideAngleRange(a.Start, a.End, angle)
}

func (a *Arc) DistanceTo(p geometry.Point2D, maxDist float64) (float64, bool) {
	dC := p.Distance(a.Center)
	if a.R <= 0 {
		if dC > maxDist {
			return 0, false
		}
		return dC, true
	}

	radial := math.Abs(dC - a.R)
	if radial > maxDist {
		return 0, false
	}
	if dC > 0 && a.ContainsAngle(a.Center.AngleTo(p)) {
		return radial, true
	}

	d := math.Min(p.Distance(a.StartPoint()), p.Distance(a.EndPoint()))
	if d > maxDist {
		return 0, false
	}
	return d, true
}

// DefiningPoints returns the start point, the end point and the center.
func (a *Arc) DefiningPoints() []geometry.Point2D {
	return []geometry.Point2D{a.StartPoint(), a.EndPoint(), a.Center}
}

func (a *Arc) BoundingBox() geometry.Rect {
	pts := []geometry.Point2D{a.StartPoint(), a.EndPoint()}
	extremes := []geometry.Point2D{
		{X: a.Center.X + a.R, Y: a.Center.Y},
		{X: a.Center.X, Y: a.Center.Y + a.R},
		{X: a.Center.X - a.R, Y: a.Center.Y},
		{X: a.Center.X, Y: a.Center.Y - a.R},
	}
	for i, p := range extremes {
		if a.ContainsAngle(float64(i) * math.Pi / 2) {
			pts = append(pts, p)
		}
	}
	return geometry.BoundingBox(pts)
}

func (a *Arc) Mirror(dir MirrorDirection, pos float64) {
	a.Center = mirrorPoint(a.Center, dir, pos)
	if dir == MirrorVertical {
		a.Start, a.End = -a.End, -a.Start
	} else {
		a.Start, a.End = math.Pi-a.End, math.Pi-a.Start
	}
}

func (a *Arc) Translate(dx, dy float64) {
	a.Center = geometry.Point2D{X: a.Center.X + dx, Y: a.Center.Y + dy}
}

func (a *Arc) Rotate(center geometry.Point2D, angle float64) {
	a.Center = rotatePoint(a.Center, center, angle)
	a.Start += angle
	a.End += angle
}

func (a *Arc) Rotate90(center geometry.Point2D, turns int) {
	a.Center = rotatePoint90(a.Center, center, turns)
	delta := float64(quarterTurns(turns)) * math.Pi / 2
	a.Start += delta
	a.End += delta
}

// Values returns [xC, yC, r, aStart, aEnd].
func (a *Arc) Values() []float64 {
	return []float64{a.Center.X, a.Center.Y, a.R, a.Start, a.End}
}

func (a *Arc) SetValues(v []float64) error {
	if len(v) != 5 {
		return fmt.Errorf("%w: arc needs 5 values, got %d", ErrInvalidValues, len(v))
	}
	if err := checkFinite(v); err != nil {
		return err
	}
	if v[2] <= 0 {
		return fmt.Errorf("%w: non-positive arc radius %g", ErrInvalidValues, v[2])
	}
	a.Center = geometry.NewPoint2D(v[0], v[1])
	a.R = v[2]
	a.Start = v[3]
	a.End = v[4]
	a.normalize()
	return nil
}

func (a *Arc) Clone() Form {
	c := *a
	return &c
}
