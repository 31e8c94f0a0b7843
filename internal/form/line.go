package form

import (
	"fmt"

	"line-editor/pkg/geometry"
)

// Line is a straight segment between two endpoints.
type Line struct {
	P1 geometry.Point2D
	P2 geometry.Point2D
}

// NewLine creates a Line from (x1,y1) to (x2,y2).
func NewLine(x1, y1, x2, y2 float64) *Line {
	return &Line{P1: geometry.NewPoint2D(x1, y1), P2: geometry.NewPoint2D(x2, y2)}
}

func (l *Line) Type() Type { return TypeLine }

func (l *Line) DistanceTo(p geometry.Point2D, maxDist float64) (float64, bool) {
	d := geometry.SegmentDistance(p, l.P1, l.P2)
	if d > maxDist {
		return 0, false
	}
	return d, true
}

func (l *Line) DefiningPoints() []geometry.Point2D {
	return []geometry.Point2D{l.P1, l.P2}
}

func (l *Line) BoundingBox() geometry.Rect {
	return geometry.BoundingBox(l.DefiningPoints())
}

func (l *Line) Mirror(dir MirrorDirection, pos float64) {
	l.P1 = mirrorPoint(l.P1, dir, pos)
	l.P2 = mirrorPoint(l.P2, dir, pos)
}

func (l *Line) Translate(dx, dy float64) {
	l.P1 = geometry.Point2D{X: l.P1.X + dx, Y: l.P1.Y + dy}
	l.P2 = geometry.Point2D{X: l.P2.X + dx, Y: l.P2.Y + dy}
}

func (l *Line) Rotate(center geometry.Point2D, angle float64) {
	l.P1 = rotatePoint(l.P1, center, angle)
	l.P2 = rotatePoint(l.P2, center, angle)
}

func (l *Line) Rotate90(center geometry.Point2D, turns int) {
	l.P1 = rotatePoint90(l.P1, center, turns)
	l.P2 = rotatePoint90(l.P2, center, turns)
}

// Values returns [x1, y1, x2, y2].
func (l *Line) Values() []float64 {
	return []float64{l.P1.X, l.P1.Y, l.P2.X, l.P2.Y}
}

func (l *Line) SetValues(v []float64) error {
	if len(v) != 4 {
		return fmt.Errorf("%w: line needs 4 values, got %d", ErrInvalidValues, len(v))
	}
	if err := checkFinite(v); err != nil {
		return err
	}
	l.P1 = geometry.NewPoint2D(v[0], v[1])
	l.P2 = geometry.NewPoint2D(v[2], v[3])
	return nil
}

func (l *Line) Clone() Form {
	c := *l
	return &c
}
