// Package form defines the editable line primitives: Line, Arc and PolyLine.
//
// Every form lives in world coordinates and exposes the same capability set:
// distance queries for hit-testing, the defining points used as snap targets,
// in-place transforms and a flat value array for exchange with a document.
package form

import (
	"errors"
	"fmt"
	"math"

	"line-editor/pkg/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidValues is returned when a value array does not describe a form.
var ErrInvalidValues = errors.New("invalid form values")

// Type identifies the kind of a form.
type Type int

const (
	TypeLine Type = iota
	TypeArc
	TypePolyLine
)

var typeNames = [...]string{
	TypeLine:     "Line",
	TypeArc:      "Arc",
	TypePolyLine: "PolyLine",
}

// Types lists every form type in menu order.
var Types = []Type{TypePolyLine, TypeLine, TypeArc}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType converts a type name back to a Type.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown form type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MirrorDirection selects the axis a mirror flips.
type MirrorDirection int

const (
	// MirrorHorizontal flips x around the vertical line x = pos.
	MirrorHorizontal MirrorDirection = iota
	// MirrorVertical flips y around the horizontal line y = pos.
	MirrorVertical
)

func (d MirrorDirection) String() string {
	if d == MirrorVertical {
		return "Vertical"
	}
	return "Horizontal"
}

// Form is a single editable geometric shape.
type Form interface {
	Type() Type

	// DistanceTo returns the distance from p to the visible outline, or
	// false when it exceeds maxDist.
	DistanceTo(p geometry.Point2D, maxDist float64) (float64, bool)

	// DefiningPoints returns the points other forms may snap to.
	DefiningPoints() []geometry.Point2D

	BoundingBox() geometry.Rect

	Mirror(dir MirrorDirection, pos float64)
	Translate(dx, dy float64)
	Rotate(center geometry.Point2D, angle float64)
	// Rotate90 rotates by quarterTurns counterclockwise quarter turns using
	// exact coordinate swaps.
	Rotate90(center geometry.Point2D, quarterTurns int)

	// Values returns the flat exchange representation.
	Values() []float64
	// SetValues replaces the geometry from a flat exchange representation.
	SetValues(values []float64) error

	Clone() Form
}

func mirrorPoint(p geometry.Point2D, dir MirrorDirection, pos float64) geometry.Point2D {
	if dir == MirrorVertical {
		return geometry.Point2D{X: p.X, Y: 2*pos - p.Y}
	}
	return geometry.Point2D{X: 2*pos - p.X, Y: p.Y}
}

func rotatePoint(p, center geometry.Point2D, angle float64) geometry.Point2D {
	return geometry.FromVec(r2.Rotate(p.Vec(), angle, center.Vec()))
}

func quarterTurns(n int) int {
	return ((n % 4) + 4) % 4
}

func rotatePoint90(p, center geometry.Point2D, turns int) geometry.Point2D {
	dx, dy := p.X-center.X, p.Y-center.Y
	switch quarterTurns(turns) {
	case 1:
		dx, dy = -dy, dx
	case 2:
		dx, dy = -dx, -dy
	case 3:
		dx, dy = dy, -dx
	}
	return geometry.Point2D{X: center.X + dx, Y: center.Y + dy}
}

func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value %d is not finite", ErrInvalidValues, i)
		}
	}
	return nil
}
