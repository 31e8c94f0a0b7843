package form

import (
	"fmt"
	"math"

	"line-editor/pkg/geometry"
)

// Record is the exchange representation of a form: a type tag and a flat
// value array whose layout depends on the type.
type Record struct {
	Type   Type      `json:"type"`
	Values []float64 `json:"values"`
}

// ToRecord converts a form to its exchange representation.
func ToRecord(f Form) Record {
	return Record{Type: f.Type(), Values: f.Values()}
}

// Factory builds forms from exchange records. Hosts with their own document
// model can supply an implementation that wraps their shape types.
type Factory interface {
	New(rec Record) (Form, error)
}

// DefaultFactory builds the Line, Arc and PolyLine types of this package.
type DefaultFactory struct{}

// New implements Factory.
func (DefaultFactory) New(rec Record) (Form, error) {
	var f Form
	switch rec.Type {
	case TypeLine:
		f = &Line{}
	case TypeArc:
		f = &Arc{}
	case TypePolyLine:
		f = &PolyLine{}
	default:
		return nil, fmt.Errorf("%w: unknown type %v", ErrInvalidValues, rec.Type)
	}
	if err := f.SetValues(rec.Values); err != nil {
		return nil, fmt.Errorf("%v record: %w", rec.Type, err)
	}
	return f, nil
}

// FromRecord builds a form with the DefaultFactory.
func FromRecord(rec Record) (Form, error) {
	return DefaultFactory{}.New(rec)
}

// Clone returns a deep copy of f.
func Clone(f Form) Form {
	return f.Clone()
}

// CloneAll returns deep copies of every form.
func CloneAll(forms []Form) []Form {
	out := make([]Form, len(forms))
	for i, f := range forms {
		out[i] = f.Clone()
	}
	return out
}

// NewDefault creates a form of type t placed inside the visible rectangle.
func NewDefault(t Type, view geometry.Rect) Form {
	x, y, w, h := view.X, view.Y, view.Width, view.Height
	switch t {
	case TypeLine:
		return NewLine(x+2*w/5, y+2*h/5, x+3*w/5, y+3*h/5)
	case TypeArc:
		r := math.Min(w, h) / 6
		if !(r > 0) {
			r = 1
		}
		return NewArc(x+w/2, y+h/2, r, 0, math.Pi)
	case TypePolyLine:
		return NewPolyLine(
			geometry.NewPoint2D(x+2*w/5, y+2*h/5),
			geometry.NewPoint2D(x+2.5*w/5, y+3*h/5),
			geometry.NewPoint2D(x+3*w/5, y+2*h/5),
		)
	}
	panic(fmt.Sprintf("form: NewDefault with unknown type %v", t))
}

// Bounds returns the union of the bounding boxes of forms, and false when
// there are none.
func Bounds(forms []Form) (geometry.Rect, bool) {
	if len(forms) == 0 {
		return geometry.Rect{}, false
	}
	r := forms[0].BoundingBox()
	for _, f := range forms[1:] {
		r = r.Union(f.BoundingBox())
	}
	return r, true
}

// ContainsForm reports whether forms holds f (by identity).
func ContainsForm(forms []Form, f Form) bool {
	return IndexOf(forms, f) >= 0
}

// IndexOf returns the index of f in forms by identity, or -1.
func IndexOf(forms []Form, f Form) int {
	for i, g := range forms {
		if g == f {
			return i
		}
	}
	return -1
}
