// Package guides holds the axis-aligned guide lines used for snapping.
package guides

import (
	"fmt"
	"math"
)

// Type is the orientation of a guide line.
type Type int

const (
	// Horizontal guide lines constrain y.
	Horizontal Type = iota
	// Vertical guide lines constrain x.
	Vertical
)

func (t Type) String() string {
	switch t {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType converts "Horizontal" or "Vertical" to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "Horizontal":
		return Horizontal, nil
	case "Vertical":
		return Vertical, nil
	}
	return 0, fmt.Errorf("unknown guide line type %q", s)
}

// GuideLine is an infinite horizontal or vertical line at Pos.
// Pos is the y value of a Horizontal line and the x value of a Vertical one.
type GuideLine struct {
	Type Type
	Pos  float64
}

func (g GuideLine) String() string {
	return fmt.Sprintf("%v %g", g.Type, g.Pos)
}

// Set is an ordered collection of guide lines. Order matters only to the
// editing UI.
type Set struct {
	lines []GuideLine
}

// NewSet creates a set holding lines.
func NewSet(lines ...GuideLine) *Set {
	return &Set{lines: append([]GuideLine(nil), lines...)}
}

// Len returns the number of guide lines.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lines)
}

// IsEmpty reports whether the set holds no guide lines.
func (s *Set) IsEmpty() bool { return s.Len() == 0 }

// At returns the i-th guide line.
func (s *Set) At(i int) GuideLine { return s.lines[i] }

// All returns a copy of the guide lines in order.
func (s *Set) All() []GuideLine {
	if s == nil {
		return nil
	}
	return append([]GuideLine(nil), s.lines...)
}

// Add appends a guide line and returns its index.
func (s *Set) Add(g GuideLine) int {
	s.lines = append(s.lines, g)
	return len(s.lines) - 1
}

// Remove deletes the i-th guide line.
func (s *Set) Remove(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return nil
}

// SetPos moves the i-th guide line.
func (s *Set) SetPos(i int, pos float64) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.lines[i].Pos = pos
	return nil
}

// Swap exchanges the positions of two guide lines in the list.
func (s *Set) Swap(i, j int) error {
	if err := s.check(i); err != nil {
		return err
	}
	if err := s.check(j); err != nil {
		return err
	}
	s.lines[i], s.lines[j] = s.lines[j], s.lines[i]
	return nil
}

// Replace makes s hold a copy of other's guide lines.
func (s *Set) Replace(other *Set) {
	s.lines = other.All()
}

// SetDefault replaces the contents with vertical lines at each x and
// horizontal lines at each y.
func (s *Set) SetDefault(vertical, horizontal []float64) {
	s.lines = s.lines[:0]
	for _, x := range vertical {
		s.lines = append(s.lines, GuideLine{Type: Vertical, Pos: x})
	}
	for _, y := range horizontal {
		s.lines = append(s.lines, GuideLine{Type: Horizontal, Pos: y})
	}
}

// Nearest returns the index of the guide line of type t closest to v with
// |Pos−v| ≤ maxDist, and that distance. The first of equally near lines wins.
func (s *Set) Nearest(t Type, v, maxDist float64) (int, float64, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, g := range s.All() {
		if g.Type != t {
			continue
		}
		if d := math.Abs(g.Pos - v); d <= maxDist && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return -1, 0, false
	}
	return best, bestDist, true
}

func (s *Set) check(i int) error {
	if i < 0 || i >= len(s.lines) {
		return fmt.Errorf("guide line index %d out of range [0,%d)", i, len(s.lines))
	}
	return nil
}
