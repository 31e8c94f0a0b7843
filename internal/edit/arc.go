package edit

import (
	"errors"
	"math"
	"sort"

	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/pkg/geometry"
)

// Arc handles.
const (
	ArcCenter = iota
	ArcStart
	ArcEnd
	ArcRadius
)

type arcEditing struct {
	dragState
	arc   *form.Arc
	panel *Panel

	cx, cy, r, start, end *Field

	// Radius handle position for drawing; valid while hovering or dragging it.
	radiusPos geometry.Point2D
	// Sorted angles in [0, 2π) where guide lines cross the circle, computed
	// when a Start or End drag begins.
	guideAngles []float64
}

func newArcEditing(a *form.Arc) *arcEditing {
	e := &arcEditing{dragState: newDragState(), arc: a}
	e.cx = newField("cx", "Center X", func() float64 { return a.Center.X }, func(v float64) error { a.Center.X = v; return nil })
	e.cy = newField("cy", "Center Y", func() float64 { return a.Center.Y }, func(v float64) error { a.Center.Y = v; return nil })
	e.r = newField("r", "Radius", func() float64 { return a.R }, func(v float64) error {
		if !(v > 0) {
			return errors.New("radius must be greater than 0")
		}
		a.R = v
		return nil
	})
	e.start = newField("start", "Start (°)", func() float64 { return geometry.Degrees(a.Start) }, func(v float64) error {
		if v > geometry.Degrees(a.End) {
			return errors.New("start angle must not exceed end angle")
		}
		a.Start = geometry.Radians(v)
		return nil
	})
	e.end = newField("end", "End (°)", func() float64 { return geometry.Degrees(a.End) }, func(v float64) error {
		if v < geometry.Degrees(a.Start) {
			return errors.New("end angle must not be below start angle")
		}
		a.End = geometry.Radians(v)
		return nil
	})
	e.panel = newPanel("Arc", e.cx, e.cy, e.r, e.start, e.end)
	return e
}

func (e *arcEditing) Form() form.Form { return e.arc }
func (e *arcEditing) Panel() *Panel   { return e.panel }

func (e *arcEditing) Preview() (Preview, bool) { return Preview{}, false }

func (e *arcEditing) Handles() []HandleMark {
	marks := []HandleMark{
		{Pos: e.arc.Center, Highlighted: e.highlighted == ArcCenter},
		{Pos: e.arc.StartPoint(), Highlighted: e.highlighted == ArcStart},
		{Pos: e.arc.EndPoint(), Highlighted: e.highlighted == ArcEnd},
	}
	if e.highlighted == ArcRadius {
		marks = append(marks, HandleMark{Pos: e.radiusPos, Highlighted: true})
	}
	return marks
}

// handleAt finds the handle under pos: the nearest of center, start and
// end, else the radius handle when pos is on the arc's outline.
func (e *arcEditing) handleAt(ctx *Context, pos geometry.Point2D) (candidate, bool) {
	w := ctx.View.ToWorld(pos)
	maxDist := ctx.pickRadius()
	cands := []candidate{
		{handle: ArcCenter, pos: e.arc.Center, usable: !(e.cx.Fixed() && e.cy.Fixed())},
		{handle: ArcStart, pos: e.arc.StartPoint(), usable: !e.start.Fixed()},
		{handle: ArcEnd, pos: e.arc.EndPoint(), usable: !e.end.Fixed()},
	}
	if c, ok := nearest(w, maxDist, cands); ok {
		return c, true
	}
	if e.r.Fixed() {
		return candidate{}, false
	}
	dC := w.Distance(e.arc.Center)
	if dC == 0 || math.Abs(dC-e.arc.R) >= maxDist {
		return candidate{}, false
	}
	angle := e.arc.Center.AngleTo(w)
	if !e.arc.ContainsAngle(angle) {
		return candidate{}, false
	}
	return candidate{handle: ArcRadius, pos: e.arc.Center.Polar(e.arc.R, angle), usable: true}, true
}

func (e *arcEditing) OnPressed(ctx *Context, pos geometry.Point2D) bool {
	c, ok := e.handleAt(ctx, pos)
	if !ok {
		return false
	}
	e.grab(ctx, c.handle, c.pos, pos)
	if c.handle == ArcRadius {
		e.radiusPos = c.pos
	}
	e.guideAngles = nil
	if (c.handle == ArcStart || c.handle == ArcEnd) && ctx.Snap.Options().StickToGuideLines {
		e.guideAngles = guideIntersections(e.arc, ctx.Snap.Guides())
	}
	return true
}

// guideIntersections returns the sorted angles in [0, 2π) at which guide
// lines cross the arc's circle.
func guideIntersections(a *form.Arc, set *guides.Set) []float64 {
	if a.R <= 0 {
		return nil
	}
	var angles []float64
	for _, g := range set.All() {
		switch g.Type {
		case guides.Horizontal:
			if a.Center.Y-a.R < g.Pos && g.Pos < a.Center.Y+a.R {
				s := math.Asin((g.Pos - a.Center.Y) / a.R)
				angles = append(angles, geometry.NormalizeAngle(s), geometry.NormalizeAngle(math.Pi-s))
			}
		case guides.Vertical:
			if a.Center.X-a.R < g.Pos && g.Pos < a.Center.X+a.R {
				c := math.Acos((g.Pos - a.Center.X) / a.R)
				angles = append(angles, geometry.NormalizeAngle(c), geometry.NormalizeAngle(-c))
			}
		}
	}
	sort.Float64s(angles)
	return angles
}

// snapAngle returns the guide intersection angle nearest to raw within the
// angular tolerance, else raw.
func (e *arcEditing) snapAngle(raw, maxDist float64) float64 {
	if len(e.guideAngles) == 0 || e.arc.R <= 0 {
		return raw
	}
	tol := maxDist / e.arc.R
	best := raw
	bestDist := tol
	for _, g := range e.guideAngles {
		if d := math.Abs(geometry.AngleDist(raw, g)); d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}

func (e *arcEditing) OnDragged(ctx *Context, pos geometry.Point2D) bool {
	if e.selected == noHandle {
		return false
	}
	p := e.target(ctx, pos)
	a := e.arc
	switch e.selected {
	case ArcCenter:
		a.Center, e.lastSnap = snapPoint(ctx, p, a.Center, e.cx.Fixed(), e.cy.Fixed())
	case ArcRadius:
		res := ctx.Snap.Resolve(p, false, false)
		r := a.Center.Distance(res.Point)
		if r <= 0 {
			return false
		}
		a.R = r
		e.lastSnap = res
		e.radiusPos = a.Center.Polar(r, a.Center.AngleTo(res.Point))
	case ArcStart:
		angle := e.snapAngle(a.Center.AngleTo(p), ctx.Snap.MaxDist())
		for angle > a.End {
			angle -= geometry.TwoPi
		}
		for angle < a.End-geometry.TwoPi {
			angle += geometry.TwoPi
		}
		a.Start = angle
	case ArcEnd:
		angle := e.snapAngle(a.Center.AngleTo(p), ctx.Snap.MaxDist())
		for angle < a.Start {
			angle += geometry.TwoPi
		}
		for angle > a.Start+geometry.TwoPi {
			angle -= geometry.TwoPi
		}
		a.End = angle
	}
	e.moved = true
	e.panel.Refresh()
	return true
}

func (e *arcEditing) OnReleased(ctx *Context) bool {
	e.guideAngles = nil
	return e.release(ctx, "drag.arc")
}

func (e *arcEditing) OnMoved(ctx *Context, pos geometry.Point2D) bool {
	c, ok := e.handleAt(ctx, pos)
	if !ok {
		return e.hover(noHandle)
	}
	if c.handle == ArcRadius {
		moved := e.radiusPos != c.pos
		e.radiusPos = c.pos
		return e.hover(c.handle) || moved
	}
	return e.hover(c.handle)
}

func (e *arcEditing) OnClicked(ctx *Context, pos geometry.Point2D) bool {
	if _, ok := e.handleAt(ctx, pos); ok {
		return true
	}
	_, ok := e.arc.DistanceTo(ctx.View.ToWorld(pos), ctx.pickRadius())
	return ok
}

func (e *arcEditing) OnKey(*Context) bool { return false }

func (e *arcEditing) OnExit() bool { return e.hover(noHandle) }
