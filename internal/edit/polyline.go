package edit

import (
	"line-editor/internal/form"
	"line-editor/internal/snap"
	"line-editor/pkg/geometry"
)

type polyLineEditing struct {
	dragState
	pl     *form.PolyLine
	panel  *Panel
	points *PointList

	x, y *Field

	preview    *Preview
	lastCursor *geometry.Point2D
}

func newPolyLineEditing(pl *form.PolyLine) *polyLineEditing {
	e := &polyLineEditing{dragState: newDragState(), pl: pl}
	e.points = &PointList{pl: pl}
	sel := func() int {
		if e.points.selected >= len(pl.Points) {
			e.points.selected = len(pl.Points) - 1
		}
		return e.points.selected
	}
	e.x = newField("x", "X", func() float64 { return pl.Points[sel()].X }, func(v float64) error { pl.Points[sel()].X = v; return nil })
	e.y = newField("y", "Y", func() float64 { return pl.Points[sel()].Y }, func(v float64) error { pl.Points[sel()].Y = v; return nil })
	e.panel = newPanel("PolyLine", e.x, e.y)
	e.panel.Points = e.points
	e.points.panel = e.panel
	return e
}

func (e *polyLineEditing) Form() form.Form { return e.pl }
func (e *polyLineEditing) Panel() *Panel   { return e.panel }

func (e *polyLineEditing) Preview() (Preview, bool) {
	if e.preview == nil {
		return Preview{}, false
	}
	return *e.preview, true
}

func (e *polyLineEditing) Handles() []HandleMark {
	marks := make([]HandleMark, len(e.pl.Points))
	for i, p := range e.pl.Points {
		marks[i] = HandleMark{Pos: p, Highlighted: e.highlighted == i}
	}
	return marks
}

func (e *polyLineEditing) candidates() []candidate {
	usable := !(e.x.Fixed() && e.y.Fixed())
	cands := make([]candidate, len(e.pl.Points))
	for i, p := range e.pl.Points {
		cands[i] = candidate{handle: i, pos: p, usable: usable}
	}
	return cands
}

func (e *polyLineEditing) handleAt(ctx *Context, pos geometry.Point2D) (candidate, bool) {
	return nearest(ctx.View.ToWorld(pos), ctx.pickRadius(), e.candidates())
}

// computePreview places the insertion preview for the pointer at pos: on
// the nearest segment when one is within the snap radius, otherwise at the
// snapped pointer position appended to the end.
func (e *polyLineEditing) computePreview(ctx *Context, pos geometry.Point2D) {
	w := ctx.View.ToWorld(pos)
	tol := ctx.View.ConvertLength(snap.MaxGuideLineDistance)
	if i, p, ok := e.pl.NearestSegment(w, tol); ok {
		e.preview = &Preview{Pos: p, Index: i, OnSegment: true}
		return
	}
	res := ctx.Snap.Resolve(w, false, false)
	e.preview = &Preview{Pos: res.Point, Index: len(e.pl.Points)}
}

func (e *polyLineEditing) clearPreview() bool {
	if e.preview == nil {
		return false
	}
	e.preview = nil
	return true
}

func (e *polyLineEditing) OnPressed(ctx *Context, pos geometry.Point2D) bool {
	if ctx.Mods.Has(ModControl) {
		return true
	}
	e.clearPreview()
	c, ok := e.handleAt(ctx, pos)
	if !ok {
		return false
	}
	e.grab(ctx, c.handle, c.pos, pos)
	e.points.Select(c.handle)
	return true
}

func (e *polyLineEditing) OnDragged(ctx *Context, pos geometry.Point2D) bool {
	redraw := false
	if !ctx.Mods.Has(ModControl) {
		redraw = e.clearPreview()
	}
	if e.selected == noHandle || e.selected >= len(e.pl.Points) {
		return redraw
	}
	p := e.target(ctx, pos)
	e.pl.Points[e.selected], e.lastSnap = snapPoint(ctx, p, e.pl.Points[e.selected], e.x.Fixed(), e.y.Fixed())
	e.moved = true
	e.panel.Refresh()
	return true
}

func (e *polyLineEditing) OnReleased(ctx *Context) bool {
	if ctx.Mods.Has(ModControl) {
		e.release(ctx, "drag.polyline")
		return true
	}
	e.clearPreview()
	return e.release(ctx, "drag.polyline")
}

func (e *polyLineEditing) OnMoved(ctx *Context, pos geometry.Point2D) bool {
	p := pos
	e.lastCursor = &p
	if ctx.Mods.Has(ModControl) {
		e.computePreview(ctx, pos)
		e.hover(noHandle)
		return true
	}
	redraw := e.clearPreview()
	c, ok := e.handleAt(ctx, pos)
	if !ok {
		return e.hover(noHandle) || redraw
	}
	return e.hover(c.handle) || redraw
}

// OnClicked commits the preview point when Ctrl is held.
func (e *polyLineEditing) OnClicked(ctx *Context, pos geometry.Point2D) bool {
	if ctx.Mods.Has(ModControl) {
		e.computePreview(ctx, pos)
		pv := *e.preview
		e.preview = nil
		idx := e.pl.Insert(pv.Index, pv.Pos)
		e.points.selected = idx
		e.panel.Refresh()
		ctx.changed("insert.polyline")
		return true
	}
	return keepSelection(ctx, e.pl, pos, e.candidates())
}

// OnKey starts the preview at the last pointer position when Ctrl goes
// down and drops it when Ctrl is released.
func (e *polyLineEditing) OnKey(ctx *Context) bool {
	if !ctx.Mods.Has(ModControl) {
		return e.clearPreview()
	}
	if e.lastCursor == nil || e.selected != noHandle {
		return false
	}
	e.computePreview(ctx, *e.lastCursor)
	return true
}

func (e *polyLineEditing) OnExit() bool {
	e.lastCursor = nil
	h := e.hover(noHandle)
	return e.clearPreview() || h
}
