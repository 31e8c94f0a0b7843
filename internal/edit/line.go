package edit

import (
	"line-editor/internal/form"
	"line-editor/pkg/geometry"
)

// Line handles.
const (
	LineP1 = iota
	LineP2
)

type lineEditing struct {
	dragState
	line  *form.Line
	panel *Panel

	x1, y1, x2, y2 *Field
}

func newLineEditing(l *form.Line) *lineEditing {
	e := &lineEditing{dragState: newDragState(), line: l}
	e.x1 = newField("x1", "X1", func() float64 { return l.P1.X }, func(v float64) error { l.P1.X = v; return nil })
	e.y1 = newField("y1", "Y1", func() float64 { return l.P1.Y }, func(v float64) error { l.P1.Y = v; return nil })
	e.x2 = newField("x2", "X2", func() float64 { return l.P2.X }, func(v float64) error { l.P2.X = v; return nil })
	e.y2 = newField("y2", "Y2", func() float64 { return l.P2.Y }, func(v float64) error { l.P2.Y = v; return nil })
	e.panel = newPanel("Line", e.x1, e.y1, e.x2, e.y2)
	return e
}

func (e *lineEditing) Form() form.Form { return e.line }
func (e *lineEditing) Panel() *Panel   { return e.panel }

func (e *lineEditing) Preview() (Preview, bool) { return Preview{}, false }

func (e *lineEditing) Handles() []HandleMark {
	return []HandleMark{
		{Pos: e.line.P1, Highlighted: e.highlighted == LineP1},
		{Pos: e.line.P2, Highlighted: e.highlighted == LineP2},
	}
}

func (e *lineEditing) candidates() []candidate {
	return []candidate{
		{handle: LineP1, pos: e.line.P1, usable: !(e.x1.Fixed() && e.y1.Fixed())},
		{handle: LineP2, pos: e.line.P2, usable: !(e.x2.Fixed() && e.y2.Fixed())},
	}
}

func (e *lineEditing) handleAt(ctx *Context, pos geometry.Point2D) (candidate, bool) {
	return nearest(ctx.View.ToWorld(pos), ctx.pickRadius(), e.candidates())
}

func (e *lineEditing) OnPressed(ctx *Context, pos geometry.Point2D) bool {
	c, ok := e.handleAt(ctx, pos)
	if !ok {
		return false
	}
	e.grab(ctx, c.handle, c.pos, pos)
	return true
}

func (e *lineEditing) OnDragged(ctx *Context, pos geometry.Point2D) bool {
	if e.selected == noHandle {
		return false
	}
	p := e.target(ctx, pos)
	if e.selected == LineP1 {
		e.line.P1, e.lastSnap = snapPoint(ctx, p, e.line.P1, e.x1.Fixed(), e.y1.Fixed())
	} else {
		e.line.P2, e.lastSnap = snapPoint(ctx, p, e.line.P2, e.x2.Fixed(), e.y2.Fixed())
	}
	e.moved = true
	e.panel.Refresh()
	return true
}

func (e *lineEditing) OnReleased(ctx *Context) bool {
	return e.release(ctx, "drag.line")
}

func (e *lineEditing) OnMoved(ctx *Context, pos geometry.Point2D) bool {
	c, ok := e.handleAt(ctx, pos)
	if !ok {
		return e.hover(noHandle)
	}
	return e.hover(c.handle)
}

func (e *lineEditing) OnClicked(ctx *Context, pos geometry.Point2D) bool {
	return keepSelection(ctx, e.line, pos, e.candidates())
}

func (e *lineEditing) OnKey(*Context) bool { return false }

func (e *lineEditing) OnExit() bool { return e.hover(noHandle) }

// keepSelection reports whether a click at pos still concerns f: it hits
// a handle or the outline within the pick radius.
func keepSelection(ctx *Context, f form.Form, pos geometry.Point2D, cands []candidate) bool {
	w := ctx.View.ToWorld(pos)
	if _, ok := nearest(w, ctx.pickRadius(), cands); ok {
		return true
	}
	_, ok := f.DistanceTo(w, ctx.pickRadius())
	return ok
}
