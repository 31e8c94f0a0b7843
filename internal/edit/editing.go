// Package edit implements the per-form point editing state machines and
// the value panel models bound to them.
//
// An Editing exists while a form is selected. It is Armed until a press
// grabs one of the form's handles, Dragging until release, and back to
// Armed afterwards. Every input method takes screen positions in pixels.
package edit

import (
	"fmt"

	"line-editor/internal/form"
	"line-editor/internal/hittest"
	"line-editor/internal/snap"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
)

// Modifiers is the set of keyboard modifiers held during an input event.
type Modifiers uint8

const (
	ModControl Modifiers = 1 << iota
	ModShift
	ModAlt
)

// Has reports whether m contains all of o.
func (m Modifiers) Has(o Modifiers) bool { return m&o == o }

// Context carries what an input event needs from the session: the view,
// a resolver excluding the edited form and the held modifiers.
type Context struct {
	View *view.View
	Snap *snap.Resolver
	Mods Modifiers
	// OnChange is called after the form geometry was modified.
	OnChange func(caller string)
}

func (c *Context) changed(caller string) {
	if c.OnChange != nil {
		c.OnChange(caller)
	}
}

func (c *Context) pickRadius() float64 {
	return c.View.ConvertLength(hittest.MaxNearDistance)
}

// HandleMark is a handle drawn on the selected form.
type HandleMark struct {
	Pos         geometry.Point2D
	Highlighted bool
}

// Preview is the pending PolyLine point shown while Ctrl is held.
type Preview struct {
	Pos geometry.Point2D
	// Index is where the point will be inserted; len(points) appends.
	Index int
	// OnSegment is true when the point lies on an existing segment.
	OnSegment bool
}

// Editing is the point editing state of a selected form.
type Editing interface {
	Form() form.Form
	Panel() *Panel

	// Handles returns the handles to draw, in world coordinates.
	Handles() []HandleMark
	// Preview returns the PolyLine insertion preview, if any.
	Preview() (Preview, bool)
	// LastSnap returns the snap applied by the current drag.
	LastSnap() snap.Result
	Dragging() bool

	// OnPressed grabs a handle. It reports whether the press was consumed.
	OnPressed(ctx *Context, pos geometry.Point2D) bool
	// OnDragged moves the grabbed handle. It reports whether to redraw.
	OnDragged(ctx *Context, pos geometry.Point2D) bool
	// OnReleased ends a drag. It reports whether the release was consumed.
	OnReleased(ctx *Context) bool
	// OnMoved tracks the hovered handle. It reports whether to redraw.
	OnMoved(ctx *Context, pos geometry.Point2D) bool
	// OnClicked reports whether the form stays selected.
	OnClicked(ctx *Context, pos geometry.Point2D) bool
	// OnKey reacts to a modifier change. It reports whether to redraw.
	OnKey(ctx *Context) bool
	// OnExit is called when the pointer leaves the canvas.
	OnExit() bool
}

// New returns the editing state machine for f.
func New(f form.Form) Editing {
	switch f := f.(type) {
	case *form.Line:
		return newLineEditing(f)
	case *form.Arc:
		return newArcEditing(f)
	case *form.PolyLine:
		return newPolyLineEditing(f)
	}
	panic(fmt.Sprintf("edit: no editing for form type %T", f))
}

const noHandle = -1

// dragState is the part of the state machine shared by all form types.
type dragState struct {
	selected    int
	highlighted int
	pickOffset  geometry.Point2D
	lastSnap    snap.Result
	moved       bool
}

func newDragState() dragState {
	return dragState{selected: noHandle, highlighted: noHandle, lastSnap: noSnap()}
}

func noSnap() snap.Result {
	return snap.Result{GuideX: -1, GuideY: -1}
}

func (d *dragState) Dragging() bool { return d.selected != noHandle }

func (d *dragState) LastSnap() snap.Result { return d.lastSnap }

// grab starts dragging handle h whose exact world position is at. The pick
// offset keeps the handle at the same sub-pixel distance from the pointer.
func (d *dragState) grab(ctx *Context, h int, at, press geometry.Point2D) {
	d.selected = h
	d.highlighted = h
	d.pickOffset = ctx.View.ToScreen(at).Sub(press)
	d.moved = false
}

// target converts the pointer position to the world position of the
// grabbed handle.
func (d *dragState) target(ctx *Context, pos geometry.Point2D) geometry.Point2D {
	return ctx.View.ToWorld(pos.Add(d.pickOffset))
}

// release ends a drag. It reports whether a drag was active.
func (d *dragState) release(ctx *Context, caller string) bool {
	if d.selected == noHandle {
		return false
	}
	if d.moved {
		ctx.changed(caller)
	}
	d.selected = noHandle
	d.highlighted = noHandle
	d.pickOffset = geometry.Point2D{}
	d.lastSnap = noSnap()
	d.moved = false
	return true
}

func (d *dragState) hover(h int) bool {
	if d.highlighted == h {
		return false
	}
	d.highlighted = h
	return true
}

// snapPoint resolves p keeping fixed axes at their current values.
func snapPoint(ctx *Context, p, current geometry.Point2D, xFixed, yFixed bool) (geometry.Point2D, snap.Result) {
	if xFixed {
		p.X = current.X
	}
	if yFixed {
		p.Y = current.Y
	}
	res := ctx.Snap.Resolve(p, xFixed, yFixed)
	return res.Point, res
}

// candidate is a reachable handle at a world distance from the pointer.
type candidate struct {
	handle int
	pos    geometry.Point2D
	usable bool
}

// nearest returns the usable candidate closest to p within maxDist. Ties
// keep the earlier candidate.
func nearest(p geometry.Point2D, maxDist float64, cands []candidate) (candidate, bool) {
	var best candidate
	bestDist := 0.0
	found := false
	for _, c := range cands {
		if !c.usable {
			continue
		}
		d := p.Distance(c.pos)
		if d >= maxDist {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}
