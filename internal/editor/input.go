package editor

import (
	"math"

	"line-editor/internal/edit"
	"line-editor/internal/form"
	"line-editor/internal/hittest"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
)

// Press handles a pointer button going down.
func (s *Session) Press(ev PointerEvent) {
	s.mods = ev.Mods
	s.grabbed = false
	s.panning = false
	if ev.Button == ButtonSecondary {
		return
	}
	if ev.Button == ButtonPrimary && s.editing != nil {
		if s.editing.OnPressed(s.context(), ev.Pos) {
			s.grabbed = true
			s.host.Redraw()
			return
		}
	}
	s.panning = true
	s.lastDrag = ev.Pos
}

// Drag handles pointer motion with a button held.
func (s *Session) Drag(ev PointerEvent) {
	s.mods = ev.Mods
	switch {
	case s.grabbed:
		s.redrawIf(s.editing.OnDragged(s.context(), ev.Pos))
	case s.panning:
		s.view.Pan(ev.Pos.X-s.lastDrag.X, ev.Pos.Y-s.lastDrag.Y)
		s.lastDrag = ev.Pos
		s.host.Redraw()
	}
}

// Release handles a pointer button going up.
func (s *Session) Release(ev PointerEvent) {
	s.mods = ev.Mods
	s.panning = false
	if s.editing == nil {
		s.grabbed = false
		return
	}
	s.grabbed = false
	s.redrawIf(s.editing.OnReleased(s.context()))
}

// Move handles pointer motion without a button held. Without a selection
// it hover-highlights the nearest form.
func (s *Session) Move(ev PointerEvent) {
	s.mods = ev.Mods
	if s.editing != nil {
		s.redrawIf(s.editing.OnMoved(s.context(), ev.Pos))
		return
	}
	var hover []form.Form
	if f, _, ok := s.nearestForm(ev.Pos); ok {
		hover = []form.Form{f}
	}
	if sameForms(hover, s.highlighted) {
		return
	}
	s.highlighted = hover
	s.host.HighlightedFormsChanged(hover)
	s.host.Redraw()
}

// Click handles a press and release without motion. A primary click on
// nothing the edited form can handle ends the editing and selects the form
// under the pointer, if any. A secondary click opens the context menu.
func (s *Session) Click(ev PointerEvent) {
	s.mods = ev.Mods
	switch ev.Button {
	case ButtonSecondary:
		s.host.ShowContextMenu(s.ContextMenu(), ev.Pos)
		return
	case ButtonTertiary:
		return
	}
	if s.editing != nil {
		if s.editing.OnClicked(s.context(), ev.Pos) {
			s.host.Redraw()
			return
		}
		s.Deselect()
	}
	if f, _, ok := s.nearestForm(ev.Pos); ok {
		s.Select(f)
	}
}

// Exit handles the pointer leaving the canvas.
func (s *Session) Exit() {
	changed := false
	if s.editing != nil {
		changed = s.editing.OnExit()
	}
	if len(s.highlighted) > 0 && s.editing == nil {
		s.highlighted = nil
		s.host.HighlightedFormsChanged(nil)
		changed = true
	}
	s.redrawIf(changed)
}

// KeyPressed records the modifiers held after a key went down.
func (s *Session) KeyPressed(mods edit.Modifiers) {
	s.keyChanged(mods)
}

// KeyReleased records the modifiers held after a key went up.
func (s *Session) KeyReleased(mods edit.Modifiers) {
	s.keyChanged(mods)
}

func (s *Session) keyChanged(mods edit.Modifiers) {
	if mods == s.mods {
		return
	}
	s.mods = mods
	if s.editing != nil {
		s.redrawIf(s.editing.OnKey(s.context()))
	}
}

// Scroll zooms around pos, one step per unit of dy. Positive dy zooms in.
func (s *Session) Scroll(pos geometry.Point2D, dy float64) {
	if dy == 0 {
		return
	}
	s.view.Zoom(math.Pow(view.ZoomStep, dy), pos)
	s.host.Redraw()
}

// nearestForm returns the form closest to the screen position pos within
// the hit radius.
func (s *Session) nearestForm(pos geometry.Point2D) (form.Form, float64, bool) {
	return hittest.NearestForm(s.forms, s.view.ToWorld(pos), s.view.ConvertLength(hittest.MaxNearDistance))
}

func sameForms(a, b []form.Form) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
