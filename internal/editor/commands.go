package editor

import (
	"fmt"
	"math"

	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/pkg/geometry"
)

// AddForm appends a new form of type t placed inside the visible area and
// selects it.
func (s *Session) AddForm(t form.Type) (form.Form, error) {
	if !s.host.CanModifyForms() {
		return nil, fmt.Errorf("add %s: %w", t, ErrFormsLocked)
	}
	f := form.NewDefault(t, s.view.ViewRect())
	s.forms = append(s.forms, f)
	s.emitForms(Added, "addForm", []form.Form{f}, s.forms)
	s.Select(f)
	return f, nil
}

// RemoveForms removes the given forms. Forms not in the list are ignored.
func (s *Session) RemoveForms(fs []form.Form) error {
	if !s.host.CanModifyForms() {
		return fmt.Errorf("remove forms: %w", ErrFormsLocked)
	}
	var removed []form.Form
	kept := s.forms[:0:0]
	for _, f := range s.forms {
		if form.ContainsForm(fs, f) {
			removed = append(removed, f)
			continue
		}
		kept = append(kept, f)
	}
	if len(removed) == 0 {
		return nil
	}
	if sel := s.Selected(); sel != nil && form.ContainsForm(removed, sel) {
		s.editing = nil
		s.grabbed = false
		s.host.ShowPanel(Panel{Kind: GeneralPanel})
	}
	s.highlighted = without(s.highlighted, removed)
	s.forms = kept
	s.emitForms(Removed, "removeForms", removed, s.forms)
	s.host.Redraw()
	return nil
}

func without(list, drop []form.Form) []form.Form {
	var out []form.Form
	for _, f := range list {
		if !form.ContainsForm(drop, f) {
			out = append(out, f)
		}
	}
	return out
}

// MoveFormUp moves f one place towards the start of the list.
func (s *Session) MoveFormUp(f form.Form) bool {
	i := form.IndexOf(s.forms, f)
	if i <= 0 {
		return false
	}
	s.forms[i-1], s.forms[i] = s.forms[i], s.forms[i-1]
	s.emitForms(Changed, "moveFormUp", []form.Form{f}, s.forms)
	s.host.Redraw()
	return true
}

// MoveFormDown moves f one place towards the end of the list.
func (s *Session) MoveFormDown(f form.Form) bool {
	i := form.IndexOf(s.forms, f)
	if i < 0 || i >= len(s.forms)-1 {
		return false
	}
	s.forms[i+1], s.forms[i] = s.forms[i], s.forms[i+1]
	s.emitForms(Changed, "moveFormDown", []form.Form{f}, s.forms)
	s.host.Redraw()
	return true
}

// CopyForms stores clones of fs in the session clipboard.
func (s *Session) CopyForms(fs []form.Form) {
	s.clipboard = form.CloneAll(fs)
}

// CanPaste reports whether the clipboard holds forms.
func (s *Session) CanPaste() bool { return len(s.clipboard) > 0 }

// PasteForms appends clones of the clipboard contents.
func (s *Session) PasteForms() ([]form.Form, error) {
	if len(s.clipboard) == 0 {
		return nil, nil
	}
	if !s.host.CanModifyForms() {
		return nil, fmt.Errorf("paste forms: %w", ErrFormsLocked)
	}
	pasted := form.CloneAll(s.clipboard)
	s.forms = append(s.forms, pasted...)
	s.emitForms(Added, "pasteForms", pasted, s.forms)
	s.host.Redraw()
	return pasted, nil
}

// MirrorForms mirrors fs about the line at pos.
func (s *Session) MirrorForms(fs []form.Form, dir form.MirrorDirection, pos float64) {
	for _, f := range fs {
		f.Mirror(dir, pos)
	}
	s.transformed(fs, "mirrorForms")
}

// TranslateForms moves fs by dx, dy world units.
func (s *Session) TranslateForms(fs []form.Form, dx, dy float64) {
	for _, f := range fs {
		f.Translate(dx, dy)
	}
	s.transformed(fs, "translateForms")
}

// RotateForms rotates fs around center by degrees, counterclockwise as
// seen on screen.
func (s *Session) RotateForms(fs []form.Form, center geometry.Point2D, degrees float64) {
	a := geometry.Radians(degrees)
	if s.screenFlipped() {
		a = -a
	}
	for _, f := range fs {
		f.Rotate(center, a)
	}
	s.transformed(fs, "rotateForms")
}

// Rotate90Forms rotates fs around center by quarter turns, counterclockwise
// as seen on screen.
func (s *Session) Rotate90Forms(fs []form.Form, center geometry.Point2D, turns int) {
	if s.screenFlipped() {
		turns = -turns
	}
	for _, f := range fs {
		f.Rotate90(center, turns)
	}
	s.transformed(fs, "rotate90Forms")
}

// SimplifyTolerance is the default simplification tolerance in screen
// pixels.
const SimplifyTolerance = 2.0

// SimplifyForms removes PolyLine points that deviate less than tolerance
// screen pixels from a straight run. Other form types are left alone. It
// returns the number of points removed.
func (s *Session) SimplifyForms(fs []form.Form, tolerance float64) int {
	eps := s.view.ConvertLength(tolerance)
	var changed []form.Form
	removed := 0
	for _, f := range fs {
		pl, ok := f.(*form.PolyLine)
		if !ok {
			continue
		}
		if n := pl.Simplify(eps); n > 0 {
			removed += n
			changed = append(changed, f)
		}
	}
	if len(changed) == 0 {
		return 0
	}
	// Handle indices of the edited form are stale now.
	if s.editing != nil && form.ContainsForm(changed, s.editing.Form()) {
		f := s.editing.Form()
		s.editing = nil
		s.grabbed = false
		s.Select(f)
	}
	logger().Debug("forms simplified", "forms", len(changed), "removed", removed)
	s.transformed(changed, "simplifyForms")
	return removed
}

// screenFlipped reports whether the view mirrors the world relative to the
// mathematical orientation, turning a positive world angle clockwise.
func (s *Session) screenFlipped() bool {
	st := s.view.State()
	return st.XRight == st.YDown
}

func (s *Session) transformed(fs []form.Form, caller string) {
	if len(fs) == 0 {
		return
	}
	if s.editing != nil && form.ContainsForm(fs, s.editing.Form()) {
		s.editing.Panel().Refresh()
	}
	s.emitForms(Changed, caller, fs, nil)
	s.host.Redraw()
}

// Center returns the center of the bounding box of fs.
func Center(fs []form.Form) (geometry.Point2D, bool) {
	r, ok := form.Bounds(fs)
	if !ok {
		return geometry.Point2D{}, false
	}
	return r.Center(), true
}

// AddGuideLine appends a guide line and returns its index.
func (s *Session) AddGuideLine(t guides.Type, pos float64) (int, error) {
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return -1, fmt.Errorf("add guide line at %v: not a finite position", pos)
	}
	g := guides.GuideLine{Type: t, Pos: pos}
	i := s.guides.Add(g)
	s.emitGuide(Added, "addGuideLine", i, g)
	s.host.Redraw()
	return i, nil
}

// SetGuideLinePos moves guide line i to pos.
func (s *Session) SetGuideLinePos(i int, pos float64) error {
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return fmt.Errorf("set guide line %d at %v: not a finite position", i, pos)
	}
	if err := s.guides.SetPos(i, pos); err != nil {
		return fmt.Errorf("set guide line %d: %w: %w", i, ErrNoSuchGuide, err)
	}
	s.emitGuide(Changed, "setGuideLinePos", i, s.guides.At(i))
	s.host.Redraw()
	return nil
}

// RemoveGuideLine removes guide line i.
func (s *Session) RemoveGuideLine(i int) error {
	if i < 0 || i >= s.guides.Len() {
		return fmt.Errorf("remove guide line %d: %w", i, ErrNoSuchGuide)
	}
	g := s.guides.At(i)
	if err := s.guides.Remove(i); err != nil {
		return fmt.Errorf("remove guide line %d: %w: %w", i, ErrNoSuchGuide, err)
	}
	switch {
	case s.highlightedGuide == i:
		s.highlightedGuide = -1
	case s.highlightedGuide > i:
		s.highlightedGuide--
	}
	s.emitGuide(Removed, "removeGuideLine", i, g)
	s.host.Redraw()
	return nil
}

// MoveGuideLineUp swaps guide line i with its predecessor.
func (s *Session) MoveGuideLineUp(i int) error {
	return s.swapGuides(i, i-1, "moveGuideLineUp")
}

// MoveGuideLineDown swaps guide line i with its successor.
func (s *Session) MoveGuideLineDown(i int) error {
	return s.swapGuides(i, i+1, "moveGuideLineDown")
}

func (s *Session) swapGuides(i, j int, caller string) error {
	if err := s.guides.Swap(i, j); err != nil {
		return fmt.Errorf("%s %d: %w: %w", caller, i, ErrNoSuchGuide, err)
	}
	switch s.highlightedGuide {
	case i:
		s.highlightedGuide = j
	case j:
		s.highlightedGuide = i
	}
	s.emitGuide(Changed, caller, j, s.guides.At(j))
	s.host.Redraw()
	return nil
}

// HighlightGuideLine highlights guide line i; -1 clears the highlight.
func (s *Session) HighlightGuideLine(i int) error {
	if i < -1 || i >= s.guides.Len() {
		return fmt.Errorf("highlight guide line %d: %w", i, ErrNoSuchGuide)
	}
	if i == s.highlightedGuide {
		return nil
	}
	s.highlightedGuide = i
	s.host.Redraw()
	return nil
}

// HighlightedGuideLine returns the highlighted guide line index, or -1.
func (s *Session) HighlightedGuideLine() int { return s.highlightedGuide }

// ContextMenu builds the canvas context menu for the current state.
func (s *Session) ContextMenu() *ContextMenu {
	return &ContextMenu{Items: []*MenuItem{
		{
			Label:     MenuStickToGuideLines,
			Checkable: true,
			Checked:   s.opts.StickToGuideLines,
			Action:    func() { s.SetStickToGuideLines(!s.opts.StickToGuideLines) },
		},
		{
			Label:     MenuStickToFormPoints,
			Checkable: true,
			Checked:   s.opts.StickToFormPoints,
			Action:    func() { s.SetStickToFormPoints(!s.opts.StickToFormPoints) },
		},
		{
			Label:  MenuFitView,
			Action: func() { s.FitViewToContent(nil) },
		},
	}}
}
