package editor

import (
	"line-editor/internal/edit"
	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
)

// Scene is a read-only snapshot of what the canvas shows.
type Scene struct {
	View        *view.View
	Forms       []form.Form
	Highlighted []form.Form
	// Selected is the edited form, or nil.
	Selected form.Form
	Handles  []edit.HandleMark
	// Preview is the pending PolyLine point, with From the committed point
	// it connects to and To the following one when inserting on a segment.
	Preview     *edit.Preview
	PreviewFrom geometry.Point2D
	PreviewTo   *geometry.Point2D
	GuideLines  []guides.GuideLine
	// HighlightedGuides holds the host-highlighted guide line and the guide
	// lines used by the current drag.
	HighlightedGuides []int
}

// IsHighlighted reports whether f is drawn highlighted.
func (sc *Scene) IsHighlighted(f form.Form) bool {
	return f == sc.Selected || form.ContainsForm(sc.Highlighted, f)
}

// IsGuideHighlighted reports whether guide line i is drawn highlighted.
func (sc *Scene) IsGuideHighlighted(i int) bool {
	for _, h := range sc.HighlightedGuides {
		if h == i {
			return true
		}
	}
	return false
}

// Scene returns a snapshot of the current state for rendering.
func (s *Session) Scene() *Scene {
	sc := &Scene{
		View:        s.view,
		Forms:       s.forms,
		Highlighted: s.highlighted,
		GuideLines:  s.guides.All(),
	}
	if s.highlightedGuide >= 0 {
		sc.HighlightedGuides = append(sc.HighlightedGuides, s.highlightedGuide)
	}
	if s.editing == nil {
		return sc
	}
	sc.Selected = s.editing.Form()
	sc.Handles = s.editing.Handles()
	if s.editing.Dragging() {
		r := s.editing.LastSnap()
		if r.GuideX >= 0 {
			sc.HighlightedGuides = append(sc.HighlightedGuides, r.GuideX)
		}
		if r.GuideY >= 0 {
			sc.HighlightedGuides = append(sc.HighlightedGuides, r.GuideY)
		}
	}
	if p, ok := s.editing.Preview(); ok {
		pl, isPoly := sc.Selected.(*form.PolyLine)
		if isPoly && len(pl.Points) > 0 {
			pv := p
			sc.Preview = &pv
			from := p.Index - 1
			if from < 0 {
				from = 0
			}
			if from >= len(pl.Points) {
				from = len(pl.Points) - 1
			}
			sc.PreviewFrom = pl.Points[from]
			if p.OnSegment && p.Index < len(pl.Points) {
				to := pl.Points[p.Index]
				sc.PreviewTo = &to
			}
		}
	}
	return sc
}
