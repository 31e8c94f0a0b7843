// Package editor ties the view, snapping, hit testing and the per-form
// editing state machines into one interactive session.
//
// A Session is driven by a single event-dispatch thread. The host owns the
// form list and guide lines and hands them to the session by reference;
// the session reports every change back through the Host interface.
package editor

import (
	"errors"
	"log/slog"
	"math"

	"line-editor/internal/edit"
	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/internal/logging"
	"line-editor/internal/snap"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
)

var (
	// ErrFormsLocked is returned when the host forbids adding or removing forms.
	ErrFormsLocked = errors.New("forms cannot be modified")
	// ErrNoSuchGuide is returned for a guide line index out of range.
	ErrNoSuchGuide = errors.New("no such guide line")
)

// Session is the interactive editor state.
type Session struct {
	host   Host
	view   *view.View
	forms  []form.Form
	guides *guides.Set
	opts   snap.Options

	editing     edit.Editing
	highlighted []form.Form
	// highlightedGuide is the guide line highlighted by the host, or -1.
	highlightedGuide int

	mods     edit.Modifiers
	grabbed  bool
	panning  bool
	lastDrag geometry.Point2D

	clipboard []form.Form
}

// New creates a session reporting to host and drawing through v.
func New(host Host, v *view.View) *Session {
	return &Session{
		host:             host,
		view:             v,
		guides:           guides.NewSet(),
		opts:             snap.DefaultOptions(),
		highlightedGuide: -1,
	}
}

func logger() *slog.Logger { return logging.For("editor") }

// View returns the session's view.
func (s *Session) View() *view.View { return s.view }

// Forms returns the current form list.
func (s *Session) Forms() []form.Form { return s.forms }

// GuideLines returns the current guide line set.
func (s *Session) GuideLines() *guides.Set { return s.guides }

// SetForms replaces the form list. Selection, highlighting and any active
// drag are reset.
func (s *Session) SetForms(forms []form.Form) {
	s.forms = forms
	s.highlighted = nil
	s.grabbed = false
	s.panning = false
	if s.editing != nil {
		s.editing = nil
		s.host.ShowPanel(Panel{Kind: GeneralPanel})
	}
	s.host.Redraw()
}

// SetGuideLines replaces the guide line set. A nil set clears it.
func (s *Session) SetGuideLines(g *guides.Set) {
	if g == nil {
		g = guides.NewSet()
	}
	s.guides = g
	if s.highlightedGuide >= g.Len() {
		s.highlightedGuide = -1
	}
	s.host.Redraw()
}

// FitViewToContent fits the view to the forms, enlarged to cover minRect
// when it is not nil.
func (s *Session) FitViewToContent(minRect *geometry.Rect) {
	s.view.FitForms(s.forms, minRect)
	s.host.Redraw()
}

// Resize records a new canvas size in pixels.
func (s *Session) Resize(width, height float64) {
	s.view.SetViewport(width, height)
	s.host.Redraw()
}

// Options returns the snap toggles.
func (s *Session) Options() snap.Options { return s.opts }

// SetStickToGuideLines enables or disables snapping to guide lines.
func (s *Session) SetStickToGuideLines(on bool) {
	s.opts.StickToGuideLines = on
}

// SetStickToFormPoints enables or disables snapping to form points.
func (s *Session) SetStickToFormPoints(on bool) {
	s.opts.StickToFormPoints = on
}

// SetSnapSlack sets the relative slack of the point over guide tie-break.
func (s *Session) SetSnapSlack(slack float64) {
	if slack < 0 || math.IsNaN(slack) {
		slack = 0
	}
	s.opts.Slack = slack
}

// Selected returns the form being edited, or nil.
func (s *Session) Selected() form.Form {
	if s.editing == nil {
		return nil
	}
	return s.editing.Form()
}

// Editing returns the active editing state machine, or nil.
func (s *Session) Editing() edit.Editing { return s.editing }

// Highlighted returns the highlighted forms.
func (s *Session) Highlighted() []form.Form { return s.highlighted }

// SetHighlighted sets the highlighted forms from the host's list selection.
// It does not notify the host back.
func (s *Session) SetHighlighted(forms []form.Form) {
	s.highlighted = append([]form.Form(nil), forms...)
	s.host.Redraw()
}

// Select starts editing f, which must be in the form list.
func (s *Session) Select(f form.Form) {
	if f == nil || !form.ContainsForm(s.forms, f) {
		return
	}
	if s.editing != nil && s.editing.Form() == f {
		return
	}
	e := edit.New(f)
	e.Panel().SetOnChange(func(caller string) { s.formChanged(f, caller) })
	s.editing = e
	s.grabbed = false
	logger().Debug("form selected", "type", f.Type())

	if len(s.highlighted) > 0 {
		s.highlighted = nil
		s.host.HighlightedFormsChanged(nil)
	}
	s.host.ShowPanel(Panel{Kind: FormPanel, Form: f, Values: e.Panel()})
	s.host.Redraw()
}

// Deselect ends editing and shows the general panel.
func (s *Session) Deselect() {
	if s.editing == nil {
		return
	}
	f := s.editing.Form()
	s.editing = nil
	s.grabbed = false
	logger().Debug("form deselected", "type", f.Type())
	s.host.ShowPanel(Panel{Kind: GeneralPanel})
	s.emitForms(Changed, "deselect", []form.Form{f}, nil)
	s.host.Redraw()
}

func (s *Session) formChanged(f form.Form, caller string) {
	s.emitForms(Changed, caller, []form.Form{f}, nil)
	s.host.Redraw()
}

func (s *Session) emitForms(kind EventKind, caller string, forms, all []form.Form) {
	ev := FormsEvent{ID: newEventID(), Kind: kind, Caller: caller, Forms: forms, All: all}
	logger().Debug("forms changed", "id", ev.ID, "kind", kind, "caller", caller, "count", len(forms))
	s.host.FormsChanged(ev)
}

func (s *Session) emitGuide(kind EventKind, caller string, i int, g guides.GuideLine) {
	ev := GuideEvent{ID: newEventID(), Kind: kind, Caller: caller, Index: i, Line: g}
	logger().Debug("guide lines changed", "id", ev.ID, "kind", kind, "caller", caller, "index", i)
	s.host.GuideLinesChanged(ev)
}

// resolver returns a snap resolver for the current event. The edited form
// never snaps to itself.
func (s *Session) resolver() *snap.Resolver {
	return snap.NewResolver(s.opts, s.guides, s.forms, s.Selected(),
		s.view.ConvertLength(snap.MaxGuideLineDistance))
}

func (s *Session) context() *edit.Context {
	ctx := &edit.Context{View: s.view, Snap: s.resolver(), Mods: s.mods}
	if s.editing != nil {
		f := s.editing.Form()
		ctx.OnChange = func(caller string) { s.formChanged(f, caller) }
	}
	return ctx
}

func (s *Session) redrawIf(changed bool) {
	if changed {
		s.host.Redraw()
	}
}
