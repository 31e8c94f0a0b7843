package edit

import (
	"line-editor/internal/form"
	"line-editor/pkg/geometry"
)

// Panel is the toolkit-independent model of a form's value panel.
type Panel struct {
	Title  string
	Fields []*Field
	// Points is set for PolyLine panels.
	Points *PointList

	onChange func(caller string)
}

func newPanel(title string, fields ...*Field) *Panel {
	p := &Panel{Title: title, Fields: fields}
	for _, f := range fields {
		f.onEdit = p.fieldEdited
	}
	return p
}

// Field returns the field with the given name, or nil.
func (p *Panel) Field(name string) *Field {
	for _, f := range p.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Refresh reloads every field from the model.
func (p *Panel) Refresh() {
	for _, f := range p.Fields {
		f.Refresh()
	}
	if p.Points != nil {
		p.Points.notify()
	}
}

// SetOnChange registers the callback run after a panel edit changed the
// form. The editor session uses it to redraw and notify the host.
func (p *Panel) SetOnChange(fn func(caller string)) {
	p.onChange = fn
}

func (p *Panel) fieldEdited(f *Field) {
	p.changed("panel." + f.Name)
}

func (p *Panel) changed(caller string) {
	if p.onChange != nil {
		p.onChange(caller)
	}
}

// PointList is the editable point list of a PolyLine panel. The x and y
// fields of the panel are bound to the selected point.
type PointList struct {
	pl       *form.PolyLine
	panel    *Panel
	selected int

	onUpdate []func()
}

// Len returns the number of points.
func (l *PointList) Len() int { return len(l.pl.Points) }

// At returns the i-th point.
func (l *PointList) At(i int) geometry.Point2D { return l.pl.Points[i] }

// Selected returns the selected index.
func (l *PointList) Selected() int { return l.selected }

// Select binds the x and y fields to point i.
func (l *PointList) Select(i int) {
	if i < 0 || i >= len(l.pl.Points) || i == l.selected {
		return
	}
	l.selected = i
	l.panel.Refresh()
}

// Add inserts a new point after the selected one, halfway to its
// successor, or offset from it when it is the last point.
func (l *PointList) Add() {
	pts := l.pl.Points
	cur := pts[l.selected]
	var p geometry.Point2D
	if l.selected+1 < len(pts) {
		next := pts[l.selected+1]
		p = geometry.NewPoint2D((cur.X+next.X)/2, (cur.Y+next.Y)/2)
	} else if l.selected > 0 {
		prev := pts[l.selected-1]
		p = cur.Add(cur.Sub(prev))
	} else {
		p = cur.Add(geometry.NewPoint2D(1, 1))
	}
	l.selected = l.pl.Insert(l.selected+1, p)
	l.panel.Refresh()
	l.panel.changed("panel.addPoint")
}

// Remove deletes the selected point. The last point cannot be removed.
func (l *PointList) Remove() bool {
	if !l.pl.Remove(l.selected) {
		return false
	}
	if l.selected >= len(l.pl.Points) {
		l.selected = len(l.pl.Points) - 1
	}
	l.panel.Refresh()
	l.panel.changed("panel.removePoint")
	return true
}

// OnUpdate registers a listener for list changes.
func (l *PointList) OnUpdate(fn func()) {
	l.onUpdate = append(l.onUpdate, fn)
}

func (l *PointList) notify() {
	for _, fn := range l.onUpdate {
		fn()
	}
}
