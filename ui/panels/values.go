package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"line-editor/internal/edit"
)

// ValuePanel shows the numeric fields of the edited form.
type ValuePanel struct {
	panel     *edit.Panel
	container fyne.CanvasObject

	entries map[string]*widget.Entry
	fixed   map[string]*widget.Check
	status  *widget.Label

	points *widget.List

	// updating suppresses entry callbacks while the model pushes text.
	updating bool
}

// NewValuePanel builds the widgets for p.
func NewValuePanel(p *edit.Panel) *ValuePanel {
	vp := &ValuePanel{
		panel:   p,
		entries: make(map[string]*widget.Entry),
		fixed:   make(map[string]*widget.Check),
		status:  widget.NewLabel(""),
	}
	vp.status.Importance = widget.DangerImportance

	grid := container.NewGridWithColumns(3)
	for _, f := range p.Fields {
		f := f
		entry := widget.NewEntry()
		entry.SetText(f.Text())
		entry.OnChanged = func(s string) { vp.apply(f, s) }
		check := widget.NewCheck("fixed", func(on bool) {
			if !vp.updating {
				f.SetFixed(on)
			}
		})
		check.SetChecked(f.Fixed())
		if f.Fixed() {
			entry.Disable()
		}
		f.OnUpdate(func(f *edit.Field) { vp.fieldUpdated(f) })

		vp.entries[f.Name] = entry
		vp.fixed[f.Name] = check
		grid.Add(widget.NewLabel(f.Label))
		grid.Add(entry)
		grid.Add(check)
	}

	content := container.NewVBox(grid, vp.status)
	if p.Points != nil {
		content.Add(vp.buildPointList(p.Points))
	}
	vp.container = widget.NewCard(p.Title, "", content)
	return vp
}

func (vp *ValuePanel) buildPointList(pl *edit.PointList) fyne.CanvasObject {
	vp.points = widget.NewList(
		pl.Len,
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			p := pl.At(id)
			obj.(*widget.Label).SetText(fmt.Sprintf("%d: %g, %g", id, p.X, p.Y))
		},
	)
	vp.points.OnSelected = func(id widget.ListItemID) {
		if !vp.updating {
			pl.Select(id)
		}
	}
	pl.OnUpdate(func() {
		vp.updating = true
		vp.points.Refresh()
		vp.points.Select(pl.Selected())
		vp.updating = false
	})
	vp.points.Select(pl.Selected())

	add := widget.NewButton("Add Point", pl.Add)
	remove := widget.NewButton("Remove Point", func() {
		if !pl.Remove() {
			vp.status.SetText("a polyline keeps at least one point")
		}
	})
	list := container.NewGridWrap(fyne.NewSize(220, 160), vp.points)
	return container.NewVBox(widget.NewLabel("Points"), list, container.NewHBox(add, remove))
}

func (vp *ValuePanel) apply(f *edit.Field, s string) {
	if vp.updating {
		return
	}
	if err := f.SetText(s); err != nil {
		vp.status.SetText(err.Error())
		return
	}
	vp.status.SetText("")
}

func (vp *ValuePanel) fieldUpdated(f *edit.Field) {
	vp.updating = true
	defer func() { vp.updating = false }()
	if e := vp.entries[f.Name]; e != nil && e.Text != f.Text() {
		e.SetText(f.Text())
	}
	if c := vp.fixed[f.Name]; c != nil && c.Checked != f.Fixed() {
		c.SetChecked(f.Fixed())
	}
	if e := vp.entries[f.Name]; e != nil {
		if f.Fixed() {
			e.Disable()
		} else {
			e.Enable()
		}
	}
	if f.Invalid() {
		vp.status.SetText(fmt.Sprintf("%s: invalid value", f.Label))
	}
}

// Entry returns the entry of the named field.
func (vp *ValuePanel) Entry(name string) *widget.Entry { return vp.entries[name] }

// Fixed returns the fixed check of the named field.
func (vp *ValuePanel) Fixed(name string) *widget.Check { return vp.fixed[name] }

// Status returns the validation message.
func (vp *ValuePanel) Status() string { return vp.status.Text }

// Container returns the panel container.
func (vp *ValuePanel) Container() fyne.CanvasObject {
	return vp.container
}
