package panels

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"line-editor/internal/app"
	"line-editor/internal/editor"
	"line-editor/internal/form"
	"line-editor/pkg/geometry"
)

// FormsPanel lists the forms and offers the list commands.
type FormsPanel struct {
	state     *app.State
	session   *editor.Session
	container fyne.CanvasObject

	list       *widget.List
	typeSelect *widget.Select
	angleEntry *widget.Entry
	status     *widget.Label

	selected []form.Form
	// syncing suppresses list callbacks during host-driven selection.
	syncing bool
}

// NewFormsPanel creates the forms panel.
func NewFormsPanel(state *app.State, session *editor.Session) *FormsPanel {
	fp := &FormsPanel{state: state, session: session, status: widget.NewLabel("")}

	fp.list = widget.NewList(
		func() int { return len(session.Forms()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			forms := session.Forms()
			if id < len(forms) {
				obj.(*widget.Label).SetText(Describe(forms[id]))
			}
		},
	)
	fp.list.OnSelected = func(id widget.ListItemID) {
		if fp.syncing {
			return
		}
		forms := session.Forms()
		if id < len(forms) {
			fp.selected = []form.Form{forms[id]}
			session.SetHighlighted(fp.selected)
		}
	}
	fp.list.OnUnselected = func(widget.ListItemID) {
		if fp.syncing {
			return
		}
		fp.selected = nil
		session.SetHighlighted(nil)
	}

	names := make([]string, len(form.Types))
	for i, t := range form.Types {
		names[i] = t.String()
	}
	fp.typeSelect = widget.NewSelect(names, nil)
	fp.typeSelect.SetSelected(form.TypeLine.String())
	add := widget.NewButton("Add", fp.onAdd)
	remove := widget.NewButton("Remove", fp.onRemove)
	edit := widget.NewButton("Edit", func() { fp.session.Select(fp.target()) })
	up := widget.NewButton("Up", func() { fp.session.MoveFormUp(fp.target()) })
	down := widget.NewButton("Down", func() { fp.session.MoveFormDown(fp.target()) })
	cp := widget.NewButton("Copy", func() { fp.session.CopyForms(fp.targets()) })
	paste := widget.NewButton("Paste", fp.onPaste)

	fp.angleEntry = widget.NewEntry()
	fp.angleEntry.SetText("90")
	mirrorH := widget.NewButton("Mirror H", func() { fp.mirror(form.MirrorHorizontal) })
	mirrorV := widget.NewButton("Mirror V", func() { fp.mirror(form.MirrorVertical) })
	rotate := widget.NewButton("Rotate", fp.onRotate)
	simplify := widget.NewButton("Simplify", fp.onSimplify)

	state.On(app.EventFormsChanged, func(interface{}) { fp.list.Refresh() })
	state.On(app.EventDocumentLoaded, func(interface{}) {
		fp.selected = nil
		fp.list.UnselectAll()
		fp.list.Refresh()
	})
	state.On(app.EventHighlightChanged, func(data interface{}) {
		forms, _ := data.([]form.Form)
		fp.SyncHighlight(forms)
	})

	fp.container = container.NewBorder(
		container.NewVBox(
			container.NewBorder(nil, nil, nil, add, fp.typeSelect),
			container.NewGridWithColumns(3, edit, remove, up, down, cp, paste),
		),
		widget.NewCard("Transform", "", container.NewVBox(
			container.NewGridWithColumns(3, mirrorH, mirrorV, simplify),
			container.NewBorder(nil, nil, widget.NewLabel("Angle"), rotate, fp.angleEntry),
			fp.status,
		)),
		nil, nil,
		fp.list,
	)
	return fp
}

// Describe returns the list label of a form.
func Describe(f form.Form) string {
	v := f.Values()
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 4, 64)
	}
	return fmt.Sprintf("%s [%s]", f.Type(), strings.Join(parts, ", "))
}

// SyncHighlight selects the rows of forms without echoing the change back
// to the session.
func (fp *FormsPanel) SyncHighlight(forms []form.Form) {
	fp.syncing = true
	defer func() { fp.syncing = false }()
	fp.selected = forms
	if len(forms) == 0 {
		fp.list.UnselectAll()
		return
	}
	if i := form.IndexOf(fp.session.Forms(), forms[0]); i >= 0 {
		fp.list.Select(i)
	}
}

// target returns the form the commands act on: the edited form, else the
// selected row.
func (fp *FormsPanel) target() form.Form {
	if sel := fp.session.Selected(); sel != nil {
		return sel
	}
	if len(fp.selected) > 0 {
		return fp.selected[0]
	}
	return nil
}

func (fp *FormsPanel) targets() []form.Form {
	if sel := fp.session.Selected(); sel != nil {
		return []form.Form{sel}
	}
	return fp.selected
}

func (fp *FormsPanel) report(err error) {
	if err != nil {
		fp.status.SetText(err.Error())
		return
	}
	fp.status.SetText("")
}

func (fp *FormsPanel) onAdd() {
	t, err := form.ParseType(fp.typeSelect.Selected)
	if err != nil {
		fp.report(err)
		return
	}
	_, err = fp.session.AddForm(t)
	fp.report(err)
}

func (fp *FormsPanel) onRemove() {
	fs := fp.targets()
	if len(fs) == 0 {
		return
	}
	fp.selected = nil
	fp.report(fp.session.RemoveForms(fs))
}

func (fp *FormsPanel) onPaste() {
	_, err := fp.session.PasteForms()
	fp.report(err)
}

func (fp *FormsPanel) onSimplify() {
	fs := fp.targets()
	if len(fs) == 0 {
		return
	}
	n := fp.session.SimplifyForms(fs, editor.SimplifyTolerance)
	fp.status.SetText(fmt.Sprintf("Removed %d points", n))
}

func (fp *FormsPanel) center(fs []form.Form) (geometry.Point2D, bool) {
	return editor.Center(fs)
}

func (fp *FormsPanel) mirror(dir form.MirrorDirection) {
	fs := fp.targets()
	c, ok := fp.center(fs)
	if !ok {
		return
	}
	pos := c.X
	if dir == form.MirrorVertical {
		pos = c.Y
	}
	fp.session.MirrorForms(fs, dir, pos)
	fp.list.Refresh()
}

func (fp *FormsPanel) onRotate() {
	fs := fp.targets()
	c, ok := fp.center(fs)
	if !ok {
		return
	}
	deg, err := strconv.ParseFloat(strings.TrimSpace(fp.angleEntry.Text), 64)
	if err != nil {
		fp.report(fmt.Errorf("angle: %w", err))
		return
	}
	fp.report(nil)
	if q := deg / 90; q == float64(int(q)) {
		fp.session.Rotate90Forms(fs, c, int(q))
	} else {
		fp.session.RotateForms(fs, c, deg)
	}
	fp.list.Refresh()
}

// Container returns the panel container.
func (fp *FormsPanel) Container() fyne.CanvasObject {
	return fp.container
}
