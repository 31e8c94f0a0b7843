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
	"line-editor/internal/guides"
)

// GuidesPanel lists the guide lines and edits them.
type GuidesPanel struct {
	session   *editor.Session
	container fyne.CanvasObject

	list       *widget.List
	typeRadio  *widget.RadioGroup
	posEntry   *widget.Entry
	status     *widget.Label
	selected   int
	updatingUI bool
}

// NewGuidesPanel creates the guide lines panel.
func NewGuidesPanel(state *app.State, session *editor.Session) *GuidesPanel {
	gp := &GuidesPanel{session: session, selected: -1, status: widget.NewLabel("")}

	gp.list = widget.NewList(
		func() int { return session.GuideLines().Len() },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < session.GuideLines().Len() {
				g := session.GuideLines().At(id)
				obj.(*widget.Label).SetText(fmt.Sprintf("%s %g", g.Type, g.Pos))
			}
		},
	)
	gp.list.OnSelected = func(id widget.ListItemID) { gp.selectLine(id) }
	gp.list.OnUnselected = func(widget.ListItemID) { gp.selectLine(-1) }

	gp.typeRadio = widget.NewRadioGroup([]string{guides.Vertical.String(), guides.Horizontal.String()}, nil)
	gp.typeRadio.Horizontal = true
	gp.typeRadio.SetSelected(guides.Vertical.String())
	gp.posEntry = widget.NewEntry()
	gp.posEntry.SetPlaceHolder("position")
	gp.posEntry.OnSubmitted = func(string) { gp.onSet() }

	add := widget.NewButton("Add", gp.onAdd)
	set := widget.NewButton("Set", gp.onSet)
	remove := widget.NewButton("Remove", gp.onRemove)
	up := widget.NewButton("Up", func() { gp.move(-1) })
	down := widget.NewButton("Down", func() { gp.move(1) })

	refresh := func(interface{}) { gp.list.Refresh() }
	state.On(app.EventGuideLinesChanged, refresh)
	state.On(app.EventDocumentLoaded, func(interface{}) {
		gp.list.UnselectAll()
		gp.list.Refresh()
	})

	gp.container = container.NewBorder(
		container.NewVBox(
			gp.typeRadio,
			container.NewBorder(nil, nil, nil, container.NewHBox(add, set), gp.posEntry),
			container.NewGridWithColumns(3, remove, up, down),
			gp.status,
		),
		nil, nil, nil,
		gp.list,
	)
	return gp
}

func (gp *GuidesPanel) selectLine(i int) {
	if gp.updatingUI {
		return
	}
	gp.selected = i
	if err := gp.session.HighlightGuideLine(i); err != nil {
		gp.status.SetText(err.Error())
		return
	}
	if i >= 0 {
		g := gp.session.GuideLines().At(i)
		gp.typeRadio.SetSelected(g.Type.String())
		gp.posEntry.SetText(strconv.FormatFloat(g.Pos, 'g', -1, 64))
	}
}

func (gp *GuidesPanel) position() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(gp.posEntry.Text), 64)
	if err != nil {
		gp.status.SetText("invalid position")
		return 0, false
	}
	gp.status.SetText("")
	return v, true
}

func (gp *GuidesPanel) onAdd() {
	t, err := guides.ParseType(gp.typeRadio.Selected)
	if err != nil {
		gp.status.SetText(err.Error())
		return
	}
	v, ok := gp.position()
	if !ok {
		return
	}
	i, err := gp.session.AddGuideLine(t, v)
	if err != nil {
		gp.status.SetText(err.Error())
		return
	}
	gp.list.Select(i)
}

func (gp *GuidesPanel) onSet() {
	if gp.selected < 0 {
		gp.onAdd()
		return
	}
	v, ok := gp.position()
	if !ok {
		return
	}
	if err := gp.session.SetGuideLinePos(gp.selected, v); err != nil {
		gp.status.SetText(err.Error())
	}
}

func (gp *GuidesPanel) onRemove() {
	if gp.selected < 0 {
		return
	}
	if err := gp.session.RemoveGuideLine(gp.selected); err != nil {
		gp.status.SetText(err.Error())
		return
	}
	gp.updatingUI = true
	gp.list.UnselectAll()
	gp.updatingUI = false
	gp.selected = -1
}

func (gp *GuidesPanel) move(delta int) {
	if gp.selected < 0 {
		return
	}
	var err error
	if delta < 0 {
		err = gp.session.MoveGuideLineUp(gp.selected)
	} else {
		err = gp.session.MoveGuideLineDown(gp.selected)
	}
	if err != nil {
		gp.status.SetText(err.Error())
		return
	}
	gp.updatingUI = true
	gp.selected += delta
	gp.list.Select(gp.selected)
	gp.updatingUI = false
}

// Selected returns the selected guide line index, or -1.
func (gp *GuidesPanel) Selected() int { return gp.selected }

// Container returns the panel container.
func (gp *GuidesPanel) Container() fyne.CanvasObject {
	return gp.container
}
