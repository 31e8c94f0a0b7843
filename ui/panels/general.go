package panels

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"line-editor/internal/editor"
	"line-editor/ui/prefs"
)

// GeneralPanel holds the snap options shown while no form is selected.
type GeneralPanel struct {
	session   *editor.Session
	prefs     *prefs.Prefs
	container fyne.CanvasObject

	guideCheck *widget.Check
	pointCheck *widget.Check
	slackEntry *widget.Entry
	yUpCheck   *widget.Check

	syncing bool
}

// NewGeneralPanel creates the general panel. Changes are stored in p when
// it is not nil.
func NewGeneralPanel(session *editor.Session, p *prefs.Prefs) *GeneralPanel {
	gp := &GeneralPanel{session: session, prefs: p}

	gp.guideCheck = widget.NewCheck("Stick to guide lines", func(on bool) {
		if gp.syncing {
			return
		}
		session.SetStickToGuideLines(on)
		gp.store()
	})
	gp.pointCheck = widget.NewCheck("Stick to form points", func(on bool) {
		if gp.syncing {
			return
		}
		session.SetStickToFormPoints(on)
		gp.store()
	})
	gp.slackEntry = widget.NewEntry()
	gp.slackEntry.Validator = func(s string) error {
		_, err := strconv.ParseFloat(s, 64)
		return err
	}
	gp.slackEntry.OnChanged = func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if gp.syncing || err != nil || v < 0 {
			return
		}
		session.SetSnapSlack(v / 100)
		gp.store()
	}
	gp.yUpCheck = widget.NewCheck("Y axis up", func(on bool) {
		if gp.syncing {
			return
		}
		session.View().SetAxes(true, !on)
		if gp.prefs != nil {
			gp.prefs.SetBool(prefs.KeyYUp, on)
		}
		session.FitViewToContent(nil)
	})
	fit := widget.NewButton("Fit View", func() { session.FitViewToContent(nil) })

	gp.Sync()
	gp.container = container.NewVBox(
		widget.NewCard("Snapping", "", container.NewVBox(
			gp.guideCheck,
			gp.pointCheck,
			container.NewBorder(nil, nil, widget.NewLabel("Point preference (%)"), nil, gp.slackEntry),
		)),
		widget.NewCard("View", "", container.NewVBox(gp.yUpCheck, fit)),
	)
	return gp
}

// Sync updates the widgets from the session options.
func (gp *GeneralPanel) Sync() {
	gp.syncing = true
	defer func() { gp.syncing = false }()
	o := gp.session.Options()
	gp.guideCheck.SetChecked(o.StickToGuideLines)
	gp.pointCheck.SetChecked(o.StickToFormPoints)
	text := strconv.FormatFloat(o.Slack*100, 'g', -1, 64)
	if gp.slackEntry.Text != text {
		gp.slackEntry.SetText(text)
	}
	gp.yUpCheck.SetChecked(!gp.session.View().State().YDown)
}

func (gp *GeneralPanel) store() {
	if gp.prefs != nil {
		gp.prefs.SetSnapOptions(gp.session.Options())
	}
}

// Container returns the panel container.
func (gp *GeneralPanel) Container() fyne.CanvasObject {
	return gp.container
}
