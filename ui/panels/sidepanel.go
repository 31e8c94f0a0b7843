// Package panels provides UI panels for the application.
package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"line-editor/internal/app"
	"line-editor/internal/editor"
	"line-editor/ui/prefs"
)

// SidePanel provides the tabbed form and guide line lists above the
// options area.
type SidePanel struct {
	state   *app.State
	session *editor.Session

	tabs    *container.AppTabs
	options *fyne.Container
	split   *container.Split

	formsPanel   *FormsPanel
	guidesPanel  *GuidesPanel
	generalPanel *GeneralPanel
	valuePanel   *ValuePanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, session *editor.Session, p *prefs.Prefs) *SidePanel {
	sp := &SidePanel{state: state, session: session}

	sp.formsPanel = NewFormsPanel(state, session)
	sp.guidesPanel = NewGuidesPanel(state, session)
	sp.generalPanel = NewGeneralPanel(session, p)

	sp.tabs = container.NewAppTabs(
		container.NewTabItem("Forms", sp.formsPanel.Container()),
		container.NewTabItem("Guide Lines", sp.guidesPanel.Container()),
	)
	sp.options = container.NewStack(sp.generalPanel.Container())
	sp.split = container.NewVSplit(sp.tabs, container.NewVScroll(sp.options))
	sp.split.Offset = 0.55

	state.On(app.EventPanelRequested, func(data interface{}) {
		if p, ok := data.(editor.Panel); ok {
			sp.ShowPanel(p)
		}
	})
	return sp
}

// ShowPanel puts the requested panel into the options area.
func (sp *SidePanel) ShowPanel(p editor.Panel) {
	var obj fyne.CanvasObject
	switch {
	case p.Kind == editor.FormPanel && p.Values != nil:
		sp.valuePanel = NewValuePanel(p.Values)
		obj = sp.valuePanel.Container()
	default:
		sp.valuePanel = nil
		sp.generalPanel.Sync()
		obj = sp.generalPanel.Container()
	}
	sp.options.Objects = []fyne.CanvasObject{obj}
	sp.options.Refresh()
}

// ValuePanel returns the panel of the edited form, or nil.
func (sp *SidePanel) ValuePanel() *ValuePanel { return sp.valuePanel }

// GeneralPanel returns the snap options panel.
func (sp *SidePanel) GeneralPanel() *GeneralPanel { return sp.generalPanel }

// FormsPanel returns the forms list panel.
func (sp *SidePanel) FormsPanel() *FormsPanel { return sp.formsPanel }

// GuidesPanel returns the guide lines panel.
func (sp *SidePanel) GuidesPanel() *GuidesPanel { return sp.guidesPanel }

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.split
}
