package editor

import (
	"line-editor/internal/edit"
	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/pkg/geometry"

	"github.com/google/uuid"
)

// EventKind tells what happened to the forms or guide lines.
type EventKind int

const (
	Added EventKind = iota
	Removed
	Changed
)

func (k EventKind) String() string {
	switch k {
	case Added:
		return "Added"
	case Removed:
		return "Removed"
	}
	return "Changed"
}

// FormsEvent notifies the host of a change to the forms.
type FormsEvent struct {
	// ID identifies the event in logs.
	ID   string
	Kind EventKind
	// Caller names the operation that caused the change.
	Caller string
	// Forms are the forms affected.
	Forms []form.Form
	// All is the full updated list when the order or membership changed,
	// nil otherwise.
	All []form.Form
}

// GuideEvent notifies the host of a change to the guide lines.
type GuideEvent struct {
	ID     string
	Kind   EventKind
	Caller string
	Index  int
	Line   guides.GuideLine
}

func newEventID() string {
	return uuid.NewString()
}

// PanelKind selects what the host shows in its options area.
type PanelKind int

const (
	// GeneralPanel is shown while no form is selected.
	GeneralPanel PanelKind = iota
	// FormPanel is the value panel of the selected form.
	FormPanel
)

// Panel is a request to show a panel in the host's options area.
type Panel struct {
	Kind PanelKind
	// Form is the selected form and Values its panel model, for FormPanel.
	Form   form.Form
	Values *edit.Panel
}

// Host is implemented by the application embedding the editor.
type Host interface {
	FormsChanged(ev FormsEvent)
	GuideLinesChanged(ev GuideEvent)
	// HighlightedFormsChanged reports hover highlighting for list sync.
	HighlightedFormsChanged(forms []form.Form)
	ShowPanel(p Panel)
	ShowContextMenu(menu *ContextMenu, at geometry.Point2D)
	// CanModifyForms reports whether forms may be added or removed.
	CanModifyForms() bool
	// Redraw requests a repaint of the canvas.
	Redraw()
}

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// PointerEvent is a pointer input in screen pixels.
type PointerEvent struct {
	Pos    geometry.Point2D
	Button Button
	Mods   edit.Modifiers
}

// MenuItem is an entry of the canvas context menu.
type MenuItem struct {
	Label     string
	Checkable bool
	Checked   bool
	Action    func()
}

// ContextMenu is the toolkit-independent model of the canvas context menu.
type ContextMenu struct {
	Items []*MenuItem
}

// Item returns the item with the given label, or nil.
func (m *ContextMenu) Item(label string) *MenuItem {
	for _, it := range m.Items {
		if it.Label == label {
			return it
		}
	}
	return nil
}

// Context menu labels.
const (
	MenuStickToGuideLines = "Stick to GuideLines"
	MenuStickToFormPoints = "Stick to Form Points"
	MenuFitView           = "Fit View"
)
