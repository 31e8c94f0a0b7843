// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"line-editor/internal/app"
	"line-editor/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// MaxGridLines bounds the number of guide lines per axis.
const MaxGridLines = 1000

// GridAxis describes evenly spaced guide lines along one axis.
type GridAxis struct {
	Start float64
	Step  float64
	Count int
}

// Positions returns the guide line positions of the axis.
func (a GridAxis) Positions() []float64 {
	pos := make([]float64, a.Count)
	for i := range pos {
		pos[i] = a.Start + float64(i)*a.Step
	}
	return pos
}

// DefaultGrid splits r into ten cells per axis.
func DefaultGrid(r geometry.Rect) (vertical, horizontal GridAxis) {
	vertical = GridAxis{Start: niceFloor(r.X), Step: niceStep(r.Width / 10), Count: 11}
	horizontal = GridAxis{Start: niceFloor(r.Y), Step: niceStep(r.Height / 10), Count: 11}
	return vertical, horizontal
}

// niceStep rounds d up to 1, 2 or 5 times a power of ten.
func niceStep(d float64) float64 {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 1
	}
	p := geometry.DecadeFloor(d)
	for _, m := range []float64{1, 2, 5} {
		if m*p >= d {
			return m * p
		}
	}
	return 10 * p
}

func niceFloor(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := geometry.DecadeFloor(math.Abs(v))
	return math.Floor(v/p) * p
}

// ParseGridAxis reads the start, step and count entry texts of one axis.
// A count of zero leaves the axis without guide lines.
func ParseGridAxis(start, step, count string) (GridAxis, error) {
	var a GridAxis
	var err error
	if a.Start, err = parseFinite(start); err != nil {
		return a, fmt.Errorf("start: %w", err)
	}
	if a.Step, err = parseFinite(step); err != nil {
		return a, fmt.Errorf("spacing: %w", err)
	}
	if a.Count, err = strconv.Atoi(strings.TrimSpace(count)); err != nil {
		return a, fmt.Errorf("count: %w", err)
	}
	if a.Count < 0 || a.Count > MaxGridLines {
		return a, fmt.Errorf("count must be between 0 and %d", MaxGridLines)
	}
	if a.Count > 1 && a.Step <= 0 {
		return a, errors.New("spacing must be positive")
	}
	return a, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// GuideGridDialog provides a property sheet replacing the guide lines with
// a regular grid.
type GuideGridDialog struct {
	state  *app.State
	window fyne.Window

	vertical   GridAxis
	horizontal GridAxis

	vStart, vStep, vCount *widget.Entry
	hStart, hStep, hCount *widget.Entry
}

// NewGuideGridDialog creates a grid dialog prefilled to cover area.
func NewGuideGridDialog(state *app.State, area geometry.Rect, window fyne.Window) *GuideGridDialog {
	d := &GuideGridDialog{state: state, window: window}
	d.vertical, d.horizontal = DefaultGrid(area)
	return d
}

// Show displays the dialog.
func (d *GuideGridDialog) Show() {
	dlg := dialog.NewCustomConfirm(
		"Guide Line Grid",
		"Apply",
		"Cancel",
		d.createContent(),
		func(apply bool) {
			if !apply {
				return
			}
			if err := d.Apply(); err != nil {
				dialog.ShowError(err, d.window)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(360, 380))
	dlg.Show()
}

func axisEntries(a GridAxis) (start, step, count *widget.Entry) {
	start, step, count = widget.NewEntry(), widget.NewEntry(), widget.NewEntry()
	start.SetText(strconv.FormatFloat(a.Start, 'g', -1, 64))
	step.SetText(strconv.FormatFloat(a.Step, 'g', -1, 64))
	count.SetText(strconv.Itoa(a.Count))
	return start, step, count
}

func (d *GuideGridDialog) createContent() fyne.CanvasObject {
	d.vStart, d.vStep, d.vCount = axisEntries(d.vertical)
	d.hStart, d.hStep, d.hCount = axisEntries(d.horizontal)

	verticalForm := widget.NewForm(
		widget.NewFormItem("First x", d.vStart),
		widget.NewFormItem("Spacing", d.vStep),
		widget.NewFormItem("Count", d.vCount),
	)
	horizontalForm := widget.NewForm(
		widget.NewFormItem("First y", d.hStart),
		widget.NewFormItem("Spacing", d.hStep),
		widget.NewFormItem("Count", d.hCount),
	)

	return container.NewVBox(
		widget.NewCard("Vertical", "", verticalForm),
		widget.NewCard("Horizontal", "", horizontalForm),
		widget.NewLabel("The current guide lines are replaced."),
	)
}

// Apply validates the entries and replaces the guide lines.
func (d *GuideGridDialog) Apply() error {
	v, err := ParseGridAxis(d.vStart.Text, d.vStep.Text, d.vCount.Text)
	if err != nil {
		return fmt.Errorf("vertical %w", err)
	}
	h, err := ParseGridAxis(d.hStart.Text, d.hStep.Text, d.hCount.Text)
	if err != nil {
		return fmt.Errorf("horizontal %w", err)
	}
	d.vertical, d.horizontal = v, h
	d.state.SetGridGuideLines(v.Positions(), h.Positions())
	return nil
}
