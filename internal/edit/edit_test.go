package edit

import (
	"errors"
	"math"
	"testing"

	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/internal/snap"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

// identityView maps world coordinates one to one onto screen pixels.
func identityView() *view.View {
	v := view.New(geometry.NewRect(0, 0, 100, 100))
	v.SetViewport(100, 100)
	return v
}

type harness struct {
	ctx     *Context
	changes []string
}

func newHarness(g *guides.Set, opts snap.Options, forms []form.Form, edited form.Form) *harness {
	v := identityView()
	h := &harness{}
	h.ctx = &Context{
		View:     v,
		Snap:     snap.NewResolver(opts, g, forms, edited, v.ConvertLength(snap.MaxGuideLineDistance)),
		OnChange: func(caller string) { h.changes = append(h.changes, caller) },
	}
	return h
}

func TestLineDragSnapsToGuide(t *testing.T) {
	line := form.NewDefault(form.TypeLine, geometry.NewRect(0, 0, 100, 100)).(*form.Line)
	if line.P2 != pt(60, 60) {
		t.Fatalf("default line P2 = %v", line.P2)
	}
	g := guides.NewSet(guides.GuideLine{Type: guides.Vertical, Pos: 48})
	opts := snap.DefaultOptions()
	opts.StickToFormPoints = false
	h := newHarness(g, opts, []form.Form{line}, line)

	e := New(line)
	if !e.OnPressed(h.ctx, pt(60, 60)) {
		t.Fatal("press on P2 did not grab it")
	}
	e.OnDragged(h.ctx, pt(50, 50))
	if line.P2 != pt(48, 50) {
		t.Errorf("P2 = %v, want (48,50)", line.P2)
	}
	if res := e.LastSnap(); res.GuideX != 0 || res.GuideY != -1 {
		t.Errorf("last snap = %+v", res)
	}
	if got := e.Panel().Field("x2").Text(); got != "48" {
		t.Errorf("x2 field = %q, want 48", got)
	}
	if !e.OnReleased(h.ctx) {
		t.Error("release should end the drag")
	}
	if e.Dragging() || len(h.changes) != 1 || h.changes[0] != "drag.line" {
		t.Errorf("after release: dragging=%v changes=%v", e.Dragging(), h.changes)
	}
}

func TestLinePickOffset(t *testing.T) {
	line := form.NewLine(40, 40, 60, 60)
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{line}, line)
	e := New(line)

	if !e.OnPressed(h.ctx, pt(62, 61)) {
		t.Fatal("press near P2 did not grab it")
	}
	e.OnDragged(h.ctx, pt(72, 71))
	if line.P2.Distance(pt(70, 70)) > 1e-9 {
		t.Errorf("P2 = %v, want (70,70)", line.P2)
	}
	if line.P1 != pt(40, 40) {
		t.Errorf("P1 moved to %v", line.P1)
	}
}

func TestLineFixedAxes(t *testing.T) {
	line := form.NewLine(40, 40, 60, 60)
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{line}, line)
	e := New(line)
	p := e.Panel()

	p.Field("x2").SetFixed(true)
	e.OnPressed(h.ctx, pt(60, 60))
	e.OnDragged(h.ctx, pt(70, 75))
	if line.P2 != pt(60, 75) {
		t.Errorf("with x2 fixed P2 = %v, want (60,75)", line.P2)
	}
	e.OnReleased(h.ctx)

	p.Field("y2").SetFixed(true)
	if e.OnPressed(h.ctx, pt(60, 75)) {
		t.Error("a handle with both axes fixed must not be reachable")
	}
	if err := p.Field("x2").SetText("1"); !errors.Is(err, ErrFixed) {
		t.Errorf("SetText on fixed field err = %v", err)
	}
}

func TestLineHandleTieKeepsP1(t *testing.T) {
	line := form.NewLine(50, 50, 50, 50)
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{line}, line)
	e := New(line).(*lineEditing)
	e.OnPressed(h.ctx, pt(51, 50))
	if e.selected != LineP1 {
		t.Errorf("selected = %d, want P1", e.selected)
	}
}

func TestArcEndSnapsToGuideAngle(t *testing.T) {
	arc := form.NewArc(0, 0, 10, 0, math.Pi/2)
	guideX := 10 * math.Cos(geometry.Radians(90.5))
	g := guides.NewSet(guides.GuideLine{Type: guides.Vertical, Pos: guideX})
	h := newHarness(g, snap.DefaultOptions(), []form.Form{arc}, arc)
	e := New(arc)

	if !e.OnPressed(h.ctx, arc.EndPoint()) {
		t.Fatal("press on the end point did not grab it")
	}
	if e.(*arcEditing).selected != ArcEnd {
		t.Fatalf("grabbed handle %d, want End", e.(*arcEditing).selected)
	}
	raw := geometry.Radians(95)
	e.OnDragged(h.ctx, pt(10*math.Cos(raw), 10*math.Sin(raw)))
	if got := geometry.Degrees(arc.End); math.Abs(got-90.5) > 1e-9 {
		t.Errorf("end = %v°, want 90.5°", got)
	}
}

func TestArcAngleSnapDisabledWithoutGuideToggle(t *testing.T) {
	arc := form.NewArc(0, 0, 10, 0, math.Pi/2)
	g := guides.NewSet(guides.GuideLine{Type: guides.Vertical, Pos: 10 * math.Cos(geometry.Radians(90.5))})
	opts := snap.DefaultOptions()
	opts.StickToGuideLines = false
	h := newHarness(g, opts, []form.Form{arc}, arc)
	e := New(arc)

	e.OnPressed(h.ctx, arc.EndPoint())
	raw := geometry.Radians(95)
	e.OnDragged(h.ctx, pt(10*math.Cos(raw), 10*math.Sin(raw)))
	if got := geometry.Degrees(arc.End); math.Abs(got-95) > 1e-9 {
		t.Errorf("end = %v°, want 95°", got)
	}
}

func TestArcAngleOrdering(t *testing.T) {
	at := func(deg float64) geometry.Point2D {
		return pt(50*math.Cos(geometry.Radians(deg)), 50*math.Sin(geometry.Radians(deg)))
	}

	t.Run("end wraps above start", func(t *testing.T) {
		arc := form.NewArc(0, 0, 50, 0, math.Pi/2)
		h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{arc}, arc)
		e := New(arc)
		e.OnPressed(h.ctx, arc.EndPoint())
		e.OnDragged(h.ctx, at(-10))
		if got := geometry.Degrees(arc.End); math.Abs(got-350) > 1e-9 {
			t.Errorf("end = %v°, want 350°", got)
		}
	})

	t.Run("start wraps below end", func(t *testing.T) {
		arc := form.NewArc(0, 0, 50, 0, math.Pi/2)
		h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{arc}, arc)
		e := New(arc)
		e.OnPressed(h.ctx, arc.StartPoint())
		e.OnDragged(h.ctx, at(100))
		if got := geometry.Degrees(arc.Start); math.Abs(got+260) > 1e-9 {
			t.Errorf("start = %v°, want -260°", got)
		}
		if arc.Start > arc.End {
			t.Errorf("start %v exceeds end %v", arc.Start, arc.End)
		}
	})
}

func TestArcRadiusHandle(t *testing.T) {
	arc := form.NewArc(0, 0, 100, 0, math.Pi/2)
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{arc}, arc)
	e := New(arc)

	onArc := arc.Center.Polar(100, math.Pi/4)
	if !e.OnPressed(h.ctx, onArc) {
		t.Fatal("press on the outline did not grab the radius")
	}
	if e.(*arcEditing).selected != ArcRadius {
		t.Fatalf("grabbed %d, want Radius", e.(*arcEditing).selected)
	}
	e.OnDragged(h.ctx, arc.Center.Polar(150, math.Pi/4))
	if math.Abs(arc.R-150) > 1e-9 {
		t.Errorf("r = %v, want 150", arc.R)
	}
	e.OnReleased(h.ctx)

	if e.OnPressed(h.ctx, pt(-150, 0)) {
		t.Error("outline outside the sweep must not grab the radius")
	}

	e.Panel().Field("r").SetFixed(true)
	if e.OnPressed(h.ctx, arc.Center.Polar(150, math.Pi/4)) {
		t.Error("fixed radius must not be reachable")
	}
}

func TestGuideIntersections(t *testing.T) {
	arc := form.NewArc(0, 0, 10, 0, math.Pi)
	g := guides.NewSet(
		guides.GuideLine{Type: guides.Horizontal, Pos: 5},
		guides.GuideLine{Type: guides.Vertical, Pos: 0},
		guides.GuideLine{Type: guides.Vertical, Pos: 30},
	)
	got := guideIntersections(arc, g)
	want := []float64{30, 90, 150, 270}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v degrees", got, want)
	}
	for i := range want {
		if math.Abs(geometry.Degrees(got[i])-want[i]) > 1e-9 {
			t.Errorf("angle %d = %v°, want %v°", i, geometry.Degrees(got[i]), want[i])
		}
	}
}

func TestArcFieldValidation(t *testing.T) {
	arc := form.NewArc(0, 0, 10, 0, math.Pi/2)
	e := New(arc)
	p := e.Panel()
	var changed []string
	p.SetOnChange(func(caller string) { changed = append(changed, caller) })

	r := p.Field("r")
	for _, text := range []string{"-1", "0", "abc", ""} {
		if err := r.SetText(text); !errors.Is(err, ErrInvalid) {
			t.Errorf("SetText(%q) err = %v, want ErrInvalid", text, err)
		}
		if !r.Invalid() || arc.R != 10 {
			t.Errorf("after %q: invalid=%v r=%v", text, r.Invalid(), arc.R)
		}
	}
	if err := r.SetText("5"); err != nil || r.Invalid() || arc.R != 5 {
		t.Errorf("valid radius: err=%v invalid=%v r=%v", err, r.Invalid(), arc.R)
	}

	if err := p.Field("start").SetText("100"); !errors.Is(err, ErrInvalid) {
		t.Errorf("start above end err = %v", err)
	}
	if err := p.Field("end").SetText("-5"); !errors.Is(err, ErrInvalid) {
		t.Errorf("end below start err = %v", err)
	}
	if err := p.Field("end").SetText("180"); err != nil || math.Abs(arc.End-math.Pi) > 1e-12 {
		t.Errorf("end = %v, err %v", arc.End, err)
	}
	if len(changed) != 2 || changed[0] != "panel.r" || changed[1] != "panel.end" {
		t.Errorf("change notifications = %v", changed)
	}

	r.SetText("oops")
	r.Refresh()
	if r.Invalid() || r.Text() != "5" {
		t.Errorf("refresh should restore the model value, got %q invalid=%v", r.Text(), r.Invalid())
	}
}

func TestFieldsRejectNonFinite(t *testing.T) {
	line := form.NewLine(0, 0, 10, 10)
	arc := form.NewArc(0, 0, 10, 0, math.Pi/2)
	tests := []struct {
		name  string
		panel *Panel
		field string
	}{
		{"line x1", New(line).Panel(), "x1"},
		{"line y2", New(line).Panel(), "y2"},
		{"arc start", New(arc).Panel(), "start"},
		{"arc radius", New(arc).Panel(), "r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.panel.Field(tt.field)
			for _, text := range []string{"NaN", "Inf", "+Inf", "-inf"} {
				if err := f.SetText(text); !errors.Is(err, ErrInvalid) {
					t.Errorf("SetText(%q) err = %v, want ErrInvalid", text, err)
				}
				if !f.Invalid() {
					t.Errorf("SetText(%q) left the field valid", text)
				}
			}
		})
	}
	if line.P1 != pt(0, 0) || line.P2 != pt(10, 10) {
		t.Errorf("line changed to %v %v", line.P1, line.P2)
	}
	if arc.R != 10 || arc.Start != 0 || arc.End != math.Pi/2 {
		t.Errorf("arc changed to r=%v start=%v end=%v", arc.R, arc.Start, arc.End)
	}
}

func TestPolyLineInsertionPreview(t *testing.T) {
	pl := form.NewPolyLine(pt(0, 0), pt(50, 0), pt(50, 50))
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{pl}, pl)
	e := New(pl)

	h.ctx.Mods = ModControl
	e.OnMoved(h.ctx, pt(25, 2))
	pv, ok := e.Preview()
	if !ok || !pv.OnSegment || pv.Index != 1 || pv.Pos != pt(25, 0) {
		t.Fatalf("preview = %+v %v", pv, ok)
	}
	if len(pl.Points) != 3 {
		t.Fatal("preview must not modify the polyline")
	}

	h.ctx.Mods = 0
	if !e.OnMoved(h.ctx, pt(25, 2)) {
		t.Error("moving without ctrl should redraw to drop the preview")
	}
	if _, ok := e.Preview(); ok {
		t.Error("preview survived a move without ctrl")
	}

	h.ctx.Mods = ModControl
	e.OnMoved(h.ctx, pt(80, 80))
	pv, _ = e.Preview()
	if pv.OnSegment || pv.Index != 3 || pv.Pos != pt(80, 80) {
		t.Errorf("free preview = %+v", pv)
	}

	if !e.OnPressed(h.ctx, pt(25, 2)) {
		t.Error("ctrl+press should be consumed")
	}
	if !e.OnClicked(h.ctx, pt(25, 2)) {
		t.Error("ctrl+click should keep the selection")
	}
	if len(pl.Points) != 4 || pl.Points[1] != pt(25, 0) {
		t.Errorf("points after insert = %v", pl.Points)
	}
	if _, ok := e.Preview(); ok {
		t.Error("preview must be cleared after commit")
	}
	if len(h.changes) != 1 || h.changes[0] != "insert.polyline" {
		t.Errorf("changes = %v", h.changes)
	}
	if e.Panel().Points.Selected() != 1 {
		t.Errorf("selected point = %d, want the inserted one", e.Panel().Points.Selected())
	}

	e.OnClicked(h.ctx, pt(90, 10))
	if len(pl.Points) != 5 || pl.Points[4] != pt(90, 10) {
		t.Errorf("appended points = %v", pl.Points)
	}
}

func TestPolyLinePreviewKeyRelease(t *testing.T) {
	pl := form.NewPolyLine(pt(0, 0), pt(50, 0))
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{pl}, pl)
	e := New(pl)

	e.OnMoved(h.ctx, pt(20, 1))
	h.ctx.Mods = ModControl
	if !e.OnKey(h.ctx) {
		t.Fatal("pressing ctrl should show the preview at the last pointer position")
	}
	if pv, ok := e.Preview(); !ok || pv.Pos != pt(20, 0) {
		t.Errorf("preview = %+v %v", pv, ok)
	}
	h.ctx.Mods = 0
	if !e.OnKey(h.ctx) {
		t.Error("releasing ctrl should drop the preview")
	}
	if _, ok := e.Preview(); ok {
		t.Error("preview survived ctrl release")
	}

	h.ctx.Mods = ModControl
	e.OnMoved(h.ctx, pt(20, 1))
	if !e.OnExit() {
		t.Error("leaving the canvas should drop the preview")
	}
	if len(pl.Points) != 2 {
		t.Errorf("polyline changed: %v", pl.Points)
	}
}

func TestPolyLineDragVertex(t *testing.T) {
	pl := form.NewPolyLine(pt(0, 0), pt(50, 0), pt(50, 50))
	other := form.NewLine(70, 10, 90, 90)
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{pl, other}, pl)
	e := New(pl)

	if !e.OnPressed(h.ctx, pt(50, 49)) {
		t.Fatal("press near the last vertex did not grab it")
	}
	if e.Panel().Points.Selected() != 2 {
		t.Errorf("list selection = %d, want 2", e.Panel().Points.Selected())
	}
	e.OnDragged(h.ctx, pt(71, 10))
	if pl.Points[2] != pt(70, 10) {
		t.Errorf("vertex = %v, want snapped to (70,10)", pl.Points[2])
	}
	if e.LastSnap().Form != other {
		t.Error("expected a form point snap")
	}
	if e.Panel().Field("x").Text() != "70" {
		t.Errorf("x field = %q", e.Panel().Field("x").Text())
	}
	e.OnReleased(h.ctx)

	e.Panel().Field("y").SetFixed(true)
	e.OnPressed(h.ctx, pt(70, 10))
	e.OnDragged(h.ctx, pt(60, 30))
	if pl.Points[2] != pt(60, 10) {
		t.Errorf("with y fixed vertex = %v, want (60,10)", pl.Points[2])
	}
}

func TestPointList(t *testing.T) {
	pl := form.NewPolyLine(pt(0, 0), pt(10, 0))
	e := New(pl)
	list := e.Panel().Points
	var changed []string
	e.Panel().SetOnChange(func(c string) { changed = append(changed, c) })

	list.Add()
	if list.Len() != 3 || list.At(1) != pt(5, 0) || list.Selected() != 1 {
		t.Errorf("after add: %v selected %d", pl.Points, list.Selected())
	}
	list.Select(2)
	list.Add()
	if list.At(3) != pt(15, 0) {
		t.Errorf("appended %v, want (15,0)", list.At(3))
	}
	if err := e.Panel().Field("y").SetText("7"); err != nil || pl.Points[3].Y != 7 {
		t.Errorf("edit selected y: %v %v", pl.Points, err)
	}
	for list.Remove() {
	}
	if list.Len() != 1 {
		t.Errorf("the last point must stay, got %d", list.Len())
	}
	if len(changed) == 0 {
		t.Error("expected change notifications")
	}
}

func TestClickOutsideReleasesSelection(t *testing.T) {
	line := form.NewLine(40, 40, 60, 60)
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{line}, line)
	e := New(line)
	if !e.OnClicked(h.ctx, pt(50, 52)) {
		t.Error("click on the outline should keep the selection")
	}
	if e.OnClicked(h.ctx, pt(5, 95)) {
		t.Error("click on empty canvas should drop the selection")
	}
}

func TestHoverHighlight(t *testing.T) {
	arc := form.NewArc(0, 0, 100, 0, math.Pi/2)
	h := newHarness(guides.NewSet(), snap.DefaultOptions(), []form.Form{arc}, arc)
	e := New(arc)
	if !e.OnMoved(h.ctx, pt(1, 1)) {
		t.Error("hovering the center should redraw")
	}
	marks := e.Handles()
	if !marks[ArcCenter].Highlighted {
		t.Error("center should be highlighted")
	}
	if e.OnMoved(h.ctx, pt(1, 2)) {
		t.Error("staying on the same handle should not redraw")
	}
	if !e.OnExit() {
		t.Error("leaving should clear the highlight")
	}
}
