package dialogs

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"

	"line-editor/internal/app"
	"line-editor/internal/guides"
	"line-editor/pkg/geometry"
)

func TestDefaultGrid(t *testing.T) {
	tests := []struct {
		name   string
		area   geometry.Rect
		vx, hx GridAxis
	}{
		{"unit square", geometry.NewRect(0, 0, 100, 100), GridAxis{0, 10, 11}, GridAxis{0, 10, 11}},
		{"offset", geometry.NewRect(-3.3, 120, 47, 300), GridAxis{-4, 5, 11}, GridAxis{100, 50, 11}},
		{"empty", geometry.NewRect(0, 0, 0, 0), GridAxis{0, 1, 11}, GridAxis{0, 1, 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, h := DefaultGrid(tt.area)
			if v != tt.vx || h != tt.hx {
				t.Errorf("DefaultGrid = %+v %+v, want %+v %+v", v, h, tt.vx, tt.hx)
			}
		})
	}
}

func TestParseGridAxis(t *testing.T) {
	tests := []struct {
		start, step, count string
		want               GridAxis
		err                string
	}{
		{"0", "2.5", "3", GridAxis{0, 2.5, 3}, ""},
		{" -1 ", "1", "0", GridAxis{-1, 1, 0}, ""},
		{"5", "0", "1", GridAxis{5, 0, 1}, ""},
		{"x", "1", "1", GridAxis{}, "start"},
		{"0", "Inf", "1", GridAxis{}, "spacing"},
		{"0", "1", "1.5", GridAxis{}, "count"},
		{"0", "1", "-1", GridAxis{}, "between"},
		{"0", "1", "1001", GridAxis{}, "between"},
		{"0", "-1", "3", GridAxis{}, "positive"},
	}
	for _, tt := range tests {
		got, err := ParseGridAxis(tt.start, tt.step, tt.count)
		if tt.err != "" {
			if err == nil || !strings.Contains(err.Error(), tt.err) {
				t.Errorf("ParseGridAxis(%q, %q, %q) err = %v, want %q", tt.start, tt.step, tt.count, err, tt.err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseGridAxis(%q, %q, %q) = %+v, %v", tt.start, tt.step, tt.count, got, err)
		}
	}
}

func TestPositions(t *testing.T) {
	got := GridAxis{Start: 1, Step: 2, Count: 3}.Positions()
	if len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 5 {
		t.Errorf("Positions = %v", got)
	}
}

func TestApplyReplacesGuideLines(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	state := app.NewState()
	state.GuideLines.Add(guides.GuideLine{Type: guides.Horizontal, Pos: 99})

	d := NewGuideGridDialog(state, geometry.NewRect(0, 0, 100, 100), a.NewWindow("test"))
	d.createContent()
	d.vCount.SetText("2")
	d.hStart.SetText("5")
	d.hCount.SetText("1")
	if err := d.Apply(); err != nil {
		t.Fatal(err)
	}

	want := []guides.GuideLine{
		{Type: guides.Vertical, Pos: 0},
		{Type: guides.Vertical, Pos: 10},
		{Type: guides.Horizontal, Pos: 5},
	}
	got := state.GuideLines.All()
	if len(got) != len(want) {
		t.Fatalf("guide lines = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("guide line %d = %v, want %v", i, got[i], want[i])
		}
	}

	d.hCount.SetText("many")
	if err := d.Apply(); err == nil || !strings.Contains(err.Error(), "horizontal count") {
		t.Errorf("err = %v", err)
	}
	if state.GuideLines.Len() != 3 {
		t.Error("a rejected grid should leave the guide lines alone")
	}
}
