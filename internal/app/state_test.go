package app

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2/theme"

	"line-editor/internal/editor"
	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
)

func TestEmitCallsListenersInOrder(t *testing.T) {
	s := NewState()
	var got []string
	s.On(EventRedraw, func(interface{}) { got = append(got, "a") })
	s.On(EventRedraw, func(interface{}) { got = append(got, "b") })
	s.Redraw()
	if strings.Join(got, "") != "ab" {
		t.Errorf("listeners called %v", got)
	}
}

func TestSessionThroughState(t *testing.T) {
	s := NewState()
	v := view.New(geometry.NewRect(0, 0, 100, 100))
	v.SetViewport(100, 100)
	sess := editor.New(s, v)
	sess.SetForms(s.Forms)
	sess.SetGuideLines(s.GuideLines)

	var events []editor.FormsEvent
	var panels []editor.Panel
	modified := 0
	s.On(EventFormsChanged, func(d interface{}) { events = append(events, d.(editor.FormsEvent)) })
	s.On(EventPanelRequested, func(d interface{}) { panels = append(panels, d.(editor.Panel)) })
	s.On(EventModified, func(interface{}) { modified++ })

	f, err := sess.AddForm(form.TypeArc)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Forms) != 1 || s.Forms[0] != f {
		t.Errorf("state forms = %v", s.Forms)
	}
	if !s.Modified || modified != 1 {
		t.Errorf("modified = %v (%d events)", s.Modified, modified)
	}
	if len(events) != 1 || events[0].Kind != editor.Added {
		t.Errorf("events = %+v", events)
	}
	if len(panels) != 1 || panels[0].Kind != editor.FormPanel {
		t.Errorf("panels = %+v", panels)
	}

	s.FormsLocked = true
	if err := sess.RemoveForms(s.Forms); !errors.Is(err, editor.ErrFormsLocked) {
		t.Errorf("err = %v", err)
	}

	if _, err := sess.AddGuideLine(guides.Horizontal, 3); err != nil {
		t.Fatal(err)
	}
	if s.GuideLines.Len() != 1 {
		t.Error("session and state should share the guide lines")
	}
}

func TestDeselectDoesNotModify(t *testing.T) {
	s := NewState()
	s.FormsChanged(editor.FormsEvent{Kind: editor.Changed, Caller: "deselect"})
	if s.Modified {
		t.Error("deselect should not mark the document modified")
	}
}

func TestContextMenuRequest(t *testing.T) {
	s := NewState()
	var req ContextMenuRequest
	s.On(EventContextMenu, func(d interface{}) { req = d.(ContextMenuRequest) })
	menu := &editor.ContextMenu{}
	s.ShowContextMenu(menu, geometry.NewPoint2D(4, 5))
	if req.Menu != menu || req.At != geometry.NewPoint2D(4, 5) {
		t.Errorf("request = %+v", req)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	s := NewState()
	s.Forms = []form.Form{
		form.NewLine(1, 2, 3, 4),
		form.NewArc(0, 0, 5, 0, 1.5),
		form.NewPolyLine(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 1)),
	}
	s.GuideLines.Add(guides.GuideLine{Type: guides.Vertical, Pos: 48})
	s.Modified = true

	var saved string
	s.On(EventDocumentSaved, func(d interface{}) { saved = d.(string) })
	if err := s.SaveDocument(path); err != nil {
		t.Fatal(err)
	}
	if saved != path || s.Modified {
		t.Errorf("after save: path event %q, modified %v", saved, s.Modified)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version": 1`) || !strings.Contains(string(data), `"type": "Arc"`) || !strings.Contains(string(data), "GuideLine.Vertical=48") {
		t.Errorf("document = %s", data)
	}

	loaded := NewState()
	if err := loaded.LoadDocument(path); err != nil {
		t.Fatal(err)
	}
	if len(loaded.Forms) != 3 || loaded.GuideLines.Len() != 1 || loaded.DocumentPath != path {
		t.Fatalf("loaded %d forms, %d guide lines", len(loaded.Forms), loaded.GuideLines.Len())
	}
	for i, f := range loaded.Forms {
		want, got := s.Forms[i].Values(), f.Values()
		if f.Type() != s.Forms[i].Type() || len(got) != len(want) {
			t.Fatalf("form %d = %v %v", i, f.Type(), got)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("form %d value %d = %v, want %v", i, j, got[j], want[j])
			}
		}
	}
}

func TestLoadDocumentErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad json", "{", nil},
		{"bad values", `{"forms":[{"type":"Line","values":[1,2,3]}]}`, form.ErrInvalidValues},
		{"unknown type", `{"forms":[{"type":"Spline","values":[]}]}`, nil},
		{"newer version", `{"version":2,"forms":[]}`, ErrDocumentVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			s := NewState()
			err := s.LoadDocument(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if s.DocumentPath != "" {
				t.Error("a failed load must not change the state")
			}
		})
	}
	if err := NewState().LoadDocument(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestImportExportGuideLines(t *testing.T) {
	dir := t.TempDir()
	s := NewState()
	if err := s.ExportGuideLines(filepath.Join(dir, "empty.txt")); !errors.Is(err, ErrNoGuideLines) {
		t.Errorf("err = %v", err)
	}

	s.GuideLines.Add(guides.GuideLine{Type: guides.Horizontal, Pos: 2.5})
	path := filepath.Join(dir, "guides.txt")
	if err := s.ExportGuideLines(path); err != nil {
		t.Fatal(err)
	}

	other := NewState()
	shared := other.GuideLines
	var got []editor.GuideEvent
	other.On(EventGuideLinesChanged, func(d interface{}) { got = append(got, d.(editor.GuideEvent)) })
	if err := other.ImportGuideLines(path); err != nil {
		t.Fatal(err)
	}
	if shared.Len() != 1 || shared.At(0) != (guides.GuideLine{Type: guides.Horizontal, Pos: 2.5}) {
		t.Errorf("imported = %v", shared.All())
	}
	if len(got) != 1 || got[0].Caller != "importGuideLines" || !other.Modified {
		t.Errorf("events = %+v", got)
	}
}

func TestSetGridGuideLines(t *testing.T) {
	s := NewState()
	s.GuideLines.Add(guides.GuideLine{Type: guides.Horizontal, Pos: 99})
	redraws := 0
	s.On(EventRedraw, func(interface{}) { redraws++ })

	s.SetGridGuideLines([]float64{0, 10}, []float64{5})
	want := []guides.GuideLine{
		{Type: guides.Vertical, Pos: 0},
		{Type: guides.Vertical, Pos: 10},
		{Type: guides.Horizontal, Pos: 5},
	}
	got := s.GuideLines.All()
	if len(got) != len(want) {
		t.Fatalf("guide lines = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("guide line %d = %v, want %v", i, got[i], want[i])
		}
	}
	if !s.Modified || redraws != 1 {
		t.Errorf("modified = %v, redraws = %d", s.Modified, redraws)
	}
}

func TestNewDocument(t *testing.T) {
	s := NewState()
	s.Forms = []form.Form{form.NewLine(0, 0, 1, 1)}
	s.DocumentPath = "x.json"
	s.NewDocument()
	if len(s.Forms) != 0 || s.DocumentPath != "" || !s.GuideLines.IsEmpty() {
		t.Errorf("state not cleared: %+v", s)
	}
}

func TestEditorTheme(t *testing.T) {
	th := &EditorTheme{}
	if c := th.Color(theme.ColorNamePrimary, theme.VariantLight); c != (color.NRGBA{B: 0xFF, A: 0xFF}) {
		t.Errorf("primary = %v", c)
	}
	if th.Size(theme.SizeNameScrollBar) != 16 {
		t.Error("scrollbar size")
	}
	if th.Color(theme.ColorNameBackground, theme.VariantDark) != theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark) {
		t.Error("other colors should come from the default theme")
	}
}
