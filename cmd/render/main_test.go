package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"line-editor/internal/app"
	"line-editor/internal/form"
	"line-editor/internal/guides"
)

func TestRunWritesPNG(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.json")
	set := guides.NewSet()
	set.Add(guides.GuideLine{Type: guides.Horizontal, Pos: 50})
	if err := app.WriteDocument(doc, []form.Form{form.NewLine(10, 10, 90, 90)}, set); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "doc.png")

	var stderr bytes.Buffer
	if err := run([]string{"-in", doc, "-out", out, "-width", "120", "-height", "80"}, &stderr); err != nil {
		t.Fatalf("run: %v (%s)", err, stderr.String())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("image size = %v", b)
	}
	if r, g, b, _ := img.At(119, 0).RGBA(); r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("corner pixel = %02x %02x %02x, want white", r>>8, g>>8, b>>8)
	}
}

func TestRunFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing in", []string{"-out", "x.png"}, "required"},
		{"bad size", []string{"-in", "a", "-out", "b", "-width", "0"}, "invalid size"},
		{"bad margin", []string{"-in", "a", "-out", "b", "-margin", "-1"}, "invalid margin"},
		{"missing document", []string{"-in", "does-not-exist.json", "-out", "b.png"}, "does-not-exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			err := run(tt.args, &stderr)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run(%v) = %v, want error containing %q", tt.args, err, tt.want)
			}
		})
	}
}
