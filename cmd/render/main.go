// Command render draws a line editor document to a PNG image.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/gg"

	"line-editor/internal/app"
	"line-editor/internal/editor"
	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/internal/logging"
	"line-editor/internal/render"
	"line-editor/internal/version"
	"line-editor/internal/view"
	"line-editor/pkg/geometry"
)

type options struct {
	in, out, guides string
	width, height   int
	yUp             bool
	margin          float64
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "Document to render (JSON)")
	fs.StringVar(&o.out, "out", "", "Output PNG path")
	fs.StringVar(&o.guides, "guides", "", "Guide line file replacing the document's guide lines")
	fs.IntVar(&o.width, "width", 800, "Image width in pixels")
	fs.IntVar(&o.height, "height", 600, "Image height in pixels")
	fs.BoolVar(&o.yUp, "yup", false, "Draw the Y axis pointing up")
	fs.Float64Var(&o.margin, "margin", 0, "Extra world units around the content")
	showVersion := fs.Bool("version", false, "Print the version and exit")
	verbose := fs.Bool("v", false, "Log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: render -in doc.json -out doc.png [-width 800] [-height 600] [-yup] [-guides file]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if *showVersion {
		fmt.Println("render", version.String())
		return o, flag.ErrHelp
	}
	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(stderr, nil)))
	}
	if o.in == "" || o.out == "" {
		fs.Usage()
		return o, errors.New("-in and -out are required")
	}
	if o.width <= 0 || o.height <= 0 {
		return o, fmt.Errorf("invalid size %dx%d", o.width, o.height)
	}
	if o.margin < 0 {
		return o, fmt.Errorf("invalid margin %g", o.margin)
	}
	return o, nil
}

func run(args []string, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	forms, set, err := app.ReadDocument(o.in)
	if err != nil {
		return err
	}
	if o.guides != "" {
		if set, err = guides.Load(o.guides); err != nil {
			return err
		}
	}

	v := view.New(geometry.NewRect(0, 0, float64(o.width), float64(o.height)))
	v.SetAxes(true, !o.yUp)
	v.SetViewport(float64(o.width), float64(o.height))
	var minRect *geometry.Rect
	if b, ok := form.Bounds(forms); ok && o.margin > 0 {
		r := b.Inflate(o.margin)
		minRect = &r
	}
	v.FitForms(forms, minRect)

	r := render.New()
	defer r.Close()
	img := r.Render(&editor.Scene{View: v, Forms: forms, GuideLines: set.All()})

	if err := gg.FromImage(img).SavePNG(o.out); err != nil {
		return fmt.Errorf("write %s: %w", o.out, err)
	}
	logging.For("render").Info("rendered", "in", o.in, "out", o.out,
		"forms", len(forms), "guideLines", set.Len())
	return nil
}
