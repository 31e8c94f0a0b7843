// Command guidelines validates a guide line file and writes it back in
// normalised form.
//
// Malformed entries are reported on stderr and dropped. With -sort the
// vertical lines come first, each orientation ordered by position.
package main

import (
	"cmp"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"line-editor/internal/guides"
	"line-editor/internal/logging"
	"line-editor/internal/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "guidelines: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("guidelines", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "Guide line file to read (default stdin)")
	out := fs.String("out", "", "File to write (default stdout)")
	sortLines := fs.Bool("sort", false, "Order by orientation and position")
	dedupe := fs.Bool("dedupe", false, "Drop repeated guide lines")
	count := fs.Bool("count", false, "Only print the number of guide lines per orientation")
	showVersion := fs.Bool("version", false, "Print the version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: guidelines [-in file] [-out file] [-sort] [-dedupe] [-count]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Fprintln(stdout, "guidelines", version.String())
		return nil
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected arguments %q", fs.Args())
	}

	logging.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	defer logging.SetLogger(nil)

	var set *guides.Set
	var err error
	if *in == "" {
		set, err = guides.Parse(stdin)
	} else {
		set, err = guides.Load(*in)
	}
	if err != nil {
		return err
	}

	set = normalise(set, *sortLines, *dedupe)

	if *count {
		var v, h int
		for _, g := range set.All() {
			if g.Type == guides.Vertical {
				v++
			} else {
				h++
			}
		}
		_, err := fmt.Fprintf(stdout, "vertical: %d\nhorizontal: %d\n", v, h)
		return err
	}
	if *out == "" {
		return guides.Write(stdout, set)
	}
	return guides.Save(*out, set)
}

// normalise returns the guide lines of s, optionally sorted and without
// repeats. Dropping repeats keeps the first occurrence.
func normalise(s *guides.Set, sortLines, dedupe bool) *guides.Set {
	lines := s.All()
	if dedupe {
		seen := make(map[guides.GuideLine]bool, len(lines))
		lines = slices.DeleteFunc(lines, func(g guides.GuideLine) bool {
			if seen[g] {
				return true
			}
			seen[g] = true
			return false
		})
	}
	if sortLines {
		slices.SortStableFunc(lines, func(a, b guides.GuideLine) int {
			if a.Type != b.Type {
				// Vertical first
				return cmp.Compare(b.Type, a.Type)
			}
			return cmp.Compare(a.Pos, b.Pos)
		})
	}
	return guides.NewSet(lines...)
}
