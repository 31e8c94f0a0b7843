package guides

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"line-editor/internal/logging"
)

const keyPrefix = "GuideLine."

// Write stores one "GuideLine.<Type>=<value>" line per guide line.
func Write(w io.Writer, s *Set) error {
	bw := bufio.NewWriter(w)
	for _, g := range s.All() {
		if _, err := fmt.Fprintf(bw, "%s%v=%s\n", keyPrefix, g.Type, strconv.FormatFloat(g.Pos, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Parse reads guide lines written by Write. Lines that are not guide line
// entries are ignored; entries with a malformed value are skipped with a
// warning. Only read failures are returned as errors.
func Parse(r io.Reader) (*Set, error) {
	log := logging.For("guides")
	s := NewSet()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, keyPrefix) {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(line, keyPrefix), "=")
		if !ok {
			continue
		}
		t, err := ParseType(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		pos, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			log.Warn("skipping guide line with malformed value", "line", lineNo, "value", value, "err", err)
			continue
		}
		s.Add(GuideLine{Type: t, Pos: pos})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read guide lines: %w", err)
	}
	return s, nil
}

// Load reads a guide line file.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes a guide line file.
func Save(path string, s *Set) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
