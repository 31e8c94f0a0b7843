// Package snap resolves candidate points against guide lines and the
// defining points of other forms.
package snap

import (
	"math"

	"line-editor/internal/form"
	"line-editor/internal/guides"
	"line-editor/pkg/geometry"
)

const (
	// MaxGuideLineDistance is the snap radius in screen pixels.
	MaxGuideLineDistance = 3.0

	// DefaultSlack lets a form point beat a slightly nearer guide line.
	DefaultSlack = 0.05
)

// Options are the user toggles that gate snapping.
type Options struct {
	StickToGuideLines bool
	StickToFormPoints bool
	// Slack is the fraction of the form point distance within which a form
	// point is preferred over a guide line.
	Slack float64
}

// DefaultOptions enables both kinds of snapping.
func DefaultOptions() Options {
	return Options{StickToGuideLines: true, StickToFormPoints: true, Slack: DefaultSlack}
}

// Result is a resolved point and what it snapped to.
type Result struct {
	Point geometry.Point2D
	// GuideX and GuideY are the indices of the vertical and horizontal guide
	// lines used, or -1.
	GuideX int
	GuideY int
	// Form is the form whose defining point was used, or nil.
	Form form.Form
}

// Snapped reports whether any snap target was applied.
func (r Result) Snapped() bool {
	return r.GuideX >= 0 || r.GuideY >= 0 || r.Form != nil
}

// Resolver snaps world points. A Resolver is built per input event; it
// reads but never modifies the guide lines and forms.
type Resolver struct {
	opts    Options
	guides  *guides.Set
	forms   []form.Form
	exclude form.Form
	maxDist float64
}

// NewResolver creates a resolver. exclude is the form being edited, which
// never snaps to itself. maxDist is the snap radius in world units.
func NewResolver(opts Options, g *guides.Set, forms []form.Form, exclude form.Form, maxDist float64) *Resolver {
	return &Resolver{opts: opts, guides: g, forms: forms, exclude: exclude, maxDist: maxDist}
}

// Options returns the toggles in effect.
func (r *Resolver) Options() Options { return r.opts }

// Guides returns the guide lines snapped against.
func (r *Resolver) Guides() *guides.Set { return r.guides }

// MaxDist returns the snap radius in world units.
func (r *Resolver) MaxDist() float64 { return r.maxDist }

type pointHit struct {
	p    geometry.Point2D
	f    form.Form
	dist float64
}

// NearestFormPoint returns the closest defining point of a form other than
// the excluded one within the snap radius.
func (r *Resolver) NearestFormPoint(p geometry.Point2D) (geometry.Point2D, form.Form, float64, bool) {
	var best *pointHit
	for _, f := range r.forms {
		if f == r.exclude {
			continue
		}
		for _, q := range f.DefiningPoints() {
			d := p.Distance(q)
			if d > r.maxDist {
				continue
			}
			if best == nil || d < best.dist {
				best = &pointHit{p: q, f: f, dist: d}
			}
		}
	}
	if best == nil {
		return geometry.Point2D{}, nil, 0, false
	}
	return best.p, best.f, best.dist, true
}

// Resolve snaps p. An axis flagged as fixed is never moved.
//
// When form point snapping is on and both axes are free, the nearest form
// point moves both coordinates at once, provided that for each axis it is
// not beaten by that axis' guide line. Otherwise every free axis
// independently takes its nearest guide line.
func (r *Resolver) Resolve(p geometry.Point2D, xFixed, yFixed bool) Result {
	res := Result{Point: p, GuideX: -1, GuideY: -1}
	if xFixed && yFixed {
		return res
	}

	var gx, gy int = -1, -1
	var dx, dy float64
	if r.opts.StickToGuideLines && r.guides != nil {
		if i, d, ok := r.guides.Nearest(guides.Vertical, p.X, r.maxDist); ok && !xFixed {
			gx, dx = i, d
		}
		if i, d, ok := r.guides.Nearest(guides.Horizontal, p.Y, r.maxDist); ok && !yFixed {
			gy, dy = i, d
		}
	}

	if r.opts.StickToFormPoints && !xFixed && !yFixed {
		if q, f, d, ok := r.NearestFormPoint(p); ok &&
			r.pointWins(q.X, d, gx, dx) && r.pointWins(q.Y, d, gy, dy) {
			res.Point = q
			res.Form = f
			return res
		}
	}

	if gx >= 0 {
		res.Point.X = r.guides.At(gx).Pos
		res.GuideX = gx
	}
	if gy >= 0 {
		res.Point.Y = r.guides.At(gy).Pos
		res.GuideY = gy
	}
	return res
}

// pointWins decides one axis between a form point at coordinate c and
// distance d, and the guide line gi at distance gd.
func (r *Resolver) pointWins(c, d float64, gi int, gd float64) bool {
	if gi < 0 {
		return true
	}
	if d <= gd*(1+r.opts.Slack) {
		return true
	}
	return math.Abs(c-r.guides.At(gi).Pos) < d*r.opts.Slack
}
