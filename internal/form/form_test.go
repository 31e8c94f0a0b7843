package form

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"line-editor/pkg/geometry"
)

const eps = 1e-9

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestLineDistanceTo(t *testing.T) {
	l := NewLine(0, 0, 10, 0)
	tests := []struct {
		name   string
		p      geometry.Point2D
		want   float64
		wantOK bool
	}{
		{"perpendicular", pt(5, 2), 2, true},
		{"beyond P2", pt(13, 4), 5, true},
		{"beyond P1", pt(-3, 4), 5, true},
		{"out of range", pt(5, 30), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.DistanceTo(tt.p, 10)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > eps {
				t.Errorf("distance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArcDistanceTo(t *testing.T) {
	// Quarter circle from 0 to 90 degrees around (10, 10).
	a := NewArc(10, 10, 5, 0, math.Pi/2)
	tests := []struct {
		name   string
		p      geometry.Point2D
		want   float64
		wantOK bool
	}{
		{"on sweep outside", pt(10+6*math.Cos(0.5), 10+6*math.Sin(0.5)), 1, true},
		{"on sweep inside", pt(10+4*math.Cos(1.0), 10+4*math.Sin(1.0)), 1, true},
		// Outside the sweep the nearer endpoint wins; the endpoints sit
		// around the center, not the origin.
		{"past start", pt(15, 9), 1, true},
		{"past end", pt(9, 15), 1, true},
		{"far radial", pt(10, 30), 0, false},
		{"opposite side", pt(5, 10), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.DistanceTo(tt.p, 2)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v (d=%v), want %v", ok, got, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > eps {
				t.Errorf("distance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDegenerateArc(t *testing.T) {
	zero := NewArc(0, 0, 0, 0, 1)
	d, ok := zero.DistanceTo(pt(3, 4), 10)
	if !ok || math.Abs(d-5) > eps {
		t.Errorf("zero radius: got %v %v, want 5", d, ok)
	}

	point := NewArc(0, 0, 5, 1, 1)
	d, ok = point.DistanceTo(pt(0, 0), 10)
	if !ok || math.IsNaN(d) {
		t.Errorf("query at center: got %v %v", d, ok)
	}
	if bb := point.BoundingBox(); math.IsNaN(bb.Width) || math.IsNaN(bb.Height) {
		t.Errorf("bounding box has NaN: %+v", bb)
	}
}

func TestPolyLineDistanceTo(t *testing.T) {
	pl := NewPolyLine(pt(0, 0), pt(10, 0), pt(10, 10))
	d, ok := pl.DistanceTo(pt(12, 5), 5)
	if !ok || math.Abs(d-2) > eps {
		t.Errorf("got %v %v, want 2", d, ok)
	}
	if _, ok := pl.DistanceTo(pt(-20, 20), 5); ok {
		t.Error("expected no match")
	}

	single := NewPolyLine(pt(1, 1))
	d, ok = single.DistanceTo(pt(4, 5), 10)
	if !ok || math.Abs(d-5) > eps {
		t.Errorf("single point: got %v %v", d, ok)
	}
}

func TestDefiningPoints(t *testing.T) {
	a := NewArc(0, 0, 2, 0, math.Pi/2)
	pts := a.DefiningPoints()
	if len(pts) != 3 {
		t.Fatalf("arc has %d defining points, want 3", len(pts))
	}
	want := []geometry.Point2D{pt(2, 0), pt(0, 2), pt(0, 0)}
	for i := range want {
		if pts[i].Distance(want[i]) > eps {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}

	if n := len(NewLine(0, 0, 1, 1).DefiningPoints()); n != 2 {
		t.Errorf("line has %d defining points", n)
	}
	if n := len(NewPolyLine(pt(0, 0), pt(1, 1), pt(2, 0)).DefiningPoints()); n != 3 {
		t.Errorf("polyline has %d defining points", n)
	}
}

func TestArcMirror(t *testing.T) {
	a := NewArc(3, 4, 2, 0.2, 1.1)
	a.Mirror(MirrorHorizontal, 10)
	if a.Center != pt(17, 4) {
		t.Errorf("center = %v", a.Center)
	}
	if math.Abs(a.Start-(math.Pi-1.1)) > eps || math.Abs(a.End-(math.Pi-0.2)) > eps {
		t.Errorf("horizontal mirror angles = %v, %v", a.Start, a.End)
	}

	b := NewArc(3, 4, 2, 0.2, 1.1)
	b.Mirror(MirrorVertical, 1)
	if b.Center != pt(3, -2) {
		t.Errorf("center = %v", b.Center)
	}
	if math.Abs(b.Start+1.1) > eps || math.Abs(b.End+0.2) > eps {
		t.Errorf("vertical mirror angles = %v, %v", b.Start, b.End)
	}
}

// Mirroring a form and the query point must not change the distance.
func TestDistanceSymmetricUnderMirror(t *testing.T) {
	forms := []Form{
		NewLine(1, 2, 8, 5),
		NewArc(3, 3, 4, 0.3, 2.5),
		NewPolyLine(pt(0, 0), pt(4, 3), pt(7, -1)),
	}
	queries := []geometry.Point2D{pt(2, 3), pt(5, 5), pt(-1, 6), pt(6, 0)}
	for _, dir := range []MirrorDirection{MirrorHorizontal, MirrorVertical} {
		for _, f := range forms {
			m := f.Clone()
			m.Mirror(dir, 2.5)
			for _, q := range queries {
				d1, ok1 := f.DistanceTo(q, 100)
				d2, ok2 := m.DistanceTo(mirrorPoint(q, dir, 2.5), 100)
				if ok1 != ok2 || math.Abs(d1-d2) > 1e-9 {
					t.Errorf("%v %v at %v: %v/%v vs %v/%v", dir, f.Type(), q, d1, ok1, d2, ok2)
				}
			}
		}
	}
}

func TestRotate90IsExact(t *testing.T) {
	l := NewLine(1, 2, 3, 5)
	l.Rotate90(pt(1, 1), 1)
	if l.P1 != pt(0, 1) || l.P2 != pt(-3, 3) {
		t.Errorf("rotate90 = %v %v", l.P1, l.P2)
	}
	l.Rotate90(pt(1, 1), -1)
	if l.P1 != pt(1, 2) || l.P2 != pt(3, 5) {
		t.Errorf("rotate90 back = %v %v", l.P1, l.P2)
	}

	a := NewArc(2, 0, 1, 0, math.Pi/2)
	a.Rotate90(pt(0, 0), 2)
	if a.Center != pt(-2, 0) || math.Abs(a.Start-math.Pi) > eps {
		t.Errorf("arc rotate90 = %+v", a)
	}
}

func TestRotate(t *testing.T) {
	pl := NewPolyLine(pt(1, 0), pt(2, 0))
	pl.Rotate(pt(0, 0), math.Pi/2)
	if pl.Points[0].Distance(pt(0, 1)) > eps || pl.Points[1].Distance(pt(0, 2)) > eps {
		t.Errorf("rotate = %v", pl.Points)
	}
	a := NewArc(1, 0, 1, 0, 1)
	a.Rotate(pt(0, 0), math.Pi)
	if a.Center.Distance(pt(-1, 0)) > eps || math.Abs(a.Start-math.Pi) > eps {
		t.Errorf("arc rotate = %+v", a)
	}
}

func TestTranslate(t *testing.T) {
	a := NewArc(1, 1, 1, 0, 1)
	a.Translate(2, -1)
	if a.Center != pt(3, 0) {
		t.Errorf("center = %v", a.Center)
	}
}

func TestArcBoundingBox(t *testing.T) {
	a := NewArc(0, 0, 2, 0, math.Pi)
	bb := a.BoundingBox()
	if math.Abs(bb.X+2) > eps || math.Abs(bb.Width-4) > eps || math.Abs(bb.Y) > eps || math.Abs(bb.Height-2) > eps {
		t.Errorf("half circle bbox = %+v", bb)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	forms := []Form{
		NewLine(1, 2, 3, 4),
		NewArc(1, 2, 3, 0.5, 1.5),
		NewPolyLine(pt(0, 0), pt(1, 1), pt(2, 0)),
	}
	for _, f := range forms {
		data, err := json.Marshal(ToRecord(f))
		if err != nil {
			t.Fatal(err)
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			t.Fatal(err)
		}
		g, err := FromRecord(rec)
		if err != nil {
			t.Fatalf("FromRecord(%s): %v", data, err)
		}
		if g.Type() != f.Type() {
			t.Errorf("type = %v, want %v", g.Type(), f.Type())
		}
		gv, fv := g.Values(), f.Values()
		for i := range fv {
			if gv[i] != fv[i] {
				t.Errorf("%v values = %v, want %v", f.Type(), gv, fv)
				break
			}
		}
	}
}

func TestFromRecordErrors(t *testing.T) {
	bad := []Record{
		{Type: TypeLine, Values: []float64{1, 2, 3}},
		{Type: TypeArc, Values: []float64{0, 0, -1, 0, 1}},
		{Type: TypeArc, Values: []float64{0, 0, 0, 0, 1}},
		{Type: TypePolyLine, Values: []float64{1, 2, 3}},
		{Type: TypeLine, Values: []float64{1, math.NaN(), 3, 4}},
		{Type: Type(42), Values: nil},
	}
	for _, rec := range bad {
		if _, err := FromRecord(rec); !errors.Is(err, ErrInvalidValues) {
			t.Errorf("FromRecord(%v) err = %v, want ErrInvalidValues", rec, err)
		}
	}
}

func TestArcSetValuesRejectsNonPositiveRadius(t *testing.T) {
	a := NewArc(1, 2, 5, 0, 1)
	for _, r := range []float64{0, -3} {
		if err := a.SetValues([]float64{0, 0, r, 0, 1}); !errors.Is(err, ErrInvalidValues) {
			t.Errorf("radius %v: err = %v, want ErrInvalidValues", r, err)
		}
	}
	if a.R != 5 || a.Center != pt(1, 2) {
		t.Errorf("rejected values changed the arc: %+v", a)
	}
}

func TestCloneIsDeep(t *testing.T) {
	pl := NewPolyLine(pt(0, 0), pt(1, 1))
	c := Clone(pl).(*PolyLine)
	c.Points[0] = pt(9, 9)
	if pl.Points[0] != pt(0, 0) {
		t.Error("clone shares point storage")
	}
}

func TestNewDefault(t *testing.T) {
	view := geometry.NewRect(0, 0, 100, 50)

	l := NewDefault(TypeLine, view).(*Line)
	if l.P1 != pt(40, 20) || l.P2 != pt(60, 30) {
		t.Errorf("line = %v %v", l.P1, l.P2)
	}

	a := NewDefault(TypeArc, view).(*Arc)
	if a.Center != pt(50, 25) || math.Abs(a.R-50.0/6) > eps || a.Start != 0 || a.End != math.Pi {
		t.Errorf("arc = %+v", a)
	}

	pl := NewDefault(TypePolyLine, view).(*PolyLine)
	want := []geometry.Point2D{pt(40, 20), pt(50, 30), pt(60, 20)}
	for i, p := range want {
		if pl.Points[i] != p {
			t.Errorf("polyline point %d = %v, want %v", i, pl.Points[i], p)
		}
	}
}

func TestNewDefaultArcInEmptyView(t *testing.T) {
	a := NewDefault(TypeArc, geometry.NewRect(3, 4, 0, 0)).(*Arc)
	if a.R != 1 || a.Center != pt(3, 4) {
		t.Errorf("arc = %+v", a)
	}
	if _, err := FromRecord(ToRecord(a)); err != nil {
		t.Errorf("default arc does not reload: %v", err)
	}
}

func TestPolyLineNearestSegmentAndInsert(t *testing.T) {
	pl := NewPolyLine(pt(0, 0), pt(10, 0), pt(10, 10))
	idx, p, ok := pl.NearestSegment(pt(5, 1), 2)
	if !ok || idx != 1 || p != pt(5, 0) {
		t.Fatalf("NearestSegment = %d %v %v", idx, p, ok)
	}
	if _, _, ok := pl.NearestSegment(pt(5, 5), 2); ok {
		t.Error("expected no segment within tolerance")
	}

	pl.Insert(idx, p)
	if len(pl.Points) != 4 || pl.Points[1] != pt(5, 0) || pl.Points[2] != pt(10, 0) {
		t.Errorf("after insert = %v", pl.Points)
	}
	if got := pl.Insert(99, pt(20, 20)); got != 4 {
		t.Errorf("append index = %d", got)
	}
	if !pl.Remove(0) || pl.Points[0] != pt(5, 0) {
		t.Errorf("after remove = %v", pl.Points)
	}
}

func TestTypeText(t *testing.T) {
	for _, typ := range Types {
		parsed, err := ParseType(typ.String())
		if err != nil || parsed != typ {
			t.Errorf("ParseType(%q) = %v, %v", typ.String(), parsed, err)
		}
	}
	if _, err := ParseType("Circle"); err == nil {
		t.Error("expected error for unknown type")
	}
}
