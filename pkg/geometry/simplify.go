package geometry

import "math"

// Simplify reduces the number of vertices of an open path with the
// Douglas-Peucker algorithm. Points closer than epsilon to the chord of
// their span are dropped; the end points are always kept.
func Simplify(path []Point2D, epsilon float64) []Point2D {
	if len(path) <= 2 {
		return append([]Point2D(nil), path...)
	}

	// Find the point farthest from the chord between the end points
	dmax := 0.0
	index := 0
	end := len(path) - 1
	for i := 1; i < end; i++ {
		if d := lineDistance(path[i], path[0], path[end]); d > dmax {
			dmax, index = d, i
		}
	}

	if dmax <= epsilon {
		return []Point2D{path[0], path[end]}
	}

	left := Simplify(path[:index+1], epsilon)
	right := Simplify(path[index:], epsilon)
	result := make([]Point2D, 0, len(left)+len(right)-1)
	result = append(result, left[:len(left)-1]...)
	return append(result, right...)
}

// lineDistance returns the distance from p to the infinite line through a
// and b, or to a when they coincide.
func lineDistance(p, a, b Point2D) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return p.Distance(a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / math.Hypot(dx, dy)
}
