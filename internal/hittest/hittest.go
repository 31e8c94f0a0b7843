// Package hittest finds the form under the cursor.
package hittest

import (
	"line-editor/internal/form"
	"line-editor/pkg/geometry"
)

// MaxNearDistance is the pick radius in screen pixels.
const MaxNearDistance = 20.0

// NearestForm returns the form whose outline is closest to p within maxDist
// (world units). Of equally close forms the first in list order wins.
func NearestForm(forms []form.Form, p geometry.Point2D, maxDist float64) (form.Form, float64, bool) {
	var best form.Form
	var bestDist float64
	for _, f := range forms {
		d, ok := f.DistanceTo(p, maxDist)
		if !ok {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = f, d
		}
	}
	return best, bestDist, best != nil
}
