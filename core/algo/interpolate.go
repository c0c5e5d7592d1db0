package algo

import (
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/vcxscore/schema"
)

// Interpolate evaluates the piecewise-linear curve (xp, yp) at x.
// Values outside the xp range take the nearest edge y-value.
// It returns NaN for empty or mismatched control points.
func Interpolate(x float64, xp, yp []float64) float64 {
	n := len(xp)
	if n == 0 || n != len(yp) || math.IsNaN(x) {
		return math.NaN()
	}
	if x <= xp[0] {
		return yp[0]
	}
	if x >= xp[n-1] {
		return yp[n-1]
	}
	// First knot strictly above x; repeated knots resolve to the last one.
	i := sort.Search(n, func(j int) bool { return xp[j] > x })
	if xp[i-1] == x {
		return yp[i-1]
	}
	x0, x1 := xp[i-1], xp[i]
	return yp[i-1] + (yp[i]-yp[i-1])*(x-x0)/(x1-x0)
}

// InterpolatedScore maps value through the control points and applies weight.
// A NaN result scores 0.
func InterpolatedScore(value float64, cp schema.ControlPoints, weight float64) float64 {
	result := Interpolate(value, cp.XP, cp.YP) * weight
	if math.IsNaN(result) {
		return 0
	}
	return result
}

// ValidateControlPoints checks that xp is non-decreasing and matches yp in length.
func ValidateControlPoints(cp schema.ControlPoints) error {
	if len(cp.XP) == 0 {
		return fmt.Errorf("%w: xp is empty", schema.ErrInvalidControlPoints)
	}
	if len(cp.XP) != len(cp.YP) {
		return fmt.Errorf("%w: xp has %d points, yp has %d", schema.ErrInvalidControlPoints, len(cp.XP), len(cp.YP))
	}
	for i := 1; i < len(cp.XP); i++ {
		if cp.XP[i] < cp.XP[i-1] {
			return fmt.Errorf("%w: xp decreases at index %d (%g < %g)", schema.ErrInvalidControlPoints, i, cp.XP[i], cp.XP[i-1])
		}
	}
	return nil
}
