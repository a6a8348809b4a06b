//go:build fastmath

package posemath

import "github.com/meko-christian/algo-approx"

// sqrt trades a little precision for speed in the blend-radius and
// pose-magnitude computations. Opt in with -tags fastmath; the testable
// blend-tolerance properties are only guaranteed against the default
// math.Sqrt build.
func sqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
