//go:build !fastmath

package posemath

import "math"

// sqrt is the default, exact square root used by circle and pose magnitude
// computations. See fastmath.go for the approximate alternative enabled by
// the fastmath build tag.
func sqrt(x float64) float64 {
	return math.Sqrt(x)
}
