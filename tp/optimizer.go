package tp

import "math"

// runOptimizer performs the backward "rising tide" pass (§4.4): starting
// from the tail, it lifts each tangent-terminated predecessor's finalVel
// toward what its successor can actually achieve, up to the configured
// lookahead depth.
func (tp *TP) runOptimizer() {
	n := tp.queue.len()
	if n < 2 {
		return
	}

	depth := tp.cfg.LookaheadDepth
	for i := n - 1; i > 0 && depth > 0; i, depth = i-1, depth-1 {
		next := tp.queue.item(i)
		prev := tp.queue.item(i - 1)

		if prev.termCond != TermTangent {
			break
		}
		if prev.progress > 0 {
			break
		}

		a := next.maxAccel * next.accelScale
		d := next.finalVel*next.finalVel + 2*a*next.target
		vs := math.Sqrt(math.Max(d, 0))

		if vs > next.maxVel {
			prev.finalVel = next.maxVel
			prev.atPeak = true
			break
		}
		prev.finalVel = vs
		prev.atPeak = false
	}
}
