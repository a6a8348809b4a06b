package tp

import (
	"math"

	"github.com/gorilerman/linuxcnc/posemath"
)

// circleTangentAt returns the unit tangent direction of c at arc parameter
// theta (radians from Start), i.e. d/dtheta of the parameterization,
// normalized. Vec1/Vec2 are orthonormal so this is already unit length.
func circleTangentAt(c posemath.Circle, theta float64) posemath.Vector3 {
	return c.Vec1.Scale(-math.Sin(theta)).Add(c.Vec2.Scale(math.Cos(theta)))
}

// planBlend inspects the two most recently enqueued segments (both lines)
// and decides NO_BLEND, TANGENT, or ARC (§4.3). It returns true if an arc
// was inserted, signaling the caller to re-run the optimizer.
func (tp *TP) planBlend() bool {
	i := tp.queue.len() - 2
	prev := tp.queue.item(i)
	tc := tp.queue.item(i + 1)

	if prev == nil || tc == nil {
		return false
	}
	if prev.progress != 0 {
		return false
	}
	if !isPureXYZLine(prev) || !isPureXYZLine(tc) {
		return false
	}
	if prev.termCond != TermParabolic {
		return false
	}

	u1 := prev.line.xyz.UnitVec
	u2 := tc.line.xyz.UnitVec
	omega, ok := posemath.AngleBetweenUnits(u1, u2)
	if !ok {
		return false
	}

	if omega < tp.cfg.AngleEpsilon {
		prev.termCond = TermTangent
		return false
	}
	if math.Pi-omega < tp.cfg.AngleEpsilon {
		// near-reversal: the blend radius tan(theta)*d shrinks toward
		// zero, so no usable arc exists. Leave termCond as configured
		// (stop or parabolic fallback).
		return false
	}

	arc, ok := tp.computeBlendArc(prev, tc, omega)
	if !ok {
		return false
	}

	tp.insertBlendArc(i, arc)
	return true
}

func isPureXYZLine(s *Segment) bool {
	return s.line.abc.Length < posemath.Epsilon && s.line.uvw.Length < posemath.Epsilon
}

// blendArcPlan is the outcome of the arc-geometry computation: the arc
// itself plus how far to trim each neighbor.
type blendArcPlan struct {
	circle posemath.Circle
	dPrev  float64 // trim off the end of prev
	dNext  float64 // trim off the start of tc
	vUpper float64 // normal-accel-limited tangential speed the arc may run at
}

// computeBlendArc implements §4.3's arc geometry derivation. ok is false
// for any of the documented numeric degeneracies, in which case the caller
// falls back to the already-decided parabolic/stop termCond.
func (tp *TP) computeBlendArc(prev, tc *Segment, omega float64) (blendArcPlan, bool) {
	theta := (math.Pi - omega) / 2

	sinTheta := math.Sin(theta)
	if 1-sinTheta < posemath.Epsilon {
		return blendArcPlan{}, false
	}
	tolerance := prev.tolerance
	dTol := math.Cos(theta) * tolerance / (1 - sinTheta)

	dPrev := prev.line.xyz.Length
	dNext := 0.5 * tc.line.xyz.Length
	dGeom := math.Min(dPrev, math.Min(dNext, dTol))
	if dGeom < posemath.Epsilon {
		return blendArcPlan{}, false
	}

	tanTheta := math.Tan(theta)
	if tanTheta < posemath.Epsilon {
		return blendArcPlan{}, false
	}
	rGeom := tanTheta * dGeom

	aNMax := tp.aMax * 0.98 / math.Sqrt2
	if aNMax <= 0 {
		return blendArcPlan{}, false
	}
	vNormal := math.Sqrt(aNMax * rGeom)

	vUpper := math.Max(prev.reqVel, tc.reqVel)
	if vNormal < vUpper {
		vUpper = vNormal
	}
	rUpper := vUpper * vUpper / aNMax
	dUpper := rUpper / tanTheta

	if prev.line.xyz.Length-dUpper < posemath.Epsilon {
		dUpper = prev.line.xyz.Length
	} else {
		// Nyquist-like sample limit: the arc must span enough cycles
		// that the trapezoidal integrator can resolve it. phi is the
		// arc's total sweep angle.
		phi := math.Pi - 2*theta
		if tp.cycleTime > 0 {
			arcLen := rUpper * phi
			minCycles := 2.0
			if arcLen/math.Max(vUpper, posemath.Epsilon) < minCycles*tp.cycleTime {
				l1 := prev.line.xyz.Length
				compromise := l1 / (1 + phi*tanTheta)
				if compromise < dUpper {
					dUpper = compromise
				}
			}
		}
	}

	rUpper = tanTheta * dUpper
	vUpper = math.Sqrt(aNMax * rUpper)

	parabolicVel := tp.parabolicBlendVelocityEstimate(prev, tc)
	if vUpper < parabolicVel {
		return blendArcPlan{}, false
	}

	shoulderStart := prev.line.xyz.PointAt(prev.line.xyz.Length - dUpper)
	shoulderEnd := tc.line.xyz.PointAt(dUpper)
	vertex := prev.line.xyz.End

	circle, err := posemath.CircleFromThreePoints(shoulderStart, vertex, shoulderEnd, rUpper)
	if err != nil {
		return blendArcPlan{}, false
	}

	return blendArcPlan{circle: circle, dPrev: dUpper, dNext: dUpper, vUpper: vUpper}, true
}

// parabolicBlendVelocityEstimate computes the parabolic blend velocity
// that would result if no arc were inserted, for the "arc must beat
// parabolic" comparison in §4.3's final bullet. It reuses the same formula
// as §4.5.2 but without a tangent-tolerance term (no tangent handoff
// exists yet at build time).
func (tp *TP) parabolicBlendVelocityEstimate(prev, tc *Segment) float64 {
	accPrev := prev.maxAccel * prev.accelScale
	accNext := tc.maxAccel * tc.accelScale
	vPeakPrev := math.Sqrt(prev.target * accPrev)
	vPeakNext := math.Sqrt(tc.target * accNext)
	blendVel := math.Min(vPeakPrev, vPeakNext)
	if blendVel > tc.reqVel {
		blendVel = tc.reqVel
	}
	if accPrev < accNext {
		blendVel *= accPrev / accNext
	}
	return blendVel
}

// insertBlendArc trims prev and tc per the plan, builds the arc Segment,
// and splices it between them at queue index i, i+1 (popping and
// re-pushing the tail since the ring buffer only supports push/pop at its
// ends).
func (tp *TP) insertBlendArc(i int, plan blendArcPlan) {
	tc, _ := tp.queue.popBack()
	prev := tp.queue.item(i)

	entryPoint := plan.circle.PointAt(0)
	exitPoint := plan.circle.PointAt(plan.circle.Length())

	prev.line.xyz = posemath.NewLine(prev.line.xyz.Start, entryPoint)
	prev.target = prev.line.xyz.Length
	trimmedPrev := prev.target < posemath.Epsilon

	tc.line.xyz = posemath.NewLine(exitPoint, tc.line.xyz.End)
	tc.target = tc.line.xyz.Length

	arcVel := plan.vUpper
	if tc.maxVel < arcVel {
		arcVel = tc.maxVel
	}

	arc := Segment{
		id:              tp.nextID,
		motionType:      MotionCircular,
		canonMotionType: CanonArc,
		maxAccel:        tp.aMax,
		accelScale:      1 / math.Sqrt2,
		maxVel:          arcVel,
		reqVel:          arcVel,
		termCond:        TermTangent,
		tolerance:       0,
		target:          plan.circle.Length(),
		circular:        circularCoords{xyz: plan.circle},
		synchronized:    tc.synchronized,
		uuPerRev:        tc.uuPerRev,
	}

	if trimmedPrev {
		tp.queue.popBack() // drop the now-empty prev (was at index i)
	}
	tp.nextID++
	tp.queue.push(arc)
	tp.queue.push(tc)
}
