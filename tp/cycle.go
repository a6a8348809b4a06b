package tp

import (
	"math"
	"time"

	"github.com/gorilerman/linuxcnc/posemath"
)

// WarningKind classifies a non-fatal condition surfaced from RunCycle
// instead of being logged (§7: logging is an external collaborator).
type WarningKind int

const (
	WarnOvershootBeyondTarget WarningKind = iota
	WarnWaitingIDMismatch
)

// Warning is one non-fatal condition observed during a cycle.
type Warning struct {
	Kind    WarningKind
	Message string
}

// CycleReport is returned by every RunCycle call.
type CycleReport struct {
	Done     bool
	Warnings []Warning
}

// RunCycle advances the planner by one control period. period should equal
// the host's fixed tick duration; if positive it becomes the authoritative
// cycleTime for this and subsequent cycles (mirroring the original, which
// is handed the period on every call rather than trusting a
// configure-time-only value).
func (tp *TP) RunCycle(period time.Duration) CycleReport {
	if period > 0 {
		tp.cycleTime = period.Seconds()
	}

	var report CycleReport

	if tp.queue.len() == 0 {
		tp.motionType = CanonTraverse
		tp.execID = InvalidID
		tp.goalPos = tp.currentPos
		tp.done = true
		tp.pausing = false
		report.Done = true
		return report
	}

	tc := tp.queue.item(0)

	if tc.Done() && !tp.blockedOnAtSpeed(tc) {
		tp.completeHead(tc)
		if tp.queue.len() == 0 {
			tp.done = true
			report.Done = true
			return report
		}
		tc = tp.queue.item(0)
	}

	var nextTc *Segment
	if tp.queue.len() > 1 {
		nextTc = tp.queue.item(1)
		if tc.termCond == TermStop || !tp.nextEligible(tc, nextTc) {
			nextTc = nil
		}
	}

	if tp.aborting {
		if tc.currentVel == 0 && tp.spindle.waitingForIndex == InvalidID && tp.spindle.waitingForAtSpeed == InvalidID {
			tp.Clear()
			tp.aborting = false
			report.Done = true
			return report
		}
	}

	tp.resolveWaitMismatch(tc, &report)
	if tp.spindle.waitingForAtSpeed == tc.id && !tp.status.AtSpeed {
		return report
	}

	if !tc.active {
		if tp.activateSegment(tc) {
			return report
		}
	}

	tp.runRigidTapState(tc)

	tp.syncSpindle(tc, nextTc)

	if tc.termCond == TermParabolic && nextTc != nil {
		tc.blendVel = tp.computeBlendVelocity(tc, nextTc)
	}

	tp.applyFeedOverride(tc)

	oldProgress := tc.progress
	newVel, onFinalDecel, overshoot := tp.runTrapezoidal(tc)
	tc.currentVel = newVel

	if tc.termCond == TermTangent && overshoot > 0 && nextTc != nil {
		if overshoot > nextTc.target+1e-9 {
			report.Warnings = append(report.Warnings, Warning{
				Kind:    WarnOvershootBeyondTarget,
				Message: "overshoot exceeded successor target; clamped",
			})
			overshoot = nextTc.target
		}
		nextTc.progress = overshoot
		nextTc.currentVel = tc.currentVel
		tc.progress = tc.target
	}

	delta := tc.positionDelta(oldProgress, tc.progress)
	tp.currentPos.AddInPlace(delta)

	if tc.termCond == TermParabolic && nextTc != nil && onFinalDecel && newVel < tc.blendVel {
		if !tc.blending {
			tc.velAtBlendStart = newVel
			tc.blending = true
		}
		tp.runBlendOverlap(tc, nextTc)
	} else if tc.termCond == TermTangent && tc.progress >= tc.target && nextTc != nil && oldProgress < tc.target {
		// overshoot already seeded nextTc.progress this same cycle;
		// nothing further to integrate for it this tick, but the
		// displacement it covers is applied here.
		tp.currentPos.AddInPlace(nextTc.positionDelta(0, nextTc.progress))
	}

	tc.syncDIO.dispatch(tp.host)
	if nextTc != nil && nextTc.active {
		nextTc.syncDIO.dispatch(tp.host)
	}

	tp.updateStatus(tc)

	report.Done = tp.done
	return report
}

// blockedOnAtSpeed reports whether tc cannot be popped yet because it is
// still waiting on an at-speed handshake.
func (tp *TP) blockedOnAtSpeed(tc *Segment) bool {
	return tp.spindle.waitingForAtSpeed == tc.id && !tp.status.AtSpeed
}

// completeHead pops the exhausted head segment (§4.5 step 2).
func (tp *TP) completeHead(tc *Segment) {
	tp.queue.popFront()
	tp.activeDepth = 0
}

// nextEligible reports whether nextTc may run concurrently as a blend
// partner this cycle (§4.5 step 3): its sync/at-speed requirements must not
// force an exact stop on tc first.
func (tp *TP) nextEligible(tc, nextTc *Segment) bool {
	if nextTc.atSpeed && !tp.status.AtSpeed {
		tc.termCond = TermStop
		return false
	}
	if nextTc.synchronized == SyncPosition && tc.synchronized != SyncPosition {
		tc.termCond = TermStop
		return false
	}
	return true
}

// resolveWaitMismatch clears a spindle wait recorded against a segment
// that is no longer head (§4.5 step 5, §7).
func (tp *TP) resolveWaitMismatch(tc *Segment, report *CycleReport) {
	if tp.spindle.waitingForIndex != InvalidID && tp.spindle.waitingForIndex != tc.id {
		tp.spindle.waitingForIndex = InvalidID
		report.Warnings = append(report.Warnings, Warning{Kind: WarnWaitingIDMismatch, Message: "index wait id mismatch; cleared"})
	}
	if tp.spindle.waitingForAtSpeed != InvalidID && tp.spindle.waitingForAtSpeed != tc.id {
		tp.spindle.waitingForAtSpeed = InvalidID
		report.Warnings = append(report.Warnings, Warning{Kind: WarnWaitingIDMismatch, Message: "at-speed wait id mismatch; cleared"})
	}
}

// activateSegment performs first-touch activation (§4.5.1). It returns
// true if activation is blocked this cycle (waiting on at-speed, rotary
// unlock, or spindle index) and the executor must return without
// integrating.
func (tp *TP) activateSegment(tc *Segment) bool {
	requiresAtSpeed := tc.atSpeed || (tc.synchronized == SyncPosition)
	if requiresAtSpeed && !tp.status.AtSpeed {
		tp.spindle.waitingForAtSpeed = tc.id
		return true
	}

	if tc.indexRotary >= 0 {
		if tp.host == nil || !tp.host.IsRotaryUnlocked(tc.indexRotary) {
			if tp.host != nil {
				tp.host.SetRotaryUnlock(tc.indexRotary, true)
			}
			return true
		}
	}

	if tc.synchronized == SyncPosition {
		if !tp.status.Indexed {
			tp.spindle.waitingForIndex = tc.id
			tp.spindle.offset = 0
			return true
		}
		// Index pulse has been seen: the handshake is done, so release
		// the wait and prime the initial catch-up ramp (§4.7).
		tp.spindle.waitingForIndex = InvalidID
		tp.spindle.revs = 0
		tc.syncAccel = 1
	}

	tc.active = true
	tc.currentVel = 0
	tc.blending = false
	tp.activeDepth = 1
	tp.execID = tc.id
	tp.motionType = tc.canonMotionType

	if tc.termCond == TermParabolic {
		tc.accelScale *= 0.5
	}
	return false
}

// computeBlendVelocity implements §4.5.2.
func (tp *TP) computeBlendVelocity(tc, nextTc *Segment) float64 {
	accThis := tc.maxAccel * tc.accelScale
	accNext := nextTc.maxAccel * nextTc.accelScale

	vPeakThis := math.Sqrt(math.Max(tc.target*accThis, 0))
	vPeakNext := math.Sqrt(math.Max(nextTc.target*accNext, 0))
	blendVel := math.Min(vPeakThis, vPeakNext)

	nextReq := nextTc.reqVel * tp.feedOverrideFactor(nextTc)
	if blendVel > nextReq {
		blendVel = nextReq
	}
	if accThis < accNext && accNext > 0 {
		blendVel *= accThis / accNext
	}

	if tc.tolerance > 0 {
		endT, okEnd := tc.endTangent()
		startT, okStart := nextTc.startTangent()
		if okEnd && okStart {
			cosTheta := endT.Dot(startT)
			if cosTheta > 0.001 {
				bound := 2 * math.Sqrt(accThis*tc.tolerance/cosTheta)
				if bound < blendVel {
					blendVel = bound
				}
			}
		}
	}
	return blendVel
}

// feedOverrideFactor implements §4.6.
func (tp *TP) feedOverrideFactor(tc *Segment) float64 {
	if tc.canonMotionType == CanonTraverse || tc.synchronized == SyncPosition {
		return 1
	}
	if tp.pausing || tp.aborting {
		return 0
	}
	return tp.feedOverride
}

// applyFeedOverride returns tc's requested and final velocities scaled by
// the feed override for this cycle; tc's stored values are left unchanged.
func (tp *TP) applyFeedOverride(tc *Segment) (reqVel, finalVel float64) {
	factor := tp.feedOverrideFactor(tc)
	return tc.reqVel * factor, tc.finalVel * factor
}

// isRotaryOnly reports whether every translational subspace of tc is
// zero-length, exempting it from the vLimit clamp (§4.5.4).
func isRotaryOnly(tc *Segment) bool {
	switch tc.motionType {
	case MotionLine:
		return tc.line.xyz.ZeroLength && tc.line.uvw.ZeroLength
	case MotionCircular:
		return false
	case MotionRigidTap:
		return false
	default:
		return false
	}
}

// runTrapezoidal implements the one-cycle discriminant integrator
// (§4.5.4). It returns the new committed velocity, whether the segment is
// now on its final deceleration ramp, and any overshoot past target (for
// the tangent-handoff transfer in RunCycle).
func (tp *TP) runTrapezoidal(tc *Segment) (newVel float64, onFinalDecel bool, overshoot float64) {
	finalVel := tc.finalVel
	if tp.pausing {
		finalVel = 0
	}

	accel := tc.maxAccel * tc.accelScale
	cycleTime := tp.cycleTime
	remaining := tc.target - tc.progress

	halfAccelCycle := accel * cycleTime / 2
	d := finalVel*finalVel + accel*(2*remaining-tc.currentVel*cycleTime) + halfAccelCycle*halfAccelCycle

	var idealVel float64
	if d < 0 {
		idealVel = 0
	} else {
		idealVel = -0.5*accel*cycleTime + math.Sqrt(d)
	}

	newVel = idealVel
	if newVel > reqVel {
		newVel = reqVel
	}

	tangentHandoff := tc.termCond == TermTangent
	if newVel < 0 {
		newVel = 0
		if !tangentHandoff {
			tc.progress = tc.target
		}
	}

	if !isRotaryOnly(tc) && tc.synchronized != SyncPosition && newVel > tp.vLimit {
		newVel = tp.vLimit
	}

	a := (newVel - tc.currentVel) / cycleTime
	if a > accel {
		a = accel
	}
	if a < -accel {
		a = -accel
	}
	newVel = tc.currentVel + a*cycleTime

	rawProgress := tc.progress + 0.5*(newVel+tc.currentVel)*cycleTime
	if rawProgress > tc.target {
		overshoot = rawProgress - tc.target
		tc.progress = tc.target
	} else if rawProgress < 0 {
		tc.progress = 0
	} else {
		tc.progress = rawProgress
	}

	onFinalDecel = math.Abs(idealVel-newVel) < 0.001
	return newVel, onFinalDecel, overshoot
}

// runBlendOverlap executes one cycle of nextTc concurrently with tc's
// decel tail (§4.5 step 13): nextTc's requested velocity is set so the
// two segments' combined speed sums toward velAtBlendStart.
func (tp *TP) runBlendOverlap(tc, nextTc *Segment) {
	if !nextTc.active {
		if tp.activateSegment(nextTc) {
			return
		}
	}
	tp.activeDepth = 2

	combined := (tc.velAtBlendStart - tc.currentVel) / math.Max(tp.feedOverride, posemath.Epsilon)
	if combined < 0 {
		combined = 0
	}
	nextTc.reqVel = combined
	finalVel := nextTc.finalVel
	tp.applyFeedOverride(nextTc)

	old := nextTc.progress
	newVel, _, _ := tp.runTrapezoidal(nextTc)
	nextTc.currentVel = newVel
	nextTc.reqVel, nextTc.finalVel = combined, finalVel

	delta := nextTc.positionDelta(old, nextTc.progress)
	tp.currentPos.AddInPlace(delta)
}
