package tp

import "github.com/gorilerman/linuxcnc/posemath"

// observeSpindleSample feeds the current signed spindle position into the
// reversal debounce counter for tc, requiring ReversalDebounce consecutive
// samples monotonic in the requested direction before reporting true.
// This replaces a single-sample crossing check, which is fragile against
// sensor jitter right at the reversal point.
func (tp *TP) observeSpindleSample(tc *Segment, wantDecreasing bool) bool {
	pos := tp.signedSpindlePos()
	defer func() {
		tc.rigidTap.lastSpindlePos = pos
		tc.rigidTap.haveLastSpindlePos = true
	}()

	if !tc.rigidTap.haveLastSpindlePos {
		return false
	}

	delta := pos - tc.rigidTap.lastSpindlePos
	monotonic := delta < 0
	if !wantDecreasing {
		monotonic = delta > 0
	}

	if monotonic {
		tc.rigidTap.reversalRun++
	} else {
		tc.rigidTap.reversalRun = 0
	}
	return tc.rigidTap.reversalRun >= tp.cfg.ReversalDebounce
}

// buildTapAux constructs the auxiliary xyz line used by every rigid-tap
// state after TAPPING: from the current commanded point back to the
// original plunge start.
func (tp *TP) buildTapAux(tc *Segment) posemath.Line {
	current := tc.poseAtProgress(tc.progress).XYZ()
	return posemath.NewLine(current, tc.rigidTap.primary.Start)
}

func (tc *Segment) resetReversalDetector() {
	tc.rigidTap.reversalRun = 0
	tc.rigidTap.haveLastSpindlePos = false
}

// runRigidTapState advances the rigid-tap cycle's state machine (§4.5.3).
// A no-op for non-rigid-tap segments.
func (tp *TP) runRigidTapState(tc *Segment) {
	if tc.motionType != MotionRigidTap {
		return
	}

	switch tc.rigidTap.state {
	case TapTapping:
		if tc.progress >= tc.rigidTap.reversalTarget {
			tc.rigidTap.state = TapReversing
			tc.resetReversalDetector()
		}

	case TapReversing:
		if tp.observeSpindleSample(tc, true) {
			aux := tp.buildTapAux(tc)
			tc.rigidTap.aux = aux
			tc.rigidTap.reversalTarget = aux.Length
			tc.target = aux.Length + 10*tc.uuPerRev
			tc.progress = 0
			tc.rigidTap.spindleRevsAtReversal = tp.spindle.revs
			tc.rigidTap.state = TapRetraction
			tc.resetReversalDetector()
		}

	case TapRetraction:
		if tc.progress >= tc.rigidTap.reversalTarget {
			tc.rigidTap.state = TapFinalReversal
			tc.resetReversalDetector()
		}

	case TapFinalReversal:
		if tp.observeSpindleSample(tc, false) {
			aux := tp.buildTapAux(tc)
			tc.rigidTap.aux = aux
			tc.target = aux.Length
			tc.progress = 0
			tc.synchronized = SyncNone
			tc.reqVel = tc.maxVel
			tc.rigidTap.state = TapFinalPlacement
		}

	case TapFinalPlacement:
		// ordinary deceleration to stop; completes via the normal
		// head-exhausted path once progress reaches target.
	}
}
