package tp

import "math"

// signedSpindlePos returns the host's spindle revolution count, signed by
// the commanded direction.
func (tp *TP) signedSpindlePos() float64 {
	if tp.status.Direction < 0 {
		return -tp.status.Revs
	}
	return tp.status.Revs
}

// progressOf returns nextTc.progress, or 0 if there is no next segment —
// blend progress already earned on the successor counts as displacement
// already covered by the sync target.
func progressOf(nextTc *Segment) float64 {
	if nextTc == nil {
		return 0
	}
	return nextTc.progress
}

// syncVelocityMode rewrites tc.reqVel to track the spindle's instantaneous
// speed (§4.7, velocity mode).
func (tp *TP) syncVelocityMode(tc, nextTc *Segment) {
	tc.reqVel = math.Abs(tp.status.Speed)*tc.uuPerRev - progressOf(nextTc)
	if tc.reqVel < 0 {
		tc.reqVel = 0
	}
}

// syncPositionMode rewrites tc.reqVel to track the spindle's absolute
// angular position (§4.7, position mode), including the initial
// catch-up ramp gated by syncAccel and the rigid-tap reversal bookkeeping.
func (tp *TP) syncPositionMode(tc, nextTc *Segment) {
	spindlePos := tp.signedSpindlePos()

	var revs float64
	if tc.motionType == MotionRigidTap &&
		(tc.rigidTap.state == TapRetraction || tc.rigidTap.state == TapFinalReversal) {
		revs = tc.rigidTap.spindleRevsAtReversal - spindlePos
	} else {
		revs = spindlePos
	}

	oldRevs := tp.spindle.revs
	tp.spindle.revs = revs

	posError := (revs-tp.spindle.offset)*tc.uuPerRev - tc.progress - progressOf(nextTc)

	accScaled := tc.maxAccel * tc.accelScale

	switch {
	case tc.syncAccel > 0:
		sv := revs / (tp.cycleTime * float64(tc.syncAccel))
		tv := sv * tc.uuPerRev
		if tc.currentVel >= tv {
			tp.spindle.offset = revs - tc.progress/tc.uuPerRev
			tc.syncAccel = 0
			tc.reqVel = tv
		} else {
			tc.reqVel = tc.maxVel
			tc.syncAccel++
		}
	default:
		sv := (revs - oldRevs) / tp.cycleTime
		tv := sv * tc.uuPerRev
		errVel := math.Copysign(math.Sqrt(math.Abs(posError)*accScaled), posError)
		tc.reqVel = tv + errVel
		if tc.reqVel < 0 {
			tc.reqVel = 0
		}
	}
}

// syncSpindle dispatches to the segment's configured sync mode (§9 Open
// Question 2: a closed switch, no fallthrough — SyncNone is a deliberate
// no-op case, not the default).
func (tp *TP) syncSpindle(tc, nextTc *Segment) {
	switch tc.synchronized {
	case SyncNone:
		return
	case SyncVelocity:
		tp.syncVelocityMode(tc, nextTc)
	case SyncPosition:
		tp.syncPositionMode(tc, nextTc)
	}
}
