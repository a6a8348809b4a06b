package tp

import "github.com/gorilerman/linuxcnc/posemath"

// Status is the read-only snapshot the executor publishes once per cycle
// for the servo/GUI/host layer (§6, Status outputs).
type Status struct {
	CurrentPos         posemath.Pose
	CurrentVel         float64
	RequestedVel       float64
	DistanceToGo       float64
	DTG                posemath.Pose
	MotionType         CanonMotion
	ExecID             int
	TCQLen             int
	SpindleSync        SyncMode
	SpindleIndexEnable bool
	EnablesQueued      EnableFlags
}

// updateStatus refreshes tp's published Status from the active segment
// after integration (§4.5 step 15, grounded on tpUpdateMovementStatus).
func (tp *TP) updateStatus(tc *Segment) {
	tp.lastStatus = Status{
		CurrentPos:         tp.currentPos,
		CurrentVel:         tc.currentVel,
		RequestedVel:       tc.reqVel,
		DistanceToGo:       tc.target - tc.progress,
		DTG:                tc.poseAtProgress(tc.target).Sub(tp.currentPos),
		MotionType:         tp.motionType,
		ExecID:             tp.execID,
		TCQLen:             tp.queue.len(),
		SpindleSync:        tc.synchronized,
		SpindleIndexEnable: tp.spindle.waitingForIndex != InvalidID,
		EnablesQueued:      tc.enables,
	}
}

// Status returns the snapshot published by the most recent RunCycle.
func (tp *TP) Status() Status {
	return tp.lastStatus
}

// GetPos returns the current commanded machine pose.
func (tp *TP) GetPos() posemath.Pose {
	return tp.currentPos
}

// GetExecID returns the id of the segment currently executing, or
// InvalidID if none.
func (tp *TP) GetExecID() int {
	return tp.execID
}

// GetMotionType returns the canonical classification of current motion.
func (tp *TP) GetMotionType() CanonMotion {
	return tp.motionType
}

// IsDone reports whether the queue is empty and the planner is idle.
func (tp *TP) IsDone() bool {
	return tp.done
}

// QueueDepth returns the number of segments currently queued.
func (tp *TP) QueueDepth() int {
	return tp.queue.len()
}

// ActiveDepth returns the number of simultaneously-active segments (1
// normally, 2 during parabolic blend overlap).
func (tp *TP) ActiveDepth() int {
	return tp.activeDepth
}
