package tp

import (
	"math"

	"github.com/gorilerman/linuxcnc/posemath"
)

// EnableFlags carries the synchronized-I/O-adjacent activation flags the
// original passes alongside each Add* call: which auxiliary axes to
// enable. The core only threads it through to the segment for the host to
// interpret via status (EnablesQueued); it does not interpret the bits
// itself.
type EnableFlags uint32

func (tp *TP) nextTarget(end posemath.Pose) (lineCoords, float64) {
	start := tp.goalPos
	xyz := posemath.NewLine(start.XYZ(), end.XYZ())
	abc := posemath.NewLine(start.ABC(), end.ABC())
	uvw := posemath.NewLine(start.UVW(), end.UVW())

	target := xyz.Length
	if target < posemath.Epsilon {
		target = uvw.Length
	}
	if target < posemath.Epsilon {
		target = abc.Length
	}
	return lineCoords{xyz: xyz, abc: abc, uvw: uvw}, target
}

func (tp *TP) baseSegment(vel, iniMaxVel, acc float64, enables EnableFlags, atSpeed bool, indexRotary int) Segment {
	reqVel := vel
	if iniMaxVel < reqVel {
		reqVel = iniMaxVel
	}
	return Segment{
		id:           0,
		reqVel:       reqVel,
		maxVel:       iniMaxVel,
		maxAccel:     acc,
		accelScale:   1,
		progress:     0,
		currentVel:   0,
		finalVel:     0,
		termCond:     tp.termCond,
		tolerance:    tp.tolerance,
		atSpeed:      atSpeed,
		indexRotary:  indexRotary,
		enables:      enables,
		synchronized: tp.syncModeForBuild(),
		uuPerRev:     tp.uuPerRev,
		syncDIO:      tp.syncDIOStaging.drain(),
	}
}

// clipVmaxNyquist enforces maxVel <= 0.5*target/cycleTime (§4.2 step 8):
// keeps at least two control cycles inside the segment so the integrator
// never has to resolve a whole segment's motion in a single tick.
func (tp *TP) clipVmaxNyquist(seg *Segment) {
	if tp.cycleTime <= 0 || seg.target <= 0 {
		return
	}
	limit := 0.5 * seg.target / tp.cycleTime
	if seg.maxVel > limit {
		seg.maxVel = limit
	}
	if seg.reqVel > seg.maxVel {
		seg.reqVel = seg.maxVel
	}
}

func (tp *TP) enqueue(seg Segment, end posemath.Pose) error {
	seg.id = tp.nextID
	tp.nextID++
	if err := tp.queue.push(seg); err != nil {
		// undo the id reservation and DIO drain side effects so a
		// failed push is a true no-op for the caller to retry.
		tp.nextID--
		tp.syncDIOStaging = seg.syncDIO
		return err
	}
	tp.goalPos = end
	tp.done = false
	return nil
}

// AddLine appends a straight move from the current goal position to end.
func (tp *TP) AddLine(end posemath.Pose, motion CanonMotion, vel, iniMaxVel, acc float64, enables EnableFlags, atSpeed bool, indexRotary int) error {
	if tp.aborting {
		return ErrAborting
	}

	line, target := tp.nextTarget(end)
	seg := tp.baseSegment(vel, iniMaxVel, acc, enables, atSpeed, indexRotary)
	seg.motionType = MotionLine
	seg.canonMotionType = motion
	seg.line = line
	seg.target = target

	tp.clipVmaxNyquist(&seg)

	if err := tp.enqueue(seg, end); err != nil {
		return err
	}

	// BlendPlanner only ever looks at the two most recently enqueued
	// lines.
	if tp.queue.len() >= 2 {
		prev := tp.queue.item(tp.queue.len() - 2)
		tc := tp.queue.last()
		if prev.motionType == MotionLine && tc.motionType == MotionLine {
			if tp.planBlend() {
				tp.runOptimizer()
			}
		}
	}
	return nil
}

// AddCircle appends a circular or helical move from the current goal
// position to end, about center with the given plane normal and turn
// count (additional full revolutions).
func (tp *TP) AddCircle(end, center, normal posemath.Vector3, turn int, motion CanonMotion, vel, iniMaxVel, acc float64, enables EnableFlags, atSpeed bool, indexRotary int) error {
	if tp.aborting {
		return ErrAborting
	}

	start := tp.goalPos
	circle, err := posemath.NewCircle(start.XYZ(), end.XYZ(), center, normal, turn)
	if err != nil {
		return wrap(err, "tp: AddCircle")
	}
	endPose := start.WithXYZ(end.XYZ())
	abc := posemath.NewLine(start.ABC(), endPose.ABC())
	uvw := posemath.NewLine(start.UVW(), endPose.UVW())

	helixLen := circle.RHelix.Mag()
	target := math.Hypot(circle.Length(), helixLen)

	seg := tp.baseSegment(vel, iniMaxVel, acc, enables, atSpeed, indexRotary)
	seg.motionType = MotionCircular
	seg.canonMotionType = motion
	seg.circular = circularCoords{xyz: circle, abc: abc, uvw: uvw}
	seg.target = target

	tp.clipVmaxNyquist(&seg)

	return tp.enqueue(seg, endPose)
}

// AddRigidTap appends a synchronized plunge/reverse/retract cycle to end.
// Rigid tap is only legal while the planner is spindle-synchronized; it
// always forces termCond = STOP and atSpeed = true regardless of the
// planner's configured defaults.
func (tp *TP) AddRigidTap(end posemath.Pose, vel, iniMaxVel, acc float64, enables EnableFlags) error {
	if tp.aborting {
		return ErrAborting
	}
	if !tp.synchronized {
		return ErrRigidTapNotSynced
	}

	start := tp.goalPos
	primary := posemath.NewLine(start.XYZ(), end.XYZ())

	seg := tp.baseSegment(vel, iniMaxVel, acc, enables, true, -1)
	seg.motionType = MotionRigidTap
	seg.canonMotionType = CanonRigidTap
	seg.termCond = TermStop
	seg.tolerance = 0
	seg.rigidTap = rigidTapCoords{
		primary:        primary,
		abc:            start.ABC(),
		uvw:            start.UVW(),
		state:          TapTapping,
		reversalTarget: primary.Length,
	}
	seg.target = primary.Length + 10*tp.uuPerRev

	tp.clipVmaxNyquist(&seg)

	return tp.enqueue(seg, end)
}
