package tp

import (
	"fmt"

	"github.com/gorilerman/linuxcnc/posemath"
)

// MotionType classifies a Segment's geometry.
type MotionType int

const (
	MotionLine MotionType = iota
	MotionCircular
	MotionRigidTap
)

// CanonMotion is the canonical motion classification reported upward via
// Status/GetMotionType — orthogonal to MotionType, since a straight line
// can be a rapid traverse or a feed move, and feed override treats those
// two differently (§4.6).
type CanonMotion int

const (
	CanonTraverse CanonMotion = iota
	CanonFeed
	CanonArc
	CanonRigidTap
	canonMotionCount
)

var canonMotionNames = [canonMotionCount]string{
	"Traverse", "Feed", "Arc", "RigidTap",
}

// String returns the name of the canonical motion classification.
func (m CanonMotion) String() string {
	if m >= 0 && m < canonMotionCount {
		return canonMotionNames[m]
	}
	return fmt.Sprintf("CanonMotion(%d)", m)
}

// TermCond is how motion transitions out of a segment.
type TermCond int

const (
	TermStop TermCond = iota
	TermParabolic
	TermTangent
)

// SyncMode is the tri-state spindle-synchronization mode of a segment. It
// is the single source of truth for synchronization state; TP's
// velocityMode configuration flag is translated into a SyncMode by
// syncModeForBuild when each Add* call builds a segment, and not consulted
// anywhere else.
type SyncMode int

const (
	SyncNone SyncMode = iota
	SyncVelocity
	SyncPosition
)

// RigidTapState is the rigid-tap cycle's state machine position.
type RigidTapState int

const (
	TapTapping RigidTapState = iota
	TapReversing
	TapRetraction
	TapFinalReversal
	TapFinalPlacement
)

// InvalidID is the sentinel used for waitingForIndex/waitingForAtSpeed and
// execId when no segment/wait applies. Segment ids are assigned starting
// at 1, so 0 never collides with a legal id.
const InvalidID = 0

// lineCoords holds the three parameterized per-subspace lines that make up
// a straight move.
type lineCoords struct {
	xyz, abc, uvw posemath.Line
}

// circularCoords holds the circular/helical xyz primitive plus the
// subordinate abc/uvw lines traversed linearly over the same arc length.
type circularCoords struct {
	xyz      posemath.Circle
	abc, uvw posemath.Line
}

// rigidTapCoords holds the primary plunge line, the held abc/uvw offsets,
// the auxiliary line built fresh at each reversal, and tap-cycle state.
type rigidTapCoords struct {
	primary posemath.Line
	abc     posemath.Vector3
	uvw     posemath.Vector3
	aux     posemath.Line

	state                RigidTapState
	reversalTarget       float64
	spindleRevsAtReversal float64

	// reversalRun counts consecutive samples observed monotonic in the
	// direction that would trigger the next transition; a transition
	// fires once reversalRun reaches the configured debounce count.
	reversalRun int
	lastSpindlePos float64
	haveLastSpindlePos bool
}

// Segment ("TC" in the glossary) is one motion primitive in the queue.
type Segment struct {
	id              int
	canonMotionType CanonMotion
	motionType      MotionType

	maxVel     float64
	maxAccel   float64
	accelScale float64

	reqVel          float64
	finalVel        float64
	currentVel      float64
	target          float64
	progress        float64
	cycleTime       float64
	velAtBlendStart float64
	blendVel        float64

	active    bool
	blending  bool
	atPeak    bool
	atSpeed   bool
	syncAccel int

	termCond  TermCond
	tolerance float64

	synchronized SyncMode
	uuPerRev     float64

	syncDIO      SyncDIO
	indexRotary  int // -1 if none
	enables      EnableFlags

	line      lineCoords
	circular  circularCoords
	rigidTap  rigidTapCoords
}

// Done reports whether the segment has traversed its full target length.
func (s *Segment) Done() bool {
	return s.progress >= s.target
}

// startTangent returns the unit tangent direction at the segment's start,
// for the xyz subspace. Used by the blend planner and the tangent-handoff
// invariant checks.
func (s *Segment) startTangent() (posemath.Vector3, bool) {
	switch s.motionType {
	case MotionLine:
		if s.line.xyz.ZeroLength {
			return posemath.Vector3{}, false
		}
		return s.line.xyz.UnitVec, true
	case MotionCircular:
		tangent := s.circular.xyz.Vec2
		return tangent, true
	default:
		return posemath.Vector3{}, false
	}
}

// currentXYZLine returns the line currently governing xyz motion for a
// rigid-tap segment: the primary plunge line while TAPPING, the
// freshly-built auxiliary line in every later state.
func (s *Segment) currentXYZLine() posemath.Line {
	if s.rigidTap.state == TapTapping {
		return s.rigidTap.primary
	}
	return s.rigidTap.aux
}

// poseAtProgress returns the absolute pose the segment's parameterization
// reaches at the given progress value. progress is expressed as length
// along target; each subspace is reached at the same fraction of its own
// length (so all axes arrive together), which is what "shared length
// parameter" means for a multi-axis move (§3.2). Rigid-tap segments are the
// exception: progress maps directly to length along the current xyz line,
// held at the line's end for the remaining spin-stop margin.
func (s *Segment) poseAtProgress(progress float64) posemath.Pose {
	fraction := 0.0
	if s.target > posemath.Epsilon {
		fraction = progress / s.target
	}

	switch s.motionType {
	case MotionLine:
		xyz := s.line.xyz.PointAt(fraction * s.line.xyz.Length)
		abc := s.line.abc.PointAt(fraction * s.line.abc.Length)
		uvw := s.line.uvw.PointAt(fraction * s.line.uvw.Length)
		return posemath.Compose(xyz, abc, uvw)
	case MotionCircular:
		planarS := fraction * s.circular.xyz.Length()
		xyz := s.circular.xyz.PointAt(planarS)
		abc := s.circular.abc.PointAt(fraction * s.circular.abc.Length)
		uvw := s.circular.uvw.PointAt(fraction * s.circular.uvw.Length)
		return posemath.Compose(xyz, abc, uvw)
	case MotionRigidTap:
		line := s.currentXYZLine()
		spatial := progress
		if spatial > line.Length {
			spatial = line.Length
		}
		xyz := line.PointAt(spatial)
		return posemath.Compose(xyz, s.rigidTap.abc, s.rigidTap.uvw)
	default:
		return posemath.Pose{}
	}
}

// positionDelta returns the pose displacement the segment's
// parameterization produces moving from oldProgress to newProgress.
func (s *Segment) positionDelta(oldProgress, newProgress float64) posemath.Pose {
	return s.poseAtProgress(newProgress).Sub(s.poseAtProgress(oldProgress))
}

// endTangent returns the unit tangent direction at the segment's end.
func (s *Segment) endTangent() (posemath.Vector3, bool) {
	switch s.motionType {
	case MotionLine:
		if s.line.xyz.ZeroLength {
			return posemath.Vector3{}, false
		}
		return s.line.xyz.UnitVec, true
	case MotionCircular:
		return circleTangentAt(s.circular.xyz, s.circular.xyz.Angle), true
	default:
		return posemath.Vector3{}, false
	}
}
