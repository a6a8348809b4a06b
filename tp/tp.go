// Package tp implements the real-time trajectory planner core: a bounded
// motion segment queue, a per-cycle trapezoidal velocity integrator with
// look-ahead final-velocity optimization, parabolic/tangent blending
// between consecutive line segments (including inserted blend arcs), and
// velocity/position spindle synchronization with rigid-tap support.
//
// The planner is a single-threaded value: exactly one producer (command
// side, via the Add*/Set* methods) and one consumer (the periodic
// RunCycle tick) are expected, serialized by the host. No method
// allocates on the per-cycle hot path.
package tp

import "github.com/gorilerman/linuxcnc/posemath"

// HostCallbacks is the boundary the planner drives for hardware effects it
// does not own: DIO/AIO writes and the rotary-axis unlock handshake.
type HostCallbacks interface {
	DioWrite(index int, value bool)
	AioWrite(index int, value float64)
	SetRotaryUnlock(axis int, unlock bool)
	IsRotaryUnlocked(axis int) bool
}

// SpindleStatus is the host-supplied snapshot of the physical spindle,
// sampled once per cycle before RunCycle.
type SpindleStatus struct {
	Speed     float64 // signed, revs/sec
	Revs      float64 // signed, absolute revolutions since index
	Direction int     // +1, -1, or 0
	AtSpeed   bool

	// Indexed reports whether the spindle's once-per-revolution index
	// pulse has been observed since the host last cleared it. A
	// position-synchronized segment's activation waits on it.
	Indexed bool
}

// spindleState is the planner-side synchronization bookkeeping (§3.1).
type spindleState struct {
	offset            float64
	revs              float64
	waitingForIndex   int
	waitingForAtSpeed int
}

// TP is the trajectory planner. Zero value is not usable; construct with
// New.
type TP struct {
	cfg Config

	cycleTime  float64
	vMax       float64
	iniMaxVel  float64
	vLimit     float64
	aMax       float64

	currentPos posemath.Pose
	goalPos    posemath.Pose

	nextID     int
	execID     int
	motionType CanonMotion

	termCond  TermCond
	tolerance float64

	pausing  bool
	aborting bool
	done     bool

	activeDepth int

	synchronized bool
	velocityMode bool
	uuPerRev     float64

	spindle spindleState
	status  SpindleStatus

	feedOverride float64

	syncDIOStaging SyncDIO

	host HostCallbacks

	lastStatus Status

	queue segmentQueue
}

// New constructs a TP with the given options. The queue's backing storage
// is allocated once, here; no later operation grows it.
func New(opts ...Option) *TP {
	cfg := applyOptions(opts...)
	return &TP{
		cfg:          cfg,
		nextID:       1,
		vLimit:       1,
		feedOverride: 1,
		spindle: spindleState{
			waitingForIndex:   InvalidID,
			waitingForAtSpeed: InvalidID,
		},
		queue: newSegmentQueue(cfg.Capacity),
	}
}

// SetHost installs the host callback implementation used for DIO/AIO
// dispatch and rotary-unlock handshakes.
func (tp *TP) SetHost(host HostCallbacks) {
	tp.host = host
}

// SetSpindleStatus records the host's latest spindle reading; RunCycle
// reads it once per tick via this field, never re-sampling mid-cycle.
func (tp *TP) SetSpindleStatus(s SpindleStatus) {
	tp.status = s
}

// SetFeedOverride sets the externally supplied net feed scale used by
// non-traverse, non-synchronized segments (§4.6).
func (tp *TP) SetFeedOverride(scale float64) {
	if scale < 0 {
		scale = 0
	}
	tp.feedOverride = scale
}

// Clear resets the planner to its just-configured state: empties the
// queue, clears flags, and sets goalPos = currentPos. Configuration
// (cycleTime, vMax, ...) is preserved.
func (tp *TP) Clear() {
	tp.queue.clear()
	tp.pausing = false
	tp.aborting = false
	tp.done = true
	tp.activeDepth = 0
	tp.execID = InvalidID
	tp.spindle.waitingForIndex = InvalidID
	tp.spindle.waitingForAtSpeed = InvalidID
	tp.goalPos = tp.currentPos
}

// SetCycleTime sets the fixed control-period duration, in seconds.
func (tp *TP) SetCycleTime(seconds float64) error {
	if seconds <= 0 {
		return ErrInvalidCycleTime
	}
	tp.cycleTime = seconds
	return nil
}

// SetVmax sets the tool-tip global velocity limit and the (possibly
// tighter) initial maximum velocity.
func (tp *TP) SetVmax(vMax, iniMaxVel float64) error {
	if vMax <= 0 {
		return ErrInvalidVmax
	}
	if iniMaxVel <= 0 {
		iniMaxVel = vMax
	}
	tp.vMax = vMax
	tp.iniMaxVel = iniMaxVel
	return nil
}

// SetVlimit sets the absolute velocity ceiling applied to translational
// motion regardless of per-segment requests (§4.5.4).
func (tp *TP) SetVlimit(v float64) error {
	if v <= 0 {
		return ErrInvalidVlimit
	}
	tp.vLimit = v
	return nil
}

// SetAmax sets the tool-tip global acceleration limit.
func (tp *TP) SetAmax(a float64) error {
	if a <= 0 {
		return ErrInvalidAmax
	}
	tp.aMax = a
	return nil
}

// SetId seeds the id counter a subsequent Add* call will assign, letting a
// caller align segment ids with an external numbering scheme.
func (tp *TP) SetId(id int) {
	tp.nextID = id
}

// SetTermCond sets the default termination condition and blend tolerance
// applied to subsequently enqueued segments.
func (tp *TP) SetTermCond(cond TermCond, tolerance float64) error {
	if cond != TermStop && cond != TermParabolic && cond != TermTangent {
		return ErrInvalidTermCond
	}
	if tolerance < 0 {
		return ErrInvalidTolerance
	}
	tp.termCond = cond
	tp.tolerance = tolerance
	return nil
}

// SetPos sets currentPos and goalPos together, as required only before any
// segment has been enqueued (or after Clear).
func (tp *TP) SetPos(p posemath.Pose) {
	tp.currentPos = p
	tp.goalPos = p
}

// SetSpindleSync enables (uuPerRev != 0) or disables (uuPerRev == 0)
// spindle synchronization for subsequently built segments, and records
// whether new rigid taps/synchronized moves default to velocity-mode or
// position-mode tracking.
func (tp *TP) SetSpindleSync(uuPerRev float64, velocityMode bool) error {
	if uuPerRev == 0 {
		tp.synchronized = false
		tp.uuPerRev = 0
		tp.velocityMode = false
		return nil
	}
	tp.synchronized = true
	tp.uuPerRev = uuPerRev
	tp.velocityMode = velocityMode
	return nil
}

// Pause requests a controlled deceleration to zero velocity; motion does
// not resume until Resume is called.
func (tp *TP) Pause() {
	tp.pausing = true
}

// Resume clears a pending pause.
func (tp *TP) Resume() {
	tp.pausing = false
}

// Abort requests a controlled deceleration to zero followed by a soft
// reset of the planner (§4.5 step 4, §7).
func (tp *TP) Abort() {
	tp.aborting = true
}

// SetAout stages an analog output to fire at the next enqueued segment's
// activation.
func (tp *TP) SetAout(index int, start, end float64) error {
	return tp.syncDIOStaging.setAout(index, start, end)
}

// SetDout stages a digital output to fire at the next enqueued segment's
// activation.
func (tp *TP) SetDout(index int, start, end float64) error {
	return tp.syncDIOStaging.setDout(index, start, end)
}

func (tp *TP) syncModeForBuild() SyncMode {
	if !tp.synchronized {
		return SyncNone
	}
	if tp.velocityMode {
		return SyncVelocity
	}
	return SyncPosition
}
