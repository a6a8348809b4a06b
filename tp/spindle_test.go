package tp

import (
	"testing"
)

func TestSyncVelocityMode(t *testing.T) {
	planner := newConfiguredTP(t)
	planner.status.Speed = 2.0

	seg := &Segment{uuPerRev: 0.1}
	planner.syncVelocityMode(seg, nil)

	if want := 0.2; seg.reqVel != want {
		t.Fatalf("reqVel = %v, want %v", seg.reqVel, want)
	}
}

func TestSyncVelocityModeClampsNegative(t *testing.T) {
	planner := newConfiguredTP(t)
	planner.status.Speed = 1.0

	seg := &Segment{uuPerRev: 0.1}
	nextTc := &Segment{progress: 10}
	planner.syncVelocityMode(seg, nextTc)

	if seg.reqVel != 0 {
		t.Fatalf("reqVel = %v, want 0 (clamped)", seg.reqVel)
	}
}

func TestSyncPositionModeCatchUpRamp(t *testing.T) {
	planner := newConfiguredTP(t)
	planner.status.Speed = 10
	planner.status.Revs = 1.0
	planner.status.Direction = 1

	seg := &Segment{uuPerRev: 1, maxVel: 50, maxAccel: 10, accelScale: 1, syncAccel: 1}
	planner.syncPositionMode(seg, nil)

	if seg.syncAccel == 0 {
		// catch-up completes only once currentVel reaches the target
		// velocity; at currentVel == 0 it must still be ramping (tv > 0
		// for nonzero revs).
		t.Fatalf("syncAccel reached 0 in a single cycle from rest; unexpected for this fixture")
	}
	if seg.reqVel != seg.maxVel {
		t.Fatalf("reqVel = %v, want maxVel %v while still ramping", seg.reqVel, seg.maxVel)
	}
}

func TestSyncSpindleClosedSwitchNoneIsNoop(t *testing.T) {
	planner := newConfiguredTP(t)
	seg := &Segment{synchronized: SyncNone, reqVel: 7}
	planner.syncSpindle(seg, nil)
	if seg.reqVel != 7 {
		t.Fatalf("reqVel = %v, want unchanged 7 for SyncNone", seg.reqVel)
	}
}
