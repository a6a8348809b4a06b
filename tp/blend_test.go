package tp

import (
	"testing"

	"github.com/gorilerman/linuxcnc/posemath"
)

func TestIsPureXYZLine(t *testing.T) {
	planner := newConfiguredTP(t)
	end := posemath.FromXYZ(posemath.Vector3{X: 1})
	if err := planner.AddLine(end, CanonFeed, 1, 1, 10, 0, false, -1); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	seg := planner.queue.last()
	if !isPureXYZLine(seg) {
		t.Fatal("isPureXYZLine() = false for an xyz-only line")
	}
}

// Colinear successive lines should collapse to a tangent handoff, not an
// inserted arc.
func TestPlanBlendColinearBecomesTangent(t *testing.T) {
	planner := newConfiguredTP(t)
	if err := planner.SetTermCond(TermParabolic, 0.01); err != nil {
		t.Fatalf("SetTermCond() error = %v", err)
	}

	mid := posemath.FromXYZ(posemath.Vector3{X: 1})
	end := posemath.FromXYZ(posemath.Vector3{X: 2})

	if err := planner.AddLine(mid, CanonFeed, 1, 1, 10, 0, false, -1); err != nil {
		t.Fatalf("first AddLine() error = %v", err)
	}
	if err := planner.AddLine(end, CanonFeed, 1, 1, 10, 0, false, -1); err != nil {
		t.Fatalf("second AddLine() error = %v", err)
	}

	if planner.QueueDepth() != 2 {
		t.Fatalf("QueueDepth() = %v, want 2 (no arc inserted for colinear lines)", planner.QueueDepth())
	}
	prev := planner.queue.item(0)
	if prev.termCond != TermTangent {
		t.Fatalf("prev.termCond = %v, want TermTangent", prev.termCond)
	}
}

// A right-angle corner should insert a blend arc between the two lines when
// the arc beats a parabolic blend: the segments' own accel (0.1) caps the
// parabolic blend at sqrt(10*0.1) = 1, while the arc, limited by the
// planner's aMax (10) and the 0.1 tolerance, can run at about 1.29.
func TestPlanBlendRightAngleInsertsArc(t *testing.T) {
	planner := newConfiguredTP(t)
	if err := planner.SetTermCond(TermParabolic, 0.1); err != nil {
		t.Fatalf("SetTermCond() error = %v", err)
	}

	corner := posemath.FromXYZ(posemath.Vector3{X: 10})
	end := posemath.FromXYZ(posemath.Vector3{X: 10, Y: 10})

	if err := planner.AddLine(corner, CanonFeed, 5, 5, 0.1, 0, false, -1); err != nil {
		t.Fatalf("first AddLine() error = %v", err)
	}
	if err := planner.AddLine(end, CanonFeed, 5, 5, 0.1, 0, false, -1); err != nil {
		t.Fatalf("second AddLine() error = %v", err)
	}

	if planner.QueueDepth() != 3 {
		t.Fatalf("QueueDepth() = %v, want 3 (prev, arc, tc)", planner.QueueDepth())
	}
	arc := planner.queue.item(1)
	if arc.motionType != MotionCircular {
		t.Fatalf("middle segment motionType = %v, want MotionCircular", arc.motionType)
	}
	if arc.termCond != TermTangent {
		t.Fatalf("arc.termCond = %v, want TermTangent", arc.termCond)
	}
}

// A near-180-degree reversal must not blend: leave termCond untouched.
func TestPlanBlendReversalSkipsArc(t *testing.T) {
	planner := newConfiguredTP(t)
	if err := planner.SetTermCond(TermParabolic, 0.1); err != nil {
		t.Fatalf("SetTermCond() error = %v", err)
	}

	corner := posemath.FromXYZ(posemath.Vector3{X: 10})
	end := posemath.FromXYZ(posemath.Vector3{X: 0})

	if err := planner.AddLine(corner, CanonFeed, 5, 5, 100, 0, false, -1); err != nil {
		t.Fatalf("first AddLine() error = %v", err)
	}
	if err := planner.AddLine(end, CanonFeed, 5, 5, 100, 0, false, -1); err != nil {
		t.Fatalf("second AddLine() error = %v", err)
	}

	if planner.QueueDepth() != 2 {
		t.Fatalf("QueueDepth() = %v, want 2 (reversal must not insert an arc)", planner.QueueDepth())
	}
}
