package tp

import (
	"testing"

	"github.com/gorilerman/linuxcnc/posemath"
)

func TestAddLineComputesTarget(t *testing.T) {
	planner := newConfiguredTP(t)
	end := posemath.FromXYZ(posemath.Vector3{X: 3, Y: 4, Z: 0})

	if err := planner.AddLine(end, CanonFeed, 1, 1, 10, 0, false, -1); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}

	seg := planner.queue.item(0)
	if seg.target != 5 {
		t.Fatalf("target = %v, want 5", seg.target)
	}
	if planner.goalPos != end {
		t.Fatalf("goalPos = %v, want %v", planner.goalPos, end)
	}
	if seg.id != 1 {
		t.Fatalf("id = %v, want 1", seg.id)
	}
}

func TestAddLineRejectsWhileAborting(t *testing.T) {
	planner := newConfiguredTP(t)
	planner.Abort()

	end := posemath.FromXYZ(posemath.Vector3{X: 1})
	if err := planner.AddLine(end, CanonFeed, 1, 1, 10, 0, false, -1); err != ErrAborting {
		t.Fatalf("AddLine() error = %v, want ErrAborting", err)
	}
}

func TestAddLineQueueFull(t *testing.T) {
	planner := New(WithCapacity(1))
	if err := planner.SetCycleTime(0.001); err != nil {
		t.Fatalf("SetCycleTime() error = %v", err)
	}
	if err := planner.SetVmax(100, 100); err != nil {
		t.Fatalf("SetVmax() error = %v", err)
	}
	if err := planner.SetAmax(10); err != nil {
		t.Fatalf("SetAmax() error = %v", err)
	}

	end1 := posemath.FromXYZ(posemath.Vector3{X: 1})
	if err := planner.AddLine(end1, CanonFeed, 1, 1, 10, 0, false, -1); err != nil {
		t.Fatalf("first AddLine() error = %v", err)
	}

	end2 := posemath.FromXYZ(posemath.Vector3{X: 2})
	if err := planner.AddLine(end2, CanonFeed, 1, 1, 10, 0, false, -1); err != ErrQueueFull {
		t.Fatalf("second AddLine() error = %v, want ErrQueueFull", err)
	}
	// goalPos must not have advanced on the rejected append.
	if planner.goalPos != end1 {
		t.Fatalf("goalPos = %v, want %v (unchanged on failed push)", planner.goalPos, end1)
	}
}

func TestAddRigidTapRequiresSync(t *testing.T) {
	planner := newConfiguredTP(t)
	end := posemath.FromXYZ(posemath.Vector3{X: 0, Y: 0, Z: -5})
	if err := planner.AddRigidTap(end, 1, 1, 10, 0); err != ErrRigidTapNotSynced {
		t.Fatalf("AddRigidTap() error = %v, want ErrRigidTapNotSynced", err)
	}

	if err := planner.SetSpindleSync(1.0, false); err != nil {
		t.Fatalf("SetSpindleSync() error = %v", err)
	}
	if err := planner.AddRigidTap(end, 1, 1, 10, 0); err != nil {
		t.Fatalf("AddRigidTap() error = %v", err)
	}

	seg := planner.queue.last()
	if seg.motionType != MotionRigidTap {
		t.Fatalf("motionType = %v, want MotionRigidTap", seg.motionType)
	}
	if seg.termCond != TermStop {
		t.Fatalf("termCond = %v, want TermStop", seg.termCond)
	}
	if !seg.atSpeed {
		t.Fatal("atSpeed = false, want true (rigid tap always forces atSpeed)")
	}
}

func TestNyquistClipsMaxVel(t *testing.T) {
	planner := newConfiguredTP(t)
	// target = 1, cycleTime = 0.001 -> limit = 0.5*1/0.001 = 500, above
	// iniMaxVel of 100 so it shouldn't clip here; use a tiny target to
	// force the clip instead.
	end := posemath.FromXYZ(posemath.Vector3{X: 0.00001})
	if err := planner.AddLine(end, CanonFeed, 100, 100, 10, 0, false, -1); err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	seg := planner.queue.last()
	limit := 0.5 * seg.target / planner.cycleTime
	if seg.maxVel > limit+1e-9 {
		t.Fatalf("maxVel = %v, want <= %v", seg.maxVel, limit)
	}
}
