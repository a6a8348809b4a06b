package posemath

import (
	"math"
	"testing"
)

func TestNewCircleQuarterTurn(t *testing.T) {
	start := Vector3{1, 0, 0}
	end := Vector3{0, 1, 0}
	center := Vector3{0, 0, 0}
	normal := Vector3{0, 0, 1}

	c, err := NewCircle(start, end, center, normal, 0)
	if err != nil {
		t.Fatalf("NewCircle() error = %v", err)
	}
	if math.Abs(c.Radius-1) > 1e-9 {
		t.Fatalf("Radius = %v, want 1", c.Radius)
	}
	if math.Abs(c.Angle-math.Pi/2) > 1e-9 {
		t.Fatalf("Angle = %v, want pi/2", c.Angle)
	}

	got := c.PointAt(0)
	if math.Abs(got.X-start.X) > 1e-9 || math.Abs(got.Y-start.Y) > 1e-9 {
		t.Fatalf("PointAt(0) = %v, want %v", got, start)
	}
	got = c.PointAt(c.Length())
	if math.Abs(got.X-end.X) > 1e-9 || math.Abs(got.Y-end.Y) > 1e-9 {
		t.Fatalf("PointAt(Length()) = %v, want %v", got, end)
	}
}

func TestNewCircleExtraTurn(t *testing.T) {
	start := Vector3{1, 0, 0}
	end := Vector3{1, 0, 0}
	center := Vector3{0, 0, 0}
	normal := Vector3{0, 0, 1}

	c, err := NewCircle(start, end, center, normal, 2)
	if err != nil {
		t.Fatalf("NewCircle() error = %v", err)
	}
	want := 2 * 2 * math.Pi
	if math.Abs(c.Angle-want) > 1e-9 {
		t.Fatalf("Angle = %v, want %v", c.Angle, want)
	}
}

func TestNewCircleDegenerateNormal(t *testing.T) {
	_, err := NewCircle(Vector3{1, 0, 0}, Vector3{0, 1, 0}, Vector3{}, Vector3{}, 0)
	if err != ErrDegenerateCircle {
		t.Fatalf("err = %v, want ErrDegenerateCircle", err)
	}
}

func TestCircleFromThreePoints(t *testing.T) {
	p0 := Vector3{-1, 0, 0}
	p1 := Vector3{0, 1, 0} // corner vertex, above the chord
	p2 := Vector3{1, 0, 0}

	c, err := CircleFromThreePoints(p0, p1, p2, 1)
	if err != nil {
		t.Fatalf("CircleFromThreePoints() error = %v", err)
	}
	// The arc should bulge toward p1, so its midpoint should be on the
	// same side of the chord as p1 (positive Y), i.e. closer to p1 than
	// the chord's own midpoint is.
	mid := c.PointAt(c.Length() / 2)
	chordMid := p0.Add(p2).Scale(0.5)
	if mid.Sub(p1).Mag() >= chordMid.Sub(p1).Mag() {
		t.Fatalf("arc midpoint %v not closer to corner %v than chord midpoint %v", mid, p1, chordMid)
	}
}

func TestCircleFromThreePointsTooFar(t *testing.T) {
	_, err := CircleFromThreePoints(Vector3{-10, 0, 0}, Vector3{0, 1, 0}, Vector3{10, 0, 0}, 1)
	if err != ErrPointsTooFarApart {
		t.Fatalf("err = %v, want ErrPointsTooFarApart", err)
	}
}

func TestCircleHelix(t *testing.T) {
	start := Vector3{1, 0, 0}
	end := Vector3{0, 1, 5}
	center := Vector3{0, 0, 0}
	normal := Vector3{0, 0, 1}

	c, err := NewCircle(start, end, center, normal, 0)
	if err != nil {
		t.Fatalf("NewCircle() error = %v", err)
	}
	if math.Abs(c.RHelix.Z-5) > 1e-9 {
		t.Fatalf("RHelix.Z = %v, want 5", c.RHelix.Z)
	}
	got := c.PointAt(c.Length())
	if math.Abs(got.Z-5) > 1e-9 {
		t.Fatalf("PointAt(Length()).Z = %v, want 5", got.Z)
	}
}
