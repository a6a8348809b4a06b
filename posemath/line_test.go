package posemath

import "testing"

func TestNewLine(t *testing.T) {
	l := NewLine(Vector3{0, 0, 0}, Vector3{10, 0, 0})
	if l.ZeroLength {
		t.Fatal("ZeroLength = true, want false")
	}
	if l.Length != 10 {
		t.Fatalf("Length = %v, want 10", l.Length)
	}
	mid := l.PointAt(5)
	if mid != (Vector3{5, 0, 0}) {
		t.Fatalf("PointAt(5) = %v, want {5,0,0}", mid)
	}
}

func TestNewLineZeroLength(t *testing.T) {
	l := NewLine(Vector3{1, 1, 1}, Vector3{1, 1, 1})
	if !l.ZeroLength {
		t.Fatal("ZeroLength = false, want true")
	}
	if l.Length != 0 {
		t.Fatalf("Length = %v, want 0", l.Length)
	}
}
