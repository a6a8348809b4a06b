package posemath

import (
	"errors"
	"math"
)

// ErrDegenerateCircle is returned when the requested center/start/end/normal
// combination does not describe a circle with a meaningful radius.
var ErrDegenerateCircle = errors.New("posemath: degenerate circle")

// ErrPointsTooFarApart is returned by CircleFromThreePoints when no circle
// of the requested radius passes through the given start/end pair.
var ErrPointsTooFarApart = errors.New("posemath: points too far apart for requested radius")

// Circle is a circular (or helical) arc in 3-space: a planar circle of
// Radius about Center in the plane with normal Normal, swept through Angle
// radians starting at Start, plus an optional helical rise RHelix traversed
// linearly over the same parameter range.
type Circle struct {
	Center, Normal Vector3
	Vec1, Vec2     Vector3 // orthonormal in-plane basis; Vec1 points at Start
	Radius         float64
	Angle          float64 // total swept angle, radians, always >= 0
	RHelix         Vector3 // total linear displacement over the full sweep
}

// NewCircle builds a Circle through start and end, centered at center, in
// the plane with the given normal. turn adds additional full revolutions
// (as used by multi-turn G2/G3 helical moves).
func NewCircle(start, end, center, normal Vector3, turn int) (Circle, error) {
	n, ok := normal.Unit()
	if !ok {
		return Circle{}, ErrDegenerateCircle
	}

	v1raw := start.Sub(center)
	v1raw = v1raw.Sub(n.Scale(v1raw.Dot(n))) // project into plane
	radius := v1raw.Mag()
	if radius < Epsilon {
		return Circle{}, ErrDegenerateCircle
	}
	vec1 := v1raw.Scale(1 / radius)
	vec2 := n.Cross(vec1) // already unit: n and vec1 are orthonormal

	v2raw := end.Sub(center)
	v2raw = v2raw.Sub(n.Scale(v2raw.Dot(n)))
	if v2raw.Mag() < Epsilon {
		return Circle{}, ErrDegenerateCircle
	}

	angle := math.Atan2(v2raw.Dot(vec2), v2raw.Dot(vec1))
	if angle < 0 {
		angle += 2 * math.Pi
	}
	if turn > 0 {
		angle += float64(turn) * 2 * math.Pi
	}

	helixLen := end.Sub(start).Dot(n)

	return Circle{
		Center: center,
		Normal: n,
		Vec1:   vec1,
		Vec2:   vec2,
		Radius: radius,
		Angle:  angle,
		RHelix: n.Scale(helixLen),
	}, nil
}

// CircleFromThreePoints builds the circle of the given radius passing
// through p0 and p2, choosing whichever of the two possible centers lies
// on the side of the p0-p2 chord away from p1. This is the construction
// the blend planner uses to round a corner at p1: p0 and p2 are the tangent
// points on the incoming/outgoing lines and the arc bulges toward the
// corner, replacing it.
func CircleFromThreePoints(p0, p1, p2 Vector3, radius float64) (Circle, error) {
	chord := p2.Sub(p0)
	d := chord.Mag()
	if d < Epsilon {
		return Circle{}, ErrDegenerateCircle
	}
	if d > 2*radius {
		return Circle{}, ErrPointsTooFarApart
	}

	normal, ok := p1.Sub(p0).Cross(p2.Sub(p0)).Unit()
	if !ok {
		return Circle{}, ErrDegenerateCircle
	}

	chordUnit := chord.Scale(1 / d)
	perp := normal.Cross(chordUnit) // unit, in-plane, perpendicular to chord

	mid := p0.Add(p2).Scale(0.5)
	h := sqrt(radius*radius - (d/2)*(d/2))

	c1 := mid.Add(perp.Scale(h))
	c2 := mid.Sub(perp.Scale(h))

	center := c1
	if c2.Sub(p1).Mag() > c1.Sub(p1).Mag() {
		center = c2
	}

	return NewCircle(p0, p2, center, normal, 0)
}

// PointAt returns the point s arc-length units along the circle's planar
// sweep from Start (s=0 is Start, s=Length() is End), including the
// proportional helical offset.
func (c Circle) PointAt(s float64) Vector3 {
	arcLen := c.Radius * c.Angle
	theta := s / c.Radius
	planar := c.Center.
		Add(c.Vec1.Scale(c.Radius * math.Cos(theta))).
		Add(c.Vec2.Scale(c.Radius * math.Sin(theta)))
	if arcLen < Epsilon {
		return planar
	}
	frac := s / arcLen
	return planar.Add(c.RHelix.Scale(frac))
}

// Length returns the planar arc length (radius * swept angle), not
// including the helical rise.
func (c Circle) Length() float64 {
	return c.Radius * c.Angle
}

// TotalLength returns the full 3D path length of the helical arc, i.e. the
// hypotenuse of the planar arc length and the helical rise magnitude.
func (c Circle) TotalLength() float64 {
	planar := c.Length()
	rise := c.RHelix.Mag()
	return math.Hypot(planar, rise)
}
