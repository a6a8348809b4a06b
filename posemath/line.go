package posemath

// Line is a straight segment between two Cartesian points, parameterized
// by arc length from Start.
type Line struct {
	Start, End Vector3
	UnitVec    Vector3
	Length     float64
	ZeroLength bool
}

// NewLine builds a Line from its endpoints. A degenerate (zero-length)
// line is still returned, with ZeroLength set, rather than an error: the
// caller (SegmentBuilder) decides whether a zero-length move is acceptable.
func NewLine(start, end Vector3) Line {
	d := end.Sub(start)
	u, ok := d.Unit()
	return Line{
		Start:      start,
		End:        end,
		UnitVec:    u,
		Length:     d.Mag(),
		ZeroLength: !ok,
	}
}

// PointAt returns the point s arc-length units from Start along the line.
func (l Line) PointAt(s float64) Vector3 {
	return l.Start.Add(l.UnitVec.Scale(s))
}
