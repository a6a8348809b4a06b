package posemath

import "github.com/cwbudde/algo-vecmath"

// Axis indexes a single component of a Pose.
type Axis int

// Axis indices, matching the original nine-axis motion vector layout.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisA
	AxisB
	AxisC
	AxisU
	AxisV
	AxisW
	numAxes
)

// Pose is a nine-axis position: XYZ translation, ABC rotary, UVW auxiliary
// linear. It is stored flat so the block vector helpers in algo-vecmath can
// operate on it directly instead of per-field arithmetic.
type Pose [int(numAxes)]float64

// FromXYZ builds a Pose with only XYZ populated.
func FromXYZ(v Vector3) Pose {
	var p Pose
	p[AxisX], p[AxisY], p[AxisZ] = v.X, v.Y, v.Z
	return p
}

// Compose builds a Pose from its three subspace vectors.
func Compose(xyz, abc, uvw Vector3) Pose {
	var p Pose
	p[AxisX], p[AxisY], p[AxisZ] = xyz.X, xyz.Y, xyz.Z
	p[AxisA], p[AxisB], p[AxisC] = abc.X, abc.Y, abc.Z
	p[AxisU], p[AxisV], p[AxisW] = uvw.X, uvw.Y, uvw.Z
	return p
}

// XYZ extracts the translation component.
func (p Pose) XYZ() Vector3 {
	return Vector3{p[AxisX], p[AxisY], p[AxisZ]}
}

// ABC extracts the rotary component.
func (p Pose) ABC() Vector3 {
	return Vector3{p[AxisA], p[AxisB], p[AxisC]}
}

// UVW extracts the auxiliary linear component.
func (p Pose) UVW() Vector3 {
	return Vector3{p[AxisU], p[AxisV], p[AxisW]}
}

// WithXYZ returns a copy of p with its translation component replaced.
func (p Pose) WithXYZ(v Vector3) Pose {
	out := p
	out[AxisX], out[AxisY], out[AxisZ] = v.X, v.Y, v.Z
	return out
}

// Add returns p+q, computed with a vectorized elementwise add.
func (p Pose) Add(q Pose) Pose {
	var out Pose
	vecmath.AddBlock(out[:], p[:], q[:])
	return out
}

// Sub returns p-q.
func (p Pose) Sub(q Pose) Pose {
	var neg Pose
	for i := range q {
		neg[i] = -q[i]
	}
	var out Pose
	vecmath.AddBlock(out[:], p[:], neg[:])
	return out
}

// AddInPlace adds q into p in place, avoiding an extra allocation on the
// per-cycle position update hot path.
func (p *Pose) AddInPlace(q Pose) {
	vecmath.AddBlockInPlace(p[:], q[:])
}

// Scale returns p scaled by s, componentwise.
func (p Pose) Scale(s float64) Pose {
	var scale Pose
	for i := range scale {
		scale[i] = s
	}
	var out Pose
	vecmath.MulBlock(out[:], p[:], scale[:])
	return out
}

// Mag returns the Euclidean magnitude of p treated as a single 9-vector.
func (p Pose) Mag() float64 {
	var sum float64
	for _, c := range p {
		sum += c * c
	}
	return sqrt(sum)
}
