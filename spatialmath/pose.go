// Package spatialmath defines planar poses and the rigid transforms between frames.
//
// A Pose doubles as a transform: composing a pose expressed in frame A with the pose of frame A
// in frame B yields the pose in frame B. Only rotation about +Z is modelled; Z translations are
// carried through untouched.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

const defaultEpsilon = 1e-8

// Pose represents a position on the plane together with a heading about +Z, in radians.
type Pose interface {
	Point() r3.Vector
	Heading() float64
	Orientation() quat.Number
}

type pose struct {
	point   r3.Vector
	heading float64
}

// NewPose returns a pose at pt with the given heading in radians. The heading is normalized
// to (-pi, pi].
func NewPose(pt r3.Vector, heading float64) Pose {
	return &pose{point: pt, heading: NormalizeAngle(heading)}
}

// NewPoseFromPoint returns a pose at pt with zero heading.
func NewPoseFromPoint(pt r3.Vector) Pose {
	return &pose{point: pt}
}

// NewZeroPose returns the identity pose.
func NewZeroPose() Pose {
	return &pose{}
}

// NewPoseFromOrientation builds a pose from a quaternion, keeping only its yaw.
func NewPoseFromOrientation(pt r3.Vector, q quat.Number) Pose {
	return NewPose(pt, HeadingFromQuaternion(q))
}

func (p *pose) Point() r3.Vector {
	return p.point
}

func (p *pose) Heading() float64 {
	return p.heading
}

func (p *pose) Orientation() quat.Number {
	return QuaternionFromHeading(p.heading)
}

func (p *pose) String() string {
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f Heading:%.4f}", p.point.X, p.point.Y, p.point.Z, p.heading)
}

// Compose returns the pose b expressed in the parent frame of a, treating a as a transform.
func Compose(a, b Pose) Pose {
	return &pose{
		point:   a.Point().Add(rotate(b.Point(), a.Heading())),
		heading: NormalizeAngle(a.Heading() + b.Heading()),
	}
}

// PoseInverse returns the pose that undoes p, such that Compose(p, PoseInverse(p)) is the
// identity.
func PoseInverse(p Pose) Pose {
	inv := -p.Heading()
	return &pose{
		point:   rotate(p.Point().Mul(-1), inv),
		heading: NormalizeAngle(inv),
	}
}

// PoseBetween returns the pose that takes a to b: Compose(a, PoseBetween(a, b)) == b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint applies the rigid transform tf to pt.
func TransformPoint(tf Pose, pt r3.Vector) r3.Vector {
	return tf.Point().Add(rotate(pt, tf.Heading()))
}

// PoseAlmostEqual returns whether two poses are within a small tolerance of one another.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps is PoseAlmostEqual with a caller supplied tolerance, used for both the
// positional distance and the heading difference.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return a.Point().Sub(b.Point()).Norm() <= epsilon &&
		math.Abs(NormalizeAngle(a.Heading()-b.Heading())) <= epsilon
}

// Bearing returns the heading of the vector from `from` to `to` on the XY plane.
func Bearing(from, to r3.Vector) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// NormalizeAngle wraps an angle in radians into (-pi, pi].
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta <= -math.Pi {
		theta += 2 * math.Pi
	} else if theta > math.Pi {
		theta -= 2 * math.Pi
	}
	if math.Abs(theta) < defaultEpsilon {
		return 0
	}
	return theta
}

// QuaternionFromHeading returns the unit quaternion rotating by heading about +Z.
func QuaternionFromHeading(heading float64) quat.Number {
	half := heading / 2
	return quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)}
}

// HeadingFromQuaternion returns the yaw of q. Roll and pitch are discarded.
func HeadingFromQuaternion(q quat.Number) float64 {
	norm := quat.Abs(q)
	if norm == 0 {
		return 0
	}
	q = quat.Scale(1/norm, q)
	sinYaw := 2 * (q.Real*q.Kmag + q.Imag*q.Jmag)
	cosYaw := 1 - 2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)
	return math.Atan2(sinYaw, cosYaw)
}

func rotate(v r3.Vector, theta float64) r3.Vector {
	sin, cos := math.Sincos(theta)
	return r3.Vector{X: cos*v.X - sin*v.Y, Y: sin*v.X + cos*v.Y, Z: v.Z}
}
