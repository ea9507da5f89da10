package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type ShapeKind int

const (
	ShapePlane ShapeKind = iota
	ShapeBox
	ShapeHull
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePlane:
		return "plane"
	case ShapeBox:
		return "box"
	case ShapeHull:
		return "hull"
	default:
		return "unknown"
	}
}

// Shape is the collision geometry of a body in its local frame.
// A plane's normal is local +Z, matching the floor convention of rotating it -90° about X.
type Shape struct {
	Kind        ShapeKind
	HalfExtents mgl64.Vec3
	Vertices    []mgl64.Vec3
	Radius      float64
}

func NewPlane() Shape {
	return Shape{Kind: ShapePlane}
}

func NewBox(halfExtents mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents, Radius: halfExtents.Len()}
}

// NewHull builds a convex hull shape from its vertices. Radius is the circumradius.
func NewHull(vertices []mgl64.Vec3) Shape {
	r := 0.0
	for _, v := range vertices {
		r = math.Max(r, v.Len())
	}
	return Shape{Kind: ShapeHull, Vertices: vertices, Radius: r}
}

type Material struct {
	Friction    float64
	Restitution float64
}

// Body is a rigid body. Mass 0 marks a static body that never moves.
type Body struct {
	Position        mgl64.Vec3
	Quaternion      mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Mass            float64
	Shape           Shape
	Material        Material
	LinearDamping   float64
	AngularDamping  float64
	Sleeping        bool

	idleTime   float64
	invMass    float64
	invInertia float64
}

// NewBody returns a body at the origin with identity orientation. Dynamic bodies use
// the inertia of a solid sphere slightly smaller than the shape's bounding radius.
func NewBody(shape Shape, mass float64, mat Material) *Body {
	b := &Body{
		Quaternion: mgl64.QuatIdent(),
		Mass:       math.Max(mass, 0),
		Shape:      shape,
		Material:   mat,
	}
	if b.Mass > 0 {
		r := 0.8 * shape.Radius
		if r <= 0 {
			r = 1
		}
		b.invMass = 1 / b.Mass
		b.invInertia = 1 / (0.4 * b.Mass * r * r)
	}
	return b
}

func (b *Body) IsStatic() bool { return b.Mass <= 0 }

func (b *Body) Wake() {
	b.Sleeping = false
	b.idleTime = 0
}

func (b *Body) Sleep() {
	b.Sleeping = true
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
}

// PlaneNormal is the world-space normal of a plane body.
func (b *Body) PlaneNormal() mgl64.Vec3 {
	return b.Quaternion.Rotate(mgl64.Vec3{0, 0, 1})
}

func (b *Body) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return b.Position.Add(b.Quaternion.Rotate(local))
}

func (b *Body) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return b.Quaternion.Conjugate().Rotate(world.Sub(b.Position))
}

func (b *Body) KineticEnergy() float64 {
	if b.IsStatic() {
		return 0
	}
	e := 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	if b.invInertia > 0 {
		e += 0.5 * b.AngularVelocity.Dot(b.AngularVelocity) / b.invInertia
	}
	return e
}

func (b *Body) velocityAt(r mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(r))
}

func (b *Body) applyImpulse(j, r mgl64.Vec3) {
	b.Velocity = b.Velocity.Add(j.Mul(b.invMass))
	b.AngularVelocity = b.AngularVelocity.Add(r.Cross(j).Mul(b.invInertia))
}

func (b *Body) integrate(dt float64) {
	b.Velocity = b.Velocity.Mul(math.Pow(1-b.LinearDamping, dt))
	b.AngularVelocity = b.AngularVelocity.Mul(math.Pow(1-b.AngularDamping, dt))

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	spin := mgl64.Quat{W: 0, V: b.AngularVelocity}.Mul(b.Quaternion)
	b.Quaternion = b.Quaternion.Add(spin.Scale(0.5 * dt)).Normalize()
}

func (b *Body) isFinite() bool {
	vals := []float64{
		b.Position[0], b.Position[1], b.Position[2],
		b.Velocity[0], b.Velocity[1], b.Velocity[2],
		b.AngularVelocity[0], b.AngularVelocity[1], b.AngularVelocity[2],
		b.Quaternion.W, b.Quaternion.V[0], b.Quaternion.V[1], b.Quaternion.V[2],
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (b *Body) clone() *Body {
	c := *b
	return &c
}
