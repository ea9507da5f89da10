package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// hullContactScale shrinks the bounding sphere used for hull-hull contacts so dice
// resting side by side do not hover apart.
const hullContactScale = 0.85

// contact pushes a out of b along normal. a is always dynamic.
type contact struct {
	a, b   *Body
	point  mgl64.Vec3
	normal mgl64.Vec3
	depth  float64

	ra, rb       mgl64.Vec3
	t1, t2       mgl64.Vec3
	kn, kt1, kt2 float64
	bias         float64
	friction     float64
	jn, jt1, jt2 float64
	invMassA     float64
	invMassB     float64
	invInertiaA  float64
	invInertiaB  float64
	dynamicB     bool
}

func (w *World) detect(out []contact) []contact {
	for i, a := range w.bodies {
		if a.IsStatic() || a.Shape.Kind != ShapeHull {
			continue
		}
		for j, b := range w.bodies {
			if i == j {
				continue
			}
			switch b.Shape.Kind {
			case ShapePlane:
				if !a.Sleeping {
					out = collideHullPlane(out, a, b)
				}
			case ShapeBox:
				if !a.Sleeping && b.IsStatic() {
					out = collideHullBox(out, a, b)
				}
			case ShapeHull:
				if j > i && !b.IsStatic() {
					out = w.collideHulls(out, a, b)
				}
			}
		}
	}
	return out
}

func collideHullPlane(out []contact, a, plane *Body) []contact {
	n := plane.PlaneNormal()
	for _, v := range a.Shape.Vertices {
		p := a.ToWorld(v)
		d := n.Dot(p.Sub(plane.Position))
		if d < 0 {
			out = append(out, contact{a: a, b: plane, point: p, normal: n, depth: -d})
		}
	}
	return out
}

func collideHullBox(out []contact, a, box *Body) []contact {
	h := box.Shape.HalfExtents
	for _, v := range a.Shape.Vertices {
		p := a.ToWorld(v)
		l := box.ToLocal(p)

		depth := math.Inf(1)
		axis := -1
		for k := 0; k < 3; k++ {
			pen := h[k] - math.Abs(l[k])
			if pen <= 0 {
				axis = -1
				break
			}
			if pen < depth {
				depth, axis = pen, k
			}
		}
		if axis < 0 {
			continue
		}

		var nl mgl64.Vec3
		nl[axis] = 1
		if l[axis] < 0 {
			nl[axis] = -1
		}
		out = append(out, contact{a: a, b: box, point: p, normal: box.Quaternion.Rotate(nl), depth: depth})
	}
	return out
}

// collideHulls treats dice as spheres. A sleeping die is woken only by a neighbour
// moving faster than the sleep threshold; otherwise it acts as an immovable obstacle.
func (w *World) collideHulls(out []contact, a, b *Body) []contact {
	if a.Sleeping && b.Sleeping {
		return out
	}
	ra := a.Shape.Radius * hullContactScale
	rb := b.Shape.Radius * hullContactScale
	delta := a.Position.Sub(b.Position)
	dist := delta.Len()
	if dist >= ra+rb || dist < 1e-9 {
		return out
	}
	if a.Sleeping || b.Sleeping {
		awake := a
		if a.Sleeping {
			awake = b
		}
		speedSq := awake.Velocity.Dot(awake.Velocity) + awake.AngularVelocity.Dot(awake.AngularVelocity)
		if speedSq >= w.SleepSpeed*w.SleepSpeed {
			a.Wake()
			b.Wake()
		} else if a.Sleeping {
			a, b, ra, rb, delta = b, a, rb, ra, delta.Mul(-1)
		}
	}
	n := delta.Mul(1 / dist)
	depth := ra + rb - dist
	p := b.Position.Add(n.Mul(rb - depth/2))
	return append(out, contact{a: a, b: b, point: p, normal: n, depth: depth})
}

func tangentBasis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var t mgl64.Vec3
	if math.Abs(n[0]) > 0.57735 {
		t = mgl64.Vec3{n[1], -n[0], 0}
	} else {
		t = mgl64.Vec3{0, n[2], -n[1]}
	}
	t = t.Normalize()
	return t, n.Cross(t)
}

func (c *contact) prepare(dt, threshold, slop, baumgarte float64) {
	c.invMassA = c.a.invMass
	c.invInertiaA = c.a.invInertia
	c.dynamicB = !c.b.IsStatic() && !c.b.Sleeping
	if c.dynamicB {
		c.invMassB = c.b.invMass
		c.invInertiaB = c.b.invInertia
	}

	c.ra = c.point.Sub(c.a.Position)
	c.rb = c.point.Sub(c.b.Position)
	c.t1, c.t2 = tangentBasis(c.normal)
	c.kn = c.effectiveMass(c.normal)
	c.kt1 = c.effectiveMass(c.t1)
	c.kt2 = c.effectiveMass(c.t2)

	c.friction = math.Sqrt(c.a.Material.Friction * c.b.Material.Friction)
	restitution := 0.5 * (c.a.Material.Restitution + c.b.Material.Restitution)

	vn := c.relativeVelocity().Dot(c.normal)
	if vn < -threshold {
		c.bias = -restitution * vn
	}
	if push := baumgarte / dt * math.Max(c.depth-slop, 0); push > c.bias {
		c.bias = push
	}
}

func (c *contact) effectiveMass(dir mgl64.Vec3) float64 {
	k := c.invMassA + c.invMassB
	ca := c.ra.Cross(dir)
	k += c.invInertiaA * ca.Dot(ca)
	if c.dynamicB {
		cb := c.rb.Cross(dir)
		k += c.invInertiaB * cb.Dot(cb)
	}
	return k
}

func (c *contact) relativeVelocity() mgl64.Vec3 {
	v := c.a.velocityAt(c.ra)
	if c.dynamicB {
		v = v.Sub(c.b.velocityAt(c.rb))
	}
	return v
}

func (c *contact) apply(j mgl64.Vec3) {
	c.a.applyImpulse(j, c.ra)
	if c.dynamicB {
		c.b.applyImpulse(j.Mul(-1), c.rb)
	}
}

func (c *contact) solve() {
	if c.kn <= 0 {
		return
	}
	vn := c.relativeVelocity().Dot(c.normal)
	dj := (c.bias - vn) / c.kn
	old := c.jn
	c.jn = math.Max(old+dj, 0)
	c.apply(c.normal.Mul(c.jn - old))

	limit := c.friction * c.jn
	c.jt1 = c.solveTangent(c.t1, c.kt1, c.jt1, limit)
	c.jt2 = c.solveTangent(c.t2, c.kt2, c.jt2, limit)
}

func (c *contact) solveTangent(t mgl64.Vec3, k, acc, limit float64) float64 {
	if k <= 0 {
		return acc
	}
	vt := c.relativeVelocity().Dot(t)
	next := math.Max(-limit, math.Min(acc-vt/k, limit))
	c.apply(t.Mul(next - acc))
	return next
}
