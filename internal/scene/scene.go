// Package scene holds the renderable side of the simulation: meshes with a pose,
// a camera, and the graph of meshes currently on stage.
package scene

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidColor = errors.New("scene: invalid hex color")

type Color struct {
	R, G, B, A uint8
}

// ParseColor accepts "#rrggbb" or "#rrggbbaa".
func ParseColor(hex string) (Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	if len(s) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Mesh is a convex shape drawn as a set of planar polygons in local space.
// Labels, when present, line up with Polygons.
type Mesh struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Color    Color
	Polygons [][]mgl64.Vec3
	Labels   []string
}

func NewMesh(name string, polygons [][]mgl64.Vec3, color Color) *Mesh {
	return &Mesh{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Color:    color,
		Polygons: polygons,
	}
}

// WorldPolygon returns polygon i transformed by the mesh pose.
func (m *Mesh) WorldPolygon(i int) []mgl64.Vec3 {
	local := m.Polygons[i]
	out := make([]mgl64.Vec3, len(local))
	for j, v := range local {
		out[j] = m.Position.Add(m.Rotation.Rotate(v))
	}
	return out
}

// WorldNormal returns the outward normal of polygon i in world space.
func (m *Mesh) WorldNormal(i int) mgl64.Vec3 {
	p := m.Polygons[i]
	if len(p) < 3 {
		return mgl64.Vec3{}
	}
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if n.Len() == 0 {
		return n
	}
	return m.Rotation.Rotate(n.Normalize())
}

// Centroid returns the average of polygon i's vertices in world space.
func (m *Mesh) Centroid(i int) mgl64.Vec3 {
	var c mgl64.Vec3
	poly := m.WorldPolygon(i)
	for _, v := range poly {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(poly)))
}

// BoxPolygons returns the six faces of an axis-aligned box with the given half extents.
func BoxPolygons(h mgl64.Vec3) [][]mgl64.Vec3 {
	x, y, z := h[0], h[1], h[2]
	return [][]mgl64.Vec3{
		{{x, -y, -z}, {x, y, -z}, {x, y, z}, {x, -y, z}},
		{{-x, -y, z}, {-x, y, z}, {-x, y, -z}, {-x, -y, -z}},
		{{-x, y, -z}, {-x, y, z}, {x, y, z}, {x, y, -z}},
		{{-x, -y, z}, {-x, -y, -z}, {x, -y, -z}, {x, -y, z}},
		{{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}},
		{{x, -y, -z}, {-x, -y, -z}, {-x, y, -z}, {x, y, -z}},
	}
}

// QuadPolygon returns a single horizontal rectangle centered on the origin.
func QuadPolygon(width, depth float64) [][]mgl64.Vec3 {
	w, d := width/2, depth/2
	return [][]mgl64.Vec3{{{-w, 0, -d}, {-w, 0, d}, {w, 0, d}, {w, 0, -d}}}
}

type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	Fovy     float64
}

func NewCamera(position, target mgl64.Vec3, fovy float64) Camera {
	return Camera{Position: position, Target: target, Up: mgl64.Vec3{0, 1, 0}, Fovy: fovy}
}

// Orbit swings the camera around its target by yaw radians about the up axis
// and pitch radians toward the pole. Pitch stops short of the poles.
func (c *Camera) Orbit(yaw, pitch float64) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 {
		return
	}
	theta := math.Atan2(offset.X(), offset.Z()) + yaw
	phi := math.Acos(mgl64.Clamp(offset.Y()/r, -1, 1)) - pitch
	phi = mgl64.Clamp(phi, 0.05, math.Pi/2-0.01)

	c.Position = c.Target.Add(mgl64.Vec3{
		r * math.Sin(phi) * math.Sin(theta),
		r * math.Cos(phi),
		r * math.Sin(phi) * math.Cos(theta),
	})
}

// Zoom scales the distance to the target, clamped to [minDist, maxDist].
func (c *Camera) Zoom(factor, minDist, maxDist float64) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 {
		return
	}
	next := mgl64.Clamp(r*factor, minDist, maxDist)
	c.Position = c.Target.Add(offset.Mul(next / r))
}

// Graph is the ordered set of meshes on stage. A mesh appears at most once.
type Graph struct {
	meshes []*Mesh
}

func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) Add(m *Mesh) {
	if m == nil || g.Contains(m) {
		return
	}
	g.meshes = append(g.meshes, m)
}

func (g *Graph) Remove(m *Mesh) {
	for i, cur := range g.meshes {
		if cur == m {
			g.meshes = append(g.meshes[:i], g.meshes[i+1:]...)
			return
		}
	}
}

func (g *Graph) Contains(m *Mesh) bool {
	for _, cur := range g.meshes {
		if cur == m {
			return true
		}
	}
	return false
}

func (g *Graph) Len() int { return len(g.meshes) }

// Objects returns a copy of the meshes in insertion order.
func (g *Graph) Objects() []*Mesh {
	out := make([]*Mesh, len(g.meshes))
	copy(out, g.meshes)
	return out
}
