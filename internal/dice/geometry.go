package dice

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// FaceCounts maps a die type index to its number of faces.
var FaceCounts = [...]int{20, 12, 10, 8, 6, 4}

// FacesForType returns the face count for a type index.
func FacesForType(typeIndex int) (int, error) {
	if typeIndex < 0 || typeIndex >= len(FaceCounts) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, typeIndex)
	}
	return FaceCounts[typeIndex], nil
}

// Face is one planar face of a unit-circumradius polyhedron.
type Face struct {
	Normal   mgl64.Vec3
	Vertices []mgl64.Vec3
	Value    int
}

// Geometry is the shape of a die with circumradius 1.
type Geometry struct {
	Sides    int
	Vertices []mgl64.Vec3
	Faces    []Face

	// ReadDown is set for shapes that are read by the face they rest on (the d4).
	ReadDown bool
}

var (
	geometryMu    sync.Mutex
	geometryCache = map[int]*Geometry{}
)

// GeometryFor returns the shared geometry for a face count.
func GeometryFor(sides int) (*Geometry, error) {
	geometryMu.Lock()
	defer geometryMu.Unlock()

	if g, ok := geometryCache[sides]; ok {
		return g, nil
	}
	verts, err := polyhedronVertices(sides)
	if err != nil {
		return nil, err
	}
	g := &Geometry{Sides: sides, Vertices: normalize(verts), ReadDown: sides == 4}
	g.Faces = hullFaces(g.Vertices)
	if len(g.Faces) != sides {
		return nil, fmt.Errorf("dice: d%d hull has %d faces", sides, len(g.Faces))
	}
	assignValues(g.Faces)
	geometryCache[sides] = g
	return g, nil
}

// RestingFace returns the index of the face that is read for a die at orientation q.
func (g *Geometry) RestingFace(q mgl64.Quat) int {
	want := mgl64.Vec3{0, 1, 0}
	if g.ReadDown {
		want = mgl64.Vec3{0, -1, 0}
	}
	best, bestDot := 0, math.Inf(-1)
	for i, f := range g.Faces {
		if d := q.Rotate(f.Normal).Dot(want); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best
}

func polyhedronVertices(sides int) ([]mgl64.Vec3, error) {
	phi := (1 + math.Sqrt(5)) / 2
	switch sides {
	case 4:
		return []mgl64.Vec3{{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1}}, nil
	case 6:
		var out []mgl64.Vec3
		for _, x := range []float64{-1, 1} {
			for _, y := range []float64{-1, 1} {
				for _, z := range []float64{-1, 1} {
					out = append(out, mgl64.Vec3{x, y, z})
				}
			}
		}
		return out, nil
	case 8:
		return []mgl64.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}, nil
	case 10:
		return trapezohedron(), nil
	case 12:
		out := []mgl64.Vec3{}
		for _, x := range []float64{-1, 1} {
			for _, y := range []float64{-1, 1} {
				for _, z := range []float64{-1, 1} {
					out = append(out, mgl64.Vec3{x, y, z})
				}
			}
		}
		for _, a := range []float64{-1 / phi, 1 / phi} {
			for _, b := range []float64{-phi, phi} {
				out = append(out, mgl64.Vec3{0, a, b}, mgl64.Vec3{a, b, 0}, mgl64.Vec3{b, 0, a})
			}
		}
		return out, nil
	case 20:
		out := []mgl64.Vec3{}
		for _, a := range []float64{-1, 1} {
			for _, b := range []float64{-phi, phi} {
				out = append(out, mgl64.Vec3{0, a, b}, mgl64.Vec3{a, b, 0}, mgl64.Vec3{b, 0, a})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: d%d", ErrUnknownType, sides)
	}
}

// trapezohedron builds a pentagonal trapezohedron around the Y axis. The apex height is
// chosen so each kite is planar for the given ring offset.
func trapezohedron() []mgl64.Vec3 {
	const ring = 0.105
	c := math.Cos(math.Pi / 5)
	apex := ring * (1 + c) / (1 - c)

	out := []mgl64.Vec3{{0, apex, 0}, {0, -apex, 0}}
	for i := 0; i < 10; i++ {
		a := float64(i) * math.Pi / 5
		y := ring
		if i%2 == 1 {
			y = -ring
		}
		out = append(out, mgl64.Vec3{math.Cos(a), y, math.Sin(a)})
	}
	return out
}

func normalize(verts []mgl64.Vec3) []mgl64.Vec3 {
	r := 0.0
	for _, v := range verts {
		r = math.Max(r, v.Len())
	}
	out := make([]mgl64.Vec3, len(verts))
	for i, v := range verts {
		out[i] = v.Mul(1 / r)
	}
	return out
}

// hullFaces finds the supporting planes of a convex vertex set. Every triple of
// vertices whose plane has all other vertices behind it defines a face.
func hullFaces(verts []mgl64.Vec3) []Face {
	const eps = 1e-6
	var faces []Face
	for i := 0; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			for k := j + 1; k < len(verts); k++ {
				n := verts[j].Sub(verts[i]).Cross(verts[k].Sub(verts[i]))
				if n.Len() < eps {
					continue
				}
				n = n.Normalize()
				d := n.Dot(verts[i])
				if d < 0 {
					n, d = n.Mul(-1), -d
				}
				if !supporting(verts, n, d, eps) || hasFace(faces, n, eps) {
					continue
				}
				faces = append(faces, Face{Normal: n, Vertices: faceVertices(verts, n, d, eps)})
			}
		}
	}
	return faces
}

func supporting(verts []mgl64.Vec3, n mgl64.Vec3, d, eps float64) bool {
	for _, v := range verts {
		if n.Dot(v) > d+eps {
			return false
		}
	}
	return true
}

func hasFace(faces []Face, n mgl64.Vec3, eps float64) bool {
	for _, f := range faces {
		if f.Normal.Dot(n) > 1-eps {
			return true
		}
	}
	return false
}

// faceVertices returns the vertices on the plane, ordered counter-clockwise seen from outside.
func faceVertices(verts []mgl64.Vec3, n mgl64.Vec3, d, eps float64) []mgl64.Vec3 {
	var on []mgl64.Vec3
	center := mgl64.Vec3{}
	for _, v := range verts {
		if math.Abs(n.Dot(v)-d) <= eps {
			on = append(on, v)
			center = center.Add(v)
		}
	}
	center = center.Mul(1 / float64(len(on)))

	u := on[0].Sub(center).Normalize()
	w := n.Cross(u)
	sort.Slice(on, func(a, b int) bool {
		pa, pb := on[a].Sub(center), on[b].Sub(center)
		return math.Atan2(pa.Dot(w), pa.Dot(u)) < math.Atan2(pb.Dot(w), pb.Dot(u))
	})
	return on
}

// assignValues numbers faces 1..N so that opposite faces sum to N+1 where the shape
// has opposite faces; the rest are numbered in discovery order.
func assignValues(faces []Face) {
	n := len(faces)
	next := 1
	for i := range faces {
		if faces[i].Value != 0 {
			continue
		}
		faces[i].Value = next
		for j := i + 1; j < n; j++ {
			if faces[j].Value == 0 && faces[i].Normal.Dot(faces[j].Normal) < -1+1e-6 {
				faces[j].Value = n + 1 - next
				break
			}
		}
		next++
		for next <= n && valueTaken(faces, next) {
			next++
		}
	}
}

func valueTaken(faces []Face, v int) bool {
	for _, f := range faces {
		if f.Value == v {
			return true
		}
	}
	return false
}
