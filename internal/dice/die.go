// Package dice builds dice as paired scene meshes and physics bodies and makes
// thrown dice land on requested values.
package dice

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/san-kum/dicesim/internal/physics"
	"github.com/san-kum/dicesim/internal/scene"
)

var (
	ErrUnknownType   = errors.New("dice: unsupported die type")
	ErrTargetRange   = errors.New("dice: target value out of range")
	ErrDetached      = errors.New("dice: die is not in the world")
	ErrInvalidParams = errors.New("dice: invalid die parameters")
)

// SceneGraph is the part of the scene a die attaches its mesh to.
type SceneGraph interface {
	Add(m *scene.Mesh)
	Remove(m *scene.Mesh)
}

// BodyWorld is the part of the physics world a die attaches its body to.
type BodyWorld interface {
	AddBody(b *physics.Body)
	RemoveBody(b *physics.Body)
}

// Die pairs a mesh and a body. Both halves are attached and detached together.
type Die struct {
	Faces int
	Color scene.Color
	Mesh  *scene.Mesh
	Body  *physics.Body

	geom   *Geometry
	labels []int
}

func (d *Die) Geometry() *Geometry { return d.geom }

func (d *Die) Attach(g SceneGraph, w BodyWorld) {
	g.Add(d.Mesh)
	w.AddBody(d.Body)
}

func (d *Die) Detach(g SceneGraph, w BodyWorld) {
	g.Remove(d.Mesh)
	w.RemoveBody(d.Body)
}

// SyncMesh copies the body pose onto the mesh.
func (d *Die) SyncMesh() {
	d.Mesh.Position = d.Body.Position
	d.Mesh.Rotation = d.Body.Quaternion
}

// SyncBody pushes the mesh pose into the body. Used once when a die is spawned.
func (d *Die) SyncBody() {
	d.Body.Position = d.Mesh.Position
	d.Body.Quaternion = d.Mesh.Rotation.Normalize()
}

// Label returns the value printed on face i.
func (d *Die) Label(i int) int { return d.labels[i] }

// Value returns the value currently read from the die.
func (d *Die) Value() int {
	return d.labels[d.geom.RestingFace(d.Body.Quaternion)]
}

func (d *Die) Settled() bool { return d.Body.Sleeping }

// ResetLabels restores the standard numbering.
func (d *Die) ResetLabels() {
	for i, f := range d.geom.Faces {
		d.labels[i] = f.Value
	}
	d.refreshMeshLabels()
}

// showOn swaps labels so that face shows value.
func (d *Die) showOn(face, value int) error {
	if value < 1 || value > d.Faces {
		return fmt.Errorf("%w: %d not in [1,%d]", ErrTargetRange, value, d.Faces)
	}
	for i, v := range d.labels {
		if v == value {
			d.labels[i], d.labels[face] = d.labels[face], d.labels[i]
			break
		}
	}
	d.refreshMeshLabels()
	return nil
}

func (d *Die) refreshMeshLabels() {
	for i, v := range d.labels {
		d.Mesh.Labels[i] = strconv.Itoa(v)
	}
}
