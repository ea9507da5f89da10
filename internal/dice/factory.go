package dice

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dicesim/internal/physics"
	"github.com/san-kum/dicesim/internal/scene"
)

type FactoryConfig struct {
	Size           float64
	Mass           float64
	Material       physics.Material
	LinearDamping  float64
	AngularDamping float64
}

// Factory builds dice of a fixed size and material.
type Factory struct {
	cfg     FactoryConfig
	created int
}

func NewFactory(cfg FactoryConfig) (*Factory, error) {
	if cfg.Size <= 0 || cfg.Mass <= 0 {
		return nil, fmt.Errorf("%w: size %f mass %f", ErrInvalidParams, cfg.Size, cfg.Mass)
	}
	return &Factory{cfg: cfg}, nil
}

// CreateDie builds a detached die with the given number of faces.
func (f *Factory) CreateDie(faces int, color scene.Color) (*Die, error) {
	g, err := GeometryFor(faces)
	if err != nil {
		return nil, err
	}

	verts := make([]mgl64.Vec3, len(g.Vertices))
	for i, v := range g.Vertices {
		verts[i] = v.Mul(f.cfg.Size)
	}
	polys := make([][]mgl64.Vec3, len(g.Faces))
	for i, face := range g.Faces {
		poly := make([]mgl64.Vec3, len(face.Vertices))
		for j, v := range face.Vertices {
			poly[j] = v.Mul(f.cfg.Size)
		}
		polys[i] = poly
	}

	body := physics.NewBody(physics.NewHull(verts), f.cfg.Mass, f.cfg.Material)
	body.LinearDamping = f.cfg.LinearDamping
	body.AngularDamping = f.cfg.AngularDamping

	mesh := scene.NewMesh(fmt.Sprintf("d%d-%d", faces, f.created), polys, color)
	mesh.Labels = make([]string, len(polys))
	f.created++

	d := &Die{
		Faces:  faces,
		Color:  color,
		Mesh:   mesh,
		Body:   body,
		geom:   g,
		labels: make([]int, len(g.Faces)),
	}
	d.ResetLabels()
	return d, nil
}
