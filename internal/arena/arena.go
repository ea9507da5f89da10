// Package arena builds the floor and walls that keep thrown dice on the table.
package arena

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/physics"
	"github.com/san-kum/dicesim/internal/scene"
)

// Piece is a static body and the mesh that draws it.
type Piece struct {
	Body *physics.Body
	Mesh *scene.Mesh
}

type Arena struct {
	Floor Piece
	Walls []Piece
}

type SceneGraph interface {
	Add(m *scene.Mesh)
}

type BodyWorld interface {
	AddBody(b *physics.Body)
}

// Build creates the floor and four walls and adds each piece to both the scene
// and the world. Walls are centered on x=±Width/2 and z=±Depth/2.
func Build(g SceneGraph, w BodyWorld, cfg config.ArenaConfig, mat physics.Material) (*Arena, error) {
	floorColor, err := scene.ParseColor(cfg.FloorColor)
	if err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}
	wallColor, err := scene.ParseColor(cfg.WallColor)
	if err != nil {
		return nil, fmt.Errorf("walls: %w", err)
	}

	floorBody := physics.NewBody(physics.NewPlane(), 0, mat)
	floorBody.Quaternion = mgl64.QuatRotate(-mgl64.DegToRad(90), mgl64.Vec3{1, 0, 0})
	a := &Arena{
		Floor: Piece{
			Body: floorBody,
			Mesh: scene.NewMesh("floor", scene.QuadPolygon(cfg.Width, cfg.Depth), floorColor),
		},
	}

	hw, hd := cfg.Width/2, cfg.Depth/2
	hh, ht := cfg.WallHeight/2, cfg.WallThickness/2
	walls := []struct {
		name   string
		center mgl64.Vec3
		half   mgl64.Vec3
	}{
		{"wall-east", mgl64.Vec3{hw, hh, 0}, mgl64.Vec3{ht, hh, hd}},
		{"wall-west", mgl64.Vec3{-hw, hh, 0}, mgl64.Vec3{ht, hh, hd}},
		{"wall-south", mgl64.Vec3{0, hh, hd}, mgl64.Vec3{hw, hh, ht}},
		{"wall-north", mgl64.Vec3{0, hh, -hd}, mgl64.Vec3{hw, hh, ht}},
	}
	for _, wall := range walls {
		body := physics.NewBody(physics.NewBox(wall.half), 0, mat)
		body.Position = wall.center
		mesh := scene.NewMesh(wall.name, scene.BoxPolygons(wall.half), wallColor)
		mesh.Position = body.Position
		mesh.Rotation = body.Quaternion
		a.Walls = append(a.Walls, Piece{Body: body, Mesh: mesh})
	}

	for _, p := range a.Pieces() {
		g.Add(p.Mesh)
		w.AddBody(p.Body)
	}
	return a, nil
}

// Pieces returns the floor followed by the walls.
func (a *Arena) Pieces() []Piece {
	return append([]Piece{a.Floor}, a.Walls...)
}
