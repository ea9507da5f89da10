package arena

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/physics"
	"github.com/san-kum/dicesim/internal/scene"
)

func TestBuild(t *testing.T) {
	g := scene.NewGraph()
	w := physics.NewWorld()
	cfg := config.DefaultConfig().Arena

	a, err := Build(g, w, cfg, physics.Material{Friction: 0.4})
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Walls) != 4 {
		t.Fatalf("expected 4 walls, got %d", len(a.Walls))
	}
	if g.Len() != 5 || w.Len() != 5 {
		t.Fatalf("expected 5 pieces in scene and world, got %d and %d", g.Len(), w.Len())
	}

	for _, p := range a.Pieces() {
		if !p.Body.IsStatic() {
			t.Errorf("%s body is not static", p.Mesh.Name)
		}
		if !g.Contains(p.Mesh) || w.IndexOf(p.Body) < 0 {
			t.Errorf("%s not paired in scene and world", p.Mesh.Name)
		}
	}

	n := a.Floor.Body.PlaneNormal()
	if !n.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("floor normal %v, want +Y", n)
	}
}

func TestWallPlacement(t *testing.T) {
	g := scene.NewGraph()
	w := physics.NewWorld()
	cfg := config.DefaultConfig().Arena

	a, err := Build(g, w, cfg, physics.Material{})
	if err != nil {
		t.Fatal(err)
	}

	var xs, zs []float64
	for _, wall := range a.Walls {
		if wall.Mesh.Position != wall.Body.Position {
			t.Errorf("%s mesh pose differs from body", wall.Mesh.Name)
		}
		p := wall.Body.Position
		if p.X() != 0 {
			xs = append(xs, math.Abs(p.X()))
		}
		if p.Z() != 0 {
			zs = append(zs, math.Abs(p.Z()))
		}
	}
	if len(xs) != 2 || xs[0] != cfg.Width/2 || xs[1] != cfg.Width/2 {
		t.Errorf("x walls at %v, want ±%f", xs, cfg.Width/2)
	}
	if len(zs) != 2 || zs[0] != cfg.Depth/2 || zs[1] != cfg.Depth/2 {
		t.Errorf("z walls at %v, want ±%f", zs, cfg.Depth/2)
	}
}

func TestBuildInvalidColor(t *testing.T) {
	cfg := config.DefaultConfig().Arena
	cfg.WallColor = "brown"
	g := scene.NewGraph()
	w := physics.NewWorld()
	if _, err := Build(g, w, cfg, physics.Material{}); err == nil {
		t.Fatal("expected an error for a bad color")
	}
	if g.Len() != 0 || w.Len() != 0 {
		t.Error("failed build left pieces behind")
	}
}
