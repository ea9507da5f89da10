package gui

import (
	"fmt"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dicesim/internal/scene"
	"github.com/san-kum/dicesim/internal/sim"
)

var lightDir = mgl64.Vec3{0.3, 1, 0.5}.Normalize()

// Renderer draws the scene graph with raylib. It implements sim.Renderer.
type Renderer struct {
	font  rl.Font
	state *sim.State
	width int
}

func NewRenderer(font rl.Font, width int) *Renderer {
	return &Renderer{font: font, width: width}
}

// Attach gives the HUD access to the running simulation.
func (r *Renderer) Attach(s *sim.State) { r.state = s }

func (r *Renderer) RenderFrame(g *scene.Graph, cam scene.Camera) error {
	camera := toCamera(cam)

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(camera)
	objects := g.Objects()
	for _, m := range objects {
		drawMesh(m)
	}
	rl.EndMode3D()

	for _, m := range objects {
		r.drawLabels(m, cam, camera)
	}
	r.drawHUD()

	rl.EndDrawing()
	return nil
}

func drawMesh(m *scene.Mesh) {
	base := toColor(m.Color)
	edge := shade(base, 0.35)
	for i := range m.Polygons {
		poly := m.WorldPolygon(i)
		if len(poly) < 3 {
			continue
		}
		lit := 0.45 + 0.55*math.Max(0, m.WorldNormal(i).Dot(lightDir))
		fill := shade(base, lit)

		v0 := toVec(poly[0])
		for j := 1; j+1 < len(poly); j++ {
			rl.DrawTriangle3D(v0, toVec(poly[j]), toVec(poly[j+1]), fill)
		}
		for j := range poly {
			rl.DrawLine3D(toVec(poly[j]), toVec(poly[(j+1)%len(poly)]), edge)
		}
	}
}

// drawLabels prints each face value at the projected face center, for faces
// turned toward the camera.
func (r *Renderer) drawLabels(m *scene.Mesh, cam scene.Camera, camera rl.Camera3D) {
	if len(m.Labels) == 0 {
		return
	}
	ink := labelInk(m.Color)
	for i, label := range m.Labels {
		if label == "" {
			continue
		}
		center := m.Centroid(i)
		n := m.WorldNormal(i)
		if n.Dot(cam.Position.Sub(center)) <= 0 {
			continue
		}
		p := rl.GetWorldToScreen(toVec(center.Add(n.Mul(0.02))), camera)
		size := float32(18)
		w := rl.MeasureTextEx(r.font, label, size, 1)
		rl.DrawTextEx(r.font, label, rl.NewVector2(p.X-w.X/2, p.Y-w.Y/2), size, 1, ink)
	}
}

func (r *Renderer) drawHUD() {
	r.drawText("dicesim", 30, 30, 24, ColSelect)
	r.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
	r.drawText("[UP/DOWN] COUNT  [LEFT/RIGHT] TYPE  [SPACE/CLICK] THROW  [DRAG] ORBIT  [Q] QUIT", r.width-720, 680, 14, ColTextDim)

	if r.state == nil {
		return
	}
	sel := r.state.Tracker.Selection()
	r.drawText(fmt.Sprintf(":: %d x d%d", sel.Count, sel.Faces()), 150, 34, 16, ColText)

	status, col := "ROLLING", ColAccent
	if r.state.Settled() {
		status, col = "SETTLED", ColSelect
	}
	r.drawText(status, r.width-130, 30, 16, col)

	r.drawText("TARGET "+joinInts(r.state.Dispatcher.LastTargets()), 30, 70, 14, ColTextDim)
	r.drawText("SHOWING "+joinInts(r.state.Values()), 30, 90, 14, ColText)
}

func (r *Renderer) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(r.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

func toVec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func toColor(c scene.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func toCamera(c scene.Camera) rl.Camera3D {
	return rl.NewCamera3D(toVec(c.Position), toVec(c.Target), toVec(c.Up), float32(c.Fovy), rl.CameraPerspective)
}

func shade(c rl.Color, k float64) rl.Color {
	f := func(v uint8) uint8 { return uint8(math.Min(255, float64(v)*k)) }
	return rl.NewColor(f(c.R), f(c.G), f(c.B), c.A)
}

// labelInk picks black or white, whichever reads better on c.
func labelInk(c scene.Color) rl.Color {
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luma > 140 {
		return rl.Black
	}
	return rl.White
}
