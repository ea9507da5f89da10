package tui

import (
	"strconv"
	"strings"

	"github.com/san-kum/dicesim/internal/dice"
	"github.com/san-kum/dicesim/internal/scene"
	"github.com/san-kum/dicesim/internal/sim"
)

type cell struct {
	r     rune
	color string
}

// ArenaView rasterizes a top-down view of the arena into a character grid.
// x maps to columns and z to rows. It implements sim.Renderer.
type ArenaView struct {
	Width  int
	Height int

	arenaW float64
	arenaD float64
	state  *sim.State
	cells  [][]cell
	frames int
}

func NewArenaView(width, height int, arenaW, arenaD float64) *ArenaView {
	v := &ArenaView{arenaW: arenaW, arenaD: arenaD}
	v.Resize(width, height)
	return v
}

// Attach lets the view look up the dice behind scene meshes.
func (v *ArenaView) Attach(s *sim.State) { v.state = s }

func (v *ArenaView) Resize(width, height int) {
	if width < 8 {
		width = 8
	}
	if height < 4 {
		height = 4
	}
	v.Width, v.Height = width, height
	v.cells = make([][]cell, height)
	for i := range v.cells {
		v.cells[i] = make([]cell, width)
	}
}

// Frames is the number of frames rendered so far.
func (v *ArenaView) Frames() int { return v.frames }

func (v *ArenaView) RenderFrame(g *scene.Graph, _ scene.Camera) error {
	v.clear()

	byMesh := make(map[*scene.Mesh]*dice.Die)
	if v.state != nil {
		for _, d := range v.state.Pool.Dice() {
			byMesh[d.Mesh] = d
		}
	}

	for _, m := range g.Objects() {
		d, ok := byMesh[m]
		if !ok {
			continue
		}
		col, row := v.project(m.Position.X(), m.Position.Z())
		glyph := strconv.Itoa(d.Value())
		if !d.Settled() {
			glyph = "?"
		}
		for i, r := range glyph {
			v.set(col+i, row, r, d.Color.Hex())
		}
	}

	v.frames++
	return nil
}

func (v *ArenaView) clear() {
	for y := range v.cells {
		for x := range v.cells[y] {
			switch {
			case y == 0 || y == v.Height-1 || x == 0 || x == v.Width-1:
				v.cells[y][x] = cell{r: '#'}
			default:
				v.cells[y][x] = cell{r: '·'}
			}
		}
	}
}

// project maps arena coordinates to a grid cell inside the walls.
func (v *ArenaView) project(x, z float64) (int, int) {
	col := int((x/v.arenaW + 0.5) * float64(v.Width-2))
	row := int((z/v.arenaD + 0.5) * float64(v.Height-2))
	return clampInt(col, 0, v.Width-3) + 1, clampInt(row, 0, v.Height-3) + 1
}

func (v *ArenaView) set(x, y int, r rune, color string) {
	if x > 0 && x < v.Width-1 && y > 0 && y < v.Height-1 {
		v.cells[y][x] = cell{r: r, color: color}
	}
}

// Plain returns the grid without styling.
func (v *ArenaView) Plain() string {
	var sb strings.Builder
	for y, row := range v.cells {
		for _, c := range row {
			sb.WriteRune(c.r)
		}
		if y < len(v.cells)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// String returns the grid with dice painted in their colors.
func (v *ArenaView) String() string {
	var sb strings.Builder
	for y, row := range v.cells {
		for _, c := range row {
			switch {
			case c.color != "":
				sb.WriteString(dieStyle(c.color).Render(string(c.r)))
			case c.r == '#':
				sb.WriteString(Subtle.Render("#"))
			default:
				sb.WriteRune(c.r)
			}
		}
		if y < len(v.cells)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
