package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/incense/internal/model"
)

const (
	stickRows    = 3
	fieldRows    = 6
	minFieldCols = 40
)

// placedStick is a stick mapped onto the character grid.
type placedStick struct {
	id    int
	col   int
	row   int
	glyphs [stickRows]rune
}

// stickGlyphs draws a stick top to bottom by its tilt. Angles above 90 lean
// left. Tilts under 3° only bend the tip.
func stickGlyphs(angle float64) [stickRows]rune {
	rot := angle - 90
	lean := '╱'
	steep := '/'
	if rot > 0 {
		lean = '╲'
		steep = '\\'
	}
	var out [stickRows]rune
	for i := range out {
		switch {
		case rot == 0:
			out[i] = '│'
		case math.Abs(rot) < 3:
			out[i] = '│'
			if i == 0 {
				out[i] = lean
			}
		case math.Abs(rot) < 12:
			out[i] = lean
		default:
			out[i] = steep
		}
	}
	return out
}

// visibleOrder returns unconsumed sticks sorted left to right.
func visibleOrder(sticks []model.Stick) []model.Stick {
	out := make([]model.Stick, 0, len(sticks))
	for _, s := range sticks {
		if !s.Consumed {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position.X == out[j].Position.X {
			return out[i].ID < out[j].ID
		}
		return out[i].Position.X < out[j].Position.X
	})
	return out
}

// placeSticks maps field coordinates onto cols columns, one stick per column.
func placeSticks(sticks []model.Stick, layout model.Layout, cols int) []placedStick {
	if len(sticks) == 0 || cols <= 0 {
		return nil
	}
	minX, maxX := sticks[0].Position.X, sticks[0].Position.X
	centerY := layout.Holder.Y + layout.HeightOffset
	for _, s := range sticks[1:] {
		minX = math.Min(minX, s.Position.X)
		maxX = math.Max(maxX, s.Position.X)
	}
	spanX := maxX - minX
	half := layout.Height / 2
	maxRow := fieldRows - stickRows

	used := make([]bool, cols)
	out := make([]placedStick, 0, len(sticks))
	for _, s := range sticks {
		col := 0
		if spanX > 0 {
			col = int(math.Round((s.Position.X - minX) / spanX * float64(cols-1)))
		}
		for col < cols-1 && used[col] {
			col++
		}
		for col > 0 && used[col] {
			col--
		}
		used[col] = true

		row := maxRow / 2
		if half > 0 {
			// Higher Y plants the stick further up the field.
			pos := (centerY + half - s.Position.Y) / (2 * half)
			row = int(math.Round(math.Max(0, math.Min(1, pos)) * float64(maxRow)))
		}
		out = append(out, placedStick{id: s.ID, col: col, row: row, glyphs: stickGlyphs(s.Angle)})
	}
	return out
}

// renderField draws placed sticks, highlighting the one with selectedID.
func renderField(placed []placedStick, cols, selectedID int) string {
	grid := make([][]string, fieldRows+1)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	for _, p := range placed {
		style := stickStyle
		if p.id == selectedID {
			style = selectedStickStyle
		}
		for i := 0; i < stickRows && p.row+i < fieldRows; i++ {
			grid[p.row+i][p.col] = style.Render(string(p.glyphs[i]))
		}
		if p.id == selectedID {
			grid[fieldRows][p.col] = cursorStyle.Render("^")
		}
	}
	lines := make([]string, len(grid))
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func fieldCols(width, sticks int) int {
	cols := int(float64(width) * 0.7)
	if cols < sticks*2 {
		cols = sticks * 2
	}
	if cols < minFieldCols {
		cols = minFieldCols
	}
	return cols
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
