package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one screen cell with its styling. The renderer composes the whole
// frame into a cell grid first, then folds runs of identical style into
// lipgloss-rendered chunks.
type cell struct {
	ch      rune
	color   string
	bold    bool
	reverse bool
}

var statusColors = map[EquipmentStatus]string{
	StatusRunning:     "42",
	StatusIdle:        "220",
	StatusMaintenance: "39",
	StatusDown:        "196",
	StatusUnknown:     "245",
}

var statusGlyphs = map[EquipmentStatus]rune{
	StatusRunning:     '●',
	StatusIdle:        '◐',
	StatusMaintenance: '◆',
	StatusDown:        '○',
	StatusUnknown:     '·',
}

const selectedColor = "205"

// worldToCell converts world coordinates to screen cells, pan applied.
func worldToCell(x, y float64, panX, panY int) (int, int) {
	return int(math.Round(x/worldScaleX)) - panX, int(math.Round(y/worldScaleY)) - panY
}

// cellToWorld converts a screen cell back to world coordinates.
func cellToWorld(cx, cy, panX, panY int) (float64, float64) {
	return float64(cx+panX) * worldScaleX, float64(cy+panY) * worldScaleY
}

// nodeAtCell returns the node whose card covers the given screen cell.
func nodeAtCell(nodes []Node, cx, cy, panX, panY int) (Node, bool) {
	// Later nodes draw on top, so search back to front.
	for i := len(nodes) - 1; i >= 0; i-- {
		nx, ny := worldToCell(nodes[i].X, nodes[i].Y, panX, panY)
		if cx >= nx && cx < nx+cardWidth && cy >= ny && cy < ny+cardHeight {
			return nodes[i], true
		}
	}
	return Node{}, false
}

// renderCanvas draws edges then node cards into a cell grid and returns one
// string per row. The cursor cell is drawn reversed.
func renderCanvas(nodes []Node, edges []Edge, mode EdgeRenderMode, width, height, panX, panY, cursorX, cursorY int, showCursor bool) []string {
	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' '}
		}
	}

	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, e := range edges {
		drawEdge(grid, e, byID, mode, panX, panY)
	}
	for _, n := range nodes {
		drawCard(grid, n, panX, panY)
	}

	if showCursor && cursorY >= 0 && cursorY < height && cursorX >= 0 && cursorX < width {
		grid[cursorY][cursorX].reverse = true
	}

	lines := make([]string, height)
	for y := range grid {
		lines[y] = renderRow(grid[y])
	}
	return lines
}

// renderRow folds a cell row into a styled string, batching runs that share
// the same style so we don't emit escape codes per cell.
func renderRow(row []cell) string {
	var b strings.Builder
	var run []rune
	var cur cell
	flush := func() {
		if len(run) == 0 {
			return
		}
		s := string(run)
		if cur.color != "" || cur.bold || cur.reverse {
			style := lipgloss.NewStyle()
			if cur.color != "" {
				style = style.Foreground(lipgloss.Color(cur.color))
			}
			if cur.bold {
				style = style.Bold(true)
			}
			if cur.reverse {
				style = style.Reverse(true)
			}
			s = style.Render(s)
		}
		b.WriteString(s)
		run = run[:0]
	}
	for i, c := range row {
		if i == 0 || c.color != cur.color || c.bold != cur.bold || c.reverse != cur.reverse {
			flush()
			cur = c
		}
		run = append(run, c.ch)
	}
	flush()
	return b.String()
}

func putCell(grid [][]cell, x, y int, ch rune, color string, bold bool) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x].ch = ch
	grid[y][x].color = color
	grid[y][x].bold = bold
}

// drawCard draws one node card:
//
//	╭────────────────────╮
//	│ CODE             ● │
//	│ name               │
//	╰────────────────────╯
func drawCard(grid [][]cell, n Node, panX, panY int) {
	cx, cy := worldToCell(n.X, n.Y, panX, panY)
	border := ""
	if n.Selected {
		border = selectedColor
	}
	inner := cardWidth - 2

	putCell(grid, cx, cy, '╭', border, n.Selected)
	putCell(grid, cx+cardWidth-1, cy, '╮', border, n.Selected)
	putCell(grid, cx, cy+cardHeight-1, '╰', border, n.Selected)
	putCell(grid, cx+cardWidth-1, cy+cardHeight-1, '╯', border, n.Selected)
	for x := 1; x < cardWidth-1; x++ {
		putCell(grid, cx+x, cy, '─', border, n.Selected)
		putCell(grid, cx+x, cy+cardHeight-1, '─', border, n.Selected)
	}
	for y := 1; y < cardHeight-1; y++ {
		putCell(grid, cx, cy+y, '│', border, n.Selected)
		putCell(grid, cx+cardWidth-1, cy+y, '│', border, n.Selected)
		for x := 1; x < cardWidth-1; x++ {
			putCell(grid, cx+x, cy+y, ' ', "", false)
		}
	}

	code := clip(n.Equipment.Code, inner-4)
	for i, r := range code {
		putCell(grid, cx+2+i, cy+1, r, "", true)
	}
	glyph, ok := statusGlyphs[n.Equipment.Status]
	if !ok {
		glyph = statusGlyphs[StatusUnknown]
	}
	putCell(grid, cx+cardWidth-3, cy+1, glyph, statusColors[n.Equipment.Status], false)

	name := clip(n.Equipment.Name, inner-2)
	for i, r := range name {
		putCell(grid, cx+2+i, cy+2, r, "245", false)
	}
}

func clip(s string, max int) []rune {
	r := []rune(s)
	if max < 0 {
		max = 0
	}
	if len(r) > max {
		r = r[:max]
	}
	return r
}

// anchorCell returns the screen cell just outside a card where an edge with
// the given handle attaches.
func anchorCell(n Node, handle string, panX, panY int) (int, int) {
	cx, cy := worldToCell(n.X, n.Y, panX, panY)
	switch handle {
	case HandleTop:
		return cx + cardWidth/2, cy - 1
	case HandleBottom:
		return cx + cardWidth/2, cy + cardHeight
	case HandleLeft:
		return cx - 1, cy + cardHeight/2
	default:
		return cx + cardWidth, cy + cardHeight/2
	}
}

func arrowForHandle(handle string) rune {
	switch handle {
	case HandleTop:
		return '▼'
	case HandleBottom:
		return '▲'
	case HandleLeft:
		return '▶'
	default:
		return '◀'
	}
}

func drawEdge(grid [][]cell, e Edge, nodes map[string]Node, mode EdgeRenderMode, panX, panY int) {
	source, ok := nodes[e.SourceID]
	if !ok {
		return
	}
	target, ok := nodes[e.TargetID]
	if !ok {
		return
	}
	x1, y1 := anchorCell(source, e.SourceHandle, panX, panY)
	x2, y2 := anchorCell(target, e.TargetHandle, panX, panY)

	switch mode {
	case EdgeStraight:
		drawStraight(grid, x1, y1, x2, y2, e)
	default:
		drawOrthogonal(grid, x1, y1, x2, y2, e, mode == EdgeRounded)
	}
	putCell(grid, x2, y2, arrowForHandle(e.TargetHandle), e.Color, false)
}

// drawStraight steps along the dominant axis, dotting the path.
func drawStraight(grid [][]cell, x1, y1, x2, y2 int, e Edge) {
	dx, dy := x2-x1, y2-y1
	steps := absInt(dx)
	if absInt(dy) > steps {
		steps = absInt(dy)
	}
	if steps == 0 {
		return
	}
	ch := '·'
	if e.Animated {
		ch = '∙'
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		putCell(grid, x, y, ch, e.Color, false)
	}
}

// drawOrthogonal routes horizontal-then-vertical-then-horizontal through a
// midpoint, optionally with rounded corners.
func drawOrthogonal(grid [][]cell, x1, y1, x2, y2 int, e Edge, rounded bool) {
	h, v := '─', '│'
	if e.Animated {
		h, v = '┄', '┆'
	}
	if y1 == y2 {
		for x := minInt(x1, x2); x <= maxInt(x1, x2); x++ {
			putCell(grid, x, y1, h, e.Color, false)
		}
		return
	}
	midX := (x1 + x2) / 2
	for x := minInt(x1, midX); x <= maxInt(x1, midX); x++ {
		putCell(grid, x, y1, h, e.Color, false)
	}
	for y := minInt(y1, y2); y <= maxInt(y1, y2); y++ {
		putCell(grid, midX, y, v, e.Color, false)
	}
	for x := minInt(midX, x2); x <= maxInt(midX, x2); x++ {
		putCell(grid, x, y2, h, e.Color, false)
	}
	if rounded {
		putCell(grid, midX, y1, cornerRune(x1 < midX, y2 > y1), e.Color, false)
		putCell(grid, midX, y2, cornerRune(x2 < midX, y2 < y1), e.Color, false)
	} else {
		putCell(grid, midX, y1, '+', e.Color, false)
		putCell(grid, midX, y2, '+', e.Color, false)
	}
}

// cornerRune picks the box-drawing corner for a turn entered horizontally
// from the given side, leaving vertically in the given direction.
func cornerRune(fromLeft, goingDown bool) rune {
	switch {
	case fromLeft && goingDown:
		return '╮'
	case fromLeft && !goingDown:
		return '╯'
	case !fromLeft && goingDown:
		return '╭'
	default:
		return '╰'
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
