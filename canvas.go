package main

import (
	"math"
	"strings"
)

// Canvas is the terminal Renderer. It keeps the latest frame handed to it by
// the editor and rasterises it into character cells on demand.
type Canvas struct {
	frame Frame
}

func NewCanvas() *Canvas {
	return &Canvas{}
}

func (c *Canvas) Render(frame Frame) {
	c.frame = frame
}

func (c *Canvas) Frame() Frame { return c.frame }

type cell struct {
	ch    rune
	style cellStyle
}

// grid is a window of world cells starting at (originX, originY).
type grid struct {
	width, height    int
	originX, originY int
	cells            [][]cell
}

func newGrid(width, height, originX, originY int) *grid {
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{ch: ' '}
		}
	}
	return &grid{width: width, height: height, originX: originX, originY: originY, cells: cells}
}

func (g *grid) set(x, y int, ch rune, style cellStyle) {
	x -= g.originX
	y -= g.originY
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y][x] = cell{ch: ch, style: style}
}

func (g *grid) get(x, y int) (cell, bool) {
	x -= g.originX
	y -= g.originY
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return cell{}, false
	}
	return g.cells[y][x], true
}

func (g *grid) setStyle(x, y int, style cellStyle) {
	if c, ok := g.get(x, y); ok {
		g.set(x, y, c.ch, style)
	}
}

func (g *grid) writeString(x, y int, s string, style cellStyle) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, style)
	}
}

func (g *grid) plainLines() []string {
	lines := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.ch)
		}
		lines[y] = b.String()
	}
	return lines
}

// styledLines renders each run of equally styled cells through lipgloss.
func (g *grid) styledLines() []string {
	lines := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		var run []rune
		current := styleNone
		flush := func() {
			if len(run) == 0 {
				return
			}
			if current == styleNone {
				b.WriteString(string(run))
			} else {
				b.WriteString(cellStyles[current].Render(string(run)))
			}
			run = run[:0]
		}
		for _, c := range row {
			if c.style != current {
				flush()
				current = c.style
			}
			run = append(run, c.ch)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

func toCell(p Point) (int, int) {
	return int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))
}

type cellRect struct {
	x, y, w, h int
}

func toCellRect(r Rect) cellRect {
	x, y := toCell(Point{r.X, r.Y})
	return cellRect{
		x: x,
		y: y,
		w: int(math.Round(r.Width / cellWidth)),
		h: int(math.Round(r.Height / cellHeight)),
	}
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// Draw rasterises the current frame into a width x height window whose top
// left is world cell (panX, panY).
func (c *Canvas) Draw(width, height, panX, panY int) *grid {
	return drawFrame(c.frame, newGrid(width, height, panX, panY))
}

func drawFrame(frame Frame, g *grid) *grid {
	// Lines first so nodes cover the parts that run inside them.
	for _, conn := range frame.Connections {
		drawConnection(g, conn)
	}
	for _, node := range frame.Nodes {
		drawNode(g, node, node.ID == frame.Selected, node.ID == frame.ConnectingFrom)
	}
	for _, conn := range frame.Connections {
		target, ok := frame.Node(conn.TargetID)
		if !ok {
			continue
		}
		drawArrowhead(g, conn, toCellRect(target.Rect))
		if conn.Path.HasLabel() {
			drawLabel(g, conn)
		}
	}
	return g
}

func drawNode(g *grid, node PlacedNode, selected, connecting bool) {
	r := toCellRect(node.Rect)
	if r.w < 2 || r.h < 2 {
		return
	}

	style := styleNode
	tl, tr, bl, br, hz, vt := '┌', '┐', '└', '┘', '─', '│'
	if node.Kind == KindCondition {
		style = styleCondition
		tl, tr, bl, br = '╭', '╮', '╰', '╯'
	}
	if selected {
		style = styleSelected
		tl, tr, bl, br, hz, vt = '#', '#', '#', '#', '#', '#'
	}

	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			ch := ' '
			switch {
			case y == r.y && x == r.x:
				ch = tl
			case y == r.y && x == r.x+r.w-1:
				ch = tr
			case y == r.y+r.h-1 && x == r.x:
				ch = bl
			case y == r.y+r.h-1 && x == r.x+r.w-1:
				ch = br
			case y == r.y || y == r.y+r.h-1:
				ch = hz
			case x == r.x || x == r.x+r.w-1:
				ch = vt
			}
			g.set(x, y, ch, style)
		}
	}

	inner := r.w - 2
	if r.h >= 3 && inner > 0 {
		g.writeString(r.x+1, r.y+1, truncate(node.Kind.String(), inner-1), style)
		g.set(r.x+r.w-2, r.y+1, '×', style)
	}

	rows := r.h - 3
	lines := strings.Split(node.Text, "\n")
	if node.Text == "" {
		placeholder := "Write something"
		if node.Kind == KindCondition {
			placeholder = "Enter condition"
		}
		if rows > 0 {
			g.writeString(r.x+1, r.y+2, truncate(placeholder, inner), stylePlaceholder)
		}
	} else {
		for i := 0; i < rows && i < len(lines); i++ {
			g.writeString(r.x+1, r.y+2+i, truncate(lines[i], inner), styleNone)
		}
	}

	if connecting {
		_, midY := toCell(node.Rect.Center())
		g.set(r.x, midY, '●', stylePort)
		g.set(r.x+r.w-1, midY, '●', stylePort)
	}
}

func drawConnection(g *grid, conn RoutedConnection) {
	style := styleEdge
	if conn.ConditionLink {
		style = styleConditionEdge
	}
	points := make([][2]int, len(conn.Path.Points))
	for i, p := range conn.Path.Points {
		x, y := toCell(p)
		points[i] = [2]int{x, y}
	}
	for i := 0; i < len(points)-1; i++ {
		for _, c := range lineCells(points[i], points[i+1]) {
			g.set(c[0], c[1], lineGlyph(points[i], points[i+1], conn.ConditionLink), style)
		}
	}
	for i := 1; i < len(points)-1; i++ {
		if ch, ok := cornerGlyph(points[i-1], points[i], points[i+1]); ok {
			g.set(points[i][0], points[i][1], ch, style)
		}
	}
}

// lineCells walks from a to b inclusive with Bresenham's algorithm.
func lineCells(a, b [2]int) [][2]int {
	x0, y0, x1, y1 := a[0], a[1], b[0], b[1]
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	cells := [][2]int{}
	err := dx + dy
	for {
		cells = append(cells, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return cells
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func lineGlyph(a, b [2]int, dashed bool) rune {
	dx, dy := b[0]-a[0], b[1]-a[1]
	switch {
	case dy == 0 || abs(dx) > 2*abs(dy):
		if dashed {
			return '╌'
		}
		return '─'
	case dx == 0 || abs(dy) > 2*abs(dx):
		if dashed {
			return '╎'
		}
		return '│'
	case dashed:
		return '·'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// cornerGlyph joins the segments prev->at and at->next when they turn at a right angle.
func cornerGlyph(prev, at, next [2]int) (rune, bool) {
	horizontal := func(p [2]int) int { return sign(p[0] - at[0]) }
	vertical := func(p [2]int) int { return sign(p[1] - at[1]) }

	var h, v int
	switch {
	case prev[1] == at[1] && next[0] == at[0]:
		h, v = horizontal(prev), vertical(next)
	case prev[0] == at[0] && next[1] == at[1]:
		h, v = horizontal(next), vertical(prev)
	default:
		return 0, false
	}

	switch {
	case h > 0 && v > 0:
		return '┌', true
	case h < 0 && v > 0:
		return '┐', true
	case h > 0 && v < 0:
		return '└', true
	case h < 0 && v < 0:
		return '┘', true
	}
	return 0, false
}

// drawArrowhead puts the arrow on the last cell of the path outside the target.
func drawArrowhead(g *grid, conn RoutedConnection, target cellRect) {
	from, to := conn.Path.End()
	fx, fy := toCell(from)
	tx, ty := toCell(to)
	cells := lineCells([2]int{fx, fy}, [2]int{tx, ty})

	for i := len(cells) - 1; i >= 0; i-- {
		x, y := cells[i][0], cells[i][1]
		if target.contains(x, y) {
			continue
		}
		style := styleEdge
		if conn.ConditionLink {
			style = styleConditionEdge
		}
		g.set(x, y, arrowGlyph(tx-fx, ty-fy), style)
		return
	}
}

func arrowGlyph(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx < 0 {
			return '◀'
		}
		return '▶'
	}
	if dy < 0 {
		return '▲'
	}
	return '▼'
}

func drawLabel(g *grid, conn RoutedConnection) {
	x, y := toCell(conn.Path.Label.Position)
	text := "[" + conn.Label + "]"
	if conn.Label == "" {
		text = "[ ]"
	}
	g.writeString(x-len([]rune(text))/2, y, text, styleLabel)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
