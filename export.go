package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var errNothingToExport = errors.New("nothing to export")

var (
	pngConditionColor = color.RGBA{0xff, 0x98, 0x00, 0xff}
	pngSelectedColor  = color.RGBA{0x1e, 0x88, 0xe5, 0xff}
	pngPlaceholder    = color.Gray{0x99}
)

// frameBounds is the smallest rectangle holding every node and path point.
func frameBounds(frame Frame) (Rect, bool) {
	if len(frame.Nodes) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(p Point) {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	for _, node := range frame.Nodes {
		grow(Point{node.Rect.X, node.Rect.Y})
		grow(Point{node.Rect.X + node.Rect.Width, node.Rect.Y + node.Rect.Height})
	}
	for _, conn := range frame.Connections {
		for _, p := range conn.Path.Points {
			grow(p)
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// ExportPNG draws the frame at one pixel per model unit.
func ExportPNG(frame Frame, filename string) error {
	bounds, ok := frameBounds(frame)
	if !ok {
		return errNothingToExport
	}

	padding := 2 * cellHeight
	originX := bounds.X - padding
	originY := bounds.Y - padding
	dc := gg.NewContext(int(math.Ceil(bounds.Width+2*padding)), int(math.Ceil(bounds.Height+2*padding)))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	local := func(p Point) (float64, float64) { return p.X - originX, p.Y - originY }

	for _, conn := range frame.Connections {
		drawConnectionPNG(dc, conn, local)
	}
	for _, node := range frame.Nodes {
		drawNodePNG(dc, node, node.ID == frame.Selected, local)
	}
	for _, conn := range frame.Connections {
		if conn.Path.HasLabel() && conn.Label != "" {
			x, y := local(conn.Path.Label.Position)
			w, h := dc.MeasureString(conn.Label)
			dc.SetColor(color.White)
			dc.DrawRectangle(x-w/2-3, y-h/2-3, w+6, h+6)
			dc.Fill()
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(conn.Label, x, y, 0.5, 0.5)
		}
	}

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("save png %s: %w", filename, err)
	}
	return nil
}

func drawConnectionPNG(dc *gg.Context, conn RoutedConnection, local func(Point) (float64, float64)) {
	points := conn.Path.Points
	if len(points) < 2 {
		return
	}

	dc.SetLineWidth(2)
	dc.SetColor(color.Black)
	if conn.ConditionLink {
		dc.SetColor(pngConditionColor)
		dc.SetDash(5, 3)
	}
	x, y := local(points[0])
	dc.MoveTo(x, y)
	for _, p := range points[1:] {
		x, y = local(p)
		dc.LineTo(x, y)
	}
	dc.Stroke()
	dc.SetDash()

	from, to := conn.Path.End()
	fx, fy := local(from)
	tx, ty := local(to)
	drawArrowPNG(dc, fx, fy, tx, ty)
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	arrowSize := 10.0
	arrowAngle := 0.35

	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func drawNodePNG(dc *gg.Context, node PlacedNode, selected bool, local func(Point) (float64, float64)) {
	x, y := local(Point{node.Rect.X, node.Rect.Y})
	w, h := node.Rect.Width, node.Rect.Height

	border := color.Color(color.Black)
	if node.Kind == KindCondition {
		border = pngConditionColor
	}
	if selected {
		border = pngSelectedColor
	}

	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(x, y, w, h, 4)
	dc.Fill()
	dc.SetLineWidth(2)
	dc.SetColor(border)
	dc.DrawRoundedRectangle(x, y, w, h, 4)
	dc.Stroke()

	dc.DrawString(node.Kind.String(), x+cellWidth, y+cellHeight)

	if node.Text == "" {
		dc.SetColor(pngPlaceholder)
		dc.DrawString("...", x+cellWidth, y+2*cellHeight)
		return
	}
	dc.SetColor(color.Black)
	for i, line := range strings.Split(node.Text, "\n") {
		lineY := y + float64(i+2)*cellHeight
		if lineY > y+h-cellHeight/2 {
			break
		}
		dc.DrawString(line, x+cellWidth, lineY)
	}
}

// ExportVisualTXT writes the frame as it appears in the terminal, without
// cursor or styling.
func ExportVisualTXT(frame Frame, filename string) error {
	bounds, ok := frameBounds(frame)
	if !ok {
		return errNothingToExport
	}

	x0, y0 := toCell(Point{bounds.X, bounds.Y})
	x1, y1 := toCell(Point{bounds.X + bounds.Width, bounds.Y + bounds.Height})
	g := drawFrame(frame, newGrid(x1-x0+2, y1-y0+2, x0-1, y0-1))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range g.plainLines() {
		if _, err := fmt.Fprintln(file, strings.TrimRight(line, " ")); err != nil {
			return fmt.Errorf("write %s: %w", filename, err)
		}
	}
	return nil
}
