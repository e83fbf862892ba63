package main

import "math"

// AlignmentTolerance is how far apart two node centers may be horizontally
// and still count as stacked on top of each other.
const AlignmentTolerance = 20

type RouteStyle int

const (
	// RouteDiagonal is a single segment between facing edges, used for condition links.
	RouteDiagonal RouteStyle = iota
	// RouteStraight joins the centers of vertically aligned nodes.
	RouteStraight
	// RouteOrthogonal bends twice at the horizontal midpoint and carries the label.
	RouteOrthogonal
)

func (s RouteStyle) String() string {
	switch s {
	case RouteDiagonal:
		return "diagonal"
	case RouteStraight:
		return "straight"
	case RouteOrthogonal:
		return "orthogonal"
	default:
		return "unknown"
	}
}

type LabelAnchor struct {
	Position Point
}

// RoutedPath is the visual path of one connection. The last point is the
// target end, where the arrowhead goes.
type RoutedPath struct {
	Style  RouteStyle
	Points []Point
	Label  *LabelAnchor
}

// Route derives a connection's path from the two node rectangles. Both must
// have positive area and share a coordinate space.
func Route(source, target Rect, conditionLink bool) RoutedPath {
	sourceCenter := source.Center()
	targetCenter := target.Center()

	// Connections leave and enter through the sides facing each other.
	var sourceEdge, targetEdge Point
	if sourceCenter.X < targetCenter.X {
		sourceEdge = source.RightEdge()
		targetEdge = target.LeftEdge()
	} else {
		sourceEdge = source.LeftEdge()
		targetEdge = target.RightEdge()
	}

	if conditionLink {
		return RoutedPath{
			Style:  RouteDiagonal,
			Points: []Point{sourceEdge, targetEdge},
		}
	}

	if math.Abs(sourceCenter.X-targetCenter.X) < AlignmentTolerance {
		return RoutedPath{
			Style:  RouteStraight,
			Points: []Point{sourceCenter, targetCenter},
		}
	}

	midX := (sourceEdge.X + targetEdge.X) / 2
	return RoutedPath{
		Style: RouteOrthogonal,
		Points: []Point{
			sourceEdge,
			{midX, sourceEdge.Y},
			{midX, targetEdge.Y},
			targetEdge,
		},
		Label: &LabelAnchor{Position: Point{midX, (sourceEdge.Y + targetEdge.Y) / 2}},
	}
}

// Segments returns consecutive point pairs.
func (p RoutedPath) Segments() [][2]Point {
	if len(p.Points) < 2 {
		return nil
	}
	segs := make([][2]Point, 0, len(p.Points)-1)
	for i := 0; i < len(p.Points)-1; i++ {
		segs = append(segs, [2]Point{p.Points[i], p.Points[i+1]})
	}
	return segs
}

// End returns the last two points, giving the arrow direction.
func (p RoutedPath) End() (from, to Point) {
	n := len(p.Points)
	if n < 2 {
		return Point{}, Point{}
	}
	return p.Points[n-2], p.Points[n-1]
}

func (p RoutedPath) HasLabel() bool {
	return p.Label != nil
}
