package main

import (
	"math"
	"math/rand/v2"
)

// Layout tells the editor how large a node is on the rendering surface.
type Layout interface {
	NodeRect(node Node) Rect
}

// FixedLayout gives every node of a kind the same size.
type FixedLayout struct {
	RegularWidth, RegularHeight     float64
	ConditionWidth, ConditionHeight float64
}

func DefaultLayout() FixedLayout {
	return FixedLayout{
		RegularWidth:    20 * cellWidth,
		RegularHeight:   4 * cellHeight,
		ConditionWidth:  22 * cellWidth,
		ConditionHeight: 4 * cellHeight,
	}
}

func (l FixedLayout) NodeRect(node Node) Rect {
	w, h := l.RegularWidth, l.RegularHeight
	if node.Kind == KindCondition {
		w, h = l.ConditionWidth, l.ConditionHeight
	}
	return Rect{X: node.Position.X, Y: node.Position.Y, Width: w, Height: h}
}

// randomPosition picks a top-left corner that keeps a node of the given size
// inside bounds, leaving margin on every side when there is room for it.
func randomPosition(rng *rand.Rand, bounds Rect, width, height, margin float64) Point {
	pick := func(origin, extent, size float64) float64 {
		span := extent - size - 2*margin
		if span <= 0 {
			return origin + math.Max(0, (extent-size)/2)
		}
		return origin + margin + rng.Float64()*span
	}
	return Point{
		X: pick(bounds.X, bounds.Width, width),
		Y: pick(bounds.Y, bounds.Height, height),
	}
}
