package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name          string
		source        Rect
		target        Rect
		conditionLink bool
		wantStyle     RouteStyle
		wantPoints    []Point
		wantLabel     *LabelAnchor
	}{
		{
			name:       "side by side regular nodes bend with a label",
			source:     Rect{0, 0, 100, 60},
			target:     Rect{300, 0, 100, 60},
			wantStyle:  RouteOrthogonal,
			wantPoints: []Point{{100, 30}, {200, 30}, {200, 30}, {300, 30}},
			wantLabel:  &LabelAnchor{Position: Point{200, 30}},
		},
		{
			name:       "nearly stacked regular nodes join centers",
			source:     Rect{0, 0, 100, 60},
			target:     Rect{10, 0, 100, 60},
			wantStyle:  RouteStraight,
			wantPoints: []Point{{50, 30}, {60, 30}},
		},
		{
			name:          "condition link is one diagonal segment",
			source:        Rect{0, 0, 100, 60},
			target:        Rect{300, 200, 100, 60},
			conditionLink: true,
			wantStyle:     RouteDiagonal,
			wantPoints:    []Point{{100, 30}, {300, 230}},
		},
		{
			name:          "condition link stays diagonal when aligned",
			source:        Rect{0, 0, 100, 60},
			target:        Rect{5, 200, 100, 60},
			conditionLink: true,
			wantStyle:     RouteDiagonal,
			wantPoints:    []Point{{100, 30}, {5, 230}},
		},
		{
			name:       "target on the left exits from the left edge",
			source:     Rect{300, 0, 100, 60},
			target:     Rect{0, 200, 100, 60},
			wantStyle:  RouteOrthogonal,
			wantPoints: []Point{{300, 30}, {200, 30}, {200, 230}, {100, 230}},
			wantLabel:  &LabelAnchor{Position: Point{200, 130}},
		},
		{
			name:       "center offset of exactly the tolerance bends",
			source:     Rect{0, 0, 100, 60},
			target:     Rect{20, 100, 100, 60},
			wantStyle:  RouteOrthogonal,
			wantPoints: []Point{{100, 30}, {60, 30}, {60, 130}, {20, 130}},
			wantLabel:  &LabelAnchor{Position: Point{60, 80}},
		},
		{
			name:       "center offset just under the tolerance is straight",
			source:     Rect{0, 0, 100, 60},
			target:     Rect{19.5, 100, 100, 60},
			wantStyle:  RouteStraight,
			wantPoints: []Point{{50, 30}, {69.5, 130}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := Route(tt.source, tt.target, tt.conditionLink)
			assert.Equal(t, tt.wantStyle, path.Style)
			assert.Equal(t, tt.wantPoints, path.Points)
			assert.Equal(t, tt.wantLabel, path.Label)
		})
	}
}

func TestRoute_Properties(t *testing.T) {
	var rects []Rect
	for x := -200.0; x <= 200; x += 7 {
		for _, y := range []float64{-150, 0, 45, 300} {
			rects = append(rects, Rect{X: x, Y: y, Width: 100, Height: 60})
		}
	}
	source := Rect{X: 0, Y: 0, Width: 100, Height: 60}

	for _, target := range rects {
		diff := math.Abs(source.Center().X - target.Center().X)

		condition := Route(source, target, true)
		assert.Nil(t, condition.Label, "condition links never carry a label")
		assert.Len(t, condition.Points, 2)

		path := Route(source, target, false)
		if diff < AlignmentTolerance {
			assert.Len(t, path.Points, 2)
			assert.Nil(t, path.Label)
			continue
		}

		require.Len(t, path.Points, 4)
		p := path.Points
		assert.Equal(t, p[0].Y, p[1].Y, "first segment is horizontal")
		assert.Equal(t, p[1].X, p[2].X, "middle segment is vertical")
		assert.Equal(t, p[2].Y, p[3].Y, "last segment is horizontal")
		require.NotNil(t, path.Label)
		assert.Equal(t, (p[0].X+p[3].X)/2, path.Label.Position.X)
		assert.Equal(t, (p[0].Y+p[3].Y)/2, path.Label.Position.Y)
	}
}

func TestRoute_EndsAtTarget(t *testing.T) {
	source := Rect{0, 0, 100, 60}
	target := Rect{300, 100, 100, 60}

	path := Route(source, target, false)
	from, to := path.End()
	assert.Equal(t, target.LeftEdge(), to)
	assert.Equal(t, Point{200, 130}, from)

	back := Route(target, source, false)
	_, to = back.End()
	assert.Equal(t, source.RightEdge(), to)
}

func TestRoutedPath_Segments(t *testing.T) {
	path := Route(Rect{0, 0, 100, 60}, Rect{300, 0, 100, 60}, false)
	segs := path.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, [2]Point{{100, 30}, {200, 30}}, segs[0])
	assert.Equal(t, [2]Point{{200, 30}, {300, 30}}, segs[2])

	assert.Nil(t, RoutedPath{}.Segments())
	from, to := RoutedPath{}.End()
	assert.Equal(t, Point{}, from)
	assert.Equal(t, Point{}, to)
}
