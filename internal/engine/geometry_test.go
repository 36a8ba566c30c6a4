package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4}), eps)
	assert.InDelta(t, 0.0, Distance(Point{X: 2, Y: 2}, Point{X: 2, Y: 2}), eps)
}

func TestPolygonContains(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	reversed := []Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	diamond := []Point{{5, 0}, {10, 5}, {5, 10}, {0, 5}}

	tests := []struct {
		name string
		poly []Point
		p    Point
		want bool
	}{
		{"center", square, Point{X: 5, Y: 5}, true},
		{"outside", square, Point{X: 15, Y: 5}, false},
		{"on edge", square, Point{X: 10, Y: 5}, true},
		{"corner", square, Point{X: 0, Y: 0}, true},
		{"reversed winding", reversed, Point{X: 5, Y: 5}, true},
		{"reversed winding outside", reversed, Point{X: -1, Y: 5}, false},
		{"diamond center", diamond, Point{X: 5, Y: 5}, true},
		{"diamond bbox corner", diamond, Point{X: 1, Y: 1}, false},
		{"degenerate line", []Point{{0, 0}, {10, 0}, {10, 0}, {0, 0}}, Point{X: 5, Y: 0}, false},
		{"degenerate point", []Point{{3, 3}, {3, 3}, {3, 3}, {3, 3}}, Point{X: 3, Y: 3}, false},
		{"too few vertices", []Point{{0, 0}, {1, 1}}, Point{X: 0, Y: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolygonContains(tt.poly, tt.p))
		})
	}
}

func TestRect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	assert.True(t, a.Contains(10, 0), "edges count as inside")
	assert.False(t, a.Contains(10.5, 5))

	cx, cy := a.Center()
	assert.Equal(t, 5.0, cx)
	assert.Equal(t, 5.0, cy)
}
