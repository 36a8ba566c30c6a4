package engine

import "math"

// Point is a 2D coordinate in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// areaEpsilon is the smallest polygon area still treated as hittable.
const areaEpsilon = 1e-9

// PolygonContains reports whether p lies inside the convex polygon poly.
// Vertices may be in either winding order. Points on an edge count as inside.
// Degenerate polygons (fewer than three vertices or no area) contain nothing.
func PolygonContains(poly []Point, p Point) bool {
	if len(poly) < 3 || !(math.Abs(signedArea(poly)) >= areaEpsilon) {
		return false
	}

	var pos, neg bool
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		switch {
		case cross > 0:
			pos = true
		case cross < 0:
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// signedArea is the shoelace area of poly; the sign follows the winding.
func signedArea(poly []Point) float64 {
	var sum float64
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}
