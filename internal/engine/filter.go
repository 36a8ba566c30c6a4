package engine

// NoColor is the channel sentinel meaning "no filter".
const NoColor = -1

// ColorFilter is a 4x5 color matrix that recolors a sticker's opaque pixels
// to a solid RGB while keeping its alpha.
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
type ColorFilter struct {
	R, G, B int
	Matrix  [20]float32
}

// NewTintFilter builds the recolor matrix for r, g, b. Channels are clamped
// to [0, 255].
func NewTintFilter(r, g, b int) *ColorFilter {
	r, g, b = clampChannel(r), clampChannel(g), clampChannel(b)
	return &ColorFilter{
		R: r, G: g, B: b,
		Matrix: [20]float32{
			0, 0, 0, 0, float32(r),
			0, 0, 0, 0, float32(g),
			0, 0, 0, 0, float32(b),
			0, 0, 0, 1, 0,
		},
	}
}

func clampChannel(v int) int {
	return min(max(v, 0), 255)
}
