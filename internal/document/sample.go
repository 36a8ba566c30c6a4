package document

import "github.com/inamate/stickers/internal/typeid"

// placeholderSize matches the engine's default placeholder content.
const placeholderSize = 192

// NewSampleBoard creates a board with two placeholder stickers, the second
// one tinted and stacked above the first.
func NewSampleBoard(boardID string) *InBoard {
	b := NewEmptyBoard(boardID, "Untitled")

	first := typeid.NewStickerID()
	second := typeid.NewStickerID()

	b.Stickers[first] = StickerNode{
		ID:        first,
		Width:     placeholderSize,
		Height:    placeholderSize,
		Transform: [6]float64{1.5, 0, 0, 1.5, 200, 300},
		LayerKey:  1,
		MinSize:   48,
		MaxSize:   960,
		AutoLift:  true,
		Menus:     DefaultMenus(),
	}
	b.Stickers[second] = StickerNode{
		ID:        second,
		Width:     placeholderSize,
		Height:    placeholderSize,
		Transform: [6]float64{1, 0, 0, 1, 420, 640},
		LayerKey:  2,
		MinSize:   48,
		MaxSize:   960,
		AutoLift:  true,
		Tint:      &Tint{R: 255, G: 128, B: 0},
		Menus:     DefaultMenus(),
	}
	b.Order = []string{first, second}
	b.Clock = 2

	return b
}
