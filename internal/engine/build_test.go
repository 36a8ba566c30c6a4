package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stickers/internal/document"
)

func TestBoardDocumentRoundTrip(t *testing.T) {
	doc := document.NewSampleBoard("board_1")
	b, err := BoardFromDocument(doc)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	first, second := doc.Order[0], doc.Order[1]
	s, ok := b.Get(second)
	require.True(t, ok)
	require.NotNil(t, s.ColorFilter())
	assert.Equal(t, 255, s.ColorFilter().R)
	assert.Len(t, s.Menus(), 2)
	assert.Equal(t, uint32(960), s.MaxSize())
	assert.True(t, s.AutoLift())

	require.NoError(t, b.Rotate(first, 90))
	require.NoError(t, b.Delete(second))

	out := document.NewEmptyBoard("board_1", "copy")
	BoardToDocument(b, out)

	assert.Equal(t, []string{first, second}, out.Order)
	assert.True(t, out.Stickers[second].Deleted)
	assert.Equal(t, &document.Tint{R: 255, G: 128, B: 0}, out.Stickers[second].Tint)
	assert.Equal(t, [6]float64(mustGet(t, b, first).Matrix()), out.Stickers[first].Transform)
	assert.Equal(t, int64(2), out.Clock)

	again, err := BoardFromDocument(out)
	require.NoError(t, err)
	assert.Equal(t, []string{first}, ids(again.DrawOrder()))
}

func TestBoardFromDocumentResumesClock(t *testing.T) {
	doc := document.NewEmptyBoard("board_1", "b")
	doc.Stickers["low"] = document.StickerNode{ID: "low", Width: 1, Height: 1, LayerKey: -40}
	doc.Stickers["high"] = document.StickerNode{ID: "high", Width: 1, Height: 1, LayerKey: 12}
	doc.Order = []string{"high", "low"}

	b, err := BoardFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high"}, ids(b.DrawOrder()))

	require.NoError(t, b.BringToFront("low"))
	assert.Equal(t, []string{"high", "low"}, ids(b.DrawOrder()))
	assert.Greater(t, mustGet(t, b, "low").LayerKey(), int64(40))
}

func TestBoardFromDocumentStrayStickers(t *testing.T) {
	doc := document.NewEmptyBoard("board_1", "b")
	doc.Stickers["b"] = document.StickerNode{ID: "b", LayerKey: 2}
	doc.Stickers["a"] = document.StickerNode{ID: "a", LayerKey: 2}
	doc.Stickers["c"] = document.StickerNode{ID: "c", LayerKey: 1}
	doc.Order = []string{"missing", "b"}

	b, err := BoardFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(b.All()))
}

func TestBoardFromDocumentMissingTransform(t *testing.T) {
	doc := document.NewEmptyBoard("board_1", "b")
	doc.Stickers["a"] = document.StickerNode{ID: "a", Width: 100, Height: 100, LayerKey: 1}
	doc.Stickers["b"] = document.StickerNode{ID: "b", Width: 10, Height: 10, LayerKey: 2, Transform: [6]float64{1, 0, 0, 1, 300, 0}}
	doc.Order = []string{"a", "b"}

	b, err := BoardFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, Identity(), mustGet(t, b, "a").Matrix())
	assert.Same(t, mustGet(t, b, "a"), b.HitTest(50, 50))
	assert.Equal(t, Translate(300, 0), mustGet(t, b, "b").Matrix())
}

func TestBoardFromDocumentRejectsBadMenu(t *testing.T) {
	doc := document.NewEmptyBoard("board_1", "b")
	doc.Stickers["a"] = document.StickerNode{
		ID:    "a",
		Menus: []document.MenuNode{{Position: "middle", Role: "delete"}},
	}

	_, err := BoardFromDocument(doc)
	assert.ErrorContains(t, err, "unknown menu position")
}

func mustGet(t *testing.T, b *Board, id string) *Sticker {
	t.Helper()
	s, ok := b.Get(id)
	require.True(t, ok, id)
	return s
}
