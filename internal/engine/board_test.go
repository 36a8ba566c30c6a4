package engine

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	return NewBoard(WithClock(NewCounterClock(0)))
}

func ids(stickers []*Sticker) []string {
	out := make([]string, 0, len(stickers))
	for _, s := range stickers {
		out = append(out, s.ID())
	}
	return out
}

func TestBoardDrawOrder(t *testing.T) {
	b := newTestBoard(t)
	b.NewSticker("a", 10, 10)
	b.NewSticker("b", 10, 10)
	b.NewSticker("c", 10, 10)
	assert.Equal(t, []string{"a", "b", "c"}, ids(b.DrawOrder()))

	require.NoError(t, b.BringToFront("a"))
	assert.Equal(t, []string{"b", "c", "a"}, ids(b.DrawOrder()))

	require.NoError(t, b.BringToBack("c"))
	assert.Equal(t, []string{"c", "b", "a"}, ids(b.DrawOrder()))

	require.NoError(t, b.Delete("b"))
	assert.Equal(t, []string{"c", "a"}, ids(b.DrawOrder()))
	assert.Equal(t, 3, b.Len())
}

func TestBoardDrawOrderTiesKeepInsertion(t *testing.T) {
	b := newTestBoard(t)
	require.NoError(t, b.Add(NewSticker("x", 1, 1, 5)))
	require.NoError(t, b.Add(NewSticker("y", 1, 1, 5)))
	require.NoError(t, b.Add(NewSticker("z", 1, 1, 5)))

	assert.Equal(t, []string{"x", "y", "z"}, ids(b.DrawOrder()))
}

func TestBoardAddDuplicate(t *testing.T) {
	b := newTestBoard(t)
	b.NewSticker("a", 1, 1)
	err := b.Add(NewSticker("a", 1, 1, 9))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestBoardHitTestFrontMostWins(t *testing.T) {
	b := newTestBoard(t)
	under := b.NewSticker("under", 100, 100)
	over := b.NewSticker("over", 100, 100)
	over.Translate(50, 50)

	assert.Same(t, over, b.HitTest(75, 75))
	assert.Same(t, under, b.HitTest(25, 25))
	assert.Nil(t, b.HitTest(500, 500))

	require.NoError(t, b.BringToFront("under"))
	assert.Same(t, under, b.HitTest(75, 75))

	require.NoError(t, b.Delete("under"))
	assert.Same(t, over, b.HitTest(75, 75))
	assert.Nil(t, b.HitTest(25, 25))
}

func TestBoardSelect(t *testing.T) {
	b := newTestBoard(t)
	a := b.NewSticker("a", 10, 10)
	c := b.NewSticker("c", 10, 10)
	a.SetAutoLift(true)

	require.NoError(t, b.Select("c"))
	assert.Same(t, c, b.Active())

	require.NoError(t, b.Select("a"))
	assert.True(t, a.IsActive())
	assert.False(t, c.IsActive())
	assert.Equal(t, []string{"c", "a"}, ids(b.DrawOrder()), "auto-lift brings the selection to the front")

	b.Deselect()
	assert.Nil(t, b.Active())
	assert.Equal(t, Rect{}, b.SelectionBounds())
}

func TestBoardSelectWithoutAutoLift(t *testing.T) {
	b := newTestBoard(t)
	b.NewSticker("a", 10, 10)
	b.NewSticker("c", 10, 10)

	require.NoError(t, b.Select("a"))
	assert.Equal(t, []string{"a", "c"}, ids(b.DrawOrder()))
}

func TestBoardEditingErrors(t *testing.T) {
	b := newTestBoard(t)
	b.NewSticker("a", 10, 10)
	require.NoError(t, b.Delete("a"))
	require.NoError(t, b.Delete("a"), "deleting twice is fine")

	assert.ErrorIs(t, b.Select("a"), ErrDeleted)
	assert.ErrorIs(t, b.Translate("a", 1, 1), ErrDeleted)
	assert.ErrorIs(t, b.Rotate("missing", 10), ErrNotFound)
	assert.ErrorIs(t, b.Delete("missing"), ErrNotFound)
	_, err := b.Scale("missing", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoardScaleGuard(t *testing.T) {
	b := newTestBoard(t)
	s := b.NewSticker("a", 50, 50)
	s.SetMinSize(10)
	s.SetMaxSize(100)

	applied, err := b.Scale("a", 2.5)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, Identity(), s.Matrix(), "rejected scale leaves the sticker alone")

	applied, err = b.Scale("a", 1.5)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.InDelta(t, 75.0, s.Bounds().Width, eps)
}

func TestBoardScaleRejectsBadFactors(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
	}{
		{"zero", 0},
		{"negative", -2},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(t)
			s := b.NewSticker("a", 100, 100)

			applied, err := b.Scale("a", tt.factor)
			assert.ErrorIs(t, err, ErrInvalidScale)
			assert.False(t, applied)
			assert.Equal(t, Identity(), s.Matrix())
			assert.True(t, s.Contains(50, 50))
		})
	}
}

func TestBoardPurge(t *testing.T) {
	b := newTestBoard(t)
	b.NewSticker("a", 1, 1)
	b.NewSticker("b", 1, 1)
	b.NewSticker("c", 1, 1)
	require.NoError(t, b.Delete("a"))
	require.NoError(t, b.Delete("c"))

	assert.Equal(t, []string{"a", "c"}, b.Purge())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, []string{"b"}, ids(b.All()))
	_, ok := b.Get("a")
	assert.False(t, ok)
	assert.Empty(t, b.Purge())
}

func TestBoardHitMenu(t *testing.T) {
	b := newTestBoard(t)
	s := b.NewSticker("a", 100, 100)
	del := NewMenu(TopLeft, MenuDelete)
	s.AddMenus(del)

	assert.Nil(t, b.HitMenu(0, 0), "menus only show on the active sticker")

	require.NoError(t, b.Select("a"))
	assert.Same(t, del, b.HitMenu(-10, 5))
	assert.Nil(t, b.HitMenu(50, 50))
}

func TestBoardTriggerMenu(t *testing.T) {
	b := newTestBoard(t)
	s := b.NewSticker("a", 100, 100)
	del := NewMenu(TopLeft, MenuDelete)
	rot := NewMenu(BottomRight, MenuRotate)
	scale := NewMenu(TopRight, MenuScale)
	flip := NewMenu(BottomLeft, MenuFlip)
	s.AddMenus(del, rot, scale, flip)
	s.SetMaxSize(150)

	changed, err := b.TriggerMenu(rot, MenuGesture{Degrees: 180})
	require.NoError(t, err)
	assert.True(t, changed)
	assertPoint(t, Point{X: 100, Y: 100}, s.CornerPoints()[TopLeft])

	changed, err = b.TriggerMenu(scale, MenuGesture{Factor: 2})
	require.NoError(t, err)
	assert.False(t, changed, "guard rejects growing to 200")

	changed, err = b.TriggerMenu(flip, MenuGesture{})
	require.NoError(t, err)
	assert.True(t, changed)
	assertPoint(t, Point{X: 0, Y: 100}, s.CornerPoints()[TopLeft])

	changed, err = b.TriggerMenu(del, MenuGesture{})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, s.IsDeleted())

	_, err = b.TriggerMenu(rot, MenuGesture{Degrees: 10})
	assert.ErrorIs(t, err, ErrDeleted)
}

func TestBoardTriggerDetachedMenu(t *testing.T) {
	b := newTestBoard(t)
	_, err := b.TriggerMenu(NewMenu(TopLeft, MenuDelete), MenuGesture{})
	assert.ErrorIs(t, err, ErrMenuDetached)

	s := b.NewSticker("a", 10, 10)
	old := NewMenu(TopLeft, MenuDelete)
	s.AddMenus(old)
	s.AddMenus(NewMenu(TopLeft, MenuRotate))

	_, err = b.TriggerMenu(old, MenuGesture{})
	assert.ErrorIs(t, err, ErrMenuDetached)
	assert.False(t, s.IsDeleted())
}

func TestBoardLogsRejectedScale(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := NewBoard(WithClock(NewCounterClock(0)), WithLogger(logger))
	s := b.NewSticker("a", 50, 50)
	s.SetMaxSize(60)

	_, err := b.Scale("a", 2)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "scale rejected")
}
