package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
)

var (
	ErrNotFound     = errors.New("sticker not found")
	ErrDeleted      = errors.New("sticker deleted")
	ErrDuplicateID  = errors.New("duplicate sticker id")
	ErrMenuDetached = errors.New("menu not attached")
	ErrInvalidScale = errors.New("scale factor must be positive and finite")
)

// Board is the collection of stickers on one canvas. It owns the layer
// clock, so every key it hands out sorts after the previous one.
//
// A Board is not safe for concurrent use; callers confine it to one
// goroutine or guard it with a lock.
type Board struct {
	stickers map[string]*Sticker
	order    []string // insertion order, breaks layer key ties
	clock    LayerClock
	logger   *slog.Logger
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithClock sets the layer clock. The default is a WallClock.
func WithClock(c LayerClock) BoardOption {
	return func(b *Board) { b.clock = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBoard creates an empty board.
func NewBoard(opts ...BoardOption) *Board {
	b := &Board{
		stickers: make(map[string]*Sticker),
		clock:    NewWallClock(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Clock returns the board's layer clock.
func (b *Board) Clock() LayerClock {
	return b.clock
}

// NewSticker creates a sticker keyed above everything on the board and adds it.
func (b *Board) NewSticker(id string, width, height uint32) *Sticker {
	s := NewSticker(id, width, height, b.clock.Next())
	b.stickers[id] = s
	b.order = append(b.order, id)
	return s
}

// Add inserts an existing sticker, keeping its layer key.
func (b *Board) Add(s *Sticker) error {
	if _, ok := b.stickers[s.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, s.id)
	}
	b.stickers[s.id] = s
	b.order = append(b.order, s.id)
	return nil
}

// Get returns a sticker by ID, deleted or not.
func (b *Board) Get(id string) (*Sticker, bool) {
	s, ok := b.stickers[id]
	return s, ok
}

// Len returns the number of stickers, including deleted ones.
func (b *Board) Len() int {
	return len(b.stickers)
}

// All returns every sticker in insertion order, including deleted ones.
func (b *Board) All() []*Sticker {
	out := make([]*Sticker, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.stickers[id])
	}
	return out
}

// DrawOrder returns live stickers back to front.
func (b *Board) DrawOrder() []*Sticker {
	out := make([]*Sticker, 0, len(b.order))
	for _, id := range b.order {
		if s := b.stickers[id]; !s.deleted {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// Active returns the selected sticker, or nil.
func (b *Board) Active() *Sticker {
	for _, s := range b.stickers {
		if s.active && !s.deleted {
			return s
		}
	}
	return nil
}

// HitTest returns the front-most live sticker containing (x, y), or nil.
func (b *Board) HitTest(x, y float64) *Sticker {
	order := b.DrawOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].Contains(x, y) {
			return order[i]
		}
	}
	return nil
}

// HitMenu returns the menu of the active sticker under (x, y), or nil.
// Menus sit above every sticker, so callers check them before HitTest.
func (b *Board) HitMenu(x, y float64) *Menu {
	s := b.Active()
	if s == nil {
		return nil
	}
	for _, m := range s.Menus() {
		if m.HitTest(s, x, y) {
			return m
		}
	}
	return nil
}

// live returns a sticker that can still be edited.
func (b *Board) live(id string) (*Sticker, error) {
	s, ok := b.stickers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.deleted {
		return nil, fmt.Errorf("%w: %s", ErrDeleted, id)
	}
	return s, nil
}

// Select makes id the only active sticker, lifting it when it auto-lifts.
func (b *Board) Select(id string) error {
	s, err := b.live(id)
	if err != nil {
		return err
	}
	for _, other := range b.stickers {
		if other != s {
			other.SetActive(false)
		}
	}
	s.SetActive(true)
	if s.autoLift {
		s.BringToFront(b.clock)
	}
	b.logger.Debug("sticker selected", "sticker", id, "layer", s.layerKey)
	return nil
}

// Deselect clears the selection.
func (b *Board) Deselect() {
	for _, s := range b.stickers {
		s.SetActive(false)
	}
}

// Delete soft-deletes a sticker. Deleting twice is not an error.
func (b *Board) Delete(id string) error {
	s, ok := b.stickers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.Delete()
	b.logger.Debug("sticker deleted", "sticker", id)
	return nil
}

// Purge drops deleted stickers and returns their IDs.
func (b *Board) Purge() []string {
	var purged []string
	kept := b.order[:0]
	for _, id := range b.order {
		if b.stickers[id].deleted {
			delete(b.stickers, id)
			purged = append(purged, id)
			continue
		}
		kept = append(kept, id)
	}
	b.order = kept
	return purged
}

// Translate moves a sticker.
func (b *Board) Translate(id string, dx, dy float64) error {
	s, err := b.live(id)
	if err != nil {
		return err
	}
	s.Translate(dx, dy)
	return nil
}

// Scale grows or shrinks a sticker uniformly about its center. A gesture
// the size guard rejects is skipped and reported as applied == false.
// Factors that would collapse or mirror the sticker are errors.
func (b *Board) Scale(id string, factor float64) (applied bool, err error) {
	if !(factor > 0) || math.IsInf(factor, 1) {
		return false, fmt.Errorf("%w: %v", ErrInvalidScale, factor)
	}
	s, err := b.live(id)
	if err != nil {
		return false, err
	}
	if !s.CanScale(factor) {
		b.logger.Debug("scale rejected", "sticker", id, "factor", factor)
		return false, nil
	}
	s.ScaleAboutCenter(factor, factor)
	return true, nil
}

// Rotate turns a sticker about its center.
func (b *Board) Rotate(id string, degrees float64) error {
	s, err := b.live(id)
	if err != nil {
		return err
	}
	s.RotateAboutCenter(degrees)
	return nil
}

// BringToFront lifts a sticker above all others.
func (b *Board) BringToFront(id string) error {
	s, err := b.live(id)
	if err != nil {
		return err
	}
	s.BringToFront(b.clock)
	return nil
}

// BringToBack sinks a sticker below all others.
func (b *Board) BringToBack(id string) error {
	s, err := b.live(id)
	if err != nil {
		return err
	}
	s.BringToBack(b.clock)
	return nil
}

// SetColorFilter tints a sticker; any NoColor channel clears the tint.
func (b *Board) SetColorFilter(id string, r, g, bl int) error {
	s, err := b.live(id)
	if err != nil {
		return err
	}
	s.SetColorFilter(r, g, bl)
	return nil
}

// TriggerMenu runs a menu's action against the sticker it is attached to.
// It returns whether the sticker changed.
func (b *Board) TriggerMenu(m *Menu, g MenuGesture) (bool, error) {
	if m.stickerID == "" {
		return false, ErrMenuDetached
	}
	s, err := b.live(m.stickerID)
	if err != nil {
		return false, err
	}
	if s.MenuAt(m.Position) != m {
		return false, fmt.Errorf("%w: %s at %s", ErrMenuDetached, m.stickerID, m.Position)
	}

	switch m.Role {
	case MenuDelete:
		s.Delete()
		return true, nil
	case MenuRotate:
		if g.Degrees == 0 {
			return false, nil
		}
		s.RotateAboutCenter(g.Degrees)
		return true, nil
	case MenuScale:
		if g.Factor <= 0 {
			return false, nil
		}
		return b.Scale(s.id, g.Factor)
	case MenuFlip:
		s.FlipHorizontal()
		return true, nil
	default:
		return false, nil
	}
}

// SelectionBounds returns the bounds of the active sticker, or an empty rect.
func (b *Board) SelectionBounds() Rect {
	if s := b.Active(); s != nil {
		return s.Bounds()
	}
	return Rect{}
}
