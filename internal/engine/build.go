package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/inamate/stickers/internal/document"
)

var positionNames = map[document.Position]Position{
	document.PositionTopLeft:     TopLeft,
	document.PositionTopRight:    TopRight,
	document.PositionBottomRight: BottomRight,
	document.PositionBottomLeft:  BottomLeft,
}

// BoardFromDocument restores a board from its persisted form. Unless a
// WithClock option is given, the board gets a counter clock that resumes
// above every persisted key.
func BoardFromDocument(doc *document.InBoard, opts ...BoardOption) (*Board, error) {
	start := doc.Clock
	for _, node := range doc.Stickers {
		start = max(start, abs64(node.LayerKey))
	}

	b := NewBoard(append([]BoardOption{WithClock(NewCounterClock(start))}, opts...)...)

	seen := make(map[string]bool, len(doc.Order))
	ids := make([]string, 0, len(doc.Stickers))
	for _, id := range doc.Order {
		if _, ok := doc.Stickers[id]; ok && !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	// Stickers missing from Order go last, in key order.
	var stray []*Sticker
	for id, node := range doc.Stickers {
		if !seen[id] {
			s, err := stickerFromNode(node)
			if err != nil {
				return nil, err
			}
			stray = append(stray, s)
		}
	}

	for _, id := range ids {
		s, err := stickerFromNode(doc.Stickers[id])
		if err != nil {
			return nil, err
		}
		if err := b.Add(s); err != nil {
			return nil, err
		}
	}
	slices.SortFunc(stray, func(a, b *Sticker) int {
		if c := Compare(a, b); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	for _, s := range stray {
		if err := b.Add(s); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func stickerFromNode(node document.StickerNode) (*Sticker, error) {
	if node.ID == "" {
		return nil, errors.New("sticker without id")
	}

	s := NewSticker(node.ID, node.Width, node.Height, node.LayerKey)
	s.assetID = node.AssetID
	// Hand-written boards may leave the transform out.
	if m := Matrix2D(node.Transform); m != (Matrix2D{}) {
		s.SetMatrix(m)
	}
	s.minSize = node.MinSize
	s.maxSize = node.MaxSize
	s.autoLift = node.AutoLift
	if node.Tint != nil {
		s.SetColorFilter(node.Tint.R, node.Tint.G, node.Tint.B)
	}
	for _, mn := range node.Menus {
		pos, ok := positionNames[mn.Position]
		if !ok {
			return nil, fmt.Errorf("sticker %s: unknown menu position %q", node.ID, mn.Position)
		}
		m := NewMenu(pos, MenuRole(mn.Role))
		if mn.Radius > 0 {
			m.Radius = mn.Radius
		}
		s.AddMenus(m)
	}
	if node.Deleted {
		s.Delete()
	} else {
		s.active = node.Active
	}
	return s, nil
}

// BoardToDocument writes the stickers of b into doc, replacing the ones
// already there. Board metadata in doc is kept.
func BoardToDocument(b *Board, doc *document.InBoard) {
	doc.Stickers = make(map[string]document.StickerNode, b.Len())
	doc.Order = make([]string, 0, b.Len())

	var clock int64
	for _, s := range b.All() {
		doc.Stickers[s.id] = stickerToNode(s)
		doc.Order = append(doc.Order, s.id)
		clock = max(clock, abs64(s.layerKey))
	}
	doc.Clock = clock
}

func stickerToNode(s *Sticker) document.StickerNode {
	node := document.StickerNode{
		ID:        s.id,
		AssetID:   s.assetID,
		Width:     s.width,
		Height:    s.height,
		Transform: [6]float64(s.matrix),
		LayerKey:  s.layerKey,
		MinSize:   s.minSize,
		MaxSize:   s.maxSize,
		AutoLift:  s.autoLift,
		Active:    s.active,
		Deleted:   s.deleted,
	}
	if f := s.filter; f != nil {
		node.Tint = &document.Tint{R: f.R, G: f.G, B: f.B}
	}
	for _, m := range s.Menus() {
		node.Menus = append(node.Menus, document.MenuNode{
			Position: document.Position(m.Position.String()),
			Role:     string(m.Role),
			Radius:   m.Radius,
		})
	}
	return node
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
