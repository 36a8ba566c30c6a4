package document

import "time"

// InBoard is the persisted form of a sticker board.
type InBoard struct {
	Board    Board                  `json:"board"`
	Stickers map[string]StickerNode `json:"stickers"`
	Order    []string               `json:"order"` // insertion order
	Clock    int64                  `json:"clock"` // last layer key issued
}

type Board struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Version    int    `json:"version"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type Position string

const (
	PositionTopLeft     Position = "topLeft"
	PositionTopRight    Position = "topRight"
	PositionBottomRight Position = "bottomRight"
	PositionBottomLeft  Position = "bottomLeft"
)

type MenuNode struct {
	Position Position `json:"position"`
	Role     string   `json:"role"`
	Radius   float64  `json:"radius,omitempty"`
}

// Tint is an RGB color filter; a nil *Tint means no filter.
type Tint struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

type StickerNode struct {
	ID        string     `json:"id"`
	AssetID   string     `json:"assetId"`
	Width     uint32     `json:"width"`
	Height    uint32     `json:"height"`
	Transform [6]float64 `json:"transform"` // [a, b, c, d, e, f]
	LayerKey  int64      `json:"layerKey"`
	MinSize   uint32     `json:"minSize"`
	MaxSize   uint32     `json:"maxSize"`
	AutoLift  bool       `json:"autoLift"`
	Active    bool       `json:"active"`
	Deleted   bool       `json:"deleted"`
	Tint      *Tint      `json:"tint,omitempty"`
	Menus     []MenuNode `json:"menus,omitempty"`
}

// NewEmptyBoard creates an empty board document.
func NewEmptyBoard(boardID, name string) *InBoard {
	now := time.Now().UTC().Format(time.RFC3339)
	return &InBoard{
		Board: Board{
			ID:         boardID,
			Name:       name,
			Version:    1,
			Width:      1080,
			Height:     1920,
			Background: "#000000",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Stickers: map[string]StickerNode{},
		Order:    []string{},
	}
}

// DefaultMenus are the handles a new sticker gets: delete top-left,
// rotate bottom-right.
func DefaultMenus() []MenuNode {
	return []MenuNode{
		{Position: PositionTopLeft, Role: "delete"},
		{Position: PositionBottomRight, Role: "rotate"},
	}
}
