package engine

import (
	"errors"
	"fmt"

	"github.com/inamate/stickers/internal/document"
)

var ErrUnknownOperation = errors.New("unknown operation type")

const (
	OpStickerAdd       = "sticker.add"
	OpStickerTranslate = "sticker.translate"
	OpStickerScale     = "sticker.scale"
	OpStickerRotate    = "sticker.rotate"
	OpStickerSelect    = "sticker.select"
	OpStickerDeselect  = "sticker.deselect"
	OpStickerDelete    = "sticker.delete"
	OpStickerFront     = "sticker.front"
	OpStickerBack      = "sticker.back"
	OpStickerFilter    = "sticker.filter"
	OpStickerMenu      = "sticker.menu"
	OpBoardPurge       = "board.purge"
)

// Operation is a single board mutation, as sent by an input layer.
type Operation struct {
	Type      string `json:"type"`
	StickerID string `json:"stickerId,omitempty"`

	// sticker.translate
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	// sticker.scale, sticker.menu (scale)
	Factor float64 `json:"factor,omitempty"`

	// sticker.rotate, sticker.menu (rotate)
	Degrees float64 `json:"degrees,omitempty"`

	// sticker.filter; nil clears
	Tint *document.Tint `json:"tint,omitempty"`

	// sticker.add
	AssetID string  `json:"assetId,omitempty"`
	Width   uint32  `json:"width,omitempty"`
	Height  uint32  `json:"height,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`

	// sticker.menu
	Position document.Position `json:"position,omitempty"`
}

// OpResult reports what an operation did.
type OpResult struct {
	Applied   bool     `json:"applied"`
	StickerID string   `json:"stickerId,omitempty"`
	Purged    []string `json:"purged,omitempty"`
	Deleted   bool     `json:"deleted,omitempty"`
}

// Apply runs op against the loaded board. A scale the size guard rejects
// is not an error; it comes back with Applied == false.
func (e *Engine) Apply(op Operation) (OpResult, error) {
	if e.board == nil {
		return OpResult{}, errNoBoard
	}
	b := e.board
	res := OpResult{Applied: true, StickerID: op.StickerID}

	var err error
	switch op.Type {
	case OpStickerAdd:
		res.StickerID, err = e.AddSticker(op.AssetID, op.Width, op.Height, op.X, op.Y)
	case OpStickerTranslate:
		err = b.Translate(op.StickerID, op.DX, op.DY)
	case OpStickerScale:
		res.Applied, err = b.Scale(op.StickerID, op.Factor)
	case OpStickerRotate:
		err = b.Rotate(op.StickerID, op.Degrees)
	case OpStickerSelect:
		err = b.Select(op.StickerID)
	case OpStickerDeselect:
		b.Deselect()
	case OpStickerDelete:
		err = b.Delete(op.StickerID)
	case OpStickerFront:
		err = b.BringToFront(op.StickerID)
	case OpStickerBack:
		err = b.BringToBack(op.StickerID)
	case OpStickerFilter:
		if op.Tint == nil {
			err = b.SetColorFilter(op.StickerID, NoColor, NoColor, NoColor)
		} else {
			err = b.SetColorFilter(op.StickerID, op.Tint.R, op.Tint.G, op.Tint.B)
		}
	case OpStickerMenu:
		res.Applied, err = e.triggerMenu(op)
	case OpBoardPurge:
		res.Purged = b.Purge()
	default:
		return OpResult{}, fmt.Errorf("%w: %s", ErrUnknownOperation, op.Type)
	}
	if err != nil {
		return OpResult{}, err
	}
	if s, ok := b.Get(res.StickerID); ok {
		res.Deleted = s.IsDeleted()
	}
	return res, nil
}

func (e *Engine) triggerMenu(op Operation) (bool, error) {
	s, ok := e.board.Get(op.StickerID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, op.StickerID)
	}
	pos, ok := positionNames[op.Position]
	if !ok {
		return false, fmt.Errorf("unknown menu position %q", op.Position)
	}
	m := s.MenuAt(pos)
	if m == nil {
		return false, fmt.Errorf("%w: %s at %s", ErrMenuDetached, op.StickerID, op.Position)
	}
	return e.board.TriggerMenu(m, MenuGesture{Degrees: op.Degrees, Factor: op.Factor})
}
