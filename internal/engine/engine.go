package engine

import (
	"encoding/json"
	"errors"

	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/typeid"
)

// StickerDefaults seeds every sticker the engine creates.
type StickerDefaults struct {
	InitScale float64
	MinSize   uint32
	MaxSize   uint32
	AutoLift  bool
	Menus     []document.MenuNode
}

// DefaultStickerDefaults returns the settings used when none are configured.
func DefaultStickerDefaults() StickerDefaults {
	return StickerDefaults{
		InitScale: 1,
		MinSize:   48,
		MaxSize:   0,
		AutoLift:  true,
		Menus:     document.DefaultMenus(),
	}
}

// Engine is the sticker engine that owns the board document and its live state.
// It processes commands from the frontend and returns query results.
type Engine struct {
	doc   *document.InBoard
	board *Board

	defaults StickerDefaults
	opts     []BoardOption
}

// NewEngine creates a new engine instance. opts apply to every board it loads.
func NewEngine(defaults StickerDefaults, opts ...BoardOption) *Engine {
	return &Engine{
		defaults: defaults,
		opts:     opts,
	}
}

// --- Commands (frontend → backend) ---

// LoadBoard loads a board from JSON.
func (e *Engine) LoadBoard(jsonData string) error {
	var doc document.InBoard
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return err
	}
	return e.setDocument(&doc)
}

// LoadSampleBoard loads the built-in sample board.
func (e *Engine) LoadSampleBoard(boardID string) error {
	return e.setDocument(document.NewSampleBoard(boardID))
}

// SetDocument replaces the engine state with doc.
func (e *Engine) SetDocument(doc *document.InBoard) error {
	return e.setDocument(doc)
}

func (e *Engine) setDocument(doc *document.InBoard) error {
	if doc.Stickers == nil {
		doc.Stickers = map[string]document.StickerNode{}
	}
	board, err := BoardFromDocument(doc, e.opts...)
	if err != nil {
		return err
	}
	e.doc = doc
	e.board = board
	return nil
}

// Board returns the live board, or nil before a document is loaded.
func (e *Engine) Board() *Board {
	return e.board
}

var errNoBoard = errors.New("no board loaded")

// AddSticker places new content on the board, centered on (cx, cy), and
// returns its ID.
func (e *Engine) AddSticker(assetID string, width, height uint32, cx, cy float64) (string, error) {
	if e.board == nil {
		return "", errNoBoard
	}

	if width == 0 || height == 0 {
		width, height = PlaceholderSize, PlaceholderSize
	}

	s := e.board.NewSticker(typeid.NewStickerID(), width, height)
	s.assetID = assetID
	s.minSize = e.defaults.MinSize
	s.maxSize = e.defaults.MaxSize
	s.autoLift = e.defaults.AutoLift
	if e.defaults.InitScale > 0 {
		s.SetInitScale(e.defaults.InitScale)
	}
	bx, by := s.Bounds().Center()
	s.SetInitTranslate(cx-bx, cy-by)

	for _, mn := range e.defaults.Menus {
		if pos, ok := positionNames[mn.Position]; ok {
			s.AddMenus(NewMenu(pos, MenuRole(mn.Role)))
		}
	}
	return s.id, nil
}

// --- Queries (frontend ← backend) ---

// Render returns draw commands for the current board as JSON.
func (e *Engine) Render() string {
	if e.board == nil {
		return "[]"
	}
	result, _ := DrawCommandsToJSON(CompileDrawCommands(e.board))
	return result
}

// HitTest returns the menu or sticker under (x, y).
// Menus of the active sticker win over any sticker.
func (e *Engine) HitTest(x, y float64) HitTestResult {
	result := HitTestResult{X: x, Y: y}
	if e.board == nil {
		return result
	}
	if m := e.board.HitMenu(x, y); m != nil {
		result.StickerID = m.StickerID()
		result.Menu = m.Role
		return result
	}
	if s := e.board.HitTest(x, y); s != nil {
		result.StickerID = s.id
	}
	return result
}

// GetSelection returns the active sticker ID, or "".
func (e *Engine) GetSelection() string {
	if e.board == nil {
		return ""
	}
	if s := e.board.Active(); s != nil {
		return s.id
	}
	return ""
}

// GetSelectionBounds returns the bounding box of the selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	if e.board == nil {
		return RectToJSON(Rect{})
	}
	return RectToJSON(e.board.SelectionBounds())
}

// Document syncs the live board back into the document and returns it.
func (e *Engine) Document() *document.InBoard {
	if e.doc == nil {
		return nil
	}
	BoardToDocument(e.board, e.doc)
	return e.doc
}

// GetBoard returns the full board document as JSON.
func (e *Engine) GetBoard() string {
	doc := e.Document()
	if doc == nil {
		return "{}"
	}
	data, _ := json.Marshal(doc)
	return string(data)
}
