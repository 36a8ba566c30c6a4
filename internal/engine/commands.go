package engine

import (
	"encoding/json"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op           string    `json:"op"`                     // Operation: "image", "outline", "menu"
	StickerID    string    `json:"stickerId,omitempty"`    // For hit correlation
	Transform    []float64 `json:"transform,omitempty"`    // [a, b, c, d, e, f] affine matrix
	ImageAssetID string    `json:"imageAssetId,omitempty"` // Asset ID for image lookup
	ImageWidth   float64   `json:"imageWidth,omitempty"`   // Image natural width
	ImageHeight  float64   `json:"imageHeight,omitempty"`  // Image natural height
	ColorMatrix  []float32 `json:"colorMatrix,omitempty"`  // 4x5 tint matrix, row-major
	Points       []Point   `json:"points,omitempty"`       // Outline corners
	Anchor       *Point    `json:"anchor,omitempty"`       // Menu center
	Radius       float64   `json:"radius,omitempty"`       // Menu radius
	Role         MenuRole  `json:"role,omitempty"`         // Menu role
}

// CompileDrawCommands generates a draw command buffer from a board.
// Commands are in painter's order (back to front); the active sticker's
// outline and menus come last so they sit above everything.
func CompileDrawCommands(b *Board) []DrawCommand {
	if b == nil {
		return nil
	}

	order := b.DrawOrder()
	commands := make([]DrawCommand, 0, len(order)+6)
	var active *Sticker

	for _, s := range order {
		commands = append(commands, imageCommand(s))
		if s.active {
			active = s
		}
	}

	if active != nil {
		compileSelection(active, &commands)
	}

	return commands
}

func imageCommand(s *Sticker) DrawCommand {
	cmd := DrawCommand{
		Op:           "image",
		StickerID:    s.id,
		Transform:    s.matrix.ToSlice(),
		ImageAssetID: s.assetID,
		ImageWidth:   float64(s.width),
		ImageHeight:  float64(s.height),
	}
	if s.filter != nil {
		cmd.ColorMatrix = s.filter.Matrix[:]
	}
	return cmd
}

// compileSelection emits the outline and menu handles of the active sticker.
func compileSelection(s *Sticker, commands *[]DrawCommand) {
	corners := s.CornerPoints()
	*commands = append(*commands, DrawCommand{
		Op:        "outline",
		StickerID: s.id,
		Points:    corners[:],
	})

	for _, m := range s.Menus() {
		anchor := corners[m.Position]
		*commands = append(*commands, DrawCommand{
			Op:        "menu",
			StickerID: s.id,
			Anchor:    &anchor,
			Radius:    m.Radius,
			Role:      m.Role,
		})
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTestResult contains information about a hit test.
type HitTestResult struct {
	StickerID string   `json:"stickerId"`
	Menu      MenuRole `json:"menu,omitempty"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
