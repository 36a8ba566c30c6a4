//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/stickers/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultStickerDefaults())

	stickerEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	stickerEngine.Set("loadBoard", js.FuncOf(loadBoard))
	stickerEngine.Set("loadSampleBoard", js.FuncOf(loadSampleBoard))
	stickerEngine.Set("addSticker", js.FuncOf(addSticker))
	stickerEngine.Set("apply", js.FuncOf(apply))

	// --- Queries (frontend ← backend) ---
	stickerEngine.Set("render", js.FuncOf(render))
	stickerEngine.Set("hitTest", js.FuncOf(hitTest))
	stickerEngine.Set("getSelection", js.FuncOf(getSelection))
	stickerEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	stickerEngine.Set("getBoard", js.FuncOf(getBoard))

	js.Global().Set("stickerEngine", stickerEngine)

	// Signal that WASM is ready
	js.Global().Set("stickerWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorValue(err error) any {
	return js.ValueOf(map[string]any{"error": err.Error()})
}

// --- Command Handlers ---

func loadBoard(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing board JSON"})
	}
	if err := eng.LoadBoard(args[0].String()); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(map[string]any{"ok": true})
}

func loadSampleBoard(this js.Value, args []js.Value) any {
	boardID := "board_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		boardID = args[0].String()
	}
	if err := eng.LoadSampleBoard(boardID); err != nil {
		return errorValue(err)
	}
	return js.ValueOf(map[string]any{"ok": true})
}

// addSticker(assetId, width, height, centerX, centerY)
func addSticker(this js.Value, args []js.Value) any {
	if len(args) < 5 {
		return js.ValueOf(map[string]any{"error": "addSticker needs assetId, width, height, x, y"})
	}
	id, err := eng.AddSticker(args[0].String(), uint32(args[1].Int()), uint32(args[2].Int()), args[3].Float(), args[4].Float())
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(map[string]any{"ok": true, "stickerId": id})
}

// apply takes an operation as JSON and returns the result as JSON.
func apply(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing operation JSON"})
	}
	var op engine.Operation
	if err := json.Unmarshal([]byte(args[0].String()), &op); err != nil {
		return errorValue(err)
	}
	res, err := eng.Apply(op)
	if err != nil {
		return errorValue(err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("{}")
	}
	data, err := json.Marshal(eng.HitTest(args[0].Float(), args[1].Float()))
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelection())
}

func getSelectionBounds(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getBoard(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.GetBoard())
}
