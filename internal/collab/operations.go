package collab

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/engine"
)

// maxOpLog bounds the operation history kept per board.
const maxOpLog = 1000

// BoardState holds the authoritative board for a room. The engine is not
// safe for concurrent use, so every access goes through mu.
type BoardState struct {
	mu        sync.Mutex
	eng       *engine.Engine
	serverSeq int64
	opLog     []Operation
	savedSeq  int64
}

// NewBoardState loads doc into a fresh engine.
func NewBoardState(doc *document.InBoard, defaults engine.StickerDefaults, opts ...engine.BoardOption) (*BoardState, error) {
	eng := engine.NewEngine(defaults, opts...)
	if err := eng.SetDocument(doc); err != nil {
		return nil, err
	}
	return &BoardState{
		eng:   eng,
		opLog: make([]Operation, 0),
	}, nil
}

// ApplyOperation applies an operation to the board and returns the server
// sequence. Operations that change nothing, such as a scale the size guard
// rejects, are not logged and return the current sequence.
func (bs *BoardState) ApplyOperation(op Operation) (int64, engine.OpResult, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	res, err := bs.eng.Apply(op.Operation)
	if err != nil {
		return 0, engine.OpResult{}, err
	}
	if !res.Applied {
		return bs.serverSeq, res, nil
	}

	// sticker.add picks the ID server-side; record it so replays agree.
	if op.Type == engine.OpStickerAdd {
		op.StickerID = res.StickerID
	}

	bs.serverSeq++
	bs.opLog = append(bs.opLog, op)
	if len(bs.opLog) > maxOpLog {
		bs.opLog = bs.opLog[len(bs.opLog)-maxOpLog:]
	}
	return bs.serverSeq, res, nil
}

// SnapshotJSON returns the current board document as JSON with the
// sequence number it reflects.
func (bs *BoardState) SnapshotJSON() (json.RawMessage, int64, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	data, err := json.Marshal(bs.eng.Document())
	return data, bs.serverSeq, err
}

// Snapshot returns a deep copy of the board document and the sequence
// number it reflects.
func (bs *BoardState) Snapshot() (*document.InBoard, int64, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	data, err := json.Marshal(bs.eng.Document())
	if err != nil {
		return nil, 0, err
	}
	var doc document.InBoard
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, err
	}
	return &doc, bs.serverSeq, nil
}

// Dirty reports whether operations were applied since the last save.
func (bs *BoardState) Dirty() bool {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.serverSeq != bs.savedSeq
}

// MarkSaved records that the board was persisted as of seq.
func (bs *BoardState) MarkSaved(seq int64) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if seq > bs.savedSeq {
		bs.savedSeq = seq
	}
}

// Ops returns the logged operations after seq, oldest first, the current
// server sequence, and whether the log still covers everything after seq.
func (bs *BoardState) Ops(after int64) ([]Operation, int64, bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	first := bs.serverSeq - int64(len(bs.opLog)) + 1
	if after+1 < first {
		return nil, bs.serverSeq, false
	}
	start := after - first + 1
	if start < 0 {
		start = 0
	}
	if start >= int64(len(bs.opLog)) {
		return nil, bs.serverSeq, true
	}
	out := make([]Operation, len(bs.opLog)-int(start))
	copy(out, bs.opLog[start:])
	return out, bs.serverSeq, true
}

// ServerSeq returns the sequence number of the last applied operation.
func (bs *BoardState) ServerSeq() int64 {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.serverSeq
}

// HitTest runs a hit test against the current board.
func (bs *BoardState) HitTest(x, y float64) engine.HitTestResult {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.eng.HitTest(x, y)
}

// Render returns the current draw commands as JSON.
func (bs *BoardState) Render() string {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.eng.Render()
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
