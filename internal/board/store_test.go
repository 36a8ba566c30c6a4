package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/inamate/stickers/internal/db"
	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/typeid"
)

// memoryStore is an in-memory Store for handler and service tests.
type memoryStore struct {
	mu        sync.Mutex
	boards    map[string]db.Board
	snapshots map[string][]db.Snapshot
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		boards:    make(map[string]db.Board),
		snapshots: make(map[string][]db.Snapshot),
	}
}

func (m *memoryStore) CreateBoard(_ context.Context, b db.Board) (*db.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[b.ID]; ok {
		return nil, fmt.Errorf("board %s: %w", b.ID, db.ErrConflict)
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.boards[b.ID] = b
	return &b, nil
}

func (m *memoryStore) GetBoard(_ context.Context, id string) (*db.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return nil, fmt.Errorf("board %s: %w", id, db.ErrNotFound)
	}
	return &b, nil
}

func (m *memoryStore) DeleteBoard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[id]; !ok {
		return fmt.Errorf("board %s: %w", id, db.ErrNotFound)
	}
	delete(m.boards, id)
	delete(m.snapshots, id)
	return nil
}

func (m *memoryStore) GetLatestSnapshot(_ context.Context, boardID string) (*db.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snaps := m.snapshots[boardID]
	if len(snaps) == 0 {
		return nil, fmt.Errorf("snapshot for %s: %w", boardID, db.ErrNotFound)
	}
	snap := snaps[len(snaps)-1]
	doc, err := copyDocument(snap.Document)
	if err != nil {
		return nil, err
	}
	snap.Document = doc
	return &snap, nil
}

func (m *memoryStore) SaveSnapshot(_ context.Context, boardID string, doc *document.InBoard) (*db.Snapshot, error) {
	stored, err := copyDocument(doc)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := db.Snapshot{
		ID:       typeid.NewSnapshotID(),
		BoardID:  boardID,
		Version:  int32(len(m.snapshots[boardID]) + 1),
		Document: stored,
	}
	m.snapshots[boardID] = append(m.snapshots[boardID], snap)
	return &snap, nil
}

func (m *memoryStore) versions(boardID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots[boardID])
}

func copyDocument(doc *document.InBoard) (*document.InBoard, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out document.InBoard
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
