package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inamate/stickers/internal/auth"
	"github.com/inamate/stickers/internal/collab"
	"github.com/inamate/stickers/internal/db"
	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/engine"
	"github.com/inamate/stickers/internal/typeid"
)

var (
	ErrNotFound  = errors.New("board not found")
	ErrForbidden = errors.New("forbidden")
)

// storeTimeout bounds store calls made from the collaboration hub, which
// has no request context.
const storeTimeout = 5 * time.Second

// Store persists boards and their snapshots. *db.Store implements it.
type Store interface {
	CreateBoard(ctx context.Context, b db.Board) (*db.Board, error)
	GetBoard(ctx context.Context, id string) (*db.Board, error)
	DeleteBoard(ctx context.Context, id string) error
	GetLatestSnapshot(ctx context.Context, boardID string) (*db.Snapshot, error)
	SaveSnapshot(ctx context.Context, boardID string, doc *document.InBoard) (*db.Snapshot, error)
}

// LiveBoards exposes boards that are open in a collaboration room.
type LiveBoards interface {
	State(boardID string) (*collab.BoardState, bool)
}

type Service struct {
	store    Store
	live     LiveBoards
	defaults engine.StickerDefaults
}

func NewService(store Store, defaults engine.StickerDefaults) *Service {
	return &Service{store: store, defaults: defaults}
}

// SetLive makes reads prefer the in-memory state of open boards over the
// last saved snapshot.
func (s *Service) SetLive(live LiveBoards) {
	s.live = live
}

type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Protected bool   `json:"protected"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type CreateParams struct {
	Name     string
	Passcode string
	Sample   bool
}

func (s *Service) Create(ctx context.Context, ownerID string, p CreateParams) (*Board, error) {
	boardID := typeid.NewBoardID()

	var hash string
	if p.Passcode != "" {
		var err error
		if hash, err = auth.HashPasscode(p.Passcode); err != nil {
			return nil, err
		}
	}

	dbBoard, err := s.store.CreateBoard(ctx, db.Board{
		ID:           boardID,
		Name:         p.Name,
		OwnerID:      ownerID,
		PasscodeHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	// Seed the first snapshot
	var doc *document.InBoard
	if p.Sample {
		doc = document.NewSampleBoard(boardID)
		doc.Board.Name = p.Name
	} else {
		doc = document.NewEmptyBoard(boardID, p.Name)
	}
	if _, err := s.store.SaveSnapshot(ctx, boardID, doc); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbBoardToBoard(dbBoard), nil
}

// Authorize checks that userID may open the board. Owners always may;
// everyone else needs the passcode when one is set.
func (s *Service) Authorize(ctx context.Context, boardID, userID, passcode string) (*Board, error) {
	dbBoard, err := s.getBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if dbBoard.OwnerID != userID {
		if err := auth.CheckPasscode(dbBoard.PasscodeHash, passcode); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrForbidden, err)
		}
	}
	return dbBoardToBoard(dbBoard), nil
}

func (s *Service) Delete(ctx context.Context, boardID, userID string) error {
	dbBoard, err := s.getBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if dbBoard.OwnerID != userID {
		return ErrForbidden
	}
	return s.store.DeleteBoard(ctx, boardID)
}

// Document returns the current board document, live if the board is open.
func (s *Service) Document(ctx context.Context, boardID string) (*document.InBoard, error) {
	if state, ok := s.liveState(boardID); ok {
		doc, _, err := state.Snapshot()
		return doc, err
	}
	snap, err := s.store.GetLatestSnapshot(ctx, boardID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap.Document, nil
}

func (s *Service) HitTest(ctx context.Context, boardID string, x, y float64) (engine.HitTestResult, error) {
	if state, ok := s.liveState(boardID); ok {
		return state.HitTest(x, y), nil
	}
	eng, err := s.offlineEngine(ctx, boardID)
	if err != nil {
		return engine.HitTestResult{}, err
	}
	return eng.HitTest(x, y), nil
}

// Render returns the board's draw commands as JSON.
func (s *Service) Render(ctx context.Context, boardID string) (string, error) {
	if state, ok := s.liveState(boardID); ok {
		return state.Render(), nil
	}
	eng, err := s.offlineEngine(ctx, boardID)
	if err != nil {
		return "", err
	}
	return eng.Render(), nil
}

// LoadDocument is the collaboration hub's loader.
func (s *Service) LoadDocument(boardID string) (*document.InBoard, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	snap, err := s.store.GetLatestSnapshot(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return snap.Document, nil
}

// SaveDocument is the collaboration hub's saver.
func (s *Service) SaveDocument(boardID string, doc *document.InBoard) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	doc.Board.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	_, err := s.store.SaveSnapshot(ctx, boardID, doc)
	return err
}

func (s *Service) liveState(boardID string) (*collab.BoardState, bool) {
	if s.live == nil {
		return nil, false
	}
	return s.live.State(boardID)
}

func (s *Service) offlineEngine(ctx context.Context, boardID string) (*engine.Engine, error) {
	doc, err := s.Document(ctx, boardID)
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine(s.defaults)
	if err := eng.SetDocument(doc); err != nil {
		return nil, fmt.Errorf("load board %s: %w", boardID, err)
	}
	return eng, nil
}

func (s *Service) getBoard(ctx context.Context, boardID string) (*db.Board, error) {
	b, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get board: %w", err)
	}
	return b, nil
}

func dbBoardToBoard(b *db.Board) *Board {
	return &Board{
		ID:        b.ID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		Protected: b.PasscodeHash != "",
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
