package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/typeid"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Board struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"ownerId"`
	PasscodeHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Snapshot struct {
	ID       string
	BoardID  string
	Version  int32
	Document *document.InBoard
}

// Store persists boards and their snapshots.
type Store struct {
	db DBTX
}

func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) CreateBoard(ctx context.Context, b Board) (*Board, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO boards (id, name, owner_id, passcode_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		b.ID, b.Name, b.OwnerID, b.PasscodeHash)

	if err := row.Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("board %s: %w", b.ID, ErrConflict)
		}
		return nil, fmt.Errorf("insert board: %w", err)
	}
	return &b, nil
}

func (s *Store) GetBoard(ctx context.Context, id string) (*Board, error) {
	var b Board
	err := s.db.QueryRow(ctx, `
		SELECT id, name, owner_id, passcode_hash, created_at, updated_at
		FROM boards WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.OwnerID, &b.PasscodeHash, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get board: %w", err)
	}
	return &b, nil
}

func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) GetLatestSnapshot(ctx context.Context, boardID string) (*Snapshot, error) {
	var (
		snap Snapshot
		raw  []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, board_id, version, document
		FROM board_snapshots WHERE board_id = $1
		ORDER BY version DESC LIMIT 1`, boardID).
		Scan(&snap.ID, &snap.BoardID, &snap.Version, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("snapshot for %s: %w", boardID, ErrNotFound)
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var doc document.InBoard
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	snap.Document = &doc
	return &snap, nil
}

// SaveSnapshot stores doc as the next version of its board.
func (s *Store) SaveSnapshot(ctx context.Context, boardID string, doc *document.InBoard) (*Snapshot, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	snap := Snapshot{
		ID:       typeid.NewSnapshotID(),
		BoardID:  boardID,
		Document: doc,
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO board_snapshots (id, board_id, version, document)
		SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		FROM board_snapshots WHERE board_id = $2
		RETURNING version`,
		snap.ID, boardID, docJSON).Scan(&snap.Version)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("snapshot for %s: %w", boardID, ErrConflict)
		}
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	if _, err := s.db.Exec(ctx, `UPDATE boards SET updated_at = now() WHERE id = $1`, boardID); err != nil {
		return nil, fmt.Errorf("touch board: %w", err)
	}
	return &snap, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
