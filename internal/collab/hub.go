package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/stickers/internal/document"
	"github.com/inamate/stickers/internal/engine"
)

// DocumentLoader fetches the persisted board when its first client joins.
type DocumentLoader func(boardID string) (*document.InBoard, error)

// DocumentSaver persists a board.
type DocumentSaver func(boardID string, doc *document.InBoard) error

const autosaveInterval = 30 * time.Second

type Room struct {
	boardID  string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *BoardState
}

func NewRoom(boardID string, state *BoardState) *Room {
	return &Room{
		boardID:  boardID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    state,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // boardID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}

	loader   DocumentLoader
	saver    DocumentSaver
	defaults engine.StickerDefaults
	opts     []engine.BoardOption
}

func NewHub(loader DocumentLoader, saver DocumentSaver, defaults engine.StickerDefaults, opts ...engine.BoardOption) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		loader:     loader,
		saver:      saver,
		defaults:   defaults,
		opts:       opts,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	ticker := time.NewTicker(autosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveAll()
		case <-h.stop:
			h.saveAll()
			return
		}
	}
}

// Stop saves every dirty board and ends Run.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

// Register adds a client to its board's room. Clients arriving after Stop
// are closed.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a client; ReadPump calls it when the socket closes.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// State returns the live state of a board that has clients connected.
func (h *Hub) State(boardID string) (*BoardState, bool) {
	room, ok := h.room(boardID)
	if !ok {
		return nil, false
	}
	return room.state, true
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		state, err := h.loadState(client.BoardID)
		if err != nil {
			h.mu.Unlock()
			slog.Error("load board", "error", err, "board", client.BoardID)
			client.Send(errorMessage("board could not be loaded"))
			client.Close()
			return
		}
		room = NewRoom(client.BoardID, state)
		h.rooms[client.BoardID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	welcome, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID, UserID: client.UserID})
	client.Send(&Message{Type: TypeWelcome, BoardID: client.BoardID, Payload: welcome})

	h.sendSync(client, room)

	// Send current presence state to new client
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:     TypePresenceJoin,
		ClientID: client.ClientID,
		UserID:   client.UserID,
		Payload:  joinPayload,
	}
	h.broadcastToRoom(client.BoardID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) sendSync(client *Client, room *Room) {
	snapshot, seq, err := room.state.SnapshotJSON()
	if err != nil {
		slog.Error("snapshot board", "error", err, "board", client.BoardID)
		return
	}
	client.Send(&Message{
		Type:    TypeBoardSync,
		BoardID: client.BoardID,
		Seq:     seq,
		Payload: snapshot,
	})
}

func (h *Hub) loadState(boardID string) (*BoardState, error) {
	doc, err := h.loader(boardID)
	if err != nil {
		return nil, err
	}
	return NewBoardState(doc, h.defaults, h.opts...)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.BoardID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.Close()
	room.presence.Remove(client.ClientID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.BoardID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(room)
	}

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
	})
	leaveMsg := &Message{
		Type:     TypePresenceLeave,
		ClientID: client.ClientID,
		UserID:   client.UserID,
		Payload:  leavePayload,
	}
	h.broadcastToRoom(client.BoardID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "board", client.BoardID)
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if !room.state.Dirty() {
		return
	}
	doc, seq, err := room.state.Snapshot()
	if err != nil {
		slog.Error("snapshot board", "error", err, "board", room.boardID)
		return
	}
	if err := h.saver(room.boardID, doc); err != nil {
		slog.Error("save board", "error", err, "board", room.boardID)
		return
	}
	room.state.MarkSaved(seq)
	slog.Debug("board saved", "board", room.boardID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	case TypeOpHistory:
		h.handleOpHistory(sender, msg)
	case TypeBoardSync:
		if room, ok := h.room(sender.BoardID); ok {
			h.sendSync(sender, room)
		}
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.UserID = sender.UserID
	presence.DisplayName = sender.DisplayName

	room, ok := h.room(sender.BoardID)
	if !ok {
		return
	}

	room.presence.Update(sender.ClientID, &presence)
	h.broadcastPresence(room, sender.ClientID, &presence, sender.ClientID)
}

func (h *Hub) broadcastPresence(room *Room, clientID string, presence *PresencePayload, excludeClientID string) {
	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:     TypePresenceUpdate,
		ClientID: clientID,
		UserID:   presence.UserID,
		Payload:  outPayload,
	}
	h.broadcastToRoom(room.boardID, outMsg, excludeClientID)
}

// releaseSelections clears presence selections that point at stickers the
// operation removed.
func (h *Hub) releaseSelections(room *Room, op Operation, result engine.OpResult) {
	gone := result.Purged
	if result.Deleted && op.Type != engine.OpBoardPurge {
		gone = []string{result.StickerID}
	}
	if len(gone) == 0 {
		return
	}
	for _, clientID := range room.presence.ClearSelection(gone...) {
		if p, ok := room.presence.Get(clientID); ok {
			h.broadcastPresence(room, clientID, p, "")
		}
	}
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		sender.Send(errorMessage("invalid operation payload"))
		return
	}
	op := submit.Operation

	room, ok := h.room(sender.BoardID)
	if !ok {
		return
	}

	seq, result, err := room.state.ApplyOperation(op)
	if err != nil {
		nack, _ := json.Marshal(OperationNackPayload{OperationID: op.ID, Reason: err.Error()})
		sender.Send(&Message{Type: TypeOpNack, BoardID: sender.BoardID, Payload: nack})
		return
	}
	if op.Type == engine.OpStickerAdd {
		op.StickerID = result.StickerID
	}

	ack, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: GetServerTimestamp(),
		Result:          result,
	})
	sender.Send(&Message{Type: TypeOpAck, BoardID: sender.BoardID, Seq: seq, Payload: ack})

	// A scale the size guard skipped changed nothing, so nobody else needs it.
	if !result.Applied {
		return
	}

	h.releaseSelections(room, op, result)

	broadcast, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: seq,
		Result:    result,
	})
	h.broadcastToRoom(sender.BoardID, &Message{
		Type:    TypeOpBroadcast,
		BoardID: sender.BoardID,
		UserID:  sender.UserID,
		Seq:     seq,
		Payload: broadcast,
	}, sender.ClientID)
}

func (h *Hub) handleOpHistory(sender *Client, msg *Message) {
	var req OperationHistoryRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		sender.Send(errorMessage("invalid history payload"))
		return
	}
	room, ok := h.room(sender.BoardID)
	if !ok {
		return
	}

	ops, seq, complete := room.state.Ops(req.After)
	if ops == nil {
		ops = []Operation{}
	}
	payload, _ := json.Marshal(OperationHistoryPayload{
		Operations: ops,
		ServerSeq:  seq,
		Complete:   complete,
	})
	sender.Send(&Message{Type: TypeOpHistory, BoardID: sender.BoardID, Seq: seq, Payload: payload})
}

func (h *Hub) room(boardID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[boardID]
	return room, ok
}

func (h *Hub) broadcastToRoom(boardID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[boardID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func errorMessage(text string) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	return &Message{Type: TypeError, Payload: payload}
}
