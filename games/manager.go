/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"encoding/json"
	"fmt"
)

// Logf is how the game core reports what it is doing.
type Logf func(format string, args ...any)

// Manager owns room transitions. Every mutation of a room happens with that
// room's lock held, and rooms never lock one another, so traffic in one room
// never waits on another.
//
// Lock order is room, then registry, then store.
type Manager struct {
	store    *Store
	registry *Registry
	dispatch *Dispatcher
	logf     Logf
}

func NewManager(logf Logf) *Manager {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	registry := NewRegistry()

	return &Manager{
		store:    NewStore(),
		registry: registry,
		dispatch: NewDispatcher(registry, logf),
		logf:     logf,
	}
}

func (m *Manager) Store() *Store {
	return m.store
}

func (m *Manager) Registry() *Registry {
	return m.registry
}

// CreateRoom opens a new lobby hosted by creatorID and binds c to it.
func (m *Manager) CreateRoom(c Conn, creatorID string) error {
	room, err := m.store.Create(creatorID)
	if err != nil {
		m.logf("GAMES: Unable to create room for %q: %v", creatorID, err)
		m.dispatch.Send(c, errorEvent("Unable to create a room right now. Please try again."))
		return fmt.Errorf("creating room: %w", err)
	}

	m.registry.Bind(c, room.ID, creatorID, room.Players[0].Name)
	m.dispatch.Send(c, roomCreated(room))
	room.Unlock()

	m.logf("GAMES: Created room %s for %q", room.ID, creatorID)

	return nil
}

// JoinRoom adds playerID to the room if it is new there and binds c to it.
// Rejoining with a known id keeps the existing player entry. A connection
// that was bound elsewhere is only re-registered; the room it came from
// keeps its player.
func (m *Manager) JoinRoom(c Conn, roomID, playerID string) error {
	room, ok := m.store.Get(roomID)
	if ok {
		room.Lock()
		if room.deleted {
			room.Unlock()
			ok = false
		}
	}
	if !ok {
		m.dispatch.Send(c, errorEvent("That room does not exist."))
		return fmt.Errorf("joining %q: %w", roomID, ErrRoomNotFound)
	}

	player := room.playerLocked(playerID)
	if player == nil {
		room.Players = append(room.Players, newPlayer(playerID))
		player = &room.Players[len(room.Players)-1]
		m.logf("GAMES: Player %q joined %s", playerID, room.ID)
	}

	m.registry.Bind(c, room.ID, playerID, player.Name)
	m.dispatch.Broadcast(room.ID, roomUpdate(room))
	room.Unlock()

	return nil
}

// boundRoom resolves the room and player c speaks for and locks the room.
// The caller must unlock the room when ok is true.
func (m *Manager) boundRoom(c Conn) (room *Room, playerID string, ok bool) {
	b, bound := m.registry.Lookup(c)
	if !bound {
		return nil, "", false
	}

	room, exists := m.store.Get(b.RoomID)
	if !exists {
		return nil, "", false
	}

	room.Lock()
	if room.deleted {
		room.Unlock()
		return nil, "", false
	}

	return room, b.PlayerID, true
}

// SetDisplayName renames the player behind c and marks them ready.
func (m *Manager) SetDisplayName(c Conn, name string) {
	room, playerID, ok := m.boundRoom(c)
	if !ok {
		return
	}
	defer room.Unlock()

	player := room.playerLocked(playerID)
	if player == nil {
		return
	}

	player.Name = name
	player.IsReady = true
	m.registry.Rename(c, name)

	m.dispatch.Broadcast(room.ID, roomUpdate(room))
}

// StartGame moves a lobby of at least two players into the prompt round.
// Only the host may start.
func (m *Manager) StartGame(c Conn) {
	room, playerID, ok := m.boundRoom(c)
	if !ok {
		return
	}
	defer room.Unlock()

	if room.HostID != playerID || len(room.Players) < minPlayers {
		return
	}

	room.resetLocked(StatePrompt)
	m.logf("GAMES: Started room %s with %d players", room.ID, len(room.Players))

	m.dispatch.Broadcast(room.ID, roomUpdate(room))
}

// SubmitPrompt starts the submitting player's book.
func (m *Manager) SubmitPrompt(c Conn, text json.RawMessage) {
	room, playerID, ok := m.boundRoom(c)
	if !ok {
		return
	}
	defer room.Unlock()

	if room.State != StatePrompt {
		return
	}

	player := room.playerLocked(playerID)
	if player == nil || room.bookLocked(playerID) != nil {
		return
	}

	room.Books = append(room.Books, &Book{
		StarterID:   playerID,
		StarterName: player.Name,
		Chain: []Entry{{
			Round:     0,
			Kind:      KindText,
			Content:   text,
			CreatorID: playerID,
		}},
	})

	if len(room.Books) >= len(room.Players) {
		room.CurrentRound = 1
		room.State = StateDrawing
	}

	m.dispatch.Broadcast(room.ID, roomUpdate(room))
}

// SubmitDrawing adds a drawing to the target book for the current round.
func (m *Manager) SubmitDrawing(c Conn, targetStarterID string, drawing json.RawMessage) {
	m.submit(c, StateDrawing, KindDrawing, targetStarterID, drawing)
}

// SubmitGuess adds a guess to the target book for the current round.
func (m *Manager) SubmitGuess(c Conn, targetStarterID string, guess json.RawMessage) {
	m.submit(c, StateGuessing, KindText, targetStarterID, guess)
}

func (m *Manager) submit(c Conn, want State, kind EntryKind, targetStarterID string, content json.RawMessage) {
	room, playerID, ok := m.boundRoom(c)
	if !ok {
		return
	}
	defer room.Unlock()

	if room.State != want {
		return
	}

	round := room.CurrentRound
	if !room.appendEntryLocked(playerID, targetStarterID, kind, content) {
		return
	}

	if room.State != want || room.CurrentRound != round {
		m.logf("GAMES: Room %s finished round %d, now %s", room.ID, round, room.State)
	}

	m.dispatch.Broadcast(room.ID, roomUpdate(room))
}

// NewGame sends everyone back to the lobby. Only the host may reset.
func (m *Manager) NewGame(c Conn) {
	room, playerID, ok := m.boundRoom(c)
	if !ok {
		return
	}
	defer room.Unlock()

	if room.HostID != playerID {
		return
	}

	room.resetLocked(StateLobby)
	for i := range room.Players {
		room.Players[i].IsReady = false
	}

	m.dispatch.Broadcast(room.ID, roomUpdate(room))
}

// Disconnect forgets c and applies the departure rules to its room.
func (m *Manager) Disconnect(c Conn) {
	b, ok := m.registry.Unbind(c)
	if !ok {
		return
	}
	m.leave(b)
}

// leave handles a player's connection going away. Players only leave the
// player list while the room is in the lobby; mid-game the seat is kept so
// round completion still counts them.
func (m *Manager) leave(b Binding) {
	room, ok := m.store.Get(b.RoomID)
	if !ok {
		return
	}

	room.Lock()
	defer room.Unlock()

	if room.deleted {
		return
	}

	if room.State == StateLobby {
		room.removePlayerLocked(b.PlayerID)

		if len(room.Players) == 0 {
			m.deleteLocked(room)
			m.logf("GAMES: Deleted empty room %s", room.ID)
			return
		}
	}

	m.dispatch.Broadcast(room.ID, roomUpdate(room))
}

func (m *Manager) deleteLocked(room *Room) {
	room.deleted = true
	m.store.Delete(room)
}
