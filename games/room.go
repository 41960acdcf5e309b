/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"encoding/json"
	"sync"
)

// State is the room-level phase of a game.
type State string

const (
	StateLobby    State = "lobby"
	StatePrompt   State = "prompt"
	StateDrawing  State = "drawing"
	StateGuessing State = "guessing"
	StateReveal   State = "reveal"
)

// EntryKind tells text pages apart from drawings in a book.
type EntryKind string

const (
	KindText    EntryKind = "text"
	KindDrawing EntryKind = "drawing"
)

// minPlayers is the smallest table that can start a game.
const minPlayers = 2

type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsReady bool   `json:"isReady"`
}

// Entry is a single page of a book. Content is passed through to clients
// verbatim, so drawings may be any JSON value the client chooses.
type Entry struct {
	Round     int             `json:"round"`
	Kind      EntryKind       `json:"type"`
	Content   json.RawMessage `json:"content"`
	CreatorID string          `json:"creatorId"`
}

// Book is the chain of pages started by one player's opening prompt.
type Book struct {
	StarterID   string  `json:"starterId"`
	StarterName string  `json:"starterName"`
	Chain       []Entry `json:"chain"`
}

// Room is the whole shared state of one game session. Every field is
// guarded by mu; the room is serialized as-is for ROOM_UPDATE events.
type Room struct {
	ID           string   `json:"id"`
	HostID       string   `json:"hostId"`
	State        State    `json:"state"`
	CurrentRound int      `json:"currentRound"`
	Players      []Player `json:"users"`
	Books        []*Book  `json:"books"`

	mu      sync.Mutex
	deleted bool
}

func newRoom(id, hostID string) *Room {
	return &Room{
		ID:      id,
		HostID:  hostID,
		State:   StateLobby,
		Players: []Player{newPlayer(hostID)},
		Books:   []*Book{},
	}
}

func newPlayer(id string) Player {
	return Player{
		ID:   id,
		Name: placeholderName(id),
	}
}

// placeholderName is shown until a player picks a display name.
func placeholderName(id string) string {
	r := []rune(id)
	if len(r) > 4 {
		r = r[:4]
	}
	return "Anonymous_" + string(r)
}

func (r *Room) Lock() {
	r.mu.Lock()
}

func (r *Room) Unlock() {
	r.mu.Unlock()
}

func (r *Room) playerLocked(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

func (r *Room) bookLocked(starterID string) *Book {
	for _, b := range r.Books {
		if b.StarterID == starterID {
			return b
		}
	}
	return nil
}

// removePlayerLocked drops a player, handing the host role to whoever is
// now first in line if the host left.
func (r *Room) removePlayerLocked(id string) bool {
	dst := r.Players[:0]
	removed := false
	for _, p := range r.Players {
		if p.ID == id {
			removed = true
			continue
		}
		dst = append(dst, p)
	}
	r.Players = dst

	if removed && r.HostID == id && len(r.Players) > 0 {
		r.HostID = r.Players[0].ID
	}
	return removed
}

func (r *Room) resetLocked(state State) {
	r.State = state
	r.CurrentRound = 0
	r.Books = []*Book{}
}

// appendEntryLocked adds a page for the current round to the target book.
// It refuses a second page for the same round.
func (r *Room) appendEntryLocked(playerID, targetStarterID string, kind EntryKind, content json.RawMessage) bool {
	if r.playerLocked(playerID) == nil {
		return false
	}

	book := r.bookLocked(targetStarterID)
	if book == nil {
		return false
	}

	if len(book.Chain) >= r.CurrentRound+1 {
		return false
	}

	book.Chain = append(book.Chain, Entry{
		Round:     r.CurrentRound,
		Kind:      kind,
		Content:   content,
		CreatorID: playerID,
	})

	r.advanceIfRoundCompleteLocked()

	return true
}

// advanceIfRoundCompleteLocked moves to the next round once every book has
// a page for the current one. Round 1 is always drawn (SubmitPrompt opens
// it); after that odd rounds are guessed and even rounds drawn. The game is
// revealed once each book has visited every player.
func (r *Room) advanceIfRoundCompleteLocked() {
	want := r.CurrentRound + 1
	for _, b := range r.Books {
		if len(b.Chain) < want {
			return
		}
	}

	next := r.CurrentRound + 1
	if next >= len(r.Players) {
		r.State = StateReveal
		return
	}

	r.CurrentRound = next
	if next%2 == 1 {
		r.State = StateGuessing
	} else {
		r.State = StateDrawing
	}
}
