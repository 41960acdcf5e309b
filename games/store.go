/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
)

const (
	roomCodeLength   = 6
	roomCodeLetters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeAttempts = 16
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomCodesExhausted = errors.New("unable to allocate an unused room code")
)

// Store holds every live room keyed by its code. It only guards the map;
// the rooms themselves are guarded by their own locks.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	newCode func() (string, error)
}

func NewStore() *Store {
	return &Store{
		rooms:   make(map[string]*Room),
		newCode: newRoomCode,
	}
}

// newRoomCode returns a short crypto-random code players can type by hand.
func newRoomCode() (string, error) {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	out := make([]byte, roomCodeLength)
	for i := range out {
		out[i] = roomCodeLetters[int(buf[i])%len(roomCodeLetters)]
	}

	return string(out), nil
}

// Create allocates a fresh code and stores a lobby room hosted by hostID.
// Codes that collide with a live room are regenerated a bounded number of
// times. The room is returned locked, before anything else can see it.
func (s *Store) Create(hostID string) (*Room, error) {
	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}

		s.mu.Lock()
		if _, exists := s.rooms[code]; exists {
			s.mu.Unlock()
			continue
		}
		room := newRoom(code, hostID)
		room.Lock()
		s.rooms[code] = room
		s.mu.Unlock()

		return room, nil
	}

	return nil, ErrRoomCodesExhausted
}

func (s *Store) Get(id string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	return room, ok
}

// Delete removes the room only if id still maps to that exact room.
func (s *Store) Delete(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rooms[room.ID] == room {
		delete(s.rooms, room.ID)
	}
}

// IDs returns a snapshot of the codes of every stored room.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}
