/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "sync"

// Conn is the part of a live client session the game core needs.
//
// Send must never block: it queues msg for delivery and reports false when
// the session is closed or cannot accept more output.
type Conn interface {
	ID() string
	Send(msg []byte) bool
}

// Binding records which room and player a connection speaks for.
type Binding struct {
	RoomID   string
	PlayerID string
	Name     string
}

// Registry maps connections to the room and player they represent, with a
// per-room index for broadcasts. It is a back-reference only; rooms remain
// the source of truth for game state.
type Registry struct {
	mu     sync.RWMutex
	conns  map[Conn]Binding
	byRoom map[string]map[Conn]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[Conn]Binding),
		byRoom: make(map[string]map[Conn]struct{}),
	}
}

// Bind associates c with a room and player, replacing any earlier binding.
func (reg *Registry) Bind(c Conn, roomID, playerID, name string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	prev, had := reg.conns[c]
	if had {
		reg.dropIndexLocked(c, prev.RoomID)
	}

	reg.conns[c] = Binding{
		RoomID:   roomID,
		PlayerID: playerID,
		Name:     name,
	}

	set, ok := reg.byRoom[roomID]
	if !ok {
		set = make(map[Conn]struct{})
		reg.byRoom[roomID] = set
	}
	set[c] = struct{}{}
}

func (reg *Registry) Lookup(c Conn) (Binding, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	b, ok := reg.conns[c]
	return b, ok
}

func (reg *Registry) Rename(c Conn, name string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if b, ok := reg.conns[c]; ok {
		b.Name = name
		reg.conns[c] = b
	}
}

// Unbind forgets c and returns what it was bound to.
func (reg *Registry) Unbind(c Conn) (Binding, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	b, ok := reg.conns[c]
	if !ok {
		return Binding{}, false
	}

	delete(reg.conns, c)
	reg.dropIndexLocked(c, b.RoomID)

	return b, true
}

func (reg *Registry) dropIndexLocked(c Conn, roomID string) {
	set, ok := reg.byRoom[roomID]
	if !ok {
		return
	}

	delete(set, c)
	if len(set) == 0 {
		delete(reg.byRoom, roomID)
	}
}

// Conns returns a snapshot of every connection bound to roomID, in no
// particular order.
func (reg *Registry) Conns(roomID string) []Conn {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	set := reg.byRoom[roomID]
	out := make([]Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

func (reg *Registry) Count(roomID string) int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.byRoom[roomID])
}
