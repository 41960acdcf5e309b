/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "encoding/json"

// Outbound message types.
const (
	TypeRoomCreated = "ROOM_CREATED"
	TypeRoomUpdate  = "ROOM_UPDATE"
	TypeError       = "ERROR"
)

// Event is the envelope every outbound message is wrapped in.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
	Room   *Room  `json:"room"`
}

type RoomUpdatePayload struct {
	Room *Room `json:"room"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func roomCreated(room *Room) Event {
	return Event{Type: TypeRoomCreated, Payload: RoomCreatedPayload{RoomID: room.ID, Room: room}}
}

func roomUpdate(room *Room) Event {
	return Event{Type: TypeRoomUpdate, Payload: RoomUpdatePayload{Room: room}}
}

func errorEvent(msg string) Event {
	return Event{Type: TypeError, Payload: ErrorPayload{Message: msg}}
}

// Dispatcher fans events out to the connections the registry knows about.
type Dispatcher struct {
	registry *Registry
	logf     Logf
}

func NewDispatcher(registry *Registry, logf Logf) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logf:     logf,
	}
}

// Broadcast serializes ev once and offers it to every connection in roomID.
// Connections that are closed or backed up are skipped; each event carries
// the full room, so a missed one is repaired by the next.
// It returns the number of connections that accepted the event.
func (d *Dispatcher) Broadcast(roomID string, ev Event) int {
	msg, err := json.Marshal(ev)
	if err != nil {
		d.logf("GAMES: Failed to encode %s for room %s: %v", ev.Type, roomID, err)
		return 0
	}

	sent := 0
	for _, c := range d.registry.Conns(roomID) {
		if c.Send(msg) {
			sent++
		}
	}
	return sent
}

// Send delivers ev to a single connection.
func (d *Dispatcher) Send(c Conn, ev Event) bool {
	msg, err := json.Marshal(ev)
	if err != nil {
		d.logf("GAMES: Failed to encode %s for %s: %v", ev.Type, c.ID(), err)
		return false
	}

	return c.Send(msg)
}
