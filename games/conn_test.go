package games

import (
	"encoding/json"
	"sync"
	"testing"
)

// fakeConn records everything sent to it.
type fakeConn struct {
	id string

	mu     sync.Mutex
	closed bool
	msgs   [][]byte
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string {
	return f.id
}

func (f *fakeConn) Send(msg []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	f.msgs = append(f.msgs, msg)
	return true
}

func (f *fakeConn) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.msgs)
}

// received is the decoded form of an outbound event.
type received struct {
	Type    string `json:"type"`
	Payload struct {
		RoomID  string         `json:"roomId"`
		Message string         `json:"message"`
		Room    map[string]any `json:"room"`
	} `json:"payload"`
}

func (f *fakeConn) last(t *testing.T) received {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.msgs) == 0 {
		t.Fatalf("%s received no messages", f.id)
	}

	var ev received
	if err := json.Unmarshal(f.msgs[len(f.msgs)-1], &ev); err != nil {
		t.Fatalf("%s received undecodable message: %v", f.id, err)
	}
	return ev
}
