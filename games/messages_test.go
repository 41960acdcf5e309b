package games

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func stringPtr(s string) *string {
	return &s
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Command
		wantErr error
	}{
		{
			name: "create room",
			raw:  `{"type":"CREATE_ROOM","payload":{"userId":"U1"}}`,
			want: CreateRoom{UserID: "U1"},
		},
		{
			name: "join room",
			raw:  `{"type":"JOIN_ROOM","payload":{"roomId":"ABC123","userId":"U2"}}`,
			want: JoinRoom{RoomID: "ABC123", UserID: "U2"},
		},
		{
			name: "set username",
			raw:  `{"type":"SET_USERNAME","payload":{"userName":"Alice"}}`,
			want: SetUsername{UserName: stringPtr("Alice")},
		},
		{
			name: "set empty username",
			raw:  `{"type":"SET_USERNAME","payload":{"userName":""}}`,
			want: SetUsername{UserName: stringPtr("")},
		},
		{
			name: "set whitespace username",
			raw:  `{"type":"SET_USERNAME","payload":{"userName":"   "}}`,
			want: SetUsername{UserName: stringPtr("   ")},
		},
		{
			name:    "missing username",
			raw:     `{"type":"SET_USERNAME","payload":{}}`,
			wantErr: ErrMalformed,
		},
		{
			name: "start game without payload",
			raw:  `{"type":"START_GAME"}`,
			want: StartGame{},
		},
		{
			name: "new game ignores payload",
			raw:  `{"type":"NEW_GAME","payload":{"anything":1}}`,
			want: NewGame{},
		},
		{
			name: "submit prompt",
			raw:  `{"type":"SUBMIT_PROMPT","payload":{"prompt":"a cat"}}`,
			want: SubmitPrompt{Prompt: []byte(`"a cat"`)},
		},
		{
			name: "submit drawing keeps content verbatim",
			raw:  `{"type":"SUBMIT_DRAWING","payload":{"drawing":{"strokes":[1,2]},"targetStarterId":"U1"}}`,
			want: SubmitDrawing{Drawing: []byte(`{"strokes":[1,2]}`), TargetStarterID: "U1"},
		},
		{
			name: "submit guess",
			raw:  `{"type":"SUBMIT_GUESS","payload":{"guess":"a dog","targetStarterId":"U2"}}`,
			want: SubmitGuess{Guess: []byte(`"a dog"`), TargetStarterID: "U2"},
		},
		{
			name:    "not json",
			raw:     `{"type":`,
			wantErr: ErrMalformed,
		},
		{
			name:    "unknown type",
			raw:     `{"type":"DANCE","payload":{}}`,
			wantErr: ErrUnknownType,
		},
		{
			name:    "missing payload",
			raw:     `{"type":"CREATE_ROOM"}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "null payload",
			raw:     `{"type":"JOIN_ROOM","payload":null}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "missing user id",
			raw:     `{"type":"JOIN_ROOM","payload":{"roomId":"ABC123"}}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "missing target",
			raw:     `{"type":"SUBMIT_GUESS","payload":{"guess":"a dog"}}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "null drawing",
			raw:     `{"type":"SUBMIT_DRAWING","payload":{"drawing":null,"targetStarterId":"U1"}}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong field type",
			raw:     `{"type":"SET_USERNAME","payload":{"userName":42}}`,
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				if got != nil {
					t.Errorf("Decode() returned %#v alongside an error", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestRouterDropsBadInput feeds the router garbage and expects no replies,
// and a log line only for malformed input.
func TestRouterDropsBadInput(t *testing.T) {
	var logged []string
	m := NewManager(func(format string, args ...any) {
		logged = append(logged, format)
	})
	rt := NewRouter(m)
	c := newFakeConn("c1")

	rt.Handle(c, []byte(`{"type":"DANCE"}`))
	if len(logged) != 0 {
		t.Errorf("unknown type logged %v", logged)
	}

	rt.Handle(c, []byte(`not json`))
	if len(logged) != 1 || !strings.Contains(logged[0], "Dropped message") {
		t.Errorf("malformed message logged %v", logged)
	}

	if c.count() != 0 {
		t.Errorf("bad input produced %d replies", c.count())
	}
}

// TestRouterPlaysAGame drives a two player game through raw messages only.
func TestRouterPlaysAGame(t *testing.T) {
	m := NewManager(t.Logf)
	rt := NewRouter(m)
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")

	rt.Handle(c1, []byte(`{"type":"CREATE_ROOM","payload":{"userId":"U1"}}`))
	created := c1.last(t)
	if created.Type != TypeRoomCreated {
		t.Fatalf("first reply = %s, want %s", created.Type, TypeRoomCreated)
	}
	id := created.Payload.RoomID

	msgs := []struct {
		c   *fakeConn
		raw string
	}{
		{c2, `{"type":"JOIN_ROOM","payload":{"roomId":"` + id + `","userId":"U2"}}`},
		{c1, `{"type":"SET_USERNAME","payload":{"userName":"Alice"}}`},
		{c2, `{"type":"SET_USERNAME","payload":{"userName":"Bob"}}`},
		{c1, `{"type":"START_GAME"}`},
		{c1, `{"type":"SUBMIT_PROMPT","payload":{"prompt":"cat"}}`},
		{c2, `{"type":"SUBMIT_PROMPT","payload":{"prompt":"dog"}}`},
		{c2, `{"type":"SUBMIT_DRAWING","payload":{"drawing":"img-a","targetStarterId":"U1"}}`},
		{c1, `{"type":"SUBMIT_DRAWING","payload":{"drawing":"img-b","targetStarterId":"U2"}}`},
	}
	for _, msg := range msgs {
		rt.Handle(msg.c, []byte(msg.raw))
	}

	ev := c2.last(t)
	if ev.Type != TypeRoomUpdate || ev.Payload.Room["state"] != string(StateReveal) {
		t.Fatalf("final event = %s state %v", ev.Type, ev.Payload.Room["state"])
	}

	rt.Handle(c1, []byte(`{"type":"NEW_GAME"}`))
	if ev := c2.last(t); ev.Payload.Room["state"] != string(StateLobby) {
		t.Errorf("state after NEW_GAME = %v", ev.Payload.Room["state"])
	}

	rt.Handle(c2, []byte(`{"type":"JOIN_ROOM","payload":{"roomId":"NOPE00","userId":"U2"}}`))
	if ev := c2.last(t); ev.Type != TypeError {
		t.Errorf("join of unknown room replied %s", ev.Type)
	}
}

// TestRouterLogsFailedCreate checks that a room creation failure reaches the
// log the same way a failed join does.
func TestRouterLogsFailedCreate(t *testing.T) {
	var logged []string
	m := NewManager(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})
	m.store.newCode = func() (string, error) { return "AAAAAA", nil }
	rt := NewRouter(m)

	rt.Handle(newFakeConn("c1"), []byte(`{"type":"CREATE_ROOM","payload":{"userId":"U1"}}`))

	c2 := newFakeConn("c2")
	logged = nil
	rt.Handle(c2, []byte(`{"type":"CREATE_ROOM","payload":{"userId":"U2"}}`))

	found := false
	for _, line := range logged {
		if strings.HasPrefix(line, "GAMES: c2: creating room") {
			found = true
		}
	}
	if !found {
		t.Errorf("failed create not logged by the router: %q", logged)
	}
	if ev := c2.last(t); ev.Type != TypeError {
		t.Errorf("failed create replied %s, want %s", ev.Type, TypeError)
	}
}

// TestRouterAcceptsBlankUsername checks that an empty name still marks the
// player ready.
func TestRouterAcceptsBlankUsername(t *testing.T) {
	m := NewManager(t.Logf)
	rt := NewRouter(m)
	room, conns := newTable(t, m, "U1", "U2")

	rt.Handle(conns[1], []byte(`{"type":"SET_USERNAME","payload":{"userName":""}}`))

	if p := room.playerLocked("U2"); p.Name != "" || !p.IsReady {
		t.Errorf("player = %+v, want empty name and ready", p)
	}
}
