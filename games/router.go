/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "errors"

// Router turns raw client messages into Manager calls.
type Router struct {
	manager *Manager
	logf    Logf
}

func NewRouter(manager *Manager) *Router {
	return &Router{
		manager: manager,
		logf:    manager.logf,
	}
}

// Handle decodes and applies a single message from c. Malformed messages
// are logged and dropped; unknown types are ignored. Neither produces a
// reply.
func (rt *Router) Handle(c Conn, raw []byte) {
	cmd, err := Decode(raw)
	switch {
	case errors.Is(err, ErrUnknownType):
		return
	case err != nil:
		rt.logf("GAMES: Dropped message from %s: %v", c.ID(), err)
		return
	}

	rt.Dispatch(c, cmd)
}

// Dispatch applies an already decoded command on behalf of c.
func (rt *Router) Dispatch(c Conn, cmd Command) {
	m := rt.manager

	switch cmd := cmd.(type) {
	case CreateRoom:
		if err := m.CreateRoom(c, cmd.UserID); err != nil {
			rt.logf("GAMES: %s: %v", c.ID(), err)
		}
	case JoinRoom:
		if err := m.JoinRoom(c, cmd.RoomID, cmd.UserID); err != nil {
			rt.logf("GAMES: %s: %v", c.ID(), err)
		}
	case SetUsername:
		m.SetDisplayName(c, *cmd.UserName)
	case StartGame:
		m.StartGame(c)
	case SubmitPrompt:
		m.SubmitPrompt(c, cmd.Prompt)
	case SubmitDrawing:
		m.SubmitDrawing(c, cmd.TargetStarterID, cmd.Drawing)
	case SubmitGuess:
		m.SubmitGuess(c, cmd.TargetStarterID, cmd.Guess)
	case NewGame:
		m.NewGame(c)
	default:
		rt.logf("GAMES: Unhandled command %T from %s", cmd, c.ID())
	}
}
