/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound message types.
const (
	TypeCreateRoom    = "CREATE_ROOM"
	TypeJoinRoom      = "JOIN_ROOM"
	TypeSetUsername   = "SET_USERNAME"
	TypeStartGame     = "START_GAME"
	TypeSubmitPrompt  = "SUBMIT_PROMPT"
	TypeSubmitDrawing = "SUBMIT_DRAWING"
	TypeSubmitGuess   = "SUBMIT_GUESS"
	TypeNewGame       = "NEW_GAME"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// envelope is the shape of every message in either direction.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Command is one decoded client request. The set of implementations is
// closed; see Decode.
type Command interface {
	validate() error
}

type CreateRoom struct {
	UserID string `json:"userId"`
}

type JoinRoom struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// SetUsername carries the name exactly as typed. Only a missing field is
// rejected; an empty name is still a name.
type SetUsername struct {
	UserName *string `json:"userName"`
}

type StartGame struct{}

type SubmitPrompt struct {
	Prompt json.RawMessage `json:"prompt"`
}

type SubmitDrawing struct {
	Drawing         json.RawMessage `json:"drawing"`
	TargetStarterID string          `json:"targetStarterId"`
}

type SubmitGuess struct {
	Guess           json.RawMessage `json:"guess"`
	TargetStarterID string          `json:"targetStarterId"`
}

type NewGame struct{}

func (c CreateRoom) validate() error {
	return require("userId", c.UserID != "")
}

func (c JoinRoom) validate() error {
	if err := require("roomId", c.RoomID != ""); err != nil {
		return err
	}
	return require("userId", c.UserID != "")
}

func (c SetUsername) validate() error {
	return require("userName", c.UserName != nil)
}

func (StartGame) validate() error { return nil }

func (c SubmitPrompt) validate() error {
	return require("prompt", present(c.Prompt))
}

func (c SubmitDrawing) validate() error {
	if err := require("drawing", present(c.Drawing)); err != nil {
		return err
	}
	return require("targetStarterId", c.TargetStarterID != "")
}

func (c SubmitGuess) validate() error {
	if err := require("guess", present(c.Guess)); err != nil {
		return err
	}
	return require("targetStarterId", c.TargetStarterID != "")
}

func (NewGame) validate() error { return nil }

// Decode parses one inbound message. Messages that are not valid JSON, or
// that lack a field their type requires, fail with ErrMalformed; types this
// server does not know fail with ErrUnknownType.
func Decode(raw []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	cmd, err := decodeCommand(env)
	if err != nil {
		return nil, err
	}

	if err := cmd.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s %v", ErrMalformed, env.Type, err)
	}

	return cmd, nil
}

func decodeCommand(env envelope) (Command, error) {
	switch env.Type {
	case TypeCreateRoom:
		return decodeAs[CreateRoom](env)
	case TypeJoinRoom:
		return decodeAs[JoinRoom](env)
	case TypeSetUsername:
		return decodeAs[SetUsername](env)
	case TypeStartGame:
		return StartGame{}, nil
	case TypeSubmitPrompt:
		return decodeAs[SubmitPrompt](env)
	case TypeSubmitDrawing:
		return decodeAs[SubmitDrawing](env)
	case TypeSubmitGuess:
		return decodeAs[SubmitGuess](env)
	case TypeNewGame:
		return NewGame{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
}

func decodeAs[T Command](env envelope) (Command, error) {
	var cmd T

	if !present(env.Payload) {
		return nil, fmt.Errorf("%w: %s has no payload", ErrMalformed, env.Type)
	}

	if err := json.Unmarshal(env.Payload, &cmd); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformed, env.Type, err)
	}

	return cmd, nil
}

func require(field string, ok bool) error {
	if ok {
		return nil
	}
	return fmt.Errorf("missing %s", field)
}

// present reports whether a raw field was supplied with a non-null value.
func present(v json.RawMessage) bool {
	return len(v) > 0 && string(v) != "null"
}
