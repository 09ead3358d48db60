package game

import "fmt"

// ErrorKind classifies a rejected play so the transport layer can
// relay it to the offending player.
type ErrorKind string

const (
	ErrGameOver         ErrorKind = "game_over"
	ErrNotLeader        ErrorKind = "not_leader"
	ErrAlreadyPlayed    ErrorKind = "already_played"
	ErrNotYourTurn      ErrorKind = "not_your_turn"
	ErrMustFollowSuit   ErrorKind = "must_follow_suit"
	ErrInvalidCardIndex ErrorKind = "invalid_card_index"
	ErrPlayerNotFound   ErrorKind = "player_not_found"
)

// PlayError describes why a play was rejected. A rejected play never
// mutates engine state; every PlayError is recoverable.
type PlayError struct {
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message"`
}

func (e *PlayError) Error() string {
	return e.Message
}

func newPlayError(kind ErrorKind, format string, args ...interface{}) *PlayError {
	return &PlayError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
