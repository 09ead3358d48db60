package protocol

import (
	"encoding/json"

	"cardmasters-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "join_room", "play_card")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type CreateRoomPayload struct {
	Name        string `json:"name"`
	TargetScore int    `json:"target_score"`
	Capacity    int    `json:"capacity"` // Total seats including bots (2-4)
	Bots        int    `json:"bots"`     // Seats reserved for bots
}

type JoinRoomPayload struct {
	Name     string `json:"name"`
	RoomCode string `json:"room_code"`
}

type PlayCardPayload struct {
	Suit      shared.Suit `json:"suit"`
	Rank      string      `json:"rank"`
	HandIndex int         `json:"hand_index"`
}

// --- Server -> Client Payload Structs ---

type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
}

type LobbyUpdatePayload struct {
	Players  []PlayerInfo `json:"players"`
	Capacity int          `json:"capacity"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	IsBot bool   `json:"is_bot,omitempty"`
	Score int    `json:"score"`
}

type GameStartPayload struct {
	MatchID     string       `json:"match_id"`
	Players     []PlayerInfo `json:"players"`
	TargetScore int          `json:"target_score"`
}

type DealHandPayload struct {
	Hand []shared.Card `json:"hand"`
}

type YourTurnPayload struct {
	PlayerID string `json:"player_id"`
}

type GameStatePayload struct {
	CurrentPlayerID   string              `json:"current_player_id"`
	ControlPlayerID   string              `json:"control_player_id"`
	TrickPlays        []shared.PlayedCard `json:"trick_plays"`
	LeadSuit          shared.Suit         `json:"lead_suit"`
	AccumulatedPoints int                 `json:"accumulated_points"`
	Players           []PlayerInfo        `json:"players"`
	TricksPlayed      int                 `json:"tricks_played"`
	GameState         string              `json:"game_state"`
	LastMessage       string              `json:"last_message,omitempty"`
}

type TrickEndPayload struct {
	WinnerID          string              `json:"winner_id"`
	WinningCard       shared.Card         `json:"winning_card"`
	Cards             []shared.PlayedCard `json:"cards"`
	PointsEarned      int                 `json:"points_earned"`
	AccumulatedPoints int                 `json:"accumulated_points"`
}

type SubgameEndPayload struct {
	WinnerID     string       `json:"winner_id"`
	BankedPoints int          `json:"banked_points"`
	Players      []PlayerInfo `json:"players"`
}

type GameOverPayload struct {
	WinnerID   string       `json:"winner_id"`
	WinnerName string       `json:"winner_name"`
	Players    []PlayerInfo `json:"players"`
}

type ErrorPayload struct {
	Error   string `json:"error,omitempty"` // Machine-readable kind, when the engine produced one
	Message string `json:"message"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		msg := Message{
			Type:    msgType,
			Payload: nil,
		}
		return json.Marshal(msg)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
