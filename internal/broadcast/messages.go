package broadcast

import "encoding/json"

// Command types accepted from clients
const (
	CommandAuthenticate    = "authenticate"
	CommandJoinGame        = "join_game"
	CommandCreateCharacter = "create_character"
	CommandMoveCharacter   = "move_character"
	CommandRollDice        = "roll_dice"
	CommandInteractTile    = "interact_tile"
	CommandGetTileInfo     = "get_tile_info"
	CommandChatMessage     = "chat_message"
	CommandUpdateGameState = "update_game_state"
)

// ClientMessage is the envelope every inbound frame must match
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage is the envelope for every outbound frame
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ErrorPayload is sent point-to-point to the connection whose command
// failed. Errors are never fanned out to the room.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AuthenticatePayload identifies the connection's user
type AuthenticatePayload struct {
	UserID     string `json:"userId"`
	PlayerName string `json:"playerName"`
}

// AuthenticatedPayload acknowledges a successful authenticate
type AuthenticatedPayload struct {
	UserID     string `json:"userId"`
	PlayerName string `json:"playerName"`
}

// JoinGamePayload names the session to join
type JoinGamePayload struct {
	SessionName string `json:"sessionName"`
}

// CreateCharacterPayload carries the build choices for a new sheet
type CreateCharacterPayload struct {
	Name          string   `json:"name"`
	Race          string   `json:"race"`
	Class         string   `json:"class"`
	Background    string   `json:"background"`
	Alignment     string   `json:"alignment,omitempty"`
	AbilityScores []int32  `json:"abilityScores"`
	SkillChoices  []string `json:"skillChoices"`
}

// MoveCharacterPayload is a move request
type MoveCharacterPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RollDicePayload carries roll notation
type RollDicePayload struct {
	Command string `json:"command"`
}

// InteractTilePayload is a tile interaction request
type InteractTilePayload struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// GetTileInfoPayload asks for a tile description
type GetTileInfoPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ChatMessagePayload is a chat line for the room
type ChatMessagePayload struct {
	Message string `json:"message"`
}

// UpdateGameStatePayload is a shallow game-state merge; absent fields
// are left untouched
type UpdateGameStatePayload struct {
	Status      *string   `json:"status,omitempty"`
	CurrentTurn *string   `json:"currentTurn,omitempty"`
	TurnOrder   *[]string `json:"turnOrder,omitempty"`
	Round       *int32    `json:"round,omitempty"`
}
