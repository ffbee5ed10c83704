package registry

import (
	"github.com/tableforge/tableforge/internal/dice"
	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/rules"
	"github.com/tableforge/tableforge/internal/world"
)

// CreateGameInput defines the input for creating a session
type CreateGameInput struct {
	Name        string
	Description string
	MaxPlayers  int32
	IsPrivate   bool
	OwnerID     string

	// WorldSeed zero means derive one from the clock
	WorldSeed   int64
	WorldWidth  int
	WorldHeight int
}

// CreateGameOutput defines the output for creating a session
type CreateGameOutput struct {
	Session *entities.Session
}

// JoinGameInput defines the input for joining a session by name
type JoinGameInput struct {
	SessionName string
	UserID      string
	PlayerName  string
}

// JoinGameOutput defines the output for joining a session
type JoinGameOutput struct {
	Session     *entities.Session
	Participant *entities.Participant
	Character   *entities.Character

	// IsNewPlayer is false when this join was a reconnect of an
	// existing participant
	IsNewPlayer bool
}

// GetGameStateInput defines the input for reading a state snapshot
type GetGameStateInput struct {
	SessionID string
}

// GetGameStateOutput is a point-in-time snapshot of a session. It
// reflects every mutation committed before the call.
type GetGameStateOutput struct {
	Session      *entities.Session       `json:"session"`
	Participants []*entities.Participant `json:"participants"`
	Characters   []*entities.Character   `json:"characters"`
	World        *world.World            `json:"world"`
	Log          []*entities.LogEntry    `json:"log"`
}

// StatePatch names the game-state fields to overwrite; nil fields are
// left untouched
type StatePatch struct {
	Status      *string
	CurrentTurn *string
	TurnOrder   *[]string
	Round       *int32
}

// UpdateGameStateInput defines the input for a shallow state merge
type UpdateGameStateInput struct {
	SessionID string
	Patch     StatePatch
}

// UpdateGameStateOutput defines the output for a state merge
type UpdateGameStateOutput struct {
	Session *entities.Session
}

// DisconnectPlayerInput defines the input for marking a player offline
type DisconnectPlayerInput struct {
	ParticipantID string
}

// DisconnectPlayerOutput defines the output for a disconnect.
// Disconnected is false when the participant was unknown or already
// offline; repeating a disconnect is never an error.
type DisconnectPlayerOutput struct {
	SessionID    string
	Disconnected bool
}

// CreateCharacterInput defines the input for building a character sheet
type CreateCharacterInput struct {
	SessionID     string
	ParticipantID string
	Build         rules.BuildInput
}

// CreateCharacterOutput defines the output for a character build
type CreateCharacterOutput struct {
	Character *entities.Character

	// Warnings carries non-fatal skill validation notes
	Warnings []string
}

// MoveCharacterInput defines the input for moving a character
type MoveCharacterInput struct {
	SessionID     string
	ParticipantID string
	X             int
	Y             int
}

// MoveCharacterOutput defines the output for a move
type MoveCharacterOutput struct {
	Character *entities.Character
}

// RollDiceInput defines the input for an in-session dice roll
type RollDiceInput struct {
	SessionID     string
	ParticipantID string

	// Command is roll notation like "/roll 2d6+3"; anything
	// unparseable falls back to a single d20
	Command string
}

// RollDiceOutput defines the output for a dice roll
type RollDiceOutput struct {
	Result    *dice.RollResult
	Formatted string
}

// GetTileInfoInput defines the input for inspecting a tile
type GetTileInfoInput struct {
	SessionID string
	X         int
	Y         int
}

// GetTileInfoOutput defines the output for a tile inspection
type GetTileInfoOutput struct {
	Position world.Position `json:"position"`
	Tile     *world.Tile    `json:"tile"`
}

// InteractWithTileInput defines the input for a tile interaction
type InteractWithTileInput struct {
	SessionID     string
	ParticipantID string
	Action        string
	X             int
	Y             int
}

// InteractWithTileOutput defines the output for a tile interaction.
// Interactions are read-only: they describe the tile, they never
// mutate the world.
type InteractWithTileOutput struct {
	Result   string
	Findings []string
}

// LogActionInput defines the input for appending to the session log
type LogActionInput struct {
	SessionID     string
	ParticipantID string
	Type          string
	Message       string
	Data          map[string]interface{}
}

// LogActionOutput defines the output for a log append
type LogActionOutput struct {
	Entry *entities.LogEntry
}

// Event payloads published to the session room. Field names follow the
// wire casing the client expects.

// PlayerJoinedEvent announces a join or reconnect
type PlayerJoinedEvent struct {
	Participant *entities.Participant `json:"participant"`
	Character   *entities.Character   `json:"character,omitempty"`
	IsNewPlayer bool                  `json:"isNewPlayer"`
}

// PlayerDisconnectedEvent announces a player going offline
type PlayerDisconnectedEvent struct {
	ParticipantID string `json:"participantId"`
	PlayerName    string `json:"playerName"`
}

// CharacterCreatedEvent announces a finished character build
type CharacterCreatedEvent struct {
	Character *entities.Character `json:"character"`
}

// CharacterMovedEvent announces a committed move
type CharacterMovedEvent struct {
	ParticipantID string            `json:"participantId"`
	Position      entities.Position `json:"position"`
}

// DiceRolledEvent announces a dice roll result
type DiceRolledEvent struct {
	ParticipantID string           `json:"participantId"`
	PlayerName    string           `json:"playerName"`
	Result        *dice.RollResult `json:"result"`
	Formatted     string           `json:"formatted"`
}

// TileInteractionEvent announces a tile interaction outcome
type TileInteractionEvent struct {
	ParticipantID string         `json:"participantId"`
	Action        string         `json:"action"`
	Position      world.Position `json:"position"`
	Result        string         `json:"result"`
	Findings      []string       `json:"findings,omitempty"`
}

// GameStateUpdatedEvent announces a merged game state
type GameStateUpdatedEvent struct {
	State entities.GameState `json:"state"`
}

// ChatMessageEvent announces a chat line
type ChatMessageEvent struct {
	ParticipantID string `json:"participantId"`
	PlayerName    string `json:"playerName"`
	Message       string `json:"message"`
	Timestamp     int64  `json:"timestamp"`
}

// SystemMessageEvent announces a registry-authored notice
type SystemMessageEvent struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}
