package entities

// Session status constants
const (
	StatusWaiting  = "waiting"
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Log entry type constants
const (
	LogTypeChat     = "chat"
	LogTypeAction   = "action"
	LogTypeCombat   = "combat"
	LogTypeSystem   = "system"
	LogTypeDiceRoll = "dice_roll"
)

// Skill proficiency source constants
const (
	SkillSourceClass      = "class"
	SkillSourceBackground = "background"
)

// Event name constants. Events published by the registry are fanned out
// to every member of the session room; the point-to-point events below
// only ever go to a single connection.
const (
	EventGameState          = "game_state"
	EventGameStateUpdated   = "game_state_updated"
	EventPlayerJoined       = "player_joined"
	EventPlayerDisconnected = "player_disconnected"
	EventCharacterMoved     = "character_moved"
	EventCharacterCreated   = "character_created"
	EventDiceRolled         = "dice_rolled"
	EventTileInteraction    = "tile_interaction"
	EventChatMessage        = "chat_message"
	EventSystemMessage      = "system_message"

	// Point-to-point events
	EventAuthenticated = "authenticated"
	EventTileInfo      = "tile_info"
	EventError         = "error"
)
