// Package entities holds the data-only domain types shared across the
// server. Entities carry no derived math: the rules, dice, and world
// packages do all calculation, the registry does all mutation.
package entities

// GameState is the mutable state blob of a session. It is only ever
// written by the session registry.
type GameState struct {
	Status      string   `json:"status"`
	CurrentTurn string   `json:"currentTurn,omitempty"`
	TurnOrder   []string `json:"turnOrder"`
	Round       int32    `json:"round"`
}

// Session represents one instance of a shared tabletop game
type Session struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MaxPlayers  int32     `json:"maxPlayers"`
	IsPrivate   bool      `json:"isPrivate"`
	IsActive    bool      `json:"isActive"`
	OwnerID     string    `json:"ownerId,omitempty"`
	State       GameState `json:"state"`

	// World generation inputs. The grid itself is never persisted:
	// it is re-derived from these on load.
	WorldSeed   int64 `json:"worldSeed"`
	WorldWidth  int   `json:"worldWidth"`
	WorldHeight int   `json:"worldHeight"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}
