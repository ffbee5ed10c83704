// Package world generates the deterministic tile grid a session plays
// on. Generation is a pure function of (width, height, seed, rules):
// the same inputs always reproduce the same grid, which lets a world be
// re-derived from its stored seed after a restart instead of being
// persisted tile by tile.
package world

// Tile type identifiers
const (
	TileForest    = "forest"
	TileMountains = "mountains"
	TileVillage   = "village"
	TileDungeon   = "dungeon"
	TilePlains    = "plains"
	TileWater     = "water"
)

// Location type identifiers
const (
	LocationVillage = "village"
	LocationDungeon = "dungeon"
)

// Tile is one cell of the world grid
type Tile struct {
	Type       string   `json:"type"`
	Features   []string `json:"features"`
	NPCs       []NPC    `json:"npcs"`
	Passable   bool     `json:"passable"`
	Visibility float64  `json:"visibility"`
}

// NPC is a non-player character spawned on a village tile
type NPC struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Friendly bool   `json:"friendly"`
}

// Position is a coordinate on the grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Location is a notable place (village or dungeon) referenced by tile
// coordinates
type Location struct {
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Name     string   `json:"name"`
	NPCs     []NPC    `json:"npcs,omitempty"`

	// Difficulty is set for dungeons only, rated 1 through 5
	Difficulty int `json:"difficulty,omitempty"`
}

// World is the generated grid plus its side table of locations. Tiles
// are indexed [x][y]. The grid is immutable after generation.
type World struct {
	Tiles     [][]Tile   `json:"tiles"`
	Locations []Location `json:"locations"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Seed      int64      `json:"seed"`
}

// Rules are the cumulative probability bands terrain types are drawn
// from. Whatever the bands leave uncovered becomes plains.
type Rules struct {
	Forest    float64 `json:"forest"`
	Mountains float64 `json:"mountains"`
	Villages  float64 `json:"villages"`
	Dungeons  float64 `json:"dungeons"`
}

// DefaultRules returns the standard terrain distribution
func DefaultRules() Rules {
	return Rules{
		Forest:    0.30,
		Mountains: 0.20,
		Villages:  0.10,
		Dungeons:  0.05,
	}
}
