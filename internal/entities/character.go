package entities

// AbilityScores holds one value per ability. The same shape is used for
// raw scores and for derived modifiers.
type AbilityScores struct {
	Strength     int32 `json:"strength"`
	Dexterity    int32 `json:"dexterity"`
	Constitution int32 `json:"constitution"`
	Intelligence int32 `json:"intelligence"`
	Wisdom       int32 `json:"wisdom"`
	Charisma     int32 `json:"charisma"`
}

// SavingThrows marks which abilities the character is proficient in
// for saving throws.
type SavingThrows struct {
	Strength     bool `json:"strength"`
	Dexterity    bool `json:"dexterity"`
	Constitution bool `json:"constitution"`
	Intelligence bool `json:"intelligence"`
	Wisdom       bool `json:"wisdom"`
	Charisma     bool `json:"charisma"`
}

// SkillProficiency is one proficient skill with its source attribution
// ("class" or "background") for sheet display.
type SkillProficiency struct {
	Name    string `json:"name"`
	Ability string `json:"ability"`
	Source  string `json:"source"`
}

// Position is a location on the world grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Money is the character's coin pouch
type Money struct {
	Copper   int32 `json:"copper"`
	Silver   int32 `json:"silver"`
	Electrum int32 `json:"electrum"`
	Gold     int32 `json:"gold"`
	Platinum int32 `json:"platinum"`
}

// Character holds the full derived sheet produced by the build engine.
// Owned exclusively by one participant; mutated only through the
// registry and never silently destroyed.
type Character struct {
	ID            string `json:"id"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Race          string `json:"race"`
	Class         string `json:"class"`
	Background    string `json:"background"`
	Alignment     string `json:"alignment,omitempty"`
	Level         int32  `json:"level"`
	Experience    int32  `json:"experience"`

	Abilities    AbilityScores               `json:"abilities"`
	Modifiers    AbilityScores               `json:"modifiers"`
	SavingThrows SavingThrows                `json:"savingThrows"`
	Skills       map[string]SkillProficiency `json:"skills"`

	HP         int32 `json:"hp"`
	MaxHP      int32 `json:"maxHp"`
	TempHP     int32 `json:"tempHp"`
	ArmorClass int32 `json:"armorClass"`
	Initiative int32 `json:"initiative"`
	Speed      int32 `json:"speed"`

	Inventory           []string           `json:"inventory"`
	Equipment           []string           `json:"equipment"`
	Languages           []string           `json:"languages"`
	RacialTraits        []string           `json:"racialTraits"`
	ClassFeatures       []string           `json:"classFeatures"`
	WeaponProficiencies []string           `json:"weaponProficiencies"`
	ArmorProficiencies  []string           `json:"armorProficiencies"`
	SpellSlots          map[int32][]string `json:"spellSlots,omitempty"`

	Position Position `json:"position"`
	IsAlive  bool     `json:"isAlive"`
	Money    Money    `json:"money"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}
