// Package rules is the character build engine: static race, class,
// background, and skill tables plus the pure derivation pipeline that
// turns a set of build choices into a complete character sheet.
package rules

import "github.com/tableforge/tableforge/internal/entities"

// Ability identifiers used across the tables
const (
	AbilityStrength     = "strength"
	AbilityDexterity    = "dexterity"
	AbilityConstitution = "constitution"
	AbilityIntelligence = "intelligence"
	AbilityWisdom       = "wisdom"
	AbilityCharisma     = "charisma"
)

// Race is a static race table entry
type Race struct {
	Name           string
	AbilityBonuses entities.AbilityScores
	Speed          int32
	Size           string
	Languages      []string
	Traits         []string
}

// Class is a static class table entry
type Class struct {
	Name string

	// HitDie is the die size; level-one HP is its full value plus the
	// constitution modifier
	HitDie int32

	PrimaryAbility      string
	SavingThrows        []string
	SkillChoices        int
	Skills              []string
	StartingEquipment   []string
	Features            []string
	Spellcasting        bool
	ArmorProficiencies  []string
	WeaponProficiencies []string
}

// Background is a static background table entry
type Background struct {
	Name string

	// Skills are granted outright, on top of the class choices
	Skills []string

	ExtraLanguages int
	Equipment      []string
}

// Skill describes one of the eighteen skills and the ability it keys
// off
type Skill struct {
	Name    string
	Ability string
}

// RaceByID looks up a race table entry
func RaceByID(id string) (Race, bool) {
	race, ok := races[id]
	return race, ok
}

// ClassByID looks up a class table entry
func ClassByID(id string) (Class, bool) {
	class, ok := classes[id]
	return class, ok
}

// BackgroundByID looks up a background table entry
func BackgroundByID(id string) (Background, bool) {
	background, ok := backgrounds[id]
	return background, ok
}

// SkillByID looks up a skill table entry
func SkillByID(id string) (Skill, bool) {
	skill, ok := skills[id]
	return skill, ok
}
