package rules

import "github.com/tableforge/tableforge/internal/entities"

var races = map[string]Race{
	"human": {
		Name: "Human",
		AbilityBonuses: entities.AbilityScores{
			Strength: 1, Dexterity: 1, Constitution: 1,
			Intelligence: 1, Wisdom: 1, Charisma: 1,
		},
		Speed:     30,
		Size:      "Medium",
		Languages: []string{"Common"},
		Traits:    []string{"Versatile"},
	},
	"elf": {
		Name:           "Elf",
		AbilityBonuses: entities.AbilityScores{Dexterity: 2},
		Speed:          30,
		Size:           "Medium",
		Languages:      []string{"Common", "Elvish"},
		Traits:         []string{"Darkvision", "Keen Senses", "Fey Ancestry", "Trance"},
	},
	"dwarf": {
		Name:           "Dwarf",
		AbilityBonuses: entities.AbilityScores{Constitution: 2},
		Speed:          25,
		Size:           "Medium",
		Languages:      []string{"Common", "Dwarvish"},
		Traits:         []string{"Darkvision", "Dwarven Resilience", "Dwarven Combat Training", "Stonecunning"},
	},
	"halfling": {
		Name:           "Halfling",
		AbilityBonuses: entities.AbilityScores{Dexterity: 2},
		Speed:          25,
		Size:           "Small",
		Languages:      []string{"Common", "Halfling"},
		Traits:         []string{"Lucky", "Brave", "Halfling Nimbleness"},
	},
	"dragonborn": {
		Name:           "Dragonborn",
		AbilityBonuses: entities.AbilityScores{Strength: 2, Charisma: 1},
		Speed:          30,
		Size:           "Medium",
		Languages:      []string{"Common", "Draconic"},
		Traits:         []string{"Draconic Ancestry", "Breath Weapon", "Damage Resistance"},
	},
	"gnome": {
		Name:           "Gnome",
		AbilityBonuses: entities.AbilityScores{Intelligence: 2},
		Speed:          25,
		Size:           "Small",
		Languages:      []string{"Common", "Gnomish"},
		Traits:         []string{"Darkvision", "Gnome Cunning"},
	},
	"half-elf": {
		Name:           "Half-Elf",
		AbilityBonuses: entities.AbilityScores{Charisma: 2, Strength: 1, Dexterity: 1},
		Speed:          30,
		Size:           "Medium",
		Languages:      []string{"Common", "Elvish"},
		Traits:         []string{"Darkvision", "Fey Ancestry", "Skill Versatility"},
	},
	"half-orc": {
		Name:           "Half-Orc",
		AbilityBonuses: entities.AbilityScores{Strength: 2, Constitution: 1},
		Speed:          30,
		Size:           "Medium",
		Languages:      []string{"Common", "Orc"},
		Traits:         []string{"Darkvision", "Menacing", "Relentless Endurance", "Savage Attacks"},
	},
	"tiefling": {
		Name:           "Tiefling",
		AbilityBonuses: entities.AbilityScores{Intelligence: 1, Charisma: 2},
		Speed:          30,
		Size:           "Medium",
		Languages:      []string{"Common", "Infernal"},
		Traits:         []string{"Darkvision", "Hellish Resistance", "Infernal Legacy"},
	},
}

var classes = map[string]Class{
	"fighter": {
		Name:                "Fighter",
		HitDie:              10,
		PrimaryAbility:      AbilityStrength,
		SavingThrows:        []string{AbilityStrength, AbilityConstitution},
		SkillChoices:        2,
		Skills:              []string{"acrobatics", "athletics", "history", "insight", "intimidation", "perception", "survival"},
		StartingEquipment:   []string{"chain mail", "martial weapon", "shield", "light crossbow", "explorer's pack"},
		Features:            []string{"Fighting Style", "Second Wind"},
		ArmorProficiencies:  []string{"light", "medium", "heavy", "shields"},
		WeaponProficiencies: []string{"simple", "martial"},
	},
	"wizard": {
		Name:                "Wizard",
		HitDie:              6,
		PrimaryAbility:      AbilityIntelligence,
		SavingThrows:        []string{AbilityIntelligence, AbilityWisdom},
		SkillChoices:        2,
		Skills:              []string{"arcana", "history", "insight", "investigation", "medicine", "religion"},
		StartingEquipment:   []string{"quarterstaff", "component pouch", "scholar's pack", "spellbook"},
		Features:            []string{"Spellcasting", "Arcane Recovery"},
		Spellcasting:        true,
		WeaponProficiencies: []string{"daggers", "quarterstaffs", "darts", "slings", "light crossbows"},
	},
	"rogue": {
		Name:           "Rogue",
		HitDie:         8,
		PrimaryAbility: AbilityDexterity,
		SavingThrows:   []string{AbilityDexterity, AbilityIntelligence},
		SkillChoices:   4,
		Skills: []string{
			"acrobatics", "athletics", "deception", "insight", "intimidation", "investigation",
			"perception", "performance", "persuasion", "sleight_of_hand", "stealth",
		},
		StartingEquipment:   []string{"rapier", "shortbow", "thieves' tools", "leather armor"},
		Features:            []string{"Sneak Attack", "Thieves' Cant", "Cunning Action"},
		ArmorProficiencies:  []string{"light"},
		WeaponProficiencies: []string{"simple", "hand crossbows", "longswords", "rapiers", "shortswords"},
	},
	"cleric": {
		Name:                "Cleric",
		HitDie:              8,
		PrimaryAbility:      AbilityWisdom,
		SavingThrows:        []string{AbilityWisdom, AbilityCharisma},
		SkillChoices:        2,
		Skills:              []string{"history", "insight", "medicine", "persuasion", "religion"},
		StartingEquipment:   []string{"mace", "scale mail", "light crossbow", "priest's pack"},
		Features:            []string{"Spellcasting", "Divine Domain"},
		Spellcasting:        true,
		ArmorProficiencies:  []string{"light", "medium", "shields"},
		WeaponProficiencies: []string{"simple"},
	},
	"ranger": {
		Name:           "Ranger",
		HitDie:         10,
		PrimaryAbility: AbilityDexterity,
		SavingThrows:   []string{AbilityStrength, AbilityDexterity},
		SkillChoices:   3,
		Skills: []string{
			"animal_handling", "athletics", "insight", "investigation",
			"nature", "perception", "stealth", "survival",
		},
		StartingEquipment:   []string{"scale mail", "martial weapon", "longbow", "explorer's pack"},
		Features:            []string{"Favored Enemy", "Natural Explorer"},
		Spellcasting:        true,
		ArmorProficiencies:  []string{"light", "medium", "shields"},
		WeaponProficiencies: []string{"simple", "martial"},
	},
	"barbarian": {
		Name:                "Barbarian",
		HitDie:              12,
		PrimaryAbility:      AbilityStrength,
		SavingThrows:        []string{AbilityStrength, AbilityConstitution},
		SkillChoices:        2,
		Skills:              []string{"animal_handling", "athletics", "intimidation", "nature", "perception", "survival"},
		StartingEquipment:   []string{"greataxe", "martial weapon", "explorer's pack", "javelins"},
		Features:            []string{"Rage", "Unarmored Defense"},
		ArmorProficiencies:  []string{"light", "medium", "shields"},
		WeaponProficiencies: []string{"simple", "martial"},
	},
	"bard": {
		Name:           "Bard",
		HitDie:         8,
		PrimaryAbility: AbilityCharisma,
		SavingThrows:   []string{AbilityDexterity, AbilityCharisma},
		SkillChoices:   3,
		Skills: []string{
			"acrobatics", "animal_handling", "arcana", "athletics", "deception", "history",
			"insight", "intimidation", "investigation", "medicine", "nature", "perception",
			"performance", "persuasion", "religion", "sleight_of_hand", "stealth", "survival",
		},
		StartingEquipment:   []string{"rapier", "diplomat's pack", "lute"},
		Features:            []string{"Spellcasting", "Bardic Inspiration"},
		Spellcasting:        true,
		ArmorProficiencies:  []string{"light"},
		WeaponProficiencies: []string{"simple", "hand crossbows", "longswords", "rapiers", "shortswords"},
	},
	"druid": {
		Name:           "Druid",
		HitDie:         8,
		PrimaryAbility: AbilityWisdom,
		SavingThrows:   []string{AbilityIntelligence, AbilityWisdom},
		SkillChoices:   2,
		Skills: []string{
			"animal_handling", "arcana", "insight", "medicine",
			"nature", "perception", "religion", "survival",
		},
		StartingEquipment:   []string{"wooden shield", "scimitar", "explorer's pack"},
		Features:            []string{"Spellcasting", "Druidic", "Wild Shape"},
		Spellcasting:        true,
		ArmorProficiencies:  []string{"light", "medium", "shields"},
		WeaponProficiencies: []string{"clubs", "daggers", "darts", "javelins", "maces", "quarterstaffs", "scimitars", "sickles", "slings", "spears"},
	},
	"monk": {
		Name:                "Monk",
		HitDie:              8,
		PrimaryAbility:      AbilityDexterity,
		SavingThrows:        []string{AbilityStrength, AbilityDexterity},
		SkillChoices:        2,
		Skills:              []string{"acrobatics", "athletics", "history", "insight", "religion", "stealth"},
		StartingEquipment:   []string{"shortsword", "dungeoneer's pack"},
		Features:            []string{"Unarmored Defense", "Martial Arts"},
		WeaponProficiencies: []string{"simple", "shortswords"},
	},
	"paladin": {
		Name:                "Paladin",
		HitDie:              10,
		PrimaryAbility:      AbilityStrength,
		SavingThrows:        []string{AbilityWisdom, AbilityCharisma},
		SkillChoices:        2,
		Skills:              []string{"athletics", "insight", "intimidation", "medicine", "persuasion", "religion"},
		StartingEquipment:   []string{"martial weapon", "shield", "javelins", "priest's pack"},
		Features:            []string{"Divine Sense", "Lay on Hands"},
		Spellcasting:        true,
		ArmorProficiencies:  []string{"light", "medium", "heavy", "shields"},
		WeaponProficiencies: []string{"simple", "martial"},
	},
	"sorcerer": {
		Name:                "Sorcerer",
		HitDie:              6,
		PrimaryAbility:      AbilityCharisma,
		SavingThrows:        []string{AbilityConstitution, AbilityCharisma},
		SkillChoices:        2,
		Skills:              []string{"arcana", "deception", "insight", "intimidation", "persuasion", "religion"},
		StartingEquipment:   []string{"light crossbow", "component pouch", "dungeoneer's pack"},
		Features:            []string{"Spellcasting", "Sorcerous Origin"},
		Spellcasting:        true,
		WeaponProficiencies: []string{"daggers", "quarterstaffs", "darts", "slings", "light crossbows"},
	},
	"warlock": {
		Name:                "Warlock",
		HitDie:              8,
		PrimaryAbility:      AbilityCharisma,
		SavingThrows:        []string{AbilityWisdom, AbilityCharisma},
		SkillChoices:        2,
		Skills:              []string{"arcana", "deception", "history", "intimidation", "investigation", "nature", "religion"},
		StartingEquipment:   []string{"light crossbow", "component pouch", "scholar's pack"},
		Features:            []string{"Spellcasting", "Pact Magic"},
		Spellcasting:        true,
		ArmorProficiencies:  []string{"light"},
		WeaponProficiencies: []string{"simple"},
	},
}

var backgrounds = map[string]Background{
	"acolyte": {
		Name:           "Acolyte",
		Skills:         []string{"insight", "religion"},
		ExtraLanguages: 2,
		Equipment:      []string{"holy symbol", "prayer book", "incense", "vestments", "common clothes", "15 gold"},
	},
	"criminal": {
		Name:      "Criminal",
		Skills:    []string{"deception", "stealth"},
		Equipment: []string{"crowbar", "dark clothes", "15 gold"},
	},
	"folk-hero": {
		Name:      "Folk Hero",
		Skills:    []string{"animal_handling", "survival"},
		Equipment: []string{"artisan's tools", "shovel", "iron pot", "common clothes", "10 gold"},
	},
	"noble": {
		Name:           "Noble",
		Skills:         []string{"history", "persuasion"},
		ExtraLanguages: 1,
		Equipment:      []string{"fine clothes", "signet ring", "scroll of pedigree", "25 gold"},
	},
	"sage": {
		Name:           "Sage",
		Skills:         []string{"arcana", "history"},
		ExtraLanguages: 2,
		Equipment:      []string{"bottle of black ink", "quill", "small knife", "letter from a dead colleague", "common clothes", "10 gold"},
	},
	"soldier": {
		Name:      "Soldier",
		Skills:    []string{"athletics", "intimidation"},
		Equipment: []string{"insignia of rank", "trophy from a fallen enemy", "set of bone dice", "common clothes", "10 gold"},
	},
	"urchin": {
		Name:      "Urchin",
		Skills:    []string{"sleight_of_hand", "stealth"},
		Equipment: []string{"small knife", "map of home city", "pet mouse", "token from parents", "common clothes", "10 gold"},
	},
}

var skills = map[string]Skill{
	"acrobatics":      {Name: "Acrobatics", Ability: AbilityDexterity},
	"animal_handling": {Name: "Animal Handling", Ability: AbilityWisdom},
	"arcana":          {Name: "Arcana", Ability: AbilityIntelligence},
	"athletics":       {Name: "Athletics", Ability: AbilityStrength},
	"deception":       {Name: "Deception", Ability: AbilityCharisma},
	"history":         {Name: "History", Ability: AbilityIntelligence},
	"insight":         {Name: "Insight", Ability: AbilityWisdom},
	"intimidation":    {Name: "Intimidation", Ability: AbilityCharisma},
	"investigation":   {Name: "Investigation", Ability: AbilityIntelligence},
	"medicine":        {Name: "Medicine", Ability: AbilityWisdom},
	"nature":          {Name: "Nature", Ability: AbilityIntelligence},
	"perception":      {Name: "Perception", Ability: AbilityWisdom},
	"performance":     {Name: "Performance", Ability: AbilityCharisma},
	"persuasion":      {Name: "Persuasion", Ability: AbilityCharisma},
	"religion":        {Name: "Religion", Ability: AbilityIntelligence},
	"sleight_of_hand": {Name: "Sleight of Hand", Ability: AbilityDexterity},
	"stealth":         {Name: "Stealth", Ability: AbilityDexterity},
	"survival":        {Name: "Survival", Ability: AbilityWisdom},
}
