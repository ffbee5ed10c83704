package rules

import (
	"strings"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
)

// BuildInput is the full set of player choices the build pipeline
// derives a sheet from. AbilityScores are assigned to abilities in
// order: strength, dexterity, constitution, intelligence, wisdom,
// charisma; missing trailing values default to 10.
type BuildInput struct {
	Name          string
	Race          string
	Class         string
	Background    string
	Alignment     string
	AbilityScores []int32
	SkillChoices  []string
}

// BuildCharacter runs the derivation pipeline and returns a complete
// sheet. Any validation failure aborts the whole build with nothing
// assembled. The returned character carries no identity or position;
// the caller assigns those when persisting.
func BuildCharacter(in BuildInput) (*entities.Character, *SkillValidation, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, nil, errors.InvalidArgument("character name is required")
	}

	race, ok := races[in.Race]
	if !ok {
		return nil, nil, errors.InvalidArgumentf("unknown character race %q", in.Race)
	}
	class, ok := classes[in.Class]
	if !ok {
		return nil, nil, errors.InvalidArgumentf("unknown character class %q", in.Class)
	}
	background, ok := backgrounds[in.Background]
	if !ok {
		return nil, nil, errors.InvalidArgumentf("unknown character background %q", in.Background)
	}

	validation := ValidateSkillChoices(in.Class, in.Background, in.SkillChoices)
	if !validation.Valid() {
		return nil, &validation, errors.InvalidArgumentf("skill validation failed: %s", strings.Join(validation.Errors, "; ")).
			WithMeta("errors", validation.Errors)
	}

	scores := seedScores(in.AbilityScores)
	scores = applyRacialBonuses(scores, race)
	modifiers := Modifiers(scores)

	savingThrows := entities.SavingThrows{
		Strength:     contains(class.SavingThrows, AbilityStrength),
		Dexterity:    contains(class.SavingThrows, AbilityDexterity),
		Constitution: contains(class.SavingThrows, AbilityConstitution),
		Intelligence: contains(class.SavingThrows, AbilityIntelligence),
		Wisdom:       contains(class.SavingThrows, AbilityWisdom),
		Charisma:     contains(class.SavingThrows, AbilityCharisma),
	}

	// Background skills first so an overlapping class choice keeps the
	// background attribution
	skillSet := make(map[string]entities.SkillProficiency)
	for _, id := range background.Skills {
		if skill, known := skills[id]; known {
			skillSet[id] = entities.SkillProficiency{
				Name:    skill.Name,
				Ability: skill.Ability,
				Source:  entities.SkillSourceBackground,
			}
		}
	}
	for _, id := range in.SkillChoices {
		if _, taken := skillSet[id]; taken {
			continue
		}
		if skill, known := skills[id]; known {
			skillSet[id] = entities.SkillProficiency{
				Name:    skill.Name,
				Ability: skill.Ability,
				Source:  entities.SkillSourceClass,
			}
		}
	}

	hp := class.HitDie + modifiers.Constitution
	if hp < 1 {
		hp = 1
	}

	equipment := make([]string, 0, len(class.StartingEquipment)+len(background.Equipment))
	equipment = append(equipment, class.StartingEquipment...)
	equipment = append(equipment, background.Equipment...)

	languages := make([]string, 0, len(race.Languages)+background.ExtraLanguages)
	languages = append(languages, race.Languages...)
	for i := 0; i < background.ExtraLanguages; i++ {
		languages = append(languages, "bonus language")
	}

	character := &entities.Character{
		Name:         in.Name,
		Race:         in.Race,
		Class:        in.Class,
		Background:   in.Background,
		Alignment:    in.Alignment,
		Level:        1,
		Abilities:    scores,
		Modifiers:    modifiers,
		SavingThrows: savingThrows,
		Skills:       skillSet,

		HP:         hp,
		MaxHP:      hp,
		ArmorClass: ArmorClass(modifiers.Dexterity, "none"),
		Initiative: modifiers.Dexterity,
		Speed:      race.Speed,

		Inventory:           []string{},
		Equipment:           equipment,
		Languages:           languages,
		RacialTraits:        race.Traits,
		ClassFeatures:       class.Features,
		WeaponProficiencies: class.WeaponProficiencies,
		ArmorProficiencies:  class.ArmorProficiencies,

		IsAlive: true,
	}

	if class.Spellcasting {
		character.SpellSlots = map[int32][]string{}
	}

	return character, &validation, nil
}

// seedScores maps caller-supplied values onto abilities in fixed order,
// defaulting any missing value to 10
func seedScores(values []int32) entities.AbilityScores {
	at := func(i int) int32 {
		if i < len(values) && values[i] > 0 {
			return values[i]
		}
		return 10
	}
	return entities.AbilityScores{
		Strength:     at(0),
		Dexterity:    at(1),
		Constitution: at(2),
		Intelligence: at(3),
		Wisdom:       at(4),
		Charisma:     at(5),
	}
}
