package rules_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/rules"
)

type BuilderTestSuite struct {
	suite.Suite
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderTestSuite))
}

func (s *BuilderTestSuite) fighterInput() rules.BuildInput {
	return rules.BuildInput{
		Name:          "Borin",
		Race:          "dwarf",
		Class:         "fighter",
		Background:    "soldier",
		AbilityScores: []int32{15, 14, 13, 12, 10, 8},
		SkillChoices:  []string{"perception", "survival"},
	}
}

func (s *BuilderTestSuite) TestBuildFighter() {
	character, validation, err := rules.BuildCharacter(s.fighterInput())
	s.Require().NoError(err)
	s.Require().NotNil(character)
	s.Require().True(validation.Valid())

	// Dwarf adds +2 constitution on top of the seeded 13
	s.Assert().Equal(int32(15), character.Abilities.Strength)
	s.Assert().Equal(int32(15), character.Abilities.Constitution)
	s.Assert().Equal(int32(2), character.Modifiers.Strength)
	s.Assert().Equal(int32(2), character.Modifiers.Constitution)
	s.Assert().Equal(int32(-1), character.Modifiers.Charisma)

	// Fighter: d10 hit die + con modifier
	s.Assert().Equal(int32(12), character.HP)
	s.Assert().Equal(int32(12), character.MaxHP)

	// Unarmored: 10 + dex modifier
	s.Assert().Equal(int32(12), character.ArmorClass)
	s.Assert().Equal(int32(2), character.Initiative)
	s.Assert().Equal(int32(25), character.Speed)

	s.Assert().True(character.SavingThrows.Strength)
	s.Assert().True(character.SavingThrows.Constitution)
	s.Assert().False(character.SavingThrows.Wisdom)

	s.Assert().Equal(int32(1), character.Level)
	s.Assert().True(character.IsAlive)
	s.Assert().Nil(character.SpellSlots)
}

func (s *BuilderTestSuite) TestSkillProvenance() {
	character, _, err := rules.BuildCharacter(s.fighterInput())
	s.Require().NoError(err)

	// Soldier background grants athletics and intimidation
	s.Require().Contains(character.Skills, "athletics")
	s.Assert().Equal(entities.SkillSourceBackground, character.Skills["athletics"].Source)

	// Chosen from the fighter list
	s.Require().Contains(character.Skills, "perception")
	s.Assert().Equal(entities.SkillSourceClass, character.Skills["perception"].Source)
	s.Assert().Equal("wisdom", character.Skills["perception"].Ability)

	s.Assert().Len(character.Skills, 4)
}

func (s *BuilderTestSuite) TestOverlapWithBackgroundWarnsButBuilds() {
	in := s.fighterInput()
	in.SkillChoices = []string{"athletics", "intimidation"}

	character, validation, err := rules.BuildCharacter(in)
	s.Require().NoError(err)
	s.Require().NotEmpty(validation.Warnings)

	// Overlapping choices collapse onto the background grants
	s.Assert().Len(character.Skills, 2)
	s.Assert().Equal(entities.SkillSourceBackground, character.Skills["athletics"].Source)
}

func (s *BuilderTestSuite) TestWrongSkillCountAborts() {
	in := s.fighterInput()
	in.SkillChoices = []string{"perception", "survival", "history"}

	character, validation, err := rules.BuildCharacter(in)
	s.Require().Error(err)
	s.Assert().Nil(character)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Require().NotNil(validation)
	s.Assert().NotEmpty(validation.Errors)
}

func (s *BuilderTestSuite) TestOffListSkillAborts() {
	in := s.fighterInput()
	in.SkillChoices = []string{"arcana", "survival"}

	character, _, err := rules.BuildCharacter(in)
	s.Require().Error(err)
	s.Assert().Nil(character)
	s.Assert().Contains(err.Error(), "arcana")
}

func (s *BuilderTestSuite) TestUnknownRaceAborts() {
	in := s.fighterInput()
	in.Race = "orc"

	_, _, err := rules.BuildCharacter(in)
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *BuilderTestSuite) TestEmptyNameAborts() {
	in := s.fighterInput()
	in.Name = "  "

	_, _, err := rules.BuildCharacter(in)
	s.Require().Error(err)
}

func (s *BuilderTestSuite) TestHPFlooredAtOne() {
	in := rules.BuildInput{
		Name:       "Frail",
		Race:       "elf",
		Class:      "sorcerer",
		Background: "sage",
		// Constitution 1 gives a -5 modifier against a d6 hit die
		AbilityScores: []int32{8, 10, 1, 15, 12, 14},
		SkillChoices:  []string{"deception", "persuasion"},
	}

	character, _, err := rules.BuildCharacter(in)
	s.Require().NoError(err)
	s.Assert().Equal(int32(1), character.HP)
}

func (s *BuilderTestSuite) TestSpellcasterGetsSlotContainers() {
	in := rules.BuildInput{
		Name:          "Elara",
		Race:          "elf",
		Class:         "wizard",
		Background:    "sage",
		AbilityScores: []int32{8, 14, 12, 15, 13, 10},
		SkillChoices:  []string{"investigation", "insight"},
	}

	character, _, err := rules.BuildCharacter(in)
	s.Require().NoError(err)
	s.Assert().NotNil(character.SpellSlots)
}

func (s *BuilderTestSuite) TestEquipmentCombinesClassAndBackground() {
	character, _, err := rules.BuildCharacter(s.fighterInput())
	s.Require().NoError(err)

	s.Assert().Contains(character.Equipment, "chain mail")
	s.Assert().Contains(character.Equipment, "insignia of rank")
}

func (s *BuilderTestSuite) TestHumanBonusesApplyToEveryAbility() {
	in := s.fighterInput()
	in.Race = "human"

	character, _, err := rules.BuildCharacter(in)
	s.Require().NoError(err)

	s.Assert().Equal(int32(16), character.Abilities.Strength)
	s.Assert().Equal(int32(15), character.Abilities.Dexterity)
	s.Assert().Equal(int32(14), character.Abilities.Constitution)
	s.Assert().Equal(int32(13), character.Abilities.Intelligence)
	s.Assert().Equal(int32(11), character.Abilities.Wisdom)
	s.Assert().Equal(int32(9), character.Abilities.Charisma)
	s.Assert().Equal(int32(30), character.Speed)
}

func (s *BuilderTestSuite) TestMissingScoresDefaultToTen() {
	in := s.fighterInput()
	in.Race = "elf"
	in.AbilityScores = []int32{15, 14}

	character, _, err := rules.BuildCharacter(in)
	s.Require().NoError(err)
	s.Assert().Equal(int32(10), character.Abilities.Wisdom)
	s.Assert().Equal(int32(10), character.Abilities.Charisma)
}
