package rules

import (
	"sort"

	"github.com/tableforge/tableforge/internal/dice"
	"github.com/tableforge/tableforge/internal/entities"
)

// standardArray is the fixed score distribution, each value assigned to
// exactly one ability
var standardArray = []int32{15, 14, 13, 12, 10, 8}

// StandardArray returns a copy of the fixed ability score distribution
func StandardArray() []int32 {
	scores := make([]int32, len(standardArray))
	copy(scores, standardArray)
	return scores
}

// RollAbilityScores rolls six scores of 4d6 dropping the lowest die,
// returned in descending order
func RollAbilityScores(roller *dice.Roller) []int32 {
	scores := make([]int32, 0, 6)
	for i := 0; i < 6; i++ {
		rolls := []int32{
			roller.RollDie(6),
			roller.RollDie(6),
			roller.RollDie(6),
			roller.RollDie(6),
		}
		sort.Slice(rolls, func(a, b int) bool { return rolls[a] > rolls[b] })
		scores = append(scores, rolls[0]+rolls[1]+rolls[2])
	}

	sort.Slice(scores, func(a, b int) bool { return scores[a] > scores[b] })
	return scores
}

// Modifier derives an ability modifier as floor((score-10)/2)
func Modifier(score int32) int32 {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// Modifiers derives the modifier for every ability score
func Modifiers(scores entities.AbilityScores) entities.AbilityScores {
	return entities.AbilityScores{
		Strength:     Modifier(scores.Strength),
		Dexterity:    Modifier(scores.Dexterity),
		Constitution: Modifier(scores.Constitution),
		Intelligence: Modifier(scores.Intelligence),
		Wisdom:       Modifier(scores.Wisdom),
		Charisma:     Modifier(scores.Charisma),
	}
}

// applyRacialBonuses adds a race's flat ability bonuses to a score set
func applyRacialBonuses(scores entities.AbilityScores, race Race) entities.AbilityScores {
	b := race.AbilityBonuses
	return entities.AbilityScores{
		Strength:     scores.Strength + b.Strength,
		Dexterity:    scores.Dexterity + b.Dexterity,
		Constitution: scores.Constitution + b.Constitution,
		Intelligence: scores.Intelligence + b.Intelligence,
		Wisdom:       scores.Wisdom + b.Wisdom,
		Charisma:     scores.Charisma + b.Charisma,
	}
}
