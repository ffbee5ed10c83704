package dice_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tableforge/tableforge/internal/dice"
)

type DiceTestSuite struct {
	suite.Suite
}

func TestDiceSuite(t *testing.T) {
	suite.Run(t, new(DiceTestSuite))
}

// findSeed returns a seed whose first d20 roll is the wanted face.
// Everything downstream of the roller is deterministic per seed, so a
// fresh roller with the found seed reproduces the face on its first
// die.
func (s *DiceTestSuite) findSeed(face int32) int64 {
	for seed := int64(0); seed < 100000; seed++ {
		r := dice.NewRoller(rand.NewSource(seed))
		if r.RollDie(20) == face {
			return seed
		}
	}
	s.FailNow("no seed found for face", "face=%d", face)
	return 0
}

func (s *DiceTestSuite) TestRollDieRange() {
	r := dice.NewRoller(rand.NewSource(1))

	for _, sides := range []int{4, 6, 8, 10, 12, 20, 100} {
		for i := 0; i < 200; i++ {
			roll := r.RollDie(sides)
			s.Require().GreaterOrEqual(roll, int32(1))
			s.Require().LessOrEqual(roll, int32(sides))
		}
	}
}

func (s *DiceTestSuite) TestRollDiceDeterministicPerSeed() {
	r1 := dice.NewRoller(rand.NewSource(42))
	r2 := dice.NewRoller(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		a := r1.RollDice(3, 6, 2)
		b := r2.RollDice(3, 6, 2)
		s.Require().Equal(a, b)
	}
}

func (s *DiceTestSuite) TestRollDiceTotals() {
	r := dice.NewRoller(rand.NewSource(7))

	result := r.RollDice(4, 8, 5)
	s.Assert().Len(result.Rolls, 4)

	var sum int32
	for _, roll := range result.Rolls {
		sum += roll
	}
	s.Assert().Equal(sum+5, result.Total)
	s.Assert().Equal(int32(5), result.Modifier)
	s.Assert().Equal("/roll 4d8 + 5", result.Command)
}

func (s *DiceTestSuite) TestAdvantageKeepsHigher() {
	seed := int64(13)
	probe := dice.NewRoller(rand.NewSource(seed))
	first := probe.RollDie(20)
	second := probe.RollDie(20)

	r := dice.NewRoller(rand.NewSource(seed))
	result := r.RollWithAdvantage(20, 0)

	s.Assert().Equal([]int32{first, second}, result.Rolls)
	expected := first
	if second > first {
		expected = second
	}
	s.Assert().Equal(expected, result.Total)
	s.Assert().True(result.Advantage)
}

func (s *DiceTestSuite) TestDisadvantageKeepsLower() {
	seed := int64(13)
	probe := dice.NewRoller(rand.NewSource(seed))
	first := probe.RollDie(20)
	second := probe.RollDie(20)

	r := dice.NewRoller(rand.NewSource(seed))
	result := r.RollWithDisadvantage(20, 0)

	expected := first
	if second < first {
		expected = second
	}
	s.Assert().Equal(expected, result.Total)
	s.Assert().True(result.Disadvantage)
}

func (s *DiceTestSuite) TestAdvantageAndDisadvantageCancel() {
	r := dice.NewRoller(rand.NewSource(3))

	result := r.AbilityCheck(14, 0, true, true)

	// Both flags cancel to a single roll
	s.Assert().Len(result.Rolls, 1)
	s.Assert().False(result.Advantage)
	s.Assert().False(result.Disadvantage)
}

func (s *DiceTestSuite) TestAttackRollNatural20AlwaysCrits() {
	seed := s.findSeed(20)
	r := dice.NewRoller(rand.NewSource(seed))

	// Hopeless odds: no bonus against an impossible AC
	result := r.AttackRoll(0, 99, false, false)

	s.Assert().Equal(int32(20), result.Natural)
	s.Assert().True(result.Hit)
	s.Assert().True(result.Critical)
	s.Assert().False(result.CriticalMiss)
	s.Assert().Equal(dice.OutcomeCriticalHit, result.Outcome)
}

func (s *DiceTestSuite) TestAttackRollNatural1AlwaysMisses() {
	seed := s.findSeed(1)
	r := dice.NewRoller(rand.NewSource(seed))

	// Guaranteed odds on paper: huge bonus against AC 1
	result := r.AttackRoll(50, 1, false, false)

	s.Assert().Equal(int32(1), result.Natural)
	s.Assert().False(result.Hit)
	s.Assert().True(result.CriticalMiss)
	s.Assert().Equal(dice.OutcomeCriticalMiss, result.Outcome)
}

func (s *DiceTestSuite) TestAbilityCheckModifiers() {
	seed := s.findSeed(10)
	r := dice.NewRoller(rand.NewSource(seed))

	result := r.AbilityCheck(15, 1, false, false)

	// score 15 -> +2 modifier
	s.Assert().Equal(int32(2), result.AbilityModifier)
	s.Assert().Equal(int32(10+2+1), result.Total)
}

func (s *DiceTestSuite) TestDamageRollCriticalDoublesDiceOnly() {
	r := dice.NewRoller(rand.NewSource(11))

	result, err := r.DamageRoll("2d6", 3, true)
	s.Require().NoError(err)

	// Critical doubles the dice count, never the flat bonus
	s.Assert().Len(result.Rolls, 4)
	s.Assert().Equal(int32(2), result.BaseCount)
	s.Assert().Equal(int32(4), result.ActualCount)

	var sum int32
	for _, roll := range result.Rolls {
		sum += roll
	}
	s.Assert().Equal(sum+3, result.Total)
}

func (s *DiceTestSuite) TestDamageRollNonCritical() {
	r := dice.NewRoller(rand.NewSource(11))

	result, err := r.DamageRoll("2d6", 3, false)
	s.Require().NoError(err)
	s.Assert().Len(result.Rolls, 2)
	s.Assert().Equal(int32(2), result.ActualCount)
}

func (s *DiceTestSuite) TestDamageRollRejectsMalformedNotation() {
	r := dice.NewRoller(rand.NewSource(11))

	for _, notation := range []string{"", "d6", "2x6", "2d", "0d6", "2d0", "101d6", "2d1001"} {
		_, err := r.DamageRoll(notation, 0, false)
		s.Assert().Error(err, "notation %q should fail", notation)
	}
}

func (s *DiceTestSuite) TestSavingThrow() {
	seed := s.findSeed(10)
	r := dice.NewRoller(rand.NewSource(seed))

	// 10 + mod(14)=+2 + 1 = 13 vs DC 12
	result := r.SavingThrow(14, 12, 1, false, false)
	s.Assert().True(result.Success)
	s.Assert().Equal(dice.OutcomeSuccess, result.Outcome)

	r = dice.NewRoller(rand.NewSource(seed))
	result = r.SavingThrow(14, 15, 1, false, false)
	s.Assert().False(result.Success)
}
