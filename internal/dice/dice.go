// Package dice implements the dice resolution engine: roll notation
// parsing, advantage/disadvantage, ability checks, attack rolls, damage
// rolls, and saving throws. The engine is pure: given a fixed random
// source it is fully deterministic, and nothing in it touches storage
// or the network.
package dice

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// D20 is the die used for checks, attacks, and saves
	D20 = 20

	// Caps reject hostile notation like /roll 99999d99999. Anything
	// outside the caps counts as malformed and falls back to the
	// default roll.
	MaxDiceCount = 100
	MaxDieSides  = 1000
)

// Check outcome constants
const (
	OutcomeCriticalSuccess = "critical_success"
	OutcomeCriticalFailure = "critical_failure"
	OutcomeCriticalHit     = "critical_hit"
	OutcomeCriticalMiss    = "critical_miss"
	OutcomeHit             = "hit"
	OutcomeMiss            = "miss"
	OutcomeSuccess         = "success"
	OutcomeFailure         = "failure"
)

// Roller produces randomized outcomes from an injected source. Safe for
// concurrent use.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller creates a roller from the given source. Tests pass a fixed
// seed to make every roll reproducible.
func NewRoller(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// New creates a time-seeded roller for production use
func New() *Roller {
	return NewRoller(rand.NewSource(time.Now().UnixNano()))
}

// RollDie rolls a single die, returning a uniform integer in [1, sides]
func (r *Roller) RollDie(sides int) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int32(r.rng.Intn(sides) + 1)
}

// RollDice rolls count dice of the given sides and adds a flat modifier
func (r *Roller) RollDice(count, sides, modifier int) *RollResult {
	rolls := make([]int32, count)
	var total int32
	for i := 0; i < count; i++ {
		rolls[i] = r.RollDie(sides)
		total += rolls[i]
	}
	total += int32(modifier)

	return &RollResult{
		Rolls:    rolls,
		Total:    total,
		Modifier: int32(modifier),
		Count:    int32(count),
		Sides:    int32(sides),
		Command:  formatCommand(count, sides, modifier),
	}
}

// RollWithAdvantage rolls two dice and keeps the higher
func (r *Roller) RollWithAdvantage(sides, modifier int) *RollResult {
	roll1 := r.RollDie(sides)
	roll2 := r.RollDie(sides)

	return &RollResult{
		Rolls:     []int32{roll1, roll2},
		Total:     max32(roll1, roll2) + int32(modifier),
		Modifier:  int32(modifier),
		Count:     1,
		Sides:     int32(sides),
		Advantage: true,
		Command:   fmt.Sprintf("/roll adv d%d", sides),
	}
}

// RollWithDisadvantage rolls two dice and keeps the lower
func (r *Roller) RollWithDisadvantage(sides, modifier int) *RollResult {
	roll1 := r.RollDie(sides)
	roll2 := r.RollDie(sides)

	return &RollResult{
		Rolls:        []int32{roll1, roll2},
		Total:        min32(roll1, roll2) + int32(modifier),
		Modifier:     int32(modifier),
		Count:        1,
		Sides:        int32(sides),
		Disadvantage: true,
		Command:      fmt.Sprintf("/roll dis d%d", sides),
	}
}

// resolveD20 performs the d20 selection shared by checks, attacks, and
// saves. Advantage and disadvantage together cancel to a single roll,
// matching the tabletop rule.
func (r *Roller) resolveD20(advantage, disadvantage bool) (natural int32, rolls []int32) {
	if advantage == disadvantage {
		n := r.RollDie(D20)
		return n, []int32{n}
	}

	roll1 := r.RollDie(D20)
	roll2 := r.RollDie(D20)
	if advantage {
		return max32(roll1, roll2), []int32{roll1, roll2}
	}
	return min32(roll1, roll2), []int32{roll1, roll2}
}

// AbilityCheck rolls a d20 check against an ability score. A natural 20
// is always a critical success and a natural 1 always a critical
// failure, independent of modifiers.
func (r *Roller) AbilityCheck(abilityScore, modifier int, advantage, disadvantage bool) *CheckResult {
	natural, rolls := r.resolveD20(advantage, disadvantage)
	abilityMod := abilityModifier(abilityScore)
	total := natural + abilityMod + int32(modifier)

	outcome := OutcomeFailure
	switch {
	case natural == D20:
		outcome = OutcomeCriticalSuccess
	case natural == 1:
		outcome = OutcomeCriticalFailure
	case total >= 10:
		outcome = OutcomeSuccess
	}

	return &CheckResult{
		RollResult: RollResult{
			Rolls:        rolls,
			Total:        total,
			Modifier:     int32(modifier),
			Count:        1,
			Sides:        D20,
			Advantage:    advantage && !disadvantage,
			Disadvantage: disadvantage && !advantage,
			Command:      fmt.Sprintf("/roll check d%d", D20),
		},
		Natural:         natural,
		AbilityScore:    int32(abilityScore),
		AbilityModifier: abilityMod,
		Outcome:         outcome,
	}
}

// AttackRoll rolls a d20 attack against a target armor class. A natural
// 20 always hits critically and a natural 1 always misses critically,
// regardless of attack bonus or target AC.
func (r *Roller) AttackRoll(attackBonus, targetAC int, advantage, disadvantage bool) *AttackResult {
	natural, rolls := r.resolveD20(advantage, disadvantage)
	total := natural + int32(attackBonus)

	critical := natural == D20
	criticalMiss := natural == 1
	hit := critical || (!criticalMiss && total >= int32(targetAC))

	outcome := OutcomeMiss
	switch {
	case criticalMiss:
		outcome = OutcomeCriticalMiss
	case critical:
		outcome = OutcomeCriticalHit
	case hit:
		outcome = OutcomeHit
	}

	return &AttackResult{
		RollResult: RollResult{
			Rolls:        rolls,
			Total:        total,
			Count:        1,
			Sides:        D20,
			Advantage:    advantage && !disadvantage,
			Disadvantage: disadvantage && !advantage,
			Command:      fmt.Sprintf("/roll attack d%d", D20),
		},
		Natural:      natural,
		AttackBonus:  int32(attackBonus),
		TargetAC:     int32(targetAC),
		Hit:          hit,
		Critical:     critical,
		CriticalMiss: criticalMiss,
		Outcome:      outcome,
	}
}

// DamageRoll rolls damage dice plus a flat bonus. On a critical hit the
// dice count doubles; the flat bonus is applied exactly once.
func (r *Roller) DamageRoll(damageDice string, bonus int, critical bool) (*DamageResult, error) {
	matches := damageDiceRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(damageDice)))
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid damage dice %q (expected format: XdY)", damageDice)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid dice count in %q", damageDice)
	}
	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid die sides in %q", damageDice)
	}
	if count <= 0 || sides <= 0 || count > MaxDiceCount || sides > MaxDieSides {
		return nil, fmt.Errorf("damage dice %q out of range", damageDice)
	}

	actualCount := count
	if critical {
		actualCount = count * 2
	}

	result := r.RollDice(actualCount, sides, bonus)

	return &DamageResult{
		RollResult:  *result,
		DamageDice:  damageDice,
		Critical:    critical,
		BaseCount:   int32(count),
		ActualCount: int32(actualCount),
	}, nil
}

// SavingThrow rolls a d20 save against a difficulty class
func (r *Roller) SavingThrow(abilityScore, difficultyClass, modifier int, advantage, disadvantage bool) *SaveResult {
	natural, rolls := r.resolveD20(advantage, disadvantage)
	abilityMod := abilityModifier(abilityScore)
	total := natural + abilityMod + int32(modifier)
	success := natural == D20 || (natural != 1 && total >= int32(difficultyClass))

	outcome := OutcomeFailure
	if success {
		outcome = OutcomeSuccess
	}

	return &SaveResult{
		RollResult: RollResult{
			Rolls:        rolls,
			Total:        total,
			Modifier:     int32(modifier),
			Count:        1,
			Sides:        D20,
			Advantage:    advantage && !disadvantage,
			Disadvantage: disadvantage && !advantage,
			Command:      fmt.Sprintf("/roll save d%d", D20),
		},
		Natural:         natural,
		AbilityScore:    int32(abilityScore),
		AbilityModifier: abilityMod,
		DifficultyClass: int32(difficultyClass),
		Success:         success,
		Outcome:         outcome,
	}
}

// abilityModifier derives the modifier for an ability score,
// floor((score-10)/2)
func abilityModifier(score int) int32 {
	d := score - 10
	if d < 0 {
		// floor division for negative deltas
		return int32((d - 1) / 2)
	}
	return int32(d / 2)
}

func formatCommand(count, sides, modifier int) string {
	if modifier > 0 {
		return fmt.Sprintf("/roll %dd%d + %d", count, sides, modifier)
	}
	return fmt.Sprintf("/roll %dd%d", count, sides)
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
