package dice

// RollResult is the outcome of a plain dice roll
type RollResult struct {
	// Individual dice values in roll order
	Rolls []int32 `json:"rolls"`

	// Final result after applying the modifier
	Total int32 `json:"total"`

	// Flat modifier applied to the total
	Modifier int32 `json:"modifier"`

	// Number of dice kept (1 for advantage/disadvantage selections)
	Count int32 `json:"count"`

	// Sides per die
	Sides int32 `json:"sides"`

	Advantage    bool `json:"advantage,omitempty"`
	Disadvantage bool `json:"disadvantage,omitempty"`

	// Canonical echo of the command that produced this roll
	Command string `json:"command"`
}

// CheckResult is the outcome of an ability check
type CheckResult struct {
	RollResult

	// Natural is the selected die face before any modifiers
	Natural int32 `json:"natural"`

	AbilityScore    int32  `json:"abilityScore"`
	AbilityModifier int32  `json:"abilityModifier"`
	Outcome         string `json:"outcome"`
}

// AttackResult is the outcome of an attack roll
type AttackResult struct {
	RollResult

	Natural      int32  `json:"natural"`
	AttackBonus  int32  `json:"attackBonus"`
	TargetAC     int32  `json:"targetAc"`
	Hit          bool   `json:"hit"`
	Critical     bool   `json:"critical"`
	CriticalMiss bool   `json:"criticalMiss"`
	Outcome      string `json:"outcome"`
}

// DamageResult is the outcome of a damage roll
type DamageResult struct {
	RollResult

	DamageDice string `json:"damageDice"`
	Critical   bool   `json:"critical"`

	// BaseCount is the notation's dice count; ActualCount is what was
	// rolled (doubled on a critical)
	BaseCount   int32 `json:"baseCount"`
	ActualCount int32 `json:"actualCount"`
}

// SaveResult is the outcome of a saving throw
type SaveResult struct {
	RollResult

	Natural         int32  `json:"natural"`
	AbilityScore    int32  `json:"abilityScore"`
	AbilityModifier int32  `json:"abilityModifier"`
	DifficultyClass int32  `json:"difficultyClass"`
	Success         bool   `json:"success"`
	Outcome         string `json:"outcome"`
}

// RollSpec is a parsed /roll command
type RollSpec struct {
	Count    int
	Sides    int
	Modifier int

	// Command is the raw text that was parsed
	Command string
}
