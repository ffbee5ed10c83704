package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Grammar: /roll <N>d<S>(+<M>)?
	rollCommandRegex = regexp.MustCompile(`^/roll\s+(\d+)d(\d+)(?:\s*\+\s*(\d+))?$`)

	// Damage notation: <N>d<S>
	damageDiceRegex = regexp.MustCompile(`^(\d+)d(\d+)$`)
)

// ParseRollCommand parses a chat roll command of the form
// "/roll 2d6+3". Returns false for malformed notation or rolls outside
// the count/sides caps; callers fall back to a default 1d20.
func ParseRollCommand(command string) (*RollSpec, bool) {
	matches := rollCommandRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(command)))
	if matches == nil {
		return nil, false
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, false
	}
	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, false
	}

	modifier := 0
	if matches[3] != "" {
		modifier, err = strconv.Atoi(matches[3])
		if err != nil {
			return nil, false
		}
	}

	if count <= 0 || sides <= 0 || count > MaxDiceCount || sides > MaxDieSides {
		return nil, false
	}

	return &RollSpec{
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
		Command:  command,
	}, true
}

// Resolve parses and rolls a chat command. Malformed notation degrades
// to a default 1d20 rather than failing the caller.
func (r *Roller) Resolve(command string) *RollResult {
	spec, ok := ParseRollCommand(command)
	if !ok {
		return r.RollDice(1, D20, 0)
	}
	return r.RollDice(spec.Count, spec.Sides, spec.Modifier)
}

// FormatResult renders a roll as a log/chat line, e.g.
// "Alice rolls /roll 2d6 + 3: [4, 5] + 3 = 12"
func FormatResult(result *RollResult, playerName string) string {
	parts := make([]string, len(result.Rolls))
	for i, roll := range result.Rolls {
		parts[i] = strconv.Itoa(int(roll))
	}

	line := fmt.Sprintf("%s rolls %s: [%s]", playerName, result.Command, strings.Join(parts, ", "))
	if result.Modifier > 0 {
		line += fmt.Sprintf(" + %d", result.Modifier)
	}
	line += fmt.Sprintf(" = %d", result.Total)

	if result.Advantage {
		line += " (with advantage)"
	} else if result.Disadvantage {
		line += " (with disadvantage)"
	}

	return line
}
