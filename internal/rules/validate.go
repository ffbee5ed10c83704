package rules

import (
	"fmt"
	"strings"
)

// MaxSkills is the ceiling on a character's total skill count before a
// warning is raised
const MaxSkills = 18

// SkillValidation is the outcome of checking a set of class skill
// choices. Errors abort the build; warnings are advisory and surface to
// the player without blocking.
type SkillValidation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the choices passed without errors. Warnings do
// not affect validity.
func (v SkillValidation) Valid() bool {
	return len(v.Errors) == 0
}

// ValidateSkillChoices checks class skill choices against the class and
// background tables. The class must get exactly its required number of
// choices and every choice must be on the class list. Overlap with
// background-granted skills and exceeding the total skill ceiling are
// warnings only.
func ValidateSkillChoices(classID, backgroundID string, choices []string) SkillValidation {
	var v SkillValidation

	class, ok := classes[classID]
	if !ok {
		v.Errors = append(v.Errors, fmt.Sprintf("unknown character class %q", classID))
		return v
	}
	background, ok := backgrounds[backgroundID]
	if !ok {
		v.Errors = append(v.Errors, fmt.Sprintf("unknown character background %q", backgroundID))
		return v
	}

	if len(choices) != class.SkillChoices {
		v.Errors = append(v.Errors, fmt.Sprintf("exactly %d class skills must be chosen, got %d", class.SkillChoices, len(choices)))
	}

	var invalid []string
	for _, choice := range choices {
		if !contains(class.Skills, choice) {
			invalid = append(invalid, choice)
		}
	}
	if len(invalid) > 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("skills not available to class %s: %s", class.Name, strings.Join(invalid, ", ")))
	}

	var duplicates []string
	for _, choice := range choices {
		if contains(background.Skills, choice) {
			duplicates = append(duplicates, choice)
		}
	}
	if len(duplicates) > 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("skills already granted by the background: %s", strings.Join(duplicates, ", ")))
	}

	if total := len(choices) + len(background.Skills); total > MaxSkills {
		v.Warnings = append(v.Warnings, fmt.Sprintf("total skill count %d exceeds the maximum of %d", total, MaxSkills))
	}

	return v
}

// ClassSkillOptions describes what a class and background combination
// offers the player at skill selection time
type ClassSkillOptions struct {
	// AvailableSkills are class skills not already granted by the
	// background
	AvailableSkills  []string `json:"availableSkills"`
	BackgroundSkills []string `json:"backgroundSkills"`
	RequiredChoices  int      `json:"requiredChoices"`
	ClassSkills      []string `json:"classSkills"`
}

// AvailableClassSkills returns the skill options for a class and
// background combination, or false when either is unknown
func AvailableClassSkills(classID, backgroundID string) (ClassSkillOptions, bool) {
	class, ok := classes[classID]
	if !ok {
		return ClassSkillOptions{}, false
	}
	background, ok := backgrounds[backgroundID]
	if !ok {
		return ClassSkillOptions{}, false
	}

	available := make([]string, 0, len(class.Skills))
	for _, skill := range class.Skills {
		if !contains(background.Skills, skill) {
			available = append(available, skill)
		}
	}

	return ClassSkillOptions{
		AvailableSkills:  available,
		BackgroundSkills: background.Skills,
		RequiredChoices:  class.SkillChoices,
		ClassSkills:      class.Skills,
	}, true
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
