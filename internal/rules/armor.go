package rules

// ArmorClass computes AC for a named armor category. Light armor adds
// the full dexterity modifier, medium armor caps it at +2, and heavy
// armor ignores dexterity entirely.
func ArmorClass(dexModifier int32, armor string) int32 {
	switch armor {
	case "leather":
		return 11 + dexModifier
	case "studded leather":
		return 12 + dexModifier
	case "hide":
		return 12 + capDex(dexModifier)
	case "chain shirt":
		return 13 + capDex(dexModifier)
	case "scale mail":
		return 14 + capDex(dexModifier)
	case "breastplate":
		return 14 + capDex(dexModifier)
	case "half plate":
		return 15 + capDex(dexModifier)
	case "ring mail":
		return 14
	case "chain mail":
		return 16
	case "splint":
		return 17
	case "plate":
		return 18
	default:
		// Unarmored
		return 10 + dexModifier
	}
}

func capDex(dexModifier int32) int32 {
	if dexModifier > 2 {
		return 2
	}
	return dexModifier
}
