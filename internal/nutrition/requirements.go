package nutrition

import (
	"strconv"
	"strings"
)

// Requirement is one nutrient's recommended daily intake for a
// given age bucket and gender.
type Requirement struct {
	Value string
	Unit  string
}

// ageGroupKey maps the UI's age-group labels to dataset bucket keys.
// Unrecognized input falls back to the adult bucket.
func ageGroupKey(ageGroup string) string {
	switch ageGroup {
	case "4 to 8":
		return "children_4_8"
	case "9 to 13":
		return "children_9_13"
	case "14 to 50":
		return "adult_19_50"
	case "51 and above":
		return "adult_51_plus"
	default:
		return "adult_19_50"
	}
}

// DailyRequirements returns the recommended intake of every nutrient
// that defines a value for the given age bucket and gender. Entries
// without an applicable value are omitted, never placeholdered.
func DailyRequirements(age, gender string) map[string]Requirement {
	nutrients, err := Load()
	if err != nil {
		return map[string]Requirement{}
	}

	key := ageGroupKey(age)
	out := make(map[string]Requirement, len(nutrients))
	for _, n := range nutrients {
		intake, ok := n.RecommendedIntake[key]
		if !ok {
			continue
		}
		value, ok := normalizeIntake(intake, gender)
		if !ok {
			continue
		}
		out[n.Name] = Requirement{Value: value, Unit: n.Unit}
	}
	return out
}

// normalizeIntake flattens a dataset intake value into a display
// string. Source values may be numbers, string ranges, or
// gender-keyed objects.
func normalizeIntake(intake any, gender string) (string, bool) {
	switch v := intake.(type) {
	case float64:
		return formatNumber(v), true
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case map[string]any:
		gv, ok := v[strings.ToLower(gender)]
		if !ok {
			return "", false
		}
		switch g := gv.(type) {
		case float64:
			return formatNumber(g), true
		case string:
			if g == "" {
				return "", false
			}
			return g, true
		}
		return "", false
	}
	return "", false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
