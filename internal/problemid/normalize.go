package problemid

import "strings"

// Normalize canonicalizes problem names and known aliases.
func Normalize(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.Trim(normalized, "-")
	if normalized == "" {
		return ""
	}
	if canonical, ok := canonicalProblemName(normalized); ok {
		return canonical
	}
	return normalized
}

func canonicalProblemName(alias string) (string, bool) {
	switch alias {
	case "chromatic":
		return "chromatic", true
	case "onemax":
		return "onemax", true
	}

	compact := strings.ReplaceAll(alias, "-", "")
	switch compact {
	case "chromatic", "color", "colour", "rgb", "colormatch":
		return "chromatic", true
	case "onemax", "ones", "maxones", "allones":
		return "onemax", true
	default:
		return "", false
	}
}
