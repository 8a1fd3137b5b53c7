package parsing

import (
	"strings"

	"github.com/asalazar/cv-features/internal/types"
)

// CleanField trims a captured template field and collapses the model's
// many spellings of "nothing here" into the explicit NA marker: the empty
// string, "n/a", a bare "n" and anything containing "none",
// case-insensitively.
func CleanField(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if s == "" || lower == "n" || strings.Contains(lower, "n/a") || strings.Contains(lower, "none") {
		return types.NA
	}
	return s
}

// ClassifyEducation maps a degree title to an ordinal education level.
// Checks run in a fixed order so that a title matching several keyword
// groups resolves deterministically; "bachelor" is tested before the
// broader engineer group on purpose.
func ClassifyEducation(title string) int {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "bachelor"):
		return types.LevelBachelor
	case strings.Contains(lower, "mba"), strings.Contains(lower, "master"):
		return types.LevelMaster
	case strings.Contains(lower, "engineer"),
		strings.Contains(lower, "licenciatura"),
		strings.Contains(lower, "intern"):
		return types.LevelBachelor
	case strings.Contains(lower, "doctor"),
		strings.Contains(lower, "phd"),
		strings.Contains(lower, "ph.d"):
		return types.LevelDoctorate
	case strings.Contains(lower, "high school"), strings.Contains(lower, "bachiller"):
		return types.LevelSecondary
	default:
		return types.LevelUnknown
	}
}
