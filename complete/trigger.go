package complete

import (
	"strings"

	"github.com/tanglin/bufyaml/analysis"
)

// ShouldAutoTrigger decides whether a typed character opens the
// suggestion list without an explicit request. Colons, dashes, and
// newlines always do. Whitespace triggers only where the line shape
// says something is about to be completed: right after a dash or
// colon, or on a blank line under an open container.
func ShouldAutoTrigger(ch rune, text string, offset int) bool {
	switch ch {
	case ':', '-', '\n':
		return true
	case ' ', '\t':
	default:
		return false
	}

	line := analysis.LineAt(text, offset)

	trimmed := strings.TrimSpace(line.Text)
	if trimmed == "" {
		return analysis.ContainerOpenAbove(text, offset)
	}

	return strings.HasSuffix(trimmed, "-") || strings.HasSuffix(trimmed, ":")
}
