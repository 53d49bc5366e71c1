package analysis

import "strings"

// ClampOffset bounds an offset to [0, len(text)].
func ClampOffset(text string, offset int) int {
	if offset < 0 {
		return 0
	}

	if offset > len(text) {
		return len(text)
	}

	return offset
}

// LineAt extracts the cursor's line facts. The line text covers only
// the span before the cursor: a completion request never looks past it.
func LineAt(text string, offset int) Line {
	offset = ClampOffset(text, offset)

	start := strings.LastIndexByte(text[:offset], '\n') + 1

	l := Line{
		Start: start,
		Text:  text[start:offset],
	}

	if start > 0 {
		prevStart := strings.LastIndexByte(text[:start-1], '\n') + 1
		l.Prev = text[prevStart : start-1]
	}

	l.Indent = indentOf(l.Text)

	trimmed := strings.TrimSpace(l.Text)
	l.Blank = trimmed == ""
	l.HasDash = strings.HasPrefix(trimmed, "-")

	if l.HasDash {
		l.DashOnly = strings.TrimSpace(trimmed[1:]) == ""
	}

	return l
}

// indentOf counts leading spaces. YAML forbids tabs in indentation, so
// tabs are not counted.
func indentOf(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}

	return n
}

// OpensContainer reports whether a line ends ready to hold nested
// content: it ends with a colon, directly or in the body of a dash item.
func OpensContainer(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if trimmed[0] == '-' {
		trimmed = strings.TrimSpace(trimmed[1:])
	}

	return strings.HasSuffix(trimmed, ":")
}

// isComment reports whether the line is a YAML comment.
func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// ContainerOpenAbove reports whether the nearest non-comment, non-blank
// line above the cursor's line opens a container. Used by the
// auto-trigger decision for blank lines.
func ContainerOpenAbove(text string, offset int) bool {
	offset = ClampOffset(text, offset)

	start := strings.LastIndexByte(text[:offset], '\n')
	if start < 0 {
		return false
	}

	lines := strings.Split(text[:start], "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if isComment(lines[i]) || strings.TrimSpace(lines[i]) == "" {
			continue
		}

		return OpensContainer(lines[i])
	}

	return false
}

// containerKey extracts the key from a line body that declares a
// container: a bare key followed by a colon and nothing else.
func containerKey(body string) (string, bool) {
	if !strings.HasSuffix(body, ":") {
		return "", false
	}

	key := strings.TrimSpace(body[:len(body)-1])
	if key == "" || strings.ContainsAny(key, ": \t") {
		return "", false
	}

	return key, true
}

// inlineKey extracts the key from a line body containing "key:" with or
// without a committed value, for value-position detection.
func inlineKey(body string) (string, bool) {
	colon := strings.IndexByte(body, ':')
	if colon < 0 {
		return "", false
	}

	key := strings.TrimSpace(body[:colon])
	if key == "" || strings.ContainsAny(key, ": \t") {
		return "", false
	}

	return key, true
}

// lineColAt converts an offset to 1-based line and column, the
// coordinate system of parsed document nodes.
func lineColAt(text string, offset int) (int, int) {
	offset = ClampOffset(text, offset)

	line := 1 + strings.Count(text[:offset], "\n")
	start := strings.LastIndexByte(text[:offset], '\n') + 1

	return line, offset - start + 1
}
