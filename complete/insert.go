package complete

import (
	"strings"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/analysis"
)

// Plan is a literal text edit: replace [Start, End) with Text and move
// the caret to Caret in the edited document.
type Plan struct {
	Start int
	End   int
	Text  string
	Caret int
}

// placeholderURL seeds url-kind insertions so the caret lands ready
// for the host part.
const placeholderURL = "https://"

// Render builds the edit for an accepted suggestion. The replacement
// range covers the partial word behind the cursor, or the whole line
// when a lone dash is being replaced wholesale.
func Render(schema *bufyaml.Schema, ctx analysis.Context, s Suggestion) Plan {
	if schema == nil {
		schema = bufyaml.DefaultSchema()
	}

	offset := ctx.Line.Start + len(ctx.Line.Text)
	word := trailingWord(ctx.Line.Text)

	plan := Plan{
		Start: offset - len(word),
		End:   offset,
	}

	if ctx.IsValue {
		nested := nestedIndent(ctx.Line.Indent, ctx.Line.HasDash)
		body, caret := valueBody(s, nested)

		plan.Text = body
		plan.Caret = plan.Start + caret

		return plan
	}

	var prefix string

	switch {
	case ctx.Line.DashOnly:
		// The bare dash is an artifact: consume the whole line and
		// re-render it as a proper item line.
		plan.Start = ctx.Line.Start
		prefix = strings.Repeat(" ", ctx.Line.Indent) + "- "
	case needsDash(ctx):
		prefix = "- "
	case word == "" && ctx.Line.HasDash && strings.HasSuffix(ctx.Line.Text, "-"):
		// Typing directly after a dash with no space yet.
		prefix = " "
	}

	dashed := ctx.Line.HasDash || prefix == "- "
	nested := nestedIndent(ctx.Line.Indent, dashed)

	body, caret := keyBody(schema, ctx, s, nested)

	plan.Text = prefix + body
	plan.Caret = plan.Start + len(prefix) + caret

	return plan
}

// needsDash reports whether a fresh sequence item marker must be
// prefixed: the context is an item key position, the line has no dash,
// and the cursor is not inside an already-opened item mapping.
func needsDash(ctx analysis.Context) bool {
	if ctx.Line.HasDash || ctx.InSequenceMapping {
		return false
	}

	last := ctx.KeyPath.Last()

	return last != nil && last.Sequence
}

// nestedIndent is the indentation for lines nested under the current
// one. A dash widens it so children clear the item marker.
func nestedIndent(indent int, dashed bool) int {
	if dashed {
		return indent + 4
	}

	return indent + 2
}

// keyBody renders the fragment for a key-position suggestion and the
// caret offset within it.
func keyBody(schema *bufyaml.Schema, ctx analysis.Context, s Suggestion, nested int) (string, int) {
	if s.Template {
		// A scalar sequence item completes as a value fragment.
		return valueBody(s, nested)
	}

	child := ctx.KeyPath.Child(s.Label)

	if body, caret, ok := scaffold(child, s.Label, nested); ok {
		return body, caret
	}

	pad := strings.Repeat(" ", nested)

	switch schema.KindOf(child) {
	case bufyaml.ValueKindMap:
		body := s.Label + ":\n" + pad

		return body, len(body)
	case bufyaml.ValueKindArray:
		body := s.Label + ":\n" + pad + "- "

		return body, len(body)
	case bufyaml.ValueKindString:
		body := s.Label + `: ""`

		return body, len(body) - 1
	case bufyaml.ValueKindBoolean:
		body := s.Label + ": false"

		return body, len(body)
	case bufyaml.ValueKindEnum:
		values := schema.EnumValues(child)
		if len(values) == 0 {
			break
		}

		body := s.Label + ": " + values[0]

		return body, len(body)
	case bufyaml.ValueKindURL:
		body := s.Label + `: "` + placeholderURL + `"`

		return body, len(body) - 1
	}

	body := s.Label + ": "

	return body, len(body)
}

// scaffold emits the hand-authored multi-line bodies for the item
// shapes whose sub-keys are always wanted together.
func scaffold(path bufyaml.Path, label string, nested int) (string, int, bool) {
	pad := strings.Repeat(" ", nested)

	switch path.String() {
	case "generate.inputs[].directory":
		body := label + ":\n" +
			pad + `path: ""` + "\n" +
			pad + `root: ""`
		caret := len(label) + 2 + nested + len(`path: "`)

		return body, caret, true
	case "generate.inputs[].git_repo":
		body := label + ":\n" +
			pad + `url: ""` + "\n" +
			pad + `sub_directory: ""` + "\n" +
			pad + `root: ""`
		caret := len(label) + 2 + nested + len(`url: "`)

		return body, caret, true
	case "generate.plugins[].command":
		body := label + ":\n" + pad + "- "

		return body, len(body), true
	}

	return "", 0, false
}

// valueBody renders the fragment for a value-position suggestion.
func valueBody(s Suggestion, nested int) (string, int) {
	if !s.Template {
		return s.Label, len(s.Label)
	}

	pad := strings.Repeat(" ", nested)

	switch s.Kind {
	case bufyaml.ValueKindArray:
		body := "\n" + pad + "- "

		return body, len(body)
	case bufyaml.ValueKindMap:
		body := "\n" + pad

		return body, len(body)
	case bufyaml.ValueKindURL:
		body := `"` + placeholderURL + `"`

		return body, len(body) - 1
	default:
		return `""`, 1
	}
}

// trailingWord is the partial identifier behind the cursor, the span a
// committed suggestion replaces.
func trailingWord(line string) string {
	i := len(line)

	for i > 0 {
		c := line[i-1]

		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			i--

			continue
		}

		break
	}

	return line[i:]
}
