// Package complete turns a resolved cursor context into ordered
// completion suggestions and literal text edits.
//
// Suggestions are computed from the schema tables alone and rendered
// with Render into replacement text plus a caret position, so hosts
// (LSP, CLI) share one engine. Trigger decides when a typed character
// should open the suggestion list at all.
package complete

import (
	"strings"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/analysis"
)

// Suggestion is one completion candidate. Template marks a placeholder
// that renders to scaffolding rather than inserting Label verbatim.
type Suggestion struct {
	Label    string
	Kind     bufyaml.ValueKind
	Template bool
	Detail   string
}

// Suggest computes the ordered candidates for a resolved context.
// Unknown paths yield nil, which callers treat as "no popup".
func Suggest(schema *bufyaml.Schema, ctx analysis.Context) []Suggestion {
	if schema == nil {
		schema = bufyaml.DefaultSchema()
	}

	if ctx.IsValue {
		return valueSuggestions(schema, ctx.ValuePath)
	}

	return keySuggestions(schema, ctx)
}

func keySuggestions(schema *bufyaml.Schema, ctx analysis.Context) []Suggestion {
	keys, ok := schema.Keys(ctx.KeyPath)
	if !ok {
		// Scalar sequence items complete as a bare string entry.
		if schema.ScalarSequenceItem(ctx.KeyPath) {
			return []Suggestion{stringTemplate()}
		}

		return nil
	}

	if starters, ok := schema.Starters(ctx.KeyPath); ok && startingItem(ctx) {
		keys = starters
	}

	present := make(map[string]bool, len(ctx.Siblings))
	for _, s := range ctx.Siblings {
		present[s] = true
	}

	var out []Suggestion

	for _, key := range keys {
		if present[key] {
			continue
		}

		child := ctx.KeyPath.Child(key)

		out = append(out, Suggestion{
			Label:  key,
			Kind:   schema.KindOf(child),
			Detail: schema.Doc(child),
		})
	}

	return out
}

// startingItem reports whether the cursor is opening the first entry of
// a fresh sequence item: a blank line directly under the line that
// opened the owning sequence. The check pattern-matches the previous
// line's trailing text and deliberately not the item's existing keys.
func startingItem(ctx analysis.Context) bool {
	if !ctx.Line.Blank {
		return false
	}

	last := ctx.KeyPath.Last()
	if last == nil {
		return false
	}

	prev := strings.TrimSpace(ctx.Line.Prev)

	return strings.HasSuffix(prev, last.Name+":")
}

// valueSuggestions builds the candidates for a value position in a
// fixed kind order, suppressing duplicates.
func valueSuggestions(schema *bufyaml.Schema, path bufyaml.Path) []Suggestion {
	var (
		out  []Suggestion
		seen = map[string]bool{}
	)

	add := func(s Suggestion) {
		id := s.Label
		if s.Template {
			id = "\x00" + id
		}

		if seen[id] {
			return
		}

		seen[id] = true

		out = append(out, s)
	}

	for _, kind := range schema.Kinds(path) {
		switch kind {
		case bufyaml.ValueKindEnum:
			for _, v := range schema.EnumValues(path) {
				add(Suggestion{Label: v, Kind: bufyaml.ValueKindEnum, Detail: schema.Doc(path)})
			}
		case bufyaml.ValueKindBoolean:
			add(Suggestion{Label: "true", Kind: bufyaml.ValueKindBoolean})
			add(Suggestion{Label: "false", Kind: bufyaml.ValueKindBoolean})
		case bufyaml.ValueKindArray:
			add(arrayTemplate())
		case bufyaml.ValueKindMap:
			add(mapTemplate())
		case bufyaml.ValueKindString:
			add(stringTemplate())
		case bufyaml.ValueKindURL:
			add(urlTemplate())
		case bufyaml.ValueKindAny:
			add(stringTemplate())
			add(Suggestion{Label: "true", Kind: bufyaml.ValueKindBoolean})
			add(Suggestion{Label: "0"})
			add(arrayTemplate())
			add(mapTemplate())
		}
	}

	return out
}

func stringTemplate() Suggestion {
	return Suggestion{Label: "string", Kind: bufyaml.ValueKindString, Template: true}
}

func urlTemplate() Suggestion {
	return Suggestion{Label: "url", Kind: bufyaml.ValueKindURL, Template: true}
}

func arrayTemplate() Suggestion {
	return Suggestion{Label: "array", Kind: bufyaml.ValueKindArray, Template: true}
}

func mapTemplate() Suggestion {
	return Suggestion{Label: "map", Kind: bufyaml.ValueKindMap, Template: true}
}
