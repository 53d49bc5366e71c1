package analysis

import (
	"strings"

	"github.com/tanglin/bufyaml"
)

// frame is one open container key on the indent stack.
type frame struct {
	indent int
	key    string
	seq    bool
}

// ScanContext resolves the cursor context from raw text alone, with no
// parse tree: an indent-tracked scan of the lines above the cursor
// reconstructs the chain of open container keys, and the current line's
// shape decides between key and value position.
//
// The scan tolerates the half-typed YAML editors produce mid-keystroke:
// dangling colons, bare dashes, and blank lines all resolve to some
// context rather than failing.
func ScanContext(schema *bufyaml.Schema, text string, offset int) Context {
	line := LineAt(text, offset)
	stack := scanStack(text, line)

	// A blank top-level line directly under a container header means
	// "about to indent into it": keep the container open instead of
	// popping for the lower indent.
	if !preserveBlank(text, line) {
		for len(stack) > 0 && stack[len(stack)-1].indent >= line.Indent {
			stack = stack[:len(stack)-1]
		}
	}

	base := stackPath(stack)
	topSeq := len(stack) > 0 && stack[len(stack)-1].seq

	ctx := Context{Line: line}

	if line.Blank {
		return blankContext(schema, ctx, base, topSeq)
	}

	body := strings.TrimSpace(line.Text)
	if line.HasDash {
		body = strings.TrimSpace(body[1:])
	}

	// A line that already names its key puts the cursor in value
	// position; a dash reroutes the owning path through the sequence.
	if key, ok := inlineKey(body); ok {
		valueBase := base
		if line.HasDash {
			valueBase = base.Item()
		}

		ctx.IsValue = true
		ctx.ValuePath = valueBase.Child(key)

		return ctx
	}

	// Partial key text, or a dash with no colon yet.
	if line.HasDash {
		ctx.KeyPath = base.Item()

		return ctx
	}

	ctx.KeyPath = base
	ctx.InSequenceMapping = topSeq

	return ctx
}

// blankContext resolves a blank line: the stack path as-is, then its
// sequence-ized variant for "blank line under a sequence key, about to
// start an item".
func blankContext(schema *bufyaml.Schema, ctx Context, base bufyaml.Path, topSeq bool) Context {
	if _, ok := schema.Keys(base); ok {
		ctx.KeyPath = base
		ctx.InSequenceMapping = topSeq

		return ctx
	}

	item := base.Item()

	if _, ok := schema.Keys(item); ok {
		ctx.KeyPath = item

		return ctx
	}

	if schema.ScalarSequenceItem(item) {
		ctx.KeyPath = item

		return ctx
	}

	ctx.KeyPath = base
	ctx.InSequenceMapping = topSeq

	return ctx
}

// scanStack walks the lines above the cursor, tracking the chain of
// open containers. Closing a scope is purely indent-driven: a line pops
// every frame at or beyond its own indent.
func scanStack(text string, line Line) []frame {
	if line.Start == 0 {
		return nil
	}

	lines := strings.Split(text[:line.Start-1], "\n")

	var stack []frame

	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := indentOf(raw)

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		if trimmed[0] == '-' {
			// A sequence item marks the key it belongs to. An item
			// that opens its own mapping becomes a nested scope, one
			// column in so a same-indent sibling item closes it.
			if len(stack) > 0 {
				stack[len(stack)-1].seq = true
			}

			body := strings.TrimSpace(trimmed[1:])
			if key, ok := containerKey(body); ok {
				stack = append(stack, frame{indent: indent + 1, key: key})
			}

			continue
		}

		if key, ok := containerKey(trimmed); ok {
			stack = append(stack, frame{indent: indent, key: key})
		}
	}

	return stack
}

// preserveBlank reports whether the current line is a blank top-level
// line that should keep the container above it open.
func preserveBlank(text string, line Line) bool {
	if !line.Blank || line.Indent != 0 || line.Start == 0 {
		return false
	}

	lines := strings.Split(text[:line.Start-1], "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if isComment(lines[i]) {
			continue
		}

		return OpensContainer(lines[i])
	}

	return false
}

func stackPath(stack []frame) bufyaml.Path {
	if len(stack) == 0 {
		return nil
	}

	p := make(bufyaml.Path, len(stack))
	for i, f := range stack {
		p[i] = bufyaml.Segment{Name: f.key, Sequence: f.seq}
	}

	return p
}
