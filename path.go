// Package bufyaml provides schema-aware completion for buf-style YAML configs.
package bufyaml

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Segment is a single step in a schema path: a key name, optionally
// marked as "item of the sequence bound to this key".
type Segment struct {
	Name     string
	Sequence bool
}

// String renders the segment, with a [] suffix for sequence items.
func (s Segment) String() string {
	if s.Sequence {
		return s.Name + "[]"
	}

	return s.Name
}

// Path identifies a location in the config's logical shape as an ordered
// chain of container keys, e.g. generate.plugins[].opts. The zero value
// is the document root.
//
// Paths are immutable values: Child and Item return copies and never
// alias the receiver's backing array.
type Path []Segment

// ParsePath parses the canonical dotted form back into a Path.
// The empty string parses to the root path.
func ParsePath(s string) (Path, error) {
	expr, err := pathParser.ParseString("", s)
	if err != nil {
		return nil, err
	}

	if len(expr.Segments) == 0 {
		return nil, nil
	}

	p := make(Path, len(expr.Segments))
	for i, seg := range expr.Segments {
		p[i] = Segment{Name: seg.Name, Sequence: seg.Seq}
	}

	return p, nil
}

// MustParsePath is ParsePath that panics on malformed input.
// Intended for static table keys, where a bad path is a programming error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic("bufyaml: invalid schema path " + strconv.Quote(s) + ": " + err.Error())
	}

	return p
}

// String renders the canonical dotted form, the exact key format used by
// the schema tables: segments joined with ".", sequence segments suffixed
// with "[]" (e.g. "generate.plugins[].opts"). The root renders as "".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}

	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}

	return strings.Join(parts, ".")
}

// Empty reports whether p is the root path.
func (p Path) Empty() bool {
	return len(p) == 0
}

// Equal reports whether two paths name the same location.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// Child returns p extended with a plain key segment.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)

	return append(out, Segment{Name: name})
}

// Item returns p with its last segment marked as a sequence item.
// The root path and already-marked paths are returned unchanged.
func (p Path) Item() Path {
	if len(p) == 0 || p[len(p)-1].Sequence {
		return p
	}

	out := make(Path, len(p))
	copy(out, p)
	out[len(out)-1].Sequence = true

	return out
}

// Parent returns p without its final segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}

	out := make(Path, len(p)-1)
	copy(out, p[:len(p)-1])

	return out
}

// Last returns the final segment. Calling Last on the root is invalid.
func (p Path) Last() Segment {
	return p[len(p)-1]
}

// IsExtensionOf reports whether p is a non-empty strict extension of
// prefix: the same leading segments plus at least one more, or the same
// segments with the final one gaining a sequence marker. A path never
// extends itself.
func (p Path) IsExtensionOf(prefix Path) bool {
	if len(p) == 0 || len(p) < len(prefix) {
		return false
	}

	for i := 0; i < len(prefix); i++ {
		if p[i].Name != prefix[i].Name {
			return false
		}

		last := i == len(prefix)-1
		if !last && p[i].Sequence != prefix[i].Sequence {
			return false
		}

		// The boundary segment may gain a marker but not lose one.
		if last && prefix[i].Sequence && !p[i].Sequence {
			return false
		}
	}

	if len(p) == len(prefix) {
		// Only a []-qualified continuation of the final segment counts.
		return p[len(p)-1].Sequence && !prefix[len(prefix)-1].Sequence
	}

	return true
}

// pathExpr is the participle grammar for the dotted path form.
type pathExpr struct {
	Segments []pathSegment `parser:"( @@ ( '.' @@ )* )?"`
}

type pathSegment struct {
	Name string `parser:"@Ident"`
	Seq  bool   `parser:"@Seq?"`
}

var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Seq", Pattern: `\[\]`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Dot", Pattern: `\.`},
})

var pathParser = participle.MustBuild[pathExpr](
	participle.Lexer(pathLexer),
)
