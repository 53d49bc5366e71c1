package analysis

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tanglin/bufyaml"
)

// TreePath resolves the schema path at the cursor from the parsed
// document, along with the keys already present in the innermost
// mapping there. ok is false when the text has no usable parse, which
// is routine mid-keystroke; callers fall back to the text scan.
//
// The parsed nodes carry start positions only, so extents are
// reconstructed: a scalar spans its value text, and a block mapping or
// sequence additionally keeps the trailing region below it while the
// cursor's line is not dedented past the block's column. Implicit
// nulls have no extent and never bound the cursor.
func TreePath(text string, offset int) (bufyaml.Path, []string, bool) {
	var doc yaml.Node

	err := yaml.Unmarshal([]byte(text), &doc)
	if err != nil {
		return nil, nil, false
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil, false
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, false
	}

	line, col := lineColAt(text, offset)

	w := treeWalk{
		line: line,
		col:  col,
		// First content column of the cursor's line, the dedent
		// boundary for block extents.
		curCol: indentOf(LineAt(text, offset).Text) + 1,
	}

	path, siblings := w.mapping(root, nil)

	return path, siblings, true
}

// treeWalk carries the cursor position through the descent.
type treeWalk struct {
	line   int
	col    int
	curCol int
}

// mapping locates the cursor within a mapping and routes downward:
// onto a key token, into a pair's value, or nowhere (the mapping's own
// key position).
func (w treeWalk) mapping(m *yaml.Node, path bufyaml.Path) (bufyaml.Path, []string) {
	// Last pair whose key starts at or before the cursor.
	idx := -1

	for i := 0; i+1 < len(m.Content); i += 2 {
		if !w.reached(m.Content[i]) {
			break
		}

		idx = i
	}

	if idx < 0 {
		return path, mappingKeys(m, nil)
	}

	key, value := m.Content[idx], m.Content[idx+1]

	// Editing the key itself: the context is the mapping, and the key
	// under the cursor does not count as its own sibling.
	if w.onScalar(key) {
		return path, mappingKeys(m, key)
	}

	if w.after(value) {
		return path, mappingKeys(m, nil)
	}

	switch value.Kind {
	case yaml.MappingNode:
		return w.mapping(value, path.Child(key.Value))
	case yaml.SequenceNode:
		return w.sequence(value, path, key.Value)
	default:
		return path.Child(key.Value), nil
	}
}

// sequence routes the cursor into the item that holds it. Items derive
// their path by marking the owning key as a sequence.
func (w treeWalk) sequence(seq *yaml.Node, path bufyaml.Path, key string) (bufyaml.Path, []string) {
	itemPath := path.Child(key).Item()

	idx := -1

	for i, item := range seq.Content {
		if !w.reached(item) {
			break
		}

		idx = i
	}

	if idx < 0 {
		// Within the sequence's value region but before any item.
		return path.Child(key), nil
	}

	item := seq.Content[idx]

	if w.after(item) {
		// Between items: a fresh item position, no siblings.
		return itemPath, nil
	}

	if item.Kind == yaml.MappingNode {
		return w.mapping(item, itemPath)
	}

	return itemPath, nil
}

// reached reports whether the node starts at or before the cursor.
func (w treeWalk) reached(n *yaml.Node) bool {
	return n.Line < w.line || (n.Line == w.line && n.Column <= w.col)
}

// onScalar reports whether the cursor touches the scalar's token,
// including the position just past its final character.
func (w treeWalk) onScalar(n *yaml.Node) bool {
	return w.line == n.Line && w.col >= n.Column && w.col <= n.Column+len(n.Value)
}

// after reports whether the cursor lies past the node's extent. Block
// nodes keep their trailing region until the cursor line dedents past
// the block's column.
func (w treeWalk) after(n *yaml.Node) bool {
	if isNull(n) {
		return false
	}

	el, ec := endOf(n)

	past := w.line > el || (w.line == el && w.col > ec)
	if !past {
		return false
	}

	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		return w.curCol < n.Column
	}

	return true
}

// mappingKeys collects a mapping's key names, skipping the node being
// edited when given.
func mappingKeys(m *yaml.Node, except *yaml.Node) []string {
	var keys []string

	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i] == except {
			continue
		}

		keys = append(keys, m.Content[i].Value)
	}

	return keys
}

// isNull reports an implicit or explicit null scalar.
func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// endOf reconstructs a node's end position: the end of its last child,
// or for scalars the span of the value text.
func endOf(n *yaml.Node) (int, int) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		if len(n.Content) == 0 {
			return n.Line, n.Column
		}

		return endOf(n.Content[len(n.Content)-1])
	default:
		if n.Value == "" {
			return n.Line, n.Column
		}

		lines := strings.Split(n.Value, "\n")
		if len(lines) == 1 {
			return n.Line, n.Column + len(n.Value)
		}

		return n.Line + len(lines) - 1, len(lines[len(lines)-1]) + 1
	}
}
