package analysis

import "github.com/tanglin/bufyaml"

// Reconcile decides whether the text-scan context keeps its own path or
// adopts the tree-derived one. The tree is authoritative for committed
// syntax but resolves too shallow on the very line being edited; the
// scan wins exactly in that window:
//
//   - its path is schema-known while the tree's is not, or
//   - the tree produced no path at all, or
//   - its path strictly extends the tree's.
//
// Otherwise the tree's path replaces the scan's, and the structurally
// known sibling keys come along with it.
func Reconcile(schema *bufyaml.Schema, scan Context, tree bufyaml.Path, siblings []string) Context {
	scanPath := scan.Path()

	switch {
	case schema.Known(scanPath) && !schema.Known(tree):
		return scan
	case tree.Empty():
		return scan
	case scanPath.IsExtensionOf(tree):
		return scan
	}

	out := scan
	out.Siblings = siblings

	if out.IsValue {
		out.ValuePath = tree
	} else {
		out.KeyPath = tree
	}

	return out
}
