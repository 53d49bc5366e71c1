package analysis

import "github.com/tanglin/bufyaml"

// Analyzer resolves completion contexts against one schema. It holds no
// per-request state: every resolution is a pure function of the text
// snapshot and offset, so a single Analyzer serves concurrent requests.
type Analyzer struct {
	schema *bufyaml.Schema
}

// NewAnalyzer creates an analyzer. Pass nil to use the default schema.
func NewAnalyzer(schema *bufyaml.Schema) *Analyzer {
	if schema == nil {
		schema = bufyaml.DefaultSchema()
	}

	return &Analyzer{schema: schema}
}

// Schema returns the schema the analyzer resolves against.
func (a *Analyzer) Schema() *bufyaml.Schema {
	return a.schema
}

// Resolve computes the schema context at offset. Both strategies run on
// every request; when the parse is unusable the scan result stands
// alone, otherwise reconciliation picks the authoritative path.
func (a *Analyzer) Resolve(text string, offset int) Context {
	scan := ScanContext(a.schema, text, offset)

	tree, siblings, ok := TreePath(text, offset)
	if !ok {
		return scan
	}

	return Reconcile(a.schema, scan, tree, siblings)
}
