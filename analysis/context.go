// Package analysis resolves the schema context at a cursor position in
// buf-style YAML config text.
//
// Two independent strategies produce a candidate context for every
// request: a tree resolver over the parsed document and a text-scanning
// resolver that works from indentation alone. A reconciliation policy
// picks the authoritative result. Resolution is a pure function of
// (text, offset); nothing is cached across requests.
package analysis

import "github.com/tanglin/bufyaml"

// Context describes the schema location of a cursor position.
//
// Exactly one of KeyPath and ValuePath is meaningful, selected by
// IsValue. KeyPath is the container whose child keys are expected at
// the cursor (the root path for a top-level position); ValuePath is the
// full path of the key whose value is being typed.
type Context struct {
	KeyPath   bufyaml.Path
	ValuePath bufyaml.Path
	IsValue   bool

	// InSequenceMapping is set when the cursor sits inside a sequence
	// item's mapping whose dash was consumed on an earlier line, so an
	// inserted key must not be prefixed with a new dash.
	InSequenceMapping bool

	// Siblings lists keys already present in the resolved mapping.
	// Only the tree resolver can fill this; it is empty when the
	// text-scan result wins.
	Siblings []string

	// Line carries facts about the cursor's line, used by the
	// suggestion and insertion layers.
	Line Line
}

// Path returns the path the context resolved to: the value path at a
// value position, the key-context path otherwise.
func (c Context) Path() bufyaml.Path {
	if c.IsValue {
		return c.ValuePath
	}

	return c.KeyPath
}

// Line holds per-request facts about the cursor's line. The text is the
// portion before the cursor; anything after it plays no part in
// resolution.
type Line struct {
	// Start is the document offset of the line's first character.
	Start int

	// Text is the line's content from Start up to the cursor.
	Text string

	// Prev is the full text of the immediately preceding line, "" at
	// the top of the document.
	Prev string

	// Indent is the number of leading spaces in Text.
	Indent int

	// Blank is set when Text is empty or whitespace.
	Blank bool

	// HasDash is set when the first non-space character is a dash.
	HasDash bool

	// DashOnly is set when Text contains nothing but indentation and
	// a dash, optionally followed by spaces.
	DashOnly bool
}
