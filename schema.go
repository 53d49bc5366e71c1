package bufyaml

import (
	"errors"
	"fmt"
	"sort"
)

// Schema errors.
var (
	ErrUnknownVersion = errors.New("unknown config version")
)

// ValueKind classifies the value expected at a schema path.
type ValueKind string

// Value kind constants.
const (
	ValueKindMap     ValueKind = "map"
	ValueKindArray   ValueKind = "array"
	ValueKindString  ValueKind = "string"
	ValueKindBoolean ValueKind = "boolean"
	ValueKindEnum    ValueKind = "enum"
	ValueKindURL     ValueKind = "url"
	ValueKindAny     ValueKind = "any"
	ValueKindUnknown ValueKind = ""
)

// Schema holds the static completion tables for one config version.
//
// All tables are keyed by the canonical dotted path form (Path.String).
// A Schema is immutable after registration and safe to share across
// concurrent requests.
type Schema struct {
	version string

	// keys maps container paths (including the root "") to their
	// expected child keys, in suggestion order.
	keys map[string][]string

	// starters restricts suggestions for a container path to the keys
	// that can begin a new item, applied only on a blank line directly
	// under the container's header.
	starters map[string][]string

	// Value-position classification. booleans, sequences, maps,
	// strings, and urls partition the known value paths; anyValues may
	// additionally contain paths whose values take several shapes.
	enums     map[string][]string
	booleans  map[string]bool
	sequences map[string]bool
	maps      map[string]bool
	strings   map[string]bool
	urls      map[string]bool
	anyValues map[string]bool

	// scalarItems lists sequence-item paths like "deps[]" whose items
	// are bare strings rather than mappings.
	scalarItems map[string]bool

	// docs carries the hover/completion documentation per path.
	docs map[string]string
}

// Version returns the config version this schema describes.
func (s *Schema) Version() string {
	return s.version
}

// Keys returns the expected child keys at a container path and whether
// the path is present in the key table at all.
func (s *Schema) Keys(p Path) ([]string, bool) {
	keys, ok := s.keys[p.String()]

	return keys, ok
}

// Starters returns the starter-key subset for a container path, if one
// is defined.
func (s *Schema) Starters(p Path) ([]string, bool) {
	keys, ok := s.starters[p.String()]

	return keys, ok
}

// Known reports whether the path appears in any table: as a container,
// as a classified value position, or as a scalar sequence item.
func (s *Schema) Known(p Path) bool {
	key := p.String()

	if _, ok := s.keys[key]; ok {
		return true
	}

	if _, ok := s.enums[key]; ok {
		return true
	}

	return s.booleans[key] || s.sequences[key] || s.maps[key] ||
		s.strings[key] || s.urls[key] || s.anyValues[key] ||
		s.scalarItems[key]
}

// Kinds returns every classification the value path matches, in the
// fixed order the suggestion builder consumes them: enum, boolean,
// array, map, string, url, any. All known value paths match exactly one
// kind except the sanctioned any-overlap (plugin opts).
func (s *Schema) Kinds(p Path) []ValueKind {
	key := p.String()

	var kinds []ValueKind

	if _, ok := s.enums[key]; ok {
		kinds = append(kinds, ValueKindEnum)
	}

	if s.booleans[key] {
		kinds = append(kinds, ValueKindBoolean)
	}

	if s.sequences[key] {
		kinds = append(kinds, ValueKindArray)
	}

	if s.maps[key] {
		kinds = append(kinds, ValueKindMap)
	}

	if s.strings[key] {
		kinds = append(kinds, ValueKindString)
	}

	if s.urls[key] {
		kinds = append(kinds, ValueKindURL)
	}

	if s.anyValues[key] {
		kinds = append(kinds, ValueKindAny)
	}

	return kinds
}

// KindOf returns the display kind for a value path: the first matching
// classification, or ValueKindUnknown for paths absent from every table.
func (s *Schema) KindOf(p Path) ValueKind {
	kinds := s.Kinds(p)
	if len(kinds) == 0 {
		return ValueKindUnknown
	}

	return kinds[0]
}

// EnumValues returns the literal values for an enum path, nil otherwise.
func (s *Schema) EnumValues(p Path) []string {
	return s.enums[p.String()]
}

// ScalarSequenceItem reports whether items of this sequence path are
// bare strings rather than mappings.
func (s *Schema) ScalarSequenceItem(p Path) bool {
	return s.scalarItems[p.String()]
}

// Doc returns the documentation string for a path, or "".
func (s *Schema) Doc(p Path) string {
	return s.docs[p.String()]
}

// Paths returns every path known to the schema, in sorted canonical
// form: container paths, classified value paths, and scalar sequence
// item paths.
func (s *Schema) Paths() []string {
	seen := make(map[string]bool)

	for key := range s.keys {
		seen[key] = true
	}

	for key := range s.enums {
		seen[key] = true
	}

	for _, table := range []map[string]bool{
		s.booleans, s.sequences, s.maps, s.strings, s.urls,
		s.anyValues, s.scalarItems,
	} {
		for key := range table {
			seen[key] = true
		}
	}

	paths := make([]string, 0, len(seen))
	for key := range seen {
		paths = append(paths, key)
	}

	sort.Strings(paths)

	return paths
}

// validate panics if any table key is not a well-formed schema path.
// Called at registration, so a malformed table fails fast at startup.
func (s *Schema) validate() {
	tables := []map[string]bool{
		s.booleans, s.sequences, s.maps, s.strings, s.urls,
		s.anyValues, s.scalarItems,
	}

	for _, table := range tables {
		for key := range table {
			MustParsePath(key)
		}
	}

	for key := range s.keys {
		MustParsePath(key)
	}

	for key := range s.enums {
		MustParsePath(key)
	}

	for key := range s.docs {
		MustParsePath(key)
	}
}

var schemas = make(map[string]*Schema)

// RegisterSchema registers a schema under its version string.
// Panics on malformed table keys or duplicate registration.
func RegisterSchema(s *Schema) {
	if _, ok := schemas[s.version]; ok {
		panic("bufyaml: schema already registered: " + s.version)
	}

	s.validate()
	schemas[s.version] = s
}

// SchemaFor returns the schema registered for a config version.
func SchemaFor(version string) (*Schema, error) {
	s, ok := schemas[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, version)
	}

	return s, nil
}

// DefaultSchema returns the schema for the default config version.
func DefaultSchema() *Schema {
	s, ok := schemas[DefaultVersion]
	if !ok {
		panic("bufyaml: default schema not registered")
	}

	return s
}
