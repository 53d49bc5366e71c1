package lsp

import (
	"context"
	"strconv"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tanglin/bufyaml"
)

// DocumentSymbol handles textDocument/documentSymbol requests.
// Returns a hierarchical outline of the config keys and entries.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	s.logger.Debug("DocumentSymbol",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	root := documentRoot(doc.Content)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, nil
	}

	symbols := mappingSymbols(doc.Analyzer.Schema(), bufyaml.Path{}, root)

	result := make([]any, len(symbols))
	for i, sym := range symbols {
		result[i] = sym
	}

	return result, nil
}

// documentRoot parses the text and returns its top-level node, or nil
// when the document is empty or does not parse.
func documentRoot(text string) *yaml.Node {
	var doc yaml.Node

	err := yaml.Unmarshal([]byte(text), &doc)
	if err != nil || len(doc.Content) == 0 {
		return nil
	}

	return doc.Content[0]
}

// mappingSymbols builds one symbol per key, nesting into block values.
func mappingSymbols(schema *bufyaml.Schema, base bufyaml.Path, node *yaml.Node) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			continue
		}

		path := base.Child(key.Value)
		kind := schema.KindOf(path)

		sym := protocol.DocumentSymbol{
			Name:           key.Value,
			Kind:           symbolKind(kind),
			Range:          blockRange(key, value),
			SelectionRange: scalarRange(key),
		}

		if kind != bufyaml.ValueKindUnknown {
			sym.Detail = string(kind)
		}

		switch value.Kind {
		case yaml.MappingNode:
			sym.Children = mappingSymbols(schema, path, value)
		case yaml.SequenceNode:
			sym.Children = sequenceSymbols(schema, path.Item(), value)
		}

		symbols = append(symbols, sym)
	}

	return symbols
}

// sequenceSymbols names each entry after its identifying scalar so the
// outline reads "buf.build/..." rather than bare indexes.
func sequenceSymbols(schema *bufyaml.Schema, itemPath bufyaml.Path, node *yaml.Node) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	for i, item := range node.Content {
		kind := protocol.SymbolKindString
		if item.Kind == yaml.MappingNode {
			kind = protocol.SymbolKindObject
		}

		sym := protocol.DocumentSymbol{
			Name:           entryName(item, i),
			Kind:           kind,
			Range:          blockRange(item, item),
			SelectionRange: selectionHead(item),
		}

		if item.Kind == yaml.MappingNode {
			sym.Children = mappingSymbols(schema, itemPath, item)
		}

		symbols = append(symbols, sym)
	}

	return symbols
}

// entryName picks a display name for a sequence entry: the scalar
// itself, the first pair's value, or the index as a last resort.
func entryName(item *yaml.Node, index int) string {
	if item.Kind == yaml.ScalarNode && item.Value != "" {
		return item.Value
	}

	if item.Kind == yaml.MappingNode && len(item.Content) >= 2 {
		if v := item.Content[1]; v.Kind == yaml.ScalarNode && v.Value != "" {
			return v.Value
		}

		return item.Content[0].Value
	}

	return strconv.Itoa(index)
}

func symbolKind(kind bufyaml.ValueKind) protocol.SymbolKind {
	switch kind {
	case bufyaml.ValueKindMap:
		return protocol.SymbolKindObject
	case bufyaml.ValueKindArray:
		return protocol.SymbolKindArray
	case bufyaml.ValueKindBoolean:
		return protocol.SymbolKindBoolean
	case bufyaml.ValueKindEnum:
		return protocol.SymbolKindEnumMember
	case bufyaml.ValueKindString, bufyaml.ValueKindURL:
		return protocol.SymbolKindString
	default:
		return protocol.SymbolKindKey
	}
}

// nodePosition converts a 1-based yaml.v3 position.
func nodePosition(line, column int) protocol.Position {
	return protocol.Position{
		Line:      uint32(line - 1),   //nolint:gosec
		Character: uint32(column - 1), //nolint:gosec
	}
}

// nodeEndLine is the last line a node touches, multiline scalars
// included.
func nodeEndLine(n *yaml.Node) int {
	end := n.Line + strings.Count(n.Value, "\n")

	for _, c := range n.Content {
		if e := nodeEndLine(c); e > end {
			end = e
		}
	}

	return end
}

// blockRange spans from a head node to the end of the value's block.
// The end sits at the start of the following line, which keeps sibling
// ranges disjoint.
func blockRange(head, value *yaml.Node) protocol.Range {
	endLine := nodeEndLine(value)
	if endLine < head.Line {
		endLine = head.Line
	}

	return protocol.Range{
		Start: nodePosition(head.Line, head.Column),
		End:   nodePosition(endLine+1, 1),
	}
}

// scalarRange covers a scalar token's text.
func scalarRange(n *yaml.Node) protocol.Range {
	return protocol.Range{
		Start: nodePosition(n.Line, n.Column),
		End:   nodePosition(n.Line, n.Column+len(n.Value)),
	}
}

// selectionHead is the token an editor highlights when the symbol is
// picked: the entry's first key, or the scalar itself.
func selectionHead(n *yaml.Node) protocol.Range {
	if n.Kind == yaml.MappingNode && len(n.Content) > 0 {
		return scalarRange(n.Content[0])
	}

	if n.Kind == yaml.ScalarNode {
		return scalarRange(n)
	}

	p := nodePosition(n.Line, n.Column)

	return protocol.Range{Start: p, End: p}
}
