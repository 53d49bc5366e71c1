package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tanglin/bufyaml/analysis"
)

// Hover handles textDocument/hover requests: the schema doc line for
// the key under the cursor.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	offset := offsetAt(doc.Content, params.Position)

	word, start, end := wordAt(doc.Content, offset)
	if word == "" {
		return nil, nil //nolint:nilnil
	}

	owner, _, ok := analysis.TreePath(doc.Content, offset)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	schema := doc.Analyzer.Schema()
	keyPath := owner.Child(word)

	text := schema.Doc(keyPath)
	if text == "" {
		return nil, nil //nolint:nilnil
	}

	content := fmt.Sprintf("**%s** `%s`\n\n%s", word, schema.KindOf(keyPath), text)
	rng := rangeBetween(doc.Content, start, end)

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: content,
		},
		Range: &rng,
	}, nil
}

// wordAt expands the identifier around a byte offset.
func wordAt(text string, offset int) (string, int, int) {
	if offset < 0 || offset > len(text) {
		return "", 0, 0
	}

	isWord := func(c byte) bool {
		return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
	}

	start := offset
	for start > 0 && isWord(text[start-1]) {
		start--
	}

	end := offset
	for end < len(text) && isWord(text[end]) {
		end++
	}

	return text[start:end], start, end
}
