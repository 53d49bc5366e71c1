package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/complete"
)

// Completion handles textDocument/completion requests.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	offset := offsetAt(doc.Content, params.Position)

	// Character-triggered requests go through the same gate editors
	// without trigger support use, so a space after a word stays quiet.
	if params.Context != nil &&
		params.Context.TriggerKind == protocol.CompletionTriggerKindTriggerCharacter &&
		params.Context.TriggerCharacter != "" {
		ch := []rune(params.Context.TriggerCharacter)[0]
		if !complete.ShouldAutoTrigger(ch, doc.Content, offset) {
			return &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}, nil
		}
	}

	cursor := doc.Analyzer.Resolve(doc.Content, offset)
	schema := doc.Analyzer.Schema()

	suggestions := complete.Suggest(schema, cursor)
	items := make([]protocol.CompletionItem, 0, len(suggestions))

	for i, sug := range suggestions {
		plan := complete.Render(schema, cursor, sug)

		item := protocol.CompletionItem{
			Label:    sug.Label,
			Kind:     itemKind(cursor.IsValue, sug),
			Detail:   itemDetail(sug),
			SortText: fmt.Sprintf("%04d", i),
			TextEdit: &protocol.TextEdit{
				Range:   rangeBetween(doc.Content, plan.Start, plan.End),
				NewText: plan.Text,
			},
		}

		// A caret short of the end needs a snippet tab stop.
		if rel := plan.Caret - plan.Start; rel < len(plan.Text) {
			item.TextEdit.NewText = snippetEscape(plan.Text[:rel]) + "$0" + snippetEscape(plan.Text[rel:])
			item.InsertTextFormat = protocol.InsertTextFormatSnippet
		}

		if s.docsEnabled && sug.Detail != "" {
			item.Documentation = &protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: sug.Detail,
			}
		}

		items = append(items, item)
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// itemKind maps a suggestion onto the LSP completion item kinds.
func itemKind(isValue bool, s complete.Suggestion) protocol.CompletionItemKind {
	if s.Template {
		return protocol.CompletionItemKindSnippet
	}

	if !isValue {
		return protocol.CompletionItemKindProperty
	}

	switch s.Kind {
	case bufyaml.ValueKindEnum:
		return protocol.CompletionItemKindEnumMember
	case bufyaml.ValueKindBoolean:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindValue
	}
}

// itemDetail is the short type hint beside the label.
func itemDetail(s complete.Suggestion) string {
	if s.Kind == bufyaml.ValueKindUnknown {
		return ""
	}

	return string(s.Kind)
}

// snippetEscape quotes the characters the snippet grammar treats
// specially.
func snippetEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)

	return strings.ReplaceAll(s, "$", `\$`)
}
