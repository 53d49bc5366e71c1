package lsp_test

import (
	"context"
	"testing"

	"go.lsp.dev/protocol"

	"github.com/google/go-cmp/cmp"
)

func completeAt(t *testing.T, text string, line, character uint32, cc *protocol.CompletionContext) *protocol.CompletionList {
	t.Helper()

	server, _ := newTestServer(t)
	uri := protocol.DocumentURI("file:///tmp/buf.gen.yaml")

	openDocument(t, server, uri, text)

	list, err := server.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: character},
		},
		Context: cc,
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	return list
}

func TestCompletionRootKeys(t *testing.T) {
	t.Parallel()

	list := completeAt(t, "", 0, 0, nil)

	want := []string{"version", "deps", "generate", "lint", "breaking"}
	if diff := cmp.Diff(want, itemLabels(list)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	for i, item := range list.Items {
		if item.TextEdit == nil {
			t.Errorf("item %q has no TextEdit", item.Label)
		}

		if i > 0 && list.Items[i-1].SortText >= item.SortText {
			t.Errorf("SortText not ascending at %q", item.Label)
		}

		if item.Kind != protocol.CompletionItemKindProperty {
			t.Errorf("item %q kind = %v, want property", item.Label, item.Kind)
		}
	}
}

func TestCompletionSnippetCaret(t *testing.T) {
	t.Parallel()

	list := completeAt(t, "generate:\n  plugins:\n    ", 2, 4, nil)

	want := []string{"remote", "path", "command", "name"}
	if diff := cmp.Diff(want, itemLabels(list)); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	remote := list.Items[0]

	if remote.TextEdit.NewText != `- remote: "$0"` {
		t.Errorf("NewText = %q, want %q", remote.TextEdit.NewText, `- remote: "$0"`)
	}

	if remote.InsertTextFormat != protocol.InsertTextFormatSnippet {
		t.Errorf("InsertTextFormat = %v, want snippet", remote.InsertTextFormat)
	}

	if remote.TextEdit.Range.Start.Line != 2 || remote.TextEdit.Range.Start.Character != 4 {
		t.Errorf("edit range start = %+v, want line 2 char 4", remote.TextEdit.Range.Start)
	}
}

func TestCompletionValuePosition(t *testing.T) {
	t.Parallel()

	list := completeAt(t, "version: ", 0, 9, nil)

	want := []string{"v1alpha"}
	if diff := cmp.Diff(want, itemLabels(list)); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	item := list.Items[0]

	if item.Kind != protocol.CompletionItemKindEnumMember {
		t.Errorf("kind = %v, want enum member", item.Kind)
	}

	if item.TextEdit.NewText != "v1alpha" {
		t.Errorf("NewText = %q, want v1alpha", item.TextEdit.NewText)
	}

	if item.InsertTextFormat == protocol.InsertTextFormatSnippet {
		t.Error("literal insert should not be a snippet")
	}
}

func TestCompletionDocsAttached(t *testing.T) {
	t.Parallel()

	list := completeAt(t, "", 0, 0, nil)

	for _, item := range list.Items {
		mc, ok := item.Documentation.(*protocol.MarkupContent)
		if !ok || mc.Value == "" {
			t.Errorf("item %q has no documentation", item.Label)
		}
	}
}

func TestCompletionTriggerCharacterVeto(t *testing.T) {
	t.Parallel()

	list := completeAt(t, "remote ", 0, 7, &protocol.CompletionContext{
		TriggerKind:      protocol.CompletionTriggerKindTriggerCharacter,
		TriggerCharacter: " ",
	})

	if len(list.Items) != 0 {
		t.Errorf("labels = %v, want none after a plain word", itemLabels(list))
	}
}

func TestCompletionTriggerCharacterAccepted(t *testing.T) {
	t.Parallel()

	list := completeAt(t, "version: ", 0, 9, &protocol.CompletionContext{
		TriggerKind:      protocol.CompletionTriggerKindTriggerCharacter,
		TriggerCharacter: " ",
	})

	want := []string{"v1alpha"}
	if diff := cmp.Diff(want, itemLabels(list)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestCompletionUnknownDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	list, err := server.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/unopened.yaml"},
			Position:     protocol.Position{},
		},
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	if list != nil {
		t.Errorf("list = %+v, want nil for unopened document", list)
	}
}
