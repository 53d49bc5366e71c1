package lsp_test

import (
	"context"
	"strings"
	"testing"

	"go.lsp.dev/protocol"
)

func hoverAt(t *testing.T, text string, line, character uint32) *protocol.Hover {
	t.Helper()

	server, _ := newTestServer(t)
	uri := protocol.DocumentURI("file:///tmp/buf.gen.yaml")

	openDocument(t, server, uri, text)

	hover, err := server.Hover(context.Background(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: character},
		},
	})
	if err != nil {
		t.Fatalf("Hover() error: %v", err)
	}

	return hover
}

func TestHoverKeyDoc(t *testing.T) {
	t.Parallel()

	hover := hoverAt(t, "generate:\n  plugins:\n    - remote: x\n", 1, 3)
	if hover == nil {
		t.Fatal("Hover() = nil, want doc for plugins")
	}

	if !strings.Contains(hover.Contents.Value, "Plugins to invoke") {
		t.Errorf("Contents = %q, want the plugins doc line", hover.Contents.Value)
	}

	if !strings.Contains(hover.Contents.Value, "**plugins**") {
		t.Errorf("Contents = %q, want bolded key name", hover.Contents.Value)
	}

	if !strings.Contains(hover.Contents.Value, "`array`") {
		t.Errorf("Contents = %q, want the value kind", hover.Contents.Value)
	}

	if hover.Range == nil {
		t.Fatal("Range = nil, want the word span")
	}

	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 2},
		End:   protocol.Position{Line: 1, Character: 9},
	}
	if *hover.Range != want {
		t.Errorf("Range = %+v, want %+v", *hover.Range, want)
	}
}

func TestHoverNestedKeyDoc(t *testing.T) {
	t.Parallel()

	text := "generate:\n  inputs:\n    - directory:\n        path: x\n"

	hover := hoverAt(t, text, 3, 9)
	if hover == nil {
		t.Fatal("Hover() = nil, want doc for directory path")
	}

	if !strings.Contains(hover.Contents.Value, "Directory path relative") {
		t.Errorf("Contents = %q, want the directory path doc line", hover.Contents.Value)
	}
}

func TestHoverNoDoc(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		line uint32
		char uint32
	}{
		{"value position", "version: v1alpha", 0, 11},
		{"unknown key", "foo: bar", 0, 1},
		{"whitespace", "generate:\n  ", 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if hover := hoverAt(t, tc.text, tc.line, tc.char); hover != nil {
				t.Errorf("Hover() = %+v, want nil", hover)
			}
		})
	}
}

func TestHoverUnopenedDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	hover, err := server.Hover(context.Background(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/unopened.yaml"},
		},
	})
	if err != nil {
		t.Fatalf("Hover() error: %v", err)
	}

	if hover != nil {
		t.Errorf("Hover() = %+v, want nil for unopened document", hover)
	}
}
