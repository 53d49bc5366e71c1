package lsp_test

import (
	"context"
	"testing"

	"go.lsp.dev/protocol"
)

func TestFoldingRangesBlocks(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	uri := protocol.DocumentURI("file:///buf.gen.yaml")
	openDocument(t, server, uri, outlineDoc)

	ranges, err := server.FoldingRanges(context.Background(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("FoldingRanges() error: %v", err)
	}

	want := []protocol.FoldingRange{
		{StartLine: 1, EndLine: 3, Kind: protocol.RegionFoldingRange},
		{StartLine: 4, EndLine: 9, Kind: protocol.RegionFoldingRange},
		{StartLine: 5, EndLine: 9, Kind: protocol.RegionFoldingRange},
		{StartLine: 6, EndLine: 7, Kind: protocol.RegionFoldingRange},
		{StartLine: 8, EndLine: 9, Kind: protocol.RegionFoldingRange},
	}

	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d: %+v", len(ranges), len(want), ranges)
	}

	for i, w := range want {
		if ranges[i] != w {
			t.Errorf("range %d = %+v, want %+v", i, ranges[i], w)
		}
	}
}

func TestFoldingRangesFlatDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	uri := protocol.DocumentURI("file:///buf.gen.yaml")
	openDocument(t, server, uri, "version: v1alpha\n")

	ranges, err := server.FoldingRanges(context.Background(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("FoldingRanges() error: %v", err)
	}

	if len(ranges) != 0 {
		t.Errorf("ranges = %+v, want none", ranges)
	}
}
