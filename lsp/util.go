package lsp

import (
	"net/url"
	"strings"

	"go.lsp.dev/protocol"
)

// URIToPath converts a document URI to a file system path.
func URIToPath(uri protocol.DocumentURI) string {
	u, err := url.Parse(string(uri))
	if err != nil {
		return strings.TrimPrefix(string(uri), "file://")
	}

	if u.Scheme == "file" {
		return u.Path
	}

	return string(uri)
}

// PathToURI converts a file system path to a document URI.
func PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI("file://" + path)
}

// offsetAt converts an LSP position to a byte offset into text.
// Positions past the end of a line or file clamp to it.
func offsetAt(text string, pos protocol.Position) int {
	offset := 0

	for line := uint32(0); line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}

		offset += next + 1
	}

	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		end = len(text) - offset
	}

	if int(pos.Character) < end {
		return offset + int(pos.Character)
	}

	return offset + end
}

// positionAt converts a byte offset into an LSP position.
func positionAt(text string, offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}

	if offset > len(text) {
		offset = len(text)
	}

	before := text[:offset]
	line := strings.Count(before, "\n")
	start := strings.LastIndexByte(before, '\n') + 1

	return protocol.Position{
		Line:      uint32(line),          //nolint:gosec // G115: values are small line numbers
		Character: uint32(offset - start), //nolint:gosec // G115: values are small column numbers
	}
}

// rangeBetween converts a byte offset span to an LSP range.
func rangeBetween(text string, start, end int) protocol.Range {
	return protocol.Range{
		Start: positionAt(text, start),
		End:   positionAt(text, end),
	}
}
