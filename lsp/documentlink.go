package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DocumentLink handles textDocument/documentLink requests.
// Registry references like buf.build/acme/petapis become clickable
// links to the registry page, and literal URLs link as-is.
func (s *Server) DocumentLink(_ context.Context, params *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	s.logger.Debug("DocumentLink",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	root := documentRoot(doc.Content)
	if root == nil {
		return nil, nil
	}

	var links []protocol.DocumentLink

	collectLinks(root, &links)

	return links, nil
}

// collectLinks walks value scalars and links the linkable ones. Keys
// are never references.
func collectLinks(n *yaml.Node, links *[]protocol.DocumentLink) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			collectLinks(n.Content[i], links)
		}

	case yaml.SequenceNode, yaml.DocumentNode:
		for _, c := range n.Content {
			collectLinks(c, links)
		}

	case yaml.ScalarNode:
		if strings.Contains(n.Value, "\n") {
			return
		}

		target, ok := linkTarget(n.Value)
		if !ok {
			return
		}

		*links = append(*links, protocol.DocumentLink{
			Range:   scalarTokenRange(n),
			Target:  protocol.DocumentURI(target),
			Tooltip: "Open " + target,
		})
	}
}

// linkTarget resolves a scalar to a browsable URL. Registry refs drop
// their :ref suffix before linking.
func linkTarget(value string) (string, bool) {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value, true
	}

	if !strings.HasPrefix(value, "buf.build/") {
		return "", false
	}

	ref := value
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		ref = ref[:i]
	}

	return "https://" + ref, true
}

// scalarTokenRange covers the scalar as written, quotes included.
func scalarTokenRange(n *yaml.Node) protocol.Range {
	length := len(n.Value)
	if n.Style == yaml.SingleQuotedStyle || n.Style == yaml.DoubleQuotedStyle {
		length += 2
	}

	return protocol.Range{
		Start: nodePosition(n.Line, n.Column),
		End:   nodePosition(n.Line, n.Column+length),
	}
}
