package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FoldingRanges handles textDocument/foldingRange requests.
// Every key whose value block spans extra lines folds, as does each
// multi-line sequence entry.
func (s *Server) FoldingRanges(_ context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	s.logger.Debug("FoldingRanges",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	root := documentRoot(doc.Content)
	if root == nil {
		return nil, nil
	}

	var ranges []protocol.FoldingRange

	collectFolds(root, &ranges)

	return ranges, nil
}

func collectFolds(n *yaml.Node, ranges *[]protocol.FoldingRange) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]

			if end := nodeEndLine(value); end > key.Line {
				*ranges = append(*ranges, protocol.FoldingRange{
					StartLine: uint32(key.Line - 1), //nolint:gosec
					EndLine:   uint32(end - 1),      //nolint:gosec
					Kind:      protocol.RegionFoldingRange,
				})
			}

			collectFolds(value, ranges)
		}

	case yaml.SequenceNode:
		for _, item := range n.Content {
			if end := nodeEndLine(item); end > item.Line {
				*ranges = append(*ranges, protocol.FoldingRange{
					StartLine: uint32(item.Line - 1), //nolint:gosec
					EndLine:   uint32(end - 1),       //nolint:gosec
					Kind:      protocol.RegionFoldingRange,
				})
			}

			collectFolds(item, ranges)
		}
	}
}
