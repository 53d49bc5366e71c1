package lsp

import (
	"context"
	"errors"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tanglin/bufyaml/validate"
)

// publishDiagnostics runs the validator over the document and pushes
// the findings. A rate-limited run keeps the client's previous
// diagnostics rather than clearing them.
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	findings, err := s.validator.Validate(ctx, URIToPath(doc.URI), []byte(doc.Content))
	if err != nil {
		if errors.Is(err, validate.ErrRateLimited) {
			return
		}

		s.logger.Warn("Validator failed", zap.Error(err))

		return
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(findings))
	for _, d := range findings {
		diagnostics = append(diagnostics, convertDiagnostic(d))
	}

	err = s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version), //nolint:gosec // LSP version numbers are always non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("Failed to publish diagnostics", zap.Error(err))
	}
}

// convertDiagnostic converts a validator finding to an LSP diagnostic.
func convertDiagnostic(d validate.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      toZeroBased(d.StartLine),
				Character: toZeroBased(d.StartColumn),
			},
			End: protocol.Position{
				Line:      toZeroBased(d.EndLine),
				Character: toZeroBased(d.EndColumn),
			},
		},
		Severity: convertSeverity(d.Severity()),
		Code:     d.Type,
		Source:   "bufyaml",
		Message:  d.Message,
	}
}

// convertSeverity converts validator severity to LSP severity.
func convertSeverity(sev validate.Severity) protocol.DiagnosticSeverity {
	if sev == validate.SeverityError {
		return protocol.DiagnosticSeverityError
	}

	return protocol.DiagnosticSeverityWarning
}

// toZeroBased converts the validator's 1-based coordinates to LSP's
// 0-based ones.
func toZeroBased(n int) uint32 {
	if n < 1 {
		return 0
	}

	return uint32(n - 1) //nolint:gosec // G115: values are small line numbers
}
