// Package lsp implements a Language Server Protocol server for buf
// YAML configuration files.
package lsp

import (
	"context"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/analysis"
	"github.com/tanglin/bufyaml/validate"
)

// Server implements the LSP Server interface for buf config files.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// Completion docs toggle from tool settings
	docsEnabled bool

	// External validator behind its content-hash cache
	validator *validate.Validator

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// Document is an open document and the analyzer bound to its declared
// config version.
type Document struct {
	URI      protocol.DocumentURI
	Version  int32
	Content  string
	Analyzer *analysis.Analyzer
}

// NewServer creates a new LSP server using the given tool settings.
func NewServer(client protocol.Client, logger *zap.Logger, cfg bufyaml.Config) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		client:      client,
		logger:      logger,
		documents:   make(map[protocol.DocumentURI]*Document),
		docsEnabled: cfg.Completion.DocsEnabled(),
		validator:   validate.NewValidator(cfg.Validator, logger),
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize")

	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
		s.logger.Info("Workspace root (from RootPath)", zap.String("root", s.workspaceRoot))
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{IncludeText: false},
			},
			// Hover shows the schema doc line for the key at the cursor
			HoverProvider: true,
			// Completion support
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{":", "-", " "},
				ResolveProvider:   false,
			},
			// Outline view
			DocumentSymbolProvider: true,
			// Registry references and URLs
			DocumentLinkProvider: &protocol.DocumentLinkOptions{
				ResolveProvider: false,
			},
			// Block folding
			FoldingRangeProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "bufyaml-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	doc := &Document{
		URI:      params.TextDocument.URI,
		Version:  params.TextDocument.Version,
		Content:  params.TextDocument.Text,
		Analyzer: analyzerFor(params.TextDocument.Text),
	}

	s.mu.Lock()
	s.documents[params.TextDocument.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Debug("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
		doc.Analyzer = analyzerFor(doc.Content)
	}

	s.mu.Unlock()

	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear diagnostics for closed document
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications. Saving
// revalidates; unchanged content is served from the cache.
func (s *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Info("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	if doc, ok := s.getDocument(params.TextDocument.URI); ok {
		s.publishDiagnostics(ctx, doc)
	}

	return nil
}

// getDocument returns a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}

// analyzerFor picks the analyzer from the document's declared version
// line, falling back to the default schema for unknown or missing
// versions.
func analyzerFor(text string) *analysis.Analyzer {
	for _, line := range strings.Split(text, "\n") {
		rest, ok := strings.CutPrefix(line, "version:")
		if !ok {
			continue
		}

		schema, err := bufyaml.SchemaFor(strings.Trim(strings.TrimSpace(rest), `"'`))
		if err != nil {
			break
		}

		return analysis.NewAnalyzer(schema)
	}

	return analysis.NewAnalyzer(nil)
}
