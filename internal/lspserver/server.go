// Package lspserver implements a Language Server Protocol server for the
// UdonSharp static analyser.
//
// The server provides diagnostics for open .cs documents, mirroring the
// UdonSharp compiler's own acceptance rules, through the analysis engine
// in internal/engine. It advertises which rules could have a code fix but
// never computes one itself, per the specification's Non-goals.
//
// Transport: stdio only. Protocol: LSP types via internal/lsp/protocol,
// JSON-RPC via golang.org/x/exp/jsonrpc2.
package lspserver

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/jsonrpc2"

	protocol "github.com/project-sakanah/udonsharp-linter/internal/lsp/protocol"
	"github.com/project-sakanah/udonsharp-linter/internal/policy"
	"github.com/project-sakanah/udonsharp-linter/internal/rules"
	"github.com/project-sakanah/udonsharp-linter/internal/settings"
	"github.com/project-sakanah/udonsharp-linter/internal/version"
	"github.com/project-sakanah/udonsharp-linter/internal/workspace"

	"github.com/project-sakanah/udonsharp-linter/internal/engine"
)

const serverName = "udonsharp-linter"

// jsonNull is an explicit JSON null result. golang.org/x/exp/jsonrpc2
// treats (nil, nil) as "no response" for calls, so a handler returns this
// instead whenever the LSP result should be the JSON value null.
var jsonNull = json.RawMessage("null")

// Server is the UdonSharp LSP server: one workspace, one rule engine, one
// policy repository, wired together per spec.md §4.
type Server struct {
	conn   *jsonrpc2.Connection
	exitCh chan struct{}

	log            *logrus.Logger
	bundledDir     string // PolicyPacks directory
	bundledStubsDir string // Stubs/Generated directory

	repo *policy.Repository
	ws   *workspace.Manager
	eng  *engine.Engine

	mu              sync.Mutex // serializes settings swaps and reloads
	currentSettings settings.Settings
	codeActionsOn   bool
	workspaceRoot   string
}

// New constructs a Server over an already-loaded policy repository and
// rule registry, rooted at bundledDir (PolicyPacks) and bundledStubsDir
// (Stubs/Generated).
func New(log *logrus.Logger, repo *policy.Repository, reg *rules.Registry, bundledDir, bundledStubsDir string) *Server {
	return &Server{
		exitCh:          make(chan struct{}),
		log:             log,
		bundledDir:      bundledDir,
		bundledStubsDir: bundledStubsDir,
		repo:            repo,
		ws:              workspace.New(log),
		eng:             engine.New(repo, reg, log),
		currentSettings: settings.Default(),
	}
}

// RunStdio starts the LSP server on stdin/stdout. It blocks until the
// connection closes or ctx is cancelled.
func (s *Server) RunStdio(ctx context.Context) error {
	conn, err := jsonrpc2.Dial(ctx, stdioDialer{}, &serverBinder{server: s})
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-s.exitCh:
			_ = conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	return conn.Wait()
}

type serverBinder struct {
	server *Server
}

func (b *serverBinder) Bind(_ context.Context, conn *jsonrpc2.Connection) (jsonrpc2.ConnectionOptions, error) {
	b.server.conn = conn
	return jsonrpc2.ConnectionOptions{
		Framer:  jsonrpc2.HeaderFramer(),
		Handler: jsonrpc2.HandlerFunc(b.server.handle),
	}, nil
}

func (s *Server) handle(ctx context.Context, req *jsonrpc2.Request) (any, error) {
	switch req.Method {
	// Lifecycle
	case "initialize":
		return unmarshalAndCall(req, s.handleInitialize)
	case "initialized", "$/setTrace":
		return nil, nil //nolint:nilnil // LSP: notifications have no result
	case "shutdown":
		return jsonNull, nil
	case "exit":
		select {
		case <-s.exitCh:
		default:
			close(s.exitCh)
		}
		return nil, nil //nolint:nilnil // LSP: exit is a notification

	// Document sync
	case "textDocument/didOpen":
		return nil, unmarshalAndNotify(req, func(p *protocol.DidOpenTextDocumentParams) {
			s.handleDidOpen(ctx, p)
		})
	case "textDocument/didChange":
		return nil, unmarshalAndNotify(req, func(p *protocol.DidChangeTextDocumentParams) {
			s.handleDidChange(ctx, p)
		})
	case "textDocument/didSave":
		return nil, unmarshalAndNotify(req, func(p *protocol.DidSaveTextDocumentParams) {
			s.handleDidSave(ctx, p)
		})
	case "textDocument/didClose":
		return nil, unmarshalAndNotify(req, func(p *protocol.DidCloseTextDocumentParams) {
			s.handleDidClose(ctx, p)
		})

	// Language features: advertisement only, per the Non-goals — this
	// server never computes an edit.
	case "textDocument/codeAction":
		return jsonNull, nil

	// Workspace
	case "workspace/didChangeConfiguration":
		return nil, unmarshalAndNotify(req, func(p *protocol.DidChangeConfigurationParams) {
			s.handleDidChangeConfiguration(ctx, p)
		})

	// Custom methods, per spec.md §4.9/§6.
	case "udonsharp/rules/list":
		return s.handleRulesList()
	case "udonsharp/rules/documentation":
		return unmarshalAndCall(req, s.handleRuleDocumentation)
	case "udonsharp/server/status", "udonsharp/status":
		return s.handleServerStatus()

	default:
		return nil, jsonrpc2.NewError(int64(protocol.ErrorCodeMethodNotFound), "method not supported: "+req.Method)
	}
}

func unmarshalAndCall[T any](req *jsonrpc2.Request, fn func(*T) (any, error)) (any, error) {
	var params T
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, jsonrpc2.NewError(int64(protocol.ErrorCodeInvalidParams), err.Error())
		}
	}
	result, err := fn(&params)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return jsonNull, nil
	}
	raw, merr := json.Marshal(result)
	if merr != nil {
		return nil, merr
	}
	return json.RawMessage(raw), nil
}

func unmarshalAndNotify[T any](req *jsonrpc2.Request, fn func(*T)) error {
	var params T
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonrpc2.NewError(int64(protocol.ErrorCodeInvalidParams), err.Error())
		}
	}
	fn(&params)
	return nil
}

func lspNotify(ctx context.Context, conn *jsonrpc2.Connection, method string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return conn.Notify(ctx, method, json.RawMessage(raw))
}

// handleInitialize applies initializationOptions as the session's first
// settings snapshot and responds with server capabilities.
func (s *Server) handleInitialize(params *protocol.InitializeParams) (any, error) {
	s.log.WithField("client", clientInfoString(params)).Info("lsp: initialize")

	root := ""
	if len(params.WorkspaceFolders) > 0 {
		root = uriToPath(string(params.WorkspaceFolders[0].URI))
	} else if params.RootURI != nil {
		root = uriToPath(string(*params.RootURI))
	}

	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()

	payload, _ := extractSection(params.InitializationOptions, settings.ConfigKey)
	s.applySettings(payload, root)

	ver := version.RawVersion()

	caps := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.TextDocumentSyncKindFull,
			Save:      &protocol.SaveOptions{IncludeText: true},
		},
	}
	if s.codeActionsAdvertised() {
		caps.CodeActionProvider = &protocol.CodeActionOptions{
			CodeActionKinds: []string{"quickfix"},
		}
	}

	return &protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo:   protocol.ServerInfo{Name: serverName, Version: ver},
	}, nil
}

// applySettings resolves payload into a Settings snapshot, rebuilds the
// policy repository and workspace references when needed, and swaps in
// the new snapshot — all serialized behind s.mu, per spec.md §4.9/§5.
func (s *Server) applySettings(payload map[string]any, workspaceRoot string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := settings.Resolve(payload, workspaceRoot)
	changed := settings.Changed(s.currentSettings, next)
	s.currentSettings = next
	s.codeActionsOn = next.CodeActionsEnabled

	extra := append([]string(nil), next.PolicyPackPaths...)
	s.repo.Reload(policy.Load(s.bundledDir, extra, s.log))

	if changed {
		s.ws.Initialise(next, s.bundledStubsDir)
	}
}

func (s *Server) codeActionsAdvertised() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codeActionsOn
}

func (s *Server) settingsSnapshot() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSettings
}

// handleDidOpen parses the opened document and publishes diagnostics.
func (s *Server) handleDidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) {
	uri := string(params.TextDocument.URI)
	doc := s.ws.OpenOrUpdate(uri, params.TextDocument.Text)
	s.publishDiagnostics(ctx, doc)
}

// handleDidChange re-parses on full-sync change and re-publishes.
func (s *Server) handleDidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) {
	uri := string(params.TextDocument.URI)
	if len(params.ContentChanges) == 0 {
		return
	}
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	doc := s.ws.OpenOrUpdate(uri, text)
	s.publishDiagnostics(ctx, doc)
}

// handleDidSave re-lints on save: with the client's full text when it is
// included, otherwise the stored document as it stands.
func (s *Server) handleDidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) {
	uri := string(params.TextDocument.URI)
	if params.Text == nil || *params.Text == "" {
		if doc := s.ws.Get(uri); doc != nil {
			s.publishDiagnostics(ctx, doc)
		}
		return
	}
	doc := s.ws.OpenOrUpdate(uri, *params.Text)
	s.publishDiagnostics(ctx, doc)
}

// handleDidClose drops the document and publishes an empty diagnostic set
// for its URI, per spec.md §4.8/§8 ("closing a document produces exactly
// one empty-diagnostic publish for its URI").
func (s *Server) handleDidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) {
	uri := string(params.TextDocument.URI)
	s.ws.Remove(uri)
	clearDiagnostics(ctx, s.conn, uri)
}

func clientInfoString(params *protocol.InitializeParams) string {
	if params == nil || params.ProcessID == nil {
		return "unknown"
	}
	return "pid " + strconv.FormatInt(int64(*params.ProcessID), 10)
}

// extractSection pulls the named key out of an arbitrary configuration
// value (initializationOptions or a didChangeConfiguration payload),
// tolerating both { "udonsharpLinter": {...} } and a bare {...} payload.
func extractSection(v any, key string) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if section, ok := m[key].(map[string]any); ok {
		return section, true
	}
	return m, true
}

// stdioDialer implements jsonrpc2.Dialer for stdin/stdout communication.
// It uses an io.Pipe intermediary so Close reliably interrupts a blocked
// read (closing os.Stdin directly does not unblock a concurrent read on
// every platform).
type stdioDialer struct{}

func (stdioDialer) Dial(_ context.Context) (io.ReadWriteCloser, error) {
	pr, pw := io.Pipe()
	go io.Copy(pw, os.Stdin) //nolint:errcheck // exits when pipe or stdin closes
	return &stdioRWC{pr: pr, pw: pw}, nil
}

// stdioRWC reads from an io.Pipe fed by os.Stdin and writes to os.Stdout.
// Nothing else in this process may touch stdout while the connection is
// open, per spec.md §5's "stdout is reserved for wire framing".
type stdioRWC struct {
	pr *io.PipeReader
	pw *io.PipeWriter
}

func (s *stdioRWC) Read(p []byte) (int, error)  { return s.pr.Read(p) }
func (s *stdioRWC) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (s *stdioRWC) Close() error {
	_ = s.pw.Close()
	return s.pr.Close()
}
