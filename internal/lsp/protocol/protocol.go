// Package protocol holds the subset of LSP 3.17 wire types the server
// actually speaks: lifecycle, document synchronization, and diagnostics
// publishing, plus the three custom udonsharp/* request shapes. It is a
// plain typed layer over encoding/json, not a generated client.
package protocol

// DocumentUri is an LSP document URI (file:// or untitled:).
type DocumentUri string

// URI is a generic LSP URI, used for help/documentation links.
type URI string

// ErrorCode is a JSON-RPC / LSP error code.
type ErrorCode int64

const (
	ErrorCodeInvalidRequest ErrorCode = -32600
	ErrorCodeMethodNotFound ErrorCode = -32601
	ErrorCodeInvalidParams  ErrorCode = -32602
	ErrorCodeInternalError  ErrorCode = -32603
)

// Position is a zero-based line/character position, per the LSP spec.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a half-open [Start, End) span.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI DocumentUri `json:"uri"`
}

// VersionedTextDocumentIdentifier additionally carries the document's
// edit-version number.
type VersionedTextDocumentIdentifier struct {
	URI     DocumentUri `json:"uri"`
	Version int32       `json:"version"`
}

// TextDocumentItem is the full text-document payload sent on didOpen.
type TextDocumentItem struct {
	URI        DocumentUri `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int32       `json:"version"`
	Text       string      `json:"text"`
}

// TextDocumentContentChangeEvent is one incremental-or-full change. The
// server only advertises TextDocumentSyncKindFull, so Text always holds
// the whole new document content and Range is unused.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// DidOpenTextDocumentParams is textDocument/didOpen's params.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams is textDocument/didChange's params.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// DidSaveTextDocumentParams is textDocument/didSave's params.
type DidSaveTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         *string                `json:"text,omitempty"`
}

// DidCloseTextDocumentParams is textDocument/didClose's params.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// DidChangeConfigurationParams is workspace/didChangeConfiguration's params.
// Settings arrives as an arbitrary JSON value scoped under the client's
// configuration section keys (this server reads the "udonsharpLinter" key).
type DidChangeConfigurationParams struct {
	Settings any `json:"settings"`
}

// InitializeParams is the initialize request's params, trimmed to the
// fields this server reads.
type InitializeParams struct {
	ProcessID             *int32         `json:"processId,omitempty"`
	RootURI               *DocumentUri   `json:"rootUri,omitempty"`
	InitializationOptions any            `json:"initializationOptions,omitempty"`
	WorkspaceFolders      []WorkspaceFolder `json:"workspaceFolders,omitempty"`
}

// WorkspaceFolder is one root folder offered by the client at initialize.
type WorkspaceFolder struct {
	URI  DocumentUri `json:"uri"`
	Name string      `json:"name"`
}

// TextDocumentSyncKind selects how document changes are communicated.
type TextDocumentSyncKind int

const (
	TextDocumentSyncKindNone        TextDocumentSyncKind = 0
	TextDocumentSyncKindFull        TextDocumentSyncKind = 1
	TextDocumentSyncKindIncremental TextDocumentSyncKind = 2
)

// SaveOptions controls whether didSave includes the full text.
type SaveOptions struct {
	IncludeText bool `json:"includeText"`
}

// TextDocumentSyncOptions is the server's advertised sync behaviour.
type TextDocumentSyncOptions struct {
	OpenClose bool                 `json:"openClose"`
	Change    TextDocumentSyncKind `json:"change"`
	Save      *SaveOptions         `json:"save,omitempty"`
}

// CodeActionOptions advertises which code-action kinds the server may
// return. Per the specification's Non-goals, the server never computes
// fixes; this is advertisement only, gated on the resolved
// codeActionsEnabled setting.
type CodeActionOptions struct {
	CodeActionKinds []string `json:"codeActionKinds,omitempty"`
}

// ServerCapabilities is the capability set returned from initialize. It
// carries no pull-diagnostics entry: this server only ever pushes via
// publishDiagnostics.
type ServerCapabilities struct {
	TextDocumentSync   *TextDocumentSyncOptions `json:"textDocumentSync,omitempty"`
	CodeActionProvider *CodeActionOptions        `json:"codeActionProvider,omitempty"`
}

// ServerInfo names the server and its version in the initialize result.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the initialize request's response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// DiagnosticSeverity is the LSP severity enum: Error=1, Warning=2,
// Information=3, Hint=4.
type DiagnosticSeverity int

const (
	DiagnosticSeverityError       DiagnosticSeverity = 1
	DiagnosticSeverityWarning     DiagnosticSeverity = 2
	DiagnosticSeverityInformation DiagnosticSeverity = 3
	DiagnosticSeverityHint        DiagnosticSeverity = 4
)

// CodeDescription links a diagnostic to further documentation.
type CodeDescription struct {
	Href URI `json:"href"`
}

// Diagnostic is one wire-shape diagnostic entry, per spec.md §4.8.
type Diagnostic struct {
	Range           Range              `json:"range"`
	Severity        DiagnosticSeverity `json:"severity"`
	Code            string             `json:"code"`
	Source          string             `json:"source"`
	Message         string             `json:"message"`
	CodeDescription *CodeDescription   `json:"codeDescription,omitempty"`
}

// PublishDiagnosticsParams is textDocument/publishDiagnostics' params.
type PublishDiagnosticsParams struct {
	URI         DocumentUri  `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// RuleListEntry is one element of udonsharp/rules/list's response.
type RuleListEntry struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Category        string            `json:"category"`
	DefaultSeverity string            `json:"defaultSeverity"`
	Description     string            `json:"description"`
	HelpLink        string            `json:"helpLink,omitempty"`
	HasCodeFix      bool              `json:"hasCodeFix"`
	ProfileSeverity map[string]string `json:"profileSeverity,omitempty"`
}

// RuleDocumentationParams is udonsharp/rules/documentation's params.
type RuleDocumentationParams struct {
	RuleID string `json:"ruleId"`
	Locale string `json:"locale"`
}

// RuleDocumentationResult is udonsharp/rules/documentation's response.
type RuleDocumentationResult struct {
	ID       string `json:"id"`
	Locale   string `json:"locale"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// ServerStatusResult is udonsharp/server/status's response.
type ServerStatusResult struct {
	Profile            string `json:"profile"`
	DisabledRuleCount  int    `json:"disabledRuleCount"`
	TotalRuleCount     int    `json:"totalRuleCount"`
	ServerVersion      string `json:"serverVersion"`
}
