// Package workspace owns the one logical compilation project a server
// session analyzes: the open-document set and the resolved reference
// list, serializing mutation against concurrent analysis reads per the
// specification's concurrency model.
package workspace

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/project-sakanah/udonsharp-linter/internal/csharp"
	"github.com/project-sakanah/udonsharp-linter/internal/references"
	"github.com/project-sakanah/udonsharp-linter/internal/settings"
)

// Document is one open file's latest parsed state.
type Document struct {
	URI         string
	Text        string
	File        *csharp.File
	ParseErrors []error
}

// Project is an immutable snapshot of the compilation context: the
// document set, the resolved references, and the settings that produced
// them. Analyses read one Project for their whole run; a concurrent
// mutation never alters it in place, only replaces the Manager's pointer.
type Project struct {
	Documents  map[string]*Document
	References []references.Reference
	Settings   settings.Settings
}

// Manager serializes mutation behind mu while allowing lock-free reads of
// the current snapshot, per spec.md §4.5/§5.
type Manager struct {
	mu      sync.Mutex
	current atomic.Pointer[Project]
	log     *logrus.Logger
}

// New creates an empty Manager. Call Initialise before first use.
func New(log *logrus.Logger) *Manager {
	m := &Manager{log: log}
	m.current.Store(&Project{Documents: map[string]*Document{}})
	return m
}

// Current returns the latest immutable snapshot.
func (m *Manager) Current() *Project {
	return m.current.Load()
}

// Get returns the latest document handle for uri, or nil.
func (m *Manager) Get(uri string) *Document {
	return m.Current().Documents[uri]
}

// Initialise rebuilds the project with freshly resolved references for s,
// preserving the text of already-open documents by re-parsing them
// against the new project, per spec.md §4.5.
func (m *Manager) Initialise(s settings.Settings, bundledStubsDir string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	refs := references.Resolve(s, bundledStubsDir, m.log)
	prev := m.current.Load()

	docs := make(map[string]*Document, len(prev.Documents))
	for uri, d := range prev.Documents {
		docs[uri] = parseDocument(uri, d.Text)
	}

	m.current.Store(&Project{Documents: docs, References: refs, Settings: s})
}

// OpenOrUpdate inserts or replaces a document's text and returns its new
// handle, per spec.md §4.5. Identity of other documents in the project is
// preserved (only a copy-on-write of the map itself, not every entry).
func (m *Manager) OpenOrUpdate(uri, text string) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.current.Load()
	doc := parseDocument(uri, text)

	docs := make(map[string]*Document, len(prev.Documents)+1)
	for k, v := range prev.Documents {
		docs[k] = v
	}
	docs[uri] = doc

	m.current.Store(&Project{Documents: docs, References: prev.References, Settings: prev.Settings})
	return doc
}

// Remove drops a document from the project, per spec.md §4.5.
func (m *Manager) Remove(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.current.Load()
	if _, ok := prev.Documents[uri]; !ok {
		return
	}
	docs := make(map[string]*Document, len(prev.Documents))
	for k, v := range prev.Documents {
		if k != uri {
			docs[k] = v
		}
	}
	m.current.Store(&Project{Documents: docs, References: prev.References, Settings: prev.Settings})
}

func parseDocument(uri, text string) *Document {
	file, errs := csharp.ParseFile(uri, []byte(text))
	return &Document{URI: uri, Text: text, File: file, ParseErrors: errs}
}
