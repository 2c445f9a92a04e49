package rules

import (
	"fmt"
	"sort"
	"sync"
)

// Registry tracks which Family implementation owns each rule code. The
// Rule Engine uses it to decide which families to run for a requested set
// of enabled codes, without needing to know the family boundaries itself.
type Registry struct {
	mu       sync.RWMutex
	families []Family
	byCode   map[string]Family
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byCode: make(map[string]Family)}
}

// Register adds a family and indexes its codes.
// Panics if any of the family's codes is already owned by another family,
// since that would make dispatch ambiguous.
func (r *Registry) Register(f Family) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, code := range f.Codes() {
		if existing, ok := r.byCode[code]; ok {
			panic(fmt.Sprintf("rule %q already registered by a different family (%T vs %T)", code, existing, f))
		}
	}
	r.families = append(r.families, f)
	for _, code := range f.Codes() {
		r.byCode[code] = f
	}
}

// FamilyFor returns the family that owns code, or nil if code is unknown.
func (r *Registry) FamilyFor(code string) Family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byCode[code]
}

// Has reports whether code is owned by a registered family.
func (r *Registry) Has(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byCode[code]
	return ok
}

// Families returns every registered family.
func (r *Registry) Families() []Family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Family, len(r.families))
	copy(out, r.families)
	return out
}

// Codes returns every registered rule code, sorted.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FamiliesFor returns the distinct families that own at least one of the
// given codes, preserving no particular order guarantee beyond
// de-duplication. A family that emits several codes is only returned once
// even if several of its codes are requested, since Check analyzes the
// whole document regardless of which of its codes are enabled.
func (r *Registry) FamiliesFor(codes []string) []Family {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Family]bool)
	var out []Family
	for _, code := range codes {
		f, ok := r.byCode[code]
		if !ok || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// defaultRegistry is the process-wide registry that family packages
// populate from their init() functions.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a family to the default registry.
func Register(f Family) { defaultRegistry.Register(f) }
