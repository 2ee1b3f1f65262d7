// Package ns is the namespace manager (spec §3 "Namespace entity", §4.2):
// per-namespace var table, aliases, imports, refers; namespace switching;
// circular-load detection via an explicit load stack.
package ns

import (
	"sync"

	"github.com/rubiojr/nettle/internal/errs"
)

// VarInfo describes one var registered in a namespace.
type VarInfo struct {
	IsPublic bool
	IsMacro  bool
	Type     string // host type name, empty if unknown/dynamic
}

// Namespace is a single Clojure namespace's compile-time bookkeeping.
type Namespace struct {
	Name     string
	Vars     map[string]*VarInfo
	Aliases  map[string]string // short alias -> full namespace name
	Imports  map[string]bool   // imported host type names
	Refers   map[string]string // referred symbol -> source namespace
	Required []string          // namespaces required by this one, in order
}

func newNamespace(name string) *Namespace {
	return &Namespace{
		Name:    name,
		Vars:    make(map[string]*VarInfo),
		Aliases: make(map[string]string),
		Imports: make(map[string]bool),
		Refers:  make(map[string]string),
	}
}

// AssemblyRef is the auxiliary registry entry the emitter's file prelude
// consults to synthesize `using` declarations (spec §6).
type AssemblyRef struct {
	HostNamespace string
	ClassName     string
}

// Registry is the process-wide namespace manager. Mutations occur only
// during compilation; a single instance is shared across a compilation run
// (spec §9's guidance on global mutable state), so all methods are
// goroutine-safe even though a single compilation unit is analyzed on one
// goroutine.
type Registry struct {
	mu         sync.Mutex
	namespaces map[string]*Namespace
	current    string
	loadStack  []string
	loading    map[string]bool
}

// NewRegistry returns an empty namespace registry with no current namespace.
func NewRegistry() *Registry {
	return &Registry{namespaces: make(map[string]*Namespace), loading: make(map[string]bool)}
}

// SwitchTo upserts name and makes it current, returning its Namespace.
func (r *Registry) SwitchTo(name string) *Namespace {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.namespaces[name]
	if !ok {
		n = newNamespace(name)
		r.namespaces[name] = n
	}
	r.current = name
	return n
}

// Current returns the current namespace, or nil if none has been selected.
func (r *Registry) Current() *Namespace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == "" {
		return nil
	}
	return r.namespaces[r.current]
}

// Get looks up a namespace by name without making it current.
func (r *Registry) Get(name string) (*Namespace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.namespaces[name]
	return n, ok
}

// AddAlias records alias -> targetNS in the current namespace.
func (r *Registry) AddAlias(alias, targetNS string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.currentLocked(); cur != nil {
		cur.Aliases[alias] = targetNS
	}
}

// AddRefer records symbol -> sourceNS (a :refer entry) in the current
// namespace.
func (r *Registry) AddRefer(symbol, sourceNS string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.currentLocked(); cur != nil {
		cur.Refers[symbol] = sourceNS
	}
}

// Import records an imported host type name in the current namespace.
func (r *Registry) Import(typeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.currentLocked(); cur != nil {
		cur.Imports[typeName] = true
	}
}

// Require records that the current namespace requires targetNS.
func (r *Registry) Require(targetNS string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.currentLocked(); cur != nil {
		cur.Required = append(cur.Required, targetNS)
	}
}

// DefineVar registers (or overwrites) a var in the current namespace.
func (r *Registry) DefineVar(name string, info VarInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.currentLocked(); cur != nil {
		cur.Vars[name] = &info
	}
}

// ResolveAlias expands alias to its target namespace if the current
// namespace has registered it, otherwise returns alias unchanged (it may
// already be a full namespace name).
func (r *Registry) ResolveAlias(alias string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.currentLocked(); cur != nil {
		if full, ok := cur.Aliases[alias]; ok {
			return full
		}
	}
	return alias
}

func (r *Registry) currentLocked() *Namespace {
	if r.current == "" {
		return nil
	}
	return r.namespaces[r.current]
}

// BeginLoad pushes name onto the load stack, failing with a
// *errs.NamespaceError if name is already on the stack (a cycle).
func (r *Registry) BeginLoad(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loading[name] {
		return &errs.NamespaceError{NS: name, Msg: "circular dependency: " + cycleDescription(r.loadStack, name)}
	}
	r.loading[name] = true
	r.loadStack = append(r.loadStack, name)
	return nil
}

// EndLoad pops name off the load stack.
func (r *Registry) EndLoad(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loading, name)
	for i := len(r.loadStack) - 1; i >= 0; i-- {
		if r.loadStack[i] == name {
			r.loadStack = append(r.loadStack[:i], r.loadStack[i+1:]...)
			return
		}
	}
}

func cycleDescription(stack []string, closing string) string {
	out := closing
	for i := len(stack) - 1; i >= 0; i-- {
		out = stack[i] + " -> " + out
		if stack[i] == closing {
			break
		}
	}
	return out
}

// Export produces the auxiliary namespace registry the emitter's file
// prelude uses to synthesize `using` declarations (spec §6): every known
// namespace mapped to its synthesized host namespace/class pair.
func (r *Registry) Export() map[string]AssemblyRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]AssemblyRef, len(r.namespaces))
	for name := range r.namespaces {
		hostNS, class := MangleNamespace(name)
		out[name] = AssemblyRef{HostNamespace: hostNS, ClassName: class}
	}
	return out
}
