package form

import "sync"

// Keyword is a globally interned name-with-optional-namespace. Two keywords
// with the same (ns, name) are always the same *Keyword pointer, so equality
// is pointer identity (spec §3, §6).
type Keyword struct {
	NS   string
	Name string
}

func (k *Keyword) form() {}

var keywordPool = struct {
	sync.Mutex
	table map[string]*Keyword
}{table: make(map[string]*Keyword)}

// InternKeyword returns the canonical *Keyword for (ns, name), creating it
// on first use. Lookups for an already-interned keyword only need to hold
// the lock for a map read, mirroring rugo/modules' registry-with-mutex
// pattern.
func InternKeyword(ns, name string) *Keyword {
	key := ns + "/" + name
	keywordPool.Lock()
	defer keywordPool.Unlock()
	if kw, ok := keywordPool.table[key]; ok {
		return kw
	}
	kw := &Keyword{NS: ns, Name: name}
	keywordPool.table[key] = kw
	return kw
}

// String renders the keyword in Clojure surface syntax: :name or :ns/name.
func (k *Keyword) String() string {
	if k.NS == "" {
		return ":" + k.Name
	}
	return ":" + k.NS + "/" + k.Name
}
