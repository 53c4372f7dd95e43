package constraint

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	grammars   = map[string]func() (Compiler, error){}
)

// RegisterGrammar makes a grammar available by name. It panics on duplicate names.
func RegisterGrammar(name string, constructor func() (Compiler, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, old := grammars[name]; old {
		panic(fmt.Sprintf("trying to register two constraint grammars with same name: %s", name))
	}
	if constructor == nil {
		panic(fmt.Sprintf("cannot register a nil constructor for grammar: %s", name))
	}
	grammars[name] = constructor
}

// NewCompiler constructs the compiler registered under name.
func NewCompiler(name string) (Compiler, error) {
	registryMu.RLock()
	constructor, ok := grammars[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown constraint grammar %q, registered: %v", name, Grammars())
	}
	return constructor()
}

// Grammars returns the sorted names of every registered grammar.
func Grammars() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
