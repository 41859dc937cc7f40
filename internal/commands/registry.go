package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry resolves command names and aliases to their implementations.
// Aliases are kept in a separate index so All can enumerate each command
// exactly once.
type Registry struct {
	mu      sync.RWMutex
	primary map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		primary: make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds a command under its name and every alias. Any collision
// with an already-registered name or alias is an error.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range append([]string{c.Name()}, c.Aliases()...) {
		if r.taken(n) {
			return fmt.Errorf("command name taken: %s", n)
		}
	}

	r.primary[c.Name()] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = c.Name()
	}
	return nil
}

func (r *Registry) taken(name string) bool {
	if _, ok := r.primary[name]; ok {
		return true
	}
	_, ok := r.aliases[name]
	return ok
}

// Find resolves a command by primary name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if primary, ok := r.aliases[name]; ok {
		name = primary
	}
	cmd, ok := r.primary[name]
	return cmd, ok
}

// All returns every registered command once, sorted by primary name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.primary))
	for _, cmd := range r.primary {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// DefaultRegistry is where init-time registrations land.
var DefaultRegistry = NewRegistry()

// Register adds a command to DefaultRegistry. A collision is a programming
// error, so it panics rather than returning.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
