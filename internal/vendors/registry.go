package vendors

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/devprompt/devprompt/internal/interview"
)

// Registry maps vendor identifiers to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry pre-populated with the built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(&CursorAdapter{})
	r.Register(&ContinueAdapter{})
	r.Register(&AiderAdapter{})
	r.Register(&WindsurfAdapter{})
	return r
}

// Register adds an adapter, replacing any existing adapter with the same
// name.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Get returns the adapter for name, or ErrUnknownVendor.
func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownVendor, name, r.List())
	}
	return a, nil
}

// List returns registered vendor ids in alphabetical order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write formats the prompt with the named adapter and writes the artifact
// into dir, returning the full output path.
func (r *Registry) Write(dir, name, prompt string, snap interview.Snapshot) (string, error) {
	a, err := r.Get(name)
	if err != nil {
		return "", err
	}

	content, err := a.Format(prompt, snap)
	if err != nil {
		return "", fmt.Errorf("formatting for %s: %w", a.Name(), err)
	}

	path := filepath.Join(dir, a.OutputFilename())
	if parent := filepath.Dir(path); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
