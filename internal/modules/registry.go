package modules

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type namedModule struct {
	name   string
	module Module
}

// Registry starts and stops modules together. Modules are closed in reverse
// registration order.
type Registry struct {
	modules []namedModule
	wg      sync.WaitGroup
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a module under name.
func (r *Registry) Register(name string, m Module) {
	r.modules = append(r.modules, namedModule{name: name, module: m})
}

// Names lists the registered modules in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.modules))
	for i, m := range r.modules {
		names[i] = m.name
	}
	return names
}

// RunAll starts every module in its own goroutine.
func (r *Registry) RunAll(ctx context.Context) {
	for _, m := range r.modules {
		r.wg.Add(1)
		go m.module.Run(ctx, &r.wg)
	}
}

// CloseAll closes every module and waits for their Run calls to return.
func (r *Registry) CloseAll() error {
	var errs []error
	for i := len(r.modules) - 1; i >= 0; i-- {
		m := r.modules[i]
		if err := m.module.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s module: %w", m.name, err))
		}
	}
	r.wg.Wait()
	return errors.Join(errs...)
}
