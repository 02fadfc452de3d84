package family

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateFamily is returned when a family name is registered twice.
var ErrDuplicateFamily = errors.New("family already registered")

// ErrUnknownFamily is returned when a family name is not registered.
var ErrUnknownFamily = errors.New("unknown family")

// Registry holds families by name.
type Registry struct {
	families map[string]*Family
	mutex    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		families: make(map[string]*Family),
	}
}

// Register validates f and adds it to the registry.
func (r *Registry) Register(f *Family) error {
	if err := f.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.families[f.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFamily, f.Name)
	}
	r.families[f.Name] = f
	return nil
}

// Get returns the family registered under name.
func (r *Registry) Get(name string) (*Family, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	f, ok := r.families[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, name)
	}
	return f, nil
}

// Names returns the registered family names in sorted order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Families returns the registered families sorted by name.
func (r *Registry) Families() []*Family {
	names := r.Names()

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*Family, 0, len(names))
	for _, name := range names {
		out = append(out, r.families[name])
	}
	return out
}

// Len returns the number of registered families.
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.families)
}

// InitAll builds the decode table of every family that does not have one
// yet. Families are built in parallel; each build runs on one goroutine.
func (r *Registry) InitAll(ctx context.Context, maxHamming int, opts ...Option) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, f := range r.Families() {
		if f.Initialized() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return f.Init(maxHamming, opts...)
		})
	}

	return g.Wait()
}

// Close releases every family's decode table.
func (r *Registry) Close() {
	for _, f := range r.Families() {
		f.Close()
	}
}
