package event

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-marketsim/internal/types"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// FiveDollarEvent is the name of the default scanner: the traded close falling below $5.
const FiveDollarEvent = "five_dollar_event"

// DefaultThreshold is the price the default scanner watches.
const DefaultThreshold = 5.0

// Registry maps strategy names to scanners.
type Registry interface {
	Register(scanner Scanner) error
	Get(name string) (Scanner, error)
	List() []string
	Remove(name string) error
}

// RegistryV1 is a Registry safe for concurrent use.
type RegistryV1 struct {
	scanners map[string]Scanner
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *RegistryV1 {
	return &RegistryV1{
		scanners: make(map[string]Scanner),
		mu:       sync.RWMutex{},
	}
}

// NewDefaultRegistry returns a registry holding the built in scanners.
func NewDefaultRegistry() *RegistryV1 {
	r := NewRegistry()

	// names are unique, registration cannot fail
	_ = r.Register(NewThresholdCross(FiveDollarEvent, types.FieldActualClose, DefaultThreshold))
	_ = r.Register(NewThresholdCross("adjusted_close_cross", types.FieldClose, DefaultThreshold))

	return r
}

// Register adds a scanner under its name.
func (r *RegistryV1) Register(scanner Scanner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := scanner.Name()
	if _, exists := r.scanners[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "event strategy %s already registered", name)
	}

	r.scanners[name] = scanner

	return nil
}

// Get returns the scanner registered under name.
func (r *RegistryV1) Get(name string) (Scanner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scanner, exists := r.scanners[name]
	if !exists {
		return nil, &errors.StrategyNotFoundError{Name: name, Available: r.names()}
	}

	return scanner, nil
}

// List returns the registered names, sorted.
func (r *RegistryV1) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.names()
}

func (r *RegistryV1) names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Remove deletes the scanner registered under name.
func (r *RegistryV1) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scanners[name]; !exists {
		return &errors.StrategyNotFoundError{Name: name, Available: r.names()}
	}

	delete(r.scanners, name)

	return nil
}
