package node

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// ErrUnknownNode is returned by New for an unregistered identifier.
var ErrUnknownNode = errors.New("node: unknown node type")

// Factory builds a node instance from its persisted properties.
type Factory func(props map[string]any) (Node, error)

// Registry maps node identifiers to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	aliases   map[string]string
	logger    *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		factories: make(map[string]Factory),
		aliases:   make(map[string]string),
		logger:    logger,
	}
}

// Register adds a factory. Registering the same identifier twice panics.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", id))
	}
	if _, exists := r.aliases[id]; exists {
		panic(fmt.Sprintf("node type '%s' already registered as an alias", id))
	}
	r.logger.Debug("registering node type", zap.String("id", id))
	r.factories[id] = f
}

// RegisterAlias makes alias resolve to an already registered identifier.
func (r *Registry) RegisterAlias(alias, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[id]; !ok {
		panic(fmt.Sprintf("alias '%s' targets unregistered node type '%s'", alias, id))
	}
	if _, exists := r.factories[alias]; exists {
		panic(fmt.Sprintf("alias '%s' collides with a node type", alias))
	}
	if _, exists := r.aliases[alias]; exists {
		panic(fmt.Sprintf("alias '%s' already registered", alias))
	}
	r.logger.Debug("registering node alias", zap.String("alias", alias), zap.String("id", id))
	r.aliases[alias] = id
}

// Unregister removes a node type and every alias pointing at it.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, id)
	for alias, target := range r.aliases {
		if target == id {
			delete(r.aliases, alias)
		}
	}
	r.logger.Debug("unregistered node type", zap.String("id", id))
}

// Resolve maps an identifier or alias to the registered identifier.
func (r *Registry) Resolve(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[id]; ok {
		id = target
	}
	_, ok := r.factories[id]
	return id, ok
}

// New builds a node instance by identifier or alias.
func (r *Registry) New(id string, props map[string]any) (Node, error) {
	resolved, ok := r.Resolve(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	r.mu.RLock()
	f := r.factories[resolved]
	r.mu.RUnlock()

	n, err := f(props)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", resolved, err)
	}
	return n, nil
}

// IDs returns the registered identifiers in sorted order. Aliases are not
// included.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Aliases returns the aliases of id in sorted order.
func (r *Registry) Aliases(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for alias, target := range r.aliases {
		if target == id {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// DecodeProps decodes persisted node properties into out, a pointer to a
// struct with mapstructure tags. Values are converted weakly (a "2" string
// fills an int field) and unknown keys are rejected.
func DecodeProps(props map[string]any, out any) error {
	if len(props) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(props); err != nil {
		return fmt.Errorf("decode properties: %w", err)
	}
	return nil
}
