package generator

import (
	"sort"
	"sync"
)

// Handler compiles one category of resolved nodes into Zod source.
// Handlers are tried in descending priority order; the first one whose
// predicates match wins. User-registered handlers share one ordered list
// with the built-ins and can fully shadow them with a higher priority.
type Handler interface {
	// Name identifies the handler in logs and errors.
	Name() string

	// Priority orders dispatch; higher runs first.
	Priority() int

	// CanHandleType reports whether the handler covers the inferred type.
	CanHandleType(t string) bool

	// CanHandleNode allows matching on validation content, not just the
	// inferred type.
	CanHandleNode(node *ResolvedValidationSet) bool

	// Compile emits the builder-chain expression for the node, without
	// fragment, nullable, or optional suffixes (the compiler applies
	// those).
	Compile(ctx *CompileContext, node *ResolvedValidationSet) (string, error)
}

// Handler priorities. Higher runs first; use 100 intervals so user
// handlers can slot between or above the built-ins.
const (
	PriorityEnum      = 300
	PriorityReference = 200
	PriorityUniversal = 100
)

// Registry holds the ordered handler list.
type Registry struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewRegistry creates a registry preloaded with the built-in handlers.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(&EnumHandler{})
	r.Register(&ReferenceHandler{})
	r.Register(&UniversalHandler{})
	return r
}

// Register adds a handler and re-sorts by descending priority. Stable, so
// earlier registration wins among equal priorities.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
	sort.SliceStable(r.handlers, func(i, j int) bool {
		return r.handlers[i].Priority() > r.handlers[j].Priority()
	})
}

// Match returns the highest-priority handler matching the node, or nil.
func (r *Registry) Match(node *ResolvedValidationSet) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.handlers {
		if h.CanHandleType(node.InferredType) && h.CanHandleNode(node) {
			return h
		}
	}
	return nil
}

// Handlers returns the handlers in dispatch order.
func (r *Registry) Handlers() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handler, len(r.handlers))
	copy(out, r.handlers)
	return out
}
