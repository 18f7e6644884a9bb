package action

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is the fixed table from Action to Handler.  It is built once at
// startup and only read afterwards.
type Registry struct {
	handlers map[Action]Handler
}

// NewRegistry returns an error when handlers does not cover every value of
// AllActions, or names an action outside it.
func NewRegistry(handlers map[Action]Handler) (*Registry, error) {
	known := make(map[Action]bool, len(handlers))
	var missing []string
	for _, a := range AllActions() {
		known[a] = true
		if handlers[a] == nil {
			missing = append(missing, string(a))
		}
	}
	var extra []string
	for a := range handlers {
		if !known[a] {
			extra = append(extra, string(a))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("registry: no handler for %s", strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, fmt.Errorf("registry: unknown actions %s", strings.Join(extra, ", "))
	}

	r := &Registry{handlers: make(map[Action]Handler, len(handlers))}
	for a, h := range handlers {
		r.handlers[a] = h
	}
	return r, nil
}

// Lookup finds the handler for a.
func (r *Registry) Lookup(a Action) (Handler, bool) {
	h, ok := r.handlers[a]
	return h, ok
}
