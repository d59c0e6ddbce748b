package registry

import (
	"fmt"
	"maps"
	"sync"
)

// Data holds variables shared with every template plus variables scoped to
// individual template identifiers.
type Data struct {
	mu        sync.RWMutex
	shared    map[string]any
	templates map[string]map[string]any
}

// NewData creates an empty data store.
func NewData() *Data {
	return &Data{
		shared:    make(map[string]any),
		templates: make(map[string]map[string]any),
	}
}

// Add assigns data. targets may be nil (share with all templates), a
// template identifier, or a list of identifiers. Repeated adds for the same
// target merge, later keys winning.
func (d *Data) Add(data map[string]any, targets any) error {
	switch t := targets.(type) {
	case nil:
		d.ShareWithAll(data)
	case string:
		d.ShareWithSome(data, t)
	case []string:
		d.ShareWithSome(data, t...)
	default:
		return fmt.Errorf("%w: must be nil, a string or a list of strings, %T given", ErrInvalidTargets, targets)
	}
	return nil
}

// ShareWithAll merges data into the shared variables.
func (d *Data) ShareWithAll(data map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	maps.Copy(d.shared, data)
}

// ShareWithSome merges data into the variables of each listed template.
func (d *Data) ShareWithSome(data map[string]any, templates ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, name := range templates {
		vars, ok := d.templates[name]
		if !ok {
			vars = make(map[string]any, len(data))
			d.templates[name] = vars
		}
		maps.Copy(vars, data)
	}
}

// Get returns the shared variables overridden by the variables assigned to
// template. An empty template returns the shared variables only. The result
// is a fresh map the caller may mutate.
func (d *Data) Get(template string) map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]any, len(d.shared))
	maps.Copy(out, d.shared)
	if template == "" {
		return out
	}
	if vars, ok := d.templates[template]; ok {
		maps.Copy(out, vars)
	}
	return out
}
