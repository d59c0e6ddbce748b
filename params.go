package tektonik

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrParamNotFound is returned by Params.Get for unknown names.
var ErrParamNotFound = errors.New("tektonik: parameter not found")

// Params is the set of variables passed to a template render. Render hooks
// receive it before the template runs and may change it freely.
type Params struct {
	values map[string]any
}

// NewParams copies values into a new Params.
func NewParams(values map[string]any) *Params {
	p := &Params{values: make(map[string]any, len(values))}
	maps.Copy(p.values, values)
	return p
}

// Get returns a single value.
func (p *Params) Get(name string) (any, error) {
	value, ok := p.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrParamNotFound, name)
	}
	return value, nil
}

// Set stores a single value.
func (p *Params) Set(name string, value any) {
	p.values[name] = value
}

// Remove deletes a value. Removing a missing name is a no-op.
func (p *Params) Remove(name string) {
	delete(p.values, name)
}

// Exists reports whether name is set, even to nil.
func (p *Params) Exists(name string) bool {
	_, ok := p.values[name]
	return ok
}

// All returns a copy of every value.
func (p *Params) All() map[string]any {
	return maps.Clone(p.values)
}

// Keys returns the parameter names in sorted order.
func (p *Params) Keys() []string {
	return slices.Sorted(maps.Keys(p.values))
}

// Replace discards every value and stores values instead.
func (p *Params) Replace(values map[string]any) {
	p.values = make(map[string]any, len(values))
	maps.Copy(p.values, values)
}

// Merge stores values over the current ones, later keys winning.
func (p *Params) Merge(values map[string]any) {
	maps.Copy(p.values, values)
}

func (p *Params) Len() int {
	return len(p.values)
}

func (p *Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.values)
}

func (p *Params) UnmarshalJSON(data []byte) error {
	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("tektonik: decode params: %w", err)
	}
	p.values = values
	return nil
}
