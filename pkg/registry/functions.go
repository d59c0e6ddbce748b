package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Func is a named template helper. Callback is any non-nil Go func; the
// template engine decides how to invoke it.
type Func struct {
	Name     string
	Callback any
}

// NewFunc validates the helper name and callback.
func NewFunc(name string, callback any) (Func, error) {
	if !ValidFunctionName(name) {
		return Func{}, fmt.Errorf("%w: %q", ErrInvalidFunctionName, name)
	}
	if !isCallable(callback) {
		return Func{}, fmt.Errorf("%w: %q (%T)", ErrInvalidCallback, name, callback)
	}
	return Func{Name: name, Callback: callback}, nil
}

// ValidFunctionName reports whether name is a usable helper identifier: a
// letter, underscore or high-bit byte followed by letters, digits,
// underscores or high-bit bytes.
func ValidFunctionName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= 0x7f:
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// Functions stores template helpers by name.
type Functions struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewFunctions creates an empty function registry.
func NewFunctions() *Functions {
	return &Functions{
		funcs: make(map[string]Func),
	}
}

// Add registers a helper. Invalid names, non-func callbacks and duplicates
// return an error.
func (f *Functions) Add(name string, callback any) error {
	fn, err := NewFunc(name, callback)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.funcs[name]; exists {
		return fmt.Errorf("%w: %q", ErrFunctionExists, name)
	}
	f.funcs[name] = fn
	return nil
}

// Remove drops a helper by name.
func (f *Functions) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.funcs[name]; !exists {
		return fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}
	delete(f.funcs, name)
	return nil
}

// Get retrieves a helper by name.
func (f *Functions) Get(name string) (Func, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	fn, ok := f.funcs[name]
	if !ok {
		return Func{}, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}
	return fn, nil
}

// Exists reports whether a helper is registered.
func (f *Functions) Exists(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.funcs[name]
	return ok
}

// List returns a sorted list of helper names.
func (f *Functions) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.funcs))
	for name := range f.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func && !rv.IsNil()
}
