package pongo

import (
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tektonik/pkg/render/template"
)

var empty = pongo2.AsSafeValue("")

// bindScope exposes the renderer operations as pongo2 functions. Every
// parameter is a *pongo2.Value so undefined variables reach the operation
// as nil instead of failing the call.
func bindScope(scope template.Scope) pongo2.Context {
	return pongo2.Context{
		scopeKey: scope,
		"start": func(name *pongo2.Value) (*pongo2.Value, error) {
			return empty, scope.Start(name.String())
		},
		"push": func(name *pongo2.Value) (*pongo2.Value, error) {
			return empty, scope.Push(name.String())
		},
		"stop": func() (*pongo2.Value, error) {
			return empty, scope.Stop()
		},
		"end": func() (*pongo2.Value, error) {
			return empty, scope.Stop()
		},
		"section": func(name *pongo2.Value, fallback ...*pongo2.Value) *pongo2.Value {
			value := scope.Section(name.String(), interfaces(fallback)...)
			if s, ok := value.(string); ok {
				return pongo2.AsSafeValue(s)
			}
			return pongo2.AsValue(value)
		},
		"layout": func(name *pongo2.Value, data ...*pongo2.Value) (*pongo2.Value, error) {
			vars, err := optionalMap("layout", data)
			if err != nil {
				return empty, err
			}
			scope.Layout(name.String(), vars)
			return empty, nil
		},
		"fetch": func(name *pongo2.Value, data ...*pongo2.Value) (*pongo2.Value, error) {
			vars, err := optionalMap("fetch", data)
			if err != nil {
				return empty, err
			}
			out, err := scope.Fetch(name.String(), vars)
			return pongo2.AsSafeValue(out), err
		},
		"insert": func(name *pongo2.Value, data ...*pongo2.Value) (*pongo2.Value, error) {
			vars, err := optionalMap("insert", data)
			if err != nil {
				return empty, err
			}
			return empty, scope.Insert(name.String(), vars)
		},
		"escape": escapeFunc(scope),
		"e":      escapeFunc(scope),
		"batch": func(value, pipeline *pongo2.Value) (*pongo2.Value, error) {
			out, err := scope.Batch(value.Interface(), pipeline.String())
			return pongo2.AsValue(out), err
		},
		"call": func(name *pongo2.Value, args ...*pongo2.Value) (*pongo2.Value, error) {
			out, err := scope.Call(name.String(), interfaces(args)...)
			return pongo2.AsValue(out), err
		},
		"dict": dict,
	}
}

func escapeFunc(scope template.Scope) func(*pongo2.Value, ...*pongo2.Value) (*pongo2.Value, error) {
	return func(value *pongo2.Value, pipeline ...*pongo2.Value) (*pongo2.Value, error) {
		stages := make([]string, 0, len(pipeline))
		for _, stage := range pipeline {
			stages = append(stages, stage.String())
		}
		out, err := scope.Escape(value.Interface(), stages...)
		return pongo2.AsSafeValue(out), err
	}
}

// dict builds a map from alternating key/value arguments, standing in for
// the map literals pongo2 expressions lack.
func dict(pairs ...*pongo2.Value) (*pongo2.Value, error) {
	if len(pairs)%2 != 0 {
		return empty, fmt.Errorf("dict: expected key/value pairs, got %d arguments", len(pairs))
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		if !pairs[i].IsString() {
			return empty, fmt.Errorf("dict: key %d must be a string", i/2)
		}
		out[pairs[i].String()] = pairs[i+1].Interface()
	}
	return pongo2.AsValue(out), nil
}

func optionalMap(op string, values []*pongo2.Value) (map[string]any, error) {
	if len(values) == 0 || values[0].IsNil() {
		return nil, nil
	}
	if len(values) > 1 {
		return nil, fmt.Errorf("%s: expected at most one data argument, got %d", op, len(values))
	}
	switch v := values[0].Interface().(type) {
	case map[string]any:
		return v, nil
	case pongo2.Context:
		return map[string]any(v), nil
	default:
		return nil, fmt.Errorf("%s: data must be a map, %T given", op, v)
	}
}

func interfaces(values []*pongo2.Value) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value.Interface())
	}
	return out
}
