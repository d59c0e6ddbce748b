package plates

import (
	"fmt"
	"reflect"
)

// Helper is a template function that receives the calling template. Use it
// for helpers that need to reach the caller's sections, layout or bindings.
type Helper func(t *Template, args ...any) (any, error)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Call invokes the registered helper name with args.
func (t *Template) Call(name string, args ...any) (any, error) {
	fn, err := t.engine.Functions().Get(name)
	if err != nil {
		return nil, t.fail(fmt.Errorf("%w: %q", ErrUnknownFunction, name))
	}

	out, err := invoke(t, fn.Callback, args)
	if err != nil {
		return nil, t.fail(err)
	}
	return out, nil
}

func invoke(t *Template, callback any, args []any) (any, error) {
	switch fn := callback.(type) {
	case Helper:
		return fn(t, args...)
	case func(*Template, ...any) (any, error):
		return fn(t, args...)
	}
	return callReflect(callback, args)
}

// callReflect calls an arbitrary Go func, converting args to its parameter
// types. Supported results are (), (v), (err) and (v, err).
func callReflect(callback any, args []any) (any, error) {
	fn := reflect.ValueOf(callback)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("plates: callback is not a function (%T)", callback)
	}
	ft := fn.Type()

	in, err := callArgs(ft, args)
	if err != nil {
		return nil, err
	}
	return callResults(ft, fn.Call(in))
}

func callArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	variadic := ft.IsVariadic()
	switch {
	case variadic && len(args) < numIn-1:
		return nil, fmt.Errorf("plates: expected at least %d arguments, got %d", numIn-1, len(args))
	case !variadic && len(args) != numIn:
		return nil, fmt.Errorf("plates: expected %d arguments, got %d", numIn, len(args))
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var param reflect.Type
		if variadic && i >= numIn-1 {
			param = ft.In(numIn - 1).Elem()
		} else {
			param = ft.In(i)
		}
		value, err := convertArg(arg, param)
		if err != nil {
			return nil, fmt.Errorf("plates: argument %d: %w", i, err)
		}
		in = append(in, value)
	}
	return in, nil
}

func convertArg(arg any, param reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(param), nil
	}
	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(param) {
		return value, nil
	}
	if param.Kind() == reflect.String {
		// Convert would turn integers into runes.
		return reflect.ValueOf(toString(arg)).Convert(param), nil
	}
	if value.Type().ConvertibleTo(param) {
		return value.Convert(param), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, param)
}

func callResults(ft reflect.Type, out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if ft.Out(0).Implements(errorType) && ft.Out(0).Kind() == reflect.Interface {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	case 2:
		if !ft.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("plates: second result must be an error, got %s", ft.Out(1))
		}
		return out[0].Interface(), asError(out[1])
	default:
		return nil, fmt.Errorf("plates: functions may return at most 2 values, got %d", len(out))
	}
}

func asError(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
	}
	err, _ := v.Interface().(error)
	return err
}
