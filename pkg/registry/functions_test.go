package registry_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-tektonik/pkg/registry"
)

func TestValidFunctionName(t *testing.T) {
	tests := map[string]bool{
		"upper":       true,
		"_private":    true,
		"fn2":         true,
		"naïve":       true,
		"":            false,
		"2fn":         false,
		"with-dash":   false,
		"with space":  false,
		"dotted.name": false,
	}
	for name, want := range tests {
		if got := registry.ValidFunctionName(name); got != want {
			t.Errorf("ValidFunctionName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFunctions_AddGetRemove(t *testing.T) {
	funcs := registry.NewFunctions()
	if err := funcs.Add("upper", strings.ToUpper); err != nil {
		t.Fatalf("add function: %v", err)
	}
	if !funcs.Exists("upper") {
		t.Fatalf("expected function to exist")
	}

	fn, err := funcs.Get("upper")
	if err != nil {
		t.Fatalf("get function: %v", err)
	}
	upper, ok := fn.Callback.(func(string) string)
	if !ok {
		t.Fatalf("unexpected callback type %T", fn.Callback)
	}
	if got := upper("bob"); got != "BOB" {
		t.Fatalf("callback returned %q", got)
	}

	if err := funcs.Remove("upper"); err != nil {
		t.Fatalf("remove function: %v", err)
	}
	if funcs.Exists("upper") {
		t.Fatalf("expected function to be removed")
	}
}

func TestFunctions_Errors(t *testing.T) {
	funcs := registry.NewFunctions()
	if err := funcs.Add("upper", strings.ToUpper); err != nil {
		t.Fatalf("add function: %v", err)
	}

	var nilFunc func()
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid name", funcs.Add("9lives", strings.ToUpper), registry.ErrInvalidFunctionName},
		{"not callable", funcs.Add("value", "not a func"), registry.ErrInvalidCallback},
		{"nil func", funcs.Add("nothing", nilFunc), registry.ErrInvalidCallback},
		{"duplicate", funcs.Add("upper", strings.ToLower), registry.ErrFunctionExists},
		{"remove unknown", funcs.Remove("unknown"), registry.ErrFunctionNotFound},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.err)
		}
	}

	if _, err := funcs.Get("unknown"); !errors.Is(err, registry.ErrFunctionNotFound) {
		t.Fatalf("expected ErrFunctionNotFound, got %v", err)
	}
}
