package template

import (
	"io"
)

// Scope is the view a template body has of the renderer executing it.
// Errors returned by these operations abort the body.
type Scope interface {
	// Bindings returns the variables visible to the body by name.
	Bindings() map[string]any

	Start(name string) error
	Push(name string) error
	Stop() error
	// Capture stores whatever render writes as the content of a section,
	// appended to earlier content when appendMode is set. It backs block
	// style section tags whose output does not reach the body writer.
	Capture(name string, appendMode bool, render func(io.Writer) error) error
	Section(name string, fallback ...any) any

	Layout(name string, data map[string]any)
	Fetch(name string, data map[string]any) (string, error)
	Insert(name string, data map[string]any) error

	Escape(value any, pipeline ...string) (string, error)
	Batch(value any, pipeline string) (any, error)
	Call(name string, args ...any) (any, error)
}

// Executor runs the template body stored at path. Output is written to out
// as the body produces it, so section captures opened through the Scope see
// the text emitted between their start and stop calls.
type Executor interface {
	Execute(path string, scope Scope, out io.Writer) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(path string, scope Scope, out io.Writer) error

// Execute calls f.
func (f ExecutorFunc) Execute(path string, scope Scope, out io.Writer) error {
	return f(path, scope, out)
}
