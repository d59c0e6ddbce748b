package plates

// Extension bundles helpers and configuration that can be loaded into an
// engine in one call.
type Extension interface {
	Register(engine *Engine) error
}

// ExtensionFunc adapts a function to the Extension interface.
type ExtensionFunc func(engine *Engine) error

// Register calls f.
func (f ExtensionFunc) Register(engine *Engine) error {
	return f(engine)
}
