package plates

import "time"

// Observer is notified after every template render, nested layouts and
// fetched templates included.
type Observer interface {
	ObserveRender(identifier string, elapsed time.Duration, err error)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(identifier string, elapsed time.Duration, err error)

// ObserveRender calls f.
func (f ObserverFunc) ObserveRender(identifier string, elapsed time.Duration, err error) {
	f(identifier, elapsed, err)
}
