// Package template defines the seam between the template renderer and the
// language template bodies are written in. A Scope exposes the operations a
// running body may call (sections, layouts, composition, escaping, helpers);
// an Executor runs a body file against a Scope and streams its output.
package template
