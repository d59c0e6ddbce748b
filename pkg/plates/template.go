package plates

import (
	"fmt"
	"io"
	"maps"
	"strings"
	"time"

	"github.com/goliatone/go-tektonik/pkg/render/template"
)

// ContentSection is the section a layout receives the child's output in.
const ContentSection = "content"

// State is the lifecycle position of a Template.
type State int

const (
	StateIdle State = iota
	StateBodyExecuting
	StateSectionCapturing
	StateLayoutRendering
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBodyExecuting:
		return "body-executing"
	case StateSectionCapturing:
		return "section-capturing"
	case StateLayoutRendering:
		return "layout-rendering"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type sectionCapture struct {
	name       string
	appendMode bool
	block      bool
}

type layoutRequest struct {
	name string
	data map[string]any
}

// Template renders a single template body. A Template is single use and not
// safe for concurrent use; create one per render through Engine.Make.
type Template struct {
	engine   *Engine
	name     *Name
	data     map[string]any
	sections map[string]string
	capture  *captureStack
	active   *sectionCapture
	layout   *layoutRequest
	state    State
	failure  error
}

var _ template.Scope = (*Template)(nil)

func newTemplate(engine *Engine, identifier string) *Template {
	return &Template{
		engine:   engine,
		name:     newName(engine, identifier),
		data:     engine.Data().Get(identifier),
		sections: make(map[string]string),
		capture:  newCaptureStack(),
	}
}

// Name returns the template's name resolver.
func (t *Template) Name() *Name {
	return t.name
}

// ReplaceName points the template at another identifier before it renders.
func (t *Template) ReplaceName(identifier string) {
	t.name = newName(t.engine, identifier)
}

// State returns the current lifecycle state.
func (t *Template) State() State {
	return t.state
}

// Assign merges data into the template bindings, later keys winning.
func (t *Template) Assign(data map[string]any) {
	maps.Copy(t.data, data)
}

// Data returns a copy of the template bindings.
func (t *Template) Data() map[string]any {
	return maps.Clone(t.data)
}

// Bindings returns the variables exposed to the template body.
func (t *Template) Bindings() map[string]any {
	return t.data
}

// Exists reports whether the template file exists.
func (t *Template) Exists() bool {
	return t.name.Exists()
}

// Path returns the resolved template path.
func (t *Template) Path() (string, error) {
	return t.name.Path()
}

// Render merges data into the bindings, runs the template body and, when the
// body requested one, its layout. Captures opened by a failed render are
// discarded before the error is returned.
func (t *Template) Render(data map[string]any) (out string, err error) {
	identifier := t.name.Identifier()
	if t.state != StateIdle {
		return "", fmt.Errorf("%w: %q", ErrTemplateRendered, identifier)
	}

	started := time.Now()
	defer func() {
		t.state = StateDone
		t.engine.observe(identifier, time.Since(started), err)
	}()

	t.Assign(data)

	path, err := t.name.Path()
	if err != nil {
		return "", err
	}
	if !isFile(path) {
		return "", fmt.Errorf("%w: %q could not be found at %q", ErrTemplateNotFound, identifier, path)
	}
	t.engine.logger.Debug().Str("template", identifier).Str("path", path).Msg("rendering template")

	level := t.capture.depth()
	out, err = t.renderBody(path)
	if err == nil && t.layout != nil {
		out, err = t.renderLayout(out)
	}
	if err != nil {
		t.capture.unwindTo(level)
		t.active = nil
		t.engine.logger.Debug().Err(err).Str("template", identifier).Str("path", path).Msg("render failed")
		return "", err
	}
	return out, nil
}

func (t *Template) renderBody(path string) (string, error) {
	t.capture.push()
	t.state = StateBodyExecuting

	err := t.engine.executor.Execute(path, t, t.capture)
	if t.failure != nil {
		return "", t.failure
	}
	if err != nil {
		return "", err
	}
	if t.active != nil {
		return "", fmt.Errorf("%w: section %q in template %q", ErrUnterminatedSection, t.active.name, t.name.Identifier())
	}
	return t.capture.pop(), nil
}

func (t *Template) renderLayout(content string) (string, error) {
	t.state = StateLayoutRendering

	layout := t.engine.Make(t.layout.name)
	layout.sections = make(map[string]string, len(t.sections)+1)
	maps.Copy(layout.sections, t.sections)
	layout.sections[ContentSection] = content

	return layout.Render(merge(t.data, t.layout.data))
}

// Start opens a section capture that replaces any earlier content of the
// section when stopped.
func (t *Template) Start(name string) error {
	return t.startSection(name, false)
}

// Push opens a section capture that appends to earlier content of the
// section when stopped.
func (t *Template) Push(name string) error {
	return t.startSection(name, true)
}

func (t *Template) startSection(name string, appendMode bool) error {
	if err := t.openSection(name, appendMode); err != nil {
		return err
	}
	t.capture.push()
	return nil
}

func (t *Template) openSection(name string, appendMode bool) error {
	if t.state != StateBodyExecuting && t.state != StateSectionCapturing {
		return fmt.Errorf("%w: cannot open section %q in template %q while %s",
			ErrNotRendering, name, t.name.Identifier(), t.state)
	}
	if name == ContentSection {
		return t.fail(ErrReservedSectionName)
	}
	if t.active != nil {
		return t.fail(fmt.Errorf("%w: %q is still open while starting %q", ErrNestedSection, t.active.name, name))
	}

	t.active = &sectionCapture{name: name, appendMode: appendMode}
	t.state = StateSectionCapturing
	return nil
}

// Stop closes the open section capture and stores its text.
func (t *Template) Stop() error {
	if t.active == nil {
		return t.fail(ErrNoActiveSection)
	}
	if t.active.block {
		return t.fail(fmt.Errorf("%w: section %q is closed by its end tag", ErrNoActiveSection, t.active.name))
	}
	t.closeSection(t.capture.pop())
	return nil
}

// Capture runs render with its own buffer and stores the text written to it
// as the section content. Start and Push are rejected while render runs.
func (t *Template) Capture(name string, appendMode bool, render func(io.Writer) error) error {
	if err := t.openSection(name, appendMode); err != nil {
		return err
	}
	t.active.block = true

	var buf strings.Builder
	if err := render(&buf); err != nil {
		t.active = nil
		t.state = StateBodyExecuting
		return err
	}
	t.closeSection(buf.String())
	return nil
}

func (t *Template) closeSection(text string) {
	if t.active.appendMode {
		t.sections[t.active.name] += text
	} else {
		t.sections[t.active.name] = text
	}
	t.active = nil
	t.state = StateBodyExecuting
}

// End is an alias of Stop.
func (t *Template) End() error {
	return t.Stop()
}

// Section returns the content of a section. When the section was never
// captured the first fallback is returned, or nil without one.
func (t *Template) Section(name string, fallback ...any) any {
	if content, ok := t.sections[name]; ok {
		return content
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return nil
}

// Layout defers the final composition to the named layout, which renders
// with the current bindings merged with data. A later call replaces an
// earlier one.
func (t *Template) Layout(name string, data map[string]any) {
	if t.layout != nil {
		t.engine.logger.Debug().
			Str("template", t.name.Identifier()).
			Str("previous", t.layout.name).
			Str("layout", name).
			Msg("replacing layout")
	}
	t.layout = &layoutRequest{name: name, data: data}
}

// Fetch renders another template with the current bindings merged with data.
func (t *Template) Fetch(name string, data map[string]any) (string, error) {
	out, err := t.engine.Render(name, merge(t.data, data))
	if err != nil {
		return "", t.fail(err)
	}
	return out, nil
}

// Insert renders another template into the current output.
func (t *Template) Insert(name string, data map[string]any) error {
	out, err := t.Fetch(name, data)
	if err != nil {
		return err
	}
	if _, err := t.capture.WriteString(out); err != nil {
		return t.fail(err)
	}
	return nil
}

// fail records the first failure raised by an operation during the body so
// it reaches the caller unchanged, whatever the executor wraps it in.
func (t *Template) fail(err error) error {
	if t.failure == nil && t.state != StateIdle && t.state != StateDone {
		t.failure = err
	}
	return err
}

func merge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	maps.Copy(out, base)
	maps.Copy(out, override)
	return out
}
