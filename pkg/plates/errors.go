package plates

import "errors"

var (
	// ErrInvalidIdentifier reports an empty file part or a repeated "::".
	ErrInvalidIdentifier = errors.New("plates: invalid template identifier")
	// ErrUnknownFolder reports a namespace missing from the folder registry.
	ErrUnknownFolder = errors.New("plates: unknown template folder")
	// ErrNoDefaultDirectory reports a lookup that needs the default
	// directories while none are configured.
	ErrNoDefaultDirectory = errors.New("plates: default directory is not defined")
	// ErrTemplateNotFound reports a resolved path with no file behind it.
	ErrTemplateNotFound = errors.New("plates: template not found")

	ErrReservedSectionName = errors.New(`plates: the section name "content" is reserved`)
	ErrNestedSection       = errors.New("plates: sections cannot be nested")
	ErrNoActiveSection     = errors.New("plates: no section has been started")
	ErrUnterminatedSection = errors.New("plates: section was not stopped before the template ended")
	// ErrNotRendering reports a section operation on a template whose body
	// is not executing.
	ErrNotRendering = errors.New("plates: template body is not rendering")

	ErrUnknownFunction      = errors.New("plates: unknown template function")
	ErrUnknownBatchFunction = errors.New("plates: unknown batch function")

	// ErrTemplateRendered is returned when Render is called on a template
	// that already finished rendering.
	ErrTemplateRendered = errors.New("plates: template already rendered")
)
