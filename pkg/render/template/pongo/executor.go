// Package pongo runs template bodies written in pongo2 (Django syntax). The
// renderer operations are bound as template functions:
//
//	{{ layout("base", dict("title", title)) }}
//	{{ start("nav") }}<a href="/">Home</a>{{ stop() }}
//	{{ e(name, "trim|upper") }}
//	{{ insert("partials::footer") }}
//
// Sections can also be captured with block tags, which keep working inside
// tags that buffer their output such as filter and macro:
//
//	{% section "nav" %}<a href="/">Home</a>{% endsection %}
//	{% push "scripts" %}<script src="app.js"></script>{% endpush %}
package pongo

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-tektonik/pkg/render/template"
)

// Option configures the executor before construction.
type Option func(*config)

type config struct {
	logger       zerolog.Logger
	trimBlocks   bool
	lstripBlocks bool
}

// WithLogger sets the logger receiving executor diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithTrimBlocks removes the first newline after a block tag.
func WithTrimBlocks(enabled bool) Option {
	return func(cfg *config) {
		cfg.trimBlocks = enabled
	}
}

// WithLStripBlocks strips leading whitespace before a block tag.
func WithLStripBlocks(enabled bool) Option {
	return func(cfg *config) {
		cfg.lstripBlocks = enabled
	}
}

// Executor satisfies template.Executor using a pongo2 template set that
// loads bodies straight from the resolved path.
type Executor struct {
	mu          sync.Mutex
	templateSet *pongo2.TemplateSet
	logger      zerolog.Logger
}

var _ template.Executor = (*Executor)(nil)

// New constructs an Executor using the provided options.
func New(options ...Option) *Executor {
	cfg := &config{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	set := pongo2.NewSet("tektonik", pongo2.MustNewLocalFileSystemLoader(""))
	set.Options.TrimBlocks = cfg.trimBlocks
	set.Options.LStripBlocks = cfg.lstripBlocks

	return &Executor{templateSet: set, logger: cfg.logger}
}

// Execute parses the body at path and runs it against the scope, writing
// output to out without intermediate buffering.
func (e *Executor) Execute(path string, scope template.Scope, out io.Writer) error {
	if e == nil || e.templateSet == nil {
		return fmt.Errorf("pongo: executor is nil")
	}
	if scope == nil {
		return fmt.Errorf("pongo: scope is required")
	}

	e.mu.Lock()
	tmpl, err := e.templateSet.FromFile(path)
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("pongo: load template %q: %w", path, err)
	}

	ctx := e.convertToContext(path, scope.Bindings())
	ctx.Update(bindScope(scope))

	if err := tmpl.ExecuteWriterUnbuffered(ctx, out); err != nil {
		return fmt.Errorf("pongo: execute template %q: %w", path, err)
	}
	return nil
}

// identifier matches the context keys pongo2 accepts.
var identifier = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// convertToContext copies bindings into a pongo2 context. Keys pongo2 cannot
// address are left out so they do not fail the whole render.
func (e *Executor) convertToContext(path string, data map[string]any) pongo2.Context {
	out := make(pongo2.Context, len(data)+1)
	for key, value := range data {
		key = strings.TrimSpace(key)
		if !identifier.MatchString(key) {
			e.logger.Debug().Str("path", path).Str("key", key).Msg("skipping binding that is not a valid identifier")
			continue
		}
		if ctx, ok := value.(pongo2.Context); ok {
			value = map[string]any(ctx)
		}
		out[key] = value
	}
	return out
}
