// Package tektonik hosts a shared plates engine for an application. The
// engine is built on first use, after which plugins can register template
// folders and callers render templates by logical name:
//
//	host := tektonik.New(tektonik.WithDirectories(tektonik.DefaultDirectories(fallback, themeDir)...))
//	if err := host.AddPlugin("shop", shopDir); err != nil {
//		return err
//	}
//	html, err := host.Fetch("shop::cart", map[string]any{"items": items})
package tektonik

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-tektonik/pkg/plates"
)

// TemplateDir is the directory name looked up under themes and plugins.
const TemplateDir = "tektonik"

// InitHook runs once, right after the engine is built.
type InitHook func(engine *plates.Engine) error

// TemplateHook may replace the template about to render. Returning nil keeps
// the current one.
type TemplateHook func(tmpl *plates.Template) *plates.Template

// RenderHook may change or replace the params about to be rendered.
// Returning nil keeps the current params.
type RenderHook func(params *Params, tmpl *plates.Template) *Params

// Option configures a Host.
type Option func(*Host)

// WithDirectories sets the engine's default directories.
func WithDirectories(dirs ...string) Option {
	return func(h *Host) {
		h.directories = append([]string(nil), dirs...)
	}
}

// WithEngineOptions forwards options to plates.New.
func WithEngineOptions(options ...plates.Option) Option {
	return func(h *Host) {
		h.engineOptions = append(h.engineOptions, options...)
	}
}

// WithLogger sets the logger handed to the engine.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithInitHook adds a hook run when the engine is built. Hooks run in the
// order they were added.
func WithInitHook(hook InitHook) Option {
	return func(h *Host) {
		if hook != nil {
			h.initHooks = append(h.initHooks, hook)
		}
	}
}

// WithTemplateHook adds a hook run on every template before it renders.
func WithTemplateHook(hook TemplateHook) Option {
	return func(h *Host) {
		if hook != nil {
			h.templateHooks = append(h.templateHooks, hook)
		}
	}
}

// WithRenderHook adds a hook run on the params of every render.
func WithRenderHook(hook RenderHook) Option {
	return func(h *Host) {
		if hook != nil {
			h.renderHooks = append(h.renderHooks, hook)
		}
	}
}

// Host owns a lazily built engine and the hooks applied around renders.
type Host struct {
	mu     sync.Mutex
	engine *plates.Engine

	directories   []string
	engineOptions []plates.Option
	logger        zerolog.Logger

	initHooks     []InitHook
	templateHooks []TemplateHook
	renderHooks   []RenderHook
}

// New creates a Host. The engine is not built until first needed.
func New(options ...Option) *Host {
	h := &Host{logger: zerolog.Nop()}
	for _, option := range options {
		if option != nil {
			option(h)
		}
	}
	return h
}

// Engine returns the engine, building it and running the init hooks on the
// first call. A failed init hook leaves the host without an engine so the
// next call retries.
func (h *Host) Engine() (*plates.Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine != nil {
		return h.engine, nil
	}

	options := append([]plates.Option{
		plates.WithDirectory(h.directories...),
		plates.WithLogger(h.logger),
	}, h.engineOptions...)
	engine := plates.New(options...)

	for _, hook := range h.initHooks {
		if err := hook(engine); err != nil {
			return nil, fmt.Errorf("tektonik: init hook: %w", err)
		}
	}
	h.logger.Debug().Strs("directories", engine.Directory()).Msg("engine initialized")

	h.engine = engine
	return engine, nil
}

// AddPlugin registers dir/tektonik as the template folder for namespace.
// Templates in the folder can be overridden from <root>/plugin/<namespace>.
func (h *Host) AddPlugin(namespace, dir string) error {
	engine, err := h.Engine()
	if err != nil {
		return err
	}
	return engine.AddFolder(namespace, filepath.Join(dir, TemplateDir), false)
}

// Fetch renders the named template with params and returns the output.
func (h *Host) Fetch(name string, params map[string]any) (string, error) {
	engine, err := h.Engine()
	if err != nil {
		return "", err
	}

	tmpl := engine.Make(name)
	for _, hook := range h.templateHooks {
		if replaced := hook(tmpl); replaced != nil {
			tmpl = replaced
		}
	}

	p := NewParams(params)
	for _, hook := range h.renderHooks {
		if replaced := hook(p, tmpl); replaced != nil {
			p = replaced
		}
	}

	return tmpl.Render(p.All())
}

// Render renders the named template into w.
func (h *Host) Render(w io.Writer, name string, params map[string]any) error {
	out, err := h.Fetch(name, params)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// DefaultDirectories returns the existing <candidate>/tektonik directories
// in candidate order without duplicates. When none exist it returns
// fallback as given.
func DefaultDirectories(fallback string, candidates ...string) []string {
	var dirs []string
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		dir := filepath.Join(candidate, TemplateDir)
		if _, ok := seen[dir]; ok {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 && fallback != "" {
		dirs = append(dirs, fallback)
	}
	return dirs
}
