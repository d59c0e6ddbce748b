package plates

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-tektonik/pkg/registry"
	"github.com/goliatone/go-tektonik/pkg/render/template"
	"github.com/goliatone/go-tektonik/pkg/render/template/pongo"
)

// Engine is the template manager. It owns the default directories, the file
// extension, the folder and function registries and the shared data store.
// Configuration methods are safe for concurrent use; templates created with
// Make are not.
type Engine struct {
	mu        sync.RWMutex
	directory []string
	extension string

	folders   *registry.Folders
	functions *registry.Functions
	data      *registry.Data

	executor template.Executor
	logger   zerolog.Logger
	observer Observer
}

// New creates an engine. Without options it has no default directories, uses
// the "tpl" extension and executes bodies with pongo2.
func New(options ...Option) *Engine {
	cfg := config{extension: DefaultFileExtension}
	for _, option := range options {
		if option != nil {
			option(&cfg)
		}
	}

	engine := &Engine{
		directory: cfg.directory,
		extension: cfg.extension,
		folders:   cfg.folders,
		functions: cfg.functions,
		data:      cfg.data,
		executor:  cfg.executor,
		observer:  cfg.observer,
		logger:    zerolog.Nop(),
	}
	if cfg.logger != nil {
		engine.logger = cfg.logger.With().Str("component", "plates").Logger()
	}
	if engine.folders == nil {
		engine.folders = registry.NewFolders()
	}
	if engine.functions == nil {
		engine.functions = registry.NewFunctions()
	}
	if engine.data == nil {
		engine.data = registry.NewData()
	}
	if engine.executor == nil {
		engine.executor = pongo.New(pongo.WithLogger(engine.logger))
	}
	return engine
}

// SetDirectory replaces the default directories. No arguments clears them.
func (e *Engine) SetDirectory(dirs ...string) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.directory = cleanDirectories(dirs)
	return e
}

// Directory returns a copy of the default directories, or nil when unset.
func (e *Engine) Directory() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return slices.Clone(e.directory)
}

// SetFileExtension sets the extension appended to identifiers. A leading
// dot is ignored; an empty extension disables the suffix.
func (e *Engine) SetFileExtension(ext string) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.extension = normalizeExtension(ext)
	return e
}

// FileExtension returns the configured extension without the dot.
func (e *Engine) FileExtension() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.extension
}

func (e *Engine) Folders() *registry.Folders {
	return e.folders
}

func (e *Engine) Functions() *registry.Functions {
	return e.functions
}

func (e *Engine) Data() *registry.Data {
	return e.data
}

// AddFolder registers a namespace folder. With fallback set, templates
// missing from the folder are looked up in the default directories.
func (e *Engine) AddFolder(name, path string, fallback bool) error {
	if err := e.folders.Add(name, path, fallback); err != nil {
		return err
	}
	e.logger.Debug().Str("folder", name).Str("path", path).Bool("fallback", fallback).Msg("folder registered")
	return nil
}

// RemoveFolder unregisters a namespace folder.
func (e *Engine) RemoveFolder(name string) error {
	return e.folders.Remove(name)
}

// AddData shares data with templates. See registry.Data.Add for targets.
func (e *Engine) AddData(data map[string]any, targets any) error {
	return e.data.Add(data, targets)
}

// RegisterFunction exposes callback to templates under name. A callback of
// type Helper receives the calling template as its first argument.
func (e *Engine) RegisterFunction(name string, callback any) error {
	if helper, ok := callback.(func(*Template, ...any) (any, error)); ok {
		callback = Helper(helper)
	}
	if err := e.functions.Add(name, callback); err != nil {
		return err
	}
	e.logger.Debug().Str("function", name).Msg("function registered")
	return nil
}

// DropFunction removes a registered function.
func (e *Engine) DropFunction(name string) error {
	return e.functions.Remove(name)
}

// Function returns a registered function.
func (e *Engine) Function(name string) (registry.Func, error) {
	return e.functions.Get(name)
}

// FunctionExists reports whether a function is registered under name.
func (e *Engine) FunctionExists(name string) bool {
	return e.functions.Exists(name)
}

// LoadExtension registers a single extension.
func (e *Engine) LoadExtension(extension Extension) error {
	if extension == nil {
		return nil
	}
	if err := extension.Register(e); err != nil {
		return fmt.Errorf("plates: load extension %T: %w", extension, err)
	}
	return nil
}

// LoadExtensions registers extensions in order, stopping at the first error.
func (e *Engine) LoadExtensions(extensions ...Extension) error {
	for _, extension := range extensions {
		if err := e.LoadExtension(extension); err != nil {
			return err
		}
	}
	return nil
}

// Path resolves an identifier to a file path.
func (e *Engine) Path(name string) (string, error) {
	return newName(e, name).Path()
}

// Exists reports whether an identifier resolves to an existing file.
func (e *Engine) Exists(name string) bool {
	return newName(e, name).Exists()
}

// Make creates a template seeded with the data shared with name.
func (e *Engine) Make(name string) *Template {
	return newTemplate(e, name)
}

// Render creates and renders a template in one call.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	return e.Make(name).Render(data)
}

func (e *Engine) observe(identifier string, elapsed time.Duration, err error) {
	if e.observer != nil {
		e.observer.ObserveRender(identifier, elapsed, err)
	}
}
