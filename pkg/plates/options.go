package plates

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-tektonik/pkg/registry"
	"github.com/goliatone/go-tektonik/pkg/render/template"
)

// DefaultFileExtension is appended to identifiers unless configured
// otherwise.
const DefaultFileExtension = "tpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	directory []string
	extension string
	executor  template.Executor
	logger    *zerolog.Logger
	observer  Observer
	folders   *registry.Folders
	functions *registry.Functions
	data      *registry.Data
}

// WithDirectory sets the ordered default directories. Earlier directories
// take precedence.
func WithDirectory(dirs ...string) Option {
	return func(cfg *config) {
		cfg.directory = cleanDirectories(dirs)
	}
}

// WithFileExtension overrides the extension appended to identifiers. An
// empty extension uses identifiers verbatim as file names.
func WithFileExtension(ext string) Option {
	return func(cfg *config) {
		cfg.extension = normalizeExtension(ext)
	}
}

// WithExecutor replaces the template body executor.
func WithExecutor(executor template.Executor) Option {
	return func(cfg *config) {
		if executor != nil {
			cfg.executor = executor
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = &logger
	}
}

// WithObserver reports every render to observer.
func WithObserver(observer Observer) Option {
	return func(cfg *config) {
		cfg.observer = observer
	}
}

// WithFolders shares an existing folder registry.
func WithFolders(folders *registry.Folders) Option {
	return func(cfg *config) {
		if folders != nil {
			cfg.folders = folders
		}
	}
}

// WithFunctions shares an existing function registry.
func WithFunctions(functions *registry.Functions) Option {
	return func(cfg *config) {
		if functions != nil {
			cfg.functions = functions
		}
	}
}

// WithData shares an existing data store.
func WithData(data *registry.Data) Option {
	return func(cfg *config) {
		if data != nil {
			cfg.data = data
		}
	}
}

func normalizeExtension(ext string) string {
	return strings.TrimLeft(strings.TrimSpace(ext), ".")
}

func cleanDirectories(dirs []string) []string {
	if len(dirs) == 0 {
		return nil
	}
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir = strings.TrimSpace(dir); dir != "" {
			out = append(out, dir)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
