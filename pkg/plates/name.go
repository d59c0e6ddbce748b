package plates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-tektonik/pkg/registry"
)

const (
	namespaceSeparator = "::"
	pluginDir          = "plugin"
)

// Name resolves a template identifier against the engine configuration. The
// identifier is re-parsed and re-resolved on every call because folders and
// directories may change between calls.
type Name struct {
	engine     *Engine
	identifier string
}

func newName(engine *Engine, identifier string) *Name {
	return &Name{engine: engine, identifier: identifier}
}

// Identifier returns the identifier as given.
func (n *Name) Identifier() string {
	return n.identifier
}

// File returns the file part of the identifier with the configured
// extension applied.
func (n *Name) File() (string, error) {
	_, file, err := n.parse()
	return file, err
}

// Folder returns the folder named by the identifier's namespace. ok is false
// for identifiers without a namespace.
func (n *Name) Folder() (folder registry.Folder, ok bool, err error) {
	namespace, _, err := n.parse()
	if err != nil || namespace == "" {
		return registry.Folder{}, false, err
	}
	folder, err = n.engine.Folders().Get(namespace)
	if err != nil {
		return registry.Folder{}, false, fmt.Errorf("%w: %q in template %q", ErrUnknownFolder, namespace, n.identifier)
	}
	return folder, true, nil
}

// Path resolves the identifier to a file path. The path is returned even
// when no file exists there; use Exists to check.
func (n *Name) Path() (string, error) {
	namespace, file, err := n.parse()
	if err != nil {
		return "", err
	}

	var folder registry.Folder
	if namespace != "" {
		if folder, _, err = n.Folder(); err != nil {
			return "", err
		}
	}

	roots := n.engine.Directory()
	if len(roots) == 0 {
		return "", fmt.Errorf("%w: template %q", ErrNoDefaultDirectory, n.identifier)
	}

	if namespace == "" {
		if path, ok := firstFile(roots, file); ok {
			return path, nil
		}
		return filepath.Join(roots[0], file), nil
	}

	overrides := make([]string, 0, len(roots))
	for _, root := range roots {
		overrides = append(overrides, filepath.Join(root, pluginDir, folder.Name))
	}
	if path, ok := firstFile(overrides, file); ok {
		return path, nil
	}

	candidate := filepath.Join(folder.Path, file)
	if !isFile(candidate) && folder.Fallback {
		if path, ok := firstFile(roots, file); ok {
			return path, nil
		}
	}
	return candidate, nil
}

// Exists reports whether the identifier resolves to a regular file.
func (n *Name) Exists() bool {
	path, err := n.Path()
	if err != nil {
		return false
	}
	return isFile(path)
}

func (n *Name) parse() (namespace, file string, err error) {
	parts := strings.Split(n.identifier, namespaceSeparator)
	switch len(parts) {
	case 1:
		file = parts[0]
	case 2:
		namespace, file = parts[0], parts[1]
	default:
		return "", "", fmt.Errorf("%w: %q uses the folder separator %q more than once",
			ErrInvalidIdentifier, n.identifier, namespaceSeparator)
	}

	if file == "" {
		return "", "", fmt.Errorf("%w: %q has an empty template name", ErrInvalidIdentifier, n.identifier)
	}
	if len(parts) == 2 && namespace == "" {
		return "", "", fmt.Errorf("%w: empty namespace in template %q", ErrUnknownFolder, n.identifier)
	}
	if ext := n.engine.FileExtension(); ext != "" {
		file += "." + ext
	}
	return namespace, file, nil
}

func firstFile(dirs []string, file string) (string, bool) {
	for _, dir := range dirs {
		path := filepath.Join(dir, file)
		if isFile(path) {
			return path, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
