package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Folder is a named alternate template root. Fallback folders let missing
// files resolve against the engine's default directories.
type Folder struct {
	Name     string
	Path     string
	Fallback bool
}

// NewFolder validates the folder and returns it. The path must be an
// existing directory.
func NewFolder(name, path string, fallback bool) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, fmt.Errorf("registry: folder name is required")
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return Folder{}, fmt.Errorf("%w: %q", ErrFolderPathMissing, path)
	}
	return Folder{Name: name, Path: path, Fallback: fallback}, nil
}

// Folders stores folders by name.
type Folders struct {
	mu      sync.RWMutex
	folders map[string]Folder
}

// NewFolders creates an empty folder registry.
func NewFolders() *Folders {
	return &Folders{
		folders: make(map[string]Folder),
	}
}

// Add registers a folder. Duplicate names and missing paths return an error.
func (f *Folders) Add(name, path string, fallback bool) error {
	folder, err := NewFolder(name, path, fallback)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.folders[folder.Name]; exists {
		return fmt.Errorf("%w: %q", ErrFolderExists, folder.Name)
	}
	f.folders[folder.Name] = folder
	return nil
}

// Remove drops a folder by name.
func (f *Folders) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.folders[name]; !exists {
		return fmt.Errorf("%w: %q", ErrFolderNotFound, name)
	}
	delete(f.folders, name)
	return nil
}

// Get retrieves a folder by name.
func (f *Folders) Get(name string) (Folder, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	folder, ok := f.folders[name]
	if !ok {
		return Folder{}, fmt.Errorf("%w: %q", ErrFolderNotFound, name)
	}
	return folder, nil
}

// Exists reports whether a folder is registered.
func (f *Folders) Exists(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, ok := f.folders[name]
	return ok
}

// List returns the registered folder names, sorted.
func (f *Folders) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.folders))
	for name := range f.folders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
