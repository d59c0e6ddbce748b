// Package config loads engine settings from YAML or TOML files and
// TEKTONIK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/goliatone/go-tektonik/pkg/plates"
	"github.com/goliatone/go-tektonik/pkg/render/template/pongo"
)

// EnvPrefix prefixes environment overrides. Double underscores separate
// nested keys: TEKTONIK_DATA__SITE sets data.site.
const EnvPrefix = "TEKTONIK_"

var ErrUnsupportedFormat = errors.New("config: unsupported config file format")

// FolderConfig describes a namespace folder.
type FolderConfig struct {
	Name     string `koanf:"name"`
	Path     string `koanf:"path"`
	Fallback bool   `koanf:"fallback"`
}

// Config is the file and environment representation of an engine.
type Config struct {
	Directories  []string                  `koanf:"directories"`
	Extension    string                    `koanf:"extension"`
	NoExtension  bool                      `koanf:"no_extension"`
	Folders      []FolderConfig            `koanf:"folders"`
	Data         map[string]any            `koanf:"data"`
	Templates    map[string]map[string]any `koanf:"templates"`
	DataFiles    []string                  `koanf:"data_files"`
	TrimBlocks   bool                      `koanf:"trim_blocks"`
	LStripBlocks bool                      `koanf:"lstrip_blocks"`
}

func defaults() map[string]any {
	return map[string]any{
		"extension": plates.DefaultFileExtension,
	}
}

// Load merges defaults, the optional file at path and the environment, in
// that order. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if path != "" {
		cfg.resolveRelative(filepath.Dir(path))
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// resolveRelative anchors relative paths from a config file at the file's
// directory.
func (c *Config) resolveRelative(base string) {
	anchor := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(base, path)
	}
	for i, dir := range c.Directories {
		c.Directories[i] = anchor(dir)
	}
	for i := range c.Folders {
		c.Folders[i].Path = anchor(c.Folders[i].Path)
	}
	for i, path := range c.DataFiles {
		c.DataFiles[i] = anchor(path)
	}
}

// EngineOptions returns the options needed to construct an engine matching
// the configuration. Folders and data are registered by Apply. Executor
// options are applied after the configured ones.
func (c *Config) EngineOptions(executorOptions ...pongo.Option) []plates.Option {
	ext := c.Extension
	if c.NoExtension {
		ext = ""
	}
	executor := append([]pongo.Option{
		pongo.WithTrimBlocks(c.TrimBlocks),
		pongo.WithLStripBlocks(c.LStripBlocks),
	}, executorOptions...)
	return []plates.Option{
		plates.WithDirectory(c.Directories...),
		plates.WithFileExtension(ext),
		plates.WithExecutor(pongo.New(executor...)),
	}
}

// Apply registers the configured folders, data and data files with engine.
// Directories and extension are only changed when set.
func (c *Config) Apply(engine *plates.Engine) error {
	if len(c.Directories) > 0 {
		engine.SetDirectory(c.Directories...)
	}
	switch {
	case c.NoExtension:
		engine.SetFileExtension("")
	case c.Extension != "":
		engine.SetFileExtension(c.Extension)
	}

	for _, folder := range c.Folders {
		if err := engine.AddFolder(folder.Name, folder.Path, folder.Fallback); err != nil {
			return fmt.Errorf("config: folder %q: %w", folder.Name, err)
		}
	}
	if len(c.Data) > 0 {
		if err := engine.AddData(c.Data, nil); err != nil {
			return fmt.Errorf("config: data: %w", err)
		}
	}
	for name, vars := range c.Templates {
		if err := engine.AddData(vars, name); err != nil {
			return fmt.Errorf("config: data for %q: %w", name, err)
		}
	}
	for _, path := range c.DataFiles {
		if err := engine.Data().LoadDataFile(path); err != nil {
			return fmt.Errorf("config: data file: %w", err)
		}
	}
	return nil
}
