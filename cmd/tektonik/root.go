package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	tektonik "github.com/goliatone/go-tektonik"
	"github.com/goliatone/go-tektonik/internal/logging"
	"github.com/goliatone/go-tektonik/pkg/config"
	"github.com/goliatone/go-tektonik/pkg/metrics"
	"github.com/goliatone/go-tektonik/pkg/plates"
	"github.com/goliatone/go-tektonik/pkg/render/template/pongo"
)

const fallbackSuffix = ":fallback"

type rootOptions struct {
	configPath  string
	dirs        []string
	ext         string
	noExt       bool
	folders     []string
	dataFiles   []string
	vars        []string
	verbosity   int
	metricsFile string
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tektonik",
		Short:         "Resolve and render templates by logical name",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetupLogger(cmd.ErrOrStderr(), opts.verbosity)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (YAML or TOML)")
	flags.StringArrayVarP(&opts.dirs, "dir", "d", nil, "default template directory, repeatable, earlier wins")
	flags.StringVar(&opts.ext, "ext", "", "template file extension")
	flags.BoolVar(&opts.noExt, "no-ext", false, "use identifiers verbatim as file names")
	flags.StringArrayVarP(&opts.folders, "folder", "f", nil, "namespace folder as name=path[:fallback], repeatable")
	flags.StringArrayVar(&opts.dataFiles, "data", nil, "JSON or YAML data file, repeatable")
	flags.StringArrayVar(&opts.vars, "var", nil, "template variable as key=value, repeatable")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "increase log verbosity")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write render metrics in Prometheus text format")

	cmd.AddCommand(
		newRenderCmd(opts),
		newPathCmd(opts),
		newExistsCmd(opts),
	)
	return cmd
}

// session is a configured host plus the registry its metrics land in.
type session struct {
	host     *tektonik.Host
	registry *prometheus.Registry
	opts     *rootOptions
}

func (o *rootOptions) session(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := o.overlay(cmd, cfg); err != nil {
		return nil, err
	}

	engineOptions := cfg.EngineOptions(pongo.WithLogger(logging.GetLogger("pongo")))
	s := &session{opts: o}
	if o.metricsFile != "" {
		s.registry = prometheus.NewRegistry()
		collector, err := metrics.New(s.registry)
		if err != nil {
			return nil, err
		}
		engineOptions = append(engineOptions, plates.WithObserver(collector))
	}

	s.host = tektonik.New(
		tektonik.WithEngineOptions(engineOptions...),
		tektonik.WithLogger(logging.Logger()),
		tektonik.WithInitHook(cfg.Apply),
	)
	return s, nil
}

// overlay applies command line flags over the loaded configuration.
func (o *rootOptions) overlay(cmd *cobra.Command, cfg *config.Config) error {
	if len(o.dirs) > 0 {
		cfg.Directories = o.dirs
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extension = o.ext
		cfg.NoExtension = o.ext == ""
	}
	if o.noExt {
		cfg.NoExtension = true
	}
	for _, raw := range o.folders {
		folder, err := parseFolder(raw)
		if err != nil {
			return err
		}
		cfg.Folders = append(cfg.Folders, folder)
	}
	cfg.DataFiles = append(cfg.DataFiles, o.dataFiles...)
	return nil
}

func (s *session) vars() (map[string]any, error) {
	out := make(map[string]any, len(s.opts.vars))
	for _, raw := range s.opts.vars {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", raw)
		}
		out[key] = value
	}
	return out, nil
}

func (s *session) flushMetrics() error {
	if s.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.opts.metricsFile, s.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func parseFolder(raw string) (config.FolderConfig, error) {
	name, path, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || path == "" {
		return config.FolderConfig{}, fmt.Errorf("invalid --folder %q, expected name=path[:fallback]", raw)
	}
	path, fallback := strings.CutSuffix(path, fallbackSuffix)
	return config.FolderConfig{Name: name, Path: path, Fallback: fallback}, nil
}
