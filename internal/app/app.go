package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/five82/blackconnect/internal/blackd"
	"github.com/five82/blackconnect/internal/config"
)

// Options configure every BlackConnect entry point.
type Options struct {
	ConfigPath string
	Host       string // overrides hostname from the config file when set
	Port       int    // overrides port from the config file when positive
	Logger     *slog.Logger
	Out        io.Writer
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

// LoadSettings reads the config file and applies command line overrides.
func LoadSettings(opts Options) (config.Settings, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Settings{}, fmt.Errorf("load config: %w", err)
	}
	if opts.Host != "" {
		cfg.Hostname = opts.Host
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}
	if err := cfg.Validate(); err != nil {
		return config.Settings{}, err
	}
	return cfg, nil
}

// Check probes the configured daemon.
func Check(ctx context.Context, opts Options) (blackd.Connectivity, error) {
	cfg, err := LoadSettings(opts)
	if err != nil {
		return blackd.Connectivity{}, err
	}
	opts.logger().Debug("probing blackd", "url", cfg.BaseURL())
	return blackd.CheckConnection(ctx, cfg.Hostname, cfg.Port), nil
}

// ErrConfigExists is returned by Init when the config file is already present.
var ErrConfigExists = errors.New("config file already exists")

// Init writes the default settings to path and returns the resolved location.
func Init(path string, force bool) (string, error) {
	resolved, err := config.ResolvePath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(resolved); err == nil && !force {
		return resolved, fmt.Errorf("%w: %s", ErrConfigExists, resolved)
	}
	if err := config.Save(resolved, config.Default()); err != nil {
		return "", err
	}
	return resolved, nil
}

// settingsSource re-reads the config file for every request and keeps the
// last good settings when the file becomes unreadable.
type settingsSource struct {
	opts   Options
	logger *slog.Logger

	mu   sync.Mutex
	last config.Settings
}

func newSettingsSource(opts Options, initial config.Settings) *settingsSource {
	return &settingsSource{opts: opts, logger: opts.logger(), last: initial}
}

func (s *settingsSource) Current() config.Settings {
	cfg, err := LoadSettings(s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("keeping previous settings", "error", err)
		return s.last
	}
	s.last = cfg
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
