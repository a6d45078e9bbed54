package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/blackconnect/internal/blackd"
)

// ErrInvalid is returned by Validate for settings that cannot be sent to blackd.
var ErrInvalid = errors.New("invalid settings")

// Settings captures everything the reformat workflow reads from configuration.
type Settings struct {
	Hostname                string `toml:"hostname"`
	Port                    int    `toml:"port"`
	LineLength              int    `toml:"line_length"`
	FastMode                bool   `toml:"fast_mode"`
	SkipStringNormalization bool   `toml:"skip_string_normalization"`
	TargetSpecificVersions  bool   `toml:"target_specific_versions"`
	PythonTargets           string `toml:"python_targets"`
	ShowSyntaxErrorMsgs     bool   `toml:"show_syntax_error_msgs"`
	TriggerOnSave           bool   `toml:"trigger_on_save"`
	EnableJupyterSupport    bool   `toml:"enable_jupyter_support"`
	Theme                   string `toml:"theme"`
}

const (
	defaultConfigPath = "~/.config/blackconnect/config.toml"
	defaultHostname   = "localhost"
	defaultPort       = 45484
	defaultTheme      = "Dracula"
)

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		Hostname:            defaultHostname,
		Port:                defaultPort,
		LineLength:          blackd.DefaultLineLength,
		ShowSyntaxErrorMsgs: true,
		Theme:               defaultTheme,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Settings, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Settings{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}

	// Decoding on top of the defaults keeps absent keys at their default value.
	cfg := Default()
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes settings to path, creating directories as needed.
func Save(path string, cfg Settings) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	bytes, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports settings blackd could not be called with.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Hostname) == "" {
		return fmt.Errorf("%w: hostname is empty", ErrInvalid)
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, s.Port)
	}
	if s.LineLength <= 0 {
		return fmt.Errorf("%w: line_length must be positive, got %d", ErrInvalid, s.LineLength)
	}
	return nil
}

// BaseURL returns the blackd URL for these settings.
func (s Settings) BaseURL() string {
	return blackd.Address(s.Hostname, s.Port)
}

// TargetVersions returns the python targets to send, or "" when targeting is off.
func (s Settings) TargetVersions() string {
	if !s.TargetSpecificVersions {
		return ""
	}
	return s.PythonTargets
}

func (s *Settings) normalize() {
	s.Hostname = strings.TrimSpace(s.Hostname)
	if s.Hostname == "" {
		s.Hostname = defaultHostname
	}
	if s.Port == 0 {
		s.Port = defaultPort
	}
	if s.LineLength == 0 {
		s.LineLength = blackd.DefaultLineLength
	}
	s.PythonTargets = strings.TrimSpace(s.PythonTargets)
	s.Theme = strings.TrimSpace(s.Theme)
	if s.Theme == "" {
		s.Theme = defaultTheme
	}
}

// ResolvePath expands path, or the default location when path is empty.
func ResolvePath(path string) (string, error) {
	return resolvePath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
