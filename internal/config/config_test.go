package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load = %#v, want defaults %#v", cfg, Default())
	}
	if cfg.BaseURL() != "http://localhost:45484" {
		t.Fatalf("BaseURL = %q, want http://localhost:45484", cfg.BaseURL())
	}
	if !cfg.ShowSyntaxErrorMsgs {
		t.Fatalf("ShowSyntaxErrorMsgs default = false, want true")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
hostname = "  10.0.0.5  "
port = 9999
line_length = 120
fast_mode = true
skip_string_normalization = true
target_specific_versions = true
python_targets = " py38, py39 "
show_syntax_error_msgs = false
enable_jupyter_support = true
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Hostname != "10.0.0.5" || cfg.Port != 9999 || cfg.LineLength != 120 {
		t.Fatalf("Load = %#v, want host/port/line length parsed", cfg)
	}
	if !cfg.FastMode || !cfg.SkipStringNormalization || cfg.ShowSyntaxErrorMsgs || !cfg.EnableJupyterSupport {
		t.Fatalf("Load = %#v, want boolean flags parsed", cfg)
	}
	// Only the ends are trimmed; the list itself goes to blackd verbatim.
	if cfg.TargetVersions() != "py38, py39" {
		t.Fatalf("TargetVersions = %q, want %q", cfg.TargetVersions(), "py38, py39")
	}
	if cfg.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want default %q", cfg.Theme, defaultTheme)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
hostname = "   "
port = 0
line_length = 0
theme = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Hostname != defaultHostname || cfg.Port != defaultPort || cfg.LineLength != 88 || cfg.Theme != defaultTheme {
		t.Fatalf("Load = %#v, want defaults for empty values", cfg)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`hostname = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestSave_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Port = 1234
	want.FastMode = true
	want.TargetSpecificVersions = true
	want.PythonTargets = "py311"
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Fatalf("Load after Save = %#v, want %#v", got, want)
	}
}

func TestTargetVersions_RequiresFlag(t *testing.T) {
	cfg := Default()
	cfg.PythonTargets = "py38"
	if got := cfg.TargetVersions(); got != "" {
		t.Fatalf("TargetVersions = %q with targeting disabled, want empty", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"empty host", func(s *Settings) { s.Hostname = " " }, true},
		{"port zero", func(s *Settings) { s.Port = 0 }, true},
		{"port too large", func(s *Settings) { s.Port = 70000 }, true},
		{"negative line length", func(s *Settings) { s.LineLength = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestResolvePath_DefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ResolvePath("")
	if err != nil {
		t.Fatalf("ResolvePath returned error: %v", err)
	}
	want := filepath.Join(home, ".config", "blackconnect", "config.toml")
	if got != want {
		t.Fatalf("ResolvePath = %q, want %q", got, want)
	}
}
