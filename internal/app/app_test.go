package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/blackconnect/internal/blackd"
	"github.com/five82/blackconnect/internal/config"
)

// fakeBlackd formats "x=1" and reports anything containing "(" as a syntax error.
func fakeBlackd(t *testing.T) (host string, port int) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(blackd.HeaderBlackVersion, "24.3.0")
		body, _ := io.ReadAll(r.Body)
		src := string(body)
		switch {
		case len(body) == 0:
			w.WriteHeader(http.StatusNoContent)
		case strings.Contains(src, "("):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Cannot parse"))
		case src == "x=1":
			_, _ = w.Write([]byte("x = 1\n"))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	h, p, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err = strconv.Atoi(p)
	require.NoError(t, err)
	return h, port
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func baseOptions(t *testing.T, host string, port int, out io.Writer) Options {
	return Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Host:       host,
		Port:       port,
		Out:        out,
	}
}

func TestFormat_WritesResultsAndSummarizes(t *testing.T) {
	host, port := fakeBlackd(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.py", "x=1")
	broken := writeFile(t, dir, "broken.py", "x = (")
	clean := writeFile(t, dir, "clean.pyi", "y = 2\n")
	notes := writeFile(t, dir, "notes.txt", "x=1")

	var out bytes.Buffer
	summary, err := Format(context.Background(), FormatOptions{
		Options: baseOptions(t, host, port, &out),
		Files:   []string{good, broken, clean, notes},
	})
	require.ErrorIs(t, err, ErrFormatFailed)

	assert.Equal(t, Summary{Reformatted: 1, Unchanged: 1, Failed: 1, Skipped: 1}, summary)

	data, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))

	data, err = os.ReadFile(broken)
	require.NoError(t, err)
	assert.Equal(t, "x = (", string(data))

	data, err = os.ReadFile(notes)
	require.NoError(t, err)
	assert.Equal(t, "x=1", string(data), "unsupported files are never sent")

	assert.Contains(t, out.String(), "Source code contained syntax errors.")
	assert.Contains(t, out.String(), "reformatted "+good)
}

func TestFormat_DryRunLeavesFiles(t *testing.T) {
	host, port := fakeBlackd(t)
	good := writeFile(t, t.TempDir(), "good.py", "x=1")

	var out bytes.Buffer
	summary, err := Format(context.Background(), FormatOptions{
		Options: baseOptions(t, host, port, &out),
		Files:   []string{good},
		DryRun:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Reformatted)

	data, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "x=1", string(data))
	assert.Contains(t, out.String(), "would reformat "+good)
}

func TestFormat_DaemonDownReportsFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	good := writeFile(t, t.TempDir(), "good.py", "x=1")
	var out bytes.Buffer
	summary, err := Format(context.Background(), FormatOptions{
		Options: baseOptions(t, "127.0.0.1", port, &out),
		Files:   []string{good},
	})
	require.ErrorIs(t, err, ErrFormatFailed)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, out.String(), "Something unexpected happened")
}

func TestCheck_ReportsVersion(t *testing.T) {
	host, port := fakeBlackd(t)
	got, err := Check(context.Background(), baseOptions(t, host, port, io.Discard))
	require.NoError(t, err)
	assert.True(t, got.Reachable)
	assert.Equal(t, "24.3.0", got.Detail)
}

func TestLoadSettings_AppliesOverridesAndValidates(t *testing.T) {
	cfg, err := LoadSettings(Options{ConfigPath: filepath.Join(t.TempDir(), "none.toml"), Host: "blackd.local", Port: 9000})
	require.NoError(t, err)
	assert.Equal(t, "http://blackd.local:9000", cfg.BaseURL())

	path := writeFile(t, t.TempDir(), "config.toml", "line_length = -5\n")
	_, err = LoadSettings(Options{ConfigPath: path})
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackconnect", "config.toml")

	resolved, err := Init(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = Init(path, false)
	require.True(t, errors.Is(err, ErrConfigExists))

	_, err = Init(path, true)
	require.NoError(t, err)
}

func TestSettingsSource_KeepsLastGood(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "line_length = 100\n")
	opts := Options{ConfigPath: path, Logger: discardLogger()}

	initial, err := LoadSettings(opts)
	require.NoError(t, err)
	src := newSettingsSource(opts, initial)
	assert.Equal(t, 100, src.Current().LineLength)

	require.NoError(t, os.WriteFile(path, []byte("line_length = 120\n"), 0o600))
	assert.Equal(t, 120, src.Current().LineLength)

	require.NoError(t, os.WriteFile(path, []byte("line_length = ["), 0o600))
	assert.Equal(t, 120, src.Current().LineLength)
}
