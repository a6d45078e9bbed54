package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/blackconnect/internal/blackd"
	"github.com/five82/blackconnect/internal/document"
	"github.com/five82/blackconnect/internal/reformat"
	"github.com/five82/blackconnect/internal/state"
	"github.com/five82/blackconnect/internal/ui"
)

// TUIOptions configure the interactive host.
type TUIOptions struct {
	Options
	Files []string
	// ProbeEvery is the daemon probe interval; zero uses the default.
	ProbeEvery time.Duration
}

// RunTUI opens the files and runs the terminal UI until the user quits or
// the context is cancelled.
func RunTUI(ctx context.Context, opts TUIOptions) error {
	cfg, err := LoadSettings(opts.Options)
	if err != nil {
		return err
	}
	if opts.Logger == nil {
		// Anything written to the terminal would corrupt the alt screen.
		opts.Logger = discardLogger()
	}
	logger := opts.Logger

	var buffers []*document.Buffer
	for _, path := range opts.Files {
		buf, err := document.Open(path)
		if err != nil {
			return err
		}
		if !reformat.Supported(buf.Name(), buf.LanguageID(), cfg.EnableJupyterSupport) {
			logger.Info("skipping unsupported file", "file", path)
			continue
		}
		buffers = append(buffers, buf)
	}

	client, err := blackd.NewClient(cfg.BaseURL(), blackd.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init blackd client: %w", err)
	}

	// Requests and probes go to the daemon the settings name at call time.
	settings := newSettingsSource(opts.Options, cfg)
	store := &state.Store{}
	store.SetEndpoint(client.BaseURL())
	StartProber(ctx, store, settingsProber(settings.Current), opts.ProbeEvery, logger)

	bridge := ui.NewBridge()
	wf, err := reformat.New(reformat.Options{
		Client:   client,
		Registry: state.NewRegistry(),
		Settings: settings.Current,
		Notifier: bridge,
		Dispatch: bridge.Dispatch,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	return ui.Run(ctx, ui.Options{
		Context:   ctx,
		Workflow:  wf,
		Bridge:    bridge,
		Store:     store,
		Buffers:   buffers,
		Settings:  settings.Current,
		Endpoint:  client.BaseURL(),
		ThemeName: cfg.Theme,
	})
}
