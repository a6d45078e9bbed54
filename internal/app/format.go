package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/blackconnect/internal/blackd"
	"github.com/five82/blackconnect/internal/config"
	"github.com/five82/blackconnect/internal/document"
	"github.com/five82/blackconnect/internal/reformat"
	"github.com/five82/blackconnect/internal/state"
)

// ErrFormatFailed is returned by Format when at least one file could not be
// reformatted.
var ErrFormatFailed = errors.New("some files could not be reformatted")

// FormatOptions configure a batch reformat.
type FormatOptions struct {
	Options
	Files []string
	// DryRun reformats in memory only; nothing is written back.
	DryRun bool
	// Timeout bounds each blackd call. Zero leaves calls unbounded.
	Timeout time.Duration
}

// Summary counts how each file ended up.
type Summary struct {
	Reformatted int
	Unchanged   int
	Failed      int
	Cancelled   int
	Skipped     int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d reformatted, %d unchanged, %d failed, %d cancelled, %d skipped",
		s.Reformatted, s.Unchanged, s.Failed, s.Cancelled, s.Skipped)
}

type formatJob struct {
	buf *document.Buffer
	op  *reformat.Operation
}

// Format reformats files through blackd. Results are applied on a single
// event loop goroutine and written back unless DryRun is set.
func Format(ctx context.Context, opts FormatOptions) (Summary, error) {
	cfg, err := LoadSettings(opts.Options)
	if err != nil {
		return Summary{}, err
	}
	logger := opts.logger()
	out := &syncWriter{w: opts.out()}

	client, err := blackd.NewClient(cfg.BaseURL(), blackd.WithLogger(logger))
	if err != nil {
		return Summary{}, fmt.Errorf("init blackd client: %w", err)
	}

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	loop := NewLoop(len(opts.Files))
	go loop.Run(loopCtx)

	var summary Summary
	wf, err := reformat.New(reformat.Options{
		Client:   client,
		Registry: state.NewRegistry(),
		Settings: func() config.Settings { return cfg },
		Notifier: reformat.NotifierFunc(func(n reformat.Notification) {
			out.printf("%s: %s: %s\n", n.Title, n.DocumentID, n.Message)
		}),
		Dispatch: loop.Dispatch,
		Logger:   logger,
	})
	if err != nil {
		return Summary{}, err
	}

	callCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var jobs []formatJob
	for _, path := range opts.Files {
		buf, err := document.Open(path)
		if err != nil {
			out.printf("%v\n", err)
			summary.Failed++
			continue
		}
		if !reformat.Supported(buf.Name(), buf.LanguageID(), cfg.EnableJupyterSupport) {
			logger.Info("skipping unsupported file", "file", path)
			summary.Skipped++
			continue
		}
		op, err := wf.Process(callCtx, buf)
		if err != nil {
			return summary, err
		}
		jobs = append(jobs, formatJob{buf: buf, op: op})
	}

	var g errgroup.Group
	for _, job := range jobs {
		g.Go(func() error {
			phase, err := job.op.Wait(ctx)
			if err != nil {
				return err
			}
			if phase != state.PhaseApplying || opts.DryRun || !job.buf.Dirty() {
				return nil
			}
			return job.buf.Save()
		})
	}
	waitErr := g.Wait()

	for _, job := range jobs {
		summary.add(job, out, opts.DryRun)
	}
	if waitErr != nil {
		return summary, waitErr
	}
	if summary.Failed > 0 {
		return summary, ErrFormatFailed
	}
	return summary, nil
}

func (s *Summary) add(job formatJob, out *syncWriter, dryRun bool) {
	select {
	case <-job.op.Done():
	default:
		s.Cancelled++
		return
	}
	switch job.op.Phase() {
	case state.PhaseApplying:
		s.Reformatted++
		verb := "reformatted"
		if dryRun {
			verb = "would reformat"
		}
		out.printf("%s %s\n", verb, job.buf.Path())
	case state.PhaseDiscarded:
		s.Cancelled++
	default:
		if outcome, ok := job.op.Outcome(); ok && !outcome.IsError() {
			s.Unchanged++
			return
		}
		s.Failed++
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, format, args...)
}
