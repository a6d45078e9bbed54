package reformat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/five82/blackconnect/internal/blackd"
	"github.com/five82/blackconnect/internal/config"
	"github.com/five82/blackconnect/internal/state"
)

// EditLabel names the undo step a successful reformat creates.
const EditLabel = "Reformat code using blackd"

// NotificationTitle is the title of every notification the workflow raises.
const NotificationTitle = "BlackConnect"

// ErrNoDocument is returned by Process for a missing document or one
// without a stable identity.
var ErrNoDocument = errors.New("no document to reformat")

// Document is the host's text buffer.
type Document interface {
	// ID is a stable identity such as an absolute path.
	ID() string
	Name() string
	Text() string
	// ReplaceText swaps the whole content as one labeled, undoable edit.
	ReplaceText(text, label string) error
}

// Notification is a user-facing error message.
type Notification struct {
	Title      string
	Message    string
	DocumentID string
}

// Notifier displays notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Dispatcher runs fn on the single context allowed to mutate documents. It
// must not block waiting for fn to finish.
type Dispatcher func(fn func())

// Options wire a Workflow to its collaborators.
type Options struct {
	Client   blackd.Formatter
	Registry *state.Registry
	// Settings is read once per request so edits to configuration apply to
	// the next reformat.
	Settings func() config.Settings
	Notifier Notifier
	Dispatch Dispatcher
	Logger   *slog.Logger
}

// Workflow runs reformat requests in the background and applies their result
// on the document-owning context.
type Workflow struct {
	client   blackd.Formatter
	registry *state.Registry
	settings func() config.Settings
	notifier Notifier
	dispatch Dispatcher
	logger   *slog.Logger
}

// New validates opts and returns a Workflow.
func New(opts Options) (*Workflow, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("reformat workflow requires a blackd client")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("reformat workflow requires an operation registry")
	}
	if opts.Settings == nil {
		return nil, fmt.Errorf("reformat workflow requires a settings source")
	}
	if opts.Dispatch == nil {
		return nil, fmt.Errorf("reformat workflow requires a dispatcher")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(n Notification) {
			logger.Warn(n.Message, "title", n.Title, "doc", n.DocumentID)
		})
	}
	return &Workflow{
		client:   opts.Client,
		registry: opts.Registry,
		settings: opts.Settings,
		notifier: notifier,
		dispatch: opts.Dispatch,
		logger:   logger,
	}, nil
}

// Registry returns the registry operations are tracked in.
func (w *Workflow) Registry() *state.Registry { return w.registry }

// Operation is a running or finished reformat.
type Operation struct {
	*state.Handle

	mu      sync.Mutex
	outcome Outcome
	has     bool
}

// Outcome returns the interpreted blackd response. ok is false when the
// operation was discarded before a response was interpreted.
func (op *Operation) Outcome() (Outcome, bool) {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.outcome, op.has
}

func (op *Operation) setOutcome(o Outcome) {
	op.mu.Lock()
	op.outcome = o
	op.has = true
	op.mu.Unlock()
}

// Wait blocks until the operation is terminal or ctx ends.
func (op *Operation) Wait(ctx context.Context) (state.Phase, error) {
	select {
	case <-op.Done():
		return op.Phase(), nil
	case <-ctx.Done():
		return op.Phase(), ctx.Err()
	}
}

// request is the immutable snapshot a background run works from.
type request struct {
	doc  Document
	call blackd.Request
	cfg  config.Settings
}

// Process snapshots doc and the current settings and reformats in the
// background. A previous operation on the same document is cancelled.
// ctx bounds the blackd call; cancelling the returned operation does not.
func (w *Workflow) Process(ctx context.Context, doc Document) (*Operation, error) {
	op, req, err := w.start(doc)
	if err != nil {
		return nil, err
	}
	go w.run(ctx, op, req)
	return op, nil
}

// Cancel cancels the tracked operation for documentID.
func (w *Workflow) Cancel(documentID string) bool {
	return w.registry.Cancel(documentID)
}

func (w *Workflow) start(doc Document) (*Operation, request, error) {
	if doc == nil || doc.ID() == "" {
		return nil, request{}, ErrNoDocument
	}
	cfg := w.settings()
	name := doc.Name()
	req := request{
		doc: doc,
		cfg: cfg,
		call: blackd.Request{
			Endpoint: cfg.BaseURL(),
			Source:   doc.Text(),
			Options: blackd.Options{
				Pyi:                     isStubFile(name),
				LineLength:              cfg.LineLength,
				FastMode:                cfg.FastMode,
				SkipStringNormalization: cfg.SkipStringNormalization,
				TargetVersions:          cfg.TargetVersions(),
			},
		},
	}

	op := &Operation{Handle: state.NewHandle(doc.ID())}
	op.Advance(state.PhaseRequested)
	if prev := w.registry.Register(doc.ID(), op.Handle); prev != nil {
		prev.Cancel()
		w.logger.Debug("superseded reformat", "doc", doc.ID(), "op", prev.ID())
	}
	w.logger.Debug("reformat requested", "doc", doc.ID(), "op", op.ID(), "file", name)
	return op, req, nil
}

func (w *Workflow) run(ctx context.Context, op *Operation, req request) {
	docID := req.doc.ID()
	if op.Cancelled() {
		w.discard(op, "cancelled before calling blackd")
		return
	}

	op.Advance(state.PhaseAwaitingResponse)
	resp := w.client.Format(ctx, req.call)

	if op.Cancelled() {
		w.discard(op, "cancelled after calling blackd")
		return
	}

	outcome := Interpret(resp.StatusCode, resp.Body)
	op.setOutcome(outcome)
	w.logger.Debug("blackd responded", "doc", docID, "op", op.ID(), "status", resp.StatusCode, "outcome", outcome.Kind)

	if outcome.Kind != KindApply {
		w.report(op, req, outcome)
		return
	}

	op.Advance(state.PhaseApplying)
	w.dispatch(func() { w.apply(op, req, outcome.Body) })
}

// apply runs on the document-owning context.
func (w *Workflow) apply(op *Operation, req request, text string) {
	if op.Cancelled() {
		w.discard(op, "cancelled before updating the document")
		return
	}
	if err := req.doc.ReplaceText(text, EditLabel); err != nil {
		failed := Outcome{Kind: KindUnexpectedError, StatusCode: op.outcomeStatus(), Body: err.Error()}
		op.setOutcome(failed)
		w.report(op, req, failed)
		return
	}
	w.logger.Debug("document reformatted", "doc", req.doc.ID(), "op", op.ID())
	w.finish(op, state.PhaseApplying)
}

func (w *Workflow) report(op *Operation, req request, outcome Outcome) {
	if outcome.ShouldNotify(req.cfg.ShowSyntaxErrorMsgs) {
		w.notifier.Notify(Notification{
			Title:      NotificationTitle,
			Message:    outcome.Message(),
			DocumentID: req.doc.ID(),
		})
	}
	w.finish(op, state.PhaseReported)
}

func (w *Workflow) discard(op *Operation, reason string) {
	w.logger.Debug("reformat discarded", "doc", op.DocumentID(), "op", op.ID(), "reason", reason)
	w.finish(op, state.PhaseDiscarded)
}

func (w *Workflow) finish(op *Operation, phase state.Phase) {
	w.registry.Complete(op.DocumentID(), op.Handle)
	op.Finish(phase)
}

func (op *Operation) outcomeStatus() int {
	o, _ := op.Outcome()
	return o.StatusCode
}
